package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farmpick/backend/models"
	"github.com/farmpick/backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestIssueUserSessionSetsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/user/login", nil)

	user := models.User{
		ID:    bson.NewObjectID(),
		Email: "u@example.com",
		Role:  models.RoleUser,
	}

	require.True(t, issueUserSession(c, user, "test_secret"))

	var token string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			token = cookie.Value
		}
	}
	require.NotEmpty(t, token)

	claims, err := utils.ValidateToken(token, "test_secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, string(models.RoleUser), claims.Role)
}
