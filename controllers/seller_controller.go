package controllers

import (
	"net/http"
	"strings"

	"github.com/farmpick/backend/database"
	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/models"
	"github.com/farmpick/backend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// SellerLogin : /api/seller/login — the seller account is seeded at boot.
func SellerLogin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Email and password are required"})
			return
		}

		var user models.User
		usersCol := database.OpenCollection("users")
		email := strings.ToLower(strings.TrimSpace(body.Email))
		err := usersCol.FindOne(ctx, bson.M{"email": email, "role": models.RoleSeller}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid Credentials"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid Credentials"})
			return
		}

		token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(models.RoleSeller), secret, utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "login failed"})
			return
		}
		utils.SetAuthCookie(c, "sellerToken", token, utils.AccessTTL())

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged In"})
	}
}

// SellerIsAuth : /api/seller/is-auth
func SellerIsAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// SellerLogout : /api/seller/logout
func SellerLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ClearAuthCookie(c, "sellerToken")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged Out"})
	}
}
