package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/farmpick/backend/database"
	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/logger"
	"github.com/farmpick/backend/models"
	"github.com/farmpick/backend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// issueUserSession signs an access token for the user and sets the session
// cookie, answering the request itself when signing fails.
func issueUserSession(c *gin.Context, user models.User, secret string) bool {
	token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), secret, utils.AccessTTL())
	if err != nil {
		logger.Error(c, "token generation failed", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "login failed"})
		return false
	}
	utils.SetAuthCookie(c, "token", token, utils.AccessTTL())
	return true
}

// Register : /api/user/register
func Register(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Missing Details"})
			return
		}

		usersCol := database.OpenCollection("users")
		email := strings.ToLower(strings.TrimSpace(body.Email))

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		now := time.Now().UTC()
		user := models.User{
			Name:         body.Name,
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleUser,
			CartItems:    map[string]int{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := usersCol.InsertOne(ctx, user)
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "User already exists"})
				return
			}
			logger.Error(c, "register insert failed", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		user.ID = res.InsertedID.(bson.ObjectID)
		if !issueUserSession(c, user, secret) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

// Login : /api/user/login
func Login(secret string) gin.HandlerFunc {
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
		if err := usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}

		if !issueUserSession(c, user, secret) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

// IsAuth : /api/user/is-auth — returns the session user, cart mirror included.
func IsAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		var user models.User
		usersCol := database.OpenCollection("users")
		if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

// Logout : /api/user/logout
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ClearAuthCookie(c, "token")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged Out"})
	}
}
