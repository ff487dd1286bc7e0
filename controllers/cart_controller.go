package controllers

import (
	"net/http"

	"github.com/farmpick/backend/database"
	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/logger"
	"github.com/farmpick/backend/models"
	"github.com/farmpick/backend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// UpdateCart : /api/cart/update — mirrors the full client cart map onto the
// user document. The client is the source of truth during a session, so this
// always overwrites — but only when the sync version is newer than the one
// already stored, which keeps out-of-order fire-and-forget syncs inert.
func UpdateCart(cache *database.CartCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var body dto.UpdateCartDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "cartItems and version are required"})
			return
		}

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		pruned := utils.PruneCart(body.CartItems)

		res, err := usersCol.UpdateOne(ctx,
			bson.M{"_id": userID, "cartVersion": bson.M{"$lt": body.Version}},
			bson.M{"$set": bson.M{
				"cartItems":   pruned,
				"cartVersion": body.Version,
			}},
		)
		if err != nil {
			logger.Error(c, "cart update failed", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			// Stale sync or unknown user; the newer state already won.
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart Up To Date"})
			return
		}

		if err := cache.Set(ctx, userID.Hex(), pruned, body.Version); err != nil {
			logger.Error(c, "cart cache write failed", err, zap.String("user", userID.Hex()))
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart Updated"})
	}
}

// GetCart : /api/cart/get — cache first, user document second.
func GetCart(cache *database.CartCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		if items, _, ok := cache.Get(ctx, userID.Hex()); ok {
			c.JSON(http.StatusOK, gin.H{"success": true, "cartItems": items})
			return
		}

		var user models.User
		usersCol := database.OpenCollection("users")
		if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "User not found"})
			return
		}

		if err := cache.Set(ctx, userID.Hex(), user.CartItems, user.CartVersion); err != nil {
			logger.Error(c, "cart cache write failed", err)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cartItems": user.CartItems})
	}
}
