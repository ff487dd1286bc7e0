package controllers

import (
	"net/http"

	"github.com/farmpick/backend/database"
	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// AddAddress : /api/address/add
func AddAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("addresses")

		var body dto.CreateAddressDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "all address fields are required"})
			return
		}

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		address := models.Address{
			UserID:    userID,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Email:     body.Email,
			Street:    body.Street,
			City:      body.City,
			State:     body.State,
			Zipcode:   body.Zipcode,
			Country:   body.Country,
			Phone:     body.Phone,
		}

		if _, err := col.InsertOne(ctx, address); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address added successfully"})
	}
}

// GetAddresses : /api/address/get
func GetAddresses() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("addresses")

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		cursor, err := col.Find(ctx, bson.M{"userId": userID})
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		addresses := make([]models.Address, 0)
		if err := cursor.All(ctx, &addresses); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
	}
}
