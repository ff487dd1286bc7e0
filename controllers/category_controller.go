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
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GetCategories : /api/category/all
func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := col.Find(ctx, bson.M{}, findOpts)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
	}
}

// AddCategory : /api/category/add (seller)
func AddCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		var body dto.CreateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "name is required"})
			return
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Slug = strings.TrimSpace(body.Slug)
		if body.Slug == "" {
			body.Slug = utils.GenerateSlug(body.Name)
		}

		doc := models.Category{
			Name: body.Name,
			Slug: body.Slug,
		}

		res, err := col.InsertOne(ctx, doc)
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "slug already exists"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "id": res.InsertedID})
	}
}

// UpdateCategory : /api/category/:id (seller)
func UpdateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		catID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid category id"})
			return
		}

		var body dto.UpdateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		set := bson.M{}
		if body.Name != nil {
			set["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Slug != nil {
			set["slug"] = strings.TrimSpace(*body.Slug)
		}
		if len(set) == 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "no updates provided"})
			return
		}

		res, err := col.UpdateByID(ctx, catID, bson.M{"$set": set})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "slug already exists"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category Updated"})
	}
}

// DeleteCategory : /api/category/:id (seller)
func DeleteCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")
		productsCol := database.OpenCollection("products")

		catID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid category id"})
			return
		}

		// Referenced, never embedded: block deletion while products point here.
		count, err := productsCol.CountDocuments(ctx, bson.M{"category": catID})
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		if count > 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "category still has products"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": catID})
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category Deleted"})
	}
}
