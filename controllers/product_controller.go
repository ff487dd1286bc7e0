package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/farmpick/backend/database"
	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/logger"
	"github.com/farmpick/backend/models"
	"github.com/farmpick/backend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AddProduct : /api/product/add — multipart "productData" JSON + "images"
// files. Images are uploaded to the asset host first; if the insert fails
// afterwards the uploaded objects are deleted best-effort.
func AddProduct(store utils.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		jsonData := c.PostForm("productData")
		if jsonData == "" {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "missing productData"})
			return
		}

		body, err := ParseProductData(jsonData)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		categoryID, err := bson.ObjectIDFromHex(body.Category)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid category id"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid multipart form"})
			return
		}
		files := form.File["images"]

		imageUrls, objectNames, err := store.UploadImages(ctx, utils.GenerateSlug(body.Name), files)
		if err != nil {
			// Some objects may have landed before the failure.
			if len(objectNames) > 0 {
				_ = store.DeleteObjects(ctx, objectNames)
			}
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		inStock := true
		if body.InStock != nil {
			inStock = *body.InStock
		}

		now := time.Now().UTC()
		product := models.Product{
			Name:        body.Name,
			Description: body.Description,
			Image:       imageUrls,
			Category:    categoryID,
			Variants:    body.Variants,
			InStock:     inStock,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := collection.InsertOne(ctx, product); err != nil {
			_ = store.DeleteObjects(ctx, objectNames)
			logger.Error(c, "product insert failed", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product Added"})
	}
}

// ProductList : /api/product/list — products with their category populated.
// An optional inStock query narrows the listing to one stock state.
func ProductList() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		productsCol := database.OpenCollection("products")
		categoriesCol := database.OpenCollection("categories")

		filter := bson.M{}
		inStock, err := utils.ParseBoolQuery(c.Query("inStock"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid inStock filter"})
			return
		}
		if inStock != nil {
			filter["inStock"] = *inStock
		}

		findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := productsCol.Find(ctx, filter, findOpts)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		catCursor, err := categoriesCol.Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		defer catCursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := catCursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		byID := make(map[bson.ObjectID]models.Category, len(categories))
		for _, cat := range categories {
			byID[cat.Id] = cat
		}

		populated := make([]dto.ProductWithCategory, 0, len(products))
		for _, p := range products {
			entry := dto.ProductWithCategory{Product: p}
			if cat, ok := byID[p.Category]; ok {
				entry.Category = &cat
			}
			populated = append(populated, entry)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "products": populated})
	}
}

// ProductByID : /api/product/id
func ProductByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		id := c.Query("id")
		if id == "" {
			var body struct {
				ID string `json:"id"`
			}
			_ = c.ShouldBindJSON(&body)
			id = body.ID
		}

		prodID, err := bson.ObjectIDFromHex(id)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		var product models.Product
		if err := collection.FindOne(ctx, bson.M{"_id": prodID}).Decode(&product); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

// ChangeStock : /api/product/stock — a plain $set, idempotent by nature.
func ChangeStock() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		var body dto.ChangeStockDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "id and inStock are required"})
			return
		}

		prodID, err := bson.ObjectIDFromHex(body.ID)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		res, err := collection.UpdateByID(ctx, prodID, bson.M{"$set": bson.M{
			"inStock":   *body.InStock,
			"updatedAt": time.Now().UTC(),
		}})
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Stock Updated"})
	}
}

// EditProduct : /api/product/edit — same multipart shape as add, but images
// are optional: no uploaded files means the stored references stay untouched.
func EditProduct(store utils.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		idHex := c.PostForm("id")
		prodID, err := bson.ObjectIDFromHex(idHex)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		dataStr := c.PostForm("productData")
		if dataStr == "" {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "missing productData"})
			return
		}

		var body dto.UpdateProductDTO
		if err := json.Unmarshal([]byte(dataStr), &body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid productData json"})
			return
		}

		var product models.Product
		if err := collection.FindOne(ctx, bson.M{"_id": prodID}).Decode(&product); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Product not found"})
			return
		}

		var newFiles []*multipart.FileHeader
		if form, err := c.MultipartForm(); err == nil && form != nil {
			newFiles = form.File["images"]
		}

		var imageUrls, objectNames []string
		if len(newFiles) > 0 {
			prefix := utils.GenerateSlug(product.Name)
			if body.Name != nil {
				prefix = utils.GenerateSlug(*body.Name)
			}
			imageUrls, objectNames, err = store.UploadImages(ctx, prefix, newFiles)
			if err != nil {
				if len(objectNames) > 0 {
					_ = store.DeleteObjects(ctx, objectNames)
				}
				c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
				return
			}
		}

		set, err := BuildProductUpdate(body, imageUrls)
		if err != nil {
			_ = store.DeleteObjects(ctx, objectNames)
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		if len(set) == 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "no updates provided"})
			return
		}
		set["updatedAt"] = time.Now().UTC()

		if _, err := collection.UpdateByID(ctx, prodID, bson.M{"$set": set}); err != nil {
			// DB write failed after upload: remove the new objects.
			if len(objectNames) > 0 {
				_ = store.DeleteObjects(ctx, objectNames)
			}
			logger.Error(c, "product update failed", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		// New images replaced the old set; the old objects are orphans now.
		if len(imageUrls) > 0 {
			oldObjects := make([]string, 0, len(product.Image))
			for _, u := range product.Image {
				if obj, err := utils.ObjectNameFromPublicURL(u); err == nil {
					oldObjects = append(oldObjects, obj)
				}
			}
			_ = store.DeleteObjects(ctx, oldObjects)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product Updated"})
	}
}

// DeleteProduct : /api/product/delete/:id
func DeleteProduct(store utils.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		prodID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		var product models.Product
		if err := collection.FindOne(ctx, bson.M{"_id": prodID}).Decode(&product); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Product not found"})
			return
		}

		if _, err := collection.DeleteOne(ctx, bson.M{"_id": prodID}); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		objects := make([]string, 0, len(product.Image))
		for _, u := range product.Image {
			if obj, err := utils.ObjectNameFromPublicURL(u); err == nil {
				objects = append(objects, obj)
			}
		}
		_ = store.DeleteObjects(ctx, objects)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product Deleted"})
	}
}
