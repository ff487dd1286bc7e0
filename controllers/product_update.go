package controllers

import (
	"encoding/json"
	"fmt"

	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/models"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParseProductData decodes the multipart "productData" JSON field and runs
// the same binding validation ShouldBindJSON applies to a request body.
func ParseProductData(raw string) (dto.CreateProductDTO, error) {
	var body dto.CreateProductDTO
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return body, fmt.Errorf("invalid productData json")
	}
	if err := binding.Validator.ValidateStruct(&body); err != nil {
		return body, fmt.Errorf("invalid productData")
	}
	if err := validateVariants(body.Variants); err != nil {
		return body, err
	}
	return body, nil
}

func validateVariants(variants []models.Variant) error {
	if len(variants) == 0 {
		return fmt.Errorf("at least one variant is required")
	}
	for i, v := range variants {
		if v.Unit == "" {
			return fmt.Errorf("variant %d: unit is required", i)
		}
		if v.Weight < 0 || v.Price < 0 || v.OfferPrice < 0 {
			return fmt.Errorf("variant %d: weight, price and offerPrice must be non-negative", i)
		}
	}
	return nil
}

// BuildProductUpdate turns an edit request into a $set document. Only fields
// the caller supplied appear; the image key is written only when new uploads
// exist, so an edit with zero new images leaves stored references untouched.
func BuildProductUpdate(body dto.UpdateProductDTO, newImageURLs []string) (bson.M, error) {
	set := bson.M{}

	if body.Name != nil {
		set["name"] = *body.Name
	}
	if body.Description != nil {
		set["description"] = *body.Description
	}
	if body.Category != nil {
		categoryID, err := bson.ObjectIDFromHex(*body.Category)
		if err != nil {
			return nil, fmt.Errorf("invalid category id")
		}
		set["category"] = categoryID
	}
	if body.Variants != nil {
		if err := validateVariants(*body.Variants); err != nil {
			return nil, err
		}
		set["variants"] = *body.Variants
	}
	if body.InStock != nil {
		set["inStock"] = *body.InStock
	}
	if len(newImageURLs) > 0 {
		set["image"] = newImageURLs
	}

	return set, nil
}
