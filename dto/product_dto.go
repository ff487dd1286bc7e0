package dto

import "github.com/farmpick/backend/models"

// CreateProductDTO is parsed from the "productData" multipart field (JSON).
type CreateProductDTO struct {
	Name        string           `json:"name" binding:"required,min=2"`
	Description []string         `json:"description" binding:"required,min=1"`
	Category    string           `json:"category" binding:"required"`
	Variants    []models.Variant `json:"variants" binding:"required,min=1,dive"`
	InStock     *bool            `json:"inStock"`
}

// UpdateProductDTO — all fields are optional pointers; image changes are
// carried by the multipart "images" part, never inferred from here.
type UpdateProductDTO struct {
	Name        *string           `json:"name,omitempty"`
	Description *[]string         `json:"description,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Variants    *[]models.Variant `json:"variants,omitempty"`
	InStock     *bool             `json:"inStock,omitempty"`
}

type ChangeStockDTO struct {
	ID      string `json:"id" binding:"required"`
	InStock *bool  `json:"inStock" binding:"required"`
}

// ProductWithCategory is the list-endpoint shape: the outer Category field
// shadows the product's ObjectID ref with the resolved document.
type ProductWithCategory struct {
	models.Product
	Category *models.Category `json:"category"`
}
