package dto

type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"` // auto-generated from Name if empty
}

// UpdateCategoryDTO — all fields are optional pointers
type UpdateCategoryDTO struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}
