package dto

// UpdateCartDTO mirrors the full client-held cart map. Version is the
// client's monotonic sync counter; the server ignores stale versions so
// out-of-order fire-and-forget syncs cannot regress the mirror.
type UpdateCartDTO struct {
	CartItems map[string]int `json:"cartItems" binding:"required"`
	Version   int64          `json:"version" binding:"required,gt=0"`
}
