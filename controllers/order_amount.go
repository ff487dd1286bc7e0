package controllers

import (
	"fmt"

	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/models"
	"github.com/farmpick/backend/utils"
)

// ComputeOrderAmount prices an order from the live catalog: variant offer
// price times quantity per line, plus the 2% tax the storefront charges.
// Unlike the cart total, a line that no longer resolves is an error here —
// an order must never be priced from stale references.
func ComputeOrderAmount(items []dto.OrderItemDTO, products map[string]models.Product) (float64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("order has no items")
	}

	var subtotal float64
	for _, item := range items {
		if item.Quantity < 1 {
			return 0, fmt.Errorf("invalid quantity for product %s", item.Product)
		}
		product, ok := products[item.Product]
		if !ok {
			return 0, fmt.Errorf("product %s not found", item.Product)
		}
		variant := product.VariantAt(item.VariantIndex)
		if variant == nil {
			return 0, fmt.Errorf("product %s has no variant %d", item.Product, item.VariantIndex)
		}
		subtotal += variant.OfferPrice * float64(item.Quantity)
	}

	subtotal = utils.TruncateCents(subtotal)
	return utils.TruncateCents(subtotal * 1.02), nil
}
