package controllers

import (
	"testing"

	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func testProduct(offerPrices ...float64) models.Product {
	variants := make([]models.Variant, 0, len(offerPrices))
	for _, p := range offerPrices {
		variants = append(variants, models.Variant{Unit: "kg", Weight: 1, Price: p * 1.2, OfferPrice: p})
	}
	return models.Product{Id: bson.NewObjectID(), Name: "Test", Variants: variants, InStock: true}
}

func TestComputeOrderAmount(t *testing.T) {
	p := testProduct(50)
	products := map[string]models.Product{p.Id.Hex(): p}

	amount, err := ComputeOrderAmount([]dto.OrderItemDTO{
		{Product: p.Id.Hex(), VariantIndex: 0, Quantity: 2},
	}, products)

	require.NoError(t, err)
	// 2 × 50 = 100, plus 2% tax
	assert.Equal(t, 102.0, amount)
}

func TestComputeOrderAmountMultipleVariants(t *testing.T) {
	p := testProduct(10, 25)
	products := map[string]models.Product{p.Id.Hex(): p}

	amount, err := ComputeOrderAmount([]dto.OrderItemDTO{
		{Product: p.Id.Hex(), VariantIndex: 0, Quantity: 3},
		{Product: p.Id.Hex(), VariantIndex: 1, Quantity: 2},
	}, products)

	require.NoError(t, err)
	// 30 + 50 = 80, plus 2% tax
	assert.Equal(t, 81.6, amount)
}

func TestComputeOrderAmountErrors(t *testing.T) {
	p := testProduct(50)
	products := map[string]models.Product{p.Id.Hex(): p}

	t.Run("empty order", func(t *testing.T) {
		_, err := ComputeOrderAmount(nil, products)
		assert.Error(t, err)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := ComputeOrderAmount([]dto.OrderItemDTO{
			{Product: bson.NewObjectID().Hex(), VariantIndex: 0, Quantity: 1},
		}, products)
		assert.Error(t, err)
	})

	t.Run("variant out of range", func(t *testing.T) {
		_, err := ComputeOrderAmount([]dto.OrderItemDTO{
			{Product: p.Id.Hex(), VariantIndex: 3, Quantity: 1},
		}, products)
		assert.Error(t, err)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := ComputeOrderAmount([]dto.OrderItemDTO{
			{Product: p.Id.Hex(), VariantIndex: 0, Quantity: 0},
		}, products)
		assert.Error(t, err)
	})
}
