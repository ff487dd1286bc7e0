package controllers

import (
	"fmt"
	"testing"

	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func strPtr(s string) *string { return &s }

func TestParseProductData(t *testing.T) {
	catID := bson.NewObjectID().Hex()
	variants := `[{"unit":"kg","weight":1,"price":10,"offerPrice":8}]`

	body, err := ParseProductData(fmt.Sprintf(
		`{"name":"Fresh Tomatoes","description":["ripe"],"category":%q,"variants":%s}`, catID, variants))
	require.NoError(t, err)
	assert.Equal(t, "Fresh Tomatoes", body.Name)
	assert.Equal(t, catID, body.Category)

	t.Run("empty name", func(t *testing.T) {
		_, err := ParseProductData(fmt.Sprintf(
			`{"name":"","description":["ripe"],"category":%q,"variants":%s}`, catID, variants))
		assert.Error(t, err)
	})

	t.Run("missing description", func(t *testing.T) {
		_, err := ParseProductData(fmt.Sprintf(
			`{"name":"Fresh Tomatoes","category":%q,"variants":%s}`, catID, variants))
		assert.Error(t, err)
	})

	t.Run("no variants", func(t *testing.T) {
		_, err := ParseProductData(fmt.Sprintf(
			`{"name":"Fresh Tomatoes","description":["ripe"],"category":%q,"variants":[]}`, catID))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseProductData(`{"name":`)
		assert.Error(t, err)
	})
}

func TestBuildProductUpdateWithoutImages(t *testing.T) {
	set, err := BuildProductUpdate(dto.UpdateProductDTO{
		Name: strPtr("Fresh Tomatoes"),
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Fresh Tomatoes", set["name"])
	// No new uploads: the stored image references must stay untouched.
	assert.NotContains(t, set, "image")
}

func TestBuildProductUpdateWithImages(t *testing.T) {
	urls := []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"}
	set, err := BuildProductUpdate(dto.UpdateProductDTO{}, urls)

	require.NoError(t, err)
	assert.Equal(t, urls, set["image"])
}

func TestBuildProductUpdateEmpty(t *testing.T) {
	set, err := BuildProductUpdate(dto.UpdateProductDTO{}, nil)

	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestBuildProductUpdateCategory(t *testing.T) {
	id := bson.NewObjectID()
	set, err := BuildProductUpdate(dto.UpdateProductDTO{Category: strPtr(id.Hex())}, nil)

	require.NoError(t, err)
	assert.Equal(t, id, set["category"])

	_, err = BuildProductUpdate(dto.UpdateProductDTO{Category: strPtr("not-an-id")}, nil)
	assert.Error(t, err)
}

func TestBuildProductUpdateVariantValidation(t *testing.T) {
	bad := []models.Variant{{Unit: "kg", Weight: 1, Price: 10, OfferPrice: -1}}
	_, err := BuildProductUpdate(dto.UpdateProductDTO{Variants: &bad}, nil)
	assert.Error(t, err)

	empty := []models.Variant{}
	_, err = BuildProductUpdate(dto.UpdateProductDTO{Variants: &empty}, nil)
	assert.Error(t, err)

	good := []models.Variant{{Unit: "kg", Weight: 1, Price: 10, OfferPrice: 8}}
	set, err := BuildProductUpdate(dto.UpdateProductDTO{Variants: &good}, nil)
	require.NoError(t, err)
	assert.Equal(t, good, set["variants"])
}
