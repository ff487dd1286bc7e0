package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farmpick/backend/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves the stock-toggle endpoint over an in-memory product map.
type fakeCatalog struct {
	stock map[string]bool
}

func (f *fakeCatalog) router() *gin.Engine {
	router := gin.New()
	router.POST("/api/product/stock", func(c *gin.Context) {
		var body dto.ChangeStockDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "id and inStock are required"})
			return
		}
		if _, ok := f.stock[body.ID]; !ok {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Product not found"})
			return
		}
		f.stock[body.ID] = *body.InStock
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Stock Updated"})
	})
	return router
}

func TestChangeStockIdempotent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := &fakeCatalog{stock: map[string]bool{"p1": true}}
	server := httptest.NewServer(catalog.router())
	defer server.Close()

	api := NewAPI(server.URL, nil)
	ctx := context.Background()

	require.NoError(t, api.ChangeStock(ctx, "p1", false))
	assert.False(t, catalog.stock["p1"])

	// double invocation with the same target value is a no-op
	require.NoError(t, api.ChangeStock(ctx, "p1", false))
	assert.False(t, catalog.stock["p1"])

	require.NoError(t, api.ChangeStock(ctx, "p1", true))
	require.NoError(t, api.ChangeStock(ctx, "p1", true))
	assert.True(t, catalog.stock["p1"])
}

func TestChangeStockUnknownProduct(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := &fakeCatalog{stock: map[string]bool{}}
	server := httptest.NewServer(catalog.router())
	defer server.Close()

	err := NewAPI(server.URL, nil).ChangeStock(context.Background(), "ghost", true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Product not found")
}
