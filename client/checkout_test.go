package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDoer fails every request but counts them; checkout paths that must
// not touch the network are asserted against it.
type countingDoer struct {
	count int32
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&d.count, 1)
	return nil, http.ErrHandlerTimeout
}

func TestPlaceOrderCODWithoutAddress(t *testing.T) {
	doer := &countingDoer{}
	p := catalogProduct(50)
	s := NewSession(NewAPI("http://localhost", doer), nil)
	s.products = []dto.ProductWithCategory{p}
	s.cart = map[string]int{utils.CartKey(p.Id.Hex(), 0): 2}

	err := s.PlaceOrderCOD(context.Background(), "")

	assert.ErrorIs(t, err, ErrNoAddress)
	assert.Equal(t, int32(0), atomic.LoadInt32(&doer.count), "no request may be issued without an address")
	assert.Equal(t, 2, s.CartItems()[utils.CartKey(p.Id.Hex(), 0)])
}

func TestPlaceOrderCODEmptyCart(t *testing.T) {
	doer := &countingDoer{}
	s := NewSession(NewAPI("http://localhost", doer), nil)

	err := s.PlaceOrderCOD(context.Background(), "addr1")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, int32(0), atomic.LoadInt32(&doer.count))
}

func TestPlaceOrderCODFailureKeepsCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/order/cod", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid address"})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	p := catalogProduct(50)
	s := NewSession(NewAPI(server.URL, nil), nil)
	s.products = []dto.ProductWithCategory{p}
	s.cart = map[string]int{utils.CartKey(p.Id.Hex(), 0): 2}

	err := s.PlaceOrderCOD(context.Background(), "addr1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid address")
	assert.Equal(t, 2, s.CartItems()[utils.CartKey(p.Id.Hex(), 0)], "failed placement must not change local state")
}

func TestPlaceOrderCODSuccessClearsCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/order/cod", func(c *gin.Context) {
		var body dto.PlaceOrderDTO
		require.NoError(t, c.ShouldBindJSON(&body))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Placed Successfully"})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	p := catalogProduct(50)
	s := NewSession(NewAPI(server.URL, nil), nil)
	s.products = []dto.ProductWithCategory{p}
	s.cart = map[string]int{utils.CartKey(p.Id.Hex(), 0): 2}

	require.NoError(t, s.PlaceOrderCOD(context.Background(), "addr1"))
	assert.Empty(t, s.CartItems())
}

// gatewayFixture fakes the two-phase online flow: order creation hands out a
// gateway session, verification checks the HMAC the real gateway would sign.
type gatewayFixture struct {
	secret string
	paid   bool
}

func (g *gatewayFixture) sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *gatewayFixture) router() *gin.Engine {
	router := gin.New()
	router.POST("/api/order/razorpay", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"key":       "rzp_test_key",
			"amount":    int64(10200),
			"currency":  "INR",
			"orderId":   "order_G123",
			"orderDbId": "64a000000000000000000001",
		})
	})
	router.POST("/api/order/razorpay/verify", func(c *gin.Context) {
		var body dto.VerifyPaymentDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid payment data"})
			return
		}
		expected := g.sign(body.RazorpayOrderID, body.RazorpayPaymentID)
		if !hmac.Equal([]byte(expected), []byte(body.RazorpaySignature)) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payment verification failed"})
			return
		}
		g.paid = true
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment Verified"})
	})
	return router
}

func TestOnlinePaymentTamperedSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := &gatewayFixture{secret: "test_secret"}
	server := httptest.NewServer(gw.router())
	defer server.Close()

	p := catalogProduct(50)
	s := NewSession(NewAPI(server.URL, nil), nil)
	s.products = []dto.ProductWithCategory{p}
	s.cart = map[string]int{utils.CartKey(p.Id.Hex(), 0): 2}

	session, err := s.PlaceOrderOnline(context.Background(), "addr1")
	require.NoError(t, err)
	assert.Equal(t, "order_G123", session.OrderID)
	assert.Equal(t, 2, s.CartItems()[utils.CartKey(p.Id.Hex(), 0)],
		"opening a gateway session must not clear the cart")

	err = s.CompleteOnlinePayment(context.Background(), session, GatewayCallback{
		OrderID:   session.OrderID,
		PaymentID: "pay_123",
		Signature: "deadbeef",
	})

	require.Error(t, err)
	assert.False(t, gw.paid, "tampered signature must not mark the order paid")
	assert.Equal(t, 2, s.CartItems()[utils.CartKey(p.Id.Hex(), 0)],
		"tampered signature must not clear the cart")
}

func TestOnlinePaymentVerifiedClearsCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := &gatewayFixture{secret: "test_secret"}
	server := httptest.NewServer(gw.router())
	defer server.Close()

	p := catalogProduct(50)
	s := NewSession(NewAPI(server.URL, nil), nil)
	s.products = []dto.ProductWithCategory{p}
	s.cart = map[string]int{utils.CartKey(p.Id.Hex(), 0): 2}

	session, err := s.PlaceOrderOnline(context.Background(), "addr1")
	require.NoError(t, err)

	err = s.CompleteOnlinePayment(context.Background(), session, GatewayCallback{
		OrderID:   session.OrderID,
		PaymentID: "pay_123",
		Signature: gw.sign(session.OrderID, "pay_123"),
	})

	require.NoError(t, err)
	assert.True(t, gw.paid)
	assert.Empty(t, s.CartItems())
}

func TestPlaceOrderOnlineSkipsStaleLines(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got dto.PlaceOrderDTO
	router := gin.New()
	router.POST("/api/order/razorpay", func(c *gin.Context) {
		require.NoError(t, c.ShouldBindJSON(&got))
		c.JSON(http.StatusOK, gin.H{"success": true, "orderId": "order_G1", "orderDbId": "64a000000000000000000001"})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	p := catalogProduct(50)
	s := NewSession(NewAPI(server.URL, nil), nil)
	s.products = []dto.ProductWithCategory{p}
	s.cart = map[string]int{
		utils.CartKey(p.Id.Hex(), 0): 2,
		"ghost|0":                    1, // product no longer in the catalog
	}

	_, err := s.PlaceOrderOnline(context.Background(), "addr1")

	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, p.Id.Hex(), got.Items[0].Product)
}
