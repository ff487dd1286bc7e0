package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/farmpick/backend/database"
	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/logger"
	"github.com/farmpick/backend/models"
	"github.com/farmpick/backend/payment"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

func loadOrderProducts(ctx context.Context, items []dto.OrderItemDTO) (map[string]models.Product, error) {
	ids := make([]bson.ObjectID, 0, len(items))
	for _, item := range items {
		id, err := bson.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	productsCol := database.OpenCollection("products")
	cursor, err := productsCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	byID := make(map[string]models.Product, len(ids))
	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		byID[p.Id.Hex()] = p
	}
	return byID, cursor.Err()
}

func orderItemsFromDTO(items []dto.OrderItemDTO) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		id, err := bson.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, err
		}
		out = append(out, models.OrderItem{
			Product:      id,
			VariantIndex: item.VariantIndex,
			Quantity:     item.Quantity,
		})
	}
	return out, nil
}

// resolveAddress checks the selected address exists and belongs to the user.
func resolveAddress(ctx context.Context, userID bson.ObjectID, addressHex string) (bson.ObjectID, bool) {
	addressID, err := bson.ObjectIDFromHex(addressHex)
	if err != nil {
		return bson.ObjectID{}, false
	}
	addressesCol := database.OpenCollection("addresses")
	count, err := addressesCol.CountDocuments(ctx, bson.M{"_id": addressID, "userId": userID})
	if err != nil || count == 0 {
		return bson.ObjectID{}, false
	}
	return addressID, true
}

// clearUserCart empties the server-side cart mirror after a completed order.
// The version bump invalidates syncs still in flight that carry the
// pre-order cart, so they cannot resurrect it.
func clearUserCart(ctx context.Context, cache *database.CartCache, userID bson.ObjectID) {
	usersCol := database.OpenCollection("users")
	_, _ = usersCol.UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"cartItems": bson.M{}},
		"$inc": bson.M{"cartVersion": int64(1)},
	})
	_ = cache.Delete(ctx, userID.Hex())
}

// PlaceOrderCOD : /api/order/cod
func PlaceOrderCOD(cache *database.CartCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		var body dto.PlaceOrderDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid order data"})
			return
		}

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		addressID, ok := resolveAddress(ctx, userID, body.Address)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid address"})
			return
		}

		products, err := loadOrderProducts(ctx, body.Items)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid order items"})
			return
		}
		amount, err := ComputeOrderAmount(body.Items, products)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		items, err := orderItemsFromDTO(body.Items)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid order items"})
			return
		}

		now := time.Now().UTC()
		order := models.Order{
			UserID:      userID,
			Items:       items,
			Amount:      amount,
			Address:     addressID,
			Status:      "Order Placed",
			PaymentType: models.PaymentCOD,
			IsPaid:      false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := ordersCol.InsertOne(ctx, order); err != nil {
			logger.Error(c, "cod order insert failed", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		clearUserCart(ctx, cache, userID)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Placed Successfully"})
	}
}

// PlaceOrderRazorpay : /api/order/razorpay — phase one of the online flow:
// persist a pending order and open a gateway session for it.
func PlaceOrderRazorpay(gw *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		var body dto.PlaceOrderDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid order data"})
			return
		}

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		addressID, ok := resolveAddress(ctx, userID, body.Address)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid address"})
			return
		}

		products, err := loadOrderProducts(ctx, body.Items)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid order items"})
			return
		}
		amount, err := ComputeOrderAmount(body.Items, products)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		items, err := orderItemsFromDTO(body.Items)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid order items"})
			return
		}

		now := time.Now().UTC()
		order := models.Order{
			UserID:      userID,
			Items:       items,
			Amount:      amount,
			Address:     addressID,
			Status:      "Order Placed",
			PaymentType: models.PaymentOnline,
			IsPaid:      false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := ordersCol.InsertOne(ctx, order)
		if err != nil {
			logger.Error(c, "online order insert failed", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		orderDbID := res.InsertedID.(bson.ObjectID)

		session, err := gw.CreateOrder(amount, orderDbID.Hex())
		if err != nil {
			logger.Error(c, "gateway session failed", err, zap.String("order", orderDbID.Hex()))
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to create payment order"})
			return
		}

		_, _ = ordersCol.UpdateByID(ctx, orderDbID, bson.M{
			"$set": bson.M{"razorpayOrderId": session.OrderID},
		})

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"key":       session.Key,
			"amount":    session.Amount,
			"currency":  session.Currency,
			"orderId":   session.OrderID,
			"orderDbId": orderDbID.Hex(),
		})
	}
}

// VerifyRazorpay : /api/order/razorpay/verify — phase two: only a callback
// whose signature verifies marks the pending order paid and clears the cart.
// Anything else leaves the pending order untouched.
func VerifyRazorpay(gw *payment.Gateway, cache *database.CartCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		var body dto.VerifyPaymentDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid payment data"})
			return
		}

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		orderID, err := bson.ObjectIDFromHex(body.OrderID)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		var order models.Order
		if err := ordersCol.FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Order not found"})
			return
		}
		if order.RazorpayOrderID != body.RazorpayOrderID {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Order mismatch"})
			return
		}

		if !gw.VerifySignature(body.RazorpayOrderID, body.RazorpayPaymentID, body.RazorpaySignature) {
			logger.Info(c, "payment signature rejected", zap.String("order", body.OrderID))
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payment verification failed"})
			return
		}

		_, err = ordersCol.UpdateByID(ctx, orderID, bson.M{"$set": bson.M{
			"isPaid":    true,
			"updatedAt": time.Now().UTC(),
		}})
		if err != nil {
			logger.Error(c, "paid transition failed", err, zap.String("order", body.OrderID))
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		clearUserCart(ctx, cache, userID)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment Verified"})
	}
}

// GetUserOrders : /api/order/user — paid or COD orders only; abandoned
// gateway sessions stay invisible.
func GetUserOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		filter := bson.M{
			"userId": userID,
			"$or":    bson.A{bson.M{"paymentType": models.PaymentCOD}, bson.M{"isPaid": true}},
		}
		findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := ordersCol.Find(ctx, filter, findOpts)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GetSellerOrders : /api/order/seller
func GetSellerOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		filter := bson.M{
			"$or": bson.A{bson.M{"paymentType": models.PaymentCOD}, bson.M{"isPaid": true}},
		}
		findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := ordersCol.Find(ctx, filter, findOpts)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}
