package dto

type OrderItemDTO struct {
	Product      string `json:"product" binding:"required"`
	VariantIndex int    `json:"variantIndex" binding:"gte=0"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderDTO struct {
	Items   []OrderItemDTO `json:"items" binding:"required,min=1,dive"`
	Address string         `json:"address" binding:"required"`
}

// VerifyPaymentDTO carries the gateway callback: the gateway's order and
// payment ids, its signature over them, and our pending order id.
type VerifyPaymentDTO struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           string `json:"orderId" binding:"required"`
}
