package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type PaymentType string

const (
	PaymentCOD    PaymentType = "COD"
	PaymentOnline PaymentType = "Online"
)

// OrderItem references a variant by its position in the product's variant
// sequence, the same addressing the cart uses.
type OrderItem struct {
	Product      bson.ObjectID `bson:"product" json:"product"`
	VariantIndex int           `bson:"variantIndex" json:"variantIndex"`
	Quantity     int           `bson:"quantity" json:"quantity"`
}

// Order is created once at checkout and is immutable afterwards except for
// the paid transition driven by gateway verification.
type Order struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID          bson.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem   `bson:"items" json:"items"`
	Amount          float64       `bson:"amount" json:"amount"`
	Address         bson.ObjectID `bson:"address" json:"address"`
	Status          string        `bson:"status" json:"status"`
	PaymentType     PaymentType   `bson:"paymentType" json:"paymentType"`
	IsPaid          bool          `bson:"isPaid" json:"isPaid"`
	RazorpayOrderID string        `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}
