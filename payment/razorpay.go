// Package payment wraps the Razorpay gateway used for the two-phase online
// checkout: a server-created gateway session, then signature verification of
// the gateway callback.
package payment

import (
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
	rputils "github.com/razorpay/razorpay-go/utils"
)

// GatewaySession is the handle the client needs to open the gateway UI.
type GatewaySession struct {
	OrderID  string  `json:"orderId"`
	Amount   int64   `json:"amount"` // smallest currency unit
	Currency string  `json:"currency"`
	Key      string  `json:"key"`
	Rupees   float64 `json:"-"`
}

type Gateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewGateway(keyID, keySecret string) *Gateway {
	return &Gateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// CreateOrder opens a gateway session for the given amount (in rupees) and
// returns its handle. receipt ties the session back to our order document.
func (g *Gateway) CreateOrder(amount float64, receipt string) (*GatewaySession, error) {
	paise := int64(math.Round(amount * 100))
	data := map[string]interface{}{
		"amount":   paise,
		"currency": "INR",
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order create: missing order id")
	}

	return &GatewaySession{
		OrderID:  orderID,
		Amount:   paise,
		Currency: "INR",
		Key:      g.keyID,
		Rupees:   amount,
	}, nil
}

// VerifySignature checks the gateway's HMAC over orderID|paymentID. Only a
// verified callback may mark an order paid.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, g.keySecret)
}

func VerifySignature(orderID, paymentID, signature, secret string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return rputils.VerifyPaymentSignature(params, signature, secret)
}
