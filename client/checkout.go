package client

import (
	"context"
	"errors"

	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/utils"
)

var (
	ErrNoAddress = errors.New("Please select an address")
	ErrEmptyCart = errors.New("Cart is empty")
)

// GatewaySession is the handle phase one of the online flow returns; the UI
// opens the gateway checkout with it.
type GatewaySession struct {
	Key       string `json:"key"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	OrderID   string `json:"orderId"`
	OrderDbID string `json:"orderDbId"`
}

// GatewayCallback is what the gateway hands back after the shopper pays.
type GatewayCallback struct {
	OrderID   string
	PaymentID string
	Signature string
}

// resolvedItemsLocked builds order lines from cart entries that still
// resolve against the catalog; stale lines are dropped, as in the cart view.
func (s *Session) resolvedItemsLocked() []dto.OrderItemDTO {
	items := make([]dto.OrderItemDTO, 0, len(s.cart))
	for key, qty := range s.cart {
		if qty <= 0 {
			continue
		}
		productID, variantIndex, ok := utils.SplitCartKey(key)
		if !ok {
			continue
		}
		if s.findVariantLocked(productID, variantIndex) == nil {
			continue
		}
		items = append(items, dto.OrderItemDTO{
			Product:      productID,
			VariantIndex: variantIndex,
			Quantity:     qty,
		})
	}
	return items
}

// PlaceOrderCOD places a cash-on-delivery order. A missing address blocks
// placement before any request is issued. Success clears the cart; failure
// changes nothing locally.
func (s *Session) PlaceOrderCOD(ctx context.Context, addressID string) error {
	if addressID == "" {
		return ErrNoAddress
	}

	s.mu.Lock()
	items := s.resolvedItemsLocked()
	s.mu.Unlock()
	if len(items) == 0 {
		return ErrEmptyCart
	}

	var resp envelope
	body := dto.PlaceOrderDTO{Items: items, Address: addressID}
	if err := s.api.postJSON(ctx, "/api/order/cod", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.err()
	}

	s.ClearCart()
	return nil
}

// PlaceOrderOnline runs phase one of the online flow: the server persists a
// pending order and opens a gateway session. The cart is NOT cleared here —
// only a verified callback does that.
func (s *Session) PlaceOrderOnline(ctx context.Context, addressID string) (*GatewaySession, error) {
	if addressID == "" {
		return nil, ErrNoAddress
	}

	s.mu.Lock()
	items := s.resolvedItemsLocked()
	s.mu.Unlock()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var resp struct {
		envelope
		GatewaySession
	}
	body := dto.PlaceOrderDTO{Items: items, Address: addressID}
	if err := s.api.postJSON(ctx, "/api/order/razorpay", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.err()
	}
	return &resp.GatewaySession, nil
}

// CompleteOnlinePayment submits the gateway callback for verification.
// Only a verified response clears the cart; anything else leaves the
// pending order and the cart untouched.
func (s *Session) CompleteOnlinePayment(ctx context.Context, session *GatewaySession, cb GatewayCallback) error {
	var resp envelope
	body := dto.VerifyPaymentDTO{
		RazorpayOrderID:   cb.OrderID,
		RazorpayPaymentID: cb.PaymentID,
		RazorpaySignature: cb.Signature,
		OrderID:           session.OrderDbID,
	}
	if err := s.api.postJSON(ctx, "/api/order/razorpay/verify", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.err()
	}

	s.ClearCart()
	return nil
}
