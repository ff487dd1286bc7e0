package client

import (
	"context"
	"sync"
	"time"

	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/models"
	"github.com/farmpick/backend/utils"
)

// Notifier surfaces sync and checkout failures to the UI layer.
type Notifier func(message string)

// Session is the state container for one storefront visit: the logged-in
// user, the loaded catalog and the cart mapping. The session is the source
// of truth for the cart while it lives; the server holds a best-effort
// mirror updated on every mutation.
type Session struct {
	api    *API
	notify Notifier

	mu       sync.Mutex
	user     *models.User
	products []dto.ProductWithCategory
	cart     map[string]int
	version  int64

	syncWG sync.WaitGroup
}

func NewSession(api *API, notify Notifier) *Session {
	if notify == nil {
		notify = func(string) {}
	}
	return &Session{
		api:    api,
		notify: notify,
		cart:   map[string]int{},
	}
}

// Load fetches the catalog and, when a session cookie exists, the user —
// restoring the server-mirrored cart.
func (s *Session) Load(ctx context.Context) error {
	products, err := s.api.FetchProducts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	user, err := s.api.FetchUser(ctx)
	if err != nil {
		// browsing works without a session
		return nil
	}

	s.mu.Lock()
	s.user = user
	// continue the sync counter where the last session stopped, otherwise
	// every sync of this session would be rejected as stale
	if user.CartVersion > s.version {
		s.version = user.CartVersion
	}
	if user.CartItems != nil {
		s.cart = make(map[string]int, len(user.CartItems))
		for k, v := range user.CartItems {
			if v > 0 {
				s.cart[k] = v
			}
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) Products() []dto.ProductWithCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}

func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// CartItems returns a copy of the cart mapping.
func (s *Session) CartItems() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.cart))
	for k, v := range s.cart {
		out[k] = v
	}
	return out
}

// AddToCart increments the quantity for the composite key, creating the
// line at 1 when absent.
func (s *Session) AddToCart(productID string, variantIndex int) {
	key := utils.CartKey(productID, variantIndex)
	s.mutate(func() {
		s.cart[key]++
	})
}

// UpdateCartItem sets the quantity for a line; a quantity of zero or less
// removes the line instead.
func (s *Session) UpdateCartItem(key string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(key)
		return
	}
	s.mutate(func() {
		s.cart[key] = quantity
	})
}

// RemoveFromCart deletes the line.
func (s *Session) RemoveFromCart(key string) {
	s.mutate(func() {
		delete(s.cart, key)
	})
}

// ClearCart empties the cart, mirroring the cleared state.
func (s *Session) ClearCart() {
	s.mutate(func() {
		s.cart = map[string]int{}
	})
}

// CartCount is the sum of all quantities.
func (s *Session) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, qty := range s.cart {
		count += qty
	}
	return count
}

// CartAmount sums variant offer price times quantity over the cart,
// resolving lines against the loaded catalog. Lines whose product or
// variant no longer resolves are silently excluded, not an error.
func (s *Session) CartAmount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for key, qty := range s.cart {
		productID, variantIndex, ok := utils.SplitCartKey(key)
		if !ok {
			continue
		}
		variant := s.findVariantLocked(productID, variantIndex)
		if variant == nil {
			continue
		}
		total += variant.OfferPrice * float64(qty)
	}
	return utils.TruncateCents(total)
}

func (s *Session) findVariantLocked(productID string, variantIndex int) *models.Variant {
	for i := range s.products {
		if s.products[i].Id.Hex() == productID {
			return s.products[i].VariantAt(variantIndex)
		}
	}
	return nil
}

// mutate applies a cart change and schedules a best-effort sync of the full
// mapping. The version increments per sync, so the server can discard
// overlapping writes that arrive out of order. Failures notify without
// rolling back: the session stays the source of truth.
func (s *Session) mutate(apply func()) {
	s.mu.Lock()
	apply()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.version++
	version := s.version
	snapshot := make(map[string]int, len(s.cart))
	for k, v := range s.cart {
		snapshot[k] = v
	}
	s.mu.Unlock()

	s.syncWG.Add(1)
	go func() {
		defer s.syncWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.api.UpdateCart(ctx, snapshot, version); err != nil {
			s.notify(err.Error())
		}
	}()
}

// WaitSync blocks until in-flight cart syncs finish. Used in tests and at
// session teardown.
func (s *Session) WaitSync() {
	s.syncWG.Wait()
}
