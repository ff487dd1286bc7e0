// Package client is the storefront session SDK: an API handle plus a
// session-scoped state container holding the user, the loaded catalog and
// the cart mapping. All cart mutations go through the container and are
// mirrored to the server fire-and-forget.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/farmpick/backend/dto"
	"github.com/farmpick/backend/models"
)

// Doer issues HTTP requests. Satisfied by *http.Client; tests substitute
// counting or failing transports.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type API struct {
	baseURL string
	http    Doer
}

func NewAPI(baseURL string, doer Doer) *API {
	if doer == nil {
		jar, _ := cookiejar.New(nil)
		doer = &http.Client{Jar: jar}
	}
	return &API{baseURL: baseURL, http: doer}
}

// envelope is the flat response contract every endpoint shares.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (e envelope) err() error {
	if e.Message == "" {
		return fmt.Errorf("request failed")
	}
	return fmt.Errorf("%s", e.Message)
}

func (a *API) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *API) getJSON(ctx context.Context, path string, out any) error {
	return a.do(ctx, http.MethodGet, path, nil, out)
}

func (a *API) postJSON(ctx context.Context, path string, payload, out any) error {
	return a.do(ctx, http.MethodPost, path, payload, out)
}

// Login authenticates a customer; the session cookie lands in the jar.
func (a *API) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp struct {
		envelope
		User *models.User `json:"user"`
	}
	body := dto.LoginDTO{Email: email, Password: password}
	if err := a.postJSON(ctx, "/api/user/login", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.err()
	}
	return resp.User, nil
}

func (a *API) FetchUser(ctx context.Context) (*models.User, error) {
	var resp struct {
		envelope
		User *models.User `json:"user"`
	}
	if err := a.getJSON(ctx, "/api/user/is-auth", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.err()
	}
	return resp.User, nil
}

func (a *API) FetchProducts(ctx context.Context) ([]dto.ProductWithCategory, error) {
	var resp struct {
		envelope
		Products []dto.ProductWithCategory `json:"products"`
	}
	if err := a.getJSON(ctx, "/api/product/list", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.err()
	}
	return resp.Products, nil
}

func (a *API) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var resp struct {
		envelope
		Categories []models.Category `json:"categories"`
	}
	if err := a.getJSON(ctx, "/api/category/all", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.err()
	}
	return resp.Categories, nil
}

func (a *API) FetchAddresses(ctx context.Context) ([]models.Address, error) {
	var resp struct {
		envelope
		Addresses []models.Address `json:"addresses"`
	}
	if err := a.getJSON(ctx, "/api/address/get", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.err()
	}
	return resp.Addresses, nil
}

func (a *API) FetchOrders(ctx context.Context) ([]models.Order, error) {
	var resp struct {
		envelope
		Orders []models.Order `json:"orders"`
	}
	if err := a.getJSON(ctx, "/api/order/user", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, resp.err()
	}
	return resp.Orders, nil
}

// UpdateCart mirrors the full cart map to the server.
func (a *API) UpdateCart(ctx context.Context, items map[string]int, version int64) error {
	var resp envelope
	body := dto.UpdateCartDTO{CartItems: items, Version: version}
	if err := a.postJSON(ctx, "/api/cart/update", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.err()
	}
	return nil
}

// ChangeStock flips a product's stock flag (seller session).
func (a *API) ChangeStock(ctx context.Context, productID string, inStock bool) error {
	var resp envelope
	body := dto.ChangeStockDTO{ID: productID, InStock: &inStock}
	if err := a.postJSON(ctx, "/api/product/stock", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return resp.err()
	}
	return nil
}
