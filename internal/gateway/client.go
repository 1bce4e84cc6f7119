// Package gateway is the HTTP client for the kasir-umkm server API. It
// implements the checkout engine's Catalog and Committer interfaces.
//
// The server speaks exactly one response envelope: {success, message, data}.
// Anything else is an error; the client never probes alternative shapes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/checkout"
)

// RequestError is a non-2xx response from the server, carrying the message
// from the envelope.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client calls the server API on behalf of one authenticated user.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Interface checks: the client is the checkout engine's view of the server.
var (
	_ checkout.Catalog   = (*Client)(nil)
	_ checkout.Committer = (*Client)(nil)
)

// NewClient creates a client for the given base URL, which must include
// the API prefix, e.g. "http://localhost:8080/api/v1". A trailing slash
// is tolerated.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs a request and decodes the envelope into out. A response that
// is not the fixed envelope fails loudly rather than being guessed at.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, header http.Header) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &RequestError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if env.Data == nil {
			return fmt.Errorf("response from %s has no data field", path)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data from %s: %w", path, err)
		}
	}
	return nil
}

// LoginResult is the token and identity returned by the login endpoint.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Name     string    `json:"name"`
		Role     string    `json:"role"`
	} `json:"user"`
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &result, nil); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

type wireProduct struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Price    int64     `json:"price"`
	Stock    int       `json:"stock"`
	Category *struct {
		Name string `json:"name"`
	} `json:"category"`
}

type wireProductPage struct {
	Items []wireProduct `json:"items"`
}

// Products lists sellable products for a catalog snapshot.
func (c *Client) Products(ctx context.Context, f checkout.ProductFilter) ([]checkout.Product, error) {
	q := url.Values{}
	if f.ActiveOnly {
		q.Set("active", "true")
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Limit > 0 {
		q.Set("per_page", strconv.Itoa(f.Limit))
	}

	var page wireProductPage
	if err := c.do(ctx, http.MethodGet, "/products", q, nil, &page, nil); err != nil {
		return nil, err
	}

	products := make([]checkout.Product, len(page.Items))
	for i, w := range page.Items {
		p := checkout.Product{
			ID:    w.ID,
			Code:  w.Code,
			Name:  w.Name,
			Price: w.Price,
			Stock: w.Stock,
		}
		if w.Category != nil {
			p.Category = w.Category.Name
		}
		products[i] = p
	}
	return products, nil
}

// Categories lists active category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var items []struct {
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &items, nil); err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names, nil
}

type wireTransaction struct {
	ID          uuid.UUID `json:"id"`
	InvoiceNo   string    `json:"invoice_no"`
	Subtotal    int64     `json:"subtotal"`
	Discount    int64     `json:"discount"`
	Total       int64     `json:"total"`
	Payment     int64     `json:"payment"`
	Change      int64     `json:"change"`
	CashierID   uuid.UUID `json:"cashier_id"`
	CashierName string    `json:"cashier_name"`
	CreatedAt   time.Time `json:"created_at"`
	Details     []struct {
		ProductID   uuid.UUID `json:"product_id"`
		ProductName string    `json:"product_name"`
		UnitPrice   int64     `json:"unit_price"`
		Quantity    int       `json:"quantity"`
	} `json:"details"`
}

func (w *wireTransaction) toDomain() *checkout.Transaction {
	tx := &checkout.Transaction{
		ID:          w.ID,
		InvoiceNo:   w.InvoiceNo,
		Subtotal:    w.Subtotal,
		Discount:    w.Discount,
		Total:       w.Total,
		Payment:     w.Payment,
		Change:      w.Change,
		CashierID:   w.CashierID,
		CashierName: w.CashierName,
		CreatedAt:   w.CreatedAt,
	}
	for _, d := range w.Details {
		tx.Items = append(tx.Items, checkout.TransactionItem{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			UnitPrice:   d.UnitPrice,
			Quantity:    d.Quantity,
		})
	}
	return tx
}

// Submit commits a checkout. The request body carries product ids,
// quantities, the discount spec and the payment; never unit prices. The
// session's idempotency key travels in the Idempotency-Key header so a
// retried submission cannot create a second transaction server-side.
func (c *Client) Submit(ctx context.Context, req checkout.CommitRequest) (*checkout.Transaction, error) {
	key := req.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}
	header := http.Header{}
	header.Set("Idempotency-Key", key)

	var w wireTransaction
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, req, &w, header); err != nil {
		return nil, err
	}
	return w.toDomain(), nil
}
