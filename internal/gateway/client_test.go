package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskastudio/kasir-umkm-api/internal/checkout"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "siti", body["username"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "login successful",
			"data": map[string]interface{}{
				"token": "tok-123",
				"user": map[string]interface{}{
					"id":       uuid.New(),
					"username": "siti",
					"name":     "Siti",
					"role":     "kasir",
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.Login(context.Background(), "siti", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", result.Token)
	assert.Equal(t, "kasir", result.User.Role)
	assert.Equal(t, "tok-123", c.token)
}

func TestBaseURLKeepsAPIPrefix(t *testing.T) {
	// The server mounts everything under /api/v1; a client built with that
	// prefix must hit the prefixed paths, not the bare ones.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("404 page not found"))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "login successful",
			"data": map[string]interface{}{
				"token": "tok-123",
				"user": map[string]interface{}{
					"id":       uuid.New(),
					"username": "siti",
					"name":     "Siti",
					"role":     "kasir",
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/api/v1/")
	result, err := c.Login(context.Background(), "siti", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", result.Token)
}

func TestProductsSendsFilterAndBearerToken(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		assert.Equal(t, "kopi", r.URL.Query().Get("search"))
		assert.Equal(t, "Minuman", r.URL.Query().Get("category"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "products retrieved",
			"data": map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"id":       id,
						"code":     "KOPI-01",
						"name":     "Kopi Sachet",
						"price":    3000,
						"stock":    12,
						"category": map[string]string{"name": "Minuman"},
					},
				},
				"pagination": map[string]int{"page": 1, "per_page": 50, "total": 1},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok-123")
	products, err := c.Products(context.Background(), checkout.ProductFilter{
		ActiveOnly: true,
		Search:     "kopi",
		Category:   "Minuman",
		Limit:      50,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, checkout.Product{
		ID:       id,
		Code:     "KOPI-01",
		Name:     "Kopi Sachet",
		Category: "Minuman",
		Price:    3000,
		Stock:    12,
	}, products[0])
}

func TestSubmitSendsNoPrices(t *testing.T) {
	productID := uuid.New()
	var rawBody map[string]interface{}
	var idemKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transactions", r.URL.Path)
		idemKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "transaction created",
			"data": map[string]interface{}{
				"id":           uuid.New(),
				"invoice_no":   "INV-20260829-0001",
				"subtotal":     25000,
				"discount":     2500,
				"total":        22500,
				"payment":      25000,
				"change":       2500,
				"cashier_id":   uuid.New(),
				"cashier_name": "Siti",
				"created_at":   "2026-08-29T10:00:00Z",
				"details": []map[string]interface{}{
					{"product_id": productID, "product_name": "Kopi Sachet", "unit_price": 2500, "quantity": 10},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	tx, err := c.Submit(context.Background(), checkout.CommitRequest{
		Items:          []checkout.CommitItem{{ProductID: productID, Quantity: 10}},
		Discount:       checkout.DiscountSpec{Kind: checkout.DiscountPercent, Value: 10},
		Payment:        25000,
		IdempotencyKey: "key-abc",
	})
	require.NoError(t, err)

	assert.Equal(t, "key-abc", idemKey)

	// The wire body must never carry prices or precomputed amounts.
	items := rawBody["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.NotContains(t, line, "price")
	assert.NotContains(t, line, "unit_price")
	assert.NotContains(t, line, "subtotal")
	assert.NotContains(t, rawBody, "total")
	assert.NotContains(t, rawBody, "subtotal")

	assert.Equal(t, "INV-20260829-0001", tx.InvoiceNo)
	assert.Equal(t, int64(22500), tx.Total)
	require.Len(t, tx.Items, 1)
	assert.Equal(t, "Kopi Sachet", tx.Items[0].ProductName)
	assert.Equal(t, int64(2500), tx.Items[0].UnitPrice)
}

func TestErrorEnvelopeBecomesRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "insufficient stock for: Kopi Sachet",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Products(context.Background(), checkout.ProductFilter{})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusConflict, reqErr.Status)
	assert.Contains(t, reqErr.Message, "insufficient stock")
}

func TestNonEnvelopeResponseFailsLoudly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Categories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestSuccessWithoutDataIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "message": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Categories(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no data field"))
}

func TestNetworkErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed: every request now fails to connect

	c := NewClient(srv.URL)
	_, err := c.Categories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request GET /categories")
}
