package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(34000), req.Amount)

		json.NewEncoder(w).Encode(Order{ID: "order_abc", Currency: req.Currency, Amount: req.Amount})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	order, err := c.CreateOrder(context.Background(), CreateOrderRequest{Amount: 34000, Currency: "INR", Receipt: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(34000), order.Amount)
}

func TestCreateOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "wrong")
	_, err := c.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
}
