package polymarket_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alejandrodnm/polyhedge/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreds() polymarket.Creds {
	return polymarket.Creds{
		Address:    "0xabc",
		APIKey:     "key-1",
		Secret:     "c2VjcmV0LWJ5dGVz", // base64url
		Passphrase: "pass-1",
	}
}

func TestNewTradingClient_RequiresCreds(t *testing.T) {
	client := polymarket.NewClient("", "")

	_, err := polymarket.NewTradingClient(client, polymarket.Creds{Address: "0xabc"})
	require.Error(t, err)

	_, err = polymarket.NewTradingClient(client, testCreds())
	require.NoError(t, err)
}

func TestExecuteMarketOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/order", r.URL.Path)

		// Headers de auth L2 presentes en cada request firmada.
		for _, h := range []string{"POLY_ADDRESS", "POLY_SIGNATURE", "POLY_TIMESTAMP", "POLY_API_KEY", "POLY_PASSPHRASE"} {
			assert.NotEmpty(t, r.Header.Get(h), "missing header %s", h)
		}

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tok-yes", body["token_id"])
		assert.Equal(t, "BUY", body["side"])
		assert.Equal(t, "FOK", body["order_type"])
		assert.InDelta(t, 5.0, body["amount"].(float64), 1e-9)

		fmt.Fprint(w, `{
			"success": true,
			"orderID": "ord-1",
			"status": "matched",
			"takingAmount": "12.5",
			"makingAmount": "4.98"
		}`)
	}))
	defer srv.Close()

	tc, err := polymarket.NewTradingClient(polymarket.NewClient(srv.URL, ""), testCreds())
	require.NoError(t, err)

	fill, err := tc.ExecuteMarketOrder(context.Background(), domain.Market{ID: "mkt-1"}, 5.0, "tok-yes")
	require.NoError(t, err)

	// El fill reportado manda, no lo pedido.
	assert.InDelta(t, 12.5, fill.Shares, 1e-9)
	assert.InDelta(t, 4.98, fill.Cost, 1e-9)
}

func TestExecuteMarketOrder_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false, "errorMsg": "not enough balance"}`)
	}))
	defer srv.Close()

	tc, err := polymarket.NewTradingClient(polymarket.NewClient(srv.URL, ""), testCreds())
	require.NoError(t, err)

	_, err = tc.ExecuteMarketOrder(context.Background(), domain.Market{}, 5.0, "tok-yes")
	require.Error(t, err)
	assert.ErrorContains(t, err, "not enough balance")
}

func TestGetBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/balance-allowance", r.URL.Path)
		assert.Equal(t, "COLLATERAL", r.URL.Query().Get("asset_type"))
		// Unidades mínimas de USDC (6 decimales)
		fmt.Fprint(w, `{"balance": "123450000"}`)
	}))
	defer srv.Close()

	tc, err := polymarket.NewTradingClient(polymarket.NewClient(srv.URL, ""), testCreds())
	require.NoError(t, err)

	balance, err := tc.GetBalance(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 123.45, balance, 1e-9)
}
