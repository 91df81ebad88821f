package polymarket

// trading.go — ejecución de órdenes de mercado contra el CLOB.
//
// Implementa ports.OrderExecutor con auth L2 (API key + HMAC). La derivación
// de credenciales L1 y la firma EIP-712 de órdenes viven fuera de este
// repositorio: el CLOB acepta órdenes FOK pre-autorizadas para la cuenta
// cuyas credenciales L2 se configuran por entorno.

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

const (
	orderPath   = "/order"
	balancePath = "/balance-allowance"
)

// Creds son las credenciales L2 del CLOB, derivadas externamente.
type Creds struct {
	Address    string
	APIKey     string
	Secret     string
	Passphrase string
}

// TradingClient ejecuta órdenes reales. Reusa el rate limiting y los
// retries del Client base.
type TradingClient struct {
	client *Client
	creds  Creds
	now    func() time.Time
}

// NewTradingClient crea el executor autenticado.
func NewTradingClient(client *Client, creds Creds) (*TradingClient, error) {
	if creds.APIKey == "" || creds.Secret == "" || creds.Passphrase == "" {
		return nil, fmt.Errorf("polymarket.NewTradingClient: incomplete L2 credentials")
	}
	return &TradingClient{client: client, creds: creds, now: time.Now}, nil
}

// ExecuteMarketOrder envía una orden FOK de compra por dollarAmount USDC.
// Devuelve el fill reportado por el exchange: takingAmount (shares) y
// makingAmount (coste real) — puede diferir de lo pedido.
func (tc *TradingClient) ExecuteMarketOrder(ctx context.Context, _ domain.Market, dollarAmount float64, tokenID string) (domain.Fill, error) {
	body := marketOrderRequest{
		TokenID:   tokenID,
		Amount:    dollarAmount,
		Side:      "BUY",
		OrderType: "FOK",
	}

	var resp marketOrderResponse
	if err := tc.doSigned(ctx, http.MethodPost, orderPath, body, &resp); err != nil {
		return domain.Fill{}, fmt.Errorf("polymarket.ExecuteMarketOrder: token %s: %w", tokenID, err)
	}
	if !resp.Success {
		return domain.Fill{}, fmt.Errorf("polymarket.ExecuteMarketOrder: token %s: rejected: %s", tokenID, resp.ErrorMsg)
	}

	shares, err := strconv.ParseFloat(resp.TakingAmount, 64)
	if err != nil {
		return domain.Fill{}, fmt.Errorf("polymarket.ExecuteMarketOrder: parse takingAmount %q: %w", resp.TakingAmount, err)
	}
	cost, err := strconv.ParseFloat(resp.MakingAmount, 64)
	if err != nil {
		return domain.Fill{}, fmt.Errorf("polymarket.ExecuteMarketOrder: parse makingAmount %q: %w", resp.MakingAmount, err)
	}

	return domain.Fill{Shares: shares, Cost: cost}, nil
}

// GetBalance devuelve el balance USDC disponible en el CLOB.
func (tc *TradingClient) GetBalance(ctx context.Context) (float64, error) {
	path := balancePath + "?asset_type=COLLATERAL&signature_type=2"

	var resp balanceResponse
	if err := tc.doSigned(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("polymarket.GetBalance: %w", err)
	}

	raw, err := strconv.ParseFloat(resp.Balance, 64)
	if err != nil {
		return 0, fmt.Errorf("polymarket.GetBalance: parse balance %q: %w", resp.Balance, err)
	}
	// El CLOB devuelve unidades mínimas de USDC (6 decimales).
	return raw / 1e6, nil
}

// doSigned ejecuta una request autenticada reusando el retry loop del
// Client. Los headers HMAC se regeneran en cada intento para que el
// timestamp siga siendo fresco.
func (tc *TradingClient) doSigned(ctx context.Context, method, path string, body, out any) error {
	var bodyStr string
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		bodyStr = string(b)
	}

	return tc.client.doWithRetry(ctx, tc.client.clobLimiter, func() (*http.Response, error) {
		var reader *strings.Reader
		if bodyStr != "" {
			reader = strings.NewReader(bodyStr)
		} else {
			reader = strings.NewReader("")
		}

		req, err := http.NewRequestWithContext(ctx, method, tc.client.clobBase+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for k, v := range tc.l2Headers(method, path, bodyStr) {
			req.Header.Set(k, v)
		}
		return tc.client.http.Do(req)
	}, out)
}

// l2Headers construye los headers de auth L2 firmando
// timestamp+method+path+body con el secret en HMAC-SHA256.
func (tc *TradingClient) l2Headers(method, path, body string) map[string]string {
	ts := strconv.FormatInt(tc.now().Unix(), 10)
	msg := ts + method + path + body

	secret, err := base64.URLEncoding.DecodeString(tc.creds.Secret)
	if err != nil {
		// Secret no base64: firmar con los bytes tal cual.
		secret = []byte(tc.creds.Secret)
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(msg))
	sig := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	return map[string]string{
		"POLY_ADDRESS":    tc.creds.Address,
		"POLY_SIGNATURE":  sig,
		"POLY_TIMESTAMP":  ts,
		"POLY_API_KEY":    tc.creds.APIKey,
		"POLY_PASSPHRASE": tc.creds.Passphrase,
	}
}
