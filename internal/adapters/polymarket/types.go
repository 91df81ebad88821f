package polymarket

// DTOs raw de las APIs de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaSeries es un item de GET /series?slug=...
type gammaSeries struct {
	ID     string       `json:"id"`
	Slug   string       `json:"slug"`
	Title  string       `json:"title"`
	Events []gammaEvent `json:"events"`
}

// gammaEvent es un evento dentro de una serie.
type gammaEvent struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// gammaMarket es un mercado de GET /markets. Gamma devuelve los arrays
// clobTokenIds y outcomePrices como strings JSON-encoded, de ahí los campos
// string que mapping.go decodifica.
type gammaMarket struct {
	ID             string `json:"id"`
	Question       string `json:"question"`
	Slug           string `json:"slug"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	EventStartTime string `json:"eventStartTime"`
	Active         bool   `json:"active"`
	Closed         bool   `json:"closed"`
	Outcomes       string `json:"outcomes"`
	OutcomePrices  string `json:"outcomePrices"`
	ClobTokenIDs   string `json:"clobTokenIds"`
}

// --- CLOB API ---

// priceResponse es la respuesta de GET /price.
type priceResponse struct {
	Price string `json:"price"`
}

// balanceResponse es la respuesta de GET /balance-allowance.
// El balance viene en unidades mínimas de USDC (6 decimales).
type balanceResponse struct {
	Balance string `json:"balance"`
}

// marketOrderRequest es el body de POST /order para una orden FOK.
type marketOrderRequest struct {
	TokenID   string  `json:"token_id"`
	Amount    float64 `json:"amount"`
	Side      string  `json:"side"`
	OrderType string  `json:"order_type"`
}

// marketOrderResponse es la respuesta de POST /order.
// takingAmount son las shares compradas, makingAmount el coste en USDC.
type marketOrderResponse struct {
	ErrorMsg     string `json:"errorMsg"`
	OrderID      string `json:"orderID"`
	TakingAmount string `json:"takingAmount"`
	MakingAmount string `json:"makingAmount"`
	Status       string `json:"status"`
	Success      bool   `json:"success"`
}
