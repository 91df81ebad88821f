package domain

// Side es uno de los dos lados de un mercado binario.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// Opposite devuelve el lado contrario.
func (s Side) Opposite() Side {
	if s == SideYes {
		return SideNo
	}
	return SideYes
}

// PriceQuote es una muestra completa de precios: mejor precio ejecutable de
// cada lado más sus token ids. La cotización es todo-o-nada — si cualquiera
// de los dos lados falla tras agotar reintentos, no se produce PriceQuote y
// el ciclo entero se salta. Nunca se tradea con un solo precio conocido.
type PriceQuote struct {
	YesPrice   float64
	NoPrice    float64
	YesTokenID string
	NoTokenID  string
}

// Price devuelve el precio del lado dado.
func (q PriceQuote) Price(side Side) float64 {
	if side == SideYes {
		return q.YesPrice
	}
	return q.NoPrice
}

// TokenID devuelve el token id del lado dado.
func (q PriceQuote) TokenID(side Side) string {
	if side == SideYes {
		return q.YesTokenID
	}
	return q.NoTokenID
}

// Valid devuelve true si ambos precios están en (0, 1).
func (q PriceQuote) Valid() bool {
	return q.YesPrice > 0 && q.YesPrice < 1 && q.NoPrice > 0 && q.NoPrice < 1
}

// Fill es el resultado reportado por el exchange al ejecutar una orden.
// Shares es el número de shares compradas (takingAmount) y Cost el coste
// real en USDC (makingAmount) — puede diferir de lo pedido.
type Fill struct {
	Shares float64
	Cost   float64
}
