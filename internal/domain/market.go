package domain

import "time"

// Market representa el mercado binario activo de una serie de Polymarket.
type Market struct {
	ID         string
	Question   string
	Slug       string
	StartTime  time.Time // eventStartTime; puede ser zero si Gamma no lo devuelve
	EndTime    time.Time // fecha de resolución; puede ser zero si Gamma no lo devuelve
	YesTokenID string
	NoTokenID  string
	// YesOutcomePrice/NoOutcomePrice son los precios terminales que publica
	// Gamma ("outcomePrices"), no el order book en vivo. Se usan solo para
	// estimar el settlement al cerrar la posición.
	YesOutcomePrice float64
	NoOutcomePrice  float64
	Active          bool
	Closed          bool
}

// TokenID devuelve el token id del lado dado.
func (m Market) TokenID(side Side) string {
	if side == SideYes {
		return m.YesTokenID
	}
	return m.NoTokenID
}

// HasSchedule devuelve true si el mercado tiene start y end válidos.
// Si falta alguno, el timing gate de entrada se salta (fail-open deliberado:
// un timestamp malformado no debe parar la estrategia entera).
func (m Market) HasSchedule() bool {
	return !m.StartTime.IsZero() && !m.EndTime.IsZero()
}
