package domain

// Position es la posición cubierta (hedge) de un mercado: shares y coste
// acumulado de cada lado. Ambas cantidades y ambos costes solo crecen
// mientras la posición está abierta; se ponen a cero únicamente como parte
// de la transición de settlement.
type Position struct {
	AmountYes float64 `json:"amount_yes"`
	AmountNo  float64 `json:"amount_no"`
	CostYes   float64 `json:"cost_yes"`
	CostNo    float64 `json:"cost_no"`
}

// IsEmpty devuelve true si no hay shares en ningún lado.
func (p Position) IsEmpty() bool {
	return p.AmountYes == 0 && p.AmountNo == 0
}

// AvgYes devuelve el coste medio por share del lado YES (0 si no hay shares).
func (p Position) AvgYes() float64 {
	if p.AmountYes <= 0 {
		return 0
	}
	return p.CostYes / p.AmountYes
}

// AvgNo devuelve el coste medio por share del lado NO (0 si no hay shares).
func (p Position) AvgNo() float64 {
	if p.AmountNo <= 0 {
		return 0
	}
	return p.CostNo / p.AmountNo
}

// PairCost es la suma de los costes medios de ambos lados. Cuando cae por
// debajo del payout terminal de $1 por pareja, la salida está garantizada.
func (p Position) PairCost() float64 {
	return p.AvgYes() + p.AvgNo()
}

// TotalCost es el coste total pagado por ambos lados.
func (p Position) TotalCost() float64 {
	return p.CostYes + p.CostNo
}

// Amount devuelve las shares del lado dado.
func (p Position) Amount(side Side) float64 {
	if side == SideYes {
		return p.AmountYes
	}
	return p.AmountNo
}

// ApplyFill añade un fill al lado dado y devuelve la posición resultante.
func (p Position) ApplyFill(side Side, fill Fill) Position {
	if side == SideYes {
		p.AmountYes += fill.Shares
		p.CostYes += fill.Cost
	} else {
		p.AmountNo += fill.Shares
		p.CostNo += fill.Cost
	}
	return p
}

// ShouldExit devuelve true si hay una salida con beneficio garantizado:
// la pata más pequeña del hedge, valorada a su payout terminal de $1,
// supera el coste total. En ese punto el beneficio no depende de qué
// outcome resuelva.
//
//	min(amountYes, amountNo) > costYes + costNo
func ShouldExit(p Position) bool {
	minAmount := p.AmountYes
	if p.AmountNo < minAmount {
		minAmount = p.AmountNo
	}
	return minAmount > p.TotalCost()
}
