package models

// -----------------------------------------------------------------------------
// Instrument Descriptors
// -----------------------------------------------------------------------------

// MContract describes a tradable instrument in broker terms.
// Immutable once built; constructed fresh per subscription.
type MContract struct {
	Symbol                       string  `json:"symbol"`
	SecType                      string  `json:"sec_type"`
	Exchange                     string  `json:"exchange"`
	Currency                     string  `json:"currency"`
	LastTradeDateOrContractMonth string  `json:"expiry,omitempty"`
	Strike                       float64 `json:"strike,omitempty"`
	Right                        string  `json:"right,omitempty"`
	Multiplier                   string  `json:"multiplier,omitempty"`
}

// -----------------------------------------------------------------------------

// MOrder is the broker-bound order payload built by the order facade.
type MOrder struct {
	Action        string  `json:"action"`
	TotalQuantity float64 `json:"quantity"`
	OrderType     string  `json:"order_type"`
	LmtPrice      float64 `json:"limit_price,omitempty"`
	AuxPrice      float64 `json:"stop_price,omitempty"`
}

// -----------------------------------------------------------------------------

// MContractRecord is one contract-details row returned by the broker.
// Rows feed front-month resolution and are broadcast to clients as
// contract_details messages.
type MContractRecord struct {
	ConID         int64   `json:"con_id"`
	Symbol        string  `json:"symbol"`
	SecType       string  `json:"sec_type"`
	Exchange      string  `json:"exchange"`
	Currency      string  `json:"currency"`
	LocalSymbol   string  `json:"local_symbol"`
	LastTradeDate string  `json:"last_trade_date"`
	ContractMonth string  `json:"contract_month"`
	Multiplier    string  `json:"multiplier"`
	MinTick       float64 `json:"min_tick"`
	LongName      string  `json:"long_name"`
}

// Expiry returns the date string used for front-month ordering.
func (r *MContractRecord) Expiry() string {
	if r.LastTradeDate != "" {
		return r.LastTradeDate
	}
	return r.ContractMonth
}
