package models

import "time"

// -----------------------------------------------------------------------------
// Subscription State
// -----------------------------------------------------------------------------

// Request kinds correlating an outbound broker request with its callbacks.
const (
	KindMarketData      = "market_data"
	KindTimeAndSales    = "time_and_sales"
	KindBidAsk          = "bid_ask"
	KindContractDetails = "contract_details"
)

// MActiveRequest records one live broker request. Request ids are strictly
// increasing and never reused within a process lifetime.
type MActiveRequest struct {
	ReqID          int64      `json:"req_id"`
	Kind           string     `json:"kind"`
	Symbol         string     `json:"symbol"`
	InstrumentType string     `json:"instrument_type"`
	Contract       *MContract `json:"contract"`
	ResolvedExpiry string     `json:"resolved_expiry,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
