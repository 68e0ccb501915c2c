package models

import "time"

// -----------------------------------------------------------------------------
// Outbound Messages (server -> clients, JSON text frames)
// Every message carries a "type" discriminator and a float-seconds timestamp
// and is serializable on its own.
// -----------------------------------------------------------------------------

// Now returns the wall clock as float seconds since epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// -----------------------------------------------------------------------------

type MConnectionStatus struct {
	Type        string  `json:"type"` // "connection_status"
	Status      string  `json:"status"`
	NextOrderID int64   `json:"next_order_id"`
	Timestamp   float64 `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MPriceTick is a market_data message with data_type "price".
// Attrib flags keep the broker's camelCase key spelling.
type MPriceTick struct {
	Type           string  `json:"type"`      // "market_data"
	DataType       string  `json:"data_type"` // "price"
	ReqID          int64   `json:"req_id"`
	TickType       string  `json:"tick_type"`
	TickTypeCode   int64   `json:"tick_type_code"`
	Price          float64 `json:"price"`
	CanAutoExecute bool    `json:"canAutoExecute"`
	PastLimit      bool    `json:"pastLimit"`
	PreOpen        bool    `json:"preOpen"`
	Timestamp      float64 `json:"timestamp"`
}

type MSizeTick struct {
	Type         string  `json:"type"`      // "market_data"
	DataType     string  `json:"data_type"` // "size"
	ReqID        int64   `json:"req_id"`
	TickType     string  `json:"tick_type"`
	TickTypeCode int64   `json:"tick_type_code"`
	Size         float64 `json:"size"`
	Timestamp    float64 `json:"timestamp"`
}

type MStringTick struct {
	Type         string  `json:"type"`      // "market_data"
	DataType     string  `json:"data_type"` // "string"
	ReqID        int64   `json:"req_id"`
	TickType     string  `json:"tick_type"`
	TickTypeCode int64   `json:"tick_type_code"`
	Value        string  `json:"value"`
	Timestamp    float64 `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MTimeAndSales is one trade print. Timestamp carries the broker's trade
// time rather than the bridge clock.
type MTimeAndSales struct {
	Type              string  `json:"type"`      // "time_and_sales"
	ReqID             int64   `json:"req_id"`
	TickType          string  `json:"tick_type"` // "last"
	TradeTime         int64   `json:"trade_time"`
	Price             float64 `json:"price"`
	Size              float64 `json:"size"`
	PastLimit         bool    `json:"past_limit"`
	Unreported        bool    `json:"unreported"`
	Exchange          string  `json:"exchange"`
	SpecialConditions string  `json:"special_conditions,omitempty"`
	Timestamp         float64 `json:"timestamp"`
}

type MBidAskTick struct {
	Type        string  `json:"type"` // "bid_ask_tick"
	ReqID       int64   `json:"req_id"`
	TradeTime   int64   `json:"trade_time"`
	BidPrice    float64 `json:"bid_price"`
	AskPrice    float64 `json:"ask_price"`
	BidSize     float64 `json:"bid_size"`
	AskSize     float64 `json:"ask_size"`
	BidPastLow  bool    `json:"bid_past_low"`
	AskPastHigh bool    `json:"ask_past_high"`
	Timestamp   float64 `json:"timestamp"`
}

type MMidpointTick struct {
	Type      string  `json:"type"` // "midpoint_tick"
	ReqID     int64   `json:"req_id"`
	TradeTime int64   `json:"trade_time"`
	Midpoint  float64 `json:"midpoint"`
	Timestamp float64 `json:"timestamp"`
}

// -----------------------------------------------------------------------------

type MOrderStatus struct {
	Type          string  `json:"type"` // "order_status"
	OrderID       int64   `json:"order_id"`
	Status        string  `json:"status"`
	Filled        float64 `json:"filled"`
	Remaining     float64 `json:"remaining"`
	AvgFillPrice  float64 `json:"avg_fill_price"`
	LastFillPrice float64 `json:"last_fill_price"`
	Timestamp     float64 `json:"timestamp"`
}

// -----------------------------------------------------------------------------

type MContractDetails struct {
	Type      string          `json:"type"` // "contract_details"
	ReqID     int64           `json:"req_id"`
	Contract  MContractRecord `json:"contract"`
	Timestamp float64         `json:"timestamp"`
}

type MContractDetailsEnd struct {
	Type      string  `json:"type"` // "contract_details_end"
	ReqID     int64   `json:"req_id"`
	Timestamp float64 `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MBrokerError is a broadcast error originating from the broker connection.
type MBrokerError struct {
	Type        string  `json:"type"` // "error"
	ReqID       int64   `json:"req_id"`
	ErrorCode   int64   `json:"error_code"`
	ErrorString string  `json:"error_string"`
	Severity    string  `json:"severity"` // ERROR | WARNING | INFO
	Timestamp   float64 `json:"timestamp"`
}

// MErrorReply is a direct reply to a single client (bad command, bad JSON).
type MErrorReply struct {
	Type      string  `json:"type"` // "error"
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

// NewErrorReply builds a client-facing error reply stamped now.
func NewErrorReply(message string) *MErrorReply {
	return &MErrorReply{Type: "error", Message: message, Timestamp: Now()}
}

// -----------------------------------------------------------------------------
// Inbound Command (client -> server)
// -----------------------------------------------------------------------------

// MCommand is the single envelope for all client commands; the Command
// field selects the operation and the remaining fields are per-command.
type MCommand struct {
	Command        string  `json:"command"`
	Symbol         string  `json:"symbol"`
	InstrumentType string  `json:"instrument_type"`
	Exchange       string  `json:"exchange"`
	Currency       string  `json:"currency"`
	Expiry         string  `json:"expiry"`
	Strike         float64 `json:"strike"`
	Right          string  `json:"right"`
	Action         string  `json:"action"`
	Quantity       float64 `json:"quantity"`
	OrderType      string  `json:"order_type"`
	LimitPrice     float64 `json:"limit_price"`
	StopPrice      float64 `json:"stop_price"`
	OrderID        int64   `json:"order_id"`
}
