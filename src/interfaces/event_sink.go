package interfaces

import "github.com/lakowske/marketbridge/src/models"

// -----------------------------------------------------------------------------
// IEventSink receives broker callbacks, one method per event kind. The broker
// gateway calls these from its own reader goroutine; implementations must
// never block on network I/O.
// -----------------------------------------------------------------------------

type IEventSink interface {

	// TickPrice delivers a level-1 price update.
	TickPrice(reqID int64, tickTypeCode int64, price float64, canAutoExecute, pastLimit, preOpen bool)

	// TickSize delivers a level-1 size update.
	TickSize(reqID int64, tickTypeCode int64, size float64)

	// TickString delivers a string-valued tick (e.g. RTVolume).
	TickString(reqID int64, tickTypeCode int64, value string)

	// TickByTickAllLast delivers one trade print with its attrib flags.
	TickByTickAllLast(reqID int64, tradeTime int64, price float64, size float64, pastLimit, unreported bool, exchange string, specialConditions string)

	// TickByTickBidAsk delivers one bid/ask change with its attrib flags.
	TickByTickBidAsk(reqID int64, tradeTime int64, bidPrice, askPrice, bidSize, askSize float64, bidPastLow, askPastHigh bool)

	// TickByTickMidPoint delivers one midpoint change.
	TickByTickMidPoint(reqID int64, tradeTime int64, midPoint float64)

	// OrderStatus delivers an order lifecycle update.
	OrderStatus(orderID int64, status string, filled, remaining, avgFillPrice, lastFillPrice float64)

	// ContractDetails delivers one contract-details row.
	ContractDetails(reqID int64, record models.MContractRecord)

	// ContractDetailsEnd signals the end of a contract-details response.
	ContractDetailsEnd(reqID int64)

	// HandleError delivers a broker-side error or notice.
	HandleError(reqID int64, errorCode int64, errorString string)

	// ConnectionEstablished signals a completed handshake with the first
	// valid order id.
	ConnectionEstablished(nextOrderID int64)
}
