package interfaces

import "github.com/lakowske/marketbridge/src/models"

// -----------------------------------------------------------------------------
// IBrokerGateway is the outbound surface of the broker connection. Calls are
// fire-and-forget; results come back asynchronously through IEventSink.
// -----------------------------------------------------------------------------

type IBrokerGateway interface {

	// Connect establishes the broker session (blocking handshake).
	Connect(host string, port int, clientID int) error

	// -----------------------------------------------------------------------------

	// Disconnect tears the session down.
	Disconnect()

	// -----------------------------------------------------------------------------

	// IsConnected reports whether the session is up.
	IsConnected() bool

	// -----------------------------------------------------------------------------

	// ReqMktData starts a streaming level-1 market data subscription.
	ReqMktData(reqID int64, contract *models.MContract, genericTickList string)

	// -----------------------------------------------------------------------------

	// ReqTickByTickData starts a tick-by-tick stream ("AllLast", "BidAsk", "MidPoint").
	ReqTickByTickData(reqID int64, contract *models.MContract, tickType string)

	// -----------------------------------------------------------------------------

	// ReqContractDetails requests contract definitions matching the descriptor.
	ReqContractDetails(reqID int64, contract *models.MContract)

	// -----------------------------------------------------------------------------

	// PlaceOrder submits an order under the given broker order id.
	PlaceOrder(orderID int64, contract *models.MContract, order *models.MOrder)

	// -----------------------------------------------------------------------------

	// CancelOrder cancels a previously placed order.
	CancelOrder(orderID int64)

	// -----------------------------------------------------------------------------

	// CancelMktData stops a ReqMktData subscription.
	CancelMktData(reqID int64)

	// -----------------------------------------------------------------------------

	// CancelTickByTickData stops a ReqTickByTickData subscription.
	CancelTickByTickData(reqID int64)
}
