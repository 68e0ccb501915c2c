package broker

import (
	"github.com/lakowske/marketbridge/src/interfaces"
	"github.com/lakowske/marketbridge/src/logger"
	"github.com/lakowske/marketbridge/src/models"

	"github.com/robaho/fixed"
	"github.com/scmhub/ibapi"
)

// -----------------------------------------------------------------------------
// TWS Gateway
// The only package that touches github.com/scmhub/ibapi. Outbound calls
// satisfy interfaces.IBrokerGateway; inbound callbacks arrive on the
// ibapi reader goroutine and are forwarded to the event sink.
// -----------------------------------------------------------------------------

type TWSGateway struct {
	client  *ibapi.EClient
	wrapper *sinkWrapper
	logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewTWSGateway(l *logger.Logger) *TWSGateway {
	w := &sinkWrapper{logger: l}
	return &TWSGateway{
		client:  ibapi.NewEClient(w),
		wrapper: w,
		logger:  l,
	}
}

// -----------------------------------------------------------------------------

// BindSink attaches the callback sink. Must be called before Connect;
// the event sink depends on components that are built after the gateway.
func (g *TWSGateway) BindSink(sink interfaces.IEventSink) {
	g.wrapper.sink = sink
}

// -----------------------------------------------------------------------------
// Outbound (interfaces.IBrokerGateway)
// -----------------------------------------------------------------------------

func (g *TWSGateway) Connect(host string, port int, clientID int) error {
	g.logger.Info("Connecting to TWS at %s:%d (client id %d)", host, port, clientID)
	return g.client.Connect(host, port, int64(clientID))
}

func (g *TWSGateway) Disconnect() {
	g.client.Disconnect()
}

func (g *TWSGateway) IsConnected() bool {
	return g.client.IsConnected()
}

// -----------------------------------------------------------------------------

func (g *TWSGateway) ReqMktData(reqID int64, contract *models.MContract, genericTickList string) {
	g.client.ReqMktData(reqID, toIBContract(contract), genericTickList, false, false, nil)
}

func (g *TWSGateway) ReqTickByTickData(reqID int64, contract *models.MContract, tickType string) {
	g.client.ReqTickByTickData(reqID, toIBContract(contract), tickType, 0, false)
}

func (g *TWSGateway) ReqContractDetails(reqID int64, contract *models.MContract) {
	g.client.ReqContractDetails(reqID, toIBContract(contract))
}

// -----------------------------------------------------------------------------

func (g *TWSGateway) PlaceOrder(orderID int64, contract *models.MContract, order *models.MOrder) {
	ibOrder := ibapi.NewOrder()
	ibOrder.Action = order.Action
	ibOrder.TotalQuantity = ibapi.Decimal(fixed.NewF(order.TotalQuantity))
	ibOrder.OrderType = order.OrderType
	ibOrder.LmtPrice = order.LmtPrice
	ibOrder.AuxPrice = order.AuxPrice

	g.client.PlaceOrder(orderID, toIBContract(contract), ibOrder)
}

func (g *TWSGateway) CancelOrder(orderID int64) {
	g.client.CancelOrder(orderID, ibapi.NewOrderCancel())
}

func (g *TWSGateway) CancelMktData(reqID int64) {
	g.client.CancelMktData(reqID)
}

func (g *TWSGateway) CancelTickByTickData(reqID int64) {
	g.client.CancelTickByTickData(reqID)
}

// -----------------------------------------------------------------------------

func toIBContract(c *models.MContract) *ibapi.Contract {
	contract := ibapi.NewContract()
	contract.Symbol = c.Symbol
	contract.SecType = c.SecType
	contract.Exchange = c.Exchange
	contract.Currency = c.Currency
	contract.LastTradeDateOrContractMonth = c.LastTradeDateOrContractMonth
	contract.Strike = c.Strike
	contract.Right = c.Right
	contract.Multiplier = c.Multiplier
	return contract
}

// -----------------------------------------------------------------------------
// Inbound callbacks
// sinkWrapper embeds the package's default wrapper and overrides only the
// events the bridge forwards; everything else keeps the default logging.
// -----------------------------------------------------------------------------

type sinkWrapper struct {
	ibapi.Wrapper
	sink   interfaces.IEventSink
	logger *logger.Logger
}

// -----------------------------------------------------------------------------

func (w *sinkWrapper) NextValidID(reqID int64) {
	w.sink.ConnectionEstablished(reqID)
}

// -----------------------------------------------------------------------------

func (w *sinkWrapper) TickPrice(reqID ibapi.TickerID, tickType ibapi.TickType, price float64, attrib ibapi.TickAttrib) {
	w.sink.TickPrice(int64(reqID), int64(tickType), price, attrib.CanAutoExecute, attrib.PastLimit, attrib.PreOpen)
}

func (w *sinkWrapper) TickSize(reqID ibapi.TickerID, tickType ibapi.TickType, size ibapi.Decimal) {
	w.sink.TickSize(int64(reqID), int64(tickType), size.Float())
}

func (w *sinkWrapper) TickString(reqID ibapi.TickerID, tickType ibapi.TickType, value string) {
	w.sink.TickString(int64(reqID), int64(tickType), value)
}

// -----------------------------------------------------------------------------

func (w *sinkWrapper) TickByTickAllLast(reqID ibapi.TickerID, tickType int64, time int64, price float64, size ibapi.Decimal, tickAttribLast ibapi.TickAttribLast, exchange string, specialConditions string) {
	w.sink.TickByTickAllLast(int64(reqID), time, price, size.Float(), tickAttribLast.PastLimit, tickAttribLast.Unreported, exchange, specialConditions)
}

func (w *sinkWrapper) TickByTickBidAsk(reqID ibapi.TickerID, time int64, bidPrice float64, askPrice float64, bidSize ibapi.Decimal, askSize ibapi.Decimal, tickAttribBidAsk ibapi.TickAttribBidAsk) {
	w.sink.TickByTickBidAsk(int64(reqID), time, bidPrice, askPrice, bidSize.Float(), askSize.Float(), tickAttribBidAsk.BidPastLow, tickAttribBidAsk.AskPastHigh)
}

func (w *sinkWrapper) TickByTickMidPoint(reqID ibapi.TickerID, time int64, midPoint float64) {
	w.sink.TickByTickMidPoint(int64(reqID), time, midPoint)
}

// -----------------------------------------------------------------------------

func (w *sinkWrapper) OrderStatus(orderID ibapi.OrderID, status string, filled ibapi.Decimal, remaining ibapi.Decimal, avgFillPrice float64, permID int64, parentID int64, lastFillPrice float64, clientID int64, whyHeld string, mktCapPrice float64) {
	w.sink.OrderStatus(int64(orderID), status, filled.Float(), remaining.Float(), avgFillPrice, lastFillPrice)
}

// -----------------------------------------------------------------------------

func (w *sinkWrapper) ContractDetails(reqID ibapi.TickerID, contractDetails *ibapi.ContractDetails) {
	record := models.MContractRecord{
		ConID:         contractDetails.Contract.ConID,
		Symbol:        contractDetails.Contract.Symbol,
		SecType:       contractDetails.Contract.SecType,
		Exchange:      contractDetails.Contract.Exchange,
		Currency:      contractDetails.Contract.Currency,
		LocalSymbol:   contractDetails.Contract.LocalSymbol,
		LastTradeDate: contractDetails.Contract.LastTradeDateOrContractMonth,
		ContractMonth: contractDetails.ContractMonth,
		Multiplier:    contractDetails.Contract.Multiplier,
		MinTick:       contractDetails.MinTick,
		LongName:      contractDetails.LongName,
	}
	w.sink.ContractDetails(int64(reqID), record)
}

func (w *sinkWrapper) ContractDetailsEnd(reqID ibapi.TickerID) {
	w.sink.ContractDetailsEnd(int64(reqID))
}

// -----------------------------------------------------------------------------

func (w *sinkWrapper) Error(reqID ibapi.TickerID, errorTime int64, errCode int64, errString string, advancedOrderRejectJson string) {
	w.sink.HandleError(int64(reqID), errCode, errString)
}
