package bridge

import (
	"fmt"
	"strings"

	"github.com/lakowske/marketbridge/src/interfaces"
	"github.com/lakowske/marketbridge/src/logger"
	"github.com/lakowske/marketbridge/src/metrics"
	"github.com/lakowske/marketbridge/src/models"
)

// -----------------------------------------------------------------------------
// Broker Callback Adapter
// Translates every broker callback into exactly one normalized message and
// hands it to the publisher. Runs on the broker's reader goroutine, so the
// only side effect allowed here is a non-blocking publish.
// -----------------------------------------------------------------------------

// priceTicks maps the broker's numeric price tick codes to wire names.
var priceTicks = map[int64]string{
	1:  "bid",
	2:  "ask",
	4:  "last",
	6:  "high",
	7:  "low",
	9:  "close",
	14: "open",
	15: "low_13_week",
	16: "high_13_week",
	17: "low_26_week",
	18: "high_26_week",
	19: "low_52_week",
	20: "high_52_week",
	21: "avg_volume",
	35: "auction_volume",
	37: "mark_price",
}

// sizeTicks maps the broker's numeric size tick codes to wire names.
var sizeTicks = map[int64]string{
	0:  "bid_size",
	3:  "ask_size",
	5:  "last_size",
	8:  "volume",
	21: "avg_volume",
	27: "call_open_interest",
	28: "put_open_interest",
	29: "call_volume",
	30: "put_volume",
}

// tickNames covers the remaining documented codes for the fallback path;
// codes outside the enum fall back to tick_<code>.
var tickNames = map[int64]string{
	10: "bid_option_computation",
	11: "ask_option_computation",
	12: "last_option_computation",
	13: "model_option",
	22: "open_interest",
	23: "option_historical_vol",
	24: "option_implied_vol",
	25: "option_bid_exch",
	26: "option_ask_exch",
	31: "index_future_premium",
	32: "bid_exch",
	33: "ask_exch",
	34: "auction_volume",
	36: "auction_imbalance",
	45: "last_timestamp",
	46: "shortable",
	47: "fundamental_ratios",
	48: "rt_volume",
	49: "halted",
	50: "bid_yield",
	51: "ask_yield",
	52: "last_yield",
	53: "cust_option_computation",
	54: "trade_count",
	55: "trade_rate",
	56: "volume_rate",
	57: "last_rth_trade",
	58: "rt_historical_vol",
	59: "ib_dividends",
	60: "bond_factor_multiplier",
	61: "regulatory_imbalance",
	62: "news_tick",
	63: "short_term_volume_3_min",
	64: "short_term_volume_5_min",
	65: "short_term_volume_10_min",
	66: "delayed_bid",
	67: "delayed_ask",
	68: "delayed_last",
	69: "delayed_bid_size",
	70: "delayed_ask_size",
	71: "delayed_last_size",
	72: "delayed_high",
	73: "delayed_low",
	74: "delayed_volume",
	75: "delayed_close",
	76: "delayed_open",
	77: "rt_trd_volume",
	78: "creditman_mark_price",
	79: "creditman_slow_mark_price",
	80: "delayed_bid_option",
	81: "delayed_ask_option",
	82: "delayed_last_option",
	83: "delayed_model_option",
	84: "last_exch",
	85: "last_reg_time",
	86: "futures_open_interest",
	87: "avg_opt_volume",
	88: "delayed_last_timestamp",
	89: "shortable_shares",
	90: "delayed_halted",
}

// -----------------------------------------------------------------------------

func tickName(table map[int64]string, code int64) string {
	if name, ok := table[code]; ok {
		return name
	}
	if name, ok := tickNames[code]; ok {
		return name
	}
	return fmt.Sprintf("tick_%d", code)
}

// -----------------------------------------------------------------------------

// CallbackAdapter implements interfaces.IEventSink.
type CallbackAdapter struct {
	publisher interfaces.IDataExchanger
	resolver  *SubscriptionResolver
	orders    *OrderManager
	logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCallbackAdapter(publisher interfaces.IDataExchanger, resolver *SubscriptionResolver, orders *OrderManager, l *logger.Logger) *CallbackAdapter {
	return &CallbackAdapter{
		publisher: publisher,
		resolver:  resolver,
		orders:    orders,
		logger:    l,
	}
}

// -----------------------------------------------------------------------------
// Market Data Ticks
// -----------------------------------------------------------------------------

func (a *CallbackAdapter) TickPrice(reqID int64, tickTypeCode int64, price float64, canAutoExecute, pastLimit, preOpen bool) {
	_, important := priceTicks[tickTypeCode]
	if !important && tickTypeCode > 50 {
		return
	}

	a.logger.Debug("Price tick - req %d type %d price %v", reqID, tickTypeCode, price)
	a.publisher.Broadcast(&models.MPriceTick{
		Type:           "market_data",
		DataType:       "price",
		ReqID:          reqID,
		TickType:       tickName(priceTicks, tickTypeCode),
		TickTypeCode:   tickTypeCode,
		Price:          price,
		CanAutoExecute: canAutoExecute,
		PastLimit:      pastLimit,
		PreOpen:        preOpen,
		Timestamp:      models.Now(),
	})
}

// -----------------------------------------------------------------------------

func (a *CallbackAdapter) TickSize(reqID int64, tickTypeCode int64, size float64) {
	_, important := sizeTicks[tickTypeCode]
	if !important && tickTypeCode > 50 {
		return
	}

	a.logger.Debug("Size tick - req %d type %d size %v", reqID, tickTypeCode, size)
	a.publisher.Broadcast(&models.MSizeTick{
		Type:         "market_data",
		DataType:     "size",
		ReqID:        reqID,
		TickType:     tickName(sizeTicks, tickTypeCode),
		TickTypeCode: tickTypeCode,
		Size:         size,
		Timestamp:    models.Now(),
	})
}

// -----------------------------------------------------------------------------

func (a *CallbackAdapter) TickString(reqID int64, tickTypeCode int64, value string) {
	a.publisher.Broadcast(&models.MStringTick{
		Type:         "market_data",
		DataType:     "string",
		ReqID:        reqID,
		TickType:     tickName(nil, tickTypeCode),
		TickTypeCode: tickTypeCode,
		Value:        value,
		Timestamp:    models.Now(),
	})
}

// -----------------------------------------------------------------------------
// Tick-by-Tick
// -----------------------------------------------------------------------------

func (a *CallbackAdapter) TickByTickAllLast(reqID int64, tradeTime int64, price float64, size float64, pastLimit, unreported bool, exchange string, specialConditions string) {
	a.publisher.Broadcast(&models.MTimeAndSales{
		Type:              "time_and_sales",
		ReqID:             reqID,
		TickType:          "last",
		TradeTime:         tradeTime,
		Price:             price,
		Size:              size,
		PastLimit:         pastLimit,
		Unreported:        unreported,
		Exchange:          exchange,
		SpecialConditions: specialConditions,
		// Trade prints are stamped with the broker's trade time.
		Timestamp: float64(tradeTime),
	})
}

// -----------------------------------------------------------------------------

func (a *CallbackAdapter) TickByTickBidAsk(reqID int64, tradeTime int64, bidPrice, askPrice, bidSize, askSize float64, bidPastLow, askPastHigh bool) {
	a.publisher.Broadcast(&models.MBidAskTick{
		Type:        "bid_ask_tick",
		ReqID:       reqID,
		TradeTime:   tradeTime,
		BidPrice:    bidPrice,
		AskPrice:    askPrice,
		BidSize:     bidSize,
		AskSize:     askSize,
		BidPastLow:  bidPastLow,
		AskPastHigh: askPastHigh,
		Timestamp:   models.Now(),
	})
}

// -----------------------------------------------------------------------------

func (a *CallbackAdapter) TickByTickMidPoint(reqID int64, tradeTime int64, midPoint float64) {
	a.publisher.Broadcast(&models.MMidpointTick{
		Type:      "midpoint_tick",
		ReqID:     reqID,
		TradeTime: tradeTime,
		Midpoint:  midPoint,
		Timestamp: models.Now(),
	})
}

// -----------------------------------------------------------------------------
// Orders
// -----------------------------------------------------------------------------

func (a *CallbackAdapter) OrderStatus(orderID int64, status string, filled, remaining, avgFillPrice, lastFillPrice float64) {
	a.logger.Info("Order %d status %s (filled %v remaining %v)", orderID, status, filled, remaining)
	a.publisher.Broadcast(&models.MOrderStatus{
		Type:          "order_status",
		OrderID:       orderID,
		Status:        status,
		Filled:        filled,
		Remaining:     remaining,
		AvgFillPrice:  avgFillPrice,
		LastFillPrice: lastFillPrice,
		Timestamp:     models.Now(),
	})
}

// -----------------------------------------------------------------------------
// Contract Details
// Rows feed the resolver's pending front-month table and are always
// broadcast to clients as well.
// -----------------------------------------------------------------------------

func (a *CallbackAdapter) ContractDetails(reqID int64, record models.MContractRecord) {
	a.resolver.OnContractDetails(reqID, record)
	a.publisher.Broadcast(&models.MContractDetails{
		Type:      "contract_details",
		ReqID:     reqID,
		Contract:  record,
		Timestamp: models.Now(),
	})
}

// -----------------------------------------------------------------------------

func (a *CallbackAdapter) ContractDetailsEnd(reqID int64) {
	a.resolver.OnContractDetailsEnd(reqID)
	a.publisher.Broadcast(&models.MContractDetailsEnd{
		Type:      "contract_details_end",
		ReqID:     reqID,
		Timestamp: models.Now(),
	})
}

// -----------------------------------------------------------------------------
// Errors and Connection
// -----------------------------------------------------------------------------

// Severity derives from the broker's numeric code ranges.
func severityForCode(code int64) string {
	switch {
	case code < 2000:
		return "error"
	case code < 10000:
		return "warning"
	default:
		return "info"
	}
}

// -----------------------------------------------------------------------------

func (a *CallbackAdapter) HandleError(reqID int64, errorCode int64, errorString string) {
	severity := severityForCode(errorCode)
	metrics.IncBrokerError(severity)

	switch severity {
	case "error":
		a.logger.Error("Broker error %d (req %d): %s", errorCode, reqID, errorString)
	case "warning":
		a.logger.Warning("Broker warning %d (req %d): %s", errorCode, reqID, errorString)
	default:
		a.logger.Info("Broker notice %d (req %d): %s", errorCode, reqID, errorString)
	}

	// Wire severity is uppercase; the metrics label stays lowercase.
	a.publisher.Broadcast(&models.MBrokerError{
		Type:        "error",
		ReqID:       reqID,
		ErrorCode:   errorCode,
		ErrorString: errorString,
		Severity:    strings.ToUpper(severity),
		Timestamp:   models.Now(),
	})
}

// -----------------------------------------------------------------------------

func (a *CallbackAdapter) ConnectionEstablished(nextOrderID int64) {
	a.logger.Info("Broker handshake complete, next order id %d", nextOrderID)
	a.orders.SetNextOrderID(nextOrderID)
	a.publisher.Broadcast(&models.MConnectionStatus{
		Type:        "connection_status",
		Status:      "connected",
		NextOrderID: nextOrderID,
		Timestamp:   models.Now(),
	})
}
