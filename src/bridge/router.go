package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/lakowske/marketbridge/src/logger"
	"github.com/lakowske/marketbridge/src/metrics"
	"github.com/lakowske/marketbridge/src/models"
)

// -----------------------------------------------------------------------------
// Command Router
// Parses one raw client frame and dispatches to the resolver or the order
// facade. Failures become structured error replies to the issuing client;
// nothing here may take down the connection handler.
// -----------------------------------------------------------------------------

type Router struct {
	resolver *SubscriptionResolver
	orders   *OrderManager
	logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewRouter(resolver *SubscriptionResolver, orders *OrderManager, l *logger.Logger) *Router {
	return &Router{resolver: resolver, orders: orders, logger: l}
}

// -----------------------------------------------------------------------------

// Handle processes one raw frame and returns direct replies for the same
// client (empty on success).
func (r *Router) Handle(raw []byte) (replies []interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Panic while handling command: %v", rec)
			replies = append(replies, models.NewErrorReply(fmt.Sprintf("Internal error: %v", rec)))
		}
	}()

	var cmd models.MCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return []interface{}{models.NewErrorReply("Invalid JSON message")}
	}

	metrics.IncCommand(cmd.Command)

	var err error
	switch cmd.Command {
	case "subscribe_market_data":
		err = r.resolver.Subscribe(models.KindMarketData, &cmd)
	case "unsubscribe_market_data":
		r.resolver.Unsubscribe(cmd.Symbol, models.KindMarketData)
	case "subscribe_time_and_sales":
		err = r.resolver.Subscribe(models.KindTimeAndSales, &cmd)
	case "unsubscribe_time_and_sales":
		r.resolver.Unsubscribe(cmd.Symbol, models.KindTimeAndSales)
	case "subscribe_bid_ask":
		err = r.resolver.Subscribe(models.KindBidAsk, &cmd)
	case "unsubscribe_bid_ask":
		r.resolver.Unsubscribe(cmd.Symbol, models.KindBidAsk)
	case "place_order":
		_, err = r.orders.PlaceOrder(&cmd)
	case "cancel_order":
		err = r.orders.CancelOrder(cmd.OrderID)
	case "get_contract_details":
		err = r.resolver.RequestContractDetails(&cmd)
	default:
		return []interface{}{models.NewErrorReply(fmt.Sprintf("Unknown command: %s", cmd.Command))}
	}

	if err != nil {
		r.logger.Warning("Command %s failed: %v", cmd.Command, err)
		return []interface{}{models.NewErrorReply(err.Error())}
	}
	return nil
}
