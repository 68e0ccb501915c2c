package bridge

import (
	"strings"
	"sync"

	"github.com/lakowske/marketbridge/src/contracts"
	"github.com/lakowske/marketbridge/src/helpers"
	"github.com/lakowske/marketbridge/src/interfaces"
	"github.com/lakowske/marketbridge/src/logger"
	"github.com/lakowske/marketbridge/src/metrics"
	"github.com/lakowske/marketbridge/src/models"
)

// -----------------------------------------------------------------------------
// Order Facade
// Thin pass-through for place/cancel. Order ids come from the broker
// handshake and increase monotonically; status updates flow back through
// the callback adapter.
// -----------------------------------------------------------------------------

type OrderManager struct {
	gateway interfaces.IBrokerGateway
	logger  *logger.Logger

	mu          sync.Mutex
	nextOrderID int64
}

// -----------------------------------------------------------------------------

func NewOrderManager(gateway interfaces.IBrokerGateway, l *logger.Logger) *OrderManager {
	return &OrderManager{gateway: gateway, logger: l}
}

// -----------------------------------------------------------------------------

// SetNextOrderID seeds the counter from the broker handshake.
func (o *OrderManager) SetNextOrderID(id int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextOrderID = id
}

// -----------------------------------------------------------------------------

// NextOrderID reports the id the next order would use.
func (o *OrderManager) NextOrderID() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nextOrderID
}

// -----------------------------------------------------------------------------

// PlaceOrder validates the command, assigns the next order id and submits.
func (o *OrderManager) PlaceOrder(cmd *models.MCommand) (int64, error) {
	if cmd.Symbol == "" {
		return 0, helpers.NewValidationError("symbol is required")
	}

	action := strings.ToUpper(cmd.Action)
	if action != "BUY" && action != "SELL" {
		return 0, helpers.NewValidationError("action must be BUY or SELL")
	}
	if cmd.Quantity <= 0 {
		return 0, helpers.NewValidationError("quantity must be greater than 0")
	}

	orderType := strings.ToUpper(cmd.OrderType)
	if orderType == "" {
		orderType = "MKT"
	}

	order := &models.MOrder{
		Action:        action,
		TotalQuantity: cmd.Quantity,
		OrderType:     orderType,
	}

	switch orderType {
	case "MKT":
		// No price fields
	case "LMT":
		if cmd.LimitPrice <= 0 {
			return 0, helpers.NewValidationError("limit_price is required for LMT orders")
		}
		order.LmtPrice = cmd.LimitPrice
	case "STP":
		if cmd.StopPrice <= 0 {
			return 0, helpers.NewValidationError("stop_price is required for STP orders")
		}
		order.AuxPrice = cmd.StopPrice
	default:
		return 0, helpers.NewValidationError("unsupported order type: %s", orderType)
	}

	// Orders default to stock; futures roots are only auto-detected on
	// the subscribe path, where the front-month resolver can supply the
	// missing expiry.
	instrumentType := cmd.InstrumentType
	if instrumentType == "" {
		instrumentType = "stock"
	}
	contract, err := contracts.Create(instrumentType, cmd)
	if err != nil {
		return 0, helpers.NewValidationError("cannot build contract for %s: %v", cmd.Symbol, err)
	}

	o.mu.Lock()
	if o.nextOrderID == 0 {
		o.mu.Unlock()
		return 0, &helpers.BrokerError{BridgeError: helpers.BridgeError{Message: "broker handshake incomplete, no order id available"}}
	}
	orderID := o.nextOrderID
	o.nextOrderID++
	o.mu.Unlock()

	o.logger.Info("Placing order %d: %s %v %s %s", orderID, action, cmd.Quantity, orderType, cmd.Symbol)
	metrics.IncOrder(action)
	o.gateway.PlaceOrder(orderID, contract, order)
	return orderID, nil
}

// -----------------------------------------------------------------------------

// CancelOrder forwards the cancel to the broker.
func (o *OrderManager) CancelOrder(orderID int64) error {
	if orderID <= 0 {
		return helpers.NewValidationError("order_id is required")
	}
	o.logger.Info("Cancelling order %d", orderID)
	o.gateway.CancelOrder(orderID)
	return nil
}
