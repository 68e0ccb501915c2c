package bridge

import (
	"testing"

	"github.com/lakowske/marketbridge/src/models"
)

func newTestOrderManager() (*OrderManager, *fakeGateway) {
	gateway := &fakeGateway{}
	orders := NewOrderManager(gateway, testLogger())
	orders.SetNextOrderID(100)
	return orders, gateway
}

// -----------------------------------------------------------------------------

func TestPlaceOrderValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  models.MCommand
	}{
		{"missing symbol", models.MCommand{Action: "BUY", Quantity: 1}},
		{"missing action", models.MCommand{Symbol: "AAPL", Quantity: 1}},
		{"bad action", models.MCommand{Symbol: "AAPL", Action: "HOLD", Quantity: 1}},
		{"zero quantity", models.MCommand{Symbol: "AAPL", Action: "BUY"}},
		{"negative quantity", models.MCommand{Symbol: "AAPL", Action: "BUY", Quantity: -5}},
		{"limit without price", models.MCommand{Symbol: "AAPL", Action: "BUY", Quantity: 1, OrderType: "LMT"}},
		{"stop without price", models.MCommand{Symbol: "AAPL", Action: "SELL", Quantity: 1, OrderType: "STP"}},
		{"unknown order type", models.MCommand{Symbol: "AAPL", Action: "BUY", Quantity: 1, OrderType: "TRAIL"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orders, gateway := newTestOrderManager()
			if _, err := orders.PlaceOrder(&tc.cmd); err == nil {
				t.Fatal("Expected validation error")
			}
			if len(gateway.callsFor("PlaceOrder")) != 0 {
				t.Error("Invalid order must not reach the gateway")
			}
		})
	}
}

func TestPlaceOrderRequiresHandshake(t *testing.T) {
	gateway := &fakeGateway{}
	orders := NewOrderManager(gateway, testLogger())

	_, err := orders.PlaceOrder(&models.MCommand{Symbol: "AAPL", Action: "BUY", Quantity: 1})
	if err == nil {
		t.Fatal("Expected error before the broker handshake seeds an order id")
	}
	if len(gateway.callsFor("PlaceOrder")) != 0 {
		t.Error("No order may be placed without a valid id")
	}
}

// -----------------------------------------------------------------------------

func TestPlaceOrderDefaultsToMarket(t *testing.T) {
	orders, gateway := newTestOrderManager()

	orderID, err := orders.PlaceOrder(&models.MCommand{Symbol: "AAPL", Action: "buy", Quantity: 10})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if orderID != 100 {
		t.Errorf("Expected order id 100, got %d", orderID)
	}

	calls := gateway.callsFor("PlaceOrder")
	if len(calls) != 1 {
		t.Fatalf("Expected one placed order, got %d", len(calls))
	}
	if calls[0].order.OrderType != "MKT" {
		t.Errorf("Expected MKT default, got %s", calls[0].order.OrderType)
	}
	if calls[0].order.Action != "BUY" {
		t.Errorf("Action should be uppercased, got %s", calls[0].order.Action)
	}
	if calls[0].contract.Symbol != "AAPL" || calls[0].contract.SecType != "STK" {
		t.Errorf("Unexpected contract %+v", calls[0].contract)
	}
}

func TestPlaceOrderLimitAndStopPrices(t *testing.T) {
	orders, gateway := newTestOrderManager()

	orders.PlaceOrder(&models.MCommand{Symbol: "AAPL", Action: "BUY", Quantity: 5, OrderType: "LMT", LimitPrice: 187.5})
	orders.PlaceOrder(&models.MCommand{Symbol: "AAPL", Action: "SELL", Quantity: 5, OrderType: "STP", StopPrice: 180.0})

	calls := gateway.callsFor("PlaceOrder")
	if len(calls) != 2 {
		t.Fatalf("Expected two placed orders, got %d", len(calls))
	}
	if calls[0].order.LmtPrice != 187.5 {
		t.Errorf("Expected limit price 187.5, got %v", calls[0].order.LmtPrice)
	}
	if calls[1].order.AuxPrice != 180.0 {
		t.Errorf("Expected stop price 180.0, got %v", calls[1].order.AuxPrice)
	}
}

func TestPlaceOrderIncrementsOrderID(t *testing.T) {
	orders, gateway := newTestOrderManager()

	cmd := models.MCommand{Symbol: "AAPL", Action: "BUY", Quantity: 1}
	first, _ := orders.PlaceOrder(&cmd)
	second, _ := orders.PlaceOrder(&cmd)

	if second != first+1 {
		t.Errorf("Order ids must increment: %d then %d", first, second)
	}
	if orders.NextOrderID() != second+1 {
		t.Errorf("NextOrderID should be %d, got %d", second+1, orders.NextOrderID())
	}
	if len(gateway.callsFor("PlaceOrder")) != 2 {
		t.Error("Expected both orders at the gateway")
	}
}

func TestPlaceOrderDefaultsToStockContract(t *testing.T) {
	orders, gateway := newTestOrderManager()

	// A futures root with no instrument type still orders the stock;
	// auto-detection applies only to subscriptions, where the resolver
	// can fill in the missing expiry.
	if _, err := orders.PlaceOrder(&models.MCommand{Symbol: "ES", Action: "BUY", Quantity: 1}); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	calls := gateway.callsFor("PlaceOrder")
	if calls[0].contract.SecType != "STK" || calls[0].contract.Exchange != "SMART" {
		t.Errorf("Expected STK/SMART contract, got %+v", calls[0].contract)
	}
}

func TestPlaceOrderExplicitFuture(t *testing.T) {
	orders, gateway := newTestOrderManager()

	cmd := models.MCommand{Symbol: "ES", InstrumentType: "future", Action: "BUY", Quantity: 1, Expiry: "202512"}
	if _, err := orders.PlaceOrder(&cmd); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	calls := gateway.callsFor("PlaceOrder")
	if calls[0].contract.SecType != "FUT" || calls[0].contract.Exchange != "CME" {
		t.Errorf("Expected FUT/CME contract, got %+v", calls[0].contract)
	}
	if calls[0].contract.LastTradeDateOrContractMonth != "202512" {
		t.Errorf("Expiry not carried through: %+v", calls[0].contract)
	}
}

// -----------------------------------------------------------------------------

func TestCancelOrder(t *testing.T) {
	orders, gateway := newTestOrderManager()

	if err := orders.CancelOrder(42); err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	calls := gateway.callsFor("CancelOrder")
	if len(calls) != 1 || calls[0].reqID != 42 {
		t.Errorf("Expected cancel for order 42, got %+v", calls)
	}
}

func TestCancelOrderRequiresID(t *testing.T) {
	orders, gateway := newTestOrderManager()

	if err := orders.CancelOrder(0); err == nil {
		t.Fatal("Expected validation error for missing order id")
	}
	if err := orders.CancelOrder(-1); err == nil {
		t.Fatal("Expected validation error for negative order id")
	}
	if len(gateway.callsFor("CancelOrder")) != 0 {
		t.Error("Invalid cancel must not reach the gateway")
	}
}
