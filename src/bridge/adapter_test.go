package bridge

import (
	"testing"

	"github.com/lakowske/marketbridge/src/models"
)

func newTestAdapter() (*CallbackAdapter, *fakeGateway, *fakePublisher) {
	gateway := &fakeGateway{}
	publisher := &fakePublisher{}
	resolver := NewSubscriptionResolver(gateway, publisher, testConfig(), testLogger())
	orders := NewOrderManager(gateway, testLogger())
	adapter := NewCallbackAdapter(publisher, resolver, orders, testLogger())
	return adapter, gateway, publisher
}

// -----------------------------------------------------------------------------

func TestTickNameMapping(t *testing.T) {
	tests := []struct {
		table map[int64]string
		code  int64
		want  string
	}{
		{priceTicks, 1, "bid"},
		{priceTicks, 2, "ask"},
		{priceTicks, 4, "last"},
		{priceTicks, 37, "mark_price"},
		{sizeTicks, 0, "bid_size"},
		{sizeTicks, 8, "volume"},
		{sizeTicks, 30, "put_volume"},
		// fallback table, shared names, unknown code
		{priceTicks, 49, "halted"},
		{nil, 45, "last_timestamp"},
		{nil, 84, "last_exch"},
		{nil, 88, "delayed_last_timestamp"},
		{priceTicks, 123, "tick_123"},
	}

	for _, tc := range tests {
		if got := tickName(tc.table, tc.code); got != tc.want {
			t.Errorf("tickName(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

// -----------------------------------------------------------------------------

func TestTickPriceBroadcast(t *testing.T) {
	adapter, _, publisher := newTestAdapter()

	adapter.TickPrice(1001, 1, 187.25, true, false, false)

	messages := publisher.all()
	if len(messages) != 1 {
		t.Fatalf("Expected one message, got %d", len(messages))
	}
	tick, ok := messages[0].(*models.MPriceTick)
	if !ok {
		t.Fatalf("Expected MPriceTick, got %T", messages[0])
	}
	if tick.Type != "market_data" || tick.DataType != "price" {
		t.Errorf("Wrong envelope: %s/%s", tick.Type, tick.DataType)
	}
	if tick.TickType != "bid" || tick.Price != 187.25 || !tick.CanAutoExecute {
		t.Errorf("Unexpected tick %+v", tick)
	}
}

func TestTickPriceSuppressesHighUnmappedCodes(t *testing.T) {
	adapter, _, publisher := newTestAdapter()

	adapter.TickPrice(1001, 88, 1.0, false, false, false)
	adapter.TickSize(1001, 74, 2.0)

	if n := len(publisher.all()); n != 0 {
		t.Fatalf("Unmapped codes above 50 must be dropped, got %d messages", n)
	}

	// Low unmapped codes still pass with the fallback name.
	adapter.TickPrice(1001, 49, 1.0, false, false, false)
	messages := publisher.all()
	if len(messages) != 1 {
		t.Fatalf("Expected one message for code 49, got %d", len(messages))
	}
	if messages[0].(*models.MPriceTick).TickType != "halted" {
		t.Errorf("Expected fallback name halted, got %s", messages[0].(*models.MPriceTick).TickType)
	}
}

func TestTickStringAlwaysForwarded(t *testing.T) {
	adapter, _, publisher := newTestAdapter()

	adapter.TickString(1001, 84, "NYSE")
	adapter.TickString(1001, 999, "opaque")

	messages := publisher.all()
	if len(messages) != 2 {
		t.Fatal("String ticks must always be forwarded")
	}
	tick := messages[0].(*models.MStringTick)
	if tick.TickType != "last_exch" || tick.Value != "NYSE" {
		t.Errorf("Unexpected string tick %+v", tick)
	}
	if messages[1].(*models.MStringTick).TickType != "tick_999" {
		t.Errorf("Undocumented codes use the numeric fallback: %+v", messages[1])
	}
}

// -----------------------------------------------------------------------------

func TestTickByTickMessages(t *testing.T) {
	adapter, _, publisher := newTestAdapter()

	adapter.TickByTickAllLast(1001, 1735000000, 187.5, 100, true, false, "NYSE", "")
	adapter.TickByTickBidAsk(1002, 1735000001, 187.4, 187.6, 200, 300, true, false)
	adapter.TickByTickMidPoint(1003, 1735000002, 187.5)

	messages := publisher.all()
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}

	ts := messages[0].(*models.MTimeAndSales)
	if ts.Type != "time_and_sales" || ts.TickType != "last" || ts.Exchange != "NYSE" {
		t.Errorf("Unexpected time and sales %+v", ts)
	}
	if !ts.PastLimit || ts.Unreported {
		t.Errorf("Attrib flags not carried: %+v", ts)
	}
	// Trade prints carry the broker's trade time as timestamp.
	if ts.Timestamp != float64(1735000000) {
		t.Errorf("Expected trade time as timestamp, got %v", ts.Timestamp)
	}

	ba := messages[1].(*models.MBidAskTick)
	if ba.Type != "bid_ask_tick" || ba.AskPrice != 187.6 {
		t.Errorf("Unexpected bid ask %+v", ba)
	}
	if !ba.BidPastLow || ba.AskPastHigh {
		t.Errorf("Attrib flags not carried: %+v", ba)
	}

	if mp := messages[2].(*models.MMidpointTick); mp.Type != "midpoint_tick" || mp.Midpoint != 187.5 {
		t.Errorf("Unexpected midpoint %+v", mp)
	}
}

// -----------------------------------------------------------------------------

func TestErrorSeverityRanges(t *testing.T) {
	tests := []struct {
		code int64
		want string
	}{
		{502, "error"},
		{1999, "error"},
		{2000, "warning"},
		{2104, "warning"},
		{9999, "warning"},
		{10000, "info"},
		{10197, "info"},
	}

	for _, tc := range tests {
		if got := severityForCode(tc.code); got != tc.want {
			t.Errorf("severityForCode(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestHandleErrorBroadcast(t *testing.T) {
	adapter, _, publisher := newTestAdapter()

	adapter.HandleError(1001, 2104, "Market data farm connection is OK")
	adapter.HandleError(1002, 502, "Couldn't connect to TWS")
	adapter.HandleError(0, 10197, "No market data during competing session")

	messages := publisher.all()
	if len(messages) != 3 {
		t.Fatalf("Expected three messages, got %d", len(messages))
	}
	be := messages[0].(*models.MBrokerError)
	if be.Type != "error" || be.Severity != "WARNING" || be.ErrorCode != 2104 {
		t.Errorf("Unexpected broker error %+v", be)
	}
	// Wire severity is uppercase.
	if messages[1].(*models.MBrokerError).Severity != "ERROR" {
		t.Errorf("Expected ERROR, got %s", messages[1].(*models.MBrokerError).Severity)
	}
	if messages[2].(*models.MBrokerError).Severity != "INFO" {
		t.Errorf("Expected INFO, got %s", messages[2].(*models.MBrokerError).Severity)
	}
}

// -----------------------------------------------------------------------------

func TestConnectionEstablishedSeedsOrderIDs(t *testing.T) {
	adapter, _, publisher := newTestAdapter()

	adapter.ConnectionEstablished(57)

	if adapter.orders.NextOrderID() != 57 {
		t.Errorf("Expected next order id 57, got %d", adapter.orders.NextOrderID())
	}
	messages := publisher.all()
	if len(messages) != 1 {
		t.Fatalf("Expected one message, got %d", len(messages))
	}
	cs := messages[0].(*models.MConnectionStatus)
	if cs.Type != "connection_status" || cs.Status != "connected" || cs.NextOrderID != 57 {
		t.Errorf("Unexpected status %+v", cs)
	}
}

// -----------------------------------------------------------------------------

func TestOrderStatusBroadcast(t *testing.T) {
	adapter, _, publisher := newTestAdapter()

	adapter.OrderStatus(42, "Filled", 10, 0, 187.5, 187.5)

	messages := publisher.all()
	os := messages[0].(*models.MOrderStatus)
	if os.OrderID != 42 || os.Status != "Filled" || os.Filled != 10 {
		t.Errorf("Unexpected order status %+v", os)
	}
}

// -----------------------------------------------------------------------------

func TestContractDetailsBroadcastEvenWhilePending(t *testing.T) {
	adapter, gateway, publisher := newTestAdapter()

	// Start a front-month resolution so its request id is pending.
	adapter.resolver.Subscribe(models.KindMarketData, &models.MCommand{Symbol: "ES", InstrumentType: "future"})
	pendingID := gateway.callsFor("ReqContractDetails")[0].reqID

	// Rows feed the resolver AND still reach the clients.
	adapter.ContractDetails(pendingID, models.MContractRecord{Symbol: "ES", LastTradeDate: "203512"})
	adapter.ContractDetailsEnd(pendingID)

	messages := publisher.all()
	if len(messages) != 2 {
		t.Fatalf("Expected details + end broadcasts, got %d messages", len(messages))
	}
	cd := messages[0].(*models.MContractDetails)
	if cd.Type != "contract_details" || cd.ReqID != pendingID || cd.Contract.Symbol != "ES" {
		t.Errorf("Unexpected contract details %+v", cd)
	}
	if end := messages[1].(*models.MContractDetailsEnd); end.Type != "contract_details_end" || end.ReqID != pendingID {
		t.Errorf("Unexpected end marker %+v", end)
	}

	// The resolution itself still completed.
	if len(gateway.callsFor("ReqMktData")) != 1 {
		t.Error("Front-month resolution should have issued the data request")
	}
	if adapter.resolver.PendingCount() != 0 {
		t.Error("Pending entry should be consumed")
	}
}

func TestContractDetailsForDirectRequest(t *testing.T) {
	adapter, _, publisher := newTestAdapter()

	adapter.ContractDetails(5555, models.MContractRecord{Symbol: "AAPL", ConID: 265598})
	adapter.ContractDetailsEnd(5555)

	messages := publisher.all()
	if len(messages) != 2 {
		t.Fatalf("Expected details + end, got %d messages", len(messages))
	}
	if cd := messages[0].(*models.MContractDetails); cd.Contract.ConID != 265598 {
		t.Errorf("Unexpected contract details %+v", cd)
	}
	if end := messages[1].(*models.MContractDetailsEnd); end.ReqID != 5555 {
		t.Errorf("Unexpected end marker %+v", end)
	}
}
