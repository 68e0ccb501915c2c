package bridge

import (
	"sync"

	"github.com/lakowske/marketbridge/src/logger"
	"github.com/lakowske/marketbridge/src/models"
)

// -----------------------------------------------------------------------------
// Shared fakes for the bridge package tests.
// -----------------------------------------------------------------------------

type gatewayCall struct {
	method   string
	reqID    int64
	contract *models.MContract
	tickType string
	order    *models.MOrder
}

// fakeGateway implements interfaces.IBrokerGateway and records every call.
type fakeGateway struct {
	mu        sync.Mutex
	calls     []gatewayCall
	connected bool
}

func (g *fakeGateway) record(c gatewayCall) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, c)
}

func (g *fakeGateway) callsFor(method string) []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []gatewayCall
	for _, c := range g.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGateway) Connect(host string, port int, clientID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connected = true
	return nil
}

func (g *fakeGateway) Disconnect() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connected = false
}

func (g *fakeGateway) IsConnected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connected
}

func (g *fakeGateway) ReqMktData(reqID int64, contract *models.MContract, genericTickList string) {
	g.record(gatewayCall{method: "ReqMktData", reqID: reqID, contract: contract, tickType: genericTickList})
}

func (g *fakeGateway) ReqTickByTickData(reqID int64, contract *models.MContract, tickType string) {
	g.record(gatewayCall{method: "ReqTickByTickData", reqID: reqID, contract: contract, tickType: tickType})
}

func (g *fakeGateway) ReqContractDetails(reqID int64, contract *models.MContract) {
	g.record(gatewayCall{method: "ReqContractDetails", reqID: reqID, contract: contract})
}

func (g *fakeGateway) PlaceOrder(orderID int64, contract *models.MContract, order *models.MOrder) {
	g.record(gatewayCall{method: "PlaceOrder", reqID: orderID, contract: contract, order: order})
}

func (g *fakeGateway) CancelOrder(orderID int64) {
	g.record(gatewayCall{method: "CancelOrder", reqID: orderID})
}

func (g *fakeGateway) CancelMktData(reqID int64) {
	g.record(gatewayCall{method: "CancelMktData", reqID: reqID})
}

func (g *fakeGateway) CancelTickByTickData(reqID int64) {
	g.record(gatewayCall{method: "CancelTickByTickData", reqID: reqID})
}

// -----------------------------------------------------------------------------

// fakePublisher implements interfaces.IDataExchanger and collects messages.
type fakePublisher struct {
	mu       sync.Mutex
	messages []interface{}
}

func (p *fakePublisher) Broadcast(message interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func (p *fakePublisher) Start() error { return nil }
func (p *fakePublisher) Stop() error  { return nil }

func (p *fakePublisher) all() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]interface{}, len(p.messages))
	copy(out, p.messages)
	return out
}

// -----------------------------------------------------------------------------

func testConfig() *models.MConfig {
	return &models.MConfig{
		Name:     "test",
		Host:     "127.0.0.1",
		Port:     8765,
		LogLevel: "ERROR",
		Bridge: models.MBridgeConfig{
			QueueSize:                16,
			ClientBufferSize:         4,
			FrontMonthTimeoutSeconds: 1,
			GenericTickList:          "233,236,258",
		},
	}
}

func testLogger() *logger.Logger {
	return logger.NewLogger("ERROR", "test")
}
