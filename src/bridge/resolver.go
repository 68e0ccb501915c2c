package bridge

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lakowske/marketbridge/src/contracts"
	"github.com/lakowske/marketbridge/src/helpers"
	"github.com/lakowske/marketbridge/src/interfaces"
	"github.com/lakowske/marketbridge/src/logger"
	"github.com/lakowske/marketbridge/src/metrics"
	"github.com/lakowske/marketbridge/src/models"
	"github.com/lakowske/marketbridge/src/utils"
)

// -----------------------------------------------------------------------------
// Subscription Resolver
// Maps subscribe/unsubscribe commands onto broker requests, owns the
// request-id table and the pending front-month table. Request ids are
// strictly increasing and never reused.
// -----------------------------------------------------------------------------

// Request ids start above the broker's own ticker range to keep bridge
// requests recognizable in TWS logs.
const firstReqID = 1000

type pendingFrontMonth struct {
	kind      string
	cmd       models.MCommand
	records   []models.MContractRecord
	createdAt time.Time
}

// -----------------------------------------------------------------------------

type SubscriptionResolver struct {
	gateway   interfaces.IBrokerGateway
	publisher interfaces.IDataExchanger
	logger    *logger.Logger
	scheduler *utils.MarketScheduler

	genericTickList string
	pendingTTL      time.Duration

	mu        sync.Mutex
	nextReqID int64
	active    map[int64]*models.MActiveRequest
	pending   map[int64]*pendingFrontMonth
}

// -----------------------------------------------------------------------------

func NewSubscriptionResolver(gateway interfaces.IBrokerGateway, publisher interfaces.IDataExchanger, cfg *models.MConfig, l *logger.Logger) *SubscriptionResolver {
	return &SubscriptionResolver{
		gateway:         gateway,
		publisher:       publisher,
		logger:          l,
		scheduler:       utils.NewMarketScheduler(nil, l),
		genericTickList: cfg.Bridge.GenericTickList,
		pendingTTL:      time.Duration(cfg.Bridge.FrontMonthTimeoutSeconds) * time.Second,
		nextReqID:       firstReqID,
		active:          make(map[int64]*models.MActiveRequest),
		pending:         make(map[int64]*pendingFrontMonth),
	}
}

// -----------------------------------------------------------------------------

// Scheduler exposes per-exchange trading calendars for the status endpoint.
func (r *SubscriptionResolver) Scheduler() *utils.MarketScheduler {
	return r.scheduler
}

// -----------------------------------------------------------------------------

func (r *SubscriptionResolver) allocReqID() int64 {
	id := r.nextReqID
	r.nextReqID++
	return id
}

// -----------------------------------------------------------------------------
// Subscribe
// -----------------------------------------------------------------------------

// Subscribe resolves one subscribe command into a broker request. Futures
// without an explicit expiry go through front-month resolution first.
func (r *SubscriptionResolver) Subscribe(kind string, cmd *models.MCommand) error {
	if cmd.Symbol == "" {
		return helpers.NewValidationError("symbol is required")
	}

	instrumentType := strings.ToLower(cmd.InstrumentType)
	if instrumentType == "" {
		instrumentType = "stock"
	}

	// Clients habitually tag futures roots as stocks; correct from the
	// known-symbol table before building the contract.
	if instrumentType == "stock" {
		if detected := contracts.DetectInstrumentType(cmd.Symbol); detected != "stock" {
			r.logger.Info("Auto-detected %s as %s (was tagged %s)", cmd.Symbol, detected, instrumentType)
			instrumentType = detected
		}
	}

	if instrumentType == "future" && cmd.Expiry == "" {
		return r.requestFrontMonth(kind, instrumentType, cmd)
	}

	contract, err := contracts.Create(instrumentType, cmd)
	if err != nil {
		return helpers.NewValidationError("cannot build contract for %s: %v", cmd.Symbol, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.activate(kind, instrumentType, cmd.Symbol, contract, "")
	return nil
}

// -----------------------------------------------------------------------------

// requestFrontMonth issues the expiry-less contract-details request and
// parks the subscription until ContractDetailsEnd arrives.
func (r *SubscriptionResolver) requestFrontMonth(kind, instrumentType string, cmd *models.MCommand) error {
	generic := contracts.CreateGenericFuture(cmd.Symbol, cmd.Exchange, cmd.Currency)

	r.mu.Lock()
	reqID := r.allocReqID()
	r.pending[reqID] = &pendingFrontMonth{
		kind:      kind,
		cmd:       *cmd,
		createdAt: time.Now(),
	}
	metrics.SetPendingResolutions(len(r.pending))
	r.mu.Unlock()

	r.logger.Info("Resolving front month for %s (req %d)", cmd.Symbol, reqID)
	r.gateway.ReqContractDetails(reqID, generic)
	return nil
}

// -----------------------------------------------------------------------------

// activate registers the request and issues the matching broker call.
// Caller holds r.mu.
func (r *SubscriptionResolver) activate(kind, instrumentType, symbol string, contract *models.MContract, resolvedExpiry string) int64 {
	reqID := r.allocReqID()
	r.active[reqID] = &models.MActiveRequest{
		ReqID:          reqID,
		Kind:           kind,
		Symbol:         symbol,
		InstrumentType: instrumentType,
		Contract:       contract,
		ResolvedExpiry: resolvedExpiry,
		CreatedAt:      time.Now(),
	}
	metrics.SetActiveSubscriptions(len(r.active))
	r.scheduler.UpdateExchanges(r.activeExchangesLocked())

	switch kind {
	case models.KindMarketData:
		r.gateway.ReqMktData(reqID, contract, r.genericTickList)
	case models.KindTimeAndSales:
		r.gateway.ReqTickByTickData(reqID, contract, "AllLast")
	case models.KindBidAsk:
		r.gateway.ReqTickByTickData(reqID, contract, "BidAsk")
	case models.KindContractDetails:
		r.gateway.ReqContractDetails(reqID, contract)
	}

	r.logger.Info("Subscribed %s %s (%s) as req %d", kind, symbol, contract.SecType, reqID)
	return reqID
}

// -----------------------------------------------------------------------------
// Unsubscribe
// -----------------------------------------------------------------------------

// Unsubscribe cancels every active request matching symbol and kind.
// Silent no-op when nothing matches.
func (r *SubscriptionResolver) Unsubscribe(symbol, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []int64
	for reqID, req := range r.active {
		if req.Symbol == symbol && req.Kind == kind {
			matched = append(matched, reqID)
		}
	}

	for _, reqID := range matched {
		switch kind {
		case models.KindMarketData:
			r.gateway.CancelMktData(reqID)
		case models.KindTimeAndSales, models.KindBidAsk:
			r.gateway.CancelTickByTickData(reqID)
		}
		delete(r.active, reqID)
		r.logger.Info("Unsubscribed %s %s (req %d)", kind, symbol, reqID)
	}

	if len(matched) == 0 {
		r.logger.Debug("Unsubscribe %s %s: no active request", kind, symbol)
		return
	}
	metrics.SetActiveSubscriptions(len(r.active))
	r.scheduler.UpdateExchanges(r.activeExchangesLocked())
}

// -----------------------------------------------------------------------------
// Contract Details
// -----------------------------------------------------------------------------

// RequestContractDetails issues a direct contract-details request for the
// get_contract_details command.
func (r *SubscriptionResolver) RequestContractDetails(cmd *models.MCommand) error {
	if cmd.Symbol == "" {
		return helpers.NewValidationError("symbol is required")
	}

	instrumentType := strings.ToLower(cmd.InstrumentType)
	if instrumentType == "" {
		instrumentType = "stock"
	}

	contract, err := contracts.Create(instrumentType, cmd)
	if err != nil {
		return helpers.NewValidationError("cannot build contract for %s: %v", cmd.Symbol, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.activate(models.KindContractDetails, instrumentType, cmd.Symbol, contract, "")
	return nil
}

// -----------------------------------------------------------------------------

// OnContractDetails offers one contract-details row to the pending table.
// Returns true when the row belonged to a front-month resolution; the
// row is broadcast to clients either way.
func (r *SubscriptionResolver) OnContractDetails(reqID int64, record models.MContractRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[reqID]
	if !ok {
		return false
	}
	p.records = append(p.records, record)
	return true
}

// -----------------------------------------------------------------------------

// OnContractDetailsEnd completes a front-month resolution. Returns true
// when the end marker belonged to a pending entry.
func (r *SubscriptionResolver) OnContractDetailsEnd(reqID int64) bool {
	r.mu.Lock()
	p, ok := r.pending[reqID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.pending, reqID)
	metrics.SetPendingResolutions(len(r.pending))

	front, err := contracts.SelectFrontMonth(p.records, time.Now())
	if err != nil {
		r.mu.Unlock()
		r.logger.Warning("Front month resolution failed for %s: %v", p.cmd.Symbol, err)
		r.publisher.Broadcast(&models.MErrorReply{
			Type:      "error",
			Message:   fmt.Sprintf("No valid front month contract found for %s", p.cmd.Symbol),
			Timestamp: models.Now(),
		})
		return true
	}

	expiry := front.Expiry()
	contract := contracts.CreateFuture(p.cmd.Symbol, expiry, p.cmd.Exchange, p.cmd.Currency)
	r.logger.Info("Front month for %s resolved to %s", p.cmd.Symbol, expiry)
	r.activate(p.kind, "future", p.cmd.Symbol, contract, expiry)
	r.mu.Unlock()
	return true
}

// -----------------------------------------------------------------------------
// Pending Sweep
// The broker gives no guarantee that ContractDetailsEnd ever arrives;
// stale pending entries are expired so they cannot accumulate forever.
// -----------------------------------------------------------------------------

// ExpirePending drops pending entries older than the configured timeout
// and broadcasts an error for each. Returns the number expired.
func (r *SubscriptionResolver) ExpirePending(now time.Time) int {
	r.mu.Lock()
	var expired []*pendingFrontMonth
	for reqID, p := range r.pending {
		if now.Sub(p.createdAt) > r.pendingTTL {
			delete(r.pending, reqID)
			expired = append(expired, p)
		}
	}
	metrics.SetPendingResolutions(len(r.pending))
	r.mu.Unlock()

	for _, p := range expired {
		r.logger.Warning("Front month resolution for %s timed out after %v", p.cmd.Symbol, r.pendingTTL)
		r.publisher.Broadcast(&models.MErrorReply{
			Type:      "error",
			Message:   fmt.Sprintf("Front month resolution timed out for %s", p.cmd.Symbol),
			Timestamp: models.Now(),
		})
	}
	return len(expired)
}

// -----------------------------------------------------------------------------

// StartPendingSweeper runs ExpirePending periodically until stop is closed.
func (r *SubscriptionResolver) StartPendingSweeper(stop <-chan struct{}) {
	interval := r.pendingTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.ExpirePending(time.Now())
			case <-stop:
				return
			}
		}
	}()
}

// -----------------------------------------------------------------------------
// Status
// -----------------------------------------------------------------------------

func (r *SubscriptionResolver) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

func (r *SubscriptionResolver) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// -----------------------------------------------------------------------------

// activeExchangesLocked lists the distinct exchanges of live requests.
// Caller holds r.mu.
func (r *SubscriptionResolver) activeExchangesLocked() []string {
	seen := make(map[string]struct{})
	var exchanges []string
	for _, req := range r.active {
		if _, ok := seen[req.Contract.Exchange]; !ok {
			seen[req.Contract.Exchange] = struct{}{}
			exchanges = append(exchanges, req.Contract.Exchange)
		}
	}
	return exchanges
}
