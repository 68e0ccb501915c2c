package utils

import (
	"sync"
	"time"

	"github.com/lakowske/marketbridge/src/logger"
)

// MarketScheduler tracks trading calendars for the exchanges of the
// currently subscribed instruments.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar
	Logger    *logger.Logger
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(exchanges []string, l *logger.Logger) *MarketScheduler {
	ms := &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
	}
	ms.UpdateExchanges(exchanges)
	return ms
}

// -----------------------------------------------------------------------------

// UpdateExchanges replaces the tracked exchange set.
func (ms *MarketScheduler) UpdateExchanges(exchanges []string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.Calendars = make(map[string]*TradingCalendar)
	for _, exchange := range exchanges {
		cal := GetCalendar(exchange)
		if cal != nil {
			ms.Calendars[exchange] = cal
		}
	}

	ms.Logger.Debug("MarketScheduler: tracking %d exchanges", len(ms.Calendars))
}

// -----------------------------------------------------------------------------

// AnyMarketOpen checks if ANY tracked markets are currently open
func (ms *MarketScheduler) AnyMarketOpen() bool {
	now := time.Now().UTC()

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if len(ms.Calendars) == 0 {
		return false
	}

	for _, cal := range ms.Calendars {
		if cal.IsOpenOnMinute(now) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// TrackedExchanges lists the exchanges currently mapped to calendars.
func (ms *MarketScheduler) TrackedExchanges() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	exchanges := make([]string, 0, len(ms.Calendars))
	for exchange := range ms.Calendars {
		exchanges = append(exchanges, exchange)
	}
	return exchanges
}
