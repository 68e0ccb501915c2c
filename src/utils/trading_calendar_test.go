package utils

import (
	"testing"
	"time"

	"github.com/lakowske/marketbridge/src/logger"
)

func nyTime(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("Failed to load New York timezone: %v", err)
	}
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("Bad time literal %q: %v", value, err)
	}
	return parsed
}

// -----------------------------------------------------------------------------

func TestGetCalendarSessionFallbacks(t *testing.T) {
	for _, exchange := range []string{"CME", "GLOBEX", "NYMEX", "COMEX", "CBOT", "IDEALPRO"} {
		cal := GetCalendar(exchange)
		if !cal.Fallback || cal.Session != sessionFutures {
			t.Errorf("%s should use the futures session fallback, got %+v", exchange, cal)
		}
	}
	for _, exchange := range []string{"PAXOS", "ZEROHASH"} {
		cal := GetCalendar(exchange)
		if !cal.Fallback || cal.Session != sessionAlways {
			t.Errorf("%s should use the always-open fallback, got %+v", exchange, cal)
		}
	}
}

// -----------------------------------------------------------------------------

func TestFuturesSessionHours(t *testing.T) {
	cal := &TradingCalendar{Fallback: true, Session: sessionFutures, Timezone: nyTime(t, "2025-01-06 12:00").Location()}

	tests := []struct {
		when string
		open bool
	}{
		{"2025-01-04 12:00", false}, // Saturday
		{"2025-01-05 17:59", false}, // Sunday before open
		{"2025-01-05 18:00", true},  // Sunday open
		{"2025-01-06 12:00", true},  // Monday midday
		{"2025-01-06 17:30", false}, // Monday maintenance break
		{"2025-01-06 18:30", true},  // Monday after break
		{"2025-01-10 16:59", true},  // Friday before close
		{"2025-01-10 17:00", false}, // Friday close
	}

	for _, tc := range tests {
		if got := cal.IsOpenOnMinute(nyTime(t, tc.when)); got != tc.open {
			t.Errorf("IsOpenOnMinute(%s) = %v, want %v", tc.when, got, tc.open)
		}
	}
}

func TestAlwaysSession(t *testing.T) {
	cal := &TradingCalendar{Fallback: true, Session: sessionAlways, Timezone: time.UTC}

	if !cal.IsOpenOnMinute(nyTime(t, "2025-01-04 03:00")) {
		t.Error("Crypto venues never close")
	}
	if !cal.IsTradingDay(nyTime(t, "2025-01-04 03:00")) {
		t.Error("Every day is a trading day for crypto venues")
	}
}

func TestEquitySessionFallbackHours(t *testing.T) {
	cal := &TradingCalendar{Fallback: true, Session: sessionEquity, Timezone: nyTime(t, "2025-01-06 12:00").Location()}

	tests := []struct {
		when string
		open bool
	}{
		{"2025-01-06 09:29", false},
		{"2025-01-06 09:30", true},
		{"2025-01-06 15:59", true},
		{"2025-01-06 16:00", false},
		{"2025-01-04 12:00", false}, // Saturday
	}

	for _, tc := range tests {
		if got := cal.IsOpenOnMinute(nyTime(t, tc.when)); got != tc.open {
			t.Errorf("IsOpenOnMinute(%s) = %v, want %v", tc.when, got, tc.open)
		}
	}
}

// -----------------------------------------------------------------------------

func TestMarketSchedulerTracksExchanges(t *testing.T) {
	scheduler := NewMarketScheduler([]string{"CME"}, logger.NewLogger("ERROR", "test"))

	exchanges := scheduler.TrackedExchanges()
	if len(exchanges) != 1 || exchanges[0] != "CME" {
		t.Errorf("Expected [CME], got %v", exchanges)
	}

	scheduler.UpdateExchanges([]string{"CME", "PAXOS"})
	if len(scheduler.TrackedExchanges()) != 2 {
		t.Errorf("Expected 2 exchanges, got %v", scheduler.TrackedExchanges())
	}

	// PAXOS is always open, so at least one tracked market must be open.
	if !scheduler.AnyMarketOpen() {
		t.Error("Always-open venue should report the market open")
	}
}
