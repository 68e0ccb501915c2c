package utils

import (
	"log"
	"time"

	"github.com/scmhub/calendar"
)

// -----------------------------------------------------------------------------
// Session kinds for venues without a MIC calendar.
const (
	sessionEquity  = "equity"  // Mon-Fri 09:30-16:00 New York
	sessionFutures = "futures" // Sun 18:00 - Fri 17:00 New York
	sessionAlways  = "always"  // crypto venues
)

// TradingCalendar calculates trading hours using scmhub/calendar, with
// session-based fallbacks for venues the library does not cover.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Session  string
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// GetCalendar resolves a broker exchange code to a trading calendar.
// Equity venues map to MIC codes (ISO 10383, see scmhub/calendar);
// futures, forex and crypto venues use session fallbacks.
func GetCalendar(exchange string) *TradingCalendar {
	mic := ""
	session := sessionEquity

	switch exchange {
	case "SMART", "NYSE", "NASDAQ", "ISLAND", "ARCA", "AMEX", "BATS", "CBOE":
		mic = "xnys"
	case "TSE":
		mic = "xtse"
	case "LSE":
		mic = "xlon"
	case "CME", "GLOBEX", "NYMEX", "COMEX", "CBOT", "ECBOT", "ICE", "NYBOT":
		session = sessionFutures
	case "IDEALPRO":
		session = sessionFutures
	case "PAXOS", "ZEROHASH":
		session = sessionAlways
	default:
		mic = "xnys"
	}

	if mic != "" {
		cal := calendar.GetCalendar(mic)
		if cal != nil {
			return &TradingCalendar{Calendar: cal, Timezone: cal.Loc}
		}
		log.Printf("WARNING: Failed to load calendar for MIC '%s'. Using equity session fallback.", mic)
	}

	nyLoc, _ := time.LoadLocation("America/New_York")
	if nyLoc == nil {
		nyLoc = time.UTC // Worst case
	}
	return &TradingCalendar{Fallback: true, Session: session, Timezone: nyLoc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		if tc.Session == sessionAlways {
			return true
		}
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if !tc.Fallback {
		return tc.Calendar.IsOpen(t)
	}

	switch tc.Session {
	case sessionAlways:
		return true

	case sessionFutures:
		// Sunday 18:00 NY through Friday 17:00 NY, with a daily
		// maintenance break 17:00-18:00.
		switch t.Weekday() {
		case time.Saturday:
			return false
		case time.Sunday:
			return t.Hour() >= 18
		case time.Friday:
			return t.Hour() < 17
		default:
			return t.Hour() != 17
		}

	default:
		if !tc.IsTradingDay(t) {
			return false
		}
		hour := t.Hour()
		minute := t.Minute()
		// 9:30 - 16:00 NY Time
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}
}
