package contracts

import (
	"fmt"
	"time"

	"github.com/lakowske/marketbridge/src/models"
)

// -----------------------------------------------------------------------------
// Front-Month Selection
// Given the contract-details rows returned for an expiry-less futures
// request, pick the soonest contract month that has not already passed.
// -----------------------------------------------------------------------------

// ParseContractMonth parses a broker expiry string (YYYYMM or YYYYMMDD)
// into the first day of its contract month.
func ParseContractMonth(s string) (time.Time, error) {
	if len(s) != 6 && len(s) != 8 {
		return time.Time{}, fmt.Errorf("invalid contract month %q", s)
	}
	t, err := time.Parse("200601", s[:6])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid contract month %q: %w", s, err)
	}
	return t, nil
}

// -----------------------------------------------------------------------------

// SelectFrontMonth returns the record with the earliest contract month on
// or after the month containing now. Records with unparseable months are
// skipped; an empty candidate set is an error.
func SelectFrontMonth(records []models.MContractRecord, now time.Time) (*models.MContractRecord, error) {
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var best *models.MContractRecord
	var bestMonth time.Time

	for i := range records {
		month, err := ParseContractMonth(records[i].Expiry())
		if err != nil {
			continue
		}
		if month.Before(currentMonth) {
			// Already expired
			continue
		}
		if best == nil || month.Before(bestMonth) {
			best = &records[i]
			bestMonth = month
		}
	}

	if best == nil {
		return nil, fmt.Errorf("no unexpired contract months among %d records", len(records))
	}
	return best, nil
}
