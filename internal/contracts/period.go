package contracts

import (
	"fmt"
	"time"
)

// PeriodType selects the lookback window for dashboard queries
type PeriodType string

const (
	PeriodDaily     PeriodType = "DAILY"
	PeriodWeekly    PeriodType = "WEEKLY"
	PeriodMonthly   PeriodType = "MONTHLY"
	PeriodQuarterly PeriodType = "QUARTERLY"
	PeriodYearly    PeriodType = "YEARLY"
)

// ParsePeriodType validates a period type. Matching is exact and
// case-sensitive; anything unknown is a caller error, never defaulted.
func ParsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return PeriodType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriodType, s)
	}
}

// LookbackStart returns the start of the lookback window ending at now
func (p PeriodType) LookbackStart(now time.Time) (time.Time, error) {
	switch p {
	case PeriodDaily:
		return now.AddDate(0, 0, -1), nil
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), nil
	case PeriodMonthly:
		return now.AddDate(0, -1, 0), nil
	case PeriodQuarterly:
		return now.AddDate(0, -3, 0), nil
	case PeriodYearly:
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriodType, string(p))
	}
}
