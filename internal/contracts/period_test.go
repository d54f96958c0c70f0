package contracts

import (
	"errors"
	"testing"
	"time"
)

func TestParsePeriodType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PeriodType
		wantErr bool
	}{
		{name: "daily", input: "DAILY", want: PeriodDaily},
		{name: "weekly", input: "WEEKLY", want: PeriodWeekly},
		{name: "monthly", input: "MONTHLY", want: PeriodMonthly},
		{name: "quarterly", input: "QUARTERLY", want: PeriodQuarterly},
		{name: "yearly", input: "YEARLY", want: PeriodYearly},
		{name: "lowercase rejected", input: "daily", wantErr: true},
		{name: "unknown rejected", input: "BIWEEKLY", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriodType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriodType) {
					t.Errorf("expected ErrInvalidPeriodType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeriodType(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePeriodType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLookbackStart(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		period PeriodType
		want   time.Time
	}{
		{PeriodDaily, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{PeriodWeekly, time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)},
		{PeriodMonthly, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)},
		{PeriodQuarterly, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)},
		{PeriodYearly, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got, err := tt.period.LookbackStart(now)
			if err != nil {
				t.Fatalf("LookbackStart() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("LookbackStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookbackStartInvalid(t *testing.T) {
	_, err := PeriodType("HOURLY").LookbackStart(time.Now())
	if !errors.Is(err, ErrInvalidPeriodType) {
		t.Errorf("expected ErrInvalidPeriodType, got %v", err)
	}
}
