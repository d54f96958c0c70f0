package decimals

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestFluctuationRate(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		end        string
		wantVersus string
		wantRate   string
	}{
		{
			name:       "ten percent gain",
			start:      "100",
			end:        "110",
			wantVersus: "10",
			wantRate:   "10.00",
		},
		{
			name:       "flat",
			start:      "2500.50",
			end:        "2500.50",
			wantVersus: "0",
			wantRate:   "0.00",
		},
		{
			name:       "loss",
			start:      "200",
			end:        "150",
			wantVersus: "-50",
			wantRate:   "-25.00",
		},
		{
			name: "intermediate scale 4 then display scale 2",
			// 1/3 = 0.3333 at scale 4, *100 = 33.33
			start:      "3",
			end:        "4",
			wantVersus: "1",
			wantRate:   "33.33",
		},
		{
			name: "half up at intermediate scale",
			// 0.00005/1 rounds to 0.0001 -> 0.01%
			start:      "10000",
			end:        "10000.5",
			wantVersus: "0.5",
			wantRate:   "0.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			versus, rate, err := FluctuationRate(d(tt.start), d(tt.end))
			if err != nil {
				t.Fatalf("FluctuationRate() error = %v", err)
			}
			if versus.String() != tt.wantVersus {
				t.Errorf("versus = %s, want %s", versus.String(), tt.wantVersus)
			}
			if rate.StringFixed(DisplayScale) != tt.wantRate {
				t.Errorf("rate = %s, want %s", rate.StringFixed(DisplayScale), tt.wantRate)
			}
		})
	}
}

func TestFluctuationRateZeroStart(t *testing.T) {
	_, _, err := FluctuationRate(d("0"), d("100"))
	if !errors.Is(err, ErrZeroStartPrice) {
		t.Errorf("expected ErrZeroStartPrice, got %v", err)
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		scale  int32
		want   string
	}{
		{
			name:   "whole numbers",
			values: []string{"1", "2", "3", "4", "5"},
			scale:  MAScale,
			want:   "3",
		},
		{
			name:   "rounding half up",
			values: []string{"1", "2"},
			scale:  0,
			want:   "2", // 1.5 rounds up
		},
		{
			name:   "scale 4",
			values: []string{"1", "0", "0"},
			scale:  MAScale,
			want:   "0.3333",
		},
		{
			name:   "empty",
			values: nil,
			scale:  MAScale,
			want:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]decimal.Decimal, len(tt.values))
			for i, s := range tt.values {
				values[i] = d(s)
			}
			got := Mean(values, tt.scale)
			if got.String() != tt.want {
				t.Errorf("Mean() = %s, want %s", got.String(), tt.want)
			}
		})
	}
}
