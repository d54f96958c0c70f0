package indexdata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprint-team6/findex/internal/contracts"
)

func TestCursorRoundtrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
		id    int64
	}{
		{"date value", "2024-03-15", 42},
		{"price value", "2895.1200", 7},
		{"large id", "2024-01-01", 1<<62 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := encodeCursor(tt.value, tt.id)
			require.NotEmpty(t, token)

			value, id, err := decodeCursor(token)
			require.NoError(t, err)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestDecodeCursorMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"base64 but not json", "bm90LWpzb24"},
		{"wrong json shape", "WzEsMl0"},                  // [1,2]
		{"empty fields", encodeCursor("", 0)},
		{"zero id", encodeCursor("2024-01-01", 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decodeCursor(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrInvalidCursor))
		})
	}
}
