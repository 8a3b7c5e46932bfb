package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input   string
		want    Currency
		wantErr bool
	}{
		{"PLN", PLN, false},
		{"usd", USD, false},
		{" eur ", EUR, false},
		{"GBP", GBP, false},
		{"CHF", CHF, false},
		{"XYZ", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidCurrency))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
