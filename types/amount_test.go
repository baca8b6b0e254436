package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		give     string
		decimals uint8
		want     *big.Int
		wantErr  string
	}{
		{name: "whole tokens", give: "1000", decimals: 18, want: new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))},
		{name: "fraction", give: "1.5", decimals: 2, want: big.NewInt(150)},
		{name: "zero", give: "0", decimals: 18, want: big.NewInt(0)},
		{name: "leading zeros", give: "010", decimals: 0, want: big.NewInt(10)},
		{name: "hex base units", give: "0x10", decimals: 18, want: big.NewInt(16)},
		{name: "empty", give: " ", decimals: 18, wantErr: "invalid token amount: empty"},
		{name: "too many decimals", give: "1.234", decimals: 2, wantErr: "has more than 2 decimals"},
		{name: "garbage", give: "abc", decimals: 2, wantErr: "invalid token amount"},
		{name: "negative", give: "-1", decimals: 0, wantErr: "invalid token amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTokenAmount(tt.give, tt.decimals)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, tt.want.Cmp(got), "got %s", got)
		})
	}
}

func TestFormatTokenAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", FormatTokenAmount(nil, 18))
	assert.Equal(t, "40000000", FormatTokenAmount(MustParseTokenAmount("40000000", 18), 18))
	assert.Equal(t, "1.05", FormatTokenAmount(big.NewInt(105), 2))
	assert.Equal(t, "0.001", FormatTokenAmount(big.NewInt(1), 3))
}
