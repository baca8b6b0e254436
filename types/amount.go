package types

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// ErrInvalidAmount is returned when a token amount string cannot be parsed.
var ErrInvalidAmount = errors.New("invalid token amount")

// ParseTokenAmount converts a decimal token amount such as "10000000" or "1.5" into base
// units using the given number of decimals. Hex strings ("0x...") are taken as base units.
func ParseTokenAmount(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, ok := math.ParseBig256(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}

		return v, nil
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	v, ok := math.ParseBig256(strings.TrimLeft(digits, "0"))
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return v, nil
}

// MustParseTokenAmount is ParseTokenAmount that panics on error.
//
// Useful for tests and defaults, but should be avoided for user input.
func MustParseTokenAmount(s string, decimals uint8) *big.Int {
	v, err := ParseTokenAmount(s, decimals)
	if err != nil {
		panic(err)
	}

	return v
}

// FormatTokenAmount renders base units as a decimal token amount.
func FormatTokenAmount(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(v, unit, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	fs := frac.String()
	fs = strings.Repeat("0", int(decimals)-len(fs)) + fs

	return whole.String() + "." + strings.TrimRight(fs, "0")
}
