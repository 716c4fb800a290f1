package services

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitsPerMajor is the paise-per-rupee factor applied to every client amount.
const MinorUnitsPerMajor = 100

const (
	maxAmountLength   = 32
	maxAmountExponent = 18
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// NormalizeAmount converts a decimal major-unit amount ("199", "199.50") into
// integer minor units. Input is always treated as major units.
func NormalizeAmount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxAmountLength {
		return 0, InvalidAmountErr("invalid amount", nil)
	}

	major, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, InvalidAmountErr("invalid amount", err)
	}
	// Rescaling to minor units materializes 10^|exp|, so bound it before any arithmetic.
	if exp := major.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return 0, InvalidAmountErr("invalid amount", nil)
	}
	if !major.IsPositive() {
		return 0, InvalidAmountErr("amount must be > 0", nil)
	}

	minor := major.Mul(decimal.NewFromInt(MinorUnitsPerMajor)).Round(0)
	if !minor.IsPositive() {
		return 0, InvalidAmountErr("amount must be > 0", nil)
	}
	if minor.GreaterThan(maxMinorUnits) {
		return 0, InvalidAmountErr("invalid amount", nil)
	}

	return minor.IntPart(), nil
}
