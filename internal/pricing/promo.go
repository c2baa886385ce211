// Package pricing computes promotional discounts. The computation is a pure
// function over the promo code and the base price: no state, no I/O, same
// inputs always produce the same quote.
package pricing

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrInvalidInput is returned when the code is empty or the base price
	// is not a positive number.
	ErrInvalidInput = errors.New("invalid promo input")
	// ErrUnknownCode is returned when the code does not match any known
	// promotion. No discount applies.
	ErrUnknownCode = errors.New("unknown promo code")
)

// Quote is the result of applying a promo code to a base price. Code holds
// the normalized (upper-cased) promo code.
type Quote struct {
	Code           string
	DiscountAmount float64
	FinalPrice     float64
}

// The recognized promotions. SAVE10 takes 10% off, FLAT100 takes a flat 100
// units off with the final price clamped at 0.
const (
	codeSave10  = "SAVE10"
	codeFlat100 = "FLAT100"
)

// Compute applies the promo code to basePrice. The code is case-normalized
// before matching. Monetary outputs are rounded to 2 decimal places using
// round-half-away-from-zero.
func Compute(code string, basePrice float64) (Quote, error) {
	if code == "" || basePrice <= 0 {
		return Quote{}, ErrInvalidInput
	}

	normalized := strings.ToUpper(code)

	var discount, final float64
	switch normalized {
	case codeSave10:
		discount = basePrice * 0.10
		final = basePrice - discount
	case codeFlat100:
		discount = 100
		final = math.Max(0, basePrice-discount)
	default:
		return Quote{}, ErrUnknownCode
	}

	return Quote{
		Code:           normalized,
		DiscountAmount: round2(discount),
		FinalPrice:     round2(final),
	}, nil
}

// round2 rounds to 2 decimal places, halves away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
