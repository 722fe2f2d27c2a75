// Package pricing converts upstream USD amounts into platform units.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNegativeAmount is returned for negative inputs.
var ErrNegativeAmount = errors.New("pricing: amounts must not be negative")

// Conversion is the platform-unit price of an upstream amount.
type Conversion struct {
	// Base is the upstream amount times the conversion rate, before markup.
	Base float64 `json:"base"`
	// PlatformFee is the markup applied on top of Base.
	PlatformFee float64 `json:"platform_fee"`
	// PlatformAmount is ceil(Base + PlatformFee).
	PlatformAmount int64 `json:"platform_amount"`
}

// ToPlatformUnits converts upstreamAmount at conversionRate and applies markupPercent
// (a fraction, 0.1 for ten percent).
func ToPlatformUnits(upstreamAmount, conversionRate, markupPercent float64) (Conversion, error) {
	if upstreamAmount < 0 || conversionRate < 0 || markupPercent < 0 {
		return Conversion{}, ErrNegativeAmount
	}
	base := upstreamAmount * conversionRate
	fee := base * markupPercent
	return Conversion{
		Base:           base,
		PlatformFee:    fee,
		PlatformAmount: int64(math.Ceil(base + fee)),
	}, nil
}

// ParseUSD parses an upstream price string such as "9.68" or "$1,299.00".
func ParseUSD(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("pricing: empty price")
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("pricing: parse %q: %w", value, err)
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("pricing: invalid price %q", value)
	}
	return amount, nil
}
