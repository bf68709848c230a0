package utils

import (
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// USDDecimals is the precision of every USD value and factor in the protocol.
const USDDecimals = 30

// ExpandDecimals returns 10^decimals.
func ExpandDecimals(decimals int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// ConvertToUsd converts a token amount into a 30-decimal USD integer.
// price is the USD price of one whole token with 30 decimals.
// Example: amount=1000000, decimals=6, price=100000000 => 100000000
func ConvertToUsd(amount *big.Int, decimals uint8, price *big.Int) *big.Int {
	if amount == nil || price == nil {
		return new(big.Int)
	}
	usd := new(big.Int).Mul(amount, price)
	return usd.Quo(usd, ExpandDecimals(int(decimals)))
}

// MulDiv returns a*b/c truncated toward zero, or zero when c is zero.
func MulDiv(a, b, c *big.Int) *big.Int {
	if c == nil || c.Sign() == 0 || a == nil || b == nil {
		return new(big.Int)
	}
	r := new(big.Int).Mul(a, b)
	return r.Quo(r, c)
}

// FormatAmount renders amount/10^decimals with exactly displayDecimals
// fractional digits. Extra digits are truncated, not rounded.
// Example: amount=1234500000000000000, decimals=18, displayDecimals=2 => "1.23"
func FormatAmount(amount *big.Int, decimals int32, displayDecimals int32) string {
	if amount == nil {
		amount = new(big.Int)
	}
	return decimal.NewFromBigInt(amount, -decimals).Truncate(displayDecimals).StringFixed(displayDecimals)
}

// FormatUsd renders a 30-decimal USD integer as "$1,234.56".
func FormatUsd(usd *big.Int) string {
	if usd == nil {
		usd = new(big.Int)
	}
	d := decimal.NewFromBigInt(usd, -USDDecimals).Truncate(2)
	sign := ""
	if d.Sign() < 0 {
		sign = "-"
		d = d.Abs()
	}
	intPart := d.Truncate(0)
	frac := d.Sub(intPart).StringFixed(2) // "0.xx"
	return sign + "$" + humanize.BigComma(intPart.BigInt()) + frac[1:]
}

// FormatRatePercentage renders a 30-decimal factor as a signed percentage
// with displayDecimals fractional digits, e.g. "+0.0012%" or "-0.0034%".
// Extra digits are truncated. The sign follows the raw rate, so an exact zero
// renders unsigned ("0.0000%") while a tiny non-zero rate keeps its sign.
// A nil rate renders as "-".
func FormatRatePercentage(rate *big.Int, displayDecimals int32) string {
	if rate == nil {
		return "-"
	}
	pct := new(big.Int).Mul(rate, big.NewInt(100))
	plain := FormatAmount(pct.Abs(pct), USDDecimals, displayDecimals)
	switch rate.Sign() {
	case -1:
		return "-" + plain + "%"
	case 1:
		return "+" + plain + "%"
	default:
		return plain + "%"
	}
}
