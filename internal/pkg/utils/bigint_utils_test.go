package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return n
}

func TestConvertToUsd_IsIntegerExact(t *testing.T) {
	usd := ConvertToUsd(big.NewInt(1_000_000), 6, big.NewInt(1_00000000))
	assert.Equal(t, "100000000", usd.String())

	// 2.5 tokens with 18 decimals at $3000.123 (30 decimals)
	amount := mustBig("2500000000000000000")
	price := mustBig("3000123000000000000000000000000000")
	assert.Equal(t, "7500307500000000000000000000000000", ConvertToUsd(amount, 18, price).String())
}

func TestFormatUsd(t *testing.T) {
	assert.Equal(t, "$0.00", FormatUsd(nil))
	assert.Equal(t, "$0.00", FormatUsd(big.NewInt(100000000)))
	assert.Equal(t, "$7,500.30", FormatUsd(mustBig("7500307500000000000000000000000000")))
	assert.Equal(t, "$1,234,567.89", FormatUsd(mustBig("1234567899000000000000000000000000000")))
	assert.Equal(t, "-$1.50", FormatUsd(mustBig("-1500000000000000000000000000000")))
}

func TestFormatRatePercentage(t *testing.T) {
	// 0.0000125 per hour => 0.00125% => truncated to 4 digits
	assert.Equal(t, "+0.0012%", FormatRatePercentage(mustBig("12500000000000000000000000"), 4))
	assert.Equal(t, "-0.0034%", FormatRatePercentage(mustBig("-34999999999999999999999999"), 4))
	assert.Equal(t, "0.0000%", FormatRatePercentage(big.NewInt(0), 4))
	// below display precision: digits are truncated, the sign survives
	assert.Equal(t, "+0.0000%", FormatRatePercentage(big.NewInt(1), 4))
	assert.Equal(t, "-0.0000%", FormatRatePercentage(big.NewInt(-1), 4))
	// 0.000099999...% truncates rather than rounding up to 0.0001%
	assert.Equal(t, "+0.0000%", FormatRatePercentage(mustBig("999999999999999999999999"), 4))
	assert.Equal(t, "-", FormatRatePercentage(nil, 4))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.23", FormatAmount(mustBig("1234500000000000000"), 18, 2))
	assert.Equal(t, "0.0000", FormatAmount(nil, 18, 4))
}

func TestMulDiv(t *testing.T) {
	assert.Equal(t, "3", MulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(7)).String())
	assert.Equal(t, "-2", MulDiv(big.NewInt(-5), big.NewInt(1), big.NewInt(2)).String())
	assert.Equal(t, "0", MulDiv(big.NewInt(5), big.NewInt(1), big.NewInt(0)).String())
}
