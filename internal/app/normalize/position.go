// Package normalize maps position records of any upstream shape onto entity.PositionRecord.
package normalize

import (
	"fmt"
	"math/big"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/pkg/probe"
	"gmx_gateway/internal/pkg/utils"
)

// UnresolvedPolicy decides what happens to a record whose market is not in the market table.
type UnresolvedPolicy int

const (
	// KeepUnresolved labels the record with its raw market address, or "N/A".
	KeepUnresolved UnresolvedPolicy = iota
	// DropUnresolved discards the record.
	DropUnresolved
)

const notAvailable = "N/A"

// Field locations, most specific shape first.
var ( //nolint:gochecknoglobals
	keyField = probe.NewField("key", "key", "positionKey", "position.key")

	accountField = probe.NewField("account",
		"account", "position.account", "position.addresses.account", "addresses.account")
	marketField = probe.NewField("marketAddress",
		"marketAddress", "market", "position.marketAddress", "position.market",
		"position.addresses.market", "addresses.market")
	collateralField = probe.NewField("collateralTokenAddress",
		"collateralTokenAddress", "collateralToken", "position.collateralTokenAddress", "position.collateralToken",
		"position.addresses.collateralToken", "addresses.collateralToken")
	isLongField = probe.NewField("isLong",
		"isLong", "position.isLong", "position.flags.isLong", "flags.isLong")

	sizeInUsdField = probe.NewField("sizeInUsd",
		"sizeInUsd", "position.sizeInUsd", "position.numbers.sizeInUsd", "numbers.sizeInUsd")
	sizeInTokensField = probe.NewField("sizeInTokens",
		"sizeInTokens", "position.sizeInTokens", "position.numbers.sizeInTokens", "numbers.sizeInTokens")
	collateralAmountField = probe.NewField("collateralAmount",
		"collateralAmount", "position.collateralAmount", "position.numbers.collateralAmount", "numbers.collateralAmount")

	claimableLongField = probe.NewField("claimableLongTokenAmount",
		"claimableLongTokenAmount", "fees.funding.claimableLongTokenAmount",
		"funding.claimableLongTokenAmount", "position.fees.funding.claimableLongTokenAmount")
	claimableShortField = probe.NewField("claimableShortTokenAmount",
		"claimableShortTokenAmount", "fees.funding.claimableShortTokenAmount",
		"funding.claimableShortTokenAmount", "position.fees.funding.claimableShortTokenAmount")
)

// Normalizer resolves records against one snapshot of market and token metadata.
type Normalizer struct {
	markets map[string]entity.MarketInfo
	tokens  map[string]entity.TokenData
	policy  UnresolvedPolicy
}

// New creates a Normalizer.
func New(markets map[string]entity.MarketInfo, tokens map[string]entity.TokenData, policy UnresolvedPolicy) *Normalizer {
	return &Normalizer{markets: markets, tokens: tokens, policy: policy}
}

// Normalize converts one raw record. The returned market is nil when the market is unresolved.
// ok is false when the record is dropped under DropUnresolved. fallbackAccount is used when
// the record carries no account.
func (n *Normalizer) Normalize(rec probe.Record, fallbackAccount string) (out entity.PositionRecord, market *entity.MarketInfo, ok bool, err error) {
	marketAddress := marketField.String(rec)
	if m, resolved := n.resolveMarket(marketAddress); resolved {
		market = &m
	} else if n.policy == DropUnresolved {
		return entity.PositionRecord{}, nil, false, nil
	}

	sizeInUsd, err := sizeInUsdField.BigInt(rec)
	if err != nil {
		return entity.PositionRecord{}, nil, false, err
	}
	sizeInTokens, err := sizeInTokensField.BigInt(rec)
	if err != nil {
		return entity.PositionRecord{}, nil, false, err
	}
	collateralAmount, err := collateralAmountField.BigInt(rec)
	if err != nil {
		return entity.PositionRecord{}, nil, false, err
	}

	account := accountField.String(rec)
	if account == "" {
		account = fallbackAccount
	}

	out = entity.PositionRecord{
		PositionKey:      RenderKey(rec),
		MarketAddress:    marketAddress,
		Account:          account,
		IsLong:           isLongField.Bool(rec),
		SizeInUsd:        sizeInUsd.String(),
		SizeInTokens:     sizeInTokens.String(),
		CollateralAmount: collateralAmount.String(),
		CollateralToken:  collateralField.String(rec),
	}

	switch {
	case market != nil:
		out.Market = market.Name
	case marketAddress != "":
		out.Market = marketAddress
	default:
		out.Market = notAvailable
	}

	usd, formatted := n.claimableUsd(rec, market)
	out.ClaimableFundingFeeUsd = usd.String()
	out.ClaimableFundingFeeFormatted = formatted
	return out, market, true, nil
}

// RenderKey renders the position key: strings pass through, integers become
// 0x-prefixed 64-digit hex, anything else its default text form.
func RenderKey(rec probe.Record) string {
	v, ok := keyField.First(rec)
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	if probe.IsInteger(v) {
		if n, err := probe.ToBigInt(v); err == nil {
			return fmt.Sprintf("0x%064x", n)
		}
	}
	return fmt.Sprint(v)
}

func (n *Normalizer) resolveMarket(address string) (entity.MarketInfo, bool) {
	if address == "" {
		return entity.MarketInfo{}, false
	}
	m, _, ok := utils.LookupFold(n.markets, address)
	return m, ok
}

// claimableUsd sums both claimable funding amounts in USD at the tokens' minimum prices.
// On a conversion error the partial sum is kept and the display value is "N/A".
func (n *Normalizer) claimableUsd(rec probe.Record, market *entity.MarketInfo) (*big.Int, string) {
	total := new(big.Int)

	longAmount, err := claimableLongField.BigInt(rec)
	if err != nil {
		return total, notAvailable
	}
	if market != nil && longAmount.Sign() > 0 {
		if token, ok := n.token(market.LongTokenAddress, market.LongToken); ok {
			total.Add(total, utils.ConvertToUsd(longAmount, token.Decimals, token.Prices.MinPrice))
		}
	}

	shortAmount, err := claimableShortField.BigInt(rec)
	if err != nil {
		return total, notAvailable
	}
	if market != nil && shortAmount.Sign() > 0 {
		if token, ok := n.token(market.ShortTokenAddress, market.ShortToken); ok {
			total.Add(total, utils.ConvertToUsd(shortAmount, token.Decimals, token.Prices.MinPrice))
		}
	}

	return total, utils.FormatUsd(total)
}

func (n *Normalizer) token(address string, embedded entity.TokenData) (entity.TokenData, bool) {
	if t, _, ok := utils.LookupFold(n.tokens, address); ok && t.HasPrices() {
		return t, true
	}
	if embedded.HasPrices() {
		return embedded, true
	}
	return entity.TokenData{}, false
}
