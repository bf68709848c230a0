package gmxsdk

import (
	"gmx_gateway/internal/pkg/probe"
)

// flat record key -> location in the reader's PositionInfo
var flatPositionPaths = [][2]string{ //nolint:gochecknoglobals
	{"account", "position.addresses.account"},
	{"marketAddress", "position.addresses.market"},
	{"collateralTokenAddress", "position.addresses.collateralToken"},
	{"isLong", "position.flags.isLong"},
	{"sizeInUsd", "position.numbers.sizeInUsd"},
	{"sizeInTokens", "position.numbers.sizeInTokens"},
	{"collateralAmount", "position.numbers.collateralAmount"},
	{"increasedAtTime", "position.numbers.increasedAtTime"},
	{"fundingFeeAmount", "fees.funding.fundingFeeAmount"},
	{"claimableLongTokenAmount", "fees.funding.claimableLongTokenAmount"},
	{"claimableShortTokenAmount", "fees.funding.claimableShortTokenAmount"},
	{"borrowingFeeUsd", "fees.borrowing.borrowingFeeUsd"},
	{"pnl", "basePnlUsd"},
	{"pnlAfterPriceImpactUsd", "pnlAfterPriceImpactUsd"},
}

// flattenPositionInfo converts a reader PositionInfo record into the flat position shape,
// with the key rendered as hex.
func flattenPositionInfo(info probe.Record) probe.Record {
	flat := make(probe.Record, len(flatPositionPaths)+1)
	if raw, ok := probe.Lookup(info, probe.P("positionKey")); ok {
		if key, err := probe.ToBigInt(raw); err == nil {
			flat["key"] = FormatPositionKey(key)
		}
	}
	for _, entry := range flatPositionPaths {
		if v, ok := probe.Lookup(info, probe.P(entry[1])); ok {
			flat[entry[0]] = v
		}
	}
	return flat
}
