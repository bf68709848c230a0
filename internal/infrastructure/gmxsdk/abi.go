package gmxsdk

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The Reader and DataStore methods below follow the deployed GMX v2.1 layouts.
// Component names become the json tags of the unpacked structs, and therefore the keys of loose records.

type component = abi.ArgumentMarshaling

func tuple(name string, components ...component) component {
	return component{Name: name, Type: "tuple", Components: components}
}

func tupleSlice(name string, components ...component) component {
	return component{Name: name, Type: "tuple[]", Components: components}
}

func scalar(name, typ string) component {
	return component{Name: name, Type: typ}
}

var ( //nolint:gochecknoglobals // ABI definitions
	priceProps = []component{scalar("min", "uint256"), scalar("max", "uint256")}

	marketPrices = []component{
		tuple("indexTokenPrice", priceProps...),
		tuple("longTokenPrice", priceProps...),
		tuple("shortTokenPrice", priceProps...),
	}

	marketProps = []component{
		scalar("marketToken", "address"),
		scalar("indexToken", "address"),
		scalar("longToken", "address"),
		scalar("shortToken", "address"),
	}

	collateralType = []component{scalar("longToken", "uint256"), scalar("shortToken", "uint256")}
	positionType   = []component{tuple("long", collateralType...), tuple("short", collateralType...)}

	marketInfo = []component{
		tuple("market", marketProps...),
		scalar("borrowingFactorPerSecondForLongs", "uint256"),
		scalar("borrowingFactorPerSecondForShorts", "uint256"),
		tuple("baseFunding",
			tuple("fundingFeeAmountPerSize", positionType...),
			tuple("claimableFundingAmountPerSize", positionType...),
		),
		tuple("nextFunding",
			scalar("longsPayShorts", "bool"),
			scalar("fundingFactorPerSecond", "uint256"),
			scalar("nextSavedFundingFactorPerSecond", "int256"),
			tuple("fundingFeeAmountPerSizeDelta", positionType...),
			tuple("claimableFundingAmountPerSizeDelta", positionType...),
		),
		tuple("virtualInventory",
			scalar("virtualPoolAmountForLongToken", "uint256"),
			scalar("virtualPoolAmountForShortToken", "uint256"),
			scalar("virtualInventoryForPositions", "int256"),
		),
		scalar("isDisabled", "bool"),
	}

	position = []component{
		tuple("addresses",
			scalar("account", "address"),
			scalar("market", "address"),
			scalar("collateralToken", "address"),
		),
		tuple("numbers",
			scalar("sizeInUsd", "uint256"),
			scalar("sizeInTokens", "uint256"),
			scalar("collateralAmount", "uint256"),
			scalar("borrowingFactor", "uint256"),
			scalar("fundingFeeAmountPerSize", "uint256"),
			scalar("longTokenClaimableFundingAmountPerSize", "uint256"),
			scalar("shortTokenClaimableFundingAmountPerSize", "uint256"),
			scalar("increasedAtTime", "uint256"),
			scalar("decreasedAtTime", "uint256"),
		),
		tuple("flags", scalar("isLong", "bool")),
	}

	positionFees = []component{
		tuple("referral",
			scalar("referralCode", "bytes32"),
			scalar("affiliate", "address"),
			scalar("trader", "address"),
			scalar("totalRebateFactor", "uint256"),
			scalar("affiliateRewardFactor", "uint256"),
			scalar("adjustedAffiliateRewardFactor", "uint256"),
			scalar("traderDiscountFactor", "uint256"),
			scalar("totalRebateAmount", "uint256"),
			scalar("traderDiscountAmount", "uint256"),
			scalar("affiliateRewardAmount", "uint256"),
		),
		tuple("pro",
			scalar("traderTier", "uint256"),
			scalar("traderDiscountFactor", "uint256"),
			scalar("traderDiscountAmount", "uint256"),
		),
		tuple("funding",
			scalar("fundingFeeAmount", "uint256"),
			scalar("claimableLongTokenAmount", "uint256"),
			scalar("claimableShortTokenAmount", "uint256"),
			scalar("latestFundingFeeAmountPerSize", "uint256"),
			scalar("latestLongTokenClaimableFundingAmountPerSize", "uint256"),
			scalar("latestShortTokenClaimableFundingAmountPerSize", "uint256"),
		),
		tuple("borrowing",
			scalar("borrowingFeeUsd", "uint256"),
			scalar("borrowingFeeAmount", "uint256"),
			scalar("borrowingFeeReceiverFactor", "uint256"),
			scalar("borrowingFeeAmountForFeeReceiver", "uint256"),
		),
		tuple("ui",
			scalar("uiFeeReceiver", "address"),
			scalar("uiFeeReceiverFactor", "uint256"),
			scalar("uiFeeAmount", "uint256"),
		),
		tuple("liquidation",
			scalar("liquidationFeeUsd", "uint256"),
			scalar("liquidationFeeAmount", "uint256"),
			scalar("liquidationFeeReceiverFactor", "uint256"),
			scalar("liquidationFeeAmountForFeeReceiver", "uint256"),
		),
		tuple("collateralTokenPrice", priceProps...),
		scalar("positionFeeFactor", "uint256"),
		scalar("protocolFeeAmount", "uint256"),
		scalar("positionFeeReceiverFactor", "uint256"),
		scalar("feeReceiverAmount", "uint256"),
		scalar("feeAmountForPool", "uint256"),
		scalar("positionFeeAmountForPool", "uint256"),
		scalar("positionFeeAmount", "uint256"),
		scalar("totalCostAmountExcludingFunding", "uint256"),
		scalar("totalCostAmount", "uint256"),
		scalar("totalDiscountAmount", "uint256"),
	}

	positionInfo = []component{
		scalar("positionKey", "bytes32"),
		tuple("position", position...),
		tuple("fees", positionFees...),
		tuple("executionPriceResult",
			scalar("priceImpactUsd", "int256"),
			scalar("priceImpactDiffUsd", "uint256"),
			scalar("executionPrice", "uint256"),
		),
		scalar("basePnlUsd", "int256"),
		scalar("uncappedBasePnlUsd", "int256"),
		scalar("pnlAfterPriceImpactUsd", "int256"),
	}
)

var ( //nolint:gochecknoglobals // ABI definitions
	getMarketsMethod = newViewMethod("getMarkets",
		arguments(scalar("dataStore", "address"), scalar("start", "uint256"), scalar("end", "uint256")),
		arguments(tupleSlice("", marketProps...)),
	)

	getMarketInfoMethod = newViewMethod("getMarketInfo",
		arguments(scalar("dataStore", "address"), tuple("prices", marketPrices...), scalar("marketKey", "address")),
		arguments(tuple("", marketInfo...)),
	)

	getAccountPositionInfoListMethod = newViewMethod("getAccountPositionInfoList",
		arguments(
			scalar("dataStore", "address"),
			scalar("referralStorage", "address"),
			scalar("account", "address"),
			scalar("markets", "address[]"),
			tupleSlice("marketPrices", marketPrices...),
			scalar("uiFeeReceiver", "address"),
			scalar("start", "uint256"),
			scalar("end", "uint256"),
		),
		arguments(tupleSlice("", positionInfo...)),
	)

	getUintMethod = newViewMethod("getUint",
		arguments(scalar("key", "bytes32")),
		arguments(scalar("", "uint256")),
	)
)

func arguments(components ...component) abi.Arguments {
	args := make(abi.Arguments, len(components))
	for i, c := range components {
		typ, err := abi.NewType(c.Type, c.InternalType, c.Components)
		if err != nil {
			panic(fmt.Sprintf("gmxsdk: invalid ABI type for %q: %v", c.Name, err))
		}
		args[i] = abi.Argument{Name: c.Name, Type: typ}
	}
	return args
}

func newViewMethod(name string, inputs, outputs abi.Arguments) abi.Method {
	return abi.NewMethod(name, name, abi.Function, "view", false, false, inputs, outputs)
}

// packCall encodes a call to method.
func packCall(method abi.Method, args ...interface{}) ([]byte, error) {
	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method.Name, err)
	}
	return append(append([]byte{}, method.ID...), packed...), nil
}

// unpackSingle decodes a method's single return value into its loose form.
func unpackSingle(method abi.Method, data []byte) (interface{}, error) {
	values, err := method.Outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method.Name, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unpack %s: expected 1 value, got %d", method.Name, len(values))
	}
	return toLoose(values[0]), nil
}
