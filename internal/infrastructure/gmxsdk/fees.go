package gmxsdk

import (
	"math/big"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/pkg/utils"
)

// FundingFactorPerPeriod returns the signed funding factor one side of a market accrues over
// periodInSeconds, with 30 decimals of precision. The paying side gets a negative factor.
// The receiving side's factor is scaled by the ratio of open interest, so the smaller side
// receives more per unit of size.
func FundingFactorPerPeriod(m entity.MarketInfo, isLong bool, periodInSeconds int64) *big.Int {
	factorPerSecond := orZero(m.FundingFactorPerSecond)
	longInterest := orZero(m.LongInterestUsd)
	shortInterest := orZero(m.ShortInterestUsd)

	largerInterest := longInterest
	if shortInterest.Cmp(longInterest) > 0 {
		largerInterest = shortInterest
	}

	payingInterest, receivingInterest := shortInterest, longInterest
	if m.LongsPayShorts {
		payingInterest, receivingInterest = longInterest, shortInterest
	}

	fundingForPayingSide := new(big.Int)
	if payingInterest.Sign() != 0 {
		fundingForPayingSide = utils.MulDiv(factorPerSecond, largerInterest, payingInterest)
	}

	fundingForReceivingSide := new(big.Int)
	if receivingInterest.Sign() != 0 {
		fundingForReceivingSide = utils.MulDiv(fundingForPayingSide, payingInterest, receivingInterest)
	}

	period := big.NewInt(periodInSeconds)
	if isLong == m.LongsPayShorts {
		return new(big.Int).Neg(new(big.Int).Mul(fundingForPayingSide, period))
	}
	return new(big.Int).Mul(fundingForReceivingSide, period)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
