package gmxsdk

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/pkg/probe"
	"gmx_gateway/internal/pkg/utils"
)

var ( //nolint:gochecknoglobals
	longsPayShortsField   = probe.NewField("longsPayShorts", "nextFunding.longsPayShorts")
	fundingPerSecondField = probe.NewField("fundingFactorPerSecond", "nextFunding.fundingFactorPerSecond")
	isDisabledField       = probe.NewField("isDisabled", "isDisabled")
)

// open interest reads per perpetual market, in this order
type interestSlot struct {
	useLongCollateral bool
	isLong            bool
}

var interestSlots = []interestSlot{ //nolint:gochecknoglobals
	{useLongCollateral: true, isLong: true},
	{useLongCollateral: false, isLong: true},
	{useLongCollateral: true, isLong: false},
	{useLongCollateral: false, isLong: false},
}

// loadFundingState fills the funding direction, per-second factor and open interest of every
// perpetual market in place. Swap-only markets keep a zero factor.
func (s *SDK) loadFundingState(ctx context.Context, markets map[string]entity.MarketInfo, tokens map[string]entity.TokenData) error {
	var (
		infoRequests     []entity.CallRequestItem
		interestRequests []entity.CallRequestItem
		interestMarkets  []string
	)

	dataStore := common.HexToAddress(s.profile.DataStoreAddress)
	for _, addr := range utils.SortedKeysFold(markets) {
		m := markets[addr]
		if m.IsSpotOnly {
			continue
		}

		if prices, ok := MarketContractPrices(m, tokens); ok {
			data, err := packCall(getMarketInfoMethod, dataStore, prices, common.HexToAddress(addr))
			if err != nil {
				return err
			}
			infoRequests = append(infoRequests, entity.CallRequestItem{ID: addr, To: s.profile.ReaderAddress, Data: data})
		}

		for _, slot := range interestSlots {
			collateral := m.ShortTokenAddress
			if slot.useLongCollateral {
				collateral = m.LongTokenAddress
			}
			key, err := OpenInterestKey(addr, collateral, slot.isLong)
			if err != nil {
				return err
			}
			data, err := packCall(getUintMethod, key)
			if err != nil {
				return err
			}
			interestRequests = append(interestRequests, entity.CallRequestItem{
				ID:   fmt.Sprintf("%s:%s:%t", addr, collateral, slot.isLong),
				To:   s.profile.DataStoreAddress,
				Data: data,
			})
		}
		interestMarkets = append(interestMarkets, addr)
	}

	var infoResults, interestResults []entity.CallResultItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		infoResults, err = s.caller.BatchCall(gctx, infoRequests)
		return err
	})
	g.Go(func() error {
		var err error
		interestResults, err = s.caller.BatchCall(gctx, interestRequests)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range infoResults {
		if res.Error != nil {
			return fmt.Errorf("getMarketInfo %s: %w", res.RequestID, res.Error)
		}
		decoded, err := unpackSingle(getMarketInfoMethod, res.Data)
		if err != nil {
			return fmt.Errorf("market %s: %w", res.RequestID, err)
		}
		rec, _ := decoded.(probe.Record)
		factor, err := fundingPerSecondField.BigInt(rec)
		if err != nil {
			return fmt.Errorf("market %s: %w", res.RequestID, err)
		}

		m := markets[res.RequestID]
		m.LongsPayShorts = longsPayShortsField.Bool(rec)
		m.FundingFactorPerSecond = factor
		m.IsDisabled = isDisabledField.Bool(rec)
		markets[res.RequestID] = m
	}

	if len(interestResults) != len(interestMarkets)*len(interestSlots) {
		return fmt.Errorf("open interest: expected %d results, got %d", len(interestMarkets)*len(interestSlots), len(interestResults))
	}
	for i, addr := range interestMarkets {
		values := make([]*big.Int, len(interestSlots))
		for j := range interestSlots {
			res := interestResults[i*len(interestSlots)+j]
			if res.Error != nil {
				return fmt.Errorf("open interest %s: %w", res.RequestID, res.Error)
			}
			decoded, err := unpackSingle(getUintMethod, res.Data)
			if err != nil {
				return fmt.Errorf("open interest %s: %w", res.RequestID, err)
			}
			v, err := probe.ToBigInt(decoded)
			if err != nil {
				return fmt.Errorf("open interest %s: %w", res.RequestID, err)
			}
			values[j] = v
		}

		m := markets[addr]
		divisor := big.NewInt(1)
		if m.IsSameCollaterals {
			divisor = big.NewInt(2)
		}
		long := new(big.Int).Add(new(big.Int).Quo(values[0], divisor), new(big.Int).Quo(values[1], divisor))
		short := new(big.Int).Add(new(big.Int).Quo(values[2], divisor), new(big.Int).Quo(values[3], divisor))
		m.LongInterestUsd = long
		m.ShortInterestUsd = short
		markets[addr] = m
	}
	return nil
}
