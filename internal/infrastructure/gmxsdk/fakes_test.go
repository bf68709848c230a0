package gmxsdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/infrastructure/oracle"
)

const (
	wethAddr = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
	usdcAddr = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	btcAddr  = "0x47904963fc8b2340414262125aF798B9655E58Cd"

	ethMarket     = "0x70d95587d40A2caf56bd97485aB3Eec10Bee6336"
	ethSoloMarket = "0x450bb6774Dd8a756274E0ab4107953259d2ac541"
	btcMarket     = "0x47c031236e19d024b42f8AE6780E44A573170703"
	swapMarket    = "0xC25cEf6061Cf5dE5eb761b50E4743c1F5D7E5407"
	orphanMarket  = "0x1111111111111111111111111111111111111111"
	unknownToken  = "0x2222222222222222222222222222222222222222"
)

func e(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func mul(a int64, b *big.Int) *big.Int {
	return new(big.Int).Mul(big.NewInt(a), b)
}

type fakeOracle struct {
	tokens  []oracle.Token
	tickers []oracle.Ticker
	err     error
}

func (f *fakeOracle) Tokens(context.Context) ([]oracle.Token, error)   { return f.tokens, f.err }
func (f *fakeOracle) Tickers(context.Context) ([]oracle.Ticker, error) { return f.tickers, f.err }

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		tokens: []oracle.Token{
			{Symbol: "ETH", Address: wethAddr, Decimals: 18},
			{Symbol: "USDC", Address: usdcAddr, Decimals: 6},
			{Symbol: "BTC", Address: btcAddr, Decimals: 8, Synthetic: true},
		},
		tickers: []oracle.Ticker{
			{TokenAddress: strings.ToLower(wethAddr), TokenSymbol: "ETH", MinPrice: "3000000000000000", MaxPrice: "3001000000000000"},
			{TokenAddress: usdcAddr, TokenSymbol: "USDC", MinPrice: "1000000000000000000000000", MaxPrice: "1000000000000000000000000"},
			{TokenAddress: btcAddr, TokenSymbol: "BTC", MinPrice: "600000000000000000000000000", MaxPrice: "600000000000000000000000000"},
		},
	}
}

type fakeMarket struct {
	market, index, long, short string
}

type fakeFunding struct {
	longsPayShorts bool
	factor         *big.Int
}

type fakePosition struct {
	key        byte
	market     string
	collateral string
	isLong     bool
	sizeInUsd  *big.Int
	claimLong  *big.Int
	claimShort *big.Int
}

// fakeChain answers reader and data store calls from in-memory state.
type fakeChain struct {
	account      string
	markets      []fakeMarket
	funding      map[string]fakeFunding
	interest     map[[32]byte]*big.Int
	positions    []fakePosition
	positionsErr error
	batchErr     error

	lastPositionMarkets []common.Address
}

func (f *fakeChain) setInterest(market, collateral string, isLong bool, v *big.Int) {
	if f.interest == nil {
		f.interest = make(map[[32]byte]*big.Int)
	}
	key, err := OpenInterestKey(market, collateral, isLong)
	if err != nil {
		panic(err)
	}
	f.interest[key] = v
}

func (f *fakeChain) Call(_ context.Context, _ string, data []byte) ([]byte, error) {
	switch {
	case bytes.Equal(data[:4], getMarketsMethod.ID):
		return f.packMarkets()
	case bytes.Equal(data[:4], getAccountPositionInfoListMethod.ID):
		if f.positionsErr != nil {
			return nil, f.positionsErr
		}
		args, err := getAccountPositionInfoListMethod.Inputs.Unpack(data[4:])
		if err != nil {
			return nil, err
		}
		f.lastPositionMarkets = args[3].([]common.Address)
		return f.packPositions(args[2].(common.Address))
	}
	return nil, errors.New("unexpected call")
}

func (f *fakeChain) BatchCall(_ context.Context, requests []entity.CallRequestItem) ([]entity.CallResultItem, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([]entity.CallResultItem, len(requests))
	for i, req := range requests {
		out[i].RequestID = req.ID
		switch {
		case bytes.Equal(req.Data[:4], getMarketInfoMethod.ID):
			args, err := getMarketInfoMethod.Inputs.Unpack(req.Data[4:])
			if err != nil {
				out[i].Error = err
				continue
			}
			out[i].Data, out[i].Error = f.packMarketInfo(args[2].(common.Address))
		case bytes.Equal(req.Data[:4], getUintMethod.ID):
			args, err := getUintMethod.Inputs.Unpack(req.Data[4:])
			if err != nil {
				out[i].Error = err
				continue
			}
			v, ok := f.interest[args[0].([32]byte)]
			if !ok {
				v = new(big.Int)
			}
			out[i].Data, out[i].Error = getUintMethod.Outputs.Pack(v)
		default:
			out[i].Error = fmt.Errorf("unexpected batch call %s", req.ID)
		}
	}
	return out, nil
}

func (f *fakeChain) packMarkets() ([]byte, error) {
	list := newOutput(getMarketsMethod, len(f.markets))
	for i, m := range f.markets {
		row := list.Index(i)
		setPath(row, "marketToken", common.HexToAddress(m.market))
		setPath(row, "indexToken", common.HexToAddress(m.index))
		setPath(row, "longToken", common.HexToAddress(m.long))
		setPath(row, "shortToken", common.HexToAddress(m.short))
	}
	return getMarketsMethod.Outputs.Pack(list.Interface())
}

func (f *fakeChain) packMarketInfo(market common.Address) ([]byte, error) {
	info := newOutput(getMarketInfoMethod, 0)
	setPath(info, "market.marketToken", market)
	if fund, ok := f.funding[market.Hex()]; ok {
		setPath(info, "nextFunding.longsPayShorts", fund.longsPayShorts)
		setPath(info, "nextFunding.fundingFactorPerSecond", fund.factor)
	}
	return getMarketInfoMethod.Outputs.Pack(info.Interface())
}

func (f *fakeChain) packPositions(account common.Address) ([]byte, error) {
	var rows []fakePosition
	if strings.EqualFold(account.Hex(), f.account) {
		rows = f.positions
	}
	list := newOutput(getAccountPositionInfoListMethod, len(rows))
	for i, p := range rows {
		row := list.Index(i)
		var key [32]byte
		key[31] = p.key
		setPath(row, "positionKey", key)
		setPath(row, "position.addresses.account", account)
		setPath(row, "position.addresses.market", common.HexToAddress(p.market))
		setPath(row, "position.addresses.collateralToken", common.HexToAddress(p.collateral))
		setPath(row, "position.flags.isLong", p.isLong)
		setPath(row, "position.numbers.sizeInUsd", p.sizeInUsd)
		if p.claimLong != nil {
			setPath(row, "fees.funding.claimableLongTokenAmount", p.claimLong)
		}
		if p.claimShort != nil {
			setPath(row, "fees.funding.claimableShortTokenAmount", p.claimShort)
		}
	}
	return getAccountPositionInfoListMethod.Outputs.Pack(list.Interface())
}

// newOutput allocates the Go value of a method's single output with every integer set to zero.
// For list outputs n elements are allocated.
func newOutput(method abi.Method, n int) reflect.Value {
	typ := method.Outputs[0].Type.GetType()
	var v reflect.Value
	if typ.Kind() == reflect.Slice {
		v = reflect.MakeSlice(typ, n, n)
	} else {
		v = reflect.New(typ).Elem()
	}
	zeroFill(v)
	return v
}

func zeroFill(v reflect.Value) {
	switch {
	case v.Type() == bigIntPtrType:
		if v.IsNil() {
			v.Set(reflect.ValueOf(new(big.Int)))
		}
	case v.Kind() == reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			zeroFill(v.Field(i))
		}
	case v.Kind() == reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			zeroFill(v.Index(i))
		}
	}
}

func setPath(v reflect.Value, dotted string, val interface{}) {
	for _, seg := range strings.Split(dotted, ".") {
		v = fieldByTag(v, seg)
	}
	v.Set(reflect.ValueOf(val))
}

func fieldByTag(v reflect.Value, tag string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if fieldKey(t.Field(i)) == tag {
			return v.Field(i)
		}
	}
	panic("no field " + tag + " in " + t.String())
}

// newFakeChain returns a chain with a perpetual ETH market, a single-collateral ETH market,
// a BTC market, a swap-only market and a market referencing an unknown token.
func newFakeChain() *fakeChain {
	f := &fakeChain{
		account: "0x9999999999999999999999999999999999999999",
		markets: []fakeMarket{
			{market: ethMarket, index: wethAddr, long: wethAddr, short: usdcAddr},
			{market: ethSoloMarket, index: wethAddr, long: wethAddr, short: wethAddr},
			{market: btcMarket, index: btcAddr, long: wethAddr, short: usdcAddr},
			{market: swapMarket, index: entity.ZeroAddress, long: wethAddr, short: usdcAddr},
			{market: orphanMarket, index: wethAddr, long: unknownToken, short: usdcAddr},
		},
		funding: map[string]fakeFunding{
			common.HexToAddress(ethMarket).Hex():     {longsPayShorts: true, factor: e(22)},
			common.HexToAddress(ethSoloMarket).Hex(): {longsPayShorts: false, factor: e(21)},
		},
	}
	f.setInterest(ethMarket, wethAddr, true, big.NewInt(150))
	f.setInterest(ethMarket, usdcAddr, true, big.NewInt(50))
	f.setInterest(ethMarket, wethAddr, false, big.NewInt(60))
	f.setInterest(ethMarket, usdcAddr, false, big.NewInt(40))
	for _, isLong := range []bool{true, false} {
		f.setInterest(ethSoloMarket, wethAddr, isLong, big.NewInt(100))
	}
	return f
}
