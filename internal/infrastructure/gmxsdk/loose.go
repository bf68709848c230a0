package gmxsdk

import (
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"gmx_gateway/internal/pkg/probe"
)

var ( //nolint:gochecknoglobals
	bigIntPtrType = reflect.TypeOf((*big.Int)(nil))
	addressType   = reflect.TypeOf(common.Address{})
)

// toLoose converts ABI-decoded values into nested records.
// Integers become *big.Int, addresses checksummed hex strings,
// bytes32 values integers, and tuples records keyed by their ABI names.
func toLoose(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	return looseValue(reflect.ValueOf(v))
}

func looseValue(v reflect.Value) interface{} {
	switch v.Type() {
	case bigIntPtrType:
		if v.IsNil() {
			return nil
		}
		return new(big.Int).Set(v.Interface().(*big.Int))
	case addressType:
		return v.Interface().(common.Address).Hex()
	}

	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(v.Uint())
	case reflect.String:
		return v.String()
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return new(big.Int).SetBytes(b)
		}
		return looseList(v)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return hexutil.Encode(v.Bytes())
		}
		return looseList(v)
	case reflect.Struct:
		rec := make(probe.Record, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			rec[fieldKey(v.Type().Field(i))] = looseValue(v.Field(i))
		}
		return rec
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return looseValue(v.Elem())
	}
	return v.Interface()
}

func looseList(v reflect.Value) []interface{} {
	out := make([]interface{}, v.Len())
	for i := range out {
		out[i] = looseValue(v.Index(i))
	}
	return out
}

func fieldKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}
	return f.Name
}

// recordList asserts a loose list of records.
func recordList(v interface{}) []probe.Record {
	items, _ := v.([]interface{})
	out := make([]probe.Record, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(probe.Record); ok {
			out = append(out, rec)
		}
	}
	return out
}
