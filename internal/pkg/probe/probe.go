// Package probe resolves fields from loosely-typed records whose shape depends
// on which upstream call produced them.
package probe

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Record is a loosely-typed upstream record.
type Record = map[string]any

// Path addresses a value through nested records, e.g. {"position", "numbers", "sizeInUsd"}.
type Path []string

// P builds a Path from a dotted string.
func P(dotted string) Path {
	return strings.Split(dotted, ".")
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Field is a logical field with the locations it may live at, in priority order.
type Field struct {
	Name  string
	Paths []Path
}

// NewField builds a Field from dotted paths.
func NewField(name string, dotted ...string) Field {
	paths := make([]Path, 0, len(dotted))
	for _, d := range dotted {
		paths = append(paths, P(d))
	}
	return Field{Name: name, Paths: paths}
}

// Lookup walks a single path. A nil value counts as absent.
func Lookup(rec Record, path Path) (any, bool) {
	var cur any = rec
	for _, seg := range path {
		m, ok := asRecord(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// First returns the value at the first path that is present.
func (f Field) First(rec Record) (any, bool) {
	for _, p := range f.Paths {
		if v, ok := Lookup(rec, p); ok {
			return v, true
		}
	}
	return nil, false
}

// String resolves the field as a string; absent fields yield "".
func (f Field) String(rec Record) string {
	v, ok := f.First(rec)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool resolves the field as a bool; absent or non-boolean values yield false.
func (f Field) Bool(rec Record) bool {
	v, ok := f.First(rec)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	}
	return false
}

// BigInt resolves the field as an integer, defaulting to zero when absent.
func (f Field) BigInt(rec Record) (*big.Int, error) {
	v, ok := f.First(rec)
	if !ok {
		return new(big.Int), nil
	}
	n, err := ToBigInt(v)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return n, nil
}

// ToBigInt converts integer-like values without going through floating point.
// Strings may be decimal or 0x-prefixed hex.
func ToBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return new(big.Int), nil
		}
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case json.Number:
		return parseIntString(n.String())
	case string:
		return parseIntString(n)
	}
	return nil, fmt.Errorf("cannot convert %T to integer", v)
}

// IsInteger reports whether v is an integer-typed value.
func IsInteger(v any) bool {
	switch v.(type) {
	case *big.Int, big.Int,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func parseIntString(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	n := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = n.SetString(s[2:], 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	}
	return nil, false
}
