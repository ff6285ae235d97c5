package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// FormatOutput renders a decoded return value for display.
//
//   - nil renders as "null"
//   - *big.Int renders in decimal
//   - addresses render checksummed, byte sequences as 0x hex
//   - slices, arrays, structs and maps render as indented JSON
//   - everything else uses its natural fmt form
func FormatOutput(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *big.Int:
		if x == nil {
			return "null"
		}
		return x.String()
	case string:
		return x
	}

	rv := reflect.ValueOf(v)
	if isBytes(rv) || rv.Type() == reflect.TypeOf(common.Address{}) {
		return fmt.Sprint(displayValue(rv))
	}
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "null"
		}
		return FormatOutput(rv.Elem().Interface())
	case reflect.Slice, reflect.Array, reflect.Struct, reflect.Map:
		out, err := json.MarshalIndent(displayValue(rv), "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	}
	return fmt.Sprint(v)
}

// FormatTokenAmount renders an integer amount scaled down by decimals,
// trimming trailing zeros: 1500000000000000000 with 18 decimals is "1.5".
func FormatTokenAmount(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// ErrInvalidAmount is returned by ParseTokenAmount.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseTokenAmount scales a decimal amount up by decimals: "1.5" with 18
// decimals is 1500000000000000000. Negative amounts and amounts with more
// fractional digits than decimals are rejected.
func ParseTokenAmount(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, decimals)
	}
	return scaled.BigInt(), nil
}

// displayValue converts a decoded value into something encoding/json
// renders faithfully: integers as decimal strings, bytes as hex.
func displayValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	if rv.Type() == bigIntType {
		if rv.IsNil() {
			return nil
		}
		return rv.Interface().(*big.Int).String()
	}
	if addr, ok := rv.Interface().(common.Address); ok {
		return addr.Hex()
	}
	if isBytes(rv) {
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return hexutil.Encode(b)
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return displayValue(rv.Elem())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = displayValue(rv.Index(i))
		}
		return out
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Type().Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
				name = tag
			}
			out[name] = displayValue(rv.Field(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = displayValue(iter.Value())
		}
		return out
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprint(rv.Uint())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprint(rv.Int())
	}
	return rv.Interface()
}

func isBytes(rv reflect.Value) bool {
	k := rv.Kind()
	return (k == reflect.Slice || k == reflect.Array) && rv.Type().Elem().Kind() == reflect.Uint8
}
