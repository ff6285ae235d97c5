package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrInvalidAddress is returned for text that is not a 20-byte hex address.
var ErrInvalidAddress = errors.New("invalid address")

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// ToABIValues converts marshalled arguments into the Go values go-ethereum
// packs for fn's inputs: fixed-width integers for widths up to 64 bits,
// *big.Int above that, [N]byte for bytesN and common.Address for addresses.
// Array and tuple text is decoded as JSON into the ABI's Go type.
func ToABIValues(fn *FunctionDescriptor, args []CallArgument) ([]any, error) {
	inputs := fn.method.Inputs
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", fn.Name, len(inputs), len(args))
	}

	out := make([]any, len(args))
	for i, arg := range args {
		v, err := toABIValue(inputs[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", paramLabel(fn.Inputs[i], i), err)
		}
		out[i] = v
	}
	return out, nil
}

func toABIValue(t abi.Type, arg CallArgument) (any, error) {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		n, ok := arg.Value.(*big.Int)
		if !ok || n == nil {
			return nil, fmt.Errorf("expected integer, got %T", arg.Value)
		}
		return convertInteger(t, n)

	case abi.BoolTy:
		b, ok := arg.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", arg.Value)
		}
		return b, nil

	case abi.AddressTy:
		s, _ := arg.Value.(string)
		if !common.IsHexAddress(s) || len(s) != 42 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		return common.HexToAddress(s), nil

	case abi.StringTy:
		s, ok := arg.Value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", arg.Value)
		}
		return s, nil

	case abi.BytesTy:
		return decodeHexArg(arg)

	case abi.FixedBytesTy:
		b, err := decodeHexArg(arg)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("value is %d bytes, %s holds %d", len(b), t.String(), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		text, ok := arg.Value.(string)
		if !ok {
			return nil, fmt.Errorf("expected JSON text, got %T", arg.Value)
		}
		ptr := reflect.New(t.GetType())
		if err := json.Unmarshal([]byte(text), ptr.Interface()); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", t.String(), err)
		}
		return ptr.Elem().Interface(), nil
	}
	return nil, fmt.Errorf("unsupported ABI type %s", t.String())
}

func convertInteger(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative value for %s", ErrInvalidInteger, t.String())
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("%w: %s overflows %s", ErrInvalidInteger, n, t.String())
		}
	} else {
		mag := n
		if n.Sign() < 0 {
			mag = new(big.Int).Sub(new(big.Int).Neg(n), big.NewInt(1))
		}
		if mag.BitLen() > t.Size-1 {
			return nil, fmt.Errorf("%w: %s overflows %s", ErrInvalidInteger, n, t.String())
		}
	}

	goType := t.GetType()
	if goType == bigIntType {
		return new(big.Int).Set(n), nil
	}
	v := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		v.SetUint(n.Uint64())
	} else {
		v.SetInt(n.Int64())
	}
	return v.Interface(), nil
}

func decodeHexArg(arg CallArgument) ([]byte, error) {
	s, ok := arg.Value.(string)
	if !ok {
		return nil, fmt.Errorf("expected hex string, got %T", arg.Value)
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", s, err)
	}
	return b, nil
}
