package contract

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrInvalidInteger is returned when integer text cannot be parsed.
var ErrInvalidInteger = errors.New("invalid integer")

// MissingParameterError reports a required argument that was absent or empty.
type MissingParameterError struct {
	Index int
	Name  string
}

func (e *MissingParameterError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("missing value for parameter %s", e.Name)
	}
	return fmt.Sprintf("missing value for parameter #%d", e.Index)
}

// CallArgument is one marshalled call argument. Value holds a *big.Int for
// integer kinds, a bool, a 0x-prefixed hex string for addresses and byte
// sequences, or the caller's text for strings, arrays and tuples.
type CallArgument struct {
	Kind  ParamKind
	Value any
}

// Marshal converts caller-supplied text into typed arguments, one per input
// of fn and in input order. When fn takes a trailing auth token and token
// is non-empty, token replaces whatever the caller supplied for it.
func Marshal(fn *FunctionDescriptor, values []string, token string) ([]CallArgument, error) {
	if len(values) > len(fn.Inputs) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", fn.Name, len(fn.Inputs), len(values))
	}

	authIdx := -1
	if fn.RequiresAuthToken() {
		authIdx = len(fn.Inputs) - 1
	}

	args := make([]CallArgument, len(fn.Inputs))
	for i, p := range fn.Inputs {
		var text string
		if i < len(values) {
			text = values[i]
		}
		if i == authIdx && token != "" {
			text = token
		}
		if text == "" {
			return nil, &MissingParameterError{Index: i, Name: p.Name}
		}

		arg, err := Coerce(p, text)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", paramLabel(p, i), err)
		}
		args[i] = arg
	}
	return args, nil
}

// Coerce converts a single text value according to the parameter's kind.
func Coerce(p ParamSpec, text string) (CallArgument, error) {
	switch p.Kind {
	case KindUint, KindInt:
		n, err := parseInteger(text)
		if err != nil {
			return CallArgument{}, err
		}
		return CallArgument{Kind: p.Kind, Value: n}, nil
	case KindBool:
		return CallArgument{Kind: p.Kind, Value: text == "true" || text == "1"}, nil
	case KindAddress:
		return CallArgument{Kind: p.Kind, Value: NormalizeAddress(text)}, nil
	case KindBytes, KindFixedBytes:
		return CallArgument{Kind: p.Kind, Value: normalizeBytes(text)}, nil
	case KindString, KindArray, KindTuple:
		return CallArgument{Kind: p.Kind, Value: text}, nil
	default:
		return CallArgument{}, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}
}

// NormalizeAddress prefixes 0x when missing. It is idempotent.
func NormalizeAddress(s string) string {
	if strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}

// parseInteger parses decimal or 0x-hex text. Empty text is zero.
func parseInteger(text string) (*big.Int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return new(big.Int), nil
	}

	digits, base := text, 10
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, base = digits[2:], 16
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok || strings.ContainsAny(digits, "+-_") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInteger, text)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

func normalizeBytes(text string) string {
	switch {
	case strings.HasPrefix(text, "0x"):
		return text
	case isHex(text):
		return "0x" + text
	default:
		return hexutil.Encode([]byte(text))
	}
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func paramLabel(p ParamSpec, i int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%d", i)
}
