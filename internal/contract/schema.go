package contract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Errors returned while loading or querying an interface description.
var (
	ErrUnknownType       = errors.New("unknown parameter type")
	ErrUnknownMutability = errors.New("unknown state mutability")
	ErrFunctionNotFound  = errors.New("function not found")
	ErrEventNotFound     = errors.New("event not found")
)

// ParamKind is the closed set of parameter kinds the console can marshal.
type ParamKind int

const (
	KindUint ParamKind = iota + 1
	KindInt
	KindBool
	KindAddress
	KindBytes
	KindFixedBytes
	KindString
	KindArray
	KindTuple
)

func (k ParamKind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindBytes:
		return "bytes"
	case KindFixedBytes:
		return "fixed-bytes"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k ParamKind) IsInteger() bool { return k == KindUint || k == KindInt }

// ParseKind classifies a declared ABI type. Types outside the vocabulary
// (function pointers, malformed widths) yield ErrUnknownType.
func ParseKind(typ string) (ParamKind, error) {
	if i := strings.LastIndexByte(typ, '['); i > 0 && strings.HasSuffix(typ, "]") {
		if size := typ[i+1 : len(typ)-1]; size != "" {
			if n, err := strconv.Atoi(size); err != nil || n <= 0 {
				return 0, fmt.Errorf("%w: %q", ErrUnknownType, typ)
			}
		}
		if _, err := ParseKind(typ[:i]); err != nil {
			return 0, err
		}
		return KindArray, nil
	}

	switch {
	case typ == "bool":
		return KindBool, nil
	case typ == "address":
		return KindAddress, nil
	case typ == "string":
		return KindString, nil
	case typ == "bytes":
		return KindBytes, nil
	case typ == "tuple":
		return KindTuple, nil
	case strings.HasPrefix(typ, "bytes"):
		if n, err := strconv.Atoi(typ[5:]); err == nil && n >= 1 && n <= 32 {
			return KindFixedBytes, nil
		}
	case strings.HasPrefix(typ, "uint"):
		if validBits(typ[4:]) {
			return KindUint, nil
		}
	case strings.HasPrefix(typ, "int"):
		if validBits(typ[3:]) {
			return KindInt, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, typ)
}

// validBits accepts explicit widths only; abi.JSON rejects bare uint and int.
func validBits(s string) bool {
	if s == "" {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 8 && n <= 256 && n%8 == 0
}

// Mutability is a function's declared state mutability.
type Mutability string

const (
	MutabilityPure       Mutability = "pure"
	MutabilityView       Mutability = "view"
	MutabilityNonpayable Mutability = "nonpayable"
	MutabilityPayable    Mutability = "payable"
)

// IsRead reports whether calls with this mutability are view-like.
func (m Mutability) IsRead() bool { return m == MutabilityPure || m == MutabilityView }

func (m Mutability) valid() bool {
	switch m {
	case MutabilityPure, MutabilityView, MutabilityNonpayable, MutabilityPayable:
		return true
	}
	return false
}

// ParamSpec is a classified parameter.
type ParamSpec struct {
	Name       string
	Type       string
	Kind       ParamKind
	Indexed    bool
	Components []ParamSpec
}

// canonicalType renders the type as it appears in a selector signature,
// expanding tuples into their component list.
func (p ParamSpec) canonicalType() string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	parts := make([]string, len(p.Components))
	for i, c := range p.Components {
		parts[i] = c.canonicalType()
	}
	return "(" + strings.Join(parts, ",") + ")" + strings.TrimPrefix(p.Type, "tuple")
}

// FunctionDescriptor is an immutable, classified function entry.
type FunctionDescriptor struct {
	Name       string
	Inputs     []ParamSpec
	Outputs    []ParamSpec
	Mutability Mutability

	method abi.Method
}

// IsRead reports whether the function is pure or view.
func (f *FunctionDescriptor) IsRead() bool { return f.Mutability.IsRead() }

// IsWrite reports whether the function is nonpayable or payable.
func (f *FunctionDescriptor) IsWrite() bool { return !f.Mutability.IsRead() }

// IsPayable reports whether the function accepts a value transfer.
func (f *FunctionDescriptor) IsPayable() bool { return f.Mutability == MutabilityPayable }

// RequiresAuthToken is true iff the last input is a variable-length bytes
// parameter named token or authToken.
func (f *FunctionDescriptor) RequiresAuthToken() bool {
	if len(f.Inputs) == 0 {
		return false
	}
	last := f.Inputs[len(f.Inputs)-1]
	return last.Kind == KindBytes && (last.Name == "token" || last.Name == "authToken")
}

// Signature renders "name(type1 name1, type2)" with empty names omitted.
func (f *FunctionDescriptor) Signature() string {
	parts := make([]string, len(f.Inputs))
	for i, p := range f.Inputs {
		parts[i] = strings.TrimSpace(p.Type + " " + p.Name)
	}
	return f.Name + "(" + strings.Join(parts, ", ") + ")"
}

// CanonicalSignature renders the selector preimage, e.g. "transfer(address,uint256)".
func (f *FunctionDescriptor) CanonicalSignature() string {
	types := make([]string, len(f.Inputs))
	for i, p := range f.Inputs {
		types[i] = p.canonicalType()
	}
	return f.Name + "(" + strings.Join(types, ",") + ")"
}

// Selector returns the 0x-prefixed 4-byte function selector.
func (f *FunctionDescriptor) Selector() string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(f.CanonicalSignature()))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// Method returns the go-ethereum method bound to this descriptor.
func (f *FunctionDescriptor) Method() abi.Method { return f.method }

// EventDescriptor is a classified event entry.
type EventDescriptor struct {
	Name      string
	Inputs    []ParamSpec
	Anonymous bool

	event abi.Event
}

// ID returns the event's topic0.
func (e *EventDescriptor) ID() common.Hash { return e.event.ID }

// ABIEvent returns the go-ethereum event bound to this descriptor.
func (e *EventDescriptor) ABIEvent() abi.Event { return e.event }

// Interface is a parsed contract interface description.
type Interface struct {
	entries   []ABIEntry
	functions []*FunctionDescriptor
	events    []*EventDescriptor
	parsed    abi.ABI
}

// ParseInterface parses a raw ABI array or a Hardhat/Foundry artifact and
// classifies every function and event. Unknown parameter types or
// mutabilities are rejected here rather than at call time.
func ParseInterface(data []byte) (*Interface, error) {
	raw := unwrapArtifact(data)

	var entries []ABIEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing interface description: %w", err)
	}

	iface := &Interface{entries: entries}
	for idx, e := range entries {
		switch {
		case e.isFunction():
			entries[idx].Type = "function"
			fn, err := newFunctionDescriptor(e)
			if err != nil {
				return nil, err
			}
			iface.functions = append(iface.functions, fn)
		case e.Type == "event":
			ev, err := newEventDescriptor(e)
			if err != nil {
				return nil, err
			}
			iface.events = append(iface.events, ev)
		default:
			if _, err := classifyParams(e.Name, e.Inputs); err != nil {
				return nil, err
			}
		}
	}

	normalized, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("parsing interface description: %w", err)
	}
	if iface.parsed, err = abi.JSON(bytes.NewReader(normalized)); err != nil {
		return nil, fmt.Errorf("parsing interface description: %w", err)
	}
	for _, fn := range iface.functions {
		if fn.method, err = bindMethod(iface.parsed, fn); err != nil {
			return nil, err
		}
	}
	for _, ev := range iface.events {
		if ev.event, err = bindEvent(iface.parsed, ev); err != nil {
			return nil, err
		}
	}
	return iface, nil
}

// MustParseInterface is ParseInterface that panics on error. Used for
// built-in interfaces compiled into the binary.
func MustParseInterface(data []byte) *Interface {
	iface, err := ParseInterface(data)
	if err != nil {
		panic(err)
	}
	return iface
}

// Entries returns the raw entries in declaration order.
func (i *Interface) Entries() []ABIEntry { return i.entries }

// Functions returns all functions in declaration order.
func (i *Interface) Functions() []*FunctionDescriptor { return i.functions }

// Events returns all events in declaration order.
func (i *Interface) Events() []*EventDescriptor { return i.events }

// Partition splits functions into view-like and write-like, preserving
// relative order within each group.
func (i *Interface) Partition() (views, writes []*FunctionDescriptor) {
	for _, fn := range i.functions {
		if fn.IsRead() {
			views = append(views, fn)
		} else {
			writes = append(writes, fn)
		}
	}
	return views, writes
}

// Function looks a function up by name. For overloaded names the first
// declaration wins unless name is a full canonical signature.
func (i *Interface) Function(name string) (*FunctionDescriptor, error) {
	for _, fn := range i.functions {
		if fn.Name == name || fn.CanonicalSignature() == name {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
}

// Event looks an event up by name.
func (i *Interface) Event(name string) (*EventDescriptor, error) {
	for _, ev := range i.events {
		if ev.Name == name {
			return ev, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrEventNotFound, name)
}

// --- helpers ---

func newFunctionDescriptor(e ABIEntry) (*FunctionDescriptor, error) {
	m := e.mutability()
	if !m.valid() {
		return nil, fmt.Errorf("%s: %w %q", e.Name, ErrUnknownMutability, e.StateMutability)
	}
	inputs, err := classifyParams(e.Name, e.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := classifyParams(e.Name, e.Outputs)
	if err != nil {
		return nil, err
	}
	return &FunctionDescriptor{Name: e.Name, Inputs: inputs, Outputs: outputs, Mutability: m}, nil
}

func newEventDescriptor(e ABIEntry) (*EventDescriptor, error) {
	inputs, err := classifyParams(e.Name, e.Inputs)
	if err != nil {
		return nil, err
	}
	return &EventDescriptor{Name: e.Name, Inputs: inputs, Anonymous: e.Anonymous}, nil
}

func classifyParams(owner string, params []ABIParam) ([]ParamSpec, error) {
	specs := make([]ParamSpec, len(params))
	for i, p := range params {
		kind, err := ParseKind(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: parameter %d: %w", owner, i, err)
		}
		components, err := classifyParams(owner, p.Components)
		if err != nil {
			return nil, err
		}
		specs[i] = ParamSpec{
			Name:       p.Name,
			Type:       p.Type,
			Kind:       kind,
			Indexed:    p.Indexed,
			Components: components,
		}
	}
	return specs, nil
}

// bindMethod finds the go-ethereum method matching fn. Overloads are keyed
// by mangled names in abi.ABI so the match is by raw name plus signature.
func bindMethod(parsed abi.ABI, fn *FunctionDescriptor) (abi.Method, error) {
	sig := fn.CanonicalSignature()
	for _, m := range parsed.Methods {
		if m.RawName == fn.Name && m.Sig == sig {
			return m, nil
		}
	}
	return abi.Method{}, fmt.Errorf("%w: %q", ErrFunctionNotFound, sig)
}

func bindEvent(parsed abi.ABI, ev *EventDescriptor) (abi.Event, error) {
	types := make([]string, len(ev.Inputs))
	for i, p := range ev.Inputs {
		types[i] = p.canonicalType()
	}
	sig := ev.Name + "(" + strings.Join(types, ",") + ")"
	for _, e := range parsed.Events {
		if e.RawName == ev.Name && e.Sig == sig {
			return e, nil
		}
	}
	return abi.Event{}, fmt.Errorf("%w: %q", ErrEventNotFound, sig)
}

// unwrapArtifact returns the "abi" array of a compiler artifact, or data
// unchanged when it is not an artifact object.
func unwrapArtifact(data []byte) []byte {
	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if json.Unmarshal(trimmed, &artifact) == nil && len(artifact.ABI) > 1 && artifact.ABI[0] == '[' {
			return artifact.ABI
		}
	}
	return trimmed
}
