package contract

import (
	"maps"
	"slices"
	"strings"
)

// BuiltinKind is a contract interface compiled into the binary so the
// console works without an --abi file. Each one registers itself from
// init() in its own <name>_abi.go.
type BuiltinKind struct {
	ID          string // lookup key for Resolve, e.g. "urwa20"
	Name        string
	Description string // shown by `functions --builtins`
	Interface   *Interface
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin makes b resolvable by its ID. A later registration with
// the same ID replaces the earlier one.
func RegisterBuiltin(b BuiltinKind) {
	builtinRegistry[b.ID] = b
}

// GetBuiltin looks a built-in up by ID.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// AllBuiltins lists the registered built-ins ordered by ID.
func AllBuiltins() []BuiltinKind {
	return slices.SortedFunc(maps.Values(builtinRegistry), func(a, b BuiltinKind) int {
		return strings.Compare(a.ID, b.ID)
	})
}
