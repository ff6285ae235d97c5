package contract

// ABIEntry is one raw interface description entry (function, event, etc.)
// exactly as it appears in the JSON document.
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
	Anonymous       bool       `json:"anonymous,omitempty"`

	// Pre-0.5 Solidity compilers emit these instead of stateMutability.
	Constant bool `json:"constant,omitempty"`
	Payable  bool `json:"payable,omitempty"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	InternalType string     `json:"internalType,omitempty"`
	Indexed      bool       `json:"indexed,omitempty"`
	Components   []ABIParam `json:"components,omitempty"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.isFunction() && e.mutability().IsRead()
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.isFunction() && !e.mutability().IsRead()
}

// An omitted type defaults to "function".
func (e ABIEntry) isFunction() bool {
	return e.Type == "function" || e.Type == ""
}

func (e ABIEntry) mutability() Mutability {
	if e.StateMutability != "" {
		return Mutability(e.StateMutability)
	}
	switch {
	case e.Constant:
		return MutabilityView
	case e.Payable:
		return MutabilityPayable
	default:
		return MutabilityNonpayable
	}
}
