// Package events decodes the contract's encrypted log events.
package events

import (
	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/ethereum/go-ethereum/core/types"
)

// Encrypted event kinds. Each carries a single unindexed bytes field.
const (
	KindTransfer       = "EncryptedTransfer"
	KindApproval       = "EncryptedApproval"
	KindForcedTransfer = "EncryptedForcedTransfer"
	KindFrozen         = "EncryptedFrozen"
	KindWhitelisted    = "EncryptedWhitelisted"
)

// Kinds lists every kind Decode can produce.
var Kinds = []string{KindTransfer, KindApproval, KindForcedTransfer, KindFrozen, KindWhitelisted}

func isKind(name string) bool {
	for _, k := range Kinds {
		if k == name {
			return true
		}
	}
	return false
}

// Decoder matches raw logs against the events of an interface.
type Decoder struct {
	iface *contract.Interface
}

// NewDecoder creates a Decoder over iface's declared events.
func NewDecoder(iface *contract.Interface) *Decoder {
	return &Decoder{iface: iface}
}

// Decode returns the kind and payload of an encrypted event log. ok is false
// when the log does not match exactly one declared event, or matches one
// outside the encrypted kinds. Logs from other contracts or events are
// expected and are not errors.
func (d *Decoder) Decode(log types.Log) (kind string, payload []byte, ok bool) {
	ev, vals, ok := d.match(log)
	if !ok || !isKind(ev.Name) {
		return "", nil, false
	}
	if len(ev.Inputs) != 1 || ev.Inputs[0].Kind != contract.KindBytes || ev.Inputs[0].Indexed {
		return "", nil, false
	}
	if len(vals) != 1 {
		return "", nil, false
	}
	payload, ok = vals[0].([]byte)
	if !ok {
		return "", nil, false
	}
	return ev.Name, payload, true
}

// EventName returns the name of the declared event that produced log, for
// any event in the interface.
func (d *Decoder) EventName(log types.Log) (string, bool) {
	ev, _, ok := d.match(log)
	if !ok {
		return "", false
	}
	return ev.Name, true
}

// match returns the single event log decodes against, with its unindexed
// values.
func (d *Decoder) match(log types.Log) (*contract.EventDescriptor, []any, bool) {
	var (
		found *contract.EventDescriptor
		vals  []any
	)
	for _, ev := range d.iface.Events() {
		v, ok := decodeAs(ev, log)
		if !ok {
			continue
		}
		if found != nil {
			return nil, nil, false
		}
		found, vals = ev, v
	}
	return found, vals, found != nil
}

func decodeAs(ev *contract.EventDescriptor, log types.Log) ([]any, bool) {
	abiEvent := ev.ABIEvent()
	topics := log.Topics
	if !ev.Anonymous {
		if len(topics) == 0 || topics[0] != abiEvent.ID {
			return nil, false
		}
		topics = topics[1:]
	}

	indexed := 0
	for _, in := range ev.Inputs {
		if in.Indexed {
			indexed++
		}
	}
	if len(topics) != indexed {
		return nil, false
	}

	vals, err := abiEvent.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, false
	}
	return vals, true
}
