package events

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/Mohsinsiddi/urwacli/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DefaultWindow is how many recent blocks are scanned when no start block
// is given.
const DefaultWindow = 1000

// LogBackend is the RPC surface the scanner needs.
type LogBackend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Event is a decoded encrypted event.
type Event struct {
	Kind        string
	Payload     []byte
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
}

// HistoryEntry summarises one transaction that touched the contract.
// Payload is nil when the transaction's event carries none.
type HistoryEntry struct {
	BlockNumber uint64
	TxHash      common.Hash
	EventName   string
	Payload     []byte
}

// Scanner fetches and decodes the contract's logs.
type Scanner struct {
	backend LogBackend
	decoder *Decoder
	address common.Address
	log     logger.Logger
}

// NewScanner creates a Scanner for the contract at address.
func NewScanner(backend LogBackend, decoder *Decoder, address common.Address, log logger.Logger) *Scanner {
	return &Scanner{backend: backend, decoder: decoder, address: address, log: logger.OrNoop(log)}
}

// Scan returns the encrypted events emitted since fromBlock, newest first.
// A nil fromBlock scans the last DefaultWindow blocks.
func (s *Scanner) Scan(ctx context.Context, fromBlock *big.Int) ([]Event, error) {
	start, err := s.startBlock(ctx, fromBlock)
	if err != nil {
		return nil, err
	}

	ids := make([]common.Hash, 0, len(Kinds))
	for _, k := range Kinds {
		if ev, err := s.decoder.iface.Event(k); err == nil {
			ids = append(ids, ev.ID())
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	logs, err := s.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: start,
		Addresses: []common.Address{s.address},
		Topics:    [][]common.Hash{ids},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching logs: %w", err)
	}

	out := make([]Event, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		kind, payload, ok := s.decoder.Decode(l)
		if !ok {
			s.log.Debug("skipping undecodable log", map[string]any{"tx": l.TxHash.Hex(), "index": l.Index})
			continue
		}
		out = append(out, Event{
			Kind:        kind,
			Payload:     payload,
			BlockNumber: l.BlockNumber,
			TxHash:      l.TxHash,
			LogIndex:    l.Index,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BlockNumber != out[j].BlockNumber {
			return out[i].BlockNumber > out[j].BlockNumber
		}
		return out[i].LogIndex > out[j].LogIndex
	})
	return out, nil
}

// History returns one entry per transaction since fromBlock, newest first.
// When filter is set, only logs with a topic containing that address are
// kept. For a transaction with several events the last one wins.
func (s *Scanner) History(ctx context.Context, fromBlock *big.Int, filter string) ([]HistoryEntry, error) {
	needle := ""
	if filter != "" {
		if !common.IsHexAddress(filter) {
			return nil, fmt.Errorf("%w: %q", contract.ErrInvalidAddress, filter)
		}
		needle = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(filter, "0x"), "0X"))
	}

	start, err := s.startBlock(ctx, fromBlock)
	if err != nil {
		return nil, err
	}
	logs, err := s.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: start,
		Addresses: []common.Address{s.address},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching logs: %w", err)
	}

	byTx := make(map[common.Hash]int)
	var out []HistoryEntry
	for _, l := range logs {
		if l.Removed {
			continue
		}
		name, ok := s.decoder.EventName(l)
		if !ok {
			continue
		}
		if needle != "" && !topicsContain(l.Topics, needle) {
			continue
		}

		entry := HistoryEntry{BlockNumber: l.BlockNumber, TxHash: l.TxHash, EventName: name}
		if _, payload, ok := s.decoder.Decode(l); ok {
			entry.Payload = payload
		}
		if i, seen := byTx[l.TxHash]; seen {
			out[i] = entry
			continue
		}
		byTx[l.TxHash] = len(out)
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].BlockNumber > out[j].BlockNumber })
	return out, nil
}

func (s *Scanner) startBlock(ctx context.Context, fromBlock *big.Int) (*big.Int, error) {
	if fromBlock != nil {
		return fromBlock, nil
	}
	head, err := s.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting block number: %w", err)
	}
	if head < DefaultWindow {
		return new(big.Int), nil
	}
	return new(big.Int).SetUint64(head - DefaultWindow), nil
}

func topicsContain(topics []common.Hash, needle string) bool {
	for _, t := range topics {
		if strings.Contains(strings.ToLower(t.Hex()), needle) {
			return true
		}
	}
	return false
}
