package chain

import (
	"context"
	"errors"
	"math/big"

	"github.com/Mohsinsiddi/urwacli/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// FloorFee is the minimum fee per gas Sapphire accepts: 100 gwei.
var FloorFee = big.NewInt(100_000_000_000)

var (
	errNoBaseFee  = errors.New("latest header has no base fee")
	errNoTipCap   = errors.New("node returned no tip cap")
	errNoGasPrice = errors.New("node returned no gas price")
)

// GasQuote is the fee pair attached to a dynamic-fee transaction.
// MaxFeePerGas >= MaxPriorityFeePerGas >= FloorFee always holds.
type GasQuote struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// FeeBackend is the subset of the RPC client the negotiator needs.
type FeeBackend interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// Negotiator produces fee quotes and gas limits for writes. Estimation
// failures are logged and absorbed; Quote never fails.
type Negotiator struct {
	backend FeeBackend
	floor   *big.Int
	log     logger.Logger
}

// NewNegotiator creates a negotiator enforcing FloorFee.
func NewNegotiator(backend FeeBackend, log logger.Logger) *Negotiator {
	return &Negotiator{backend: backend, floor: FloorFee, log: logger.OrNoop(log)}
}

// Quote tries the dynamic fee model, then the legacy gas price, then the floor.
func (n *Negotiator) Quote(ctx context.Context) GasQuote {
	q, err := n.dynamic(ctx)
	if err == nil {
		n.log.Debug("fee quote", map[string]any{"tier": "dynamic", "max_fee_gwei": WeiToGwei(q.MaxFeePerGas), "priority_gwei": WeiToGwei(q.MaxPriorityFeePerGas)})
		return q
	}
	n.log.Debug("dynamic fee estimate unavailable", map[string]any{"error": err.Error()})

	q, err = n.legacy(ctx)
	if err == nil {
		n.log.Debug("fee quote", map[string]any{"tier": "legacy", "gas_price_gwei": WeiToGwei(q.MaxFeePerGas)})
		return q
	}
	n.log.Warn("fee estimation unavailable, using floor", map[string]any{"error": err.Error()})

	return GasQuote{
		MaxFeePerGas:         new(big.Int).Set(n.floor),
		MaxPriorityFeePerGas: new(big.Int).Set(n.floor),
	}
}

// dynamic estimates maxFee as baseFee*1.2 + tip, then raises both
// components to the floor and maxFee to at least the priority fee.
func (n *Negotiator) dynamic(ctx context.Context) (GasQuote, error) {
	head, err := n.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return GasQuote{}, err
	}
	if head == nil || head.BaseFee == nil {
		return GasQuote{}, errNoBaseFee
	}
	tip, err := n.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return GasQuote{}, err
	}
	if tip == nil {
		return GasQuote{}, errNoTipCap
	}

	maxFee := new(big.Int).Mul(head.BaseFee, big.NewInt(6))
	maxFee.Div(maxFee, big.NewInt(5))
	maxFee.Add(maxFee, tip)

	priority := maxBig(tip, n.floor)
	maxFee = maxBig(maxFee, n.floor)
	maxFee = maxBig(maxFee, priority)

	return GasQuote{MaxFeePerGas: maxFee, MaxPriorityFeePerGas: priority}, nil
}

// legacy uses a single gas price for both fields: the floor when the node's
// price is below it, otherwise the price plus 20%.
func (n *Negotiator) legacy(ctx context.Context) (GasQuote, error) {
	price, err := n.backend.SuggestGasPrice(ctx)
	if err != nil {
		return GasQuote{}, err
	}
	if price == nil {
		return GasQuote{}, errNoGasPrice
	}

	var fee *big.Int
	if price.Cmp(n.floor) < 0 {
		fee = new(big.Int).Set(n.floor)
	} else {
		fee = new(big.Int).Mul(price, big.NewInt(120))
		fee.Div(fee, big.NewInt(100))
	}
	return GasQuote{MaxFeePerGas: fee, MaxPriorityFeePerGas: new(big.Int).Set(fee)}, nil
}

// GasLimit simulates msg and returns the estimate plus 20%. ok is false
// when the node cannot simulate it; callers then omit the override.
func (n *Negotiator) GasLimit(ctx context.Context, msg ethereum.CallMsg) (limit uint64, ok bool) {
	est, err := n.backend.EstimateGas(ctx, msg)
	if err != nil {
		n.log.Warn("gas estimation failed", map[string]any{"error": err.Error()})
		return 0, false
	}
	return est * 120 / 100, true
}

func maxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
