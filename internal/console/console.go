// Package console wires the interface, marshaller, fee negotiator, auth
// session and event decoder into read, write and decrypt flows.
package console

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/Mohsinsiddi/urwacli/internal/logger"
	"github.com/Mohsinsiddi/urwacli/internal/metrics"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrInvalidAddress = contract.ErrInvalidAddress
	ErrReadOnly       = errors.New("no signing wallet configured")
)

// TokenSource supplies the current auth token, or "" when not signed in.
type TokenSource interface {
	Token() string
}

// Output is one formatted return value.
type Output struct {
	Name  string
	Type  string
	Value any
	Text  string
}

// WriteResult is a broadcast transaction and its receipt.
type WriteResult struct {
	Tx      *types.Transaction
	Receipt *types.Receipt
}

// Console runs contract operations for one network.
type Console struct {
	iface    *contract.Interface
	caller   *contract.Caller
	sender   *contract.Sender
	receipts chain.ReceiptBackend
	tokens   TokenSource
	network  string

	pollInterval time.Duration
	retry        Retry

	log     logger.Logger
	metrics metrics.Recorder
}

// Option configures a Console.
type Option func(*Console)

// WithSender enables writes. receipts is polled for confirmations.
func WithSender(s *contract.Sender, receipts chain.ReceiptBackend) Option {
	return func(c *Console) {
		c.sender = s
		c.receipts = receipts
	}
}

// WithTokenSource sets where auth tokens come from.
func WithTokenSource(t TokenSource) Option { return func(c *Console) { c.tokens = t } }

// WithNetwork labels logs and metrics.
func WithNetwork(name string) Option { return func(c *Console) { c.network = name } }

// WithPollInterval sets the receipt polling interval.
func WithPollInterval(d time.Duration) Option { return func(c *Console) { c.pollInterval = d } }

// WithRetry sets the decrypted-data read-back policy.
func WithRetry(r Retry) Option { return func(c *Console) { c.retry = r } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(c *Console) { c.log = logger.OrNoop(l) } }

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Console) { c.metrics = metrics.OrNoop(r) }
}

// New creates a Console for iface, reading through caller.
func New(iface *contract.Interface, caller *contract.Caller, opts ...Option) *Console {
	c := &Console{
		iface:        iface,
		caller:       caller,
		pollInterval: chain.DefaultPollInterval,
		retry:        DefaultRetry,
		log:          logger.NoopLogger{},
		metrics:      metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interface returns the contract interface.
func (c *Console) Interface() *contract.Interface { return c.iface }

func (c *Console) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// Read calls a view or pure function. The auth token, when held, fills a
// trailing token parameter.
func (c *Console) Read(ctx context.Context, fnName string, values []string) ([]Output, error) {
	fn, err := c.iface.Function(fnName)
	if err != nil {
		return nil, err
	}
	args, err := contract.Marshal(fn, values, c.token())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := c.caller.Call(ctx, fn.CanonicalSignature(), args)
	c.observe("read", start)
	if err != nil {
		return nil, err
	}

	out := make([]Output, len(res))
	for i, v := range res {
		o := Output{Value: v, Text: contract.FormatOutput(v)}
		if i < len(fn.Outputs) {
			o.Name = fn.Outputs[i].Name
			o.Type = fn.Outputs[i].Type
		}
		out[i] = o
	}
	return out, nil
}

// Write sends a state-changing function and waits for its receipt. value
// is attached only to payable functions.
func (c *Console) Write(ctx context.Context, fnName string, values []string, value *big.Int) (*WriteResult, error) {
	fn, err := c.iface.Function(fnName)
	if err != nil {
		return nil, err
	}
	args, err := contract.Marshal(fn, values, c.token())
	if err != nil {
		return nil, err
	}
	if c.sender == nil {
		return nil, ErrReadOnly
	}

	start := time.Now()
	tx, err := c.sender.Send(ctx, fn.CanonicalSignature(), args, value)
	if err != nil {
		return nil, err
	}
	return c.confirm(ctx, fn.Name, tx, start)
}

// sendTyped sends a write whose arguments are already typed.
func (c *Console) sendTyped(ctx context.Context, fnName string, vals ...any) (*WriteResult, error) {
	if c.sender == nil {
		return nil, ErrReadOnly
	}
	start := time.Now()
	tx, err := c.sender.SendTyped(ctx, fnName, vals...)
	if err != nil {
		return nil, err
	}
	return c.confirm(ctx, fnName, tx, start)
}

func (c *Console) confirm(ctx context.Context, fnName string, tx *types.Transaction, start time.Time) (*WriteResult, error) {
	res := &WriteResult{Tx: tx}
	receipt, err := chain.WaitForReceipt(ctx, c.receipts, tx.Hash(), c.pollInterval)
	res.Receipt = receipt
	c.observe("write", start)
	if err != nil {
		c.metrics.IncCounter("write_failed", c.labels())
		return res, fmt.Errorf("%s: %w", fnName, err)
	}
	c.metrics.IncCounter("write_confirmed", c.labels())
	c.log.Info("transaction confirmed", map[string]any{
		"function": fnName,
		"hash":     tx.Hash().Hex(),
		"block":    receipt.BlockNumber.Uint64(),
		"gas_used": receipt.GasUsed,
	})
	return res, nil
}

func (c *Console) labels() map[string]string {
	return map[string]string{"network": c.network}
}

func (c *Console) observe(op string, start time.Time) {
	c.metrics.ObserveLatency(op, time.Since(start), c.labels())
}

// parseAddress validates s before any RPC.
func parseAddress(field, s string) (common.Address, error) {
	norm := contract.NormalizeAddress(s)
	if !common.IsHexAddress(norm) || len(norm) != 42 {
		return common.Address{}, fmt.Errorf("%s: %w: %q", field, ErrInvalidAddress, s)
	}
	return common.HexToAddress(norm), nil
}
