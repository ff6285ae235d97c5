package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxBackend submits transactions.
type TxBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// FeeQuoter supplies fees and gas limits for a pending write.
type FeeQuoter interface {
	Quote(ctx context.Context) chain.GasQuote
	GasLimit(ctx context.Context, msg ethereum.CallMsg) (uint64, bool)
}

// TxSigner signs transactions on behalf of an account.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Sender sends write transactions to a contract.
type Sender struct {
	backend    TxBackend
	fees       FeeQuoter
	signer     TxSigner
	iface      *Interface
	address    common.Address
	chainID    *big.Int
	defaultGas uint64
	log        logger.Logger
}

// NewSender creates a Sender. defaultGas is used when the gas limit cannot
// be estimated.
func NewSender(backend TxBackend, fees FeeQuoter, signer TxSigner, iface *Interface, address common.Address, chainID *big.Int, defaultGas uint64, log logger.Logger) *Sender {
	return &Sender{
		backend:    backend,
		fees:       fees,
		signer:     signer,
		iface:      iface,
		address:    address,
		chainID:    chainID,
		defaultGas: defaultGas,
		log:        logger.OrNoop(log),
	}
}

// Send calls a write function with marshalled arguments and broadcasts the
// signed transaction. value is only attached to payable functions.
func (s *Sender) Send(ctx context.Context, funcName string, args []CallArgument, value *big.Int) (*types.Transaction, error) {
	fn, err := s.iface.Function(funcName)
	if err != nil {
		return nil, err
	}
	if !fn.IsWrite() {
		return nil, fmt.Errorf("function %q is not a write function", funcName)
	}

	vals, err := ToABIValues(fn, args)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}
	return s.send(ctx, fn, vals, value)
}

// SendTyped sends funcName with arguments already in go-ethereum's Go types.
func (s *Sender) SendTyped(ctx context.Context, funcName string, vals ...any) (*types.Transaction, error) {
	fn, err := s.iface.Function(funcName)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, fn, vals, nil)
}

func (s *Sender) send(ctx context.Context, fn *FunctionDescriptor, vals []any, value *big.Int) (*types.Transaction, error) {
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() > 0 && !fn.IsPayable() {
		return nil, fmt.Errorf("function %q is not payable", fn.Name)
	}

	data, err := packCall(fn, vals)
	if err != nil {
		return nil, err
	}

	from := s.signer.Address()
	to := s.address
	quote := s.fees.Quote(ctx)

	gas, ok := s.fees.GasLimit(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
	if !ok {
		gas = s.defaultGas
	}

	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: quote.MaxPriorityFeePerGas,
		GasFeeCap: quote.MaxFeePerGas,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	signed, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}

	s.log.Info("transaction sent", map[string]any{
		"function": fn.Name,
		"hash":     signed.Hash().Hex(),
		"nonce":    nonce,
		"gas":      gas,
	})
	return signed, nil
}
