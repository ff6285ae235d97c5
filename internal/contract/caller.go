package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// CallBackend executes eth_call.
type CallBackend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Caller calls read-only (view/pure) contract functions.
type Caller struct {
	backend CallBackend
	iface   *Interface
	address common.Address
	from    common.Address
}

// NewCaller creates a Caller for the contract at address.
func NewCaller(backend CallBackend, iface *Interface, address common.Address) *Caller {
	return &Caller{backend: backend, iface: iface, address: address}
}

// SetFrom sets the msg.sender used for calls.
func (c *Caller) SetFrom(from common.Address) { c.from = from }

// Call calls a read function with marshalled arguments and returns the
// decoded outputs.
func (c *Caller) Call(ctx context.Context, funcName string, args []CallArgument) ([]any, error) {
	fn, err := c.iface.Function(funcName)
	if err != nil {
		return nil, err
	}
	if !fn.IsRead() {
		return nil, fmt.Errorf("function %q is not a read function (stateMutability: %s)", funcName, fn.Mutability)
	}

	vals, err := ToABIValues(fn, args)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}
	return c.call(ctx, fn, vals)
}

// CallTyped calls funcName with arguments already in go-ethereum's Go types.
func (c *Caller) CallTyped(ctx context.Context, funcName string, vals ...any) ([]any, error) {
	fn, err := c.iface.Function(funcName)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, fn, vals)
}

func (c *Caller) call(ctx context.Context, fn *FunctionDescriptor, vals []any) ([]any, error) {
	data, err := packCall(fn, vals)
	if err != nil {
		return nil, err
	}

	to := c.address
	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{From: c.from, To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("contract call failed: %w", err)
	}

	if len(fn.method.Outputs) == 0 {
		return nil, nil
	}
	decoded, err := fn.method.Outputs.Unpack(out)
	if err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return decoded, nil
}

// packCall builds calldata: 4-byte selector + encoded args.
func packCall(fn *FunctionDescriptor, vals []any) ([]byte, error) {
	input, err := fn.method.Inputs.Pack(vals...)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}
	data := make([]byte, 0, len(fn.method.ID)+len(input))
	data = append(data, fn.method.ID...)
	return append(data, input...), nil
}
