package auth

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/urwacli/internal/contract"
)

// typedCaller is the subset of *contract.Caller the handshake needs.
type typedCaller interface {
	CallTyped(ctx context.Context, funcName string, vals ...any) ([]any, error)
}

// ContractClient implements ContractAuthenticator with the contract's
// domain() and login(string, (bytes32,bytes32,uint256)) functions.
type ContractClient struct {
	caller typedCaller
}

var _ ContractAuthenticator = (*ContractClient)(nil)

// NewContractClient wraps a contract caller.
func NewContractClient(caller *contract.Caller) *ContractClient {
	return &ContractClient{caller: caller}
}

// Domain reads domain().
func (c *ContractClient) Domain(ctx context.Context) (string, error) {
	out, err := c.caller.CallTyped(ctx, "domain")
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", nil
	}
	domain, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("domain() returned %T, want string", out[0])
	}
	return domain, nil
}

// Login submits the signed challenge and returns the raw token bytes.
func (c *ContractClient) Login(ctx context.Context, msg string, sig SignatureRSV) ([]byte, error) {
	out, err := c.caller.CallTyped(ctx, "login", msg, sig)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	token, ok := out[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("login() returned %T, want bytes", out[0])
	}
	return token, nil
}
