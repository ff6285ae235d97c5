package console

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrNoDecryptedData means the read-back never produced a record.
var ErrNoDecryptedData = errors.New("decrypted data not available")

// Retry bounds the read-back after a decryption write confirms.
type Retry struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultRetry waits 0.5s, 1s, 2s, 4s, 4s between attempts.
var DefaultRetry = Retry{Attempts: 6, Initial: 500 * time.Millisecond, Max: 4 * time.Second}

// DecryptedPayload is the contract's record of the last decryption.
type DecryptedPayload struct {
	From   common.Address
	To     common.Address
	Amount *big.Int
	Action string
}

// Empty reports whether the record holds nothing.
func (p DecryptedPayload) Empty() bool {
	return p.From == (common.Address{}) && p.To == (common.Address{}) &&
		(p.Amount == nil || p.Amount.Sign() == 0) && p.Action == ""
}

// Decrypt submits payload to processDecryption and, once the transaction
// is confirmed, reads the result back with viewLastDecryptedData.
func (c *Console) Decrypt(ctx context.Context, payload string) (*DecryptedPayload, *WriteResult, error) {
	fn, err := c.iface.Function("processDecryption")
	if err != nil {
		return nil, nil, err
	}
	args, err := contract.Marshal(fn, []string{payload}, "")
	if err != nil {
		return nil, nil, err
	}
	if c.sender == nil {
		return nil, nil, ErrReadOnly
	}

	start := time.Now()
	tx, err := c.sender.Send(ctx, fn.CanonicalSignature(), args, nil)
	if err != nil {
		return nil, nil, err
	}
	res, err := c.confirm(ctx, fn.Name, tx, start)
	if err != nil {
		return nil, res, err
	}

	data, err := c.readBack(ctx)
	if err != nil {
		return nil, res, err
	}
	return data, res, nil
}

// LastDecrypted reads viewLastDecryptedData once.
func (c *Console) LastDecrypted(ctx context.Context) (*DecryptedPayload, error) {
	token := c.token()
	if token == "" {
		token = "0x"
	}
	raw, err := hexutil.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("auth token: %w", err)
	}

	out, err := c.caller.CallTyped(ctx, "viewLastDecryptedData", raw)
	if err != nil {
		return nil, err
	}
	if len(out) != 4 {
		return nil, fmt.Errorf("viewLastDecryptedData returned %d values, want 4", len(out))
	}

	var p DecryptedPayload
	var ok [4]bool
	p.From, ok[0] = out[0].(common.Address)
	p.To, ok[1] = out[1].(common.Address)
	p.Amount, ok[2] = out[2].(*big.Int)
	p.Action, ok[3] = out[3].(string)
	for _, b := range ok {
		if !b {
			return nil, fmt.Errorf("viewLastDecryptedData returned unexpected types %T, %T, %T, %T", out[0], out[1], out[2], out[3])
		}
	}
	return &p, nil
}

// readBack polls LastDecrypted until it yields a record or the retry
// budget runs out.
func (c *Console) readBack(ctx context.Context) (*DecryptedPayload, error) {
	attempts := max(c.retry.Attempts, 1)
	delay := c.retry.Initial

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, fmt.Errorf("waiting for decrypted data: %w", ctx.Err())
			case <-timer.C:
			}
			delay = min(delay*2, c.retry.Max)
		}

		p, err := c.LastDecrypted(ctx)
		switch {
		case err != nil:
			lastErr = err
		case p.Empty():
			lastErr = ErrNoDecryptedData
		default:
			c.metrics.IncCounter("decrypt", c.labels())
			return p, nil
		}
		c.log.Debug("decrypted data not ready", map[string]any{"attempt": i + 1, "error": lastErr.Error()})
	}
	if errors.Is(lastErr, ErrNoDecryptedData) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %v", ErrNoDecryptedData, lastErr)
}

// ClearDecrypted calls clearLastDecryptedData.
func (c *Console) ClearDecrypted(ctx context.Context) (*WriteResult, error) {
	return c.sendTyped(ctx, "clearLastDecryptedData")
}
