package console

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AuditorPermission is an auditor's grant as stored by the contract.
type AuditorPermission struct {
	Expiry     time.Time
	FullAccess bool
}

// MaxExpiry stands in for expiries too large to represent, such as a
// max-uint256 grant that never expires.
var MaxExpiry = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Active reports whether the grant has not expired at now.
func (p AuditorPermission) Active(now time.Time) bool {
	return !p.Expiry.IsZero() && now.Before(p.Expiry)
}

// GrantAuditor grants auditor access for duration. allowed is ignored when
// fullAccess is set.
func (c *Console) GrantAuditor(ctx context.Context, auditor string, duration time.Duration, fullAccess bool, allowed []string) (*WriteResult, error) {
	addr, err := parseAddress("auditor", auditor)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", duration)
	}

	targets := []common.Address{}
	if !fullAccess {
		for _, a := range allowed {
			t, err := parseAddress("allowed address", a)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}
	}

	seconds := big.NewInt(int64(duration / time.Second))
	return c.sendTyped(ctx, "grantAuditorPermission", addr, seconds, fullAccess, targets)
}

// RevokeAuditor removes auditor's grant.
func (c *Console) RevokeAuditor(ctx context.Context, auditor string) (*WriteResult, error) {
	addr, err := parseAddress("auditor", auditor)
	if err != nil {
		return nil, err
	}
	return c.sendTyped(ctx, "revokeAuditorPermission", addr)
}

// CheckAuditor reports whether auditor may decrypt transactions of target.
func (c *Console) CheckAuditor(ctx context.Context, auditor, target string) (bool, error) {
	a, err := parseAddress("auditor", auditor)
	if err != nil {
		return false, err
	}
	t, err := parseAddress("target", target)
	if err != nil {
		return false, err
	}

	out, err := c.caller.CallTyped(ctx, "checkAuditorPermission", a, t)
	if err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, fmt.Errorf("checkAuditorPermission returned %d values, want 1", len(out))
	}
	ok, isBool := out[0].(bool)
	if !isBool {
		return false, fmt.Errorf("checkAuditorPermission returned %T, want bool", out[0])
	}
	return ok, nil
}

// AuditorPermissions reads auditor's grant.
func (c *Console) AuditorPermissions(ctx context.Context, auditor string) (*AuditorPermission, error) {
	addr, err := parseAddress("auditor", auditor)
	if err != nil {
		return nil, err
	}

	out, err := c.caller.CallTyped(ctx, "auditorPermissions", addr)
	if err != nil {
		return nil, err
	}
	if len(out) != 2 {
		return nil, fmt.Errorf("auditorPermissions returned %d values, want 2", len(out))
	}
	expiry, ok1 := out[0].(*big.Int)
	full, ok2 := out[1].(bool)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("auditorPermissions returned unexpected types %T, %T", out[0], out[1])
	}

	p := &AuditorPermission{FullAccess: full}
	switch {
	case expiry.Sign() <= 0:
	case expiry.Cmp(big.NewInt(MaxExpiry.Unix())) > 0:
		p.Expiry = MaxExpiry
	default:
		p.Expiry = time.Unix(expiry.Int64(), 0).UTC()
	}
	return p, nil
}
