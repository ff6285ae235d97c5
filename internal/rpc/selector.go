package rpc

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/logger"
)

// Connect picks an endpoint from urls with the named algorithm, dials it and
// verifies it serves chainID.
func Connect(ctx context.Context, urls []string, algorithm string, chainID int64, log logger.Logger) (*chain.EVMClient, error) {
	log = logger.OrNoop(log)

	algo, err := ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	url, err := Best(ctx, urls, algo, chainID)
	if err != nil {
		return nil, err
	}

	c, err := chain.NewEVMClient(url)
	if err != nil {
		return nil, err
	}
	if err := c.CheckChainID(ctx, chainID); err != nil {
		c.Close()
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}

	log.Debug("rpc selected", map[string]any{"url": url, "algorithm": string(algo), "candidates": len(urls)})
	return c, nil
}
