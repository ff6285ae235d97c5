package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultPollInterval is how often WaitForReceipt polls for a receipt.
const DefaultPollInterval = 2 * time.Second

// ErrTxReverted is returned by WaitForReceipt when the mined transaction failed.
var ErrTxReverted = errors.New("transaction reverted")

// EVMClient is a JSON-RPC client for a single endpoint. It embeds
// ethclient.Client so it satisfies every backend interface the contract,
// fee and event packages declare.
type EVMClient struct {
	*ethclient.Client
	url string
}

// NewEVMClient creates a client for url. HTTP endpoints are not contacted
// until the first request.
func NewEVMClient(url string) (*EVMClient, error) {
	c, err := ethclient.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &EVMClient{Client: c, url: url}, nil
}

// URL returns the endpoint this client talks to.
func (c *EVMClient) URL() string { return c.url }

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

// CheckChainID returns an error when the endpoint serves a different chain.
func (c *EVMClient) CheckChainID(ctx context.Context, want int64) error {
	id, err := c.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("querying chain id: %w", err)
	}
	if id.Cmp(big.NewInt(want)) != 0 {
		return fmt.Errorf("endpoint %s serves chain %s, expected %d", c.url, id, want)
	}
	return nil
}

// ReceiptBackend fetches transaction receipts.
type ReceiptBackend interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// WaitForReceipt polls backend every interval until the transaction is mined
// or ctx is done. A mined transaction with a failed status returns the
// receipt together with ErrTxReverted.
func WaitForReceipt(ctx context.Context, backend ReceiptBackend, hash common.Hash, interval time.Duration) (*types.Receipt, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("%w (hash: %s)", ErrTxReverted, hash.Hex())
			}
			return receipt, nil
		case err != nil && !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("fetching receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("transaction %s not mined: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// WeiToGwei converts a Wei value to Gwei as float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetFloat64(1e9),
	).Float64()
	return f
}
