package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
)

// BenchmarkResult holds the result of a single endpoint benchmark.
type BenchmarkResult struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Benchmark pings every URL in parallel. When chainID is non-zero an
// endpoint serving a different chain counts as failed.
func Benchmark(ctx context.Context, urls []string, chainID int64) []BenchmarkResult {
	results := make([]BenchmarkResult, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			results[idx] = probe(ctx, u, chainID)
		}(i, url)
	}

	wg.Wait()
	return results
}

func probe(ctx context.Context, url string, chainID int64) BenchmarkResult {
	res := BenchmarkResult{URL: url}
	c, err := chain.NewEVMClient(url)
	if err != nil {
		res.Err = err
		return res
	}
	defer c.Close()

	res.Latency, res.BlockNumber, res.Err = c.Ping(ctx)
	if res.Err == nil && chainID != 0 {
		res.Err = c.CheckChainID(ctx, chainID)
	}
	return res
}

// ResultsToEndpoints converts benchmark results to picker Endpoints.
// Every returned endpoint is Checked.
func ResultsToEndpoints(results []BenchmarkResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:         r.URL,
			Latency:     r.Latency,
			BlockNumber: r.BlockNumber,
			Healthy:     r.Err == nil,
			Checked:     true,
		})
	}
	return endpoints
}

// Best benchmarks urls and returns the winner under algo. A single URL is
// returned without probing.
func Best(ctx context.Context, urls []string, algo Algorithm, chainID int64) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	endpoints := ResultsToEndpoints(Benchmark(ctx, urls, chainID))
	winner, err := NewPicker(algo).Pick(endpoints)
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
