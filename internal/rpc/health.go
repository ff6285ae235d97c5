package rpc

import (
	"context"
	"time"
)

const healthTimeout = 5 * time.Second

// HealthCheck probes one endpoint before it is saved. It is healthy when it
// answers within healthTimeout, serves chainID (0 skips the check) and is no
// more than staleBlockThreshold blocks behind bestBlock (0 skips that too).
func HealthCheck(ctx context.Context, url string, chainID int64, bestBlock uint64) (Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	res := probe(ctx, url, chainID)
	ep := ResultsToEndpoints([]BenchmarkResult{res})[0]
	if ep.Healthy && behind(&ep, bestBlock) > staleBlockThreshold {
		ep.Healthy = false
	}
	return ep, res.Err
}
