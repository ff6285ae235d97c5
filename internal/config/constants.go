package config

import "time"

// GasLimitContractCall is the EstimateGas fallback when the node cannot
// simulate a contract write.
const GasLimitContractCall = uint64(200_000)

// Timeout constants used across cmd.
const (
	RPCSelectTimeout = 10 * time.Second // benchmark / RPC selection
	TxConfirmTimeout = 3 * time.Minute  // transaction confirmation wait
	LoginTimeout     = time.Minute      // SIWE handshake, including the signing prompt
)

// Environment variables read by Load and Resolve.
const (
	ConfigDirEnvVar = "URWACLI_CONFIG_DIR"
)
