package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func localnet(t *testing.T) *chain.Chain {
	t.Helper()
	c, err := chain.NewRegistry().GetByName("localnet")
	require.NoError(t, err)
	return c
}

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "localnet", cfg.SelectedNetwork)
	assert.Equal(t, "fastest", cfg.RPCAlgorithm)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NotEmpty(t, cfg.OriginURI)
	assert.Empty(t, cfg.DefaultWallet)
}

func TestLoadUsesEnvDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "from-env")
	t.Setenv(config.ConfigDirEnvVar, dir)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.SelectedNetwork = "testnet"
	cfg.DefaultWallet = "mywallet"
	cfg.RPCAlgorithm = "round-robin"
	require.NoError(t, cfg.SetContract("testnet", testContract))

	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "testnet", reloaded.SelectedNetwork)
	assert.Equal(t, "mywallet", reloaded.DefaultWallet)
	assert.Equal(t, "round-robin", reloaded.RPCAlgorithm)
	require.Contains(t, reloaded.Networks, "testnet")
	assert.Equal(t, testContract, reloaded.Networks["testnet"].ContractAddress)
}

func TestSaveRejectsUnknownAlgorithm(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	cfg.RPCAlgorithm = "random"
	assert.Error(t, cfg.Save())
}

func TestLoadRejectsMalformedContract(t *testing.T) {
	dir := t.TempDir()
	raw := `{"selected_network":"localnet","networks":{"localnet":{"contract_address":"0x1234"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestSetContractValidates(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	for _, bad := range []string{"", "0x", "5FbDB2315678afecb367f032d93F642f64180aa3", "0xZZbDB2315678afecb367f032d93F642f64180aa3"} {
		err := cfg.SetContract("localnet", bad)
		assert.ErrorIs(t, err, config.ErrInvalidContract, bad)
	}
	assert.Empty(t, cfg.GetRPCs("localnet"))
}

func TestResolveMissingContract(t *testing.T) {
	t.Setenv("URWA20_CONTRACT_ADDRESS", "")
	cfg, _ := config.Load(t.TempDir())

	_, err := cfg.Resolve(localnet(t))
	require.ErrorIs(t, err, config.ErrMissingContract)
	assert.Contains(t, err.Error(), "URWA20_CONTRACT_ADDRESS")
}

func TestResolveInvalidEnvContract(t *testing.T) {
	t.Setenv("URWA20_CONTRACT_ADDRESS", "not-an-address")
	cfg, _ := config.Load(t.TempDir())

	_, err := cfg.Resolve(localnet(t))
	assert.ErrorIs(t, err, config.ErrInvalidContract)
}

func TestResolveEnvOverridesFile(t *testing.T) {
	override := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	t.Setenv("URWA20_CONTRACT_ADDRESS", override)

	cfg, _ := config.Load(t.TempDir())
	require.NoError(t, cfg.SetContract("localnet", testContract))

	target, err := cfg.Resolve(localnet(t))
	require.NoError(t, err)
	assert.Equal(t, override, target.ContractAddress)
	assert.Equal(t, int64(23293), target.ChainID)
	assert.Equal(t, "localnet", target.Network)
}

func TestResolveCustomRPCsFirst(t *testing.T) {
	t.Setenv("URWA20_CONTRACT_ADDRESS", "")
	cfg, _ := config.Load(t.TempDir())
	require.NoError(t, cfg.SetContract("localnet", testContract))
	require.NoError(t, cfg.AddRPC("localnet", "http://127.0.0.1:9545"))
	require.NoError(t, cfg.AddRPC("localnet", "http://localhost:8545"))

	target, err := cfg.Resolve(localnet(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://127.0.0.1:9545", "http://localhost:8545"}, target.RPCURLs)
}

func TestAddCustomRPC(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("testnet", "https://custom.sapphire.rpc"))
	assert.Contains(t, cfg.GetRPCs("testnet"), "https://custom.sapphire.rpc")
}

func TestAddDuplicateRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	require.NoError(t, cfg.AddRPC("testnet", "https://custom.sapphire.rpc"))
	assert.Error(t, cfg.AddRPC("testnet", "https://custom.sapphire.rpc"))
}

func TestAddInvalidRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	assert.Error(t, cfg.AddRPC("testnet", "not a url"))
}

func TestRemoveCustomRPC(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	require.NoError(t, cfg.AddRPC("testnet", "https://rpc1.sapphire"))
	require.NoError(t, cfg.AddRPC("testnet", "https://rpc2.sapphire"))
	require.NoError(t, cfg.RemoveRPC("testnet", "https://rpc1.sapphire"))

	rpcs := cfg.GetRPCs("testnet")
	assert.NotContains(t, rpcs, "https://rpc1.sapphire")
	assert.Contains(t, rpcs, "https://rpc2.sapphire")
}

func TestRemoveNonExistentRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	assert.Error(t, cfg.RemoveRPC("testnet", "https://nonexistent.rpc"))
}

func TestConfigFileCreatedOnSave(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(dir, "config.json"))
	assert.NoError(t, err, "config.json should be created on save")
}

func TestConfigPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, filepath.Join(dir, "wallets.json"), cfg.WalletsPath())
}

func TestLoadFromNonExistentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir")
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "localnet", cfg.SelectedNetwork)
}

func TestValidateContract(t *testing.T) {
	assert.NoError(t, config.ValidateContract(testContract))
	assert.ErrorIs(t, config.ValidateContract("0x1234"), config.ErrInvalidContract)
	assert.ErrorIs(t, config.ValidateContract(""), config.ErrInvalidContract)
}
