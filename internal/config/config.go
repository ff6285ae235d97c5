package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/go-playground/validator/v10"
)

const (
	defaultNetwork   = "localnet"
	defaultAlgorithm = "fastest"
	defaultOrigin    = "http://localhost:5173"
	defaultLogLevel  = "warn"

	configFile  = "config.json"
	walletsFile = "wallets.json"
)

var (
	// ErrMissingContract is returned when the selected network has no
	// contract address configured.
	ErrMissingContract = errors.New("no contract address configured")
	// ErrInvalidContract is returned when the configured contract address is
	// not 0x followed by 40 hex characters.
	ErrInvalidContract = errors.New("invalid contract address")
)

var validate = validator.New()

// Load reads config from dir (or creates defaults). An empty dir falls back
// to $URWACLI_CONFIG_DIR, then ~/.urwacli.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = os.Getenv(ConfigDirEnvVar)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".urwacli")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]*Network)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config's field formats. A missing contract address is
// not an error here; Resolve reports it for the network actually in use.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the path of wallets.json.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// ValidateContract checks that address is 0x followed by 40 hex characters.
func ValidateContract(address string) error {
	if err := validate.Var(address, "required,eth_addr"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidContract, address)
	}
	return nil
}

// SetContract records the contract address for a network.
func (c *Config) SetContract(network, address string) error {
	if err := ValidateContract(address); err != nil {
		return err
	}
	c.network(network).ContractAddress = address
	return nil
}

// AddRPC adds a custom RPC URL for a network.
func (c *Config) AddRPC(network, url string) error {
	if err := validate.Var(url, "required,url"); err != nil {
		return fmt.Errorf("invalid RPC URL %q", url)
	}
	n := c.network(network)
	if slices.Contains(n.RPCURLs, url) {
		return fmt.Errorf("RPC %s already exists for network %s", url, network)
	}
	n.RPCURLs = append(n.RPCURLs, url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a network.
func (c *Config) RemoveRPC(network, url string) error {
	n, ok := c.Networks[network]
	if !ok {
		return fmt.Errorf("RPC %s not found for network %s", url, network)
	}
	idx := slices.Index(n.RPCURLs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for network %s", url, network)
	}
	n.RPCURLs = slices.Delete(n.RPCURLs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a network.
func (c *Config) GetRPCs(network string) []string {
	if n, ok := c.Networks[network]; ok {
		return n.RPCURLs
	}
	return nil
}

// ContractAddress returns the contract address for a chain. The chain's
// environment variable wins over the file.
func (c *Config) ContractAddress(ch *chain.Chain) string {
	if ch.ContractEnv != "" {
		if v := os.Getenv(ch.ContractEnv); v != "" {
			return v
		}
	}
	if n, ok := c.Networks[ch.Name]; ok {
		return n.ContractAddress
	}
	return ""
}

// Resolve builds the Target for a chain. It fails when the chain has no
// usable contract address.
func (c *Config) Resolve(ch *chain.Chain) (*Target, error) {
	addr := c.ContractAddress(ch)
	if addr == "" {
		hint := "config set-contract"
		if ch.ContractEnv != "" {
			hint += " or $" + ch.ContractEnv
		}
		return nil, fmt.Errorf("%w for network %s (set it with %s)", ErrMissingContract, ch.Name, hint)
	}
	if err := validate.Var(addr, "eth_addr"); err != nil {
		return nil, fmt.Errorf("%w for network %s: %q", ErrInvalidContract, ch.Name, addr)
	}

	rpcs := slices.Clone(c.GetRPCs(ch.Name))
	for _, u := range ch.RPCs {
		if !slices.Contains(rpcs, u) {
			rpcs = append(rpcs, u)
		}
	}

	return &Target{
		Network:         ch.Name,
		ChainID:         ch.ChainID,
		ContractAddress: addr,
		RPCURLs:         rpcs,
	}, nil
}

// --- helpers ---

func (c *Config) network(name string) *Network {
	if c.Networks == nil {
		c.Networks = make(map[string]*Network)
	}
	n, ok := c.Networks[name]
	if !ok {
		n = &Network{}
		c.Networks[name] = n
	}
	return n
}

func defaults(dir string) *Config {
	return &Config{
		SelectedNetwork: defaultNetwork,
		RPCAlgorithm:    defaultAlgorithm,
		OriginURI:       defaultOrigin,
		LogLevel:        defaultLogLevel,
		Networks:        make(map[string]*Network),
		configDir:       dir,
	}
}
