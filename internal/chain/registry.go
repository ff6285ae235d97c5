package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a network is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Chain holds the metadata for a single network the console can target.
type Chain struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        int64    `json:"chain_id"`
	NativeCurrency string   `json:"native_currency"`
	RPCs           []string `json:"rpcs"`
	Explorer       string   `json:"explorer,omitempty"`
	Testnet        bool     `json:"testnet"`
	// ContractEnv names the environment variable that overrides the
	// contract address for this network.
	ContractEnv string `json:"contract_env,omitempty"`
}

// Registry is the network registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry returns the registry of Sapphire networks.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
	}
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a network by its slug name (e.g. "testnet").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a network by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// TxURL returns the explorer link for a transaction, or "" when the network
// has no explorer.
func (c *Chain) TxURL(hash string) string {
	if c.Explorer == "" {
		return ""
	}
	return strings.TrimSuffix(c.Explorer, "/") + "/tx/" + hash
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "localnet", DisplayName: "Sapphire Localnet", ChainID: 23293,
			NativeCurrency: "TEST",
			RPCs:           []string{"http://localhost:8545"},
			Testnet:        true,
			ContractEnv:    "URWA20_CONTRACT_ADDRESS",
		},
		{
			Name: "testnet", DisplayName: "Sapphire Testnet", ChainID: 23295,
			NativeCurrency: "TEST",
			RPCs:           []string{"https://testnet.sapphire.oasis.io"},
			Explorer:       "https://explorer.oasis.io/testnet/sapphire",
			Testnet:        true,
			ContractEnv:    "URWA20_TESTNET_CONTRACT_ADDRESS",
		},
		{
			Name: "mainnet", DisplayName: "Sapphire", ChainID: 23294,
			NativeCurrency: "ROSE",
			RPCs:           []string{"https://sapphire.oasis.io"},
			Explorer:       "https://explorer.oasis.io/mainnet/sapphire",
			ContractEnv:    "URWA20_MAINNET_CONTRACT_ADDRESS",
		},
	}
}
