package config

// Config holds all urwacli configuration.
type Config struct {
	SelectedNetwork string              `json:"selected_network" validate:"required"`
	DefaultWallet   string              `json:"default_wallet"`
	RPCAlgorithm    string              `json:"rpc_algorithm"    validate:"omitempty,oneof=fastest round-robin failover"`
	OriginURI       string              `json:"origin_uri"       validate:"omitempty,url"`
	LogLevel        string              `json:"log_level"        validate:"omitempty,oneof=debug info warn warning error"`
	Networks        map[string]*Network `json:"networks"         validate:"dive"`

	// internal: config dir path used for Save()
	configDir string
}

// Network is the per-network section of config.json.
type Network struct {
	ContractAddress string   `json:"contract_address,omitempty" validate:"omitempty,eth_addr"`
	RPCURLs         []string `json:"rpc_urls,omitempty"         validate:"dive,url"`
}

// Target is a fully resolved network: the contract to talk to and the RPC
// endpoints to reach it through, custom endpoints first.
type Target struct {
	Network         string
	ChainID         int64
	ContractAddress string
	RPCURLs         []string
}
