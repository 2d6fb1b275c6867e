// Package autem wires the trust ledger, its index and its API together.
package autem

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	"github.com/zircuit-labs/autem/core"
	"github.com/zircuit-labs/autem/core/autem/duration"
	"github.com/zircuit-labs/autem/core/autem/storage"
	"github.com/zircuit-labs/autem/core/vm"
	"github.com/zircuit-labs/autem/params"
)

// EnvPrefix prefixes the environment variables overriding the config file.
// AUTEM_HTTP_PORT sets http.port.
const EnvPrefix = "AUTEM_"

var ErrInvalidBalance = errors.New("invalid faucet balance")

type (
	// Config struct defines configuration parameters of an Autem node.
	Config struct {
		Chain     ChainConfig     `koanf:"chain"`
		HTTP      HTTPConfig      `koanf:"http"`
		Storage   storage.Config  `koanf:"storage"`
		Discovery DiscoveryConfig `koanf:"discovery"`
		RateLimit RateLimitConfig `koanf:"ratelimit"`
	}

	ChainConfig struct {
		ID                uint64           `koanf:"id"`
		Factory           common.Address   `koanf:"factory"`
		Faucets           []common.Address `koanf:"faucets"`
		FaucetBalance     string           `koanf:"faucetbalance"` // wei, decimal
		CallsPerTx        uint64           `koanf:"callspertx"`
		CallsPerTxPerAddr uint64           `koanf:"callspertxperaddr"`
	}

	HTTPConfig struct {
		Host         string            `koanf:"host"`
		Port         int               `koanf:"port"`
		ReadTimeout  duration.Duration `koanf:"readtimeout"`
		WriteTimeout duration.Duration `koanf:"writetimeout"`
		CORS         []string          `koanf:"cors"`      // allowed origins, empty disables CORS
		JWTSecret    string            `koanf:"jwtsecret"` // hex, empty serves RPC without auth
	}

	DiscoveryConfig struct {
		Concurrency int               `koanf:"concurrency"` // Max concurrency for pond pool
		Timeout     duration.Duration `koanf:"timeout"`
	}

	RateLimitConfig struct {
		LimitPerSec float64 `koanf:"limitpersec"`
		Burst       int     `koanf:"burst"`
	}
)

// DefaultConfig is the configuration of a local devnet.
var DefaultConfig = Config{
	Chain: ChainConfig{
		ID:                params.DefaultChainID,
		Factory:           params.DefaultFactoryAddress,
		FaucetBalance:     "100000000000000000000",
		CallsPerTx:        1024,
		CallsPerTxPerAddr: 256,
	},
	HTTP: HTTPConfig{
		Host:         "127.0.0.1",
		Port:         8545,
		ReadTimeout:  duration.Duration(30 * time.Second),
		WriteTimeout: duration.Duration(30 * time.Second),
		CORS:         []string{"*"},
	},
	Discovery: DiscoveryConfig{
		Concurrency: 8,
		Timeout:     duration.Duration(10 * time.Second),
	},
	RateLimit: RateLimitConfig{
		LimitPerSec: 20,
		Burst:       40,
	},
}

// LoadConfig layers DefaultConfig, the file at path (if any) and the AUTEM_
// environment. Files ending in .yaml or .yml are read as YAML, anything else
// as TOML.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Addr returns the listen address of the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Genesis returns the genesis the chain section describes.
func (c ChainConfig) Genesis() (*core.Genesis, error) {
	balance, err := uint256.FromDecimal(c.FaucetBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBalance, c.FaucetBalance)
	}
	genesis := core.DeveloperGenesisBlock(c.Faucets, balance)
	if c.ID != 0 {
		genesis.ChainID = c.ID
	}
	if c.Factory != (common.Address{}) {
		genesis.FactoryAddress = c.Factory
	}
	genesis.Limits = vm.LimitConfig{CallsPerTx: c.CallsPerTx, CallsPerTxPerAddr: c.CallsPerTxPerAddr}
	return genesis, nil
}
