package collection

import (
	"github.com/inkmarket/goapi/domain"
)

// Config is the static, non-authoritative description of a known collection.
// It is sourced from configuration, not from the chain, and is immutable for
// the process lifetime.
type Config struct {
	Address       domain.Address   `json:"address" mapstructure:"address"`
	ChainId       domain.ChainId   `json:"chainId" mapstructure:"chainId"`
	TokenType     domain.TokenType `json:"tokenType" mapstructure:"tokenType"`
	Title         string           `json:"title" mapstructure:"title"`
	Description   string           `json:"description" mapstructure:"description"`
	ThumbnailUrl  string           `json:"thumbnailUrl" mapstructure:"thumbnailUrl"`
	BackgroundUrl string           `json:"backgroundUrl" mapstructure:"backgroundUrl"`
	Mintable      bool             `json:"mintable" mapstructure:"mintable"`
	Available     bool             `json:"available" mapstructure:"available"`
	MintPrice     string           `json:"mintPrice" mapstructure:"mintPrice"`
	FeeCreator    string           `json:"feeCreator" mapstructure:"feeCreator"`
	FeeMarketplace string          `json:"feeMarketplace" mapstructure:"feeMarketplace"`
	// Registry marks the collection whose ownership is resolved through the
	// name-registry HTTP API instead of on-chain enumeration.
	Registry bool `json:"registry" mapstructure:"registry"`
	// RegistryTld completes the bare names the registry api returns,
	// ".ink" when unset.
	RegistryTld string `json:"registryTld" mapstructure:"registryTld"`
}

type Registry interface {
	All() []Config
	Get(domain.Address) (*Config, bool)
}
