package market

import (
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

// Config is read at the start of every operation.
type Config struct {
	// MarketAddress is the spender the ledger allowances are granted to.
	MarketAddress domain.Address `mapstructure:"marketAddress" json:"marketAddress"`
	Admin         domain.Address `mapstructure:"admin" json:"admin"`

	// ServiceFeeRate is in basis points, 1000 is 10%.
	ServiceFeeRate     int64          `mapstructure:"serviceFeeRate" json:"serviceFeeRate"`
	ServiceFeeReceiver domain.Address `mapstructure:"serviceFeeReceiver" json:"serviceFeeReceiver"`

	// zero disables the cap
	MaxListCount  int `mapstructure:"maxListCount" json:"maxListCount"`
	MaxOfferCount int `mapstructure:"maxOfferCount" json:"maxOfferCount"`

	// DefaultDurationHours applies when a listing gives no duration, zero lists without expiry.
	DefaultDurationHours int64 `mapstructure:"defaultDurationHours" json:"defaultDurationHours"`

	GlobalTokenWhitelist []string `mapstructure:"globalTokenWhitelist" json:"globalTokenWhitelist"`
	// CollectionTokenWhitelist overrides the global list per collection symbol.
	CollectionTokenWhitelist map[string][]string `mapstructure:"collectionTokenWhitelist" json:"collectionTokenWhitelist"`
}

// IsTokenAccepted reports whether priceSymbol may price items of the collection.
func (c *Config) IsTokenAccepted(collectionSymbol, priceSymbol string) bool {
	list, ok := c.CollectionTokenWhitelist[collectionSymbol]
	if !ok {
		list = c.GlobalTokenWhitelist
	}
	for _, s := range list {
		if s == priceSymbol {
			return true
		}
	}
	return false
}

func (c *Config) IsAdmin(address domain.Address) bool {
	return !c.Admin.IsEmpty() && c.Admin.Equals(address)
}

type ConfigProvider interface {
	GetConfig(ctx ctx.Ctx) (*Config, error)
}
