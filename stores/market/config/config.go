package config

import (
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/market"
)

const maxServiceFeeRate = 10000

type viperProvider struct {
	v   *viper.Viper
	key string
}

// NewViper reads the market config under key on every call, so a watched config file
// applies without a restart.
func NewViper(v *viper.Viper, key string) market.ConfigProvider {
	return &viperProvider{v: v, key: key}
}

func (p *viperProvider) GetConfig(c ctx.Ctx) (*market.Config, error) {
	sub := p.v.Sub(p.key)
	if sub == nil {
		return nil, xerrors.Errorf("config section %s not found", p.key)
	}

	cfg := &market.Config{}
	if err := sub.Unmarshal(cfg); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"key": p.key,
		}).Error("failed to viper.Unmarshal")
		return nil, err
	}

	if err := normalize(cfg); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"key": p.key,
		}).Error("invalid market config")
		return nil, err
	}
	return cfg, nil
}

// normalize lower-cases addresses and restores the symbol case viper drops from map keys.
func normalize(cfg *market.Config) error {
	if cfg.ServiceFeeRate < 0 || cfg.ServiceFeeRate > maxServiceFeeRate {
		return xerrors.Errorf("serviceFeeRate %d out of [0, %d]", cfg.ServiceFeeRate, maxServiceFeeRate)
	}
	if cfg.MarketAddress.IsEmpty() {
		return xerrors.Errorf("marketAddress is required: %w", domain.ErrInvalidAddress)
	}

	cfg.MarketAddress = cfg.MarketAddress.ToLower()
	cfg.Admin = cfg.Admin.ToLower()
	cfg.ServiceFeeReceiver = cfg.ServiceFeeReceiver.ToLower()

	collections := make(map[string][]string, len(cfg.CollectionTokenWhitelist))
	for k, v := range cfg.CollectionTokenWhitelist {
		collections[strings.ToUpper(k)] = v
	}
	cfg.CollectionTokenWhitelist = collections
	return nil
}

type staticProvider struct {
	cfg market.Config
}

// NewStatic always returns a copy of cfg.
func NewStatic(cfg market.Config) market.ConfigProvider {
	return &staticProvider{cfg}
}

func (p *staticProvider) GetConfig(c ctx.Ctx) (*market.Config, error) {
	cfg := p.cfg
	return &cfg, nil
}
