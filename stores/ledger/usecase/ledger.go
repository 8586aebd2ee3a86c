package usecase

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/keys"
	"github.com/x-xyz/nftmarket/domain/ledger"
	"github.com/x-xyz/nftmarket/service/cache"
	"github.com/x-xyz/nftmarket/service/cache/provider"
	"github.com/x-xyz/nftmarket/service/cache/provider/compound"
	"github.com/x-xyz/nftmarket/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/nftmarket/service/cache/provider/redis"
	"github.com/x-xyz/nftmarket/service/redis"
)

type LedgerUseCaseCfg struct {
	Ledger ledger.Ledger
	// Redis adds a shared cache layer behind the in-process one, optional.
	Redis    redis.Service
	CacheTtl time.Duration
}

type impl struct {
	ledger    ledger.Ledger
	tokenInfo cache.Service
}

// New caches token info in front of cfg.Ledger. Balances and allowances always hit the ledger.
func New(cfg *LedgerUseCaseCfg) ledger.Ledger {
	providers := []provider.Provider{
		primitive.NewPrimitive(keys.PfxTokenInfo, 16),
	}
	if cfg.Redis != nil {
		providers = append(providers, redisCache.NewRedis(cfg.Redis))
	}

	ttl := cfg.CacheTtl
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &impl{
		ledger: cfg.Ledger,
		tokenInfo: cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   keys.PfxTokenInfo,
			Cache: compound.NewCompound(providers),
		}),
	}
}

func (im *impl) GetTokenInfo(c ctx.Ctx, symbol string) (*ledger.TokenInfo, error) {
	res := &ledger.TokenInfo{}
	if err := im.tokenInfo.GetByFunc(c, symbol, res, func() (interface{}, error) {
		return im.ledger.GetTokenInfo(c, symbol)
	}); err == domain.ErrNotFound {
		return nil, err
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
		}).Error("tokenInfo.GetByFunc failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) GetBalance(c ctx.Ctx, symbol string, owner domain.Address) (int64, error) {
	return im.ledger.GetBalance(c, symbol, owner)
}

func (im *impl) GetAllowance(c ctx.Ctx, symbol string, owner, spender domain.Address) (int64, error) {
	return im.ledger.GetAllowance(c, symbol, owner, spender)
}

func (im *impl) TransferFrom(c ctx.Ctx, in ledger.TransferFromInput) error {
	return im.ledger.TransferFrom(c, in)
}
