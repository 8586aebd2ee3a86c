package usecase

import (
	"errors"
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/whitelist"
)

type GateCfg struct {
	Whitelist whitelist.Service
}

type gateImpl struct {
	whitelist whitelist.Service
}

func NewGate(cfg *GateCfg) whitelist.Gate {
	return &gateImpl{
		whitelist: cfg.Whitelist,
	}
}

// Evaluate: before start nobody, between start and public time only whitelisted buyers at
// their tier price, from public time on anyone at the list price. Expired listings fill nobody.
func (im *gateImpl) Evaluate(c ctx.Ctx, l *listing.Listing, buyer domain.Address, now time.Time) (*domain.Price, error) {
	if now.Before(l.StartTime) || l.IsExpired(now) {
		return nil, nil
	}

	if !now.Before(l.PublicTime) {
		price := l.Price
		return &price, nil
	}

	if !l.HasWhitelist() {
		return nil, nil
	}

	info, err := im.whitelist.GetExtraInfoByAddress(c, l.WhitelistId, buyer)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":         err,
			"whitelistId": l.WhitelistId,
			"buyer":       buyer,
		}).Error("failed to whitelist.GetExtraInfoByAddress")
		return nil, err
	}

	price := info.Price
	return &price, nil
}

func (im *gateImpl) Create(c ctx.Ctx, in whitelist.CreateInput) (string, error) {
	id, err := im.whitelist.CreateWhitelist(c, in)
	if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"symbol": in.Symbol,
		}).Error("failed to whitelist.CreateWhitelist")
		return "", err
	}
	return id, nil
}
