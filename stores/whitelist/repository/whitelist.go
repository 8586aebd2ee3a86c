package repository

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/whitelist"
	"github.com/x-xyz/nftmarket/service/query"
)

var (
	timeNow = time.Now
	newId   = uuid.NewString
)

type impl struct {
	q query.Mongo
}

// New is the whitelist registry kept in the market database.
func New(q query.Mongo) whitelist.Service {
	return &impl{q}
}

func (im *impl) CreateWhitelist(c ctx.Ctx, in whitelist.CreateInput) (string, error) {
	tiers := make([]whitelist.Tier, len(in.Tiers))
	for i, t := range in.Tiers {
		addrs := make([]domain.Address, len(t.Addresses))
		for j, a := range t.Addresses {
			addrs[j] = a.ToLower()
		}
		t.Addresses = addrs
		tiers[i] = t
	}

	wl := &whitelist.Whitelist{
		Id:          newId(),
		Symbol:      in.Symbol,
		Creator:     in.Creator.ToLower(),
		Tiers:       tiers,
		IsAvailable: in.IsAvailable,
		CreatedAt:   timeNow(),
	}
	if err := im.q.Insert(c, domain.TableWhitelists, wl); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"whitelist": wl,
		}).Error("failed to q.Insert")
		return "", err
	}
	return wl.Id, nil
}

func (im *impl) GetWhitelistDetail(c ctx.Ctx, id string) (*whitelist.Whitelist, error) {
	res := whitelist.Whitelist{}
	if err := im.q.FindOne(c, domain.TableWhitelists, bson.M{"id": id}, &res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return &res, nil
}

func (im *impl) GetExtraInfoByAddress(c ctx.Ctx, id string, address domain.Address) (*whitelist.ExtraInfo, error) {
	wl, err := im.GetWhitelistDetail(c, id)
	if err != nil {
		return nil, err
	}
	if info := wl.ExtraInfoOf(address); info != nil {
		return info, nil
	}
	return nil, domain.ErrNotFound
}
