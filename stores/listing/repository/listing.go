package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/service/query"
)

var sortFields = []string{"startTime", "owner", "price.amount"}

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) listing.Repo {
	return &impl{q}
}

func makeQuery(options listing.FindAllOptions) bson.M {
	filter := bson.M{}

	if options.Symbol != nil {
		filter["symbol"] = *options.Symbol
	}

	if options.Owner != nil {
		filter["owner"] = options.Owner.ToLower()
	}

	if options.Price != nil {
		filter["price.symbol"] = options.Price.Symbol
		filter["price.amount"] = options.Price.Amount
	}

	if options.ExpireTimeGT != nil {
		filter["$or"] = bson.A{
			bson.M{"expireTime": bson.M{"$gt": *options.ExpireTimeGT}},
			bson.M{"expireTime": time.Time{}},
		}
	}

	return filter
}

func idQuery(id listing.Id) (bson.M, error) {
	id.Owner = id.Owner.ToLower()
	return mongoclient.MakeBsonM(id)
}

func (im *impl) FindAll(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	options, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	filter := makeQuery(options)

	res := []*listing.Listing{}
	if err := im.q.SearchNSorts(c, domain.TableListings, 0, 0, sortFields, filter, &res); err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"filter": filter,
		}).Error("failed to q.SearchNSorts")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) (int, error) {
	options, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return 0, err
	}
	filter := makeQuery(options)

	n, err := im.q.Count(c, domain.TableListings, filter)
	if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"filter": filter,
		}).Error("failed to q.Count")
		return 0, err
	}
	return n, nil
}

func (im *impl) FindOne(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	filter, err := idQuery(id)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := listing.Listing{}
	if err := im.q.FindOne(c, domain.TableListings, filter, &res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"filter": filter,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return &res, nil
}

func (im *impl) Upsert(c ctx.Ctx, l *listing.Listing) error {
	l.LowerCase()
	selector, err := idQuery(l.ToId())
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  l.ToId(),
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	if err := im.q.Upsert(c, domain.TableListings, selector, l); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
			"listing":  *l,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}

func (im *impl) Remove(c ctx.Ctx, id listing.Id) error {
	selector, err := idQuery(id)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	if err := im.q.Remove(c, domain.TableListings, selector); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.Remove")
		return err
	}
	return nil
}
