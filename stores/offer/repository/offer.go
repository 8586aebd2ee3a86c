package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/offer"
	"github.com/x-xyz/nftmarket/service/query"
)

var sortFields = []string{"symbol", "from", "to"}

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) offer.Repo {
	return &impl{q}
}

func makeQuery(options offer.FindAllOptions) bson.M {
	filter := bson.M{}

	if options.Symbol != nil {
		filter["symbol"] = *options.Symbol
	}

	if options.From != nil {
		filter["from"] = options.From.ToLower()
	}

	if options.To != nil {
		filter["to"] = options.To.ToLower()
	}

	return filter
}

func idQuery(id offer.Id) (bson.M, error) {
	id.From = id.From.ToLower()
	id.To = id.To.ToLower()
	return mongoclient.MakeBsonM(id)
}

func (im *impl) FindAll(c ctx.Ctx, opts ...offer.FindAllOptionsFunc) ([]*offer.Bucket, error) {
	options, err := offer.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	filter := makeQuery(options)

	res := []*offer.Bucket{}
	if err := im.q.SearchNSorts(c, domain.TableOffers, 0, 0, sortFields, filter, &res); err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"filter": filter,
		}).Error("failed to q.SearchNSorts")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindOne(c ctx.Ctx, id offer.Id) (*offer.Bucket, error) {
	filter, err := idQuery(id)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := offer.Bucket{}
	if err := im.q.FindOne(c, domain.TableOffers, filter, &res); err == query.ErrNotFound {
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

// Save replaces the whole bucket so entry indexes stay the array positions.
func (im *impl) Save(c ctx.Ctx, b *offer.Bucket) error {
	b.From = b.From.ToLower()
	b.To = b.To.ToLower()
	selector, err := idQuery(b.ToId())
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  b.ToId(),
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	if b.IsEmpty() {
		if err := im.q.Remove(c, domain.TableOffers, selector); err != nil && err != query.ErrNotFound {
			c.WithFields(log.Fields{
				"err":      err,
				"selector": selector,
			}).Error("failed to q.Remove")
			return err
		}
		return nil
	}

	if err := im.q.Upsert(c, domain.TableOffers, selector, b); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}
