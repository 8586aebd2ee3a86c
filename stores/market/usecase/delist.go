package usecase

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
)

func (im *impl) Delist(c ctx.Ctx, sender domain.Address, in market.DelistInput) error {
	return im.run(c, "delist", sender, func(s *session) error {
		return im.delist(s, in)
	})
}

func (im *impl) delist(s *session, in market.DelistInput) error {
	if in.Price == nil {
		return domain.BadParam("Need to specific list record.")
	}
	if in.Quantity <= 0 {
		return domain.BadParam("Quantity must be a positive integer.")
	}

	l, err := im.findDelistTarget(s, in)
	if err == domain.ErrNotFound {
		return domain.NotFound("Listed NFT Info not exists. (Or already delisted.)")
	} else if err != nil {
		return err
	}

	return im.shrinkListing(s, l, in.Quantity)
}

// findDelistTarget picks the record at in.StartTime, or the earliest one at the price.
// Expired records can be delisted too.
func (im *impl) findDelistTarget(s *session, in market.DelistInput) (*listing.Listing, error) {
	if in.StartTime != nil {
		id := listing.Id{
			Symbol:      in.Symbol,
			Owner:       s.sender,
			PriceSymbol: in.Price.Symbol,
			PriceAmount: in.Price.Amount,
			StartTime:   in.StartTime.UTC().Truncate(time.Second),
		}
		l, err := im.listingRepo.FindOne(s.ctx, id)
		if err != nil && err != domain.ErrNotFound {
			s.ctx.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("failed to listingRepo.FindOne")
		}
		return l, err
	}

	ls, err := im.listingRepo.FindAll(s.ctx,
		listing.WithSymbol(in.Symbol),
		listing.WithOwner(s.sender),
		listing.WithPrice(*in.Price),
	)
	if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":    err,
			"symbol": in.Symbol,
		}).Error("failed to listingRepo.FindAll")
		return nil, err
	}
	if len(ls) == 0 {
		return nil, domain.ErrNotFound
	}
	return ls[0], nil
}
