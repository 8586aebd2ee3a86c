package usecase

import (
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/domain/offer"
)

func (im *impl) Deal(c ctx.Ctx, sender domain.Address, in market.DealInput) (*market.Fill, error) {
	var res *market.Fill
	if err := im.run(c, "deal", sender, func(s *session) error {
		fill, err := im.deal(s, in)
		res = fill
		return err
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *impl) deal(s *session, in market.DealInput) (*market.Fill, error) {
	if in.OfferFrom.IsEmpty() {
		return nil, domain.BadParam("Invalid param OfferFrom.")
	}
	if in.OfferFrom.Equals(s.sender) {
		return nil, domain.BadParam("Origin owner cannot be sender himself.")
	}
	if in.Quantity <= 0 {
		return nil, domain.BadParam("Incorrect quantity.")
	}
	if in.Price.Amount <= 0 {
		return nil, domain.BadParam("Incorrect price.")
	}
	if err := im.requireNFT(s, in.Symbol, "this NFT Info not exists."); err != nil {
		return nil, err
	}

	id := offer.Id{Symbol: in.Symbol, From: in.OfferFrom.ToLower(), To: s.sender}
	bucket, err := im.offerRepo.FindOne(s.ctx, id)
	if err == domain.ErrNotFound || (err == nil && bucket.IsEmpty()) {
		return nil, domain.NotFound("offer is empty")
	} else if err != nil {
		s.ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to offerRepo.FindOne")
		return nil, err
	}

	idx := bucket.IndexOf(in.Price, s.now)
	if idx < 0 {
		return nil, domain.NotFound("Neither related offer nor bid are found.")
	}
	if bucket.Entries[idx].Quantity < in.Quantity {
		return nil, domain.BadParam("Deal quantity exceeded.")
	}

	bal, err := im.ledger.GetBalance(s.ctx, in.Symbol, s.sender)
	if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":    err,
			"symbol": in.Symbol,
		}).Error("failed to ledger.GetBalance")
		return nil, err
	}
	if bal < in.Quantity {
		return nil, domain.Insufficient("Check sender NFT balance failed.")
	}

	active, err := im.activeListings(s, in.Symbol, s.sender)
	if err != nil {
		return nil, err
	}
	if free := bal - reservedOf(active); free < in.Quantity {
		return nil, domain.Conflict("Need to delist %d listed %s before the deal.", in.Quantity-free, in.Symbol)
	}

	fill, err := im.transfer(s, in.Symbol, s.sender, in.OfferFrom, in.Quantity, in.Price)
	if err != nil {
		return nil, err
	}

	entry := &bucket.Entries[idx]
	entry.Quantity -= in.Quantity
	if entry.Quantity == 0 {
		removed := *entry
		bucket.RemoveAt(idx)
		if err := im.saveBucket(s, bucket); err != nil {
			return nil, err
		}
		s.offerChanged(market.EventTypeRemoved, bucket, idx, removed)
	} else {
		if err := im.saveBucket(s, bucket); err != nil {
			return nil, err
		}
		s.offerChanged(market.EventTypeChanged, bucket, idx, *entry)
	}

	s.sold(*fill)
	return fill, nil
}
