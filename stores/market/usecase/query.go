package usecase

import (
	"math"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/domain/offer"
)

func (im *impl) GetListedNFTInfoList(c ctx.Ctx, symbol string, owner domain.Address) ([]*listing.Listing, error) {
	defer im.met.BumpTime("getListedNFTInfoList.time").End()

	opts := []listing.FindAllOptionsFunc{listing.WithSymbol(symbol)}
	if !owner.IsEmpty() {
		opts = append(opts, listing.WithOwner(owner))
	}
	res, err := im.listingRepo.FindAll(c, opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
			"owner":  owner,
		}).Error("failed to listingRepo.FindAll")
		return nil, err
	}
	return res, nil
}

func (im *impl) GetOfferList(c ctx.Ctx, symbol string, from, to domain.Address) ([]*offer.Bucket, error) {
	defer im.met.BumpTime("getOfferList.time").End()

	opts := []offer.FindAllOptionsFunc{offer.WithSymbol(symbol)}
	if !from.IsEmpty() {
		opts = append(opts, offer.WithFrom(from))
	}
	if !to.IsEmpty() {
		opts = append(opts, offer.WithTo(to))
	}
	res, err := im.offerRepo.FindAll(c, opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
			"from":   from,
			"to":     to,
		}).Error("failed to offerRepo.FindAll")
		return nil, err
	}
	return res, nil
}

// GetTotalOfferAmount sums what address still offers in priceSymbol, over entries that have not expired.
func (im *impl) GetTotalOfferAmount(c ctx.Ctx, address domain.Address, priceSymbol string) (*market.TotalAmount, error) {
	defer im.met.BumpTime("getTotalOfferAmount.time").End()

	s, err := im.newSession(c, address)
	if err != nil {
		return nil, err
	}

	buckets, err := im.offerRepo.FindAll(c, offer.WithFrom(address))
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"address": address,
		}).Error("failed to offerRepo.FindAll")
		return nil, err
	}

	res := &market.TotalAmount{}
	for _, b := range buckets {
		for _, e := range b.Entries {
			if e.Price.Symbol != priceSymbol || e.IsExpired(s.now) {
				continue
			}
			total, err := e.Price.Total(e.Quantity)
			if err != nil {
				return nil, err
			}
			if res.TotalAmount > math.MaxInt64-total {
				return nil, domain.BadParam("Price overflow.")
			}
			res.TotalAmount += total
		}
	}

	if res.Allowance, err = im.ledger.GetAllowance(c, priceSymbol, address, s.cfg.MarketAddress); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"address": address,
		}).Error("failed to ledger.GetAllowance")
		return nil, err
	}
	return res, nil
}

// GetTotalEffectiveListedNFTAmount is the quantity of symbol address has reserved in listings that have not expired.
func (im *impl) GetTotalEffectiveListedNFTAmount(c ctx.Ctx, symbol string, address domain.Address) (*market.TotalAmount, error) {
	defer im.met.BumpTime("getTotalEffectiveListedNFTAmount.time").End()

	s, err := im.newSession(c, address)
	if err != nil {
		return nil, err
	}

	active, err := im.activeListings(s, symbol, address)
	if err != nil {
		return nil, err
	}

	res := &market.TotalAmount{TotalAmount: reservedOf(active)}
	if res.Allowance, err = im.ledger.GetAllowance(c, symbol, address, s.cfg.MarketAddress); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"address": address,
		}).Error("failed to ledger.GetAllowance")
		return nil, err
	}
	return res, nil
}

