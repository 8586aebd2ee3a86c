package usecase

import (
	"sort"
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/domain/offer"
)

// fillable is a listing the sender may fill now, at price.
type fillable struct {
	listing *listing.Listing
	price   domain.Price
}

func (im *impl) MakeOffer(c ctx.Ctx, sender domain.Address, in market.MakeOfferInput) (*market.MakeOfferOutput, error) {
	var res *market.MakeOfferOutput
	if err := im.run(c, "makeOffer", sender, func(s *session) error {
		out, err := im.makeOffer(s, in)
		res = out
		return err
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *impl) makeOffer(s *session, in market.MakeOfferInput) (*market.MakeOfferOutput, error) {
	if in.OfferTo.IsEmpty() {
		return nil, domain.BadParam("Invalid param OfferTo.")
	}
	if in.OfferTo.Equals(s.sender) {
		return nil, domain.BadParam("Origin owner cannot be sender himself.")
	}
	if in.Quantity <= 0 {
		return nil, domain.BadParam("Incorrect quantity.")
	}
	if in.Price.Amount <= 0 {
		return nil, domain.BadParam("Incorrect offer price.")
	}
	if err := im.requireNFT(s, in.Symbol, "this NFT Info not exists."); err != nil {
		return nil, err
	}
	if err := im.requireAcceptedPrice(s, in.Symbol, in.Price); err != nil {
		return nil, err
	}

	var expire time.Time
	if in.ExpireTime != nil {
		expire = in.ExpireTime.UTC().Truncate(time.Second)
		if !expire.After(s.now) {
			return nil, domain.BadParam("Incorrect expire time.")
		}
	}

	total, err := in.Price.Total(in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := im.requireFunds(s, in.Price.Symbol, total); err != nil {
		return nil, err
	}

	candidates, err := im.fillables(s, in.Symbol, in.OfferTo, in.Price)
	if err != nil {
		return nil, err
	}

	out := &market.MakeOfferOutput{Fills: []market.Fill{}, ResidualIndex: -1}
	remaining := in.Quantity
	for _, f := range candidates {
		if remaining == 0 {
			break
		}
		n := minInt64(remaining, f.listing.Quantity)
		fill, err := im.fillListing(s, f.listing, s.sender, n, f.price)
		if err != nil {
			return nil, err
		}
		out.Fills = append(out.Fills, *fill)
		remaining -= n
	}

	if remaining > 0 {
		idx, entry, err := im.standOffer(s, in, remaining, expire)
		if err != nil {
			return nil, err
		}
		out.Residual = entry
		out.ResidualIndex = idx
	}
	return out, nil
}

// fillables lists owner's listings the sender can fill at no more than limit, cheapest first,
// then earliest start.
func (im *impl) fillables(s *session, symbol string, owner domain.Address, limit domain.Price) ([]fillable, error) {
	active, err := im.activeListings(s, symbol, owner)
	if err != nil {
		return nil, err
	}

	res := []fillable{}
	for _, l := range active {
		price, err := im.gate.Evaluate(s.ctx, l, s.sender, s.now)
		if err != nil {
			return nil, err
		}
		if price == nil || price.Symbol != limit.Symbol || price.Amount > limit.Amount {
			continue
		}
		res = append(res, fillable{listing: l, price: *price})
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].price.Amount != res[j].price.Amount {
			return res[i].price.Amount < res[j].price.Amount
		}
		return res[i].listing.StartTime.Before(res[j].listing.StartTime)
	})
	return res, nil
}

// standOffer records the unfilled rest, merging into a valid entry at the same price.
func (im *impl) standOffer(s *session, in market.MakeOfferInput, quantity int64, expire time.Time) (int, *offer.Entry, error) {
	id := offer.Id{Symbol: in.Symbol, From: s.sender, To: in.OfferTo.ToLower()}
	bucket, err := im.offerRepo.FindOne(s.ctx, id)
	if err == domain.ErrNotFound {
		bucket = &offer.Bucket{Symbol: id.Symbol, From: id.From, To: id.To}
	} else if err != nil {
		s.ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to offerRepo.FindOne")
		return 0, nil, err
	}

	idx := bucket.IndexOf(in.Price, s.now)
	if idx >= 0 {
		entry := &bucket.Entries[idx]
		entry.Quantity += quantity
		entry.ExpireTime = expire
		if err := im.saveBucket(s, bucket); err != nil {
			return 0, nil, err
		}
		s.offerChanged(market.EventTypeChanged, bucket, idx, *entry)
		res := *entry
		return idx, &res, nil
	}

	if s.cfg.MaxOfferCount > 0 {
		count, err := im.countOffers(s, in.Symbol)
		if err != nil {
			return 0, nil, err
		}
		if count+1 > s.cfg.MaxOfferCount {
			return 0, nil, domain.Capacity("Too many offers.")
		}
	}

	entry := offer.Entry{Price: in.Price, Quantity: quantity, ExpireTime: expire}
	bucket.Entries = append(bucket.Entries, entry)
	idx = len(bucket.Entries) - 1
	if err := im.saveBucket(s, bucket); err != nil {
		return 0, nil, err
	}
	s.offerChanged(market.EventTypeAdded, bucket, idx, entry)
	return idx, &entry, nil
}

// countOffers counts the sender's entries on symbol across every seller.
func (im *impl) countOffers(s *session, symbol string) (int, error) {
	buckets, err := im.offerRepo.FindAll(s.ctx, offer.WithSymbol(symbol), offer.WithFrom(s.sender))
	if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
		}).Error("failed to offerRepo.FindAll")
		return 0, err
	}
	count := 0
	for _, b := range buckets {
		count += len(b.Entries)
	}
	return count, nil
}

func (im *impl) saveBucket(s *session, b *offer.Bucket) error {
	if err := im.offerRepo.Save(s.ctx, b); err != nil {
		s.ctx.WithFields(log.Fields{
			"err":    err,
			"bucket": b,
		}).Error("failed to offerRepo.Save")
		return err
	}
	return nil
}
