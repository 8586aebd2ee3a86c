package usecase

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/domain/whitelist"
)

func (im *impl) ListWithFixedPrice(c ctx.Ctx, sender domain.Address, in market.ListWithFixedPriceInput) (*listing.Listing, error) {
	var res *listing.Listing
	if err := im.run(c, "listWithFixedPrice", sender, func(s *session) error {
		l, err := im.listWithFixedPrice(s, in)
		res = l
		return err
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *impl) listWithFixedPrice(s *session, in market.ListWithFixedPriceInput) (*listing.Listing, error) {
	if err := im.requireNFT(s, in.Symbol, "this NFT Info not exists."); err != nil {
		return nil, err
	}
	if err := im.requireAcceptedPrice(s, in.Symbol, in.Price); err != nil {
		return nil, err
	}
	if in.Price.Amount <= 0 {
		return nil, domain.BadParam("Incorrect listing price.")
	}
	if in.Quantity <= 0 {
		return nil, domain.BadParam("Incorrect quantity.")
	}

	digest := ""
	if in.Whitelist != nil {
		if err := whitelist.ValidateTiers(in.Whitelist, in.Price); err != nil {
			return nil, err
		}
		digest = whitelist.Digest(in.Whitelist, in.IsWhitelistAvailable)
	}

	active, err := im.activeListings(s, in.Symbol, s.sender)
	if err != nil {
		return nil, err
	}
	if err := im.requireInventory(s, in.Symbol, reservedOf(active)+in.Quantity); err != nil {
		return nil, err
	}

	if in.IsMergeToPreviousListedInfo {
		for _, l := range active {
			if l.Price.Equals(in.Price) && l.WhitelistDigest == digest {
				return im.growListing(s, l, in.Quantity)
			}
		}
	}

	l := newListing(s, in, digest)

	// same key without merge: identical configurations fold together, others can't share the key
	if prev, err := im.listingRepo.FindOne(s.ctx, l.ToId()); err == nil {
		if prev.WhitelistDigest != digest {
			return nil, domain.BadParam("Listed NFT Info with the same price and start time already exists.")
		}
		return im.growListing(s, prev, in.Quantity)
	} else if err != domain.ErrNotFound {
		s.ctx.WithFields(log.Fields{
			"err": err,
			"id":  l.ToId(),
		}).Error("failed to listingRepo.FindOne")
		return nil, err
	}

	if s.cfg.MaxListCount > 0 {
		n, err := im.listingRepo.Count(s.ctx, listing.WithSymbol(in.Symbol), listing.WithOwner(s.sender), listing.WithNotExpiredAt(s.now))
		if err != nil {
			s.ctx.WithFields(log.Fields{
				"err":    err,
				"symbol": in.Symbol,
				"owner":  s.sender,
			}).Error("failed to listingRepo.Count")
			return nil, err
		}
		if n+1 > s.cfg.MaxListCount {
			return nil, domain.Capacity("Too many listed items.")
		}
	}

	if in.Whitelist != nil {
		id, err := im.gate.Create(s.ctx, whitelist.CreateInput{
			Symbol:      in.Symbol,
			Creator:     s.sender,
			Tiers:       in.Whitelist,
			IsAvailable: in.IsWhitelistAvailable,
		})
		if err != nil {
			return nil, err
		}
		l.WhitelistId = id
	}

	if err := im.listingRepo.Upsert(s.ctx, l); err != nil {
		s.ctx.WithFields(log.Fields{
			"err":     err,
			"listing": l,
		}).Error("failed to listingRepo.Upsert")
		return nil, err
	}
	s.listingChanged(market.EventTypeAdded, l)
	return l, nil
}

// requireInventory checks the sender holds and has approved quantity units of symbol.
func (im *impl) requireInventory(s *session, symbol string, quantity int64) error {
	bal, err := im.ledger.GetBalance(s.ctx, symbol, s.sender)
	if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
		}).Error("failed to ledger.GetBalance")
		return err
	}
	if bal < quantity {
		return domain.Insufficient("Check sender NFT balance failed.")
	}

	allowed, err := im.ledger.GetAllowance(s.ctx, symbol, s.sender, s.cfg.MarketAddress)
	if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
		}).Error("failed to ledger.GetAllowance")
		return err
	}
	if allowed < quantity {
		return domain.Insufficient("Insufficient allowance of %s.", symbol)
	}
	return nil
}

func (im *impl) growListing(s *session, l *listing.Listing, quantity int64) (*listing.Listing, error) {
	l.Quantity += quantity
	if err := im.listingRepo.Upsert(s.ctx, l); err != nil {
		s.ctx.WithFields(log.Fields{
			"err":     err,
			"listing": l,
		}).Error("failed to listingRepo.Upsert")
		return nil, err
	}
	s.listingChanged(market.EventTypeChanged, l)
	return l, nil
}

// newListing applies the time rules: start is never in the past, public time never before start,
// and a missing duration falls back to the configured default.
func newListing(s *session, in market.ListWithFixedPriceInput, digest string) *listing.Listing {
	start := s.now
	if t := in.Duration.StartTime; t != nil && t.After(s.now) {
		start = t.UTC().Truncate(time.Second)
	}
	public := start
	if t := in.Duration.PublicTime; t != nil && t.After(start) {
		public = t.UTC().Truncate(time.Second)
	}
	hours := in.Duration.DurationHours
	if hours <= 0 {
		hours = s.cfg.DefaultDurationHours
	}
	var expire time.Time
	if hours > 0 {
		expire = start.Add(time.Duration(hours) * time.Hour)
	}

	return &listing.Listing{
		Symbol:               in.Symbol,
		Owner:                s.sender,
		Price:                in.Price,
		Quantity:             in.Quantity,
		StartTime:            start,
		PublicTime:           public,
		DurationHours:        hours,
		ExpireTime:           expire,
		WhitelistDigest:      digest,
		IsWhitelistAvailable: in.IsWhitelistAvailable,
	}
}
