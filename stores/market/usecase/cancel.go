package usecase

import (
	"sort"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/domain/offer"
)

func (im *impl) CancelOffer(c ctx.Ctx, sender domain.Address, in market.CancelOfferInput) (int, error) {
	removed := 0
	if err := im.run(c, "cancelOffer", sender, func(s *session) error {
		n, err := im.cancelOffer(s, in)
		removed = n
		return err
	}); err != nil {
		return 0, err
	}
	return removed, nil
}

func (im *impl) cancelOffer(s *session, in market.CancelOfferInput) (int, error) {
	from := in.OfferFrom.ToLower()
	if from.IsEmpty() {
		from = s.sender
	}
	if in.OfferTo.IsEmpty() {
		return 0, domain.BadParam("Invalid param OfferTo.")
	}
	if len(in.IndexList) == 0 {
		return 0, domain.BadParam("Invalid param IndexList.")
	}
	if in.IsCancelBid {
		return 0, domain.NotImplemented("Cancel bid is not supported.")
	}

	id := offer.Id{Symbol: in.Symbol, From: from, To: in.OfferTo.ToLower()}
	bucket, err := im.offerRepo.FindOne(s.ctx, id)
	if err == domain.ErrNotFound {
		return 0, domain.NotFound("Offer not exists.")
	} else if err != nil {
		s.ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to offerRepo.FindOne")
		return 0, err
	}

	indexes := uniqueSorted(in.IndexList)
	for _, idx := range indexes {
		if idx < 0 || idx >= len(bucket.Entries) {
			return 0, domain.NotFound("Offer not exists.")
		}
	}

	// owners cancel anything, everyone else only what has expired
	isOwner := from.Equals(s.sender)
	removable := []int{}
	for _, idx := range indexes {
		if isOwner || bucket.Entries[idx].IsExpired(s.now) {
			removable = append(removable, idx)
		}
	}

	s.ctx.WithFields(log.Fields{
		"id":          id,
		"indexes":     indexes,
		"removable": removable,
	}).Debug("cancel offer")

	if len(removable) == 0 {
		if s.cfg.IsAdmin(s.sender) {
			return 0, nil
		}
		return 0, domain.NoPermission("No permission.")
	}

	entries := make([]offer.Entry, len(removable))
	for i, idx := range removable {
		entries[i] = bucket.Entries[idx]
	}
	bucket.RemoveAt(removable...)
	if err := im.saveBucket(s, bucket); err != nil {
		return 0, err
	}
	for i, idx := range removable {
		s.offerChanged(market.EventTypeRemoved, bucket, idx, entries[i])
	}
	return len(removable), nil
}

func uniqueSorted(xs []int) []int {
	seen := make(map[int]bool, len(xs))
	res := make([]int, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			res = append(res, x)
		}
	}
	sort.Ints(res)
	return res
}
