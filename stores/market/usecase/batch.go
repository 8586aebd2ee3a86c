package usecase

import (
	"math"
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
)

// purchase is one validated intent of a batch.
type purchase struct {
	id       listing.Id
	quantity int64
	price    domain.Price
}

func (im *impl) BatchBuyNow(c ctx.Ctx, sender domain.Address, in market.BatchBuyNowInput) ([]market.Fill, error) {
	var res []market.Fill
	if err := im.run(c, "batchBuyNow", sender, func(s *session) error {
		fills, err := im.batchBuyNow(s, in)
		res = fills
		return err
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *impl) batchBuyNow(s *session, in market.BatchBuyNowInput) ([]market.Fill, error) {
	if len(in.FixPriceList) == 0 {
		return nil, domain.BadParam("Invalid param FixPriceList.")
	}
	if err := im.requireNFT(s, in.Symbol, "Invalid symbol data"); err != nil {
		return nil, err
	}

	purchases, totals, err := im.planBatch(s, in)
	if err != nil {
		return nil, err
	}

	for _, t := range totals {
		if err := im.requireFunds(s, t.Symbol, t.Amount); err != nil {
			return nil, err
		}
	}

	fills := []market.Fill{}
	for _, p := range purchases {
		l, err := im.listingRepo.FindOne(s.ctx, p.id)
		if err != nil {
			s.ctx.WithFields(log.Fields{
				"err": err,
				"id":  p.id,
			}).Error("failed to listingRepo.FindOne")
			return nil, err
		}
		fill, err := im.fillListing(s, l, s.sender, p.quantity, p.price)
		if err != nil {
			return nil, err
		}
		fills = append(fills, *fill)
	}
	return fills, nil
}

// planBatch validates every intent before anything moves. Quantities are capped at what each
// listing still has once earlier intents on the same listing are taken.
func (im *impl) planBatch(s *session, in market.BatchBuyNowInput) ([]purchase, []domain.Price, error) {
	purchases := []purchase{}
	totals := []domain.Price{}
	consumed := map[listing.Id]int64{}

	for _, fp := range in.FixPriceList {
		if fp.OfferTo.IsEmpty() {
			return nil, nil, domain.BadParam("Invalid param OfferTo.")
		}
		if fp.OfferTo.Equals(s.sender) {
			return nil, nil, domain.BadParam("Origin owner cannot be sender himself.")
		}
		if fp.Quantity <= 0 {
			return nil, nil, domain.BadParam("Incorrect quantity.")
		}
		if fp.Price.Amount <= 0 {
			return nil, nil, domain.BadParam("Incorrect price.")
		}
		if err := im.requireNFT(s, fp.Price.Symbol, "Invalid symbol data"); err != nil {
			return nil, nil, err
		}

		id := listing.Id{
			Symbol:      in.Symbol,
			Owner:       fp.OfferTo.ToLower(),
			PriceSymbol: fp.Price.Symbol,
			PriceAmount: fp.Price.Amount,
			StartTime:   fp.StartTime.UTC().Truncate(time.Second),
		}
		l, err := im.listingRepo.FindOne(s.ctx, id)
		if err == domain.ErrNotFound || (err == nil && l.IsExpired(s.now)) {
			return nil, nil, domain.NotFound("NormalPrice does not exist.")
		} else if err != nil {
			s.ctx.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("failed to listingRepo.FindOne")
			return nil, nil, err
		}

		price, err := im.gate.Evaluate(s.ctx, l, s.sender, s.now)
		if err != nil {
			return nil, nil, err
		}
		if price == nil {
			return nil, nil, domain.BadParam("NFT is not on sale yet.")
		}

		n := minInt64(fp.Quantity, l.Quantity-consumed[id])
		if n <= 0 {
			continue
		}
		consumed[id] += n

		cost, err := price.Total(n)
		if err != nil {
			return nil, nil, err
		}
		totals, err = addTotal(totals, price.Symbol, cost)
		if err != nil {
			return nil, nil, err
		}
		purchases = append(purchases, purchase{id: id, quantity: n, price: *price})
	}
	return purchases, totals, nil
}

func addTotal(totals []domain.Price, symbol string, amount int64) ([]domain.Price, error) {
	for i := range totals {
		if totals[i].Symbol == symbol {
			if totals[i].Amount > math.MaxInt64-amount {
				return nil, domain.BadParam("Price overflow.")
			}
			totals[i].Amount += amount
			return totals, nil
		}
	}
	return append(totals, domain.Price{Symbol: symbol, Amount: amount}), nil
}
