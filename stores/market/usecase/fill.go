package usecase

import (
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/ledger"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
)

// requireNFT fails when symbol isn't a known token.
func (im *impl) requireNFT(s *session, symbol, msg string) error {
	if _, err := im.ledger.GetTokenInfo(s.ctx, symbol); err == domain.ErrNotFound {
		return domain.BadParam(msg)
	} else if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
		}).Error("failed to ledger.GetTokenInfo")
		return err
	}
	return nil
}

func (im *impl) requireAcceptedPrice(s *session, symbol string, price domain.Price) error {
	if !s.cfg.IsTokenAccepted(ledger.CollectionSymbol(symbol), price.Symbol) {
		return domain.BadParam("Price symbol %s not available.", price.Symbol)
	}
	return nil
}

// requireFunds checks the buyer can pay total of currency through the market allowance.
func (im *impl) requireFunds(s *session, currency string, total int64) error {
	bal, err := im.ledger.GetBalance(s.ctx, currency, s.sender)
	if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":      err,
			"currency": currency,
		}).Error("failed to ledger.GetBalance")
		return err
	}
	if bal < total {
		return domain.Insufficient("Insufficient funds of %s.", currency)
	}

	allowed, err := im.ledger.GetAllowance(s.ctx, currency, s.sender, s.cfg.MarketAddress)
	if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":      err,
			"currency": currency,
		}).Error("failed to ledger.GetAllowance")
		return err
	}
	if allowed < total {
		return domain.Insufficient("Insufficient allowance of %s.", currency)
	}
	return nil
}

// activeListings are owner's listings of symbol that have not expired.
func (im *impl) activeListings(s *session, symbol string, owner domain.Address) ([]*listing.Listing, error) {
	res, err := im.listingRepo.FindAll(s.ctx,
		listing.WithSymbol(symbol),
		listing.WithOwner(owner),
		listing.WithNotExpiredAt(s.now),
	)
	if err != nil {
		s.ctx.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
			"owner":  owner,
		}).Error("failed to listingRepo.FindAll")
		return nil, err
	}
	return res, nil
}

func reservedOf(ls []*listing.Listing) int64 {
	var sum int64
	for _, l := range ls {
		sum += l.Quantity
	}
	return sum
}

// transfer moves quantity of symbol from seller to buyer and the payment, minus the service fee, back.
func (im *impl) transfer(s *session, symbol string, seller, buyer domain.Address, quantity int64, price domain.Price) (*market.Fill, error) {
	total, err := price.Total(quantity)
	if err != nil {
		return nil, err
	}

	var fee int64
	if !s.cfg.ServiceFeeReceiver.IsEmpty() {
		fee = market.ServiceFee(total, s.cfg.ServiceFeeRate)
	}

	transfers := []ledger.TransferFromInput{
		{Symbol: symbol, From: seller, To: buyer, Amount: quantity, Memo: "market fill"},
		{Symbol: price.Symbol, From: buyer, To: seller, Amount: total - fee, Memo: "market payment"},
		{Symbol: price.Symbol, From: buyer, To: s.cfg.ServiceFeeReceiver, Amount: fee, Memo: "market service fee"},
	}
	for _, in := range transfers {
		if in.Amount == 0 {
			continue
		}
		in.Spender = s.cfg.MarketAddress
		if err := im.ledger.TransferFrom(s.ctx, in); err != nil {
			s.ctx.WithFields(log.Fields{
				"err": err,
				"in":  in,
			}).Warn("failed to ledger.TransferFrom")
			return nil, err
		}
	}

	return &market.Fill{
		Symbol:     symbol,
		Seller:     seller.ToLower(),
		Buyer:      buyer.ToLower(),
		Quantity:   quantity,
		Price:      price,
		ServiceFee: fee,
	}, nil
}

// fillListing sells quantity of l to buyer at price and shrinks or removes l.
func (im *impl) fillListing(s *session, l *listing.Listing, buyer domain.Address, quantity int64, price domain.Price) (*market.Fill, error) {
	fill, err := im.transfer(s, l.Symbol, l.Owner, buyer, quantity, price)
	if err != nil {
		return nil, err
	}
	if err := im.shrinkListing(s, l, quantity); err != nil {
		return nil, err
	}
	s.sold(*fill)
	return fill, nil
}

// shrinkListing takes quantity off l, removing it once nothing is left.
func (im *impl) shrinkListing(s *session, l *listing.Listing, quantity int64) error {
	if quantity >= l.Quantity {
		if err := im.listingRepo.Remove(s.ctx, l.ToId()); err != nil {
			s.ctx.WithFields(log.Fields{
				"err":     err,
				"listing": l,
			}).Error("failed to listingRepo.Remove")
			return err
		}
		l.Quantity = 0
		s.listingChanged(market.EventTypeRemoved, l)
		return nil
	}

	l.Quantity -= quantity
	if err := im.listingRepo.Upsert(s.ctx, l); err != nil {
		s.ctx.WithFields(log.Fields{
			"err":     err,
			"listing": l,
		}).Error("failed to listingRepo.Upsert")
		return err
	}
	s.listingChanged(market.EventTypeChanged, l)
	return nil
}
