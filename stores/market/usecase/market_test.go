package usecase

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/metrics"
	"github.com/x-xyz/nftmarket/base/ptr"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/ledger"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/domain/offer"
	"github.com/x-xyz/nftmarket/domain/whitelist"
	"github.com/x-xyz/nftmarket/stores/market/config"
	"github.com/x-xyz/nftmarket/stores/memory"
	whitelistUC "github.com/x-xyz/nftmarket/stores/whitelist/usecase"
)

const (
	elf = int64(100000000)

	seller      = domain.Address("0xseller")
	buyer       = domain.Address("0xbuyer")
	stranger    = domain.Address("0xstranger")
	admin       = domain.Address("0xadmin")
	marketAddr  = domain.Address("0xmarket")
	feeReceiver = domain.Address("0xfee")

	nft = "ABC-1"
)

type recorder struct {
	events []market.Event
	err    error
}

func (r *recorder) Publish(c ctx.Ctx, events []market.Event) error {
	r.events = append(r.events, events...)
	return r.err
}

type marketSuite struct {
	suite.Suite

	ctx    ctx.Ctx
	now    time.Time
	cfg    market.Config
	world  *memory.World
	ledger *memory.Ledger
	pub    *recorder
	im     market.UseCase
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(marketSuite))
}

func (s *marketSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.now = time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	s.world = memory.New()
	s.ledger = s.world.Ledger()
	s.ledger.AddToken(ledger.TokenInfo{Symbol: nft, IsNFT: true})
	s.ledger.AddToken(ledger.TokenInfo{Symbol: "ELF", Decimals: 8})
	s.ledger.AddToken(ledger.TokenInfo{Symbol: "USDT", Decimals: 6})
	s.cfg = market.Config{
		MarketAddress:        marketAddr,
		Admin:                admin,
		ServiceFeeRate:       1000,
		ServiceFeeReceiver:   feeReceiver,
		MaxListCount:         5,
		MaxOfferCount:        5,
		DefaultDurationHours: 720,
		GlobalTokenWhitelist: []string{"ELF"},
	}
	s.pub = &recorder{}
	s.build()
}

func (s *marketSuite) build() {
	s.im = New(&MarketUseCaseCfg{
		ListingRepo:    s.world.Listings(),
		OfferRepo:      s.world.Offers(),
		Ledger:         s.ledger,
		Gate:           whitelistUC.NewGate(&whitelistUC.GateCfg{Whitelist: s.world.Whitelists()}),
		ConfigProvider: config.NewStatic(s.cfg),
		Transactor:     s.world,
		Publisher:      s.pub,
		Metrics:        metrics.NewNop(),
		TimeNow:        func() time.Time { return s.now },
	})
}

func elfPrice(amount int64) domain.Price {
	return domain.Price{Symbol: "ELF", Amount: amount}
}

func pricePtr(p domain.Price) *domain.Price {
	return &p
}

func (s *marketSuite) give(symbol string, owner domain.Address, amount int64) {
	s.ledger.Mint(symbol, owner, amount)
	s.ledger.Approve(symbol, owner, marketAddr, s.balance(symbol, owner))
}

func (s *marketSuite) balance(symbol string, owner domain.Address) int64 {
	bal, err := s.ledger.GetBalance(s.ctx, symbol, owner)
	s.Require().NoError(err)
	return bal
}

func (s *marketSuite) list(quantity, amount int64) *listing.Listing {
	l, err := s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{
		Symbol:   nft,
		Price:    elfPrice(amount),
		Quantity: quantity,
	})
	s.Require().NoError(err)
	return l
}

func (s *marketSuite) offer(from domain.Address, quantity, amount int64) *market.MakeOfferOutput {
	out, err := s.im.MakeOffer(s.ctx, from, market.MakeOfferInput{
		Symbol:   nft,
		OfferTo:  seller,
		Quantity: quantity,
		Price:    elfPrice(amount),
	})
	s.Require().NoError(err)
	return out
}

func (s *marketSuite) listings() []*listing.Listing {
	ls, err := s.im.GetListedNFTInfoList(s.ctx, nft, seller)
	s.Require().NoError(err)
	return ls
}

func (s *marketSuite) buckets(from domain.Address) []*offer.Bucket {
	bs, err := s.im.GetOfferList(s.ctx, nft, from, seller)
	s.Require().NoError(err)
	return bs
}

func (s *marketSuite) requireKind(err error, kind error, msg string) {
	s.Require().Error(err)
	s.True(errors.Is(err, kind), "unexpected kind of %v", err)
	if msg != "" {
		s.Equal(msg, err.Error())
	}
}

func (s *marketSuite) TestFillPaysSellerNetOfFee() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 100*elf)
	s.list(5, 5*elf)

	out := s.offer(buyer, 1, 5*elf)
	s.Len(out.Fills, 1)
	s.Equal(market.Fill{
		Symbol:     nft,
		Seller:     seller,
		Buyer:      buyer,
		Quantity:   1,
		Price:      elfPrice(5 * elf),
		ServiceFee: elf / 2,
	}, out.Fills[0])
	s.Nil(out.Residual)
	s.Equal(-1, out.ResidualIndex)

	s.Equal(45*elf/10, s.balance("ELF", seller))
	s.Equal(elf/2, s.balance("ELF", feeReceiver))
	s.Equal(95*elf, s.balance("ELF", buyer))
	s.Equal(int64(1), s.balance(nft, buyer))
	s.Equal(int64(4), s.balance(nft, seller))

	ls := s.listings()
	s.Require().Len(ls, 1)
	s.Equal(int64(4), ls[0].Quantity)
	s.Len(s.buckets(buyer), 0)
}

func (s *marketSuite) TestWhitelistedBuyerFillsAtTierPrice() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 100*elf)
	s.give("ELF", stranger, 100*elf)

	_, err := s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{
		Symbol:   nft,
		Price:    elfPrice(5 * elf),
		Quantity: 5,
		Duration: market.ListDuration{PublicTime: ptr.Time(s.now.Add(time.Hour))},
		Whitelist: []whitelist.Tier{{
			TagName:   "vip",
			Price:     elfPrice(elf),
			Addresses: []domain.Address{"0xBUYER"},
		}},
		IsWhitelistAvailable: true,
	})
	s.Require().NoError(err)

	out := s.offer(buyer, 1, 3*elf)
	s.Require().Len(out.Fills, 1)
	s.Equal(elfPrice(elf), out.Fills[0].Price)
	s.Equal(99*elf, s.balance("ELF", buyer))
	s.Equal(9*elf/10, s.balance("ELF", seller))

	// not in the tier, so the offer stands until public time
	out = s.offer(stranger, 1, 5*elf)
	s.Len(out.Fills, 0)
	s.Require().NotNil(out.Residual)
	s.Equal(100*elf, s.balance("ELF", stranger))

	s.now = s.now.Add(time.Hour)
	out = s.offer(stranger, 1, 6*elf)
	s.Require().Len(out.Fills, 1)
	s.Equal(elfPrice(5*elf), out.Fills[0].Price)
	s.Equal(95*elf, s.balance("ELF", stranger))
}

func (s *marketSuite) TestUnfilledRestBecomesStandingOffer() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 1000*elf)
	s.list(5, 5*elf)

	out := s.offer(buyer, 100, 10*elf)
	s.Require().Len(out.Fills, 1)
	s.Equal(int64(5), out.Fills[0].Quantity)
	s.Equal(elfPrice(5*elf), out.Fills[0].Price)
	s.Equal(&offer.Entry{Price: elfPrice(10 * elf), Quantity: 95}, out.Residual)
	s.Equal(0, out.ResidualIndex)

	s.Equal(975*elf, s.balance("ELF", buyer))
	s.Len(s.listings(), 0)

	bs := s.buckets(buyer)
	s.Require().Len(bs, 1)
	s.Equal([]offer.Entry{{Price: elfPrice(10 * elf), Quantity: 95}}, bs[0].Entries)

	// same price merges into the standing entry
	out = s.offer(buyer, 5, 10*elf)
	s.Equal(int64(100), out.Residual.Quantity)
	s.Len(s.buckets(buyer)[0].Entries, 1)
}

func (s *marketSuite) TestBatchBuyNowCapsAtAvailable() {
	s.give(nft, seller, 7)
	s.give("ELF", buyer, 100*elf)
	l := s.list(7, 5*elf)

	fills, err := s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{
		Symbol: nft,
		FixPriceList: []market.FixPrice{
			{OfferTo: seller, StartTime: l.StartTime, Quantity: 14, Price: elfPrice(5 * elf)},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(fills, 1)
	s.Equal(int64(7), fills[0].Quantity)
	s.Equal(int64(7), s.balance(nft, buyer))
	s.Equal(65*elf, s.balance("ELF", buyer))
	s.Len(s.listings(), 0)
}

func (s *marketSuite) TestBatchBuyNowRepeatedIntents() {
	s.give(nft, seller, 3)
	s.give("ELF", buyer, 100*elf)
	l := s.list(3, 5*elf)
	fp := market.FixPrice{OfferTo: seller, StartTime: l.StartTime, Quantity: 2, Price: elfPrice(5 * elf)}

	fills, err := s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{Symbol: nft, FixPriceList: []market.FixPrice{fp, fp, fp}})
	s.Require().NoError(err)
	s.Require().Len(fills, 2)
	s.Equal(int64(2), fills[0].Quantity)
	s.Equal(int64(1), fills[1].Quantity)
	s.Equal(int64(3), s.balance(nft, buyer))
}

func (s *marketSuite) TestBatchBuyNowIsAtomic() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 100*elf)
	l := s.list(5, 5*elf)
	published := len(s.pub.events)

	_, err := s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{
		Symbol: nft,
		FixPriceList: []market.FixPrice{
			{OfferTo: seller, StartTime: l.StartTime, Quantity: 2, Price: elfPrice(5 * elf)},
			{OfferTo: seller, StartTime: l.StartTime, Quantity: 1, Price: elfPrice(6 * elf)},
		},
	})
	s.requireKind(err, domain.ErrNotFound, "NormalPrice does not exist.")
	s.Equal(int64(0), s.balance(nft, buyer))
	s.Equal(100*elf, s.balance("ELF", buyer))
	s.Equal(int64(5), s.listings()[0].Quantity)
	s.Len(s.pub.events, published)
}

func (s *marketSuite) TestBatchBuyNowValidation() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 5*elf)
	l := s.list(5, 5*elf)
	fp := market.FixPrice{OfferTo: seller, StartTime: l.StartTime, Quantity: 2, Price: elfPrice(5 * elf)}

	_, err := s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{Symbol: nft, FixPriceList: []market.FixPrice{fp}})
	s.requireKind(err, domain.ErrInsufficient, "Insufficient funds of ELF.")

	noTarget := fp
	noTarget.OfferTo = ""
	_, err = s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{Symbol: nft, FixPriceList: []market.FixPrice{noTarget}})
	s.requireKind(err, domain.ErrBadParamInput, "Invalid param OfferTo.")

	badCurrency := fp
	badCurrency.Price.Symbol = "NOPE"
	_, err = s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{Symbol: nft, FixPriceList: []market.FixPrice{badCurrency}})
	s.requireKind(err, domain.ErrBadParamInput, "Invalid symbol data")

	_, err = s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{Symbol: "XYZ-1", FixPriceList: []market.FixPrice{fp}})
	s.requireKind(err, domain.ErrBadParamInput, "Invalid symbol data")

	_, err = s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{Symbol: nft})
	s.requireKind(err, domain.ErrBadParamInput, "")

	s.now = s.now.Add(721 * time.Hour)
	_, err = s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{Symbol: nft, FixPriceList: []market.FixPrice{fp}})
	s.requireKind(err, domain.ErrNotFound, "NormalPrice does not exist.")
}

func (s *marketSuite) TestAdminCancelsOnlyExpiredOffers() {
	s.give("ELF", buyer, 100*elf)
	_, err := s.im.MakeOffer(s.ctx, buyer, market.MakeOfferInput{
		Symbol:     nft,
		OfferTo:    seller,
		Quantity:   1,
		Price:      elfPrice(elf),
		ExpireTime: ptr.Time(s.now.Add(time.Hour)),
	})
	s.Require().NoError(err)

	cancel := market.CancelOfferInput{Symbol: nft, OfferFrom: buyer, OfferTo: seller, IndexList: []int{0}}

	n, err := s.im.CancelOffer(s.ctx, admin, cancel)
	s.NoError(err)
	s.Equal(0, n)
	s.Len(s.buckets(buyer), 1)

	_, err = s.im.CancelOffer(s.ctx, stranger, cancel)
	s.requireKind(err, domain.ErrNoPermission, "No permission.")

	s.now = s.now.Add(2 * time.Hour)
	n, err = s.im.CancelOffer(s.ctx, admin, cancel)
	s.NoError(err)
	s.Equal(1, n)
	s.Len(s.buckets(buyer), 0)

	_, err = s.im.CancelOffer(s.ctx, admin, cancel)
	s.requireKind(err, domain.ErrNotFound, "Offer not exists.")
}

func (s *marketSuite) TestDealNeedsDelistFirst() {
	s.give(nft, seller, 10)
	s.give("ELF", buyer, 100*elf)
	s.list(5, 5*elf)

	out := s.offer(buyer, 7, 4*elf)
	s.Len(out.Fills, 0)

	_, err := s.im.Deal(s.ctx, seller, market.DealInput{Symbol: nft, OfferFrom: buyer, Price: elfPrice(4 * elf), Quantity: 7})
	s.requireKind(err, domain.ErrConflict, "Need to delist 2 listed ABC-1 before the deal.")
	s.Equal(int64(10), s.balance(nft, seller))

	fill, err := s.im.Deal(s.ctx, seller, market.DealInput{Symbol: nft, OfferFrom: buyer, Price: elfPrice(4 * elf), Quantity: 5})
	s.Require().NoError(err)
	s.Equal(int64(5), fill.Quantity)
	s.Equal(2*elf, fill.ServiceFee)
	s.Equal(int64(5), s.balance(nft, seller))
	s.Equal(int64(5), s.balance(nft, buyer))
	s.Equal(18*elf, s.balance("ELF", seller))

	bs := s.buckets(buyer)
	s.Require().Len(bs, 1)
	s.Equal(int64(2), bs[0].Entries[0].Quantity)

	err = s.im.Delist(s.ctx, seller, market.DelistInput{Symbol: nft, Price: pricePtr(elfPrice(5 * elf)), Quantity: 5})
	s.Require().NoError(err)
	_, err = s.im.Deal(s.ctx, seller, market.DealInput{Symbol: nft, OfferFrom: buyer, Price: elfPrice(4 * elf), Quantity: 2})
	s.Require().NoError(err)
	s.Len(s.buckets(buyer), 0)
}

func (s *marketSuite) TestDealErrors() {
	s.give(nft, seller, 1)
	s.give("ELF", buyer, 100*elf)

	deal := market.DealInput{Symbol: nft, OfferFrom: buyer, Price: elfPrice(4 * elf), Quantity: 1}
	_, err := s.im.Deal(s.ctx, seller, deal)
	s.requireKind(err, domain.ErrNotFound, "offer is empty")

	_, err = s.im.MakeOffer(s.ctx, buyer, market.MakeOfferInput{
		Symbol:     nft,
		OfferTo:    seller,
		Quantity:   2,
		Price:      elfPrice(4 * elf),
		ExpireTime: ptr.Time(s.now.Add(time.Hour)),
	})
	s.Require().NoError(err)

	wrongPrice := deal
	wrongPrice.Price = elfPrice(3 * elf)
	_, err = s.im.Deal(s.ctx, seller, wrongPrice)
	s.requireKind(err, domain.ErrNotFound, "Neither related offer nor bid are found.")

	tooMany := deal
	tooMany.Quantity = 3
	_, err = s.im.Deal(s.ctx, seller, tooMany)
	s.requireKind(err, domain.ErrBadParamInput, "Deal quantity exceeded.")

	twoUnits := deal
	twoUnits.Quantity = 2
	_, err = s.im.Deal(s.ctx, seller, twoUnits)
	s.requireKind(err, domain.ErrInsufficient, "Check sender NFT balance failed.")

	_, err = s.im.Deal(s.ctx, buyer, deal)
	s.requireKind(err, domain.ErrBadParamInput, "")

	s.now = s.now.Add(time.Hour)
	_, err = s.im.Deal(s.ctx, seller, deal)
	s.requireKind(err, domain.ErrNotFound, "Neither related offer nor bid are found.")
}

func (s *marketSuite) TestNothingFillsBeforeStart() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 100*elf)
	_, err := s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{
		Symbol:   nft,
		Price:    elfPrice(5 * elf),
		Quantity: 5,
		Duration: market.ListDuration{StartTime: ptr.Time(s.now.Add(time.Hour))},
	})
	s.Require().NoError(err)

	out := s.offer(buyer, 1, 5*elf)
	s.Len(out.Fills, 0)
	s.Equal(int64(0), s.balance(nft, buyer))

	s.now = s.now.Add(time.Hour)
	out = s.offer(buyer, 1, 6*elf)
	s.Len(out.Fills, 1)
	s.Equal(int64(1), s.balance(nft, buyer))
}

func (s *marketSuite) TestFillOrderCheapestThenEarliest() {
	s.give(nft, seller, 10)
	s.give("ELF", buyer, 1000*elf)
	s.list(2, 6*elf)
	first := s.list(2, 5*elf)
	s.now = s.now.Add(10 * time.Second)
	second := s.list(2, 5*elf)
	s.NotEqual(first.StartTime, second.StartTime)

	out := s.offer(buyer, 5, 10*elf)
	s.Require().Len(out.Fills, 3)
	s.Equal(elfPrice(5*elf), out.Fills[0].Price)
	s.Equal(elfPrice(5*elf), out.Fills[1].Price)
	s.Equal(elfPrice(6*elf), out.Fills[2].Price)
	s.Equal(int64(1), out.Fills[2].Quantity)
	s.Equal(1000*elf-26*elf, s.balance("ELF", buyer))

	ls := s.listings()
	s.Require().Len(ls, 1)
	s.Equal(elfPrice(6*elf), ls[0].Price)
	s.Equal(int64(1), ls[0].Quantity)
}

func (s *marketSuite) TestMakeOfferIsAtomic() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 100*elf)
	s.list(5, 5*elf)
	s.ledger.Approve(nft, seller, marketAddr, 0)
	published := len(s.pub.events)

	_, err := s.im.MakeOffer(s.ctx, buyer, market.MakeOfferInput{Symbol: nft, OfferTo: seller, Quantity: 2, Price: elfPrice(5 * elf)})
	s.requireKind(err, domain.ErrInsufficient, "Insufficient allowance of ABC-1.")

	s.Equal(100*elf, s.balance("ELF", buyer))
	s.Equal(int64(5), s.listings()[0].Quantity)
	s.Len(s.buckets(buyer), 0)
	s.Len(s.pub.events, published)
}

func (s *marketSuite) TestMakeOfferValidation() {
	s.give("ELF", buyer, 10*elf)
	in := market.MakeOfferInput{Symbol: nft, OfferTo: seller, Quantity: 1, Price: elfPrice(elf)}

	bad := in
	bad.OfferTo = ""
	_, err := s.im.MakeOffer(s.ctx, buyer, bad)
	s.requireKind(err, domain.ErrBadParamInput, "Invalid param OfferTo.")

	_, err = s.im.MakeOffer(s.ctx, seller, in)
	s.requireKind(err, domain.ErrBadParamInput, "Origin owner cannot be sender himself.")

	bad = in
	bad.Quantity = 0
	_, err = s.im.MakeOffer(s.ctx, buyer, bad)
	s.requireKind(err, domain.ErrBadParamInput, "")

	bad = in
	bad.Price = domain.Price{Symbol: "USDT", Amount: 1}
	_, err = s.im.MakeOffer(s.ctx, buyer, bad)
	s.requireKind(err, domain.ErrBadParamInput, "Price symbol USDT not available.")

	bad = in
	bad.ExpireTime = ptr.Time(s.now)
	_, err = s.im.MakeOffer(s.ctx, buyer, bad)
	s.requireKind(err, domain.ErrBadParamInput, "Incorrect expire time.")

	bad = in
	bad.Quantity = 11
	_, err = s.im.MakeOffer(s.ctx, buyer, bad)
	s.requireKind(err, domain.ErrInsufficient, "Insufficient funds of ELF.")

	s.ledger.Approve("ELF", buyer, marketAddr, 0)
	_, err = s.im.MakeOffer(s.ctx, buyer, in)
	s.requireKind(err, domain.ErrInsufficient, "Insufficient allowance of ELF.")
}

func (s *marketSuite) TestOfferCapacity() {
	s.cfg.MaxOfferCount = 2
	s.build()
	s.give("ELF", buyer, 100*elf)

	s.offer(buyer, 1, elf)
	s.offer(buyer, 1, 2*elf)
	s.offer(buyer, 1, 2*elf)
	_, err := s.im.MakeOffer(s.ctx, buyer, market.MakeOfferInput{Symbol: nft, OfferTo: seller, Quantity: 1, Price: elfPrice(3 * elf)})
	s.requireKind(err, domain.ErrCapacity, "Too many offers.")
}

func (s *marketSuite) TestListingTimeNormalization() {
	s.give(nft, seller, 5)
	l, err := s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{
		Symbol:   nft,
		Price:    elfPrice(elf),
		Quantity: 1,
		Duration: market.ListDuration{
			StartTime:  ptr.Time(s.now.Add(-time.Hour)),
			PublicTime: ptr.Time(s.now.Add(-2 * time.Hour)),
		},
	})
	s.Require().NoError(err)
	s.Equal(s.now, l.StartTime)
	s.Equal(s.now, l.PublicTime)
	s.Equal(int64(720), l.DurationHours)
	s.Equal(s.now.Add(720*time.Hour), l.ExpireTime)
}

func (s *marketSuite) TestListingMerge() {
	s.give(nft, seller, 10)
	s.list(2, 5*elf)

	s.now = s.now.Add(10 * time.Second)
	l, err := s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{
		Symbol:                      nft,
		Price:                       elfPrice(5 * elf),
		Quantity:                    3,
		IsMergeToPreviousListedInfo: true,
	})
	s.Require().NoError(err)
	s.Equal(int64(5), l.Quantity)
	s.Len(s.listings(), 1)

	s.now = s.now.Add(10 * time.Second)
	s.list(1, 5*elf)
	s.Len(s.listings(), 2)

	last := s.pub.events[len(s.pub.events)-1]
	s.Equal(market.EventKindListing, last.Kind)
	s.Equal(market.EventTypeAdded, last.Type)
}

func (s *marketSuite) TestListingSameKeyDifferentWhitelist() {
	s.give(nft, seller, 10)
	s.list(1, 5*elf)

	_, err := s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{
		Symbol:   nft,
		Price:    elfPrice(5 * elf),
		Quantity: 1,
		Whitelist: []whitelist.Tier{{
			TagName:   "vip",
			Price:     elfPrice(elf),
			Addresses: []domain.Address{buyer},
		}},
	})
	s.requireKind(err, domain.ErrBadParamInput, "")

	s.list(1, 5*elf)
	ls := s.listings()
	s.Require().Len(ls, 1)
	s.Equal(int64(2), ls[0].Quantity)
}

func (s *marketSuite) TestListingValidation() {
	s.give(nft, seller, 5)
	in := market.ListWithFixedPriceInput{Symbol: nft, Price: elfPrice(elf), Quantity: 1}

	bad := in
	bad.Symbol = "XYZ-1"
	_, err := s.im.ListWithFixedPrice(s.ctx, seller, bad)
	s.requireKind(err, domain.ErrBadParamInput, "this NFT Info not exists.")

	bad = in
	bad.Price = domain.Price{Symbol: "USDT", Amount: 1}
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, bad)
	s.requireKind(err, domain.ErrBadParamInput, "Price symbol USDT not available.")

	bad = in
	bad.Price.Amount = 0
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, bad)
	s.requireKind(err, domain.ErrBadParamInput, "Incorrect listing price.")

	bad = in
	bad.Quantity = -1
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, bad)
	s.requireKind(err, domain.ErrBadParamInput, "Incorrect quantity.")

	bad = in
	bad.Whitelist = []whitelist.Tier{{TagName: "vip", Price: domain.Price{Symbol: "USDT", Amount: 1}, Addresses: []domain.Address{buyer}}}
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, bad)
	s.requireKind(err, domain.ErrBadParamInput, "Incorrect white list address price list.")

	bad = in
	bad.Whitelist = []whitelist.Tier{{TagName: "vip", Price: elfPrice(0), Addresses: []domain.Address{buyer}}}
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, bad)
	s.requireKind(err, domain.ErrBadParamInput, "Tag vip price too low.")

	bad = in
	bad.Quantity = 6
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, bad)
	s.requireKind(err, domain.ErrInsufficient, "Check sender NFT balance failed.")

	s.ledger.Approve(nft, seller, marketAddr, 0)
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, in)
	s.requireKind(err, domain.ErrInsufficient, "Insufficient allowance of ABC-1.")

	s.Len(s.listings(), 0)
	s.Len(s.pub.events, 0)
}

func (s *marketSuite) TestListingReservations() {
	s.give(nft, seller, 5)
	s.list(2, 5*elf)
	s.list(2, 6*elf)

	_, err := s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{Symbol: nft, Price: elfPrice(7 * elf), Quantity: 2})
	s.requireKind(err, domain.ErrInsufficient, "Check sender NFT balance failed.")

	total, err := s.im.GetTotalEffectiveListedNFTAmount(s.ctx, nft, seller)
	s.Require().NoError(err)
	s.Equal(&market.TotalAmount{TotalAmount: 4, Allowance: 5}, total)

	// expired listings free their quantity
	s.now = s.now.Add(720 * time.Hour)
	s.list(5, 7*elf)
}

func (s *marketSuite) TestListingCapacity() {
	s.cfg.MaxListCount = 2
	s.build()
	s.give(nft, seller, 10)
	s.list(1, 5*elf)
	s.list(1, 6*elf)

	_, err := s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{Symbol: nft, Price: elfPrice(7 * elf), Quantity: 1})
	s.requireKind(err, domain.ErrCapacity, "Too many listed items.")

	// merging adds no record
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{Symbol: nft, Price: elfPrice(5 * elf), Quantity: 1, IsMergeToPreviousListedInfo: true})
	s.NoError(err)

	// expired records don't count
	s.now = s.now.Add(time.Duration(s.cfg.DefaultDurationHours+1) * time.Hour)
	s.list(1, 7*elf)
	s.list(1, 8*elf)
	_, err = s.im.ListWithFixedPrice(s.ctx, seller, market.ListWithFixedPriceInput{Symbol: nft, Price: elfPrice(9 * elf), Quantity: 1})
	s.requireKind(err, domain.ErrCapacity, "Too many listed items.")
}

func (s *marketSuite) TestQuantityConservation() {
	s.give(nft, seller, 10)
	s.give("ELF", buyer, 100*elf)
	l := s.list(10, 5*elf)

	s.offer(buyer, 3, 5*elf)
	s.Require().NoError(s.im.Delist(s.ctx, seller, market.DelistInput{Symbol: nft, Price: pricePtr(elfPrice(5 * elf)), Quantity: 2}))
	_, err := s.im.BatchBuyNow(s.ctx, buyer, market.BatchBuyNowInput{Symbol: nft, FixPriceList: []market.FixPrice{
		{OfferTo: seller, StartTime: l.StartTime, Quantity: 1, Price: elfPrice(5 * elf)},
	}})
	s.Require().NoError(err)

	ls := s.listings()
	s.Require().Len(ls, 1)
	s.Equal(int64(10-3-2-1), ls[0].Quantity)

	// over-delisting removes the record
	s.Require().NoError(s.im.Delist(s.ctx, seller, market.DelistInput{Symbol: nft, Price: pricePtr(elfPrice(5 * elf)), Quantity: 100}))
	s.Len(s.listings(), 0)
}

func (s *marketSuite) TestDelist() {
	s.give(nft, seller, 10)
	first := s.list(2, 5*elf)
	s.now = s.now.Add(time.Minute)
	second := s.list(3, 5*elf)

	err := s.im.Delist(s.ctx, seller, market.DelistInput{Symbol: nft, Quantity: 1})
	s.requireKind(err, domain.ErrBadParamInput, "Need to specific list record.")

	err = s.im.Delist(s.ctx, seller, market.DelistInput{Symbol: nft, Price: pricePtr(elfPrice(5 * elf))})
	s.requireKind(err, domain.ErrBadParamInput, "Quantity must be a positive integer.")

	err = s.im.Delist(s.ctx, seller, market.DelistInput{Symbol: nft, Price: pricePtr(elfPrice(9 * elf)), Quantity: 1})
	s.requireKind(err, domain.ErrNotFound, "Listed NFT Info not exists. (Or already delisted.)")

	s.Require().NoError(s.im.Delist(s.ctx, seller, market.DelistInput{Symbol: nft, Price: pricePtr(elfPrice(5 * elf)), Quantity: 1, StartTime: ptr.Time(second.StartTime)}))
	ls := s.listings()
	s.Require().Len(ls, 2)
	s.Equal(first.Quantity, ls[0].Quantity)
	s.Equal(int64(2), ls[1].Quantity)

	s.Require().NoError(s.im.Delist(s.ctx, seller, market.DelistInput{Symbol: nft, Price: pricePtr(elfPrice(5 * elf)), Quantity: 2}))
	ls = s.listings()
	s.Require().Len(ls, 1)
	s.Equal(second.StartTime, ls[0].StartTime)

	last := s.pub.events[len(s.pub.events)-1]
	s.Equal(market.EventTypeRemoved, last.Type)
	s.Equal(int64(0), last.Listing.Quantity)
}

func (s *marketSuite) TestOwnerCancelRenumbers() {
	s.give("ELF", buyer, 100*elf)
	s.offer(buyer, 1, elf)
	s.offer(buyer, 1, 2*elf)
	s.offer(buyer, 1, 3*elf)

	n, err := s.im.CancelOffer(s.ctx, buyer, market.CancelOfferInput{Symbol: nft, OfferTo: seller, IndexList: []int{1, 1}})
	s.Require().NoError(err)
	s.Equal(1, n)

	bs := s.buckets(buyer)
	s.Require().Len(bs, 1)
	s.Require().Len(bs[0].Entries, 2)
	s.Equal(elfPrice(elf), bs[0].Entries[0].Price)
	s.Equal(elfPrice(3*elf), bs[0].Entries[1].Price)

	last := s.pub.events[len(s.pub.events)-1]
	s.Equal(market.EventKindOffer, last.Kind)
	s.Equal(market.EventTypeRemoved, last.Type)
	s.Equal(1, last.Offer.Index)

	_, err = s.im.CancelOffer(s.ctx, buyer, market.CancelOfferInput{Symbol: nft, OfferTo: seller, IndexList: []int{2}})
	s.requireKind(err, domain.ErrNotFound, "Offer not exists.")

	_, err = s.im.CancelOffer(s.ctx, buyer, market.CancelOfferInput{Symbol: nft, OfferTo: seller})
	s.requireKind(err, domain.ErrBadParamInput, "")
}

func (s *marketSuite) TestCancelBidNotSupported() {
	s.give("ELF", buyer, 100*elf)
	s.offer(buyer, 1, elf)

	_, err := s.im.CancelOffer(s.ctx, buyer, market.CancelOfferInput{Symbol: nft, OfferTo: seller, IndexList: []int{0}, IsCancelBid: true})
	s.requireKind(err, domain.ErrNotImplemented, "Cancel bid is not supported.")
	s.Require().Len(s.buckets(buyer), 1)
	s.Len(s.buckets(buyer)[0].Entries, 1)
}

func (s *marketSuite) TestNonOwnerCancelsExpiredOnly() {
	s.give("ELF", buyer, 100*elf)
	for i, hours := range []int{1, 5} {
		_, err := s.im.MakeOffer(s.ctx, buyer, market.MakeOfferInput{
			Symbol:     nft,
			OfferTo:    seller,
			Quantity:   1,
			Price:      elfPrice(int64(i+1) * elf),
			ExpireTime: ptr.Time(s.now.Add(time.Duration(hours) * time.Hour)),
		})
		s.Require().NoError(err)
	}

	s.now = s.now.Add(2 * time.Hour)
	n, err := s.im.CancelOffer(s.ctx, stranger, market.CancelOfferInput{Symbol: nft, OfferFrom: buyer, OfferTo: seller, IndexList: []int{0, 1}})
	s.Require().NoError(err)
	s.Equal(1, n)

	bs := s.buckets(buyer)
	s.Require().Len(bs, 1)
	s.Equal([]offer.Entry{{Price: elfPrice(2 * elf), Quantity: 1, ExpireTime: s.now.Add(3 * time.Hour)}}, bs[0].Entries)
}

func (s *marketSuite) TestReads() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 100*elf)
	s.list(2, 20*elf)
	s.offer(buyer, 2, 3*elf)
	_, err := s.im.MakeOffer(s.ctx, buyer, market.MakeOfferInput{
		Symbol:     nft,
		OfferTo:    seller,
		Quantity:   1,
		Price:      elfPrice(4 * elf),
		ExpireTime: ptr.Time(s.now.Add(time.Hour)),
	})
	s.Require().NoError(err)

	total, err := s.im.GetTotalOfferAmount(s.ctx, buyer, "ELF")
	s.Require().NoError(err)
	s.Equal(&market.TotalAmount{TotalAmount: 10 * elf, Allowance: 100 * elf}, total)

	s.now = s.now.Add(time.Hour)
	total, err = s.im.GetTotalOfferAmount(s.ctx, buyer, "ELF")
	s.Require().NoError(err)
	s.Equal(int64(6*elf), total.TotalAmount)

	all, err := s.im.GetOfferList(s.ctx, nft, buyer, "")
	s.Require().NoError(err)
	s.Len(all, 1)

	ls, err := s.im.GetListedNFTInfoList(s.ctx, nft, "")
	s.Require().NoError(err)
	s.Len(ls, 1)
}

func (s *marketSuite) TestTotalOfferOverflow() {
	half := int64(math.MaxInt64/2 + 1)
	for _, to := range []domain.Address{seller, stranger} {
		s.Require().NoError(s.world.Offers().Save(s.ctx, &offer.Bucket{Symbol: nft, From: buyer, To: to, Entries: []offer.Entry{
			{Price: elfPrice(half), Quantity: 1},
		}}))
	}

	_, err := s.im.GetTotalOfferAmount(s.ctx, buyer, "ELF")
	s.requireKind(err, domain.ErrBadParamInput, "Price overflow.")
}

func (s *marketSuite) TestEventsFollowCommit() {
	s.give(nft, seller, 5)
	s.give("ELF", buyer, 100*elf)
	s.list(5, 5*elf)
	s.Require().Len(s.pub.events, 1)

	s.offer(buyer, 1, 5*elf)
	s.Require().Len(s.pub.events, 3)
	s.Equal(market.EventKindListing, s.pub.events[1].Kind)
	s.Equal(market.EventTypeChanged, s.pub.events[1].Type)
	s.Equal(market.EventKindSold, s.pub.events[2].Kind)
	s.Equal(int64(1), s.pub.events[2].Fill.Quantity)
	s.Equal(s.now, s.pub.events[2].Time)

	// a failing publisher doesn't undo the commit
	s.pub.err = errors.New("boom")
	s.offer(buyer, 1, 5*elf)
	s.Equal(int64(3), s.listings()[0].Quantity)
}

func (s *marketSuite) TestEmptySender() {
	_, err := s.im.ListWithFixedPrice(s.ctx, "", market.ListWithFixedPriceInput{Symbol: nft})
	s.requireKind(err, domain.ErrBadParamInput, "Invalid sender.")
}
