package market

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/offer"
	"github.com/x-xyz/nftmarket/domain/whitelist"
)

// Fill is one settled trade.
type Fill struct {
	Symbol     string         `json:"symbol"`
	Seller     domain.Address `json:"seller"`
	Buyer      domain.Address `json:"buyer"`
	Quantity   int64          `json:"quantity"`
	Price      domain.Price   `json:"price"`
	ServiceFee int64          `json:"serviceFee"`
}

type ListDuration struct {
	StartTime     *time.Time `json:"startTime"`
	PublicTime    *time.Time `json:"publicTime"`
	DurationHours int64      `json:"durationHours"`
}

type ListWithFixedPriceInput struct {
	Symbol                      string           `json:"symbol" validate:"required"`
	Price                       domain.Price     `json:"price"`
	Quantity                    int64            `json:"quantity"`
	Duration                    ListDuration     `json:"duration"`
	Whitelist                   []whitelist.Tier `json:"whitelist"`
	IsWhitelistAvailable        bool             `json:"isWhitelistAvailable"`
	IsMergeToPreviousListedInfo bool             `json:"isMergeToPreviousListedInfo"`
}

type MakeOfferInput struct {
	Symbol     string         `json:"symbol" validate:"required"`
	OfferTo    domain.Address `json:"offerTo"`
	Quantity   int64          `json:"quantity"`
	Price      domain.Price   `json:"price"`
	ExpireTime *time.Time     `json:"expireTime"`
}

type MakeOfferOutput struct {
	Fills []Fill `json:"fills"`
	// Residual is the standing entry the unfilled rest merged into, nil when fully filled.
	Residual      *offer.Entry `json:"residual,omitempty"`
	ResidualIndex int          `json:"residualIndex"`
}

type DealInput struct {
	Symbol    string         `json:"symbol" validate:"required"`
	OfferFrom domain.Address `json:"offerFrom"`
	Price     domain.Price   `json:"price"`
	Quantity  int64          `json:"quantity"`
}

type DelistInput struct {
	Symbol    string        `json:"symbol" validate:"required"`
	Price     *domain.Price `json:"price"`
	Quantity  int64         `json:"quantity"`
	StartTime *time.Time    `json:"startTime"`
}

type CancelOfferInput struct {
	Symbol string `json:"symbol" validate:"required"`
	// empty means the sender
	OfferFrom   domain.Address `json:"offerFrom"`
	OfferTo     domain.Address `json:"offerTo"`
	IndexList   []int          `json:"indexList"`
	IsCancelBid bool           `json:"isCancelBid"`
}

type FixPrice struct {
	OfferTo   domain.Address `json:"offerTo"`
	StartTime time.Time      `json:"startTime"`
	Quantity  int64          `json:"quantity"`
	Price     domain.Price   `json:"price"`
}

type BatchBuyNowInput struct {
	Symbol       string     `json:"symbol" validate:"required"`
	FixPriceList []FixPrice `json:"fixPriceList"`
}

type TotalAmount struct {
	TotalAmount int64 `json:"totalAmount"`
	Allowance   int64 `json:"allowance"`
}

type UseCase interface {
	ListWithFixedPrice(ctx ctx.Ctx, sender domain.Address, in ListWithFixedPriceInput) (*listing.Listing, error)
	MakeOffer(ctx ctx.Ctx, sender domain.Address, in MakeOfferInput) (*MakeOfferOutput, error)
	Deal(ctx ctx.Ctx, sender domain.Address, in DealInput) (*Fill, error)
	Delist(ctx ctx.Ctx, sender domain.Address, in DelistInput) error
	// CancelOffer returns the number of removed entries.
	CancelOffer(ctx ctx.Ctx, sender domain.Address, in CancelOfferInput) (int, error)
	BatchBuyNow(ctx ctx.Ctx, sender domain.Address, in BatchBuyNowInput) ([]Fill, error)

	GetListedNFTInfoList(ctx ctx.Ctx, symbol string, owner domain.Address) ([]*listing.Listing, error)
	// GetOfferList returns the buckets made by from, narrowed to one seller when to is set.
	GetOfferList(ctx ctx.Ctx, symbol string, from, to domain.Address) ([]*offer.Bucket, error)
	GetTotalOfferAmount(ctx ctx.Ctx, address domain.Address, priceSymbol string) (*TotalAmount, error)
	GetTotalEffectiveListedNFTAmount(ctx ctx.Ctx, symbol string, address domain.Address) (*TotalAmount, error)
}
