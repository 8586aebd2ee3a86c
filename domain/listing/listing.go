package listing

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

// Listing is a fixed price sell record of one NFT series by one owner.
type Listing struct {
	Symbol        string         `json:"symbol" bson:"symbol"`
	Owner         domain.Address `json:"owner" bson:"owner"`
	Price         domain.Price   `json:"price" bson:"price"`
	Quantity      int64          `json:"quantity" bson:"quantity"`
	StartTime     time.Time      `json:"startTime" bson:"startTime"`
	PublicTime    time.Time      `json:"publicTime" bson:"publicTime"`
	DurationHours int64          `json:"durationHours" bson:"durationHours"`
	// zero means the listing never expires
	ExpireTime time.Time `json:"expireTime" bson:"expireTime"`

	WhitelistId          string `json:"whitelistId,omitempty" bson:"whitelistId,omitempty"`
	WhitelistDigest      string `json:"-" bson:"whitelistDigest,omitempty"`
	IsWhitelistAvailable bool   `json:"isWhitelistAvailable" bson:"isWhitelistAvailable"`
}

type Id struct {
	Symbol      string         `json:"symbol" bson:"symbol"`
	Owner       domain.Address `json:"owner" bson:"owner"`
	PriceSymbol string         `json:"priceSymbol" bson:"price.symbol"`
	PriceAmount int64          `json:"priceAmount" bson:"price.amount"`
	StartTime   time.Time      `json:"startTime" bson:"startTime"`
}

func (l *Listing) ToId() Id {
	return Id{
		Symbol:      l.Symbol,
		Owner:       l.Owner,
		PriceSymbol: l.Price.Symbol,
		PriceAmount: l.Price.Amount,
		StartTime:   l.StartTime,
	}
}

func (l *Listing) IsExpired(now time.Time) bool {
	return !l.ExpireTime.IsZero() && !now.Before(l.ExpireTime)
}

// HasWhitelist reports whether whitelisted buyers may fill before the public time.
func (l *Listing) HasWhitelist() bool {
	return l.WhitelistId != "" && l.IsWhitelistAvailable
}

func (l *Listing) LowerCase() {
	l.Owner = l.Owner.ToLower()
}

type FindAllOptions struct {
	Symbol       *string
	Owner        *domain.Address
	Price        *domain.Price
	ExpireTimeGT *time.Time
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithSymbol(symbol string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Symbol = &symbol
		return nil
	}
}

func WithOwner(owner domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		owner = owner.ToLower()
		options.Owner = &owner
		return nil
	}
}

func WithPrice(price domain.Price) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Price = &price
		return nil
	}
}

// WithNotExpiredAt keeps listings without expiry or expiring after t.
func WithNotExpiredAt(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ExpireTimeGT = &t
		return nil
	}
}

// Repo stores listings. FindAll returns records ordered by start time.
type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	FindOne(ctx ctx.Ctx, id Id) (*Listing, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	Upsert(ctx ctx.Ctx, listing *Listing) error
	Remove(ctx ctx.Ctx, id Id) error
}

// Match applies the options to one listing, the in-memory twin of the mongo filter.
func (o FindAllOptions) Match(l *Listing) bool {
	if o.Symbol != nil && l.Symbol != *o.Symbol {
		return false
	}
	if o.Owner != nil && !l.Owner.Equals(*o.Owner) {
		return false
	}
	if o.Price != nil && !l.Price.Equals(*o.Price) {
		return false
	}
	if o.ExpireTimeGT != nil && l.IsExpired(*o.ExpireTimeGT) {
		return false
	}
	return true
}
