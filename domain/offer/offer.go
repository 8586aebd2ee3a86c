package offer

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

// Entry is one standing buy order. Its index is its position in the bucket.
type Entry struct {
	Price    domain.Price `json:"price" bson:"price"`
	Quantity int64        `json:"quantity" bson:"quantity"`
	// zero means the entry never expires
	ExpireTime time.Time `json:"expireTime" bson:"expireTime"`
}

func (e *Entry) IsExpired(now time.Time) bool {
	return !e.ExpireTime.IsZero() && !now.Before(e.ExpireTime)
}

// Bucket holds every entry one buyer has on one series toward one seller.
type Bucket struct {
	Symbol  string         `json:"symbol" bson:"symbol"`
	From    domain.Address `json:"from" bson:"from"`
	To      domain.Address `json:"to" bson:"to"`
	Entries []Entry        `json:"entries" bson:"entries"`
}

type Id struct {
	Symbol string         `json:"symbol" bson:"symbol"`
	From   domain.Address `json:"from" bson:"from"`
	To     domain.Address `json:"to" bson:"to"`
}

func (b *Bucket) ToId() Id {
	return Id{Symbol: b.Symbol, From: b.From, To: b.To}
}

func (b *Bucket) IsEmpty() bool {
	return len(b.Entries) == 0
}

// IndexOf returns the first entry at exactly price that is still valid at now, or -1.
func (b *Bucket) IndexOf(price domain.Price, now time.Time) int {
	for i := range b.Entries {
		if b.Entries[i].Price.Equals(price) && !b.Entries[i].IsExpired(now) {
			return i
		}
	}
	return -1
}

// RemoveAt drops the entries at the given indexes and renumbers the rest. Indexes must be in range.
func (b *Bucket) RemoveAt(indexes ...int) {
	drop := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		drop[idx] = true
	}
	kept := make([]Entry, 0, len(b.Entries))
	for i, e := range b.Entries {
		if !drop[i] {
			kept = append(kept, e)
		}
	}
	b.Entries = kept
}

func (b *Bucket) Clone() *Bucket {
	c := *b
	c.Entries = append([]Entry(nil), b.Entries...)
	return &c
}

type FindAllOptions struct {
	Symbol *string
	From   *domain.Address
	To     *domain.Address
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

func WithFrom(from domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		from = from.ToLower()
		options.From = &from
		return nil
	}
}

func WithTo(to domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		to = to.ToLower()
		options.To = &to
		return nil
	}
}

func (o FindAllOptions) Match(b *Bucket) bool {
	if o.Symbol != nil && b.Symbol != *o.Symbol {
		return false
	}
	if o.From != nil && !b.From.Equals(*o.From) {
		return false
	}
	if o.To != nil && !b.To.Equals(*o.To) {
		return false
	}
	return true
}

// Repo stores offer buckets. Save removes a bucket that has no entries left.
type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Bucket, error)
	FindOne(ctx ctx.Ctx, id Id) (*Bucket, error)
	Save(ctx ctx.Ctx, bucket *Bucket) error
}
