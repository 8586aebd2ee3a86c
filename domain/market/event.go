package market

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/offer"
)

type EventKind string

const (
	EventKindListing EventKind = "listing"
	EventKindOffer   EventKind = "offer"
	EventKindSold    EventKind = "sold"
)

type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeChanged EventType = "changed"
	EventTypeRemoved EventType = "removed"
)

type OfferRecord struct {
	From  domain.Address `json:"from"`
	To    domain.Address `json:"to"`
	Index int            `json:"index"`
	Entry offer.Entry    `json:"entry"`
}

// Event is emitted for every store change and fill, after the operation commits.
type Event struct {
	Id      string           `json:"id"`
	Kind    EventKind        `json:"kind"`
	Type    EventType        `json:"type"`
	Symbol  string           `json:"symbol"`
	Listing *listing.Listing `json:"listing,omitempty"`
	Offer   *OfferRecord     `json:"offer,omitempty"`
	Fill    *Fill            `json:"fill,omitempty"`
	Time    time.Time        `json:"time"`
}

type Publisher interface {
	Publish(ctx ctx.Ctx, events []Event) error
}

// Transactor runs fn atomically, every change made inside is dropped when fn fails.
type Transactor interface {
	RunWithTransaction(ctx ctx.Ctx, fn func(ctx.Ctx) error) error
}
