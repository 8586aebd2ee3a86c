package usecase

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/base/metrics"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/ledger"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/domain/offer"
	"github.com/x-xyz/nftmarket/domain/whitelist"
)

var (
	newEventId = uuid.NewString
)

type MarketUseCaseCfg struct {
	ListingRepo    listing.Repo
	OfferRepo      offer.Repo
	Ledger         ledger.Ledger
	Gate           whitelist.Gate
	ConfigProvider market.ConfigProvider
	Transactor     market.Transactor
	// Publisher is optional, events are dropped without one.
	Publisher market.Publisher
	Metrics   metrics.Service
	// TimeNow defaults to time.Now.
	TimeNow func() time.Time
}

type impl struct {
	listingRepo listing.Repo
	offerRepo   offer.Repo
	ledger      ledger.Ledger
	gate        whitelist.Gate
	config      market.ConfigProvider
	transactor  market.Transactor
	publisher   market.Publisher
	met         metrics.Service
	timeNow     func() time.Time
}

func New(cfg *MarketUseCaseCfg) market.UseCase {
	im := &impl{
		listingRepo: cfg.ListingRepo,
		offerRepo:   cfg.OfferRepo,
		ledger:      cfg.Ledger,
		gate:        cfg.Gate,
		config:      cfg.ConfigProvider,
		transactor:  cfg.Transactor,
		publisher:   cfg.Publisher,
		met:         cfg.Metrics,
		timeNow:     cfg.TimeNow,
	}
	if im.met == nil {
		im.met = metrics.New("market")
	}
	if im.timeNow == nil {
		im.timeNow = time.Now
	}
	return im
}

// session is the state of one operation. now is read once, at second precision.
type session struct {
	ctx    ctx.Ctx
	cfg    *market.Config
	sender domain.Address
	now    time.Time
	events []market.Event
	fills  []market.Fill
}

func (s *session) emit(kind market.EventKind, typ market.EventType, symbol string, fill func(e *market.Event)) {
	e := market.Event{
		Id:     newEventId(),
		Kind:   kind,
		Type:   typ,
		Symbol: symbol,
		Time:   s.now,
	}
	fill(&e)
	s.events = append(s.events, e)
}

func (s *session) listingChanged(typ market.EventType, l *listing.Listing) {
	snapshot := *l
	s.emit(market.EventKindListing, typ, l.Symbol, func(e *market.Event) {
		e.Listing = &snapshot
	})
}

func (s *session) offerChanged(typ market.EventType, b *offer.Bucket, index int, entry offer.Entry) {
	s.emit(market.EventKindOffer, typ, b.Symbol, func(e *market.Event) {
		e.Offer = &market.OfferRecord{From: b.From, To: b.To, Index: index, Entry: entry}
	})
}

func (s *session) sold(f market.Fill) {
	s.fills = append(s.fills, f)
	s.emit(market.EventKindSold, market.EventTypeAdded, f.Symbol, func(e *market.Event) {
		e.Fill = &f
	})
}

func (im *impl) newSession(c ctx.Ctx, sender domain.Address) (*session, error) {
	cfg, err := im.config.GetConfig(c)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to config.GetConfig")
		return nil, err
	}
	return &session{
		ctx:    c,
		cfg:    cfg,
		sender: sender.ToLower(),
		now:    im.timeNow().UTC().Truncate(time.Second),
	}, nil
}

// run executes fn in one transaction and publishes the collected events once it commits.
func (im *impl) run(c ctx.Ctx, op string, sender domain.Address, fn func(s *session) error) error {
	defer im.met.BumpTime(op + ".time").End()

	if sender.IsEmpty() {
		im.met.BumpSum(op+".err", 1)
		return domain.BadParam("Invalid sender.")
	}

	s, err := im.newSession(c, sender)
	if err != nil {
		im.met.BumpSum(op+".err", 1)
		return err
	}

	if err := im.transactor.RunWithTransaction(c, func(tc ctx.Ctx) error {
		s.ctx = tc
		s.events = nil
		s.fills = nil
		return fn(s)
	}); err != nil {
		im.met.BumpSum(op+".err", 1)
		fields := log.Fields{
			"err":    err,
			"op":     op,
			"sender": sender,
		}
		var me *domain.MarketError
		if errors.As(err, &me) {
			c.WithFields(fields).Info("operation rejected")
		} else {
			c.WithFields(fields).Error("failed to transactor.RunWithTransaction")
		}
		return err
	}

	for _, f := range s.fills {
		im.met.BumpSum("fill.count", 1, "op", op)
		im.met.BumpSum("fill.quantity", float64(f.Quantity), "op", op)
	}

	if im.publisher != nil && len(s.events) > 0 {
		if err := im.publisher.Publish(c, s.events); err != nil {
			// committed already, subscribers resync from the stores
			c.WithFields(log.Fields{
				"err": err,
				"op":  op,
			}).Warn("failed to publisher.Publish")
		}
	}
	return nil
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
