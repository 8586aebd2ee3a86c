// Package memory keeps the whole market state in process: listings, offers, token ledger
// and whitelists, with staged, copy-on-commit transactions.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/ledger"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/offer"
	"github.com/x-xyz/nftmarket/domain/whitelist"
)

type state struct {
	listings   map[string]*listing.Listing
	offers     map[string]*offer.Bucket
	tokens     map[string]*ledger.TokenInfo
	balances   map[string]int64
	allowances map[string]int64
	whitelists map[string]*whitelist.Whitelist
}

func newState() *state {
	return &state{
		listings:   map[string]*listing.Listing{},
		offers:     map[string]*offer.Bucket{},
		tokens:     map[string]*ledger.TokenInfo{},
		balances:   map[string]int64{},
		allowances: map[string]int64{},
		whitelists: map[string]*whitelist.Whitelist{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.listings {
		l := *v
		c.listings[k] = &l
	}
	for k, v := range s.offers {
		c.offers[k] = v.Clone()
	}
	for k, v := range s.tokens {
		t := *v
		c.tokens[k] = &t
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.allowances {
		c.allowances[k] = v
	}
	for k, v := range s.whitelists {
		c.whitelists[k] = cloneWhitelist(v)
	}
	return c
}

func cloneWhitelist(w *whitelist.Whitelist) *whitelist.Whitelist {
	c := *w
	c.Tiers = make([]whitelist.Tier, len(w.Tiers))
	for i, t := range w.Tiers {
		t.Addresses = append([]domain.Address(nil), t.Addresses...)
		c.Tiers[i] = t
	}
	return &c
}

// World is the in-memory market state. Transactions are serialized and work on a private
// copy that replaces the committed state only when run succeeds, so readers outside a
// transaction never see uncommitted changes.
type World struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state

	timeNow func() time.Time
}

type txKey struct{}

func New() *World {
	return &World{
		st:      newState(),
		timeNow: time.Now,
	}
}

// staged returns the private state of the transaction c runs in, nil outside one.
func staged(c ctx.Ctx) *state {
	if c.Context == nil {
		return nil
	}
	st, _ := c.Value(txKey{}).(*state)
	return st
}

func (w *World) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) (err error) {
	// already inside one, join it
	if staged(c) != nil {
		return run(c)
	}

	w.txMu.Lock()
	defer w.txMu.Unlock()

	w.mu.RLock()
	work := w.st.clone()
	w.mu.RUnlock()

	tc := ctx.From(c, context.WithValue(c, txKey{}, work))

	defer func() {
		if r := recover(); r != nil {
			c.WithField("panic", r).Error("transaction panicked, rolled back")
			panic(r)
		}
	}()

	if err = run(tc); err != nil {
		c.WithFields(log.Fields{"err": err}).Debug("transaction rolled back")
		return err
	}

	w.mu.Lock()
	w.st = work
	w.mu.Unlock()
	return nil
}

func (w *World) read(c ctx.Ctx, fn func(st *state)) {
	if st := staged(c); st != nil {
		fn(st)
		return
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(w.st)
}

// write outside a transaction commits at once, and waits for a running transaction to finish.
func (w *World) write(c ctx.Ctx, fn func(st *state)) {
	if st := staged(c); st != nil {
		fn(st)
		return
	}
	w.txMu.Lock()
	defer w.txMu.Unlock()
	w.setup(fn)
}

// setup changes the committed state directly, for seeding.
func (w *World) setup(fn func(st *state)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.st)
}

func (w *World) Listings() listing.Repo {
	return &listingRepo{w}
}

func (w *World) Offers() offer.Repo {
	return &offerRepo{w}
}

func (w *World) Ledger() *Ledger {
	return &Ledger{w}
}

func (w *World) Whitelists() whitelist.Service {
	return &whitelistService{w}
}

func listingKey(id listing.Id) string {
	return fmt.Sprintf("%s|%s|%s|%d|%d", id.Symbol, id.Owner.ToLower(), id.PriceSymbol, id.PriceAmount, id.StartTime.UnixNano())
}

func offerKey(id offer.Id) string {
	return fmt.Sprintf("%s|%s|%s", id.Symbol, id.From.ToLower(), id.To.ToLower())
}

func balanceKey(symbol string, owner domain.Address) string {
	return symbol + "|" + owner.ToLowerStr()
}

func allowanceKey(symbol string, owner, spender domain.Address) string {
	return symbol + "|" + owner.ToLowerStr() + "|" + spender.ToLowerStr()
}
