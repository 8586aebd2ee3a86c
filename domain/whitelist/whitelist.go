package whitelist

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
)

// Tier grants its addresses the tier price before a listing's public time.
type Tier struct {
	TagName   string           `json:"tagName" bson:"tagName"`
	Price     domain.Price     `json:"price" bson:"price"`
	Addresses []domain.Address `json:"addresses" bson:"addresses"`
}

// ExtraInfo is the tier an address belongs to.
type ExtraInfo struct {
	Address domain.Address `json:"address"`
	TagName string         `json:"tagName"`
	Price   domain.Price   `json:"price"`
}

type Whitelist struct {
	Id          string         `json:"id" bson:"id"`
	Symbol      string         `json:"symbol" bson:"symbol"`
	Creator     domain.Address `json:"creator" bson:"creator"`
	Tiers       []Tier         `json:"tiers" bson:"tiers"`
	IsAvailable bool           `json:"isAvailable" bson:"isAvailable"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
}

// ExtraInfoOf finds the tier of address, nil when not listed.
func (w *Whitelist) ExtraInfoOf(address domain.Address) *ExtraInfo {
	for _, t := range w.Tiers {
		for _, a := range t.Addresses {
			if a.Equals(address) {
				return &ExtraInfo{Address: address.ToLower(), TagName: t.TagName, Price: t.Price}
			}
		}
	}
	return nil
}

type CreateInput struct {
	Symbol      string
	Creator     domain.Address
	Tiers       []Tier
	IsAvailable bool
}

// Service is the external whitelist registry.
type Service interface {
	CreateWhitelist(ctx ctx.Ctx, in CreateInput) (string, error)
	// GetExtraInfoByAddress returns domain.ErrNotFound when the address is in no tier.
	GetExtraInfoByAddress(ctx ctx.Ctx, id string, address domain.Address) (*ExtraInfo, error)
	GetWhitelistDetail(ctx ctx.Ctx, id string) (*Whitelist, error)
}

// Gate decides who may fill a listing at which price.
type Gate interface {
	// Evaluate returns the price buyer pays for l at now, nil when buyer can't fill it yet.
	Evaluate(ctx ctx.Ctx, l *listing.Listing, buyer domain.Address, now time.Time) (*domain.Price, error)
	Create(ctx ctx.Ctx, in CreateInput) (string, error)
}

// ValidateTiers checks a tier configuration against the listing price.
func ValidateTiers(tiers []Tier, listPrice domain.Price) error {
	if len(tiers) == 0 {
		return domain.BadParam("Incorrect white list address price list.")
	}

	seen := map[domain.Address]bool{}
	for _, t := range tiers {
		if len(t.Addresses) == 0 || t.Price.Symbol != listPrice.Symbol {
			return domain.BadParam("Incorrect white list address price list.")
		}
		if t.Price.Amount <= 0 {
			return domain.BadParam("Tag %s price too low.", t.TagName)
		}
		for _, a := range t.Addresses {
			a = a.ToLower()
			if a.IsEmpty() || seen[a] {
				return domain.BadParam("Incorrect white list address price list.")
			}
			seen[a] = true
		}
	}
	return nil
}

// Digest is a stable hash of the tier configuration, independent of tier and address order.
func Digest(tiers []Tier, isAvailable bool) string {
	canon := make([]Tier, len(tiers))
	for i, t := range tiers {
		addrs := make([]domain.Address, len(t.Addresses))
		for j, a := range t.Addresses {
			addrs[j] = a.ToLower()
		}
		sort.Slice(addrs, func(x, y int) bool { return addrs[x] < addrs[y] })
		canon[i] = Tier{TagName: t.TagName, Price: t.Price, Addresses: addrs}
	}
	sort.Slice(canon, func(x, y int) bool {
		if canon[x].TagName != canon[y].TagName {
			return canon[x].TagName < canon[y].TagName
		}
		return canon[x].Price.Amount < canon[y].Price.Amount
	})

	b, _ := json.Marshal(struct {
		Tiers       []Tier `json:"tiers"`
		IsAvailable bool   `json:"isAvailable"`
	}{canon, isAvailable})
	return crypto.Keccak256Hash(b).Hex()
}
