package memory

import (
	"sort"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
)

type listingRepo struct {
	w *World
}

func (r *listingRepo) find(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	options, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	res := []*listing.Listing{}
	r.w.read(c, func(st *state) {
		for _, l := range st.listings {
			if options.Match(l) {
				cp := *l
				res = append(res, &cp)
			}
		}
	})

	sort.Slice(res, func(i, j int) bool {
		if !res[i].StartTime.Equal(res[j].StartTime) {
			return res[i].StartTime.Before(res[j].StartTime)
		}
		if res[i].Owner != res[j].Owner {
			return res[i].Owner < res[j].Owner
		}
		return res[i].Price.Amount < res[j].Price.Amount
	})
	return res, nil
}

func (r *listingRepo) FindAll(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	return r.find(c, opts...)
}

func (r *listingRepo) Count(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) (int, error) {
	res, err := r.find(c, opts...)
	return len(res), err
}

func (r *listingRepo) FindOne(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	var res *listing.Listing
	r.w.read(c, func(st *state) {
		if l, ok := st.listings[listingKey(id)]; ok {
			c := *l
			res = &c
		}
	})
	if res == nil {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

func (r *listingRepo) Upsert(c ctx.Ctx, l *listing.Listing) error {
	stored := *l
	stored.LowerCase()
	r.w.write(c, func(st *state) {
		st.listings[listingKey(stored.ToId())] = &stored
	})
	return nil
}

func (r *listingRepo) Remove(c ctx.Ctx, id listing.Id) error {
	found := false
	r.w.write(c, func(st *state) {
		key := listingKey(id)
		if _, found = st.listings[key]; found {
			delete(st.listings, key)
		}
	})
	if !found {
		return domain.ErrNotFound
	}
	return nil
}
