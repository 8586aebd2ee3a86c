package memory

import (
	"sort"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/offer"
)

type offerRepo struct {
	w *World
}

func (r *offerRepo) FindAll(c ctx.Ctx, opts ...offer.FindAllOptionsFunc) ([]*offer.Bucket, error) {
	options, err := offer.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	res := []*offer.Bucket{}
	r.w.read(c, func(st *state) {
		for _, b := range st.offers {
			if options.Match(b) {
				res = append(res, b.Clone())
			}
		}
	})

	sort.Slice(res, func(i, j int) bool {
		if res[i].Symbol != res[j].Symbol {
			return res[i].Symbol < res[j].Symbol
		}
		if res[i].From != res[j].From {
			return res[i].From < res[j].From
		}
		return res[i].To < res[j].To
	})
	return res, nil
}

func (r *offerRepo) FindOne(c ctx.Ctx, id offer.Id) (*offer.Bucket, error) {
	var res *offer.Bucket
	r.w.read(c, func(st *state) {
		if b, ok := st.offers[offerKey(id)]; ok {
			res = b.Clone()
		}
	})
	if res == nil {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

func (r *offerRepo) Save(c ctx.Ctx, b *offer.Bucket) error {
	stored := b.Clone()
	stored.From = stored.From.ToLower()
	stored.To = stored.To.ToLower()
	r.w.write(c, func(st *state) {
		key := offerKey(stored.ToId())
		if stored.IsEmpty() {
			delete(st.offers, key)
			return
		}
		st.offers[key] = stored
	})
	return nil
}
