package memory

import (
	"github.com/google/uuid"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/whitelist"
)

type whitelistService struct {
	w *World
}

func (s *whitelistService) CreateWhitelist(c ctx.Ctx, in whitelist.CreateInput) (string, error) {
	wl := cloneWhitelist(&whitelist.Whitelist{
		Id:          uuid.NewString(),
		Symbol:      in.Symbol,
		Creator:     in.Creator.ToLower(),
		Tiers:       in.Tiers,
		IsAvailable: in.IsAvailable,
		CreatedAt:   s.w.timeNow(),
	})
	s.w.write(c, func(st *state) {
		st.whitelists[wl.Id] = wl
	})
	return wl.Id, nil
}

func (s *whitelistService) GetWhitelistDetail(c ctx.Ctx, id string) (*whitelist.Whitelist, error) {
	var res *whitelist.Whitelist
	s.w.read(c, func(st *state) {
		if wl, ok := st.whitelists[id]; ok {
			res = cloneWhitelist(wl)
		}
	})
	if res == nil {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

func (s *whitelistService) GetExtraInfoByAddress(c ctx.Ctx, id string, address domain.Address) (*whitelist.ExtraInfo, error) {
	wl, err := s.GetWhitelistDetail(c, id)
	if err != nil {
		return nil, err
	}
	if info := wl.ExtraInfoOf(address); info != nil {
		return info, nil
	}
	return nil, domain.ErrNotFound
}
