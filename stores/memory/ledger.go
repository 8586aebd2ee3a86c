package memory

import (
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/ledger"
)

// Ledger is the in-memory token ledger. The setup methods are used to seed tokens and funds.
type Ledger struct {
	w *World
}

func (l *Ledger) AddToken(info ledger.TokenInfo) {
	l.w.setup(func(st *state) {
		st.tokens[info.Symbol] = &info
	})
}

func (l *Ledger) Mint(symbol string, owner domain.Address, amount int64) {
	l.w.setup(func(st *state) {
		st.balances[balanceKey(symbol, owner)] += amount
	})
}

func (l *Ledger) Approve(symbol string, owner, spender domain.Address, amount int64) {
	l.w.setup(func(st *state) {
		st.allowances[allowanceKey(symbol, owner, spender)] = amount
	})
}

func (l *Ledger) GetTokenInfo(c ctx.Ctx, symbol string) (*ledger.TokenInfo, error) {
	var res *ledger.TokenInfo
	l.w.read(c, func(st *state) {
		if t, ok := st.tokens[symbol]; ok {
			info := *t
			res = &info
		}
	})
	if res == nil {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

func (l *Ledger) GetBalance(c ctx.Ctx, symbol string, owner domain.Address) (int64, error) {
	var res int64
	l.w.read(c, func(st *state) {
		res = st.balances[balanceKey(symbol, owner)]
	})
	return res, nil
}

func (l *Ledger) GetAllowance(c ctx.Ctx, symbol string, owner, spender domain.Address) (int64, error) {
	var res int64
	l.w.read(c, func(st *state) {
		res = st.allowances[allowanceKey(symbol, owner, spender)]
	})
	return res, nil
}

func (l *Ledger) TransferFrom(c ctx.Ctx, in ledger.TransferFromInput) error {
	if in.Amount < 0 {
		return domain.BadParam("Invalid amount.")
	}
	if in.Amount == 0 {
		return nil
	}

	var err error
	l.w.write(c, func(st *state) {
		if _, ok := st.tokens[in.Symbol]; !ok {
			err = domain.NotFound("Token %s not exists.", in.Symbol)
			return
		}

		aKey := allowanceKey(in.Symbol, in.From, in.Spender)
		if st.allowances[aKey] < in.Amount {
			err = domain.Insufficient("Insufficient allowance of %s.", in.Symbol)
			return
		}
		fromKey := balanceKey(in.Symbol, in.From)
		if st.balances[fromKey] < in.Amount {
			err = domain.Insufficient("Insufficient balance of %s.", in.Symbol)
			return
		}

		st.allowances[aKey] -= in.Amount
		st.balances[fromKey] -= in.Amount
		st.balances[balanceKey(in.Symbol, in.To)] += in.Amount
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "in": in}).Warn("TransferFrom rejected")
	}
	return err
}
