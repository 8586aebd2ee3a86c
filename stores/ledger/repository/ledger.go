package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/ledger"
	"github.com/x-xyz/nftmarket/service/query"
)

type balance struct {
	Symbol  string         `bson:"symbol"`
	Owner   domain.Address `bson:"owner"`
	Balance int64          `bson:"balance"`
}

type allowance struct {
	Symbol    string         `bson:"symbol"`
	Owner     domain.Address `bson:"owner"`
	Spender   domain.Address `bson:"spender"`
	Allowance int64          `bson:"allowance"`
}

type impl struct {
	q query.Mongo
}

// New is the reference ledger kept next to the market collections, so transfers join the
// market's session transaction.
func New(q query.Mongo) ledger.Ledger {
	return &impl{q}
}

func balanceQuery(symbol string, owner domain.Address) bson.M {
	return bson.M{"symbol": symbol, "owner": owner.ToLower()}
}

func allowanceQuery(symbol string, owner, spender domain.Address) bson.M {
	return bson.M{"symbol": symbol, "owner": owner.ToLower(), "spender": spender.ToLower()}
}

func (im *impl) GetTokenInfo(c ctx.Ctx, symbol string) (*ledger.TokenInfo, error) {
	res := ledger.TokenInfo{}
	if err := im.q.FindOne(c, domain.TableTokens, bson.M{"symbol": symbol}, &res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return &res, nil
}

func (im *impl) GetBalance(c ctx.Ctx, symbol string, owner domain.Address) (int64, error) {
	res := balance{}
	if err := im.q.FindOne(c, domain.TableBalances, balanceQuery(symbol, owner), &res); err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"symbol": symbol,
			"owner":  owner,
		}).Error("failed to q.FindOne")
		return 0, err
	}
	return res.Balance, nil
}

func (im *impl) GetAllowance(c ctx.Ctx, symbol string, owner, spender domain.Address) (int64, error) {
	res := allowance{}
	if err := im.q.FindOne(c, domain.TableAllowances, allowanceQuery(symbol, owner, spender), &res); err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"symbol":  symbol,
			"owner":   owner,
			"spender": spender,
		}).Error("failed to q.FindOne")
		return 0, err
	}
	return res.Allowance, nil
}

// TransferFrom must run inside a transaction, the checks and the three increments are not atomic on their own.
func (im *impl) TransferFrom(c ctx.Ctx, in ledger.TransferFromInput) error {
	if in.Amount < 0 {
		return domain.BadParam("Invalid amount.")
	}
	if in.Amount == 0 {
		return nil
	}

	if _, err := im.GetTokenInfo(c, in.Symbol); err == domain.ErrNotFound {
		return domain.NotFound("Token %s not exists.", in.Symbol)
	} else if err != nil {
		return err
	}

	allowed, err := im.GetAllowance(c, in.Symbol, in.From, in.Spender)
	if err != nil {
		return err
	}
	if allowed < in.Amount {
		return domain.Insufficient("Insufficient allowance of %s.", in.Symbol)
	}

	bal, err := im.GetBalance(c, in.Symbol, in.From)
	if err != nil {
		return err
	}
	if bal < in.Amount {
		return domain.Insufficient("Insufficient balance of %s.", in.Symbol)
	}

	if err := im.q.IncrementMany(c, domain.TableAllowances, allowanceQuery(in.Symbol, in.From, in.Spender), bson.M{"allowance": -in.Amount}, nil, &allowance{}); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"in":  in,
		}).Error("failed to decrease allowance")
		return xerrors.Errorf("failed to decrease allowance of %s: %w", in.Symbol, err)
	}
	if err := im.q.IncrementMany(c, domain.TableBalances, balanceQuery(in.Symbol, in.From), bson.M{"balance": -in.Amount}, nil, &balance{}); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"in":  in,
		}).Error("failed to decrease balance")
		return xerrors.Errorf("failed to decrease balance of %s: %w", in.Symbol, err)
	}
	if err := im.q.IncrementMany(c, domain.TableBalances, balanceQuery(in.Symbol, in.To), bson.M{"balance": in.Amount}, nil, &balance{}); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"in":  in,
		}).Error("failed to increase balance")
		return xerrors.Errorf("failed to increase balance of %s: %w", in.Symbol, err)
	}
	return nil
}
