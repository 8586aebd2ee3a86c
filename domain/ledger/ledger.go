package ledger

import (
	"strings"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

type TokenInfo struct {
	Symbol      string         `json:"symbol" bson:"symbol"`
	TokenName   string         `json:"tokenName" bson:"tokenName"`
	Decimals    int32          `json:"decimals" bson:"decimals"`
	TotalSupply int64          `json:"totalSupply" bson:"totalSupply"`
	Issuer      domain.Address `json:"issuer" bson:"issuer"`
	IsNFT       bool           `json:"isNFT" bson:"isNFT"`
}

// CollectionSymbol maps an NFT series symbol to its collection symbol, "ABC-1" to "ABC-0".
func CollectionSymbol(symbol string) string {
	if idx := strings.LastIndex(symbol, "-"); idx >= 0 {
		return symbol[:idx] + "-0"
	}
	return symbol
}

type TransferFromInput struct {
	Symbol  string
	From    domain.Address
	To      domain.Address
	Spender domain.Address
	Amount  int64
	Memo    string
}

// Ledger is the token ledger the market settles on. The market moves funds only through
// allowances granted to its own address.
type Ledger interface {
	// GetTokenInfo returns domain.ErrNotFound for unknown symbols.
	GetTokenInfo(ctx ctx.Ctx, symbol string) (*TokenInfo, error)
	GetBalance(ctx ctx.Ctx, symbol string, owner domain.Address) (int64, error)
	GetAllowance(ctx ctx.Ctx, symbol string, owner, spender domain.Address) (int64, error)
	// TransferFrom fails with domain.ErrInsufficient when balance or allowance can't cover Amount.
	TransferFrom(ctx ctx.Ctx, in TransferFromInput) error
}
