package market

import (
	"github.com/shopspring/decimal"
)

const feeRateBase = 10000

var feeRateDenominator = decimal.NewFromInt(feeRateBase)

// ServiceFee is the market cut of total at rateBps, rounded down.
func ServiceFee(total, rateBps int64) int64 {
	if rateBps <= 0 || total <= 0 {
		return 0
	}
	if rateBps > feeRateBase {
		rateBps = feeRateBase
	}
	return decimal.NewFromInt(total).
		Mul(decimal.NewFromInt(rateBps)).
		Div(feeRateDenominator).
		Floor().
		IntPart()
}
