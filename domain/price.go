package domain

import (
	"fmt"
	"math"
)

// Price is an amount of a fungible currency token, in the token's smallest unit.
type Price struct {
	Symbol string `json:"symbol" bson:"symbol"`
	Amount int64  `json:"amount" bson:"amount"`
}

func (p Price) Equals(o Price) bool {
	return p.Symbol == o.Symbol && p.Amount == o.Amount
}

// Total is the cost of quantity units at this price.
func (p Price) Total(quantity int64) (int64, error) {
	if p.Amount < 0 || quantity < 0 {
		return 0, BadParam("Incorrect price or quantity.")
	}
	if quantity != 0 && p.Amount > math.MaxInt64/quantity {
		return 0, BadParam("Price overflow.")
	}
	return p.Amount * quantity, nil
}

func (p Price) String() string {
	return fmt.Sprintf("%d %s", p.Amount, p.Symbol)
}
