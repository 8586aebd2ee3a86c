package domain

import (
	"strings"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type Address string

const EmptyAddress = Address("")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// Table is a mongo collection name
type Table string

const (
	TableListings   Table = "listings"
	TableOffers     Table = "offers"
	TableWhitelists Table = "whitelists"
	TableTokens     Table = "tokens"
	TableBalances   Table = "balances"
	TableAllowances Table = "allowances"
)
