package amount

import (
	"strconv"
)

// Amount is a quantity of the base indivisible unit.
type Amount int64

const (
	COIN Amount = 100000000
	CENT Amount = 1000000

	// MaxMoney the total supply cap; no valid output or output sum may
	// exceed it.
	MaxMoney = 21000000 * COIN
)

func MoneyRange(value Amount) bool {
	return value >= 0 && value <= MaxMoney
}

func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}
