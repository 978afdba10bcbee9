package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyRange(t *testing.T) {
	assert.True(t, MoneyRange(0))
	assert.True(t, MoneyRange(1))
	assert.True(t, MoneyRange(MaxMoney))
	assert.False(t, MoneyRange(-1))
	assert.False(t, MoneyRange(MaxMoney+1))
}

func TestConstants(t *testing.T) {
	assert.Equal(t, int64(100000000), int64(COIN))
	assert.Equal(t, int64(1000000), int64(CENT))
	assert.Equal(t, 21000000*int64(COIN), int64(MaxMoney))
	assert.Equal(t, "50000000000", (500 * COIN).String())
}
