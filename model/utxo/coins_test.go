package utxo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheepman0/skeincoin/model/opcodes"
	"github.com/sheepman0/skeincoin/model/outpoint"
	"github.com/sheepman0/skeincoin/model/script"
	"github.com/sheepman0/skeincoin/model/tx"
	"github.com/sheepman0/skeincoin/model/txin"
	"github.com/sheepman0/skeincoin/model/txout"
	"github.com/sheepman0/skeincoin/util"
	"github.com/sheepman0/skeincoin/util/amount"
)

var prevHash = util.HashFromString("0000000000000000000000000000000000000000000000000000000000000123")

func p2shScript(fill byte) *script.Script {
	s := script.NewEmptyScript()
	s.PushOpCode(opcodes.OP_HASH160)
	s.PushData(bytes.Repeat([]byte{fill}, 20))
	s.PushOpCode(opcodes.OP_EQUAL)
	return s
}

func makeTx(outValues ...amount.Amount) *tx.Tx {
	txn := tx.NewTx(0, tx.TxVersion)
	txn.AddTxIn(txin.NewTxIn(outpoint.NewOutPoint(*prevHash, 0),
		script.NewScriptRaw([]byte{opcodes.OP_1}), txin.SequenceFinal))
	for i, v := range outValues {
		txn.AddTxOut(txout.NewTxOut(v, p2shScript(byte(i))))
	}
	return txn
}

func makeCoinbase(outValues ...amount.Amount) *tx.Tx {
	txn := tx.NewTx(0, tx.TxVersion)
	txn.AddTxIn(txin.NewTxIn(outpoint.NewNullOutPoint(),
		script.NewScriptRaw([]byte{0x01, 0x02}), txin.SequenceFinal))
	for i, v := range outValues {
		txn.AddTxOut(txout.NewTxOut(v, p2shScript(byte(i))))
	}
	return txn
}

func TestNewCoins(t *testing.T) {
	coins := NewCoins(makeTx(1*amount.COIN, 2*amount.COIN), 100)
	assert.False(t, coins.IsCoinBase())
	assert.Equal(t, int32(100), coins.GetHeight())
	assert.Equal(t, 2, coins.GetOutsCount())
	assert.True(t, coins.IsAvailable(0))
	assert.True(t, coins.IsAvailable(1))
	assert.False(t, coins.IsAvailable(2))
	assert.False(t, coins.IsPruned())

	cb := NewCoins(makeCoinbase(50*amount.COIN), 1)
	assert.True(t, cb.IsCoinBase())
}

func TestCoinsSpend(t *testing.T) {
	coins := NewCoins(makeTx(1*amount.COIN, 2*amount.COIN, 3*amount.COIN), 7)

	// out-of-range and already-spent slots fail
	_, ok := coins.Spend(&outpoint.OutPoint{Index: 9})
	assert.False(t, ok)

	u, ok := coins.Spend(&outpoint.OutPoint{Index: 1})
	assert.True(t, ok)
	assert.Equal(t, amount.Amount(2*amount.COIN), u.GetTxOut().GetValue())
	// the entry survives, so the record carries no metadata
	assert.Equal(t, int32(0), u.GetHeight())
	assert.False(t, coins.IsAvailable(1))
	assert.True(t, coins.IsAvailable(0))
	assert.True(t, coins.IsAvailable(2))

	_, ok = coins.Spend(&outpoint.OutPoint{Index: 1})
	assert.False(t, ok)

	// spending the last output trims the trailing nulls
	_, ok = coins.Spend(&outpoint.OutPoint{Index: 2})
	assert.True(t, ok)
	assert.Equal(t, 1, coins.GetOutsCount())

	// the final spend prunes the entry and captures its metadata
	u, ok = coins.Spend(&outpoint.OutPoint{Index: 0})
	assert.True(t, ok)
	assert.Equal(t, int32(7), u.GetHeight())
	assert.Equal(t, int32(tx.TxVersion), u.GetVersion())
	assert.False(t, u.IsCoinBase())
	assert.True(t, coins.IsPruned())
	assert.Equal(t, 0, coins.GetOutsCount())
}

func TestCoinsSpendSlot(t *testing.T) {
	coins := NewCoins(makeTx(1*amount.COIN), 3)
	assert.True(t, coins.SpendSlot(0))
	assert.False(t, coins.SpendSlot(0))
	assert.True(t, coins.IsPruned())
}

func serializeRoundTrip(t *testing.T, coins *Coins) *Coins {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, coins.Serialize(buf))
	decoded := NewEmptyCoins()
	assert.NoError(t, decoded.Unserialize(buf))
	return decoded
}

func TestCoinsSerializeRoundTrip(t *testing.T) {
	// fully unspent
	coins := NewCoins(makeTx(1*amount.COIN, 2*amount.COIN, 3*amount.COIN), 4242)
	assert.True(t, coins.IsEqual(serializeRoundTrip(t, coins)))

	// first two slots spent, bitmask in use
	coins = NewCoins(makeTx(1, 2, 3, 4, 5), 10)
	coins.SpendSlot(0)
	coins.SpendSlot(1)
	assert.True(t, coins.IsEqual(serializeRoundTrip(t, coins)))

	// sparse: output 12 of 13 survives alone, forcing a multi-byte mask
	coins = NewCoins(makeTx(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13), 10)
	for i := uint32(0); i < 12; i++ {
		coins.SpendSlot(i)
	}
	decoded := serializeRoundTrip(t, coins)
	assert.True(t, coins.IsEqual(decoded))
	assert.True(t, decoded.IsAvailable(12))
	assert.False(t, decoded.IsAvailable(11))

	// coinbase flag survives
	coins = NewCoins(makeCoinbase(50*amount.COIN), 1)
	decoded = serializeRoundTrip(t, coins)
	assert.True(t, decoded.IsCoinBase())
	assert.True(t, coins.IsEqual(decoded))
}

func TestCoinsSerializePrunedFails(t *testing.T) {
	coins := NewCoins(makeTx(1*amount.COIN), 3)
	coins.SpendSlot(0)
	assert.Error(t, coins.Serialize(bytes.NewBuffer(nil)))
}

func TestCalcMaskSize(t *testing.T) {
	// only the first two outputs: no mask bytes at all
	coins := NewCoins(makeTx(1, 2), 1)
	maskBytes, nonzero := coins.calcMaskSize()
	assert.Equal(t, 0, maskBytes)
	assert.Equal(t, 0, nonzero)

	// a third output occupies the first mask byte
	coins = NewCoins(makeTx(1, 2, 3), 1)
	maskBytes, nonzero = coins.calcMaskSize()
	assert.Equal(t, 1, maskBytes)
	assert.Equal(t, 1, nonzero)

	// slot 12 lives in the second mask byte; the first byte is zero but
	// still serialized
	coins = NewCoins(makeTx(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13), 1)
	for i := uint32(2); i < 10; i++ {
		coins.SpendSlot(i)
	}
	maskBytes, nonzero = coins.calcMaskSize()
	assert.Equal(t, 2, maskBytes)
	assert.Equal(t, 1, nonzero)
}
