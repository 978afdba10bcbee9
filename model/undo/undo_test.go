package undo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheepman0/skeincoin/model/opcodes"
	"github.com/sheepman0/skeincoin/model/script"
	"github.com/sheepman0/skeincoin/model/txout"
	"github.com/sheepman0/skeincoin/util/amount"
)

func p2pkhOut(v amount.Amount) *txout.TxOut {
	s := script.NewEmptyScript()
	s.PushOpCode(opcodes.OP_DUP)
	s.PushOpCode(opcodes.OP_HASH160)
	s.PushData(bytes.Repeat([]byte{0xee}, 20))
	s.PushOpCode(opcodes.OP_EQUALVERIFY)
	s.PushOpCode(opcodes.OP_CHECKSIG)
	return txout.NewTxOut(v, s)
}

func TestTxInUndoRoundTrip(t *testing.T) {
	// spend that left the entry alive: no metadata
	u := NewTxInUndo(p2pkhOut(3*amount.COIN), 0, false, 0)
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, u.Serialize(buf))

	decoded := &TxInUndo{}
	assert.NoError(t, decoded.Unserialize(buf))
	assert.Equal(t, int32(0), decoded.GetHeight())
	assert.False(t, decoded.IsCoinBase())
	assert.True(t, u.GetTxOut().IsEqual(decoded.GetTxOut()))
}

func TestTxInUndoRoundTripWithMetadata(t *testing.T) {
	// the pruning spend carries height, coinbase flag and version
	u := NewTxInUndo(p2pkhOut(50*amount.COIN), 120000, true, 1)
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, u.Serialize(buf))

	decoded := &TxInUndo{}
	assert.NoError(t, decoded.Unserialize(buf))
	assert.Equal(t, int32(120000), decoded.GetHeight())
	assert.True(t, decoded.IsCoinBase())
	assert.Equal(t, int32(1), decoded.GetVersion())
	assert.True(t, u.GetTxOut().IsEqual(decoded.GetTxOut()))
}

func TestTxUndoRoundTrip(t *testing.T) {
	tu := NewTxUndo()
	tu.AddPrevout(NewTxInUndo(p2pkhOut(1*amount.COIN), 0, false, 0))
	tu.AddPrevout(NewTxInUndo(p2pkhOut(2*amount.COIN), 55, false, 1))

	buf := bytes.NewBuffer(nil)
	assert.NoError(t, tu.Serialize(buf))

	decoded := NewTxUndo()
	assert.NoError(t, decoded.Unserialize(buf))
	assert.Equal(t, 2, decoded.GetUndoCount())
	assert.Equal(t, int32(55), decoded.GetPrevouts()[1].GetHeight())
}

func TestBlockUndoRoundTrip(t *testing.T) {
	bu := NewBlockUndo(2)
	for i := 0; i < 2; i++ {
		tu := NewTxUndo()
		tu.AddPrevout(NewTxInUndo(p2pkhOut(amount.Amount(i+1)*amount.COIN), 0, false, 0))
		bu.AddTxUndo(tu)
	}

	buf := bytes.NewBuffer(nil)
	assert.NoError(t, bu.Serialize(buf))

	decoded := NewBlockUndo(0)
	assert.NoError(t, decoded.Unserialize(buf))
	assert.Equal(t, 2, len(decoded.GetTxundo()))
}
