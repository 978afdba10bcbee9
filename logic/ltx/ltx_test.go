package ltx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheepman0/skeincoin/model/opcodes"
	"github.com/sheepman0/skeincoin/model/outpoint"
	"github.com/sheepman0/skeincoin/model/script"
	"github.com/sheepman0/skeincoin/model/tx"
	"github.com/sheepman0/skeincoin/model/txin"
	"github.com/sheepman0/skeincoin/model/txout"
	"github.com/sheepman0/skeincoin/model/valistate"
	"github.com/sheepman0/skeincoin/util"
	"github.com/sheepman0/skeincoin/util/amount"
)

func simpleScript() *script.Script {
	return script.NewScriptRaw([]byte{opcodes.OP_1, opcodes.OP_CHECKSIG})
}

func regularTx() *tx.Tx {
	txn := tx.NewTx(0, tx.TxVersion)
	var prev util.Hash
	prev[0] = 1
	txn.AddTxIn(txin.NewTxIn(outpoint.NewOutPoint(prev, 0),
		script.NewScriptRaw([]byte{opcodes.OP_1}), txin.SequenceFinal))
	txn.AddTxOut(txout.NewTxOut(amount.COIN, simpleScript()))
	return txn
}

func coinbaseTx(scriptLen int) *tx.Tx {
	txn := tx.NewTx(0, tx.TxVersion)
	txn.AddTxIn(txin.NewTxIn(outpoint.NewNullOutPoint(),
		script.NewScriptRaw(make([]byte, scriptLen)), txin.SequenceFinal))
	txn.AddTxOut(txout.NewTxOut(50*amount.COIN, simpleScript()))
	return txn
}

func TestCheckTransactionOK(t *testing.T) {
	state := valistate.NewValidationState()
	assert.True(t, CheckTransaction(regularTx(), state))
	assert.True(t, CheckTransaction(coinbaseTx(4), state))
	assert.True(t, state.IsValid())
	assert.Equal(t, 0, state.DoSScore())
}

func TestCheckTransactionScoresLowForEmptyVin(t *testing.T) {
	txn := tx.NewTx(0, tx.TxVersion)
	txn.AddTxOut(txout.NewTxOut(1, simpleScript()))
	state := valistate.NewValidationState()
	assert.False(t, CheckTransaction(txn, state))
	assert.Equal(t, "bad-txns-vin-empty", state.RejectReason())
	assert.Equal(t, 10, state.DoSScore())
}

func TestCheckTransactionScoresHighForBadValue(t *testing.T) {
	txn := regularTx()
	txn.GetTxOut(0).SetValue(-5)
	state := valistate.NewValidationState()
	assert.False(t, CheckTransaction(txn, state))
	assert.Equal(t, "bad-txns-vout-negative", state.RejectReason())
	assert.Equal(t, 100, state.DoSScore())
}

func TestCheckTransactionCoinbaseScript(t *testing.T) {
	state := valistate.NewValidationState()
	assert.False(t, CheckTransaction(coinbaseTx(101), state))
	assert.Equal(t, "bad-cb-length", state.RejectReason())
	assert.Equal(t, 100, state.DoSScore())
}

func TestGetLegacySigOpCount(t *testing.T) {
	assert.Equal(t, 1, GetLegacySigOpCount(regularTx()))

	txn := regularTx()
	multi := script.NewEmptyScript()
	multi.PushOpCode(opcodes.OP_CHECKMULTISIG)
	txn.AddTxOut(txout.NewTxOut(1, multi))
	assert.Equal(t, 1+script.MultiSigOpCount, GetLegacySigOpCount(txn))
}
