package ltx

import (
	"github.com/sheepman0/skeincoin/errcode"
	"github.com/sheepman0/skeincoin/model/tx"
	"github.com/sheepman0/skeincoin/model/valistate"
)

// dosScores maps a structural reject reason to the misbehavior score its
// sender earns. Defects a relayer could not cheaply have noticed score low.
var dosScores = map[string]int{
	"bad-txns-vin-empty":           10,
	"bad-txns-vout-empty":          10,
	"bad-txns-prevout-null":        10,
	"bad-txns-oversize":            100,
	"bad-txns-vout-negative":       100,
	"bad-txns-vout-toolarge":       100,
	"bad-txns-txouttotal-toolarge": 100,
	"bad-txn-sigops":               100,
	"bad-txns-inputs-duplicate":    100,
	"bad-cb-length":                100,
	"bad-cb-missing":               100,
	"bad-tx-coinbase":              100,
}

// CheckTransaction runs the context-free structural checks on one
// transaction, reporting any defect through state. A coinbase is held to the
// coinbase rules, everything else to the regular rules.
func CheckTransaction(txn *tx.Tx, state *valistate.ValidationState) bool {
	var err error
	if txn.IsCoinBase() {
		err = txn.CheckCoinbaseTransaction()
	} else {
		err = txn.CheckRegularTransaction()
	}
	if err == nil {
		return true
	}

	reason := errcode.RejectReason(err)
	score, ok := dosScores[reason]
	if !ok {
		score = 10
	}
	return state.DoS(score, false, errcode.RejectInvalid, reason,
		txn.GetHash().String())
}

// GetLegacySigOpCount counts a transaction's signature operations the
// pre-P2SH way, with no knowledge of the coins it spends.
func GetLegacySigOpCount(txn *tx.Tx) int {
	return txn.GetSigOpCount()
}
