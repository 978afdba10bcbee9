package lblock

import (
	"github.com/sheepman0/skeincoin/errcode"
	"github.com/sheepman0/skeincoin/log"
	"github.com/sheepman0/skeincoin/logic/ltx"
	"github.com/sheepman0/skeincoin/model/block"
	"github.com/sheepman0/skeincoin/model/consensus"
	"github.com/sheepman0/skeincoin/model/pow"
	"github.com/sheepman0/skeincoin/model/valistate"
	"github.com/sheepman0/skeincoin/util"
)

// CheckBlock runs every context-free check on a block: anything decidable
// from the block bytes, the claimed height and the local clock alone, with
// no chain state. The checks run in a fixed order and stop at the first
// failure; each failure carries the misbehavior score the block's relayer
// earns. Pass pow.UnknownHeight when the height is not known yet.
func CheckBlock(blk *block.Block, height int32, state *valistate.ValidationState,
	params *consensus.Param) bool {
	if blk.Checked {
		return true
	}

	// size limits
	if len(blk.Txs) == 0 || blk.EncodeSize() > consensus.MaxBlockSize {
		return state.DoS(100, false, errcode.RejectInvalid, "bad-blk-length",
			"block size limits failed")
	}

	// proof of work, own or auxiliary
	if err := pow.CheckHeaderProofOfWork(&blk.Header, height, params); err != nil {
		log.Debug("block %s: %v", params.HeaderHashFn(blk.Header.FixedBytes()).String(), err)
		return state.DoS(50, false, errcode.RejectInvalid, "high-hash",
			err.Error())
	}

	// timestamp: drift is not punishable, the sender's clock may be wrong
	if int64(blk.Header.Time) > util.GetAdjustedTime()+consensus.MaxTimeOffset {
		return state.Invalid(false, errcode.RejectInvalid, "time-too-new",
			"block timestamp too far in the future")
	}

	// exactly one coinbase, first
	if !blk.Txs[0].IsCoinBase() {
		return state.DoS(100, false, errcode.RejectInvalid, "bad-cb-missing",
			"first tx is not coinbase")
	}
	for _, txn := range blk.Txs[1:] {
		if txn.IsCoinBase() {
			return state.DoS(100, false, errcode.RejectInvalid, "bad-cb-multiple",
				"more than one coinbase")
		}
	}

	// per-transaction structural checks; the checker scores the state itself
	for _, txn := range blk.Txs {
		if !ltx.CheckTransaction(txn, state) {
			return false
		}
	}

	// building the tree here doubles as the tx hash cache for the rest of
	// validation
	root := blk.BuildMerkleTree()

	uniqueTx := make(map[util.Hash]struct{}, len(blk.Txs))
	for _, txn := range blk.Txs {
		uniqueTx[txn.GetHash()] = struct{}{}
	}
	if len(uniqueTx) != len(blk.Txs) {
		return state.DoS(100, false, errcode.RejectInvalid, "bad-txns-duplicate",
			"duplicate transaction")
	}

	sigOps := 0
	for _, txn := range blk.Txs {
		sigOps += ltx.GetLegacySigOpCount(txn)
	}
	if sigOps > consensus.MaxBlockSigOps {
		return state.DoS(100, false, errcode.RejectInvalid, "bad-blk-sigops",
			"out-of-bounds sigop count")
	}

	if !blk.Header.MerkleRoot.IsEqual(&root) {
		return state.DoS(100, false, errcode.RejectInvalid, "bad-txnmrklroot",
			"header merkle root mismatch")
	}

	blk.Checked = true
	return true
}
