package tx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sheepman0/skeincoin/errcode"
	"github.com/sheepman0/skeincoin/log"
	"github.com/sheepman0/skeincoin/model/consensus"
	"github.com/sheepman0/skeincoin/model/outpoint"
	"github.com/sheepman0/skeincoin/model/txin"
	"github.com/sheepman0/skeincoin/model/txout"
	"github.com/sheepman0/skeincoin/util"
	"github.com/sheepman0/skeincoin/util/amount"
)

const (
	TxVersion      = 1
	MaxTxInPayload = 9 + util.Hash256Size

	// MaxTxInPerMessage bounds the input count a decoder will accept.
	MaxTxInPerMessage = (util.MaxSize / MaxTxInPayload) + 1

	// MaxTxSigOpsCounts the maximum allowed number of signature check
	// operations per transaction (network rule).
	MaxTxSigOpsCounts = 20000
)

// Tx is treated as immutable once hashed: the identity hash is computed over
// the serialized form and cached, never recomputed mid-validation.
type Tx struct {
	hash     util.Hash
	lockTime uint32
	version  int32
	ins      []*txin.TxIn
	outs     []*txout.TxOut
}

func (tx *Tx) AddTxIn(txIn *txin.TxIn) {
	tx.ins = append(tx.ins, txIn)
}

func (tx *Tx) AddTxOut(txOut *txout.TxOut) {
	tx.outs = append(tx.outs, txOut)
}

func (tx *Tx) GetTxOut(index int) (out *txout.TxOut) {
	if index < 0 || index >= len(tx.outs) {
		return nil
	}
	return tx.outs[index]
}

func (tx *Tx) GetTxIn(index int) (in *txin.TxIn) {
	if index < 0 || index >= len(tx.ins) {
		return nil
	}
	return tx.ins[index]
}

func (tx *Tx) GetInsCount() int {
	return len(tx.ins)
}

func (tx *Tx) GetOutsCount() int {
	return len(tx.outs)
}

func (tx *Tx) GetIns() []*txin.TxIn {
	return tx.ins
}

func (tx *Tx) GetOuts() []*txout.TxOut {
	return tx.outs
}

func (tx *Tx) GetVersion() int32 {
	return tx.version
}

func (tx *Tx) GetLockTime() uint32 {
	return tx.lockTime
}

func (tx *Tx) SerializeSize() uint32 {
	return tx.EncodeSize()
}

func (tx *Tx) Serialize(writer io.Writer) error {
	return tx.Encode(writer)
}

func (tx *Tx) Unserialize(reader io.Reader) error {
	return tx.Decode(reader)
}

func (tx *Tx) EncodeSize() uint32 {
	// Version 4 bytes + LockTime 4 bytes + serialized varint size for the
	// number of transaction inputs and outputs.
	n := 8 + util.VarIntSerializeSize(uint64(len(tx.ins))) +
		util.VarIntSerializeSize(uint64(len(tx.outs)))
	for _, in := range tx.ins {
		n += in.EncodeSize()
	}
	for _, out := range tx.outs {
		n += out.EncodeSize()
	}
	return n
}

func (tx *Tx) Encode(writer io.Writer) error {
	err := util.BinarySerializer.PutUint32(writer, binary.LittleEndian, uint32(tx.version))
	if err != nil {
		return err
	}
	err = util.WriteVarInt(writer, uint64(len(tx.ins)))
	if err != nil {
		return err
	}
	for _, in := range tx.ins {
		if err := in.Encode(writer); err != nil {
			return err
		}
	}
	err = util.WriteVarInt(writer, uint64(len(tx.outs)))
	if err != nil {
		return err
	}
	for _, out := range tx.outs {
		if err := out.Encode(writer); err != nil {
			return err
		}
	}
	return util.BinarySerializer.PutUint32(writer, binary.LittleEndian, tx.lockTime)
}

func (tx *Tx) Decode(reader io.Reader) error {
	version, err := util.BinarySerializer.Uint32(reader, binary.LittleEndian)
	if err != nil {
		return err
	}
	count, err := util.ReadVarInt(reader)
	if err != nil {
		return err
	}
	if count > uint64(MaxTxInPerMessage) {
		return errcode.NewError(errcode.RejectMalformed, "bad-txns-vin-toomany")
	}
	tx.version = int32(version)
	tx.ins = make([]*txin.TxIn, count)
	for i := uint64(0); i < count; i++ {
		in := new(txin.TxIn)
		in.PreviousOutPoint = new(outpoint.OutPoint)
		if err := in.Decode(reader); err != nil {
			return err
		}
		tx.ins[i] = in
	}
	count, err = util.ReadVarInt(reader)
	if err != nil {
		return err
	}
	tx.outs = make([]*txout.TxOut, count)
	for i := uint64(0); i < count; i++ {
		out := new(txout.TxOut)
		if err := out.Decode(reader); err != nil {
			return err
		}
		tx.outs[i] = out
	}
	tx.lockTime, err = util.BinarySerializer.Uint32(reader, binary.LittleEndian)
	return err
}

// IsCoinBase: exactly one input whose prevout is the null sentinel.
func (tx *Tx) IsCoinBase() bool {
	if len(tx.ins) != 1 {
		return false
	}
	return tx.ins[0].PreviousOutPoint.IsNull()
}

// IsNewerThan decides replacement priority between two transactions spending
// the identical ordered prevout set. The scan is deliberately asymmetric and
// order-sensitive (a replacement heuristic, not a total order); do not
// "repair" it into a symmetric comparison.
func (tx *Tx) IsNewerThan(old *Tx) bool {
	if len(tx.ins) != len(old.ins) {
		return false
	}
	for i, in := range tx.ins {
		if *in.PreviousOutPoint != *old.ins[i].PreviousOutPoint {
			return false
		}
	}

	newer := false
	lowest := uint32(txin.SequenceFinal)
	for i, in := range tx.ins {
		oldIn := old.ins[i]
		if in.Sequence != oldIn.Sequence {
			if in.Sequence <= lowest {
				newer = false
				lowest = in.Sequence
			}
			if oldIn.Sequence < lowest {
				newer = true
				lowest = oldIn.Sequence
			}
		}
	}
	return newer
}

// GetSigOpCount counts legacy signature operations over every input and
// output script, without any pay-to-script-hash subscript accounting.
func (tx *Tx) GetSigOpCount() int {
	n := 0
	for _, in := range tx.ins {
		n += in.GetScriptSig().GetSigOpCount(false)
	}
	for _, out := range tx.outs {
		n += out.GetScriptPubKey().GetSigOpCount(false)
	}
	return n
}

func (tx *Tx) GetValueOut() amount.Amount {
	var valueOut amount.Amount
	for _, out := range tx.outs {
		valueOut += out.GetValue()
	}
	return valueOut
}

func (tx *Tx) CheckRegularTransaction() error {
	if tx.IsCoinBase() {
		log.Debug("tx should not be coinbase, hash: %s", tx.GetHash().String())
		return errcode.NewError(errcode.RejectInvalid, "bad-tx-coinbase")
	}

	err := tx.checkTransactionCommon(true)
	if err != nil {
		return err
	}

	for _, in := range tx.ins {
		if in.PreviousOutPoint.IsNull() {
			log.Debug("tx input prevout null")
			return errcode.NewError(errcode.RejectInvalid, "bad-txns-prevout-null")
		}
	}
	return nil
}

func (tx *Tx) CheckCoinbaseTransaction() error {
	if !tx.IsCoinBase() {
		return errcode.NewError(errcode.RejectInvalid, "bad-cb-missing")
	}
	err := tx.checkTransactionCommon(false)
	if err != nil {
		return err
	}

	// coinbase in script check
	if tx.ins[0].GetScriptSig().Size() < 2 || tx.ins[0].GetScriptSig().Size() > 100 {
		log.Debug("coinbase input has err script size")
		return errcode.NewError(errcode.RejectInvalid, "bad-cb-length")
	}
	return nil
}

func (tx *Tx) checkTransactionCommon(checkDupInput bool) error {
	if len(tx.ins) == 0 {
		return errcode.NewError(errcode.RejectInvalid, "bad-txns-vin-empty")
	}
	if len(tx.outs) == 0 {
		return errcode.NewError(errcode.RejectInvalid, "bad-txns-vout-empty")
	}

	if tx.EncodeSize() > consensus.MaxTxSize {
		log.Warn("tx is oversize, tx size:%d, MaxTxSize:%d", tx.EncodeSize(), consensus.MaxTxSize)
		return errcode.NewError(errcode.RejectInvalid, "bad-txns-oversize")
	}

	// check outputs money
	totalOut := amount.Amount(0)
	for _, out := range tx.outs {
		if err := out.CheckValue(); err != nil {
			return err
		}
		totalOut += out.GetValue()
		if !amount.MoneyRange(totalOut) {
			log.Debug("bad tx: %s totalOut value :%d", tx.GetHash().String(), totalOut)
			return errcode.NewError(errcode.RejectInvalid, "bad-txns-txouttotal-toolarge")
		}
	}

	// check sigopcount
	if sigOpCount := tx.GetSigOpCount(); sigOpCount > MaxTxSigOpsCounts {
		log.Debug("bad tx: %s bad-txn-sigops :%d", tx.GetHash().String(), sigOpCount)
		return errcode.NewError(errcode.RejectInvalid, "bad-txn-sigops")
	}

	// check dup input
	if checkDupInput {
		outPointSet := make(map[outpoint.OutPoint]bool, len(tx.ins))
		for _, in := range tx.ins {
			if outPointSet[*in.PreviousOutPoint] {
				log.Error("bad tx: %s, duplicate inputs:[%s:%d]", tx.GetHash().String(),
					in.PreviousOutPoint.Hash.String(), in.PreviousOutPoint.Index)
				return errcode.NewError(errcode.RejectInvalid, "bad-txns-inputs-duplicate")
			}
			outPointSet[*in.PreviousOutPoint] = true
		}
	}
	return nil
}

func (tx *Tx) String() string {
	str := fmt.Sprintf("Tx(hash=%s, ver=%d, vin.size=%d, vout.size=%d, nLockTime=%d)\n",
		tx.GetHash().String(), tx.version, len(tx.ins), len(tx.outs), tx.lockTime)
	for _, in := range tx.ins {
		str += "    " + in.String() + "\n"
	}
	for _, out := range tx.outs {
		str += "    " + out.String() + "\n"
	}
	return str
}

func (tx *Tx) GetHash() util.Hash {
	// cache hash
	if !tx.hash.IsNull() {
		return tx.hash
	}
	tx.hash = tx.calHash()
	return tx.hash
}

func (tx *Tx) calHash() util.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, tx.EncodeSize()))
	err := tx.Encode(buf)
	if err != nil {
		panic("tx encode failed: " + err.Error())
	}
	return util.DoubleSha256Hash(buf.Bytes())
}

func NewTx(locktime uint32, version int32) *Tx {
	return &Tx{
		lockTime: locktime,
		version:  version,
		ins:      make([]*txin.TxIn, 0),
		outs:     make([]*txout.TxOut, 0),
	}
}

func NewEmptyTx() *Tx {
	return &Tx{}
}
