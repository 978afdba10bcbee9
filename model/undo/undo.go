package undo

import (
	"io"

	"github.com/pkg/errors"

	"github.com/sheepman0/skeincoin/model/txout"
	"github.com/sheepman0/skeincoin/util"
)

// MaxInputsPerTx caps how many spent-output records one undo entry will
// decode.
const MaxInputsPerTx = uint64(0x100000)

// TxInUndo restores one spent output when its spending block is
// disconnected. Height, coinbase flag and version are recorded only on the
// record that deleted the whole Coins entry, since the surviving entry still
// carries them for every other spend.
type TxInUndo struct {
	txOut      *txout.TxOut
	height     int32
	isCoinBase bool
	version    int32
}

func NewTxInUndo(out *txout.TxOut, height int32, isCoinBase bool, version int32) *TxInUndo {
	return &TxInUndo{txOut: out, height: height, isCoinBase: isCoinBase, version: version}
}

func (u *TxInUndo) GetTxOut() *txout.TxOut {
	return u.txOut
}

func (u *TxInUndo) GetHeight() int32 {
	return u.height
}

func (u *TxInUndo) IsCoinBase() bool {
	return u.isCoinBase
}

func (u *TxInUndo) GetVersion() int32 {
	return u.version
}

func (u *TxInUndo) Serialize(w io.Writer) error {
	code := uint64(u.height) * 2
	if u.isCoinBase {
		code++
	}
	if err := util.WriteVarLenInt(w, code); err != nil {
		return err
	}
	if u.height > 0 {
		if err := util.WriteVarLenInt(w, uint64(u.version)); err != nil {
			return err
		}
	}
	return txout.NewTxoutCompressor(u.txOut).Serialize(w)
}

func (u *TxInUndo) Unserialize(r io.Reader) error {
	code, err := util.ReadVarLenInt(r)
	if err != nil {
		return err
	}
	u.height = int32(code / 2)
	u.isCoinBase = code&1 == 1
	if u.height > 0 {
		version, err := util.ReadVarLenInt(r)
		if err != nil {
			return err
		}
		u.version = int32(version)
	}
	u.txOut = txout.NewTxOut(0, nil)
	return txout.NewTxoutCompressor(u.txOut).Unserialize(r)
}

// TxUndo holds the spent outputs of one transaction, in input order.
type TxUndo struct {
	prevouts []*TxInUndo
}

func NewTxUndo() *TxUndo {
	return &TxUndo{prevouts: make([]*TxInUndo, 0)}
}

func (tu *TxUndo) GetUndoCount() int {
	return len(tu.prevouts)
}

func (tu *TxUndo) GetPrevouts() []*TxInUndo {
	return tu.prevouts
}

func (tu *TxUndo) AddPrevout(u *TxInUndo) {
	tu.prevouts = append(tu.prevouts, u)
}

func (tu *TxUndo) Serialize(w io.Writer) error {
	if err := util.WriteVarInt(w, uint64(len(tu.prevouts))); err != nil {
		return err
	}
	for _, u := range tu.prevouts {
		if err := u.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

func (tu *TxUndo) Unserialize(r io.Reader) error {
	count, err := util.ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxInputsPerTx {
		return errors.Errorf("too many input undo records: %d", count)
	}
	prevouts := make([]*TxInUndo, count)
	for i := uint64(0); i < count; i++ {
		prevouts[i] = &TxInUndo{}
		if err := prevouts[i].Unserialize(r); err != nil {
			return err
		}
	}
	tu.prevouts = prevouts
	return nil
}

// BlockUndo aggregates the undo data of every non-coinbase transaction in a
// block, in block order.
type BlockUndo struct {
	txundo []*TxUndo
}

func NewBlockUndo(count int) *BlockUndo {
	return &BlockUndo{txundo: make([]*TxUndo, 0, count)}
}

func (bu *BlockUndo) GetTxundo() []*TxUndo {
	return bu.txundo
}

func (bu *BlockUndo) AddTxUndo(tu *TxUndo) {
	bu.txundo = append(bu.txundo, tu)
}

func (bu *BlockUndo) Serialize(w io.Writer) error {
	if err := util.WriteVarInt(w, uint64(len(bu.txundo))); err != nil {
		return err
	}
	for _, tu := range bu.txundo {
		if err := tu.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

func (bu *BlockUndo) Unserialize(r io.Reader) error {
	count, err := util.ReadVarInt(r)
	if err != nil {
		return err
	}
	txundo := make([]*TxUndo, 0, count)
	for i := uint64(0); i < count; i++ {
		tu := NewTxUndo()
		if err := tu.Unserialize(r); err != nil {
			return err
		}
		txundo = append(txundo, tu)
	}
	bu.txundo = txundo
	return nil
}
