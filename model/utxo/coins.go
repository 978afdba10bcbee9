package utxo

import (
	"io"

	"github.com/pkg/errors"

	"github.com/sheepman0/skeincoin/model/outpoint"
	"github.com/sheepman0/skeincoin/model/tx"
	"github.com/sheepman0/skeincoin/model/txout"
	"github.com/sheepman0/skeincoin/model/undo"
	"github.com/sheepman0/skeincoin/util"
)

// Coins is the unspent-output record of one transaction: a vector of its
// outputs with spent slots nulled, plus the metadata needed to validate
// spends of it. The serialized form prices per-output bookkeeping into a
// header code (outputs 0 and 1 get dedicated bits, the rest share a
// bitmask) and compresses every surviving output.
type Coins struct {
	coinBase bool
	outs     []*txout.TxOut
	height   int32
	version  int32
}

// NewCoins snapshots a transaction's outputs at the height its block landed.
func NewCoins(txn *tx.Tx, height int32) *Coins {
	outs := make([]*txout.TxOut, txn.GetOutsCount())
	for i := range outs {
		out := txn.GetTxOut(i)
		outs[i] = txout.NewTxOut(out.GetValue(), out.GetScriptPubKey())
	}
	return &Coins{
		coinBase: txn.IsCoinBase(),
		outs:     outs,
		height:   height,
		version:  txn.GetVersion(),
	}
}

func NewEmptyCoins() *Coins {
	return &Coins{}
}

func (c *Coins) IsCoinBase() bool {
	return c.coinBase
}

func (c *Coins) GetHeight() int32 {
	return c.height
}

func (c *Coins) GetVersion() int32 {
	return c.version
}

func (c *Coins) GetOutsCount() int {
	return len(c.outs)
}

func (c *Coins) GetOut(pos int) *txout.TxOut {
	if pos < 0 || pos >= len(c.outs) {
		return nil
	}
	return c.outs[pos]
}

// IsAvailable reports whether output pos exists and is still unspent.
func (c *Coins) IsAvailable(pos uint32) bool {
	return pos < uint32(len(c.outs)) && !c.outs[pos].IsNull()
}

// IsPruned reports whether every output has been spent, meaning the entry
// can be deleted from the set.
func (c *Coins) IsPruned() bool {
	for _, out := range c.outs {
		if !out.IsNull() {
			return false
		}
	}
	return true
}

// Cleanup drops trailing spent slots so the vector never ends in nulls; the
// serialized form relies on this.
func (c *Coins) Cleanup() {
	for len(c.outs) > 0 && c.outs[len(c.outs)-1].IsNull() {
		c.outs = c.outs[:len(c.outs)-1]
	}
}

// Spend nulls the referenced output and returns the undo record that
// restores it. The outpoint's hash is the caller's concern; only the index
// is consulted. When the spend prunes the whole entry, the record also
// captures height, coinbase flag and version, since no entry survives to
// hold them.
func (c *Coins) Spend(out *outpoint.OutPoint) (*undo.TxInUndo, bool) {
	if out.Index >= uint32(len(c.outs)) || c.outs[out.Index].IsNull() {
		return nil, false
	}
	spent := c.outs[out.Index]
	c.outs[out.Index] = txout.NewTxOut(0, nil)
	c.outs[out.Index].SetNull()
	c.Cleanup()
	if len(c.outs) == 0 {
		return undo.NewTxInUndo(spent, c.height, c.coinBase, c.version), true
	}
	return undo.NewTxInUndo(spent, 0, false, 0), true
}

// SpendSlot spends output pos, discarding the undo record.
func (c *Coins) SpendSlot(pos uint32) bool {
	_, ok := c.Spend(&outpoint.OutPoint{Index: pos})
	return ok
}

// calcMaskSize computes the serialized bitmask's byte length (through the
// last byte with any unspent output past slot 1) and how many of those
// bytes are nonzero.
func (c *Coins) calcMaskSize() (maskBytes int, nonzeroBytes int) {
	lastUsedByte := 0
	for b := 0; 2+b*8 < len(c.outs); b++ {
		zero := true
		for i := 0; i < 8 && 2+b*8+i < len(c.outs); i++ {
			if !c.outs[2+b*8+i].IsNull() {
				zero = false
			}
		}
		if !zero {
			lastUsedByte = b + 1
			nonzeroBytes++
		}
	}
	return lastUsedByte, nonzeroBytes
}

func (c *Coins) Serialize(w io.Writer) error {
	maskBytes, maskCode := c.calcMaskSize()
	first := len(c.outs) > 0 && !c.outs[0].IsNull()
	second := len(c.outs) > 1 && !c.outs[1].IsNull()
	if !first && !second && maskCode == 0 {
		return errors.New("cannot serialize a pruned coins entry")
	}

	// the header packs the coinbase flag, the first two slots' spentness
	// and the count of nonzero mask bytes; when slots 0 and 1 are both
	// spent that count is biased down by one, since it cannot be zero
	code := uint64(maskCode)
	if first || second {
		code *= 8
	} else {
		code = (code - 1) * 8
	}
	if c.coinBase {
		code |= 1
	}
	if first {
		code |= 2
	}
	if second {
		code |= 4
	}

	if err := util.WriteVarLenInt(w, uint64(c.version)); err != nil {
		return err
	}
	if err := util.WriteVarLenInt(w, code); err != nil {
		return err
	}
	for b := 0; b < maskBytes; b++ {
		var avail byte
		for i := 0; i < 8 && 2+b*8+i < len(c.outs); i++ {
			if !c.outs[2+b*8+i].IsNull() {
				avail |= 1 << uint(i)
			}
		}
		if _, err := w.Write([]byte{avail}); err != nil {
			return err
		}
	}
	for _, out := range c.outs {
		if !out.IsNull() {
			if err := txout.NewTxoutCompressor(out).Serialize(w); err != nil {
				return err
			}
		}
	}
	return util.WriteVarLenInt(w, uint64(c.height))
}

func (c *Coins) Unserialize(r io.Reader) error {
	version, err := util.ReadVarLenInt(r)
	if err != nil {
		return err
	}
	code, err := util.ReadVarLenInt(r)
	if err != nil {
		return err
	}
	c.version = int32(version)
	c.coinBase = code&1 == 1
	avail := []bool{code&2 != 0, code&4 != 0}

	maskCode := code / 8
	if code&6 == 0 {
		maskCode++
	}
	for maskCode > 0 {
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		for p := 0; p < 8; p++ {
			avail = append(avail, b[0]&(1<<uint(p)) != 0)
		}
		if b[0] != 0 {
			maskCode--
		}
	}

	c.outs = make([]*txout.TxOut, len(avail))
	for i := range avail {
		out := txout.NewTxOut(0, nil)
		if avail[i] {
			if err := txout.NewTxoutCompressor(out).Unserialize(r); err != nil {
				return err
			}
		} else {
			out.SetNull()
		}
		c.outs[i] = out
	}

	height, err := util.ReadVarLenInt(r)
	if err != nil {
		return err
	}
	c.height = int32(height)
	c.Cleanup()
	return nil
}

func (c *Coins) IsEqual(other *Coins) bool {
	a, b := &Coins{}, &Coins{}
	*a, *b = *c, *other
	a.Cleanup()
	b.Cleanup()
	if a.coinBase != b.coinBase || a.height != b.height || a.version != b.version ||
		len(a.outs) != len(b.outs) {
		return false
	}
	for i := range a.outs {
		if !a.outs[i].IsEqual(b.outs[i]) {
			return false
		}
	}
	return true
}
