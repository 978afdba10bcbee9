package txout

import (
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/sheepman0/skeincoin/model/opcodes"
	"github.com/sheepman0/skeincoin/model/script"
	"github.com/sheepman0/skeincoin/util"
	"github.com/sheepman0/skeincoin/util/amount"
)

const (
	numSpecialScripts = 6
)

// Amount compression:
// * If the amount is 0, output 0
// * first, divide the amount (in base units) by the largest power of 10
//   possible; call the exponent e (e is max 9)
// * if e<9, the last digit of the resulting number cannot be 0; store it as
//   d, and drop it (divide by 10); call the result n
//   * output 1 + 10*(9*n + d - 1) + e
// * if e==9, we only know the resulting number is not zero, so output
//   1 + 10*(n - 1) + 9
// (this is decodable, as d is in [1-9] and e is in [0-9])

func CompressAmount(amt amount.Amount) uint64 {
	n := uint64(amt)
	if n == 0 {
		return 0
	}
	e := uint64(0)
	for n%10 == 0 && e < 9 {
		n /= 10
		e++
	}
	if e < 9 {
		d := n % 10
		if d < 1 || d > 9 {
			panic("CompressAmount: d should in range [1,9]")
		}
		n /= 10
		return 1 + (9*n+d-1)*10 + e
	}
	return 1 + (n-1)*10 + 9
}

func DecompressAmount(x uint64) amount.Amount {
	if x == 0 {
		return 0
	}
	x--
	e := x % 10
	x /= 10
	n := uint64(0)
	if e < 9 {
		d := (x % 9) + 1
		x /= 9
		n = 10*x + d
	} else {
		n = x + 1
	}
	for e != 0 {
		n *= 10
		e--
	}
	return amount.Amount(n)
}

// scriptCompressor special-cases the common output script templates into
// 21 or 33 bytes keyed by a size discriminant below numSpecialScripts;
// anything else is stored raw behind a biased length.
type scriptCompressor struct {
	sp **script.Script
}

func newScriptCompressor(sp **script.Script) *scriptCompressor {
	if sp == nil {
		return nil
	}
	if *sp == nil {
		*sp = script.NewEmptyScript()
	}
	return &scriptCompressor{
		sp: sp,
	}
}

func (scr *scriptCompressor) isToKeyID() []byte {
	bs := (*scr.sp).GetData()
	if len(bs) == 25 && bs[0] == opcodes.OP_DUP && bs[1] == opcodes.OP_HASH160 &&
		bs[2] == 20 && bs[23] == opcodes.OP_EQUALVERIFY && bs[24] == opcodes.OP_CHECKSIG {
		return bs[3:23]
	}
	return nil
}

func (scr *scriptCompressor) isToScriptID() []byte {
	bs := (*scr.sp).GetData()
	if len(bs) == 23 && bs[0] == opcodes.OP_HASH160 &&
		bs[1] == 20 && bs[22] == opcodes.OP_EQUAL {
		return bs[2:22]
	}
	return nil
}

func (scr *scriptCompressor) isToPubKey() []byte {
	bs := (*scr.sp).GetData()
	if len(bs) == 35 && bs[0] == 33 && bs[34] == opcodes.OP_CHECKSIG &&
		(bs[1] == 0x2 || bs[1] == 0x3) {
		return bs[1:34]
	}
	if len(bs) == 67 && bs[0] == 65 && bs[66] == opcodes.OP_CHECKSIG &&
		bs[1] == 0x4 {
		if _, err := secp256k1.ParsePubKey(bs[1:66]); err != nil {
			return nil
		}
		return bs[1:66]
	}
	return nil
}

func (scr *scriptCompressor) Compress() []byte {
	var out []byte
	keyID := scr.isToKeyID()
	if len(keyID) > 0 {
		out = make([]byte, 21)
		out[0] = 0x00
		copy(out[1:], keyID)
		return out
	}
	scriptID := scr.isToScriptID()
	if len(scriptID) > 0 {
		out = make([]byte, 21)
		out[0] = 0x01
		copy(out[1:], scriptID)
		return out
	}
	pubKey := scr.isToPubKey()
	if len(pubKey) > 0 {
		out = make([]byte, 33)
		copy(out[1:], pubKey[1:33])
		if pubKey[0] == 0x2 || pubKey[0] == 0x3 {
			out[0] = pubKey[0]
			return out
		} else if pubKey[0] == 0x4 {
			out[0] = 0x4 | (pubKey[64] & 0x1)
			return out
		}
	}
	return nil
}

func getSpecialSize(nSize uint64) int {
	if nSize == 0 || nSize == 1 {
		return 20
	}
	if nSize >= 2 && nSize <= 5 {
		return 32
	}
	return 0
}

func (scr *scriptCompressor) Decompress(size uint64, in []byte) bool {
	var bs []byte
	switch size {
	case 0x00:
		bs = make([]byte, 25)
		bs[0] = opcodes.OP_DUP
		bs[1] = opcodes.OP_HASH160
		bs[2] = 20
		copy(bs[3:], in[0:20])
		bs[23] = opcodes.OP_EQUALVERIFY
		bs[24] = opcodes.OP_CHECKSIG
	case 0x01:
		bs = make([]byte, 23)
		bs[0] = opcodes.OP_HASH160
		bs[1] = 20
		copy(bs[2:], in[0:20])
		bs[22] = opcodes.OP_EQUAL
	case 0x2, 0x3:
		bs = make([]byte, 35)
		bs[0] = 33
		bs[1] = byte(size)
		copy(bs[2:], in[0:32])
		bs[34] = opcodes.OP_CHECKSIG
	case 0x4, 0x5:
		tmp := make([]byte, 33)
		tmp[0] = byte(size - 2)
		copy(tmp[1:], in[0:32])
		pubkey, err := secp256k1.ParsePubKey(tmp)
		if err != nil {
			return false
		}
		uncompressed := pubkey.SerializeUncompressed()
		bs = make([]byte, 67)
		bs[0] = 65
		copy(bs[1:], uncompressed)
		bs[66] = opcodes.OP_CHECKSIG
	}
	if bs != nil {
		*scr.sp = script.NewScriptRaw(bs)
		return true
	}
	return false
}

func (scr *scriptCompressor) Serialize(w io.Writer) error {
	bs := scr.Compress()
	if len(bs) > 0 {
		_, err := w.Write(bs)
		return err
	}
	so := *scr.sp
	size := uint64(so.Size()) + numSpecialScripts
	if err := util.WriteVarLenInt(w, size); err != nil {
		return err
	}
	_, err := w.Write(so.GetData())
	return err
}

func (scr *scriptCompressor) Unserialize(r io.Reader) error {
	size, err := util.ReadVarLenInt(r)
	if err != nil {
		return err
	}
	if size < numSpecialScripts {
		vch := make([]byte, getSpecialSize(size))
		if _, err := io.ReadFull(r, vch); err != nil {
			return err
		}
		if !scr.Decompress(size, vch) {
			return errors.New("scriptCompressor.Decompress: return false")
		}
		return nil
	}
	size -= numSpecialScripts
	if size > script.MaxScriptSize {
		// Oversize scripts are unspendable; keep the length honest but
		// replace the body with OP_RETURN.
		so := script.NewEmptyScript()
		so.PushOpCode(opcodes.OP_RETURN)
		*scr.sp = so
		tmp := make([]byte, size)
		_, err = io.ReadFull(r, tmp)
	} else {
		tmp := make([]byte, size)
		_, err = io.ReadFull(r, tmp)
		if err == nil {
			*scr.sp = script.NewScriptRaw(tmp)
		}
	}
	return err
}

type TxoutCompressor struct {
	txout *TxOut
	sc    *scriptCompressor
}

var ErrCompress = errors.New("nil TxoutCompressor receiver")

func NewTxoutCompressor(txout *TxOut) *TxoutCompressor {
	if txout == nil {
		return nil
	}
	return &TxoutCompressor{
		txout: txout,
		sc:    newScriptCompressor(&txout.scriptPubKey),
	}
}

func (tc *TxoutCompressor) Serialize(w io.Writer) error {
	if tc == nil {
		return ErrCompress
	}
	if err := util.WriteVarLenInt(w, CompressAmount(tc.txout.value)); err != nil {
		return err
	}
	return tc.sc.Serialize(w)
}

func (tc *TxoutCompressor) Unserialize(r io.Reader) error {
	if tc == nil {
		return ErrCompress
	}
	amt, err := util.ReadVarLenInt(r)
	if err != nil {
		return err
	}
	tc.txout.value = DecompressAmount(amt)
	return tc.sc.Unserialize(r)
}
