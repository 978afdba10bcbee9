package txout

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/sheepman0/skeincoin/errcode"
	"github.com/sheepman0/skeincoin/model/script"
	"github.com/sheepman0/skeincoin/util"
	"github.com/sheepman0/skeincoin/util/amount"
)

type TxOut struct {
	value        amount.Amount
	scriptPubKey *script.Script
}

func (txOut *TxOut) SerializeSize() uint32 {
	return txOut.EncodeSize()
}

func (txOut *TxOut) Serialize(writer io.Writer) error {
	return txOut.Encode(writer)
}

func (txOut *TxOut) Unserialize(reader io.Reader) error {
	return txOut.Decode(reader)
}

func (txOut *TxOut) EncodeSize() uint32 {
	return 8 + txOut.scriptPubKey.EncodeSize()
}

func (txOut *TxOut) Encode(writer io.Writer) error {
	err := util.BinarySerializer.PutUint64(writer, binary.LittleEndian, uint64(txOut.value))
	if err != nil {
		return err
	}
	if txOut.scriptPubKey == nil {
		return util.WriteVarInt(writer, 0)
	}
	return txOut.scriptPubKey.Encode(writer)
}

func (txOut *TxOut) Decode(reader io.Reader) error {
	v, err := util.BinarySerializer.Uint64(reader, binary.LittleEndian)
	if err != nil {
		return err
	}
	txOut.value = amount.Amount(v)
	sc := script.NewEmptyScript()
	err = sc.Decode(reader)
	txOut.scriptPubKey = sc
	return err
}

func (txOut *TxOut) CheckValue() error {
	if txOut.value < amount.Amount(0) {
		return errcode.NewError(errcode.RejectInvalid, "bad-txns-vout-negative")
	}
	if txOut.value > amount.MaxMoney {
		return errcode.NewError(errcode.RejectInvalid, "bad-txns-vout-toolarge")
	}
	return nil
}

func (txOut *TxOut) GetValue() amount.Amount {
	return txOut.value
}

func (txOut *TxOut) SetValue(v amount.Amount) {
	txOut.value = v
}

func (txOut *TxOut) GetScriptPubKey() *script.Script {
	return txOut.scriptPubKey
}

func (txOut *TxOut) SetScriptPubKey(s *script.Script) {
	txOut.scriptPubKey = s
}

// SetNull marks the output spent/pruned. The sentinel must never appear on a
// live unspent output.
func (txOut *TxOut) SetNull() {
	txOut.value = -1
	txOut.scriptPubKey = nil
}

func (txOut *TxOut) IsNull() bool {
	return txOut.value == -1
}

func (txOut *TxOut) String() string {
	if txOut.scriptPubKey == nil {
		return fmt.Sprintf("Value :%d Script: ", txOut.value)
	}
	return fmt.Sprintf("Value :%d Script:%s", txOut.value, hex.EncodeToString(txOut.scriptPubKey.GetData()))
}

func (txOut *TxOut) IsEqual(out *TxOut) bool {
	if txOut.value != out.value {
		return false
	}
	return txOut.scriptPubKey.IsEqual(out.scriptPubKey)
}

func NewTxOut(value amount.Amount, scriptPubKey *script.Script) *TxOut {
	txOut := TxOut{
		value:        value,
		scriptPubKey: nil,
	}
	if scriptPubKey != nil {
		txOut.scriptPubKey = script.NewScriptRaw(scriptPubKey.GetData())
	}
	return &txOut
}
