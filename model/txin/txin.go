package txin

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"

	"github.com/sheepman0/skeincoin/model/outpoint"
	"github.com/sheepman0/skeincoin/model/script"
	"github.com/sheepman0/skeincoin/util"
)

// SequenceFinal means the input opts out of replacement.
const SequenceFinal = math.MaxUint32

type TxIn struct {
	PreviousOutPoint *outpoint.OutPoint
	scriptSig        *script.Script
	Sequence         uint32
}

func (txIn *TxIn) SerializeSize() uint32 {
	return txIn.EncodeSize()
}

func (txIn *TxIn) Unserialize(reader io.Reader) error {
	return txIn.Decode(reader)
}

func (txIn *TxIn) Serialize(writer io.Writer) error {
	return txIn.Encode(writer)
}

func (txIn *TxIn) EncodeSize() uint32 {
	// previousOutPoint EncodeSize + scriptSig EncodeSize + Sequence 4 bytes
	return txIn.PreviousOutPoint.EncodeSize() + txIn.scriptSig.EncodeSize() + 4
}

func (txIn *TxIn) Encode(writer io.Writer) error {
	err := txIn.PreviousOutPoint.Encode(writer)
	if err != nil {
		return err
	}
	err = txIn.scriptSig.Encode(writer)
	if err != nil {
		return err
	}
	return util.BinarySerializer.PutUint32(writer, binary.LittleEndian, txIn.Sequence)
}

func (txIn *TxIn) Decode(reader io.Reader) error {
	err := txIn.PreviousOutPoint.Decode(reader)
	if err != nil {
		return err
	}
	scriptSig := script.NewEmptyScript()
	err = scriptSig.Decode(reader)
	if err != nil {
		return err
	}
	txIn.scriptSig = scriptSig
	return util.ReadElements(reader, &txIn.Sequence)
}

func (txIn *TxIn) GetScriptSig() *script.Script {
	return txIn.scriptSig
}

func (txIn *TxIn) SetScriptSig(scriptSig *script.Script) {
	txIn.scriptSig = scriptSig
}

func (txIn *TxIn) String() string {
	str := fmt.Sprintf("PreviousOutPoint: %s ", txIn.PreviousOutPoint.String())
	if txIn.scriptSig == nil {
		return fmt.Sprintf("%s , script:  , Sequence:%d ", str, txIn.Sequence)
	}
	if txIn.PreviousOutPoint.IsNull() {
		return fmt.Sprintf("%s , coinbase:%s , Sequence:%d ", str,
			hex.EncodeToString(txIn.scriptSig.GetData()), txIn.Sequence)
	}
	return fmt.Sprintf("%s , script:%s , Sequence:%d ", str,
		hex.EncodeToString(txIn.scriptSig.GetData()), txIn.Sequence)
}

func NewTxIn(previousOutPoint *outpoint.OutPoint, scriptSig *script.Script, sequence uint32) *TxIn {
	txIn := TxIn{PreviousOutPoint: previousOutPoint, scriptSig: scriptSig, Sequence: sequence}
	if txIn.PreviousOutPoint == nil {
		txIn.PreviousOutPoint = outpoint.NewNullOutPoint()
	}
	if txIn.scriptSig == nil {
		txIn.scriptSig = script.NewEmptyScript()
	}
	return &txIn
}
