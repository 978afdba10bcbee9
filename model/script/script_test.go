package script

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheepman0/skeincoin/model/opcodes"
)

func TestGetSigOpCount(t *testing.T) {
	s := NewEmptyScript()
	assert.Equal(t, 0, s.GetSigOpCount(false))

	s.PushOpCode(opcodes.OP_CHECKSIG)
	s.PushOpCode(opcodes.OP_CHECKSIGVERIFY)
	assert.Equal(t, 2, s.GetSigOpCount(false))

	s.PushOpCode(opcodes.OP_CHECKMULTISIG)
	assert.Equal(t, 2+MultiSigOpCount, s.GetSigOpCount(false))
}

func TestGetSigOpCountAccurate(t *testing.T) {
	// 2-of-3 multisig: the accurate count reads the key count from OP_3
	s := NewEmptyScript()
	s.PushOpCode(opcodes.OP_2)
	s.PushData(bytes.Repeat([]byte{0x02}, 33))
	s.PushData(bytes.Repeat([]byte{0x03}, 33))
	s.PushData(bytes.Repeat([]byte{0x02}, 33))
	s.PushOpCode(opcodes.OP_3)
	s.PushOpCode(opcodes.OP_CHECKMULTISIG)
	assert.Equal(t, 3, s.GetSigOpCount(true))
	assert.Equal(t, MultiSigOpCount, s.GetSigOpCount(false))

	// without a preceding OP_n the accurate count falls back to the
	// legacy weight
	s = NewEmptyScript()
	s.PushData(bytes.Repeat([]byte{0x02}, 33))
	s.PushOpCode(opcodes.OP_CHECKMULTISIG)
	assert.Equal(t, MultiSigOpCount, s.GetSigOpCount(true))
}

func TestGetSigOpCountSkipsPushedData(t *testing.T) {
	// a CHECKSIG byte inside pushed data must not be counted
	s := NewEmptyScript()
	s.PushData([]byte{opcodes.OP_CHECKSIG, opcodes.OP_CHECKMULTISIG})
	assert.Equal(t, 0, s.GetSigOpCount(false))

	s.PushOpCode(opcodes.OP_CHECKSIG)
	assert.Equal(t, 1, s.GetSigOpCount(false))
}

func TestGetSigOpCountMalformedPush(t *testing.T) {
	// OP_PUSHDATA1 with a length running past the end terminates the scan
	s := NewScriptRaw([]byte{opcodes.OP_CHECKSIG, opcodes.OP_PUSHDATA1, 0xff, opcodes.OP_CHECKSIG})
	assert.Equal(t, 1, s.GetSigOpCount(false))
}

func TestPushData(t *testing.T) {
	s := NewEmptyScript()
	s.PushData(bytes.Repeat([]byte{0xaa}, 20))
	assert.Equal(t, 21, s.Size())
	assert.Equal(t, byte(20), s.GetData()[0])

	s = NewEmptyScript()
	s.PushData(bytes.Repeat([]byte{0xbb}, 0x80))
	assert.Equal(t, byte(opcodes.OP_PUSHDATA1), s.GetData()[0])
	assert.Equal(t, byte(0x80), s.GetData()[1])

	s = NewEmptyScript()
	s.PushData(bytes.Repeat([]byte{0xcc}, 0x100))
	assert.Equal(t, byte(opcodes.OP_PUSHDATA2), s.GetData()[0])
}

func TestScriptSerializeRoundTrip(t *testing.T) {
	s := NewScriptRaw([]byte{opcodes.OP_DUP, opcodes.OP_HASH160, 0x01, 0xaa})
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, s.Encode(buf))
	assert.Equal(t, s.EncodeSize(), uint32(buf.Len()))

	decoded := NewEmptyScript()
	assert.NoError(t, decoded.Decode(buf))
	assert.True(t, s.IsEqual(decoded))
}

func TestIsEqual(t *testing.T) {
	a := NewScriptRaw([]byte{opcodes.OP_1})
	b := NewScriptRaw([]byte{opcodes.OP_1})
	c := NewScriptRaw([]byte{opcodes.OP_16})
	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	var nilScript *Script
	assert.False(t, a.IsEqual(nilScript))
	assert.True(t, nilScript.IsEqual(nil))
}
