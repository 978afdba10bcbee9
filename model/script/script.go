package script

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/sheepman0/skeincoin/model/opcodes"
	"github.com/sheepman0/skeincoin/util"
)

const (
	// MaxScriptSize the bound on a single serialized script.
	MaxScriptSize = 10000

	// MaxMessagePayload the bound used when reading length-prefixed script
	// bytes off the wire.
	MaxMessagePayload = 32 * 1024 * 1024

	// MultiSigOpCount the sig-op weight charged for a bare CHECKMULTISIG in
	// legacy (inaccurate) counting.
	MultiSigOpCount = 20
)

// Script is an immutable byte string. This node treats scripts as opaque
// except for opcode-level scanning; it interprets nothing.
type Script struct {
	data []byte
}

func NewScriptRaw(bytes []byte) *Script {
	s := Script{data: make([]byte, len(bytes))}
	copy(s.data, bytes)
	return &s
}

func NewEmptyScript() *Script {
	return &Script{data: make([]byte, 0)}
}

func (s *Script) GetData() []byte {
	return s.data
}

func (s *Script) Size() int {
	return len(s.data)
}

func (s *Script) IsEqual(other *Script) bool {
	if s == nil || other == nil {
		return s == other
	}
	return bytes.Equal(s.data, other.data)
}

func (s *Script) String() string {
	return hex.EncodeToString(s.data)
}

func (s *Script) EncodeSize() uint32 {
	return util.VarIntSerializeSize(uint64(len(s.data))) + uint32(len(s.data))
}

func (s *Script) Encode(w io.Writer) error {
	return util.WriteVarBytes(w, s.data)
}

func (s *Script) Decode(r io.Reader) error {
	data, err := util.ReadVarBytes(r, MaxMessagePayload, "script")
	if err != nil {
		return err
	}
	s.data = data
	return nil
}

// readOpCode decodes the opcode at offset i and returns the opcode, the
// offset of the next opcode, and whether decoding succeeded. Push opcodes
// skip their payload.
func (s *Script) readOpCode(i int) (op byte, next int, ok bool) {
	data := s.data
	if i >= len(data) {
		return opcodes.OP_INVALIDOPCODE, i, false
	}
	op = data[i]
	i++
	switch {
	case op < opcodes.OP_PUSHDATA1:
		i += int(op)
	case op == opcodes.OP_PUSHDATA1:
		if i >= len(data) {
			return op, i, false
		}
		i += 1 + int(data[i])
	case op == opcodes.OP_PUSHDATA2:
		if i+1 >= len(data) {
			return op, i, false
		}
		i += 2 + int(data[i]) + int(data[i+1])<<8
	case op == opcodes.OP_PUSHDATA4:
		if i+3 >= len(data) {
			return op, i, false
		}
		i += 4 + int(data[i]) + int(data[i+1])<<8 + int(data[i+2])<<16 + int(data[i+3])<<24
	}
	if i > len(data) {
		return op, i, false
	}
	return op, i, true
}

// GetSigOpCount counts signature operations. Legacy counting weighs every
// CHECKMULTISIG at MultiSigOpCount regardless of its key count; accurate
// counting reads the key count from a preceding OP_1..OP_16. A malformed
// push terminates the scan, matching the historical behavior.
func (s *Script) GetSigOpCount(accurate bool) int {
	n := 0
	lastOp := byte(opcodes.OP_INVALIDOPCODE)
	for i := 0; i < len(s.data); {
		op, next, ok := s.readOpCode(i)
		if !ok {
			break
		}
		switch op {
		case opcodes.OP_CHECKSIG, opcodes.OP_CHECKSIGVERIFY:
			n++
		case opcodes.OP_CHECKMULTISIG, opcodes.OP_CHECKMULTISIGVERIFY:
			if accurate && lastOp >= opcodes.OP_1 && lastOp <= opcodes.OP_16 {
				n += int(lastOp) - (opcodes.OP_1 - 1)
			} else {
				n += MultiSigOpCount
			}
		}
		lastOp = op
		i = next
	}
	return n
}

// PushOpCode appends a bare opcode.
func (s *Script) PushOpCode(op byte) {
	s.data = append(s.data, op)
}

// PushData appends data with the minimal push prefix for its length.
func (s *Script) PushData(data []byte) {
	switch {
	case len(data) < opcodes.OP_PUSHDATA1:
		s.data = append(s.data, byte(len(data)))
	case len(data) <= 0xff:
		s.data = append(s.data, opcodes.OP_PUSHDATA1, byte(len(data)))
	case len(data) <= 0xffff:
		s.data = append(s.data, opcodes.OP_PUSHDATA2, byte(len(data)), byte(len(data)>>8))
	default:
		s.data = append(s.data, opcodes.OP_PUSHDATA4, byte(len(data)),
			byte(len(data)>>8), byte(len(data)>>16), byte(len(data)>>24))
	}
	s.data = append(s.data, data...)
}
