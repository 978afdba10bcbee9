package opcodes

// The subset of script opcodes this node needs: template matching for the
// compressed output encoding and legacy signature-operation counting.
const (
	OP_0         = 0x00
	OP_PUSHDATA1 = 0x4c
	OP_PUSHDATA2 = 0x4d
	OP_PUSHDATA4 = 0x4e
	OP_1NEGATE   = 0x4f
	OP_1         = 0x51
	OP_2         = 0x52
	OP_3         = 0x53
	OP_16        = 0x60

	OP_RETURN = 0x6a

	OP_DUP = 0x76

	OP_EQUAL       = 0x87
	OP_EQUALVERIFY = 0x88

	OP_RIPEMD160 = 0xa6
	OP_SHA256    = 0xa8
	OP_HASH160   = 0xa9
	OP_HASH256   = 0xaa

	OP_CHECKSIG            = 0xac
	OP_CHECKSIGVERIFY      = 0xad
	OP_CHECKMULTISIG       = 0xae
	OP_CHECKMULTISIGVERIFY = 0xaf

	OP_INVALIDOPCODE = 0xff
)
