package block

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sheepman0/skeincoin/model/auxpow"
	"github.com/sheepman0/skeincoin/model/chainparams"
	"github.com/sheepman0/skeincoin/util"
)

const (
	// VersionAuxPow flags a header whose work lives in an attached
	// auxiliary proof instead of the header itself.
	VersionAuxPow = 1 << 8

	// VersionChainStart positions the chain ID inside the version field;
	// everything below it is the plain version number plus flag bits.
	VersionChainStart = 1 << 16

	fixedHeaderSize = 80
)

// BlockHeader is this chain's header. Only the fixed fields enter the header
// hash; the auxiliary proof rides along in serialization when the version
// flag announces it, but never influences the block's identity.
type BlockHeader struct {
	Version       int32
	HashPrevBlock util.Hash
	MerkleRoot    util.Hash
	Time          uint32
	Bits          uint32
	Nonce         uint32
	AuxPow        *auxpow.AuxPow
}

func NewBlockHeader() *BlockHeader {
	return &BlockHeader{}
}

// BaseVersion strips the flag bits and chain ID.
func (bh *BlockHeader) BaseVersion() int32 {
	return bh.Version % VersionAuxPow
}

func (bh *BlockHeader) ChainID() int32 {
	return bh.Version / VersionChainStart
}

func (bh *BlockHeader) IsAuxPow() bool {
	return bh.Version&VersionAuxPow != 0
}

// SetBaseVersion writes the version number and chain ID, preserving no flag
// bits; call SetAuxPow afterwards if the block carries a proof.
func (bh *BlockHeader) SetBaseVersion(version int32, chainID int32) {
	bh.Version = version | chainID*VersionChainStart
}

// SetAuxPow attaches or detaches the auxiliary proof, keeping the version
// flag bit in sync so a header never advertises a proof it does not carry.
func (bh *BlockHeader) SetAuxPow(ap *auxpow.AuxPow) {
	bh.AuxPow = ap
	if ap != nil {
		bh.Version |= VersionAuxPow
	} else {
		bh.Version &^= VersionAuxPow
	}
}

// FixedBytes returns the 80 fixed header bytes, the preimage of the header
// hash. The auxiliary proof is deliberately outside it.
func (bh *BlockHeader) FixedBytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, fixedHeaderSize))
	if err := bh.encodeFixed(buf); err != nil {
		panic("header encode failed: " + err.Error())
	}
	return buf.Bytes()
}

// GetHash hashes the fixed header fields with the active network's
// designated header-hash function. Validation paths that thread params
// explicitly hash FixedBytes with params.HeaderHashFn instead.
func (bh *BlockHeader) GetHash() util.Hash {
	return chainparams.ActiveNetParams.HeaderHashFn(bh.FixedBytes())
}

func (bh *BlockHeader) encodeFixed(w io.Writer) error {
	return util.WriteElements(w, bh.Version, &bh.HashPrevBlock, &bh.MerkleRoot,
		bh.Time, bh.Bits, bh.Nonce)
}

func (bh *BlockHeader) decodeFixed(r io.Reader) error {
	return util.ReadElements(r, &bh.Version, &bh.HashPrevBlock, &bh.MerkleRoot,
		&bh.Time, &bh.Bits, &bh.Nonce)
}

func (bh *BlockHeader) EncodeSize() uint32 {
	n := uint32(fixedHeaderSize)
	if bh.IsAuxPow() && bh.AuxPow != nil {
		n += bh.AuxPow.EncodeSize()
	}
	return n
}

func (bh *BlockHeader) Encode(w io.Writer) error {
	if err := bh.encodeFixed(w); err != nil {
		return err
	}
	if bh.IsAuxPow() && bh.AuxPow != nil {
		return bh.AuxPow.Encode(w)
	}
	return nil
}

func (bh *BlockHeader) Decode(r io.Reader) error {
	if err := bh.decodeFixed(r); err != nil {
		return err
	}
	if bh.IsAuxPow() {
		bh.AuxPow = auxpow.NewAuxPow()
		return bh.AuxPow.Decode(r)
	}
	bh.AuxPow = nil
	return nil
}

func (bh *BlockHeader) Serialize(w io.Writer) error {
	return bh.Encode(w)
}

func (bh *BlockHeader) Unserialize(r io.Reader) error {
	return bh.Decode(r)
}

func (bh *BlockHeader) SerializeSize() uint32 {
	return bh.EncodeSize()
}

func (bh *BlockHeader) String() string {
	return fmt.Sprintf("Block version : %d, hashPrevBlock : %s, merkleRoot : %s, "+
		"Time : %d, Bits : 0x%08x, nonce : %d, auxpow : %v", bh.Version,
		bh.HashPrevBlock.String(), bh.MerkleRoot.String(), bh.Time, bh.Bits,
		bh.Nonce, bh.IsAuxPow())
}
