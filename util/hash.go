package util

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"math/big"

	"crypto/sha256"

	"github.com/btcsuite/fastsha256"
	"golang.org/x/crypto/ripemd160"
)

const (
	Hash256Size       = 32
	MaxHashStringSize = Hash256Size * 2
	Hash160Size       = 20
)

type Hash [Hash256Size]byte

var HashZero = Hash{}

// Calculate the hash of hasher over buf.
func calcHash(buf []byte, hasher hash.Hash) []byte {
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// Hash160 calculates the hash ripemd160(sha256(b)).
func Hash160(buf []byte) []byte {
	return calcHash(calcHash(buf, sha256.New()), ripemd160.New())
}

func Sha256Hash(b []byte) Hash {
	return Hash(fastsha256.Sum256(b))
}

func DoubleSha256Hash(b []byte) Hash {
	first := fastsha256.Sum256(b)
	return Hash(fastsha256.Sum256(first[:]))
}

func DoubleSha256Bytes(b []byte) []byte {
	h := DoubleSha256Hash(b)
	return h[:]
}

// String renders the hash byte-reversed, the conventional display order.
// Value receiver so it can be called on returned temporaries.
func (hash Hash) String() string {
	bs := hash.GetCloneBytes()
	for i := 0; i < Hash256Size/2; i++ {
		bs[i], bs[Hash256Size-1-i] = bs[Hash256Size-1-i], bs[i]
	}
	return hex.EncodeToString(bs)
}

func (hash *Hash) EncodeSize() uint32 {
	return Hash256Size
}

func (hash *Hash) Serialize(w io.Writer) error {
	_, err := w.Write(hash[:])
	return err
}

func (hash *Hash) Unserialize(r io.Reader) error {
	_, err := io.ReadFull(r, hash[:])
	return err
}

func (hash *Hash) GetCloneBytes() []byte {
	bs := make([]byte, Hash256Size)
	copy(bs, hash[:])
	return bs
}

// ToBigInt interprets the hash as a little-endian 256-bit integer.
func (hash *Hash) ToBigInt() *big.Int {
	bs := hash.GetCloneBytes()
	for i := 0; i < Hash256Size/2; i++ {
		bs[i], bs[Hash256Size-1-i] = bs[Hash256Size-1-i], bs[i]
	}
	return new(big.Int).SetBytes(bs)
}

func (hash *Hash) Cmp(other *Hash) int {
	return hash.ToBigInt().Cmp(other.ToBigInt())
}

func (hash *Hash) SetBytes(bytes []byte) error {
	length := len(bytes)
	if length != Hash256Size {
		return fmt.Errorf("invalid hash length of %v , want %v", length, Hash256Size)
	}
	copy(hash[:], bytes)
	return nil
}

func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

func (hash *Hash) IsNull() bool {
	for _, item := range hash {
		if item != 0 {
			return false
		}
	}
	return true
}

func BytesToHash(bytes []byte) (hash *Hash, err error) {
	hash = new(Hash)
	err = hash.SetBytes(bytes)
	if err != nil {
		return nil, err
	}
	return hash, nil
}

// HashFromString parses the common big-endian hex rendering of a hash.
// Malformed input yields the zero hash; this is a test/params helper, not
// a consensus entry point.
func HashFromString(hexString string) *Hash {
	if len(hexString) > MaxHashStringSize {
		return &Hash{}
	}
	if len(hexString)%2 != 0 {
		hexString = "0" + hexString
	}
	bs, err := hex.DecodeString(hexString)
	if err != nil {
		return &Hash{}
	}
	hash := new(Hash)
	for i, b := range bs {
		hash[len(bs)-1-i] = b
	}
	return hash
}
