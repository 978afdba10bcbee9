package pow

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/sheepman0/skeincoin/log"
	"github.com/sheepman0/skeincoin/model/block"
	"github.com/sheepman0/skeincoin/model/consensus"
	"github.com/sheepman0/skeincoin/util"
)

// UnknownHeight is the sentinel callers pass when a block's height is not
// yet known; height-dependent gates are skipped for it.
const UnknownHeight = int32(math.MaxInt32)

// HashToBig interprets a hash as a little-endian 256-bit unsigned integer,
// so it can be compared against a target.
func HashToBig(hash *util.Hash) *big.Int {
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}
	return new(big.Int).SetBytes(buf[:])
}

// CompactToBig decodes the compact target representation: an 8-bit base-256
// exponent and a 23-bit mantissa, with the mantissa's sign bit preserved.
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}
	if isNegative {
		bn = bn.Neg(bn)
	}
	return bn
}

// BigToCompact is the inverse of CompactToBig, normalizing the mantissa so
// its sign bit stays clear.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// CheckProofOfWork reports whether hash satisfies the compact target in
// bits: the target must decode to a positive value no easier than the
// network's proof-of-work limit, and the hash must not exceed it.
func CheckProofOfWork(hash *util.Hash, bits uint32, params *consensus.Param) bool {
	target := CompactToBig(bits)
	if target.Sign() <= 0 || target.Cmp(params.PowLimit) > 0 {
		log.Debug("invalid compact target 0x%08x", bits)
		return false
	}
	return HashToBig(hash).Cmp(target) <= 0
}

// CheckHeaderProofOfWork verifies the work claimed by a header at the given
// height (UnknownHeight when not known). A header without an auxiliary proof
// is checked directly against its target. With one, the proof's parent block
// must have done the work instead: the payload is verified for this header's
// hash, then the parent block hash is measured against our target.
func CheckHeaderProofOfWork(header *block.BlockHeader, height int32,
	params *consensus.Param) error {
	if height < params.AuxPowStartHeight {
		if header.AuxPow != nil || header.IsAuxPow() {
			return errors.New("auxpow is not allowed at this height")
		}
		hash := params.HeaderHashFn(header.FixedBytes())
		if !CheckProofOfWork(&hash, header.Bits, params) {
			return errors.New("proof of work failed")
		}
		return nil
	}

	// Same work must not be claimable by two chains: every header at a real
	// height must carry our chain ID, payload or not; the parent must not
	// (checked inside the payload), and the payload pins our slot in the
	// commitment tree.
	if params.RequireChainID && height != UnknownHeight &&
		header.ChainID() != params.AuxPowChainID {
		return errors.New("block does not have our chain ID")
	}

	if header.AuxPow == nil {
		hash := params.HeaderHashFn(header.FixedBytes())
		if !CheckProofOfWork(&hash, header.Bits, params) {
			return errors.New("proof of work failed")
		}
		return nil
	}

	hash := params.HeaderHashFn(header.FixedBytes())
	if err := header.AuxPow.Check(hash, params.AuxPowChainID); err != nil {
		return errors.Wrap(err, "auxpow is not valid")
	}
	parentHash := header.AuxPow.ParentBlockHash()
	if !CheckProofOfWork(&parentHash, header.Bits, params) {
		return errors.New("aux proof of work failed")
	}
	return nil
}
