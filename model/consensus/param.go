package consensus

import (
	"math/big"

	"github.com/sheepman0/skeincoin/util"
)

const (
	// MaxBlockSize the bound on a serialized block (network rule).
	MaxBlockSize = 1000000

	// MaxBlockSigOps the bound on legacy signature operations per block.
	MaxBlockSigOps = MaxBlockSize / 50

	// MaxTxSize the bound on a single serialized transaction.
	MaxTxSize = 100000

	// MaxTimeOffset how far a block timestamp may run ahead of the
	// network-adjusted clock: 2 hours.
	MaxTimeOffset = 2 * 60 * 60

	// CoinbaseMaturity the number of confirmations before newly minted
	// value may be spent.
	CoinbaseMaturity = 100

	// AuxPowChainID this chain's identifier inside merged-mining
	// commitment trees.
	AuxPowChainID = 0x0053
)

// Param holds the consensus constants of one network. It is threaded
// explicitly through every validation entry point so one process can check
// blocks against several networks without cross-talk.
type Param struct {
	Name        string
	GenesisHash *util.Hash

	// Proof of work bounds.
	PowLimit     *big.Int
	PowLimitBits uint32

	// AuxPowStartHeight the height at/above which a block may carry an
	// auxiliary proof of work. Test networks allow it from genesis; the
	// production network keeps it out of reach.
	AuxPowStartHeight int32

	// AuxPowChainID identifies this chain inside merged-mining commitment
	// trees; a parent block proving work for us must carry a different ID.
	AuxPowChainID int32

	// HeaderHashFn the designated header-hash function of this network,
	// applied to the fixed-size header fields only.
	HeaderHashFn func([]byte) util.Hash

	// RequireChainID enforces the chain-identifier check on headers. Test
	// networks switch it off.
	RequireChainID bool

	SubsidyHalvingInterval int32
}
