package auxpow

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/sheepman0/skeincoin/model/merkle"
	"github.com/sheepman0/skeincoin/model/tx"
	"github.com/sheepman0/skeincoin/util"
)

// MergedMiningHeader marks the commitment inside a parent coinbase script.
var MergedMiningHeader = []byte{0xfa, 0xbe, 'm', 'm'}

const (
	// MaxChainBranchLength bounds the commitment tree depth, so the tree
	// holds at most 2^30 chains.
	MaxChainBranchLength = 30

	// legacyScanWindow how deep into the parent coinbase script an
	// unmarked commitment may start.
	legacyScanWindow = 20
)

// ParentBlockHeader is the header of the parent-chain block that carried the
// merged-mining commitment. The parent is a foreign chain, so this is a
// distinct type from our own header: it is never validated beyond its hash
// and its chain ID, and it never nests another proof.
type ParentBlockHeader struct {
	Version       int32
	HashPrevBlock util.Hash
	MerkleRoot    util.Hash
	Time          uint32
	Bits          uint32
	Nonce         uint32
}

func (h *ParentBlockHeader) GetHash() util.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, 80))
	if err := h.Encode(buf); err != nil {
		panic("parent header encode failed: " + err.Error())
	}
	return util.DoubleSha256Hash(buf.Bytes())
}

// ChainID extracts the chain identifier packed into the version field.
func (h *ParentBlockHeader) ChainID() int32 {
	return h.Version / VersionChainStart
}

func (h *ParentBlockHeader) Encode(w io.Writer) error {
	return util.WriteElements(w, h.Version, &h.HashPrevBlock, &h.MerkleRoot,
		h.Time, h.Bits, h.Nonce)
}

func (h *ParentBlockHeader) Decode(r io.Reader) error {
	return util.ReadElements(r, &h.Version, &h.HashPrevBlock, &h.MerkleRoot,
		&h.Time, &h.Bits, &h.Nonce)
}

// VersionChainStart is the multiplier that positions the chain ID inside a
// block version.
const VersionChainStart = 0x10000

// AuxPow proves that the parent-chain block committed to one of our block
// hashes: the parent coinbase is shown to be in the parent block, and the
// commitment tree inside the coinbase script is shown to contain our hash at
// the slot this chain's ID pseudo-randomly selects.
type AuxPow struct {
	CoinbaseTx     *tx.Tx
	ParentHash     util.Hash
	CoinbaseBranch []util.Hash
	CoinbaseIndex  int32
	ChainBranch    []util.Hash
	ChainIndex     int32
	ParentBlock    ParentBlockHeader
}

func NewAuxPow() *AuxPow {
	return &AuxPow{CoinbaseTx: tx.NewEmptyTx()}
}

// ParentBlockHash is the hash the proof-of-work check measures against our
// target: the parent block did the work, not our own header.
func (ap *AuxPow) ParentBlockHash() util.Hash {
	return ap.ParentBlock.GetHash()
}

// Check verifies the proof for the given aux block hash against the chain ID
// baked into this network's parameters.
func (ap *AuxPow) Check(auxBlockHash util.Hash, chainID int32) error {
	if ap.CoinbaseIndex != 0 {
		return errors.New("auxpow coinbase is not at index 0")
	}
	if ap.ParentBlock.ChainID() == chainID {
		return errors.New("auxpow parent has our chain ID")
	}
	if len(ap.ChainBranch) > MaxChainBranchLength {
		return errors.New("auxpow chain merkle branch too long")
	}

	// the parent coinbase must really be the parent block's first tx
	rootHash := merkle.CheckBranch(ap.CoinbaseTx.GetHash(), ap.CoinbaseBranch,
		int(ap.CoinbaseIndex))
	if !rootHash.IsEqual(&ap.ParentBlock.MerkleRoot) {
		return errors.New("auxpow merkle root incorrect")
	}

	// commitment roots are embedded in the script byte-reversed
	chainRoot := merkle.CheckBranch(auxBlockHash, ap.ChainBranch, int(ap.ChainIndex))
	reversedRoot := chainRoot.GetCloneBytes()
	for i, j := 0, len(reversedRoot)-1; i < j; i, j = i+1, j-1 {
		reversedRoot[i], reversedRoot[j] = reversedRoot[j], reversedRoot[i]
	}

	if ap.CoinbaseTx.GetInsCount() == 0 {
		return errors.New("auxpow coinbase has no inputs")
	}
	script := ap.CoinbaseTx.GetTxIn(0).GetScriptSig().GetData()

	headerPos := bytes.Index(script, MergedMiningHeader)
	rootPos := bytes.Index(script, reversedRoot)
	if rootPos == -1 {
		return errors.New("auxpow missing chain merkle root in parent coinbase")
	}

	if headerPos != -1 {
		// marked commitment: exactly one marker, root immediately after it
		if bytes.Index(script[headerPos+1:], MergedMiningHeader) != -1 {
			return errors.New("multiple merged mining headers in coinbase")
		}
		if headerPos+len(MergedMiningHeader) != rootPos {
			return errors.New("merged mining header is not just before chain merkle root")
		}
	} else {
		// unmarked legacy commitment: protect against a root picked from
		// deep inside an attacker-controlled script
		if rootPos > legacyScanWindow {
			return errors.New("auxpow chain merkle root must start in the first 20 bytes of the parent coinbase")
		}
	}

	// the tree size and nonce trail the root
	tail := script[rootPos+len(reversedRoot):]
	if len(tail) < 8 {
		return errors.New("auxpow missing chain merkle tree size and nonce in parent coinbase")
	}
	size := binary.LittleEndian.Uint32(tail[:4])
	nonce := binary.LittleEndian.Uint32(tail[4:8])
	if size != uint32(1)<<uint(len(ap.ChainBranch)) {
		return errors.New("auxpow merkle branch size does not match parent coinbase")
	}
	if uint32(ap.ChainIndex) != expectedChainIndex(nonce, chainID, len(ap.ChainBranch)) {
		return errors.New("auxpow wrong index")
	}
	return nil
}

// expectedChainIndex derives the slot our chain must occupy in a commitment
// tree of depth merkleHeight. Miners cannot grind the nonce per chain, so a
// chain cannot be proven at two different slots of the same tree.
func expectedChainIndex(nonce uint32, chainID int32, merkleHeight int) uint32 {
	rand := nonce
	rand = rand*1103515245 + 12345
	rand += uint32(chainID)
	rand = rand*1103515245 + 12345
	return rand % (uint32(1) << uint(merkleHeight))
}

func (ap *AuxPow) EncodeSize() uint32 {
	n := ap.CoinbaseTx.EncodeSize() + 32 +
		util.VarIntSerializeSize(uint64(len(ap.CoinbaseBranch))) +
		uint32(32*len(ap.CoinbaseBranch)) + 4 +
		util.VarIntSerializeSize(uint64(len(ap.ChainBranch))) +
		uint32(32*len(ap.ChainBranch)) + 4 + 80
	return n
}

func (ap *AuxPow) Encode(w io.Writer) error {
	if err := ap.CoinbaseTx.Encode(w); err != nil {
		return err
	}
	if err := util.WriteElements(w, &ap.ParentHash); err != nil {
		return err
	}
	if err := writeBranch(w, ap.CoinbaseBranch, ap.CoinbaseIndex); err != nil {
		return err
	}
	if err := writeBranch(w, ap.ChainBranch, ap.ChainIndex); err != nil {
		return err
	}
	return ap.ParentBlock.Encode(w)
}

func (ap *AuxPow) Decode(r io.Reader) error {
	ap.CoinbaseTx = tx.NewEmptyTx()
	if err := ap.CoinbaseTx.Decode(r); err != nil {
		return err
	}
	if err := util.ReadElements(r, &ap.ParentHash); err != nil {
		return err
	}
	var err error
	ap.CoinbaseBranch, ap.CoinbaseIndex, err = readBranch(r)
	if err != nil {
		return err
	}
	ap.ChainBranch, ap.ChainIndex, err = readBranch(r)
	if err != nil {
		return err
	}
	return ap.ParentBlock.Decode(r)
}

func writeBranch(w io.Writer, branch []util.Hash, index int32) error {
	if err := util.WriteVarInt(w, uint64(len(branch))); err != nil {
		return err
	}
	for i := range branch {
		if err := util.WriteElements(w, &branch[i]); err != nil {
			return err
		}
	}
	return util.WriteElements(w, index)
}

func readBranch(r io.Reader) ([]util.Hash, int32, error) {
	count, err := util.ReadVarInt(r)
	if err != nil {
		return nil, 0, err
	}
	if count > MaxChainBranchLength+32 {
		return nil, 0, errors.Errorf("merkle branch too long: %d", count)
	}
	branch := make([]util.Hash, count)
	for i := range branch {
		if err := util.ReadElements(r, &branch[i]); err != nil {
			return nil, 0, err
		}
	}
	var index int32
	if err := util.ReadElements(r, &index); err != nil {
		return nil, 0, err
	}
	return branch, index, nil
}
