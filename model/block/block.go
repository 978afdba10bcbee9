package block

import (
	"fmt"
	"io"

	"github.com/sheepman0/skeincoin/errcode"
	"github.com/sheepman0/skeincoin/model/merkle"
	"github.com/sheepman0/skeincoin/model/tx"
	"github.com/sheepman0/skeincoin/util"
)

type Block struct {
	Header BlockHeader
	Txs    []*tx.Tx

	// merkleTree caches the flat tree over Txs once built; any mutation of
	// Txs must go through a method that drops it.
	merkleTree []util.Hash

	Checked bool
}

func NewBlock() *Block {
	return &Block{}
}

func NewGenesisBlock(header *BlockHeader, txs []*tx.Tx) *Block {
	return &Block{Header: *header, Txs: txs}
}

func (blk *Block) GetHash() util.Hash {
	return blk.Header.GetHash()
}

func (blk *Block) GetBlockHeader() BlockHeader {
	return blk.Header
}

func (blk *Block) SetNull() {
	blk.Header = BlockHeader{}
	blk.Txs = nil
	blk.merkleTree = nil
	blk.Checked = false
}

func (blk *Block) AddTx(txn *tx.Tx) {
	blk.Txs = append(blk.Txs, txn)
	blk.merkleTree = nil
}

// BuildMerkleTree (re)builds and caches the retained tree and returns its
// root.
func (blk *Block) BuildMerkleTree() util.Hash {
	leaves := make([]util.Hash, len(blk.Txs))
	for i, txn := range blk.Txs {
		leaves[i] = txn.GetHash()
	}
	blk.merkleTree = merkle.BuildTree(leaves)
	return merkle.TreeRoot(blk.merkleTree)
}

// GetMerkleBranch proves the transaction at index against this block's
// merkle root, building the tree on first use.
func (blk *Block) GetMerkleBranch(index int) []util.Hash {
	if len(blk.merkleTree) == 0 {
		blk.BuildMerkleTree()
	}
	return merkle.TreeBranch(blk.merkleTree, len(blk.Txs), index)
}

func (blk *Block) EncodeSize() uint32 {
	n := blk.Header.EncodeSize() + util.VarIntSerializeSize(uint64(len(blk.Txs)))
	for _, txn := range blk.Txs {
		n += txn.EncodeSize()
	}
	return n
}

func (blk *Block) Encode(w io.Writer) error {
	if err := blk.Header.Encode(w); err != nil {
		return err
	}
	if err := util.WriteVarInt(w, uint64(len(blk.Txs))); err != nil {
		return err
	}
	for _, txn := range blk.Txs {
		if err := txn.Encode(w); err != nil {
			return err
		}
	}
	return nil
}

func (blk *Block) Decode(r io.Reader) error {
	blk.SetNull()
	if err := blk.Header.Decode(r); err != nil {
		return err
	}
	count, err := util.ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > uint64(util.MaxSize)/tx.MaxTxInPayload {
		return errcode.NewError(errcode.RejectMalformed, "bad-blk-tx-toomany")
	}
	blk.Txs = make([]*tx.Tx, count)
	for i := uint64(0); i < count; i++ {
		txn := tx.NewEmptyTx()
		if err := txn.Decode(r); err != nil {
			return err
		}
		blk.Txs[i] = txn
	}
	return nil
}

func (blk *Block) Serialize(w io.Writer) error {
	return blk.Encode(w)
}

func (blk *Block) Unserialize(r io.Reader) error {
	return blk.Decode(r)
}

func (blk *Block) SerializeSize() uint32 {
	return blk.EncodeSize()
}

func (blk *Block) String() string {
	str := fmt.Sprintf("Block : hash : %s, %s, tx.size : %d",
		blk.GetHash().String(), blk.Header.String(), len(blk.Txs))
	return str
}
