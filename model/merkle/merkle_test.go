package merkle

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheepman0/skeincoin/util"
)

func makeLeaves(n int) []util.Hash {
	leaves := make([]util.Hash, n)
	for i := range leaves {
		binary.LittleEndian.PutUint32(leaves[i][:4], uint32(i+1))
	}
	return leaves
}

func TestBuildTreeShape(t *testing.T) {
	assert.Nil(t, BuildTree(nil))
	assert.Equal(t, util.HashZero, TreeRoot(nil))

	// single leaf: the leaf is the root
	leaves := makeLeaves(1)
	tree := BuildTree(leaves)
	assert.Equal(t, 1, len(tree))
	assert.Equal(t, leaves[0], TreeRoot(tree))

	// 2 leaves -> 3 nodes, 3 -> 3+2+1, 4 -> 4+2+1, 5 -> 5+3+2+1
	assert.Equal(t, 3, len(BuildTree(makeLeaves(2))))
	assert.Equal(t, 6, len(BuildTree(makeLeaves(3))))
	assert.Equal(t, 7, len(BuildTree(makeLeaves(4))))
	assert.Equal(t, 11, len(BuildTree(makeLeaves(5))))
}

func TestTwoLeafRoot(t *testing.T) {
	leaves := makeLeaves(2)
	want := hashNodes(&leaves[0], &leaves[1])
	assert.Equal(t, want, ComputeRoot(leaves))
}

func TestOddLevelDuplicatesLast(t *testing.T) {
	leaves := makeLeaves(3)
	left := hashNodes(&leaves[0], &leaves[1])
	right := hashNodes(&leaves[2], &leaves[2])
	want := hashNodes(&left, &right)
	assert.Equal(t, want, ComputeRoot(leaves))

	// the duplicate-last rule makes [a b c] and [a b c c] collide
	dup := append(makeLeaves(3), leaves[2])
	assert.Equal(t, want, ComputeRoot(dup))
}

func TestBranchRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 17} {
		leaves := makeLeaves(n)
		tree := BuildTree(leaves)
		root := TreeRoot(tree)
		for i := 0; i < n; i++ {
			branch := TreeBranch(tree, n, i)
			assert.Equal(t, root, CheckBranch(leaves[i], branch, i),
				"n=%d index=%d", n, i)
		}
	}
}

func TestCheckBranchSentinel(t *testing.T) {
	leaves := makeLeaves(4)
	tree := BuildTree(leaves)
	branch := TreeBranch(tree, 4, 0)
	assert.Equal(t, util.HashZero, CheckBranch(leaves[0], branch, -1))
}

func TestCheckBranchWrongIndex(t *testing.T) {
	leaves := makeLeaves(4)
	tree := BuildTree(leaves)
	root := TreeRoot(tree)
	branch := TreeBranch(tree, 4, 2)
	assert.NotEqual(t, root, CheckBranch(leaves[2], branch, 1))
}
