package merkle

import (
	"github.com/sheepman0/skeincoin/util"
)

// hashNodes computes the parent of two adjacent nodes. An odd level pairs its
// last node with itself, so left and right may alias.
func hashNodes(left, right *util.Hash) util.Hash {
	buf := make([]byte, 0, 2*util.Hash256Size)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return util.DoubleSha256Hash(buf)
}

// BuildTree builds the flat retained merkle tree over the given leaves: the
// leaf level first, then every reduced level appended in order, the root
// last. An empty leaf set yields an empty tree. An odd level hashes its last
// node with itself, so a block whose last transaction is duplicated produces
// the same root (CVE-2012-2459); block validation rejects duplicate
// transactions before trusting the root.
func BuildTree(leaves []util.Hash) []util.Hash {
	if len(leaves) == 0 {
		return nil
	}
	tree := make([]util.Hash, 0, treeSize(len(leaves)))
	tree = append(tree, leaves...)

	j := 0
	for size := len(leaves); size > 1; size = (size + 1) / 2 {
		for i := 0; i < size; i += 2 {
			i2 := i + 1
			if i2 > size-1 {
				i2 = size - 1
			}
			tree = append(tree, hashNodes(&tree[j+i], &tree[j+i2]))
		}
		j += size
	}
	return tree
}

func treeSize(leafCount int) int {
	n := 0
	for size := leafCount; size > 1; size = (size + 1) / 2 {
		n += size
	}
	return n + 1
}

// TreeRoot returns the last node of a flat tree, the zero hash if empty.
func TreeRoot(tree []util.Hash) util.Hash {
	if len(tree) == 0 {
		return util.HashZero
	}
	return tree[len(tree)-1]
}

// ComputeRoot is BuildTree without retaining the intermediate levels.
func ComputeRoot(leaves []util.Hash) util.Hash {
	return TreeRoot(BuildTree(leaves))
}

// TreeBranch extracts the authentication path for the leaf at index from a
// flat tree built over leafCount leaves. At each level the sibling is
// index^1, clamped to the level's last node when the level is odd.
func TreeBranch(tree []util.Hash, leafCount int, index int) []util.Hash {
	branch := make([]util.Hash, 0, 32)
	j := 0
	for size := leafCount; size > 1; size = (size + 1) / 2 {
		i := index ^ 1
		if i > size-1 {
			i = size - 1
		}
		branch = append(branch, tree[j+i])
		index >>= 1
		j += size
	}
	return branch
}

// CheckBranch folds a leaf hash up through a branch and returns the implied
// root. The index encodes left/right at each level via its low bit. An index
// of -1 is the "no position" sentinel and yields the zero hash, which can
// never match a real root.
func CheckBranch(hash util.Hash, branch []util.Hash, index int) util.Hash {
	if index == -1 {
		return util.HashZero
	}
	for i := range branch {
		other := branch[i]
		if index&1 == 1 {
			hash = hashNodes(&other, &hash)
		} else {
			hash = hashNodes(&hash, &other)
		}
		index >>= 1
	}
	return hash
}
