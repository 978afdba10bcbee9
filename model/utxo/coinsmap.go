package utxo

import (
	"bytes"

	"github.com/google/btree"

	"github.com/sheepman0/skeincoin/log"
	"github.com/sheepman0/skeincoin/model/tx"
	"github.com/sheepman0/skeincoin/util"
)

type cacheFlag uint8

const (
	// entryDirty marks an entry that differs from the backing store.
	entryDirty cacheFlag = 1 << iota
	// entryFresh marks an entry the backing store has never seen, so a
	// pruned fresh entry can simply be forgotten instead of erased.
	entryFresh
)

type coinsCacheEntry struct {
	coins *Coins
	flags cacheFlag
}

// coinsKey orders cache keys for the flush walk.
type coinsKey struct {
	hash util.Hash
}

func (k coinsKey) Less(than btree.Item) bool {
	other := than.(coinsKey)
	return bytes.Compare(k.hash[:], other.hash[:]) < 0
}

// CoinsMap is the in-memory write-back layer over CoinsDB: reads fault
// entries in, modifications stay here until Flush pushes them down in one
// batch. It is not safe for concurrent use.
type CoinsMap struct {
	cacheCoins map[util.Hash]*coinsCacheEntry
	db         *CoinsDB
	bestBlock  util.Hash
}

func NewCoinsMap(db *CoinsDB) *CoinsMap {
	return &CoinsMap{
		cacheCoins: make(map[util.Hash]*coinsCacheEntry),
		db:         db,
	}
}

// FetchCoins returns the entry for hash, pulling it from the backing store
// on a miss. The returned entry must be treated as read-only.
func (cm *CoinsMap) FetchCoins(hash *util.Hash) *Coins {
	if entry, ok := cm.cacheCoins[*hash]; ok {
		return entry.coins
	}
	if cm.db == nil {
		return nil
	}
	coins, err := cm.db.GetCoins(hash)
	if err != nil || coins == nil {
		return nil
	}
	cm.cacheCoins[*hash] = &coinsCacheEntry{coins: coins}
	return coins
}

// ModifyCoins returns a mutable entry for hash, faulting it in when needed
// and marking it dirty.
func (cm *CoinsMap) ModifyCoins(hash *util.Hash) *Coins {
	coins := cm.FetchCoins(hash)
	if coins == nil {
		coins = NewEmptyCoins()
		cm.cacheCoins[*hash] = &coinsCacheEntry{coins: coins, flags: entryDirty | entryFresh}
		return coins
	}
	cm.cacheCoins[*hash].flags |= entryDirty
	return coins
}

// AddCoins records a transaction's outputs as a fresh unspent entry.
func (cm *CoinsMap) AddCoins(txn *tx.Tx, height int32) {
	hash := txn.GetHash()
	cm.cacheCoins[hash] = &coinsCacheEntry{
		coins: NewCoins(txn, height),
		flags: entryDirty | entryFresh,
	}
}

// HaveCoins reports whether an unpruned entry exists for hash.
func (cm *CoinsMap) HaveCoins(hash *util.Hash) bool {
	coins := cm.FetchCoins(hash)
	return coins != nil && !coins.IsPruned()
}

func (cm *CoinsMap) GetBestBlock() util.Hash {
	if cm.bestBlock.IsNull() && cm.db != nil {
		if best, err := cm.db.GetBestBlock(); err == nil {
			cm.bestBlock = *best
		}
	}
	return cm.bestBlock
}

func (cm *CoinsMap) SetBestBlock(hash util.Hash) {
	cm.bestBlock = hash
}

func (cm *CoinsMap) CacheSize() int {
	return len(cm.cacheCoins)
}

// Flush writes every dirty entry to the backing store in key order and
// empties the cache. Pruned fresh entries are dropped without touching the
// store.
func (cm *CoinsMap) Flush() error {
	ordered := btree.New(32)
	for hash := range cm.cacheCoins {
		ordered.ReplaceOrInsert(coinsKey{hash: hash})
	}

	flush := make([]FlushEntry, 0, len(cm.cacheCoins))
	ordered.Ascend(func(item btree.Item) bool {
		hash := item.(coinsKey).hash
		entry := cm.cacheCoins[hash]
		if entry.flags&entryDirty == 0 {
			return true
		}
		if entry.coins.IsPruned() {
			if entry.flags&entryFresh == 0 {
				flush = append(flush, FlushEntry{Hash: hash})
			}
			return true
		}
		flush = append(flush, FlushEntry{Hash: hash, Coins: entry.coins})
		return true
	})

	if cm.db != nil && (len(flush) > 0 || !cm.bestBlock.IsNull()) {
		if err := cm.db.BatchWrite(flush, cm.bestBlock); err != nil {
			log.Error("utxo flush failed: %v", err)
			return err
		}
	}
	cm.cacheCoins = make(map[util.Hash]*coinsCacheEntry)
	return nil
}

// UnCache evicts an unmodified entry, typically after a failed validation
// pulled in coins that will not be needed again.
func (cm *CoinsMap) UnCache(hash *util.Hash) {
	if entry, ok := cm.cacheCoins[*hash]; ok && entry.flags == 0 {
		delete(cm.cacheCoins, *hash)
	}
}
