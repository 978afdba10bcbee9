package utxo

import (
	"bytes"

	"github.com/sheepman0/skeincoin/log"
	"github.com/sheepman0/skeincoin/persist/db"
	"github.com/sheepman0/skeincoin/util"
)

// FlushEntry is one write of a cache flush: a serialized Coins record, or an
// erase when Coins is nil.
type FlushEntry struct {
	Hash  util.Hash
	Coins *Coins
}

// CoinsDB persists the unspent-output set. Entries live under the 'c'
// prefix keyed by transaction hash; the hash of the block the set reflects
// lives under 'B' and is written in the same batch as the entries, so a
// crash never leaves the two out of step.
type CoinsDB struct {
	dbw *db.DBWrapper
}

func NewCoinsDB(do *db.DBOption) (*CoinsDB, error) {
	dbw, err := db.NewDBWrapper(do)
	if err != nil {
		return nil, err
	}
	return &CoinsDB{dbw: dbw}, nil
}

func coinsEntryKey(hash *util.Hash) []byte {
	key := make([]byte, 0, 1+util.Hash256Size)
	key = append(key, db.DbCoins)
	return append(key, hash[:]...)
}

func (cdb *CoinsDB) GetCoins(hash *util.Hash) (*Coins, error) {
	buf, err := cdb.dbw.Read(coinsEntryKey(hash))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	coins := NewEmptyCoins()
	if err := coins.Unserialize(bytes.NewReader(buf)); err != nil {
		return nil, err
	}
	return coins, nil
}

func (cdb *CoinsDB) HaveCoins(hash *util.Hash) bool {
	return cdb.dbw.Exists(coinsEntryKey(hash))
}

func (cdb *CoinsDB) GetBestBlock() (*util.Hash, error) {
	buf, err := cdb.dbw.Read([]byte{db.DbBestBlock})
	if err != nil {
		return nil, err
	}
	hash, err := util.BytesToHash(buf)
	if err != nil {
		return nil, err
	}
	return hash, nil
}

// BatchWrite applies one flush atomically: entry upserts and erases in the
// caller's order, then the new best block hash.
func (cdb *CoinsDB) BatchWrite(entries []FlushEntry, bestBlock util.Hash) error {
	batch := db.NewBatchWrapper(cdb.dbw)
	count, erased := 0, 0
	for i := range entries {
		entry := &entries[i]
		if entry.Coins == nil {
			batch.Erase(coinsEntryKey(&entry.Hash))
			erased++
			continue
		}
		var buf bytes.Buffer
		if err := entry.Coins.Serialize(&buf); err != nil {
			return err
		}
		batch.Write(coinsEntryKey(&entry.Hash), buf.Bytes())
		count++
	}
	if !bestBlock.IsNull() {
		batch.Write([]byte{db.DbBestBlock}, bestBlock.GetCloneBytes())
	}
	log.Debug("utxo batch write: %d upserts, %d erases", count, erased)
	return cdb.dbw.WriteBatch(batch, true)
}

func (cdb *CoinsDB) EstimateSize() uint64 {
	begin := []byte{db.DbCoins}
	end := []byte{db.DbCoins + 1}
	return cdb.dbw.EstimateSize(begin, end)
}

func (cdb *CoinsDB) Close() {
	cdb.dbw.Close()
}
