package utxo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheepman0/skeincoin/model/outpoint"
	"github.com/sheepman0/skeincoin/persist/db"
	"github.com/sheepman0/skeincoin/util"
	"github.com/sheepman0/skeincoin/util/amount"
)

func tempCoinsDB(t *testing.T) *CoinsDB {
	t.Helper()
	cdb, err := NewCoinsDB(&db.DBOption{
		FilePath:  t.TempDir(),
		CacheSize: 1 << 20,
	})
	assert.NoError(t, err)
	t.Cleanup(cdb.Close)
	return cdb
}

func TestCoinsMapAddSpendFlush(t *testing.T) {
	cdb := tempCoinsDB(t)
	cm := NewCoinsMap(cdb)

	txn := makeTx(1*amount.COIN, 2*amount.COIN)
	hash := txn.GetHash()
	cm.AddCoins(txn, 10)
	assert.True(t, cm.HaveCoins(&hash))

	best := *util.HashFromString("00000000000000000000000000000000000000000000000000000000000000aa")
	cm.SetBestBlock(best)
	assert.NoError(t, cm.Flush())
	assert.Equal(t, 0, cm.CacheSize())

	// the entry and best block survive in the backing store
	assert.True(t, cdb.HaveCoins(&hash))
	got, err := cdb.GetCoins(&hash)
	assert.NoError(t, err)
	assert.Equal(t, int32(10), got.GetHeight())
	assert.Equal(t, amount.Amount(2*amount.COIN), got.GetOut(1).GetValue())

	stored, err := cdb.GetBestBlock()
	assert.NoError(t, err)
	assert.True(t, best.IsEqual(stored))

	// a fresh map faults the entry back in
	cm2 := NewCoinsMap(cdb)
	assert.True(t, cm2.HaveCoins(&hash))
	assert.Equal(t, best, cm2.GetBestBlock())
}

func TestCoinsMapSpendThroughFlush(t *testing.T) {
	cdb := tempCoinsDB(t)
	cm := NewCoinsMap(cdb)

	txn := makeTx(1 * amount.COIN)
	hash := txn.GetHash()
	cm.AddCoins(txn, 5)
	assert.NoError(t, cm.Flush())

	// spend the lone output and flush: the entry must be erased on disk
	cm = NewCoinsMap(cdb)
	coins := cm.ModifyCoins(&hash)
	_, ok := coins.Spend(&outpoint.OutPoint{Index: 0})
	assert.True(t, ok)
	assert.NoError(t, cm.Flush())
	assert.False(t, cdb.HaveCoins(&hash))
}

func TestCoinsMapFreshPrunedNeverWritten(t *testing.T) {
	cdb := tempCoinsDB(t)
	cm := NewCoinsMap(cdb)

	txn := makeTx(1 * amount.COIN)
	hash := txn.GetHash()
	cm.AddCoins(txn, 5)
	coins := cm.ModifyCoins(&hash)
	assert.True(t, coins.SpendSlot(0))
	assert.NoError(t, cm.Flush())
	assert.False(t, cdb.HaveCoins(&hash))
}

func TestCoinsMapMissing(t *testing.T) {
	cm := NewCoinsMap(tempCoinsDB(t))
	missing := util.HashFromString("00000000000000000000000000000000000000000000000000000000000000bb")
	assert.Nil(t, cm.FetchCoins(missing))
	assert.False(t, cm.HaveCoins(missing))
}

func TestCoinsMapUnCache(t *testing.T) {
	cdb := tempCoinsDB(t)
	cm := NewCoinsMap(cdb)

	txn := makeTx(1 * amount.COIN)
	hash := txn.GetHash()
	cm.AddCoins(txn, 5)
	assert.NoError(t, cm.Flush())

	cm = NewCoinsMap(cdb)
	assert.NotNil(t, cm.FetchCoins(&hash))
	assert.Equal(t, 1, cm.CacheSize())
	cm.UnCache(&hash)
	assert.Equal(t, 0, cm.CacheSize())

	// dirty entries stay
	cm.ModifyCoins(&hash)
	cm.UnCache(&hash)
	assert.Equal(t, 1, cm.CacheSize())
}
