package db

import (
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	lvldb "github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	lvlutil "github.com/syndtr/goleveldb/leveldb/util"
)

// Key prefixes of the node's databases. Single bytes keep iteration ranges
// cheap.
const (
	DbCoins     byte = 'c'
	DbBestBlock byte = 'B'
	DbBlockUndo byte = 'u'
	DbFlag      byte = 'F'
)

const (
	obfuscateKeyKey = "\000obfuscate_key"
	obfuscateKeyLen = 8

	preallocKeySize   = 64
	preallocValueSize = 1024
)

// ErrNotFound is returned by Read for missing keys.
var ErrNotFound = lvldb.ErrNotFound

// DBWrapper wraps a leveldb handle with the on-disk conventions every store
// in this node shares: checksummed reads, an optional 8-byte XOR obfuscation
// key generated on first open, and batched writes.
type DBWrapper struct {
	option       opt.Options
	readOption   opt.ReadOptions
	iterOption   opt.ReadOptions
	writeOption  opt.WriteOptions
	syncOption   opt.WriteOptions
	db           *lvldb.DB
	name         string
	obfuscateKey []byte
}

type DBOption struct {
	FilePath       string
	CacheSize      int
	Wipe           bool
	DontObfuscate  bool
	ForceCompactdb bool
}

func genObfuscateKey() []byte {
	buf := make([]byte, obfuscateKeyLen)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random bytes")
	}
	return buf
}

func getOptions(cacheSize int) opt.Options {
	var opts opt.Options
	opts.BlockCacher = opt.LRUCacher
	opts.BlockCacheCapacity = cacheSize / 2
	opts.WriteBuffer = cacheSize / 4
	opts.Filter = filter.NewBloomFilter(10)
	opts.Compression = opt.NoCompression
	opts.OpenFilesCacheCapacity = 64
	return opts
}

func destroyDB(path string) error {
	st, err := storage.OpenFile(path, false)
	if err != nil {
		return err
	}
	defer st.Close()
	fds, err := st.List(storage.TypeAll)
	if err != nil {
		return err
	}
	for _, fd := range fds {
		if err := st.Remove(fd); err != nil {
			return err
		}
	}
	for _, other := range []string{"CURRENT", "LOCK", "LOG", "LOG.old"} {
		if err := os.Remove(filepath.Join(path, other)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func NewDBWrapper(do *DBOption) (*DBWrapper, error) {
	if do == nil {
		return nil, errors.New("db: nil DBOption")
	}
	opts := getOptions(do.CacheSize)
	if do.Wipe {
		if err := destroyDB(do.FilePath); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(do.FilePath, 0740); err != nil && !os.IsExist(err) {
		return nil, err
	}
	ldb, err := lvldb.OpenFile(do.FilePath, &opts)
	if err != nil {
		return nil, err
	}
	if do.ForceCompactdb {
		if err := ldb.CompactRange(lvlutil.Range{}); err != nil {
			return nil, err
		}
	}

	dbw := &DBWrapper{
		option: opts,
		readOption: opt.ReadOptions{
			Strict: opt.StrictJournalChecksum | opt.StrictBlockChecksum,
		},
		iterOption: opt.ReadOptions{
			DontFillCache: true,
			Strict:        opt.StrictJournalChecksum | opt.StrictBlockChecksum,
		},
		syncOption:  opt.WriteOptions{Sync: true},
		db:          ldb,
		name:        filepath.Base(do.FilePath),
	}

	if obk, err := dbw.Read([]byte(obfuscateKeyKey)); err == nil {
		dbw.obfuscateKey = obk
	} else if !do.DontObfuscate && dbw.IsEmpty() {
		newKey := genObfuscateKey()
		if err := dbw.Write([]byte(obfuscateKeyKey), newKey, false); err != nil {
			return nil, err
		}
		dbw.obfuscateKey = newKey
	}
	return dbw, nil
}

func xor(val, key []byte) {
	if len(key) == 0 {
		return
	}
	for i, j := 0, 0; i < len(val); i++ {
		val[i] ^= key[j]
		j++
		if j == len(key) {
			j = 0
		}
	}
}

func (dbw *DBWrapper) Read(key []byte) ([]byte, error) {
	value, err := dbw.db.Get(key, &dbw.readOption)
	if err != nil {
		return nil, err
	}
	xor(value, dbw.obfuscateKey)
	return value, nil
}

func (dbw *DBWrapper) Write(key, val []byte, sync bool) error {
	bw := NewBatchWrapper(dbw)
	bw.Write(key, val)
	return dbw.WriteBatch(bw, sync)
}

func (dbw *DBWrapper) WriteBatch(bw *BatchWrapper, sync bool) error {
	opts := dbw.writeOption
	if sync {
		opts = dbw.syncOption
	}
	return dbw.db.Write(&bw.bat, &opts)
}

func (dbw *DBWrapper) Exists(key []byte) bool {
	has, err := dbw.db.Has(key, &dbw.readOption)
	if err != nil {
		return false
	}
	return has
}

func (dbw *DBWrapper) Erase(key []byte, sync bool) error {
	bw := NewBatchWrapper(dbw)
	bw.Erase(key)
	return dbw.WriteBatch(bw, sync)
}

func (dbw *DBWrapper) Sync() error {
	bw := NewBatchWrapper(dbw)
	return dbw.WriteBatch(bw, true)
}

func (dbw *DBWrapper) Iterator() *IterWrapper {
	return NewIterWrapper(dbw, dbw.db.NewIterator(nil, &dbw.iterOption))
}

func (dbw *DBWrapper) IsEmpty() bool {
	it := dbw.Iterator()
	defer it.Close()
	it.SeekToFirst()
	return !it.Valid()
}

func (dbw *DBWrapper) EstimateSize(begin, end []byte) uint64 {
	sizes, err := dbw.db.SizeOf([]lvlutil.Range{{Start: begin, Limit: end}})
	if err != nil {
		return 0
	}
	return uint64(sizes.Sum())
}

func (dbw *DBWrapper) CompactRange(begin, end []byte) error {
	return dbw.db.CompactRange(lvlutil.Range{Start: begin, Limit: end})
}

func (dbw *DBWrapper) GetObfuscateKey() []byte {
	return dbw.obfuscateKey
}

func (dbw *DBWrapper) Close() {
	if dbw.db != nil {
		dbw.db.Close()
	}
}

// BatchWrapper accumulates obfuscated writes and tracks a rough serialized
// size, which callers use to bound batch memory during large flushes.
type BatchWrapper struct {
	bat     lvldb.Batch
	parent  *DBWrapper
	bkey    []byte
	bval    []byte
	sizeEst int
}

func NewBatchWrapper(parent *DBWrapper) *BatchWrapper {
	return &BatchWrapper{
		parent: parent,
		bkey:   make([]byte, 0, preallocKeySize),
		bval:   make([]byte, 0, preallocValueSize),
	}
}

func (bw *BatchWrapper) Clear() {
	bw.bat.Reset()
	bw.sizeEst = 0
}

func (bw *BatchWrapper) Write(key, val []byte) {
	bw.bkey = append(bw.bkey[:0], key...)
	bw.bval = append(bw.bval[:0], val...)
	xor(bw.bval, bw.parent.GetObfuscateKey())
	bw.bat.Put(bw.bkey, bw.bval)
	// leveldb writes a 1-byte record header plus varint-prefixed key and
	// value; the estimate assumes both stay under 16k.
	k, v := 0, 0
	if len(bw.bkey) > 127 {
		k = 1
	}
	if len(bw.bval) > 127 {
		v = 1
	}
	bw.sizeEst += 3 + k + len(bw.bkey) + v + len(bw.bval)
}

func (bw *BatchWrapper) Erase(key []byte) {
	bw.bkey = append(bw.bkey[:0], key...)
	bw.bat.Delete(bw.bkey)
	k := 0
	if len(bw.bkey) > 127 {
		k = 1
	}
	bw.sizeEst += 2 + k + len(bw.bkey)
}

func (bw *BatchWrapper) SizeEstimate() int {
	return bw.sizeEst
}

type IterWrapper struct {
	parent *DBWrapper
	iter   iterator.Iterator
}

func NewIterWrapper(parent *DBWrapper, iter iterator.Iterator) *IterWrapper {
	return &IterWrapper{parent: parent, iter: iter}
}

func (iw *IterWrapper) Valid() bool {
	return iw.iter != nil && iw.iter.Valid()
}

func (iw *IterWrapper) SeekToFirst() {
	iw.Seek(nil)
}

func (iw *IterWrapper) Seek(key []byte) {
	if iw.iter != nil {
		iw.iter.Seek(key)
	}
}

func (iw *IterWrapper) Next() {
	if iw.iter != nil {
		iw.iter.Next()
	}
}

func (iw *IterWrapper) GetKey() []byte {
	if iw.iter == nil {
		return nil
	}
	return append([]byte(nil), iw.iter.Key()...)
}

func (iw *IterWrapper) GetVal() []byte {
	if iw.iter == nil {
		return nil
	}
	val := append([]byte(nil), iw.iter.Value()...)
	xor(val, iw.parent.GetObfuscateKey())
	return val
}

func (iw *IterWrapper) Close() {
	if iw.iter != nil {
		iw.iter.Release()
	}
}
