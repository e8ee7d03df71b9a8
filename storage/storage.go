package storage

import (
	"path"

	"github.com/op/go-logging"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	lstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const StorageName = "bankdata"

var log = logging.MustGetLogger("storage")

type StorageImpl struct {
	db   *leveldb.DB
	path string
}

// NewStorage opens a leveldb store at p, or an in-memory one when p is empty.
func NewStorage(p string, opts *opt.Options) (Storage, error) {
	var nopts opt.Options
	if opts != nil {
		nopts = *opts
	}

	var err error
	var db *leveldb.DB

	if p == "" {
		db, err = leveldb.Open(lstorage.NewMemStorage(), &nopts)
	} else {
		p = path.Join(p, StorageName)
		db, err = leveldb.OpenFile(p, &nopts)
		log.Debugf("Created storage at %v", p)
		if errors.IsCorrupted(err) && !nopts.GetReadOnly() {
			db, err = leveldb.RecoverFile(p, &nopts)
		}
	}

	if err != nil {
		return nil, err
	}

	return &StorageImpl{
		db:   db,
		path: p,
	}, nil
}

func (s *StorageImpl) Put(rtype ResourceType, key []byte, value []byte) error {
	bytes := append(make([]byte, 1), byte(rtype))
	k := append(bytes, key...)
	return s.db.Put(k, value, &opt.WriteOptions{})
}

func (s *StorageImpl) Get(rtype ResourceType, key []byte) (value []byte, err error) {
	prefix := append(make([]byte, 1), byte(rtype))
	k := append(prefix, key...)
	return s.db.Get(k, &opt.ReadOptions{})
}

func (s *StorageImpl) Contains(rtype ResourceType, key []byte) bool {
	bytes := append(make([]byte, 1), byte(rtype))
	k := append(bytes, key...)
	b, _ := s.db.Has(k, &opt.ReadOptions{})
	return b
}

func (s *StorageImpl) Delete(rtype ResourceType, key []byte) error {
	bytes := append(make([]byte, 1), byte(rtype))
	k := append(bytes, key...)
	return s.db.Delete(k, &opt.WriteOptions{})
}

func (s *StorageImpl) Keys(rtype ResourceType, keyPrefix []byte) (keys [][]byte) {
	bytes := append(make([]byte, 1), byte(rtype))
	iter := s.db.NewIterator(util.BytesPrefix(append(bytes, keyPrefix...)), nil)

	for iter.Next() {
		key := iter.Key()
		keyCopy := make([]byte, len(key))
		copy(keyCopy, key)
		keys = append(keys, keyCopy)
	}

	iter.Release()

	return keys
}

func (s *StorageImpl) Stats() *leveldb.DBStats {
	stats := &leveldb.DBStats{}
	if err := s.db.Stats(stats); err != nil {
		log.Error("Can't collect storage stats", err)
		return nil
	}
	return stats
}

func (s *StorageImpl) Close() {
	if err := s.db.Close(); err != nil {
		log.Error("Can't close storage", err)
	}
}
