package storage

import "github.com/syndtr/goleveldb/leveldb"

type Persistable interface {
	Persist(storage Storage) error
}

type ResourceType byte

const Accounts = ResourceType(0x0)
const Meta = ResourceType(0x1)

type Storage interface {
	Put(rtype ResourceType, key []byte, value []byte) error
	Get(rtype ResourceType, key []byte) (value []byte, err error)
	Contains(rtype ResourceType, key []byte) bool
	Delete(rtype ResourceType, key []byte) error
	Keys(rtype ResourceType, keyPrefix []byte) (keys [][]byte)
	Stats() *leveldb.DBStats
	Close()
}
