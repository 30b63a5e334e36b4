// Package goleveldb adapts the pure Go LevelDB port to db.KVStore. It reads
// and writes the same on-disk format as the native engine.
package goleveldb

import (
	"errors"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/registry"
	"github.com/eigerco/levelbind/pkg/log"
)

var (
	_ db.KVStore = (*KVStore)(nil)

	writeOpt = opt.WriteOptions{Sync: true}
	readOpt  = opt.ReadOptions{}
	scanOpt  = opt.ReadOptions{DontFillCache: true}
)

type Registry = registry.Registry[*leveldb.DB]

func NewRegistry(baseDir string) *Registry {
	return registry.New[*leveldb.DB](baseDir)
}

// KVStore is a db.KVStore backed by goleveldb.
type KVStore struct {
	db     *leveldb.DB
	name   string
	reg    *Registry
	closed bool
	iters  map[*Iterator]struct{}
}

func newKVStore(ldb *leveldb.DB, reg *Registry, name string) *KVStore {
	return &KVStore{db: ldb, name: name, reg: reg, iters: make(map[*Iterator]struct{})}
}

// OpenInMemory opens a store on goleveldb's memory storage.
func OpenInMemory() (*KVStore, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open in-memory goleveldb")
	}
	log.DB.Debug().Str("engine", "goleveldb").Msg("opened in-memory store")
	return newKVStore(ldb, nil, ""), nil
}

// Open opens the store called name under the registry's base directory.
func Open(reg *Registry, name string, createIfMissing, errorIfExists bool) (*KVStore, error) {
	ldb, err := reg.Acquire(name, func(path string) (*leveldb.DB, error) {
		return leveldb.OpenFile(path, &opt.Options{
			ErrorIfMissing: !createIfMissing,
			ErrorIfExist:   errorIfExists,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open goleveldb %q", name)
	}
	log.DB.Debug().Str("engine", "goleveldb").Str("name", name).Msg("opened store")
	return newKVStore(ldb, reg, name), nil
}

// Destroy deletes the files of the store called name. The store must not be
// open.
func Destroy(reg *Registry, name string) error {
	return reg.Destroy(name, os.RemoveAll)
}

func (l *KVStore) Get(key []byte) ([]byte, bool, error) {
	if l.closed {
		return nil, false, db.ErrClosed
	}
	v, err := l.db.Get(key, &readOpt)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, pkgerrors.Wrap(err, "get")
	}
	// goleveldb hands out a fresh slice per Get, nil for an empty value.
	if v == nil {
		v = []byte{}
	}
	return v, true, nil
}

func (l *KVStore) Put(key, value []byte) error {
	if l.closed {
		return db.ErrClosed
	}
	return pkgerrors.Wrap(l.db.Put(key, value, &writeOpt), "put")
}

func (l *KVStore) Delete(key []byte) error {
	if l.closed {
		return db.ErrClosed
	}
	return pkgerrors.Wrap(l.db.Delete(key, &writeOpt), "delete")
}

func (l *KVStore) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true

	for it := range l.iters {
		it.Close() //nolint:errcheck // releasing never fails
	}

	var err error
	if l.reg != nil {
		err = l.reg.Release(l.name)
	} else {
		err = l.db.Close()
	}
	log.DB.Debug().Str("engine", "goleveldb").Str("name", l.name).Msg("closed store")
	return err
}
