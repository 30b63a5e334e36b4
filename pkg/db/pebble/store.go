package pebble

import (
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/registry"
	"github.com/eigerco/levelbind/pkg/log"
)

var _ db.KVStore = (*KVStore)(nil)

// Registry shares pebble handles between stores opened under the same name.
type Registry = registry.Registry[*pebble.DB]

func NewRegistry(baseDir string) *Registry {
	return registry.New[*pebble.DB](baseDir)
}

// KVStore is a db.KVStore backed by pebble. Iterators still open when the
// store is closed are closed with it.
type KVStore struct {
	db     *pebble.DB
	name   string
	reg    *Registry
	closed bool
	iters  map[*Iterator]struct{}
}

func newKVStore(pdb *pebble.DB, reg *Registry, name string) *KVStore {
	return &KVStore{
		db:    pdb,
		name:  name,
		reg:   reg,
		iters: make(map[*Iterator]struct{}),
	}
}

// OpenInMemory opens a pebble store on an in-memory filesystem.
func OpenInMemory() (*KVStore, error) {
	pdb, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, fmt.Errorf(ErrInOpen, err)
	}
	log.DB.Debug().Str("engine", "pebble").Msg("opened in-memory store")
	return newKVStore(pdb, nil, ""), nil
}

// Open opens the store called name under the registry's base directory,
// sharing the handle with any store already open under that name.
func Open(reg *Registry, name string, createIfMissing, errorIfExists bool) (*KVStore, error) {
	pdb, err := reg.Acquire(name, func(path string) (*pebble.DB, error) {
		opts := &pebble.Options{
			Cache:            pebble.NewCache(64 * 1024 * 1024), // 64MB
			MemTableSize:     32 * 1024 * 1024,                  // 32MB
			ErrorIfExists:    errorIfExists,
			ErrorIfNotExists: !createIfMissing,
		}
		defer opts.Cache.Unref()
		return pebble.Open(path, opts)
	})
	if err != nil {
		return nil, fmt.Errorf(ErrInOpen, err)
	}
	log.DB.Debug().Str("engine", "pebble").Str("name", name).Msg("opened store")
	return newKVStore(pdb, reg, name), nil
}

// Destroy deletes the files of the store called name. The store must not be
// open.
func Destroy(reg *Registry, name string) error {
	return reg.Destroy(name, os.RemoveAll)
}

func (p *KVStore) Get(key []byte) ([]byte, bool, error) {
	if p.closed {
		return nil, false, db.ErrClosed
	}

	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close() //nolint:errcheck

	result := make([]byte, len(value))
	copy(result, value)
	return result, true, nil
}

func (p *KVStore) Put(key, value []byte) error {
	if p.closed {
		return db.ErrClosed
	}
	return p.db.Set(key, value, pebble.Sync)
}

func (p *KVStore) Delete(key []byte) error {
	if p.closed {
		return db.ErrClosed
	}
	return p.db.Delete(key, pebble.Sync)
}

func (p *KVStore) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for it := range p.iters {
		errs = append(errs, it.Close())
	}

	if p.reg != nil {
		errs = append(errs, p.reg.Release(p.name))
	} else {
		errs = append(errs, p.db.Close())
	}
	log.DB.Debug().Str("engine", "pebble").Str("name", p.name).Msg("closed store")
	return errors.Join(errs...)
}
