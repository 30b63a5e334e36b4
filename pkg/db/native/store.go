package native

import (
	"os"
	"unsafe"

	pkgerrors "github.com/pkg/errors"

	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/registry"
	"github.com/eigerco/levelbind/pkg/log"
)

var _ db.KVStore = (*KVStore)(nil)

// Handle is an open leveldb_t*.
type Handle struct {
	lib *Library
	ptr uintptr
}

func (h *Handle) Close() error {
	h.lib.close(h.ptr)
	h.ptr = 0
	return nil
}

type Registry = registry.Registry[*Handle]

func NewRegistry(baseDir string) *Registry {
	return registry.New[*Handle](baseDir)
}

// KVStore is a db.KVStore backed by the native LevelDB engine. The engine
// requires iterators to be destroyed before the database, so iterators still
// open when the store is closed are closed with it.
type KVStore struct {
	lib    *Library
	h      *Handle
	name   string
	reg    *Registry
	closed bool
	iters  map[*Iterator]struct{}
}

// Open opens the database called name under the registry's base directory,
// sharing the handle with any store already open under that name.
func Open(lib *Library, reg *Registry, name string, createIfMissing, errorIfExists bool) (*KVStore, error) {
	h, err := reg.Acquire(name, func(path string) (*Handle, error) {
		opts := lib.optionsCreate()
		defer lib.optionsDestroy(opts)
		lib.optionsSetCreateIfMissing(opts, boolToC(createIfMissing))
		lib.optionsSetErrorIfExists(opts, boolToC(errorIfExists))

		var ptr uintptr
		err := lib.call(func(errptr uintptr) {
			ptr = lib.open(opts, path, errptr)
		})
		if err != nil {
			return nil, err
		}
		return &Handle{lib: lib, ptr: ptr}, nil
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open leveldb %q", name)
	}
	log.DB.Debug().Str("engine", "native").Str("name", name).Msg("opened store")
	return &KVStore{lib: lib, h: h, name: name, reg: reg, iters: make(map[*Iterator]struct{})}, nil
}

// Destroy removes the database called name with leveldb_destroy_db and then
// deletes the emptied directory. The database must not be open.
func Destroy(lib *Library, reg *Registry, name string) error {
	return reg.Destroy(name, func(path string) error {
		opts := lib.optionsCreate()
		defer lib.optionsDestroy(opts)
		if err := lib.call(func(errptr uintptr) { lib.destroyDB(opts, path, errptr) }); err != nil {
			return pkgerrors.Wrapf(err, "destroy leveldb %q", name)
		}
		return os.RemoveAll(path)
	})
}

func (s *KVStore) Get(key []byte) ([]byte, bool, error) {
	if s.closed {
		return nil, false, db.ErrClosed
	}
	var p uintptr
	vallen := new(uintptr)
	err := s.lib.call(func(errptr uintptr) {
		p = s.lib.get(s.h.ptr, s.lib.ropts, bytesPtr(key), uintptr(len(key)), uintptr(unsafe.Pointer(vallen)), errptr)
	})
	keepAlive(key)
	if err != nil {
		return nil, false, pkgerrors.Wrap(err, "get")
	}
	if p == 0 {
		return nil, false, nil
	}
	return s.lib.takeBytes(p, *vallen), true, nil
}

func (s *KVStore) Put(key, value []byte) error {
	if s.closed {
		return db.ErrClosed
	}
	err := s.lib.call(func(errptr uintptr) {
		s.lib.put(s.h.ptr, s.lib.wopts, bytesPtr(key), uintptr(len(key)), bytesPtr(value), uintptr(len(value)), errptr)
	})
	keepAlive(key, value)
	return pkgerrors.Wrap(err, "put")
}

func (s *KVStore) Delete(key []byte) error {
	if s.closed {
		return db.ErrClosed
	}
	err := s.lib.call(func(errptr uintptr) {
		s.lib.del(s.h.ptr, s.lib.wopts, bytesPtr(key), uintptr(len(key)), errptr)
	})
	keepAlive(key)
	return pkgerrors.Wrap(err, "delete")
}

func (s *KVStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for it := range s.iters {
		it.Close() //nolint:errcheck // destroying an iterator never fails
	}
	log.DB.Debug().Str("engine", "native").Str("name", s.name).Msg("closing store")
	return s.reg.Release(s.name)
}
