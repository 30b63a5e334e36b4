// Package backend opens the storage backend chosen by configuration. Callers
// program against db.KVStore and never see which engine they were given.
package backend

import (
	"fmt"
	"sync"

	"github.com/eigerco/levelbind/pkg/config"
	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/goleveldb"
	"github.com/eigerco/levelbind/pkg/db/memory"
	"github.com/eigerco/levelbind/pkg/db/native"
	"github.com/eigerco/levelbind/pkg/db/pebble"
	"github.com/eigerco/levelbind/pkg/log"
)

// Manager owns the handle registries for one configuration. Stores opened
// under the same name through one Manager share an engine handle.
type Manager struct {
	cfg config.Config

	pebbleReg    *pebble.Registry
	goleveldbReg *goleveldb.Registry
	nativeReg    *native.Registry

	nativeOnce sync.Once
	nativeLib  *native.Library
	nativeErr  error
	closed     bool
}

// store keeps a typed nil pointer out of the returned interface.
func store[S db.KVStore](s S, err error) (db.KVStore, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

func NewManager(cfg config.Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		cfg:          cfg,
		pebbleReg:    pebble.NewRegistry(cfg.DataDir),
		goleveldbReg: goleveldb.NewRegistry(cfg.DataDir),
		nativeReg:    native.NewRegistry(cfg.DataDir),
	}, nil
}

func (m *Manager) Backend() config.Backend {
	return m.cfg.Backend
}

// library loads libleveldb on first use.
func (m *Manager) library() (*native.Library, error) {
	m.nativeOnce.Do(func() {
		m.nativeLib, m.nativeErr = native.Load(m.cfg.NativeLibrary)
	})
	return m.nativeLib, m.nativeErr
}

// Open opens the database called name. The memory backend ignores name and
// always returns a new, empty store.
func (m *Manager) Open(name string) (db.KVStore, error) {
	if m.closed {
		return nil, db.ErrClosed
	}
	log.DB.Debug().Str("backend", string(m.cfg.Backend)).Str("name", name).Msg("opening store")

	switch m.cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendPebble:
		return store(pebble.Open(m.pebbleReg, name, m.cfg.CreateIfMissing, m.cfg.ErrorIfExists))
	case config.BackendGoLevelDB:
		return store(goleveldb.Open(m.goleveldbReg, name, m.cfg.CreateIfMissing, m.cfg.ErrorIfExists))
	case config.BackendNative:
		lib, err := m.library()
		if err != nil {
			return nil, err
		}
		return store(native.Open(lib, m.nativeReg, name, m.cfg.CreateIfMissing, m.cfg.ErrorIfExists))
	default:
		return nil, fmt.Errorf("unknown backend %q", m.cfg.Backend)
	}
}

// Destroy deletes the database called name. It fails while the database is
// open and is a no-op for the memory backend.
func (m *Manager) Destroy(name string) error {
	if m.closed {
		return db.ErrClosed
	}
	switch m.cfg.Backend {
	case config.BackendMemory:
		return nil
	case config.BackendPebble:
		return pebble.Destroy(m.pebbleReg, name)
	case config.BackendGoLevelDB:
		return goleveldb.Destroy(m.goleveldbReg, name)
	case config.BackendNative:
		lib, err := m.library()
		if err != nil {
			return err
		}
		return native.Destroy(lib, m.nativeReg, name)
	default:
		return fmt.Errorf("unknown backend %q", m.cfg.Backend)
	}
}

// OpenHandles returns the number of engine handles currently open.
func (m *Manager) OpenHandles() int {
	return m.pebbleReg.Len() + m.goleveldbReg.Len() + m.nativeReg.Len()
}

// Close unloads the native library if it was loaded. All stores must be
// closed first.
func (m *Manager) Close() error {
	if n := m.OpenHandles(); n > 0 {
		return fmt.Errorf("backend: %d stores still open", n)
	}
	m.closed = true
	if m.nativeLib != nil {
		lib := m.nativeLib
		m.nativeLib = nil
		return lib.Close()
	}
	return nil
}
