// Package registry tracks the engine handles that are open in a process,
// keyed by database name, so that opening the same name twice shares one
// handle instead of failing on the engine's lock file.
package registry

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/eigerco/levelbind/pkg/log"
)

var (
	ErrHandleOpen = errors.New("registry: database is open")
	ErrNotOpen    = errors.New("registry: database is not open")
)

type handle[H io.Closer] struct {
	h    H
	refs int
}

// Registry maps database names to open handles. A handle is inserted by the
// first Acquire for its name and closed and removed by the matching last
// Release. Names are resolved relative to the base directory.
//
// Registry is safe for concurrent use.
type Registry[H io.Closer] struct {
	baseDir string

	mu      sync.Mutex
	handles map[string]*handle[H]
}

func New[H io.Closer](baseDir string) *Registry[H] {
	return &Registry[H]{
		baseDir: baseDir,
		handles: make(map[string]*handle[H]),
	}
}

// Path returns the on-disk location for name.
func (r *Registry[H]) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(r.baseDir, name)
}

// Acquire returns the open handle for name, calling open with the resolved
// path if there is none yet. Every successful Acquire must be paired with a
// Release.
func (r *Registry[H]) Acquire(name string, open func(path string) (H, error)) (H, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.handles[name]; ok {
		e.refs++
		log.Registry.Debug().Str("name", name).Int("refs", e.refs).Msg("reusing open handle")
		return e.h, nil
	}

	h, err := open(r.Path(name))
	if err != nil {
		var zero H
		return zero, err
	}
	r.handles[name] = &handle[H]{h: h, refs: 1}
	log.Registry.Debug().Str("name", name).Msg("opened handle")
	return h, nil
}

// Release drops one reference to name, closing the handle when it was the
// last one.
func (r *Registry[H]) Release(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.handles[name]
	if !ok {
		return fmt.Errorf("release %q: %w", name, ErrNotOpen)
	}
	e.refs--
	if e.refs > 0 {
		log.Registry.Debug().Str("name", name).Int("refs", e.refs).Msg("released reference")
		return nil
	}
	delete(r.handles, name)
	log.Registry.Debug().Str("name", name).Msg("closing handle")
	if err := e.h.Close(); err != nil {
		return fmt.Errorf("close %q: %w", name, err)
	}
	return nil
}

// Destroy removes the database called name using destroy. It refuses while
// the database is open.
func (r *Registry[H]) Destroy(name string, destroy func(path string) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handles[name]; ok {
		return fmt.Errorf("destroy %q: %w", name, ErrHandleOpen)
	}
	log.Registry.Debug().Str("name", name).Msg("destroying database")
	return destroy(r.Path(name))
}

// IsOpen reports whether name currently has an open handle.
func (r *Registry[H]) IsOpen(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[name]
	return ok
}

// Len returns the number of open handles.
func (r *Registry[H]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
