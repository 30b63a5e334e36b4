// Package native binds the LevelDB C library at runtime through purego, so
// no cgo toolchain is needed to build against it. When the library is not
// installed, Load fails and callers fall back to another backend.
package native

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/eigerco/levelbind/pkg/log"
)

// DefaultLibraryNames are tried in order when Load is given no path.
var DefaultLibraryNames = []string{"libleveldb.so.1", "libleveldb.so", "libleveldb.dylib"}

// zeroByte backs the pointer handed to C for empty slices; the library
// requires a non-null pointer even for zero lengths.
var zeroByte byte

// Library holds the resolved leveldb/c.h entry points.
//
// Note: all pointer and size_t parameters use uintptr because purego on
// ARM64 doesn't support slices.
type Library struct {
	handle uintptr
	path   string
	ropts  uintptr
	wopts  uintptr

	optionsCreate             func() uintptr
	optionsDestroy            func(opts uintptr)
	optionsSetCreateIfMissing func(opts uintptr, v uint8)
	optionsSetErrorIfExists   func(opts uintptr, v uint8)
	readOptionsCreate         func() uintptr
	readOptionsDestroy        func(opts uintptr)
	writeOptionsCreate        func() uintptr
	writeOptionsDestroy       func(opts uintptr)
	writeOptionsSetSync       func(opts uintptr, v uint8)

	open      func(opts uintptr, name string, errptr uintptr) uintptr
	close     func(db uintptr)
	destroyDB func(opts uintptr, name string, errptr uintptr)
	put       func(db, wopts, key, keylen, val, vallen, errptr uintptr)
	del       func(db, wopts, key, keylen, errptr uintptr)
	get       func(db, ropts, key, keylen, vallen, errptr uintptr) uintptr
	write     func(db, wopts, batch, errptr uintptr)
	free      func(ptr uintptr)

	createIterator  func(db, ropts uintptr) uintptr
	iterDestroy     func(it uintptr)
	iterValid       func(it uintptr) uint8
	iterSeekToFirst func(it uintptr)
	iterSeekToLast  func(it uintptr)
	iterSeek        func(it, key, keylen uintptr)
	iterNext        func(it uintptr)
	iterPrev        func(it uintptr)
	iterKey         func(it, keylen uintptr) uintptr
	iterValue       func(it, vallen uintptr) uintptr
	iterGetError    func(it, errptr uintptr)

	writeBatchCreate  func() uintptr
	writeBatchDestroy func(b uintptr)
	writeBatchPut     func(b, key, keylen, val, vallen uintptr)
	writeBatchDelete  func(b, key, keylen uintptr)
}

// Load opens the LevelDB shared library at path, or the first of
// DefaultLibraryNames the dynamic linker can find when path is empty.
func Load(path string) (lib *Library, err error) {
	candidates := DefaultLibraryNames
	if path != "" {
		candidates = []string{path}
	}

	var errs []error
	for _, name := range candidates {
		handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lib = &Library{handle: handle, path: name}
		break
	}
	if lib == nil {
		return nil, fmt.Errorf("load leveldb library: %w", errors.Join(errs...))
	}

	// RegisterLibFunc panics on a missing symbol.
	defer func() {
		if r := recover(); r != nil {
			purego.Dlclose(lib.handle) //nolint:errcheck
			lib, err = nil, fmt.Errorf("load leveldb library %s: %v", lib.path, r)
		}
	}()
	lib.register()

	lib.ropts = lib.readOptionsCreate()
	lib.wopts = lib.writeOptionsCreate()
	lib.writeOptionsSetSync(lib.wopts, 1)

	log.Native.Debug().Str("path", lib.path).Msg("loaded leveldb library")
	return lib, nil
}

func (l *Library) register() {
	h := l.handle
	purego.RegisterLibFunc(&l.optionsCreate, h, "leveldb_options_create")
	purego.RegisterLibFunc(&l.optionsDestroy, h, "leveldb_options_destroy")
	purego.RegisterLibFunc(&l.optionsSetCreateIfMissing, h, "leveldb_options_set_create_if_missing")
	purego.RegisterLibFunc(&l.optionsSetErrorIfExists, h, "leveldb_options_set_error_if_exists")
	purego.RegisterLibFunc(&l.readOptionsCreate, h, "leveldb_readoptions_create")
	purego.RegisterLibFunc(&l.readOptionsDestroy, h, "leveldb_readoptions_destroy")
	purego.RegisterLibFunc(&l.writeOptionsCreate, h, "leveldb_writeoptions_create")
	purego.RegisterLibFunc(&l.writeOptionsDestroy, h, "leveldb_writeoptions_destroy")
	purego.RegisterLibFunc(&l.writeOptionsSetSync, h, "leveldb_writeoptions_set_sync")

	purego.RegisterLibFunc(&l.open, h, "leveldb_open")
	purego.RegisterLibFunc(&l.close, h, "leveldb_close")
	purego.RegisterLibFunc(&l.destroyDB, h, "leveldb_destroy_db")
	purego.RegisterLibFunc(&l.put, h, "leveldb_put")
	purego.RegisterLibFunc(&l.del, h, "leveldb_delete")
	purego.RegisterLibFunc(&l.get, h, "leveldb_get")
	purego.RegisterLibFunc(&l.write, h, "leveldb_write")
	purego.RegisterLibFunc(&l.free, h, "leveldb_free")

	purego.RegisterLibFunc(&l.createIterator, h, "leveldb_create_iterator")
	purego.RegisterLibFunc(&l.iterDestroy, h, "leveldb_iter_destroy")
	purego.RegisterLibFunc(&l.iterValid, h, "leveldb_iter_valid")
	purego.RegisterLibFunc(&l.iterSeekToFirst, h, "leveldb_iter_seek_to_first")
	purego.RegisterLibFunc(&l.iterSeekToLast, h, "leveldb_iter_seek_to_last")
	purego.RegisterLibFunc(&l.iterSeek, h, "leveldb_iter_seek")
	purego.RegisterLibFunc(&l.iterNext, h, "leveldb_iter_next")
	purego.RegisterLibFunc(&l.iterPrev, h, "leveldb_iter_prev")
	purego.RegisterLibFunc(&l.iterKey, h, "leveldb_iter_key")
	purego.RegisterLibFunc(&l.iterValue, h, "leveldb_iter_value")
	purego.RegisterLibFunc(&l.iterGetError, h, "leveldb_iter_get_error")

	purego.RegisterLibFunc(&l.writeBatchCreate, h, "leveldb_writebatch_create")
	purego.RegisterLibFunc(&l.writeBatchDestroy, h, "leveldb_writebatch_destroy")
	purego.RegisterLibFunc(&l.writeBatchPut, h, "leveldb_writebatch_put")
	purego.RegisterLibFunc(&l.writeBatchDelete, h, "leveldb_writebatch_delete")
}

// Path is the library file that was loaded.
func (l *Library) Path() string {
	return l.path
}

// Close unloads the library. Every store opened through it must be closed
// first.
func (l *Library) Close() error {
	l.readOptionsDestroy(l.ropts)
	l.writeOptionsDestroy(l.wopts)
	return purego.Dlclose(l.handle)
}

// call invokes fn with a fresh errptr and converts a reported failure into
// an error.
func (l *Library) call(fn func(errptr uintptr)) error {
	errptr := new(uintptr)
	fn(uintptr(unsafe.Pointer(errptr)))
	return l.takeError(*errptr)
}

// takeError copies and frees a C error string.
func (l *Library) takeError(msg uintptr) error {
	if msg == 0 {
		return nil
	}
	s := cString(msg)
	l.free(msg)
	return errors.New(s)
}

// takeBytes copies n bytes at p into Go memory and frees p.
func (l *Library) takeBytes(p, n uintptr) []byte {
	b := goBytes(p, n)
	l.free(p)
	return b
}

func bytesPtr(b []byte) uintptr {
	if len(b) == 0 {
		return uintptr(unsafe.Pointer(&zeroByte))
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// goBytes copies n bytes of C-allocated memory at p. p never points into the
// Go heap, so the uintptr conversions below are sound.
func goBytes(p, n uintptr) []byte {
	if n == 0 {
		return []byte{}
	}
	return bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(p)), n)) //nolint:govet // p is C memory
}

func cString(p uintptr) string {
	var n uintptr
	for *(*byte)(unsafe.Pointer(p + n)) != 0 { //nolint:govet // p is a C string
		n++
	}
	return string(goBytes(p, n))
}

func boolToC(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// keepAlive pins Go buffers handed to C as uintptr until the call returns.
func keepAlive(bufs ...[]byte) {
	for _, b := range bufs {
		runtime.KeepAlive(b)
	}
}
