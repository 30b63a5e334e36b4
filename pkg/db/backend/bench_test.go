package backend

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/config"
	"github.com/eigerco/levelbind/pkg/db"
)

func benchmarkStores(b *testing.B, fn func(b *testing.B, store db.KVStore)) {
	for _, backend := range []config.Backend{config.BackendMemory, config.BackendPebble, config.BackendGoLevelDB} {
		b.Run(string(backend), func(b *testing.B) {
			cfg := config.Default()
			cfg.Backend = backend
			cfg.DataDir = b.TempDir()
			m, err := NewManager(cfg)
			require.NoError(b, err)
			store, err := m.Open("bench.db")
			require.NoError(b, err)
			defer store.Close() //nolint:errcheck

			fn(b, store)
		})
	}
}

func BenchmarkPut(b *testing.B) {
	benchmarkStores(b, func(b *testing.B, store db.KVStore) {
		key := make([]byte, 8)
		value := make([]byte, 128)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			binary.BigEndian.PutUint64(key, uint64(i)*2654435761)
			if err := store.Put(key, value); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkIterate(b *testing.B) {
	benchmarkStores(b, func(b *testing.B, store db.KVStore) {
		key := make([]byte, 8)
		for i := 0; i < 1000; i++ {
			binary.BigEndian.PutUint64(key, uint64(i))
			require.NoError(b, store.Put(key, key))
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			it, err := store.NewIterator()
			if err != nil {
				b.Fatal(err)
			}
			for err = it.SeekToFirst(); err == nil && it.Valid(); err = it.Next() {
			}
			if err != nil {
				b.Fatal(err)
			}
			it.Close() //nolint:errcheck
		}
	})
}
