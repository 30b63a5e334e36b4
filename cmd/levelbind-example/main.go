package main

import (
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/eigerco/levelbind/pkg/config"
	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/backend"
	"github.com/eigerco/levelbind/pkg/log"
)

// main opens example.db with the configured backend, writes a text pair and a
// binary pair, reads them back and walks the store from "key" to the end.
// go run main.go -config levelbind.yaml
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	logOpts, err := cfg.LogOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Init(logOpts)

	if err := run(cfg); err != nil {
		log.Root.Fatal().Err(err).Msg("example failed")
	}
}

func run(cfg config.Config) error {
	m, err := backend.NewManager(cfg)
	if err != nil {
		return err
	}
	store, err := m.Open("example.db")
	if err != nil {
		return fmt.Errorf("open example.db: %w", err)
	}

	if err := db.PutString(store, "key", "value"); err != nil {
		return err
	}
	key := []byte{1, 2, 3}
	value := binary.LittleEndian.AppendUint32(nil, 654321)
	if err := store.Put(key, value); err != nil {
		return err
	}

	text, _, err := db.GetString(store, "key")
	if err != nil {
		return err
	}
	raw, found, err := store.Get(key)
	if err != nil {
		return err
	}
	if !found || len(raw) != 4 {
		return fmt.Errorf("binary value missing or malformed: %x", raw)
	}
	log.Root.Info().Str("text", text).Uint32("binary", binary.LittleEndian.Uint32(raw)).Msg("read back")

	it, err := store.NewIterator()
	if err != nil {
		return err
	}
	for err = db.SeekString(it, "key"); err == nil && it.Valid(); err = it.Next() {
		k, kerr := db.KeyString(it)
		if kerr != nil {
			return kerr
		}
		v, verr := db.ValueString(it)
		if verr != nil {
			return verr
		}
		log.Root.Info().Str("key", k).Str("value", v).Msg("iterating")
	}
	if err != nil {
		return err
	}
	if err := it.Close(); err != nil {
		return err
	}

	sum, err := db.Fingerprint(store)
	if err != nil {
		return err
	}
	log.Root.Info().Str("fingerprint", hex.EncodeToString(sum[:])).Msg("store contents")

	if err := store.Close(); err != nil {
		return err
	}
	return m.Close()
}
