// Package dbtest holds a conformance suite that every db.KVStore
// implementation is run through, plus helpers for comparing stores.
package dbtest

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/eigerco/levelbind/pkg/db"
)

// Dump renders the ordered contents of s one pair per line.
func Dump(s db.KVStore) (string, error) {
	it, err := s.NewIterator()
	if err != nil {
		return "", err
	}
	defer it.Close() //nolint:errcheck

	var sb strings.Builder
	if err := it.SeekToFirst(); err != nil {
		return "", err
	}
	for it.Valid() {
		k, err := it.Key()
		if err != nil {
			return "", err
		}
		v, err := it.Value()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%s = %s\n", strconv.Quote(string(k)), strconv.Quote(string(v)))
		if err := it.Next(); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// Keys returns the keys of s in iteration order.
func Keys(t *testing.T, s db.KVStore) []string {
	t.Helper()
	it, err := s.NewIterator()
	if err != nil {
		t.Fatalf("new iterator: %v", err)
	}
	defer it.Close() //nolint:errcheck

	keys := []string{}
	if err := it.SeekToFirst(); err != nil {
		t.Fatalf("seek to first: %v", err)
	}
	for it.Valid() {
		k, err := it.Key()
		if err != nil {
			t.Fatalf("key: %v", err)
		}
		keys = append(keys, string(k))
		if err := it.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	return keys
}

// RequireSameContents fails the test if expected and actual do not hold the
// same pairs in the same order. Similar to testify's require.Equal, but
// provides a more useful diff output.
func RequireSameContents(t *testing.T, expected, actual db.KVStore) {
	t.Helper()
	expectedDump, err := Dump(expected)
	if err != nil {
		t.Fatalf("dump expected: %v", err)
	}
	actualDump, err := Dump(actual)
	if err != nil {
		t.Fatalf("dump actual: %v", err)
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expectedDump),
		B:        difflib.SplitLines(actualDump),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	if diff != "" {
		t.Fatalf("Store contents mismatch:\n%s", diff)
	}
}
