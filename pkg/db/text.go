package db

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Text keys and values are always UTF-8. Invalid sequences are replaced with
// U+FFFD in both directions.

// EncodeText returns the UTF-8 bytes of s.
func EncodeText(s string) ([]byte, error) {
	b, err := unicode.UTF8.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	return b, nil
}

// DecodeText decodes UTF-8 bytes into a string.
func DecodeText(b []byte) (string, error) {
	s, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(s), nil
}

func PutString(w Writer, key, value string) error {
	k, err := EncodeText(key)
	if err != nil {
		return err
	}
	v, err := EncodeText(value)
	if err != nil {
		return err
	}
	return w.Put(k, v)
}

func DeleteString(w Writer, key string) error {
	k, err := EncodeText(key)
	if err != nil {
		return err
	}
	return w.Delete(k)
}

// GetString looks up a text key and decodes the value as text.
func GetString(s KVStore, key string) (string, bool, error) {
	k, err := EncodeText(key)
	if err != nil {
		return "", false, err
	}
	v, found, err := s.Get(k)
	if err != nil || !found {
		return "", found, err
	}
	str, err := DecodeText(v)
	if err != nil {
		return "", false, err
	}
	return str, true, nil
}

func SeekString(it Iterator, target string) error {
	t, err := EncodeText(target)
	if err != nil {
		return err
	}
	return it.Seek(t)
}

func KeyString(it Iterator) (string, error) {
	k, err := it.Key()
	if err != nil {
		return "", err
	}
	return DecodeText(k)
}

func ValueString(it Iterator) (string, error) {
	v, err := it.Value()
	if err != nil {
		return "", err
	}
	return DecodeText(v)
}
