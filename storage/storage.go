// Package storage holds persistence providers for serialized snapshots.
package storage

import "errors"

var ErrInvalidKey = errors.New("invalid storage key")

// Provider saves and loads values by key. Load reports ok == false for a key
// that was never saved.
type Provider interface {
	Save(key string, value []byte) error
	Load(key string) (value []byte, ok bool, err error)
}
