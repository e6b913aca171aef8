// Package kvstore provides the small keyed store the session layer persists
// its token and user record into. It mirrors the two-entry string storage of
// a browser's localStorage: values survive restarts on the same machine and
// there is nothing to query.
package kvstore

import "errors"

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a minimal persisted string key-value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
