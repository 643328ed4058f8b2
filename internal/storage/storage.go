package storage

import "errors"

// ErrStorage marks infrastructure-level failures (serialization, capacity,
// broken connection). Logical absence is never an error: lookups report it
// through their boolean return instead, so callers can always tell "nothing
// there" apart from "storage broke".
var ErrStorage = errors.New("storage failure")

// OrderedStore is a durable mapping from string key to opaque bytes that
// preserves ascending key order. It has no knowledge of what the bytes mean;
// record semantics live entirely in the service layer.
type OrderedStore interface {
	// Get returns the value stored under key, or (nil, false, nil) when the
	// key is absent.
	Get(key string) ([]byte, bool, error)

	// Insert stores value under key, overwriting any existing value.
	Insert(key string, value []byte) error

	// Remove deletes the entry for key and returns the removed value.
	// Removing an absent key is not an error.
	Remove(key string) ([]byte, bool, error)

	// ContainsKey reports whether an entry exists for key.
	ContainsKey(key string) (bool, error)

	// Values enumerates every stored value in ascending key order. Every
	// filtered search is a linear scan over this sequence; there are no
	// secondary indexes.
	Values() ([][]byte, error)
}
