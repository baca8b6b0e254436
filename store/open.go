package store

import (
	"fmt"
	"slices"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSqlite Backend = "sqlite"
	BackendBadger Backend = "badger"
)

// Backends lists the supported backends.
var Backends = []Backend{BackendMemory, BackendSqlite, BackendBadger}

// Opener constructs a Store rooted at dataDir. An empty dataDir means in-memory storage
// where the backend supports it.
type Opener func(dataDir string) (Store, error)

var openers = map[Backend]Opener{}

// Register makes a backend available to Open. It is called from backend packages' init.
func Register(b Backend, o Opener) {
	openers[b] = o
}

// Open opens the named backend.
func Open(b Backend, dataDir string) (Store, error) {
	o, ok := openers[b]
	if !ok {
		if slices.Contains(Backends, b) {
			return nil, fmt.Errorf("store backend %q not linked into this binary", b)
		}

		return nil, fmt.Errorf("unknown store backend %q", b)
	}

	return o(dataDir)
}
