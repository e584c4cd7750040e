package scanner

import "github.com/blackwell-systems/basketmine/internal/store"

// Scanner imports transaction files into the store and keeps the dataset
// inventory.
type Scanner struct {
	store *store.Store
}

// New creates a new Scanner instance with the given store.
func New(store *store.Store) *Scanner {
	return &Scanner{store: store}
}
