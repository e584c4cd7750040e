package analyzer

import "github.com/blackwell-systems/basketmine/internal/store"

// Analyzer runs mining engines over stored datasets and records each run.
type Analyzer struct {
	store *store.Store
}

// New creates a new Analyzer instance with the given store.
func New(store *store.Store) *Analyzer {
	return &Analyzer{store: store}
}
