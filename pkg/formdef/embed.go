package formdef

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed forms/*
var embeddedForms embed.FS

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// EmbeddedFS returns the bundled definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		// The embed directive guarantees the subpath exists, so panic is
		// acceptable here.
		panic(err)
	}
	return sub
}

// Default returns the store built from the bundled definitions. The store is
// shared across callers; Store.Form hands out copies.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = LoadFS(EmbeddedFS())
	})
	return defaultStore, defaultErr
}

// MustDefault panics when the bundled definitions fail to load.
func MustDefault() *Store {
	store, err := Default()
	if err != nil {
		panic(err)
	}
	return store
}
