// Package store provides the key-value persistence behind the ledger.
package store

import (
	"context"
	"fmt"
	"strings"
)

// Store loads and saves string values by key.
type Store interface {
	// Load returns the value for key; ok is false when the key was never saved.
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the Store for driver. path is ignored by the memory driver.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		if path == "" {
			return nil, fmt.Errorf("sqlite store needs a path")
		}
		return OpenSQLite(path)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
