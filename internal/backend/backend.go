// Package backend selects and constructs the configured storage backend.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/storage"
)

// Stores bundles the three storage ports served by a backend.
type Stores struct {
	Transactions storage.TransactionStore
	Budgets      storage.BudgetStore
	Archives     storage.ArchiveStore
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func(ctx context.Context) error

// Result contains the stores and optional cleanup function
type Result struct {
	Stores  Stores
	Cleanup CleanupFunc
}

// Type represents the type of backend
type Type string

const (
	MongoBackend  Type = "mongo"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MongoBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// Mongo specific
	MongoURI string
	MongoDB  string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:     backendType,
		MongoURI: appConfig.MongoURI,
		MongoDB:  appConfig.MongoDB,
	}, nil
}
