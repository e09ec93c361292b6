// Package backend selects and builds the purchase store the server runs
// against: in-memory samples, local SQLite, or the remote REST API.
package backend

import (
	"context"

	"quantofoi/internal/purchases"
)

// Backend is the unified store interface every backend satisfies.
type Backend interface {
	purchases.Lister
	purchases.Writer
	purchases.DescriptionUpdater
}

// DegradedReporter is implemented by backends that can fall back to
// sample data when their upstream is unreachable.
type DegradedReporter interface {
	Degraded() bool
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Remote specific
	RemoteAPIURL string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	RemoteBackend BackendType = "remote"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, RemoteBackend:
		return true
	default:
		return false
	}
}
