// Package backend builds the configured ledger store and event publishers.
package backend

import (
	"context"
	"time"

	"gastos/internal/events"
	"gastos/internal/ledger"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store and an optional cleanup function.
type BackendResult struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// PublisherResult contains the publishers built from configuration.
type PublisherResult struct {
	Publisher events.Publisher
	Cleanup   []CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreatePublisher(ctx context.Context, config Config) (*PublisherResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type     BackendType
	Location *time.Location

	CSVPath      string
	SQLiteDBPath string
	PostgresDSN  string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	KafkaBrokers []string
	KafkaTopic   string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	CSVBackend      BackendType = "csv"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, CSVBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
