package backend

import (
	"context"
	"fmt"

	"gastos/internal/amqp"
	"gastos/internal/events"
	"gastos/internal/kafka"
	"gastos/internal/ledger/csvfile"
	"gastos/internal/ledger/memory"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.WithComponent(log.ComponentBackend)
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory backend")
		return &BackendResult{Store: memory.New()}, nil

	case CSVBackend:
		var opts []csvfile.Option
		if config.Location != nil {
			opts = append(opts, csvfile.WithLocation(config.Location))
		}
		store := csvfile.New(config.CSVPath, opts...)
		f.logger.InfoContext(ctx, "Initialized csv backend", "path", config.CSVPath)
		return &BackendResult{Store: store}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &BackendResult{Store: repo, Cleanup: repo.Close}, nil

	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(config.PostgresDSN, config.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized Postgres backend")
		return &BackendResult{Store: repo, Cleanup: repo.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// CreatePublisher builds a fan-out over every configured transport. An
// unreachable AMQP broker is logged and skipped so the ledger keeps working.
func (f *DefaultFactory) CreatePublisher(ctx context.Context, config Config) (*PublisherResult, error) {
	var (
		pubs     events.Multi
		cleanups []CleanupFunc
	)

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without it", log.FieldError, err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP publisher",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			pubs = append(pubs, client)
			cleanups = append(cleanups, client.Close)
		}
	}

	if len(config.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic)
		f.logger.InfoContext(ctx, "Initialized Kafka publisher",
			"brokers", config.KafkaBrokers,
			"topic", config.KafkaTopic)
		pubs = append(pubs, p)
		cleanups = append(cleanups, p.Close)
	}

	if len(pubs) == 0 {
		return &PublisherResult{Publisher: events.Nop{}}, nil
	}
	return &PublisherResult{Publisher: pubs, Cleanup: cleanups}, nil
}
