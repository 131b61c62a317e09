package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bistrosoft/orders/internal/domain"
	"github.com/bistrosoft/orders/internal/health"
	"github.com/bistrosoft/orders/internal/storage/memory"
	"github.com/bistrosoft/orders/internal/storage/postgres"
)

// storageDeps объединяет хранилище и его служебные ручки.
type storageDeps struct {
	repos domain.Repositories
	uow   domain.UnitOfWork

	// ping не nil только для драйверов с внешним подключением.
	ping  health.CheckFunc
	close func() error
}

// initStorage создаёт хранилище согласно конфигурации. Для postgres
// дополнительно прогоняет миграции, если включён авто-мигратор.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (storageDeps, error) {
	if logger == nil {
		logger = log.New().WithField("component", "storage-init")
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory:
		store := memory.NewStore()
		logger.Info("using in-memory storage")
		return storageDeps{
			repos: store.Repositories(),
			uow:   store,
			close: func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return storageDeps{}, fmt.Errorf("postgres storage driver requires a DSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return storageDeps{}, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return storageDeps{}, fmt.Errorf("apply migrations: %w", err)
			}
			version, applied, err := store.MigrationStatus(ctx)
			if err == nil {
				logger.WithFields(log.Fields{
					"schema_version": version,
					"applied":        applied,
				}).Info("postgres migrations up to date")
			}
		}
		logger.Info("using postgres storage")
		return storageDeps{
			repos: store.Repositories(),
			uow:   store,
			ping:  store.Ping,
			close: store.Close,
		}, nil

	default:
		return storageDeps{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
