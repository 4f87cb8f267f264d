package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/jobs-api/internal/config"
	"github.com/sakif/jobs-api/internal/repository"
	mongoRepo "github.com/sakif/jobs-api/internal/repository/mongo"
	postgresRepo "github.com/sakif/jobs-api/internal/repository/postgres"
	sqliteRepo "github.com/sakif/jobs-api/internal/repository/sqlite"
)

// OpenStore opens the backend named by cfg.DBDriver. The caller owns the
// returned store and must Close it.
//
// IMPORT ALIASES:
// The store packages are named after their drivers (sqlite, postgres, mongo),
// so they are aliased to keep them apart from the driver packages themselves.
func OpenStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	// Each case checks err itself: returning a nil *Store straight through
	// would yield a non-nil repository.Store.
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgresRepo.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverMongo:
		store, err := mongoRepo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverSQLite:
		if !strings.HasPrefix(cfg.DBPath, ":memory:") {
			// like `mkdir -p`; 0755 = owner rwx, others r-x
			dir := filepath.Dir(cfg.DBPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
}
