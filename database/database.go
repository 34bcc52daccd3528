package database

import (
	"fmt"
	"log/slog"

	"github.com/mga-portal/config"
)

// Open returns the record store selected by cfg.Driver
func Open(cfg config.StoreConfig, log *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgREST:
		return NewPostgRESTStore(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.Timeout)
	case config.DriverPostgres:
		return OpenPostgres(cfg.DatabaseURL, log)
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath, log)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
