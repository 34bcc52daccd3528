package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormStore reads collections with plain SELECTs over a gorm connection
type GormStore struct {
	DB   *gorm.DB
	Name string
}

// OpenPostgres connects to a Postgres database, e.g. the Supabase pooler
func OpenPostgres(databaseURL string, log *slog.Logger) (*GormStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}
	return NewGormStore("postgres", postgres.Open(databaseURL), log)
}

// OpenSQLite opens a local snapshot of the portal tables
func OpenSQLite(path string, log *slog.Logger) (*GormStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}
	return NewGormStore("sqlite", sqlite.Open(path), log)
}

// NewGormStore opens a gorm connection with the given dialector
func NewGormStore(name string, dialector gorm.Dialector, log *slog.Logger) (*GormStore, error) {
	if log == nil {
		log = slog.Default()
	}

	// Configure GORM logger
	newLogger := logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
	}

	// Get and configure the underlying SQL DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB for %s: %w", name, err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	store := &GormStore{DB: db, Name: name}
	if version, err := store.Version(context.Background()); err == nil {
		log.Info("connected to database", "driver", name, "version", version)
	}
	return store, nil
}

// FetchCollection runs SELECT * FROM source ORDER BY ... into dest
func (s *GormStore) FetchCollection(ctx context.Context, source string, order OrderSpec, dest any) error {
	query := s.DB.WithContext(ctx).Table(source)
	for _, term := range order {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: term.Field},
			Desc:   term.Direction == Descending,
		})
	}

	if err := query.Find(dest).Error; err != nil {
		return &Failure{Source: source, Message: err.Error(), Err: err}
	}
	return nil
}

// SortsRows reports that the database applies ORDER BY itself
func (s *GormStore) SortsRows() bool {
	return true
}

// Version reports the server version string
func (s *GormStore) Version(ctx context.Context) (string, error) {
	statement := "SELECT version()"
	if s.DB.Dialector.Name() == "sqlite" {
		statement = "SELECT sqlite_version()"
	}

	var version string
	if err := s.DB.WithContext(ctx).Raw(statement).Scan(&version).Error; err != nil {
		return "", err
	}
	return version, nil
}

// Close closes the underlying connection pool
func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
