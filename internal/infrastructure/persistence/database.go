package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/specterworks/storefront/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

type databaseOptions struct {
	gorm           *gorm.Config
	tracerProvider trace.TracerProvider
}

// DatabaseOption customizes how the connection is opened.
type DatabaseOption func(*databaseOptions)

// WithGormLogger routes SQL logging through l.
func WithGormLogger(l gormlogger.Interface) DatabaseOption {
	return func(o *databaseOptions) {
		o.gorm.Logger = l
	}
}

// WithTracerProvider registers the otelgorm plugin so every statement
// gets a span. Query variables are left out of the spans.
func WithTracerProvider(tp trace.TracerProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.tracerProvider = tp
	}
}

// Dialector returns the gorm dialector for a SQL store driver.
func Dialector(driver string, cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch driver {
	case config.StoreDriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.StoreDriverSQLite:
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}
}

// NewDatabase opens a PostgreSQL or SQLite connection and verifies it.
func NewDatabase(driver string, cfg *config.DatabaseConfig, opts ...DatabaseOption) (*Database, error) {
	dialector, err := Dialector(driver, cfg)
	if err != nil {
		return nil, err
	}

	options := &databaseOptions{
		gorm: &gorm.Config{
			Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
			SkipDefaultTransaction: true,
			PrepareStmt:            driver == config.StoreDriverPostgres,
		},
	}
	for _, opt := range opts {
		opt(options)
	}

	db, err := gorm.Open(dialector, options.gorm)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if options.tracerProvider != nil {
		plugin := otelgorm.NewPlugin(
			otelgorm.WithTracerProvider(options.tracerProvider),
			otelgorm.WithDBName(databaseName(driver, cfg)),
			otelgorm.WithoutQueryVariables(),
		)
		if err := db.Use(plugin); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, fmt.Errorf("failed to register database tracing: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if driver == config.StoreDriverSQLite {
		// SQLite serializes writers; an in-memory database also exists per connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

func databaseName(driver string, cfg *config.DatabaseConfig) string {
	if driver == config.StoreDriverSQLite {
		return cfg.SQLitePath
	}
	return cfg.DBName
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}
