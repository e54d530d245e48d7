package dbmysql

import (
	"fmt"
	"log"
	"time"

	"gofun/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
	"gorm.io/plugin/opentelemetry/tracing"
)

// NewDB returns a GORM DB instance for the configured driver, migrated and
// with read replicas and tracing attached when configured.
func NewDB(cnf *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cnf.Database.Driver, cnf)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cnf.Logging.Level)),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", cnf.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if len(cnf.Database.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cnf.Database.ReplicaDSNs))
		for _, dsn := range cnf.Database.ReplicaDSNs {
			replicas = append(replicas, openDialector(cnf.Database.Driver, dsn))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("dbresolver: %w", err)
		}
		log.Printf("✅ Registered %d read replica(s)", len(replicas))
	}

	if cnf.Tracing.Enabled {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, fmt.Errorf("gorm tracing: %w", err)
		}
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("✅ Connected to %s successfully", cnf.Database.Driver)

	return db, nil
}

func dialectorFor(driver string, cnf *config.Config) (gorm.Dialector, error) {
	switch driver {
	case "", "mysql":
		dsn := cnf.DSN()
		if dsn == "" {
			return nil, fmt.Errorf("MYSQL_DSN is not set")
		}
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(cnf.PostgresDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func openDialector(driver, dsn string) gorm.Dialector {
	if driver == "postgres" {
		return postgres.Open(dsn)
	}
	return mysql.Open(dsn)
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}
