// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/go-arcade/teamhub/pkg/retry"
	"github.com/go-arcade/teamhub/pkg/trace"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

const pingAttempts = 5

// Manager owns the primary database connection
type Manager interface {
	// DB returns the primary database connection
	DB() *gorm.DB

	// Close closes the underlying connection pool
	Close() error
}

type managerImpl struct {
	db *gorm.DB
}

func (m *managerImpl) DB() *gorm.DB {
	return m.db
}

func (m *managerImpl) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// NewManager opens the configured database and applies pool settings
func NewManager(cfg Database) (Manager, error) {
	db, err := openConnection(cfg)
	if err != nil {
		return nil, err
	}
	if err := trace.RegisterGormPlugin(db, cfg.OutPut); err != nil {
		return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
	}
	log.Infow("database connected", "driver", driverName(cfg.Driver), "replicas", len(cfg.Replicas))
	return &managerImpl{db: db}, nil
}

func driverName(driver string) string {
	if driver == "" {
		return DriverMySQL
	}
	return driver
}

func gormConfig(cfg Database) *gorm.Config {
	logConfig := gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Info,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	}

	var gormLogger gormlogger.Interface
	if cfg.OutPut {
		gormLogger = NewGormLoggerAdapter(logConfig, gormlogger.Info)
	} else {
		gormLogger = NewGormLoggerAdapter(logConfig, gormlogger.Warn)
	}

	return &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dataTablePrefix,
			SingularTable: true,
		},
	}
}

func openConnection(cfg Database) (*gorm.DB, error) {
	primary, err := dialector(cfg.Driver, cfg.SourceConfig, cfg.Path)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(primary, gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driverName(cfg.Driver), err)
	}

	if len(cfg.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.Replicas))
		for _, r := range cfg.Replicas {
			d, err := dialector(cfg.Driver, r, "")
			if err != nil {
				return nil, fmt.Errorf("failed to build replica dialector: %w", err)
			}
			replicas = append(replicas, d)
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			TraceResolverMode: cfg.OutPut,
		}).
			SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime)).
			SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime)).
			SetMaxIdleConns(cfg.MaxIdleConns).
			SetMaxOpenConns(cfg.MaxOpenConns))
		if err != nil {
			return nil, fmt.Errorf("failed to register DBResolver plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime))
	sqlDB.SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime))

	err = retry.Do(context.Background(), func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	},
		retry.WithMaxAttempts(pingAttempts),
		retry.WithBackoff(retry.Exponential(500*time.Millisecond, 5*time.Second)),
		retry.WithOnRetry(func(attempt int, err error) {
			log.Warnw("database not ready, retrying", "driver", driverName(cfg.Driver), "attempt", attempt, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ping %s: %w", driverName(cfg.Driver), err)
	}
	return db, nil
}

// OpenMemory opens a private in-memory SQLite database, used by tests and
// the local development profile.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", name)
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(Database{Driver: DriverSQLite}))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite memory database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// A single connection keeps the memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)
	return db, nil
}
