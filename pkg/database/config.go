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
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	dataTablePrefix = "t_"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SourceConfig represents a single database source/replica
type SourceConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// Database represents the database configuration
type Database struct {
	// Driver is one of mysql, postgres, sqlite
	Driver       string `mapstructure:"driver"`
	OutPut       bool   `mapstructure:"output"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxLifetime  int    `mapstructure:"maxLifeTime"`
	MaxIdleTime  int    `mapstructure:"maxIdleTime"`
	// AutoMigrate creates or updates tables at startup
	AutoMigrate bool `mapstructure:"autoMigrate"`

	SourceConfig `mapstructure:",squash"`
	// SQLite file path or DSN, used when Driver is sqlite
	Path string `mapstructure:"path"`
	// Replicas enables read-write separation through dbresolver
	Replicas []SourceConfig `mapstructure:"replicas"`
}

// GetConnMaxLifetime returns ConnMaxLifetime as time.Duration
func GetConnMaxLifetime(maxLifetime int) time.Duration {
	if maxLifetime > 0 {
		return time.Duration(maxLifetime) * time.Second
	}
	return 300 * time.Second
}

// GetConnMaxIdleTime returns ConnMaxIdleTime as time.Duration
func GetConnMaxIdleTime(maxIdleTime int) time.Duration {
	if maxIdleTime > 0 {
		return time.Duration(maxIdleTime) * time.Second
	}
	return 60 * time.Second
}

func buildMySQLDSN(c SourceConfig) string {
	port := c.Port
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, port, c.DBName)
}

func buildPostgresDSN(c SourceConfig) string {
	port := c.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.Host, c.User, c.Password, c.DBName, port)
}

// dialector builds the gorm.Dialector of one source for the given driver
func dialector(driver string, c SourceConfig, path string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL, "":
		if c.Host == "" || c.User == "" || c.DBName == "" {
			return nil, fmt.Errorf("incomplete mysql source config: host, user, and dbname are required")
		}
		return mysql.Open(buildMySQLDSN(c)), nil
	case DriverPostgres:
		if c.Host == "" || c.User == "" || c.DBName == "" {
			return nil, fmt.Errorf("incomplete postgres source config: host, user, and dbname are required")
		}
		return postgres.Open(buildPostgresDSN(c)), nil
	case DriverSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
