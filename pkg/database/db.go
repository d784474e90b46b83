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
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IDatabase 数据库访问接口
type IDatabase interface {
	// Database 返回底层的 *gorm.DB
	Database() *gorm.DB
}

// GormDB GORM 数据库实现
type GormDB struct {
	db *gorm.DB
}

// NewGormDB 包装 *gorm.DB，事务内的 tx 也通过它传给仓储
func NewGormDB(db *gorm.DB) IDatabase {
	return &GormDB{db: db}
}

// Database 返回底层的 *gorm.DB
func (g *GormDB) Database() *gorm.DB {
	return g.db
}

// Transaction runs fn inside a database transaction bound to ctx.
func Transaction(ctx context.Context, db IDatabase, fn func(tx IDatabase) error) error {
	return db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormDB(tx))
	})
}

// IsDuplicateKey reports whether err is a unique constraint violation.
// Drivers that do not implement gorm's error translator are matched by message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// IsRetryable reports whether err is a transient lock failure, so the whole
// transaction can run again: deadlocks, serialization failures and busy sqlite files.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Deadlock found") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

// IsNotFound reports whether err is gorm.ErrRecordNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
