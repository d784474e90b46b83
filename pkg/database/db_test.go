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
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sample struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex"`
}

func openSample(t *testing.T) IDatabase {
	t.Helper()
	db, err := OpenMemory(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sample{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewGormDB(db)
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "translated", err: fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "sqlite", err: errors.New("constraint failed: UNIQUE constraint failed: t_sample.name (2067)"), want: true},
		{name: "mysql", err: errors.New("Error 1062 (23000): Duplicate entry 'a' for key 'name'"), want: true},
		{name: "postgres", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_name"`), want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKey(tt.err))
		})
	}
}

func TestOpenMemory_UniqueViolation(t *testing.T) {
	db := openSample(t)

	require.NoError(t, db.Database().Create(&sample{Name: "alpha"}).Error)
	err := db.Database().Create(&sample{Name: "alpha"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestTransaction_RollbackOnError(t *testing.T) {
	db := openSample(t)
	boom := errors.New("boom")

	err := Transaction(context.Background(), db, func(tx IDatabase) error {
		if err := tx.Database().Create(&sample{Name: "beta"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Database().Model(&sample{}).Count(&count).Error)
	assert.Zero(t, count)

	err = Transaction(context.Background(), db, func(tx IDatabase) error {
		return tx.Database().Create(&sample{Name: "beta"}).Error
	})
	require.NoError(t, err)
	require.NoError(t, db.Database().Model(&sample{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDialector(t *testing.T) {
	_, err := dialector(DriverMySQL, SourceConfig{Host: "localhost"}, "")
	assert.Error(t, err)

	_, err = dialector(DriverPostgres, SourceConfig{Host: "localhost", User: "u", DBName: "teamhub"}, "")
	assert.NoError(t, err)

	_, err = dialector(DriverSQLite, SourceConfig{}, "")
	assert.Error(t, err)

	_, err = dialector("oracle", SourceConfig{}, "")
	assert.Error(t, err)

	assert.Equal(t, "u:p@tcp(db:3306)/teamhub?charset=utf8mb4&parseTime=True&loc=Local",
		buildMySQLDSN(SourceConfig{Host: "db", User: "u", Password: "p", DBName: "teamhub"}))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("UNIQUE constraint failed: team_members.team_id")))
	assert.True(t, IsRetryable(errors.New("Error 1213 (40001): Deadlock found when trying to get lock")))
	assert.True(t, IsRetryable(errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")))
	assert.True(t, IsRetryable(errors.New("database is locked (5) (SQLITE_BUSY)")))
}
