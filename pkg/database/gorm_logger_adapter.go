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
	"time"

	"github.com/go-arcade/teamhub/pkg/log"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// GormLoggerAdapter routes gorm logs into the zap logger
type GormLoggerAdapter struct {
	Config logger.Config
	Level  logger.LogLevel
}

func NewGormLoggerAdapter(config logger.Config, logLevel logger.LogLevel) *GormLoggerAdapter {
	return &GormLoggerAdapter{
		Config: config,
		Level:  logLevel,
	}
}

func (l *GormLoggerAdapter) getLogger(ctx context.Context) *zap.SugaredLogger {
	return log.WithContext(ctx).Desugar().WithOptions(zap.AddCallerSkip(2)).Sugar()
}

func (l *GormLoggerAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLoggerAdapter{Config: l.Config, Level: level}
}

func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.Level < logger.Info {
		return
	}
	l.getLogger(ctx).Infow(msg, "data", data)
}

func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.Level < logger.Warn {
		return
	}
	l.getLogger(ctx).Warnw(msg, "data", data)
}

func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.Level < logger.Error {
		return
	}
	l.getLogger(ctx).Errorw(msg, "data", data)
}

func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin).Seconds()

	// 唯一键冲突属于业务结果，由上层转换为 Conflict
	if err != nil && l.Level >= logger.Error &&
		!(errors.Is(err, logger.ErrRecordNotFound) && l.Config.IgnoreRecordNotFoundError) &&
		!IsDuplicateKey(err) {
		sql, rows := fc()
		l.getLogger(ctx).Errorw("SQL query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
		return
	}

	if l.Config.SlowThreshold > 0 && elapsed > l.Config.SlowThreshold.Seconds() && l.Level >= logger.Warn {
		sql, rows := fc()
		l.getLogger(ctx).Warnw("Slow SQL query", "sql", sql, "rows", rows, "elapsed", elapsed)
		return
	}

	if l.Level >= logger.Info {
		sql, rows := fc()
		l.getLogger(ctx).Debugw("SQL query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
