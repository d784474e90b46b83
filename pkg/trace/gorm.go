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

package trace

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const gormTracerName = "github.com/go-arcade/teamhub/pkg/trace/gorm"

type gormSpanKey struct{}

// GormPlugin 为每条 SQL 创建 client span，挂在请求的 span 下面
type GormPlugin struct {
	// WithQuery 记录 SQL 语句
	WithQuery bool
}

func (p *GormPlugin) Name() string {
	return "opentelemetry"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		name   string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"gorm:create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"gorm:query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"gorm:update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"gorm:delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"gorm:row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"gorm:raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before("opentelemetry:before", p.before(strings.TrimPrefix(h.name, "gorm:"))); err != nil {
			return err
		}
		if err := h.after("opentelemetry:after", p.after); err != nil {
			return err
		}
	}
	return nil
}

func (p *GormPlugin) before(operation string) func(*gorm.DB) {
	tracer := otel.Tracer(gormTracerName)
	return func(db *gorm.DB) {
		if db.Statement == nil {
			return
		}
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		attrs := []attribute.KeyValue{
			attribute.String("db.system", db.Dialector.Name()),
			attribute.String("db.operation", operation),
		}
		if db.Statement.Table != "" {
			attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Table))
		}
		ctx, span := tracer.Start(ctx, "gorm."+operation,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attrs...),
		)
		db.Statement.Context = context.WithValue(ctx, gormSpanKey{}, span)
	}
}

func (p *GormPlugin) after(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	span, ok := db.Statement.Context.Value(gormSpanKey{}).(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if p.WithQuery {
		if sql := db.Statement.SQL.String(); sql != "" {
			span.SetAttributes(attribute.String("db.statement", sql))
		}
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

	// 未找到记录属于正常分支，不标记为错误
	if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
}

// RegisterGormPlugin 注册 SQL tracing 插件
func RegisterGormPlugin(db *gorm.DB, withQuery bool) error {
	return db.Use(&GormPlugin{WithQuery: withQuery})
}
