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
	"fmt"
	"time"

	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/go-arcade/teamhub/pkg/version"
	"github.com/google/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var ProviderSet = wire.NewSet(ProvideTracerProvider)

const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http"
)

// Conf Trace 配置
type Conf struct {
	// Enabled 是否上报 trace，关闭时 span 只在进程内传播
	Enabled bool `mapstructure:"enabled"`
	// Endpoint OTLP 端点地址（如：localhost:4317 或 localhost:4318）
	Endpoint string `mapstructure:"endpoint"`
	// Protocol 协议类型：grpc 或 http
	Protocol    string `mapstructure:"protocol"`
	ServiceName string `mapstructure:"serviceName"`
	Insecure    bool   `mapstructure:"insecure"`
	// Headers 额外的 HTTP 头（仅用于 HTTP 协议）
	Headers map[string]string `mapstructure:"headers"`
	// SampleRatio 采样比例，0 或未配置时全部采样
	SampleRatio float64 `mapstructure:"sampleRatio"`
	// ExportTimeout 导出超时时间（秒）
	ExportTimeout int `mapstructure:"exportTimeout"`
}

// SetDefaults 设置默认值
func (c *Conf) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "teamhub"
	}
	if c.Protocol == "" {
		c.Protocol = ProtocolGRPC
	}
	if c.ExportTimeout == 0 {
		c.ExportTimeout = 10
	}
	if c.Endpoint == "" {
		if c.Protocol == ProtocolGRPC {
			c.Endpoint = "localhost:4317"
		} else {
			c.Endpoint = "localhost:4318"
		}
	}
}

func (c *Conf) sampler() sdktrace.Sampler {
	if c.SampleRatio <= 0 || c.SampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SampleRatio))
}

// ProvideTracerProvider 初始化全局 TracerProvider。未启用时不挂 exporter，
// span 仍然有效，日志里的 traceId 照常可用
func ProvideTracerProvider(conf *Conf) (*sdktrace.TracerProvider, func(), error) {
	return InitTracerProvider(context.Background(), *conf)
}

func InitTracerProvider(ctx context.Context, conf Conf) (*sdktrace.TracerProvider, func(), error) {
	conf.SetDefaults()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !conf.Enabled {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(conf.sampler()))
		otel.SetTracerProvider(tp)
		return tp, func() {}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(conf.ServiceName),
			semconv.ServiceVersionKey.String(version.GetVersion().Version),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := createExporter(ctx, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithExportTimeout(time.Duration(conf.ExportTimeout)*time.Second),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(conf.sampler()),
	)
	otel.SetTracerProvider(tp)

	log.Infow("OpenTelemetry tracing initialized",
		"protocol", conf.Protocol,
		"endpoint", conf.Endpoint,
		"service", conf.ServiceName,
	)

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(conf.ExportTimeout+5)*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warnw("failed to shutdown TracerProvider", "error", err)
		}
	}
	return tp, cleanup, nil
}

func createExporter(ctx context.Context, conf Conf) (sdktrace.SpanExporter, error) {
	timeout := time.Duration(conf.ExportTimeout) * time.Second
	switch conf.Protocol {
	case ProtocolGRPC:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(conf.Endpoint),
			otlptracegrpc.WithTimeout(timeout),
		}
		if conf.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	case ProtocolHTTP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(conf.Endpoint),
			otlptracehttp.WithTimeout(timeout),
		}
		if conf.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(conf.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(conf.Headers))
		}
		return otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	default:
		return nil, fmt.Errorf("unsupported protocol: %s", conf.Protocol)
	}
}
