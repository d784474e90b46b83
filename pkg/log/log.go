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

package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	OutputStdout = "stdout"
	OutputFile   = "file"

	FormatConsole = "console"
	FormatJSON    = "json"
)

// global 进程级日志实例，未初始化时按默认配置懒加载
var (
	global   atomic.Pointer[zap.Logger]
	lazyInit sync.Once
)

var ProviderSet = wire.NewSet(ProvideLogger)

// ProvideLogger 初始化全局日志并返回 Logger 实例
func ProvideLogger(conf *Conf) (*Logger, error) {
	zapLogger, err := NewLog(conf)
	if err != nil {
		return nil, err
	}
	return &Logger{Log: zapLogger.Sugar()}, nil
}

type Conf struct {
	Output     string `mapstructure:"output"` // stdout | file
	Format     string `mapstructure:"format"` // console | json
	Service    string `mapstructure:"service"`
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	KeepHours  int    `mapstructure:"keepHours"`  // 日志保留天数
	RotateSize int    `mapstructure:"rotateSize"` // 单个日志文件最大大小（MB）
	RotateNum  int    `mapstructure:"rotateNum"`  // 保留的日志文件数量
}

// SetDefaults 返回默认配置
func SetDefaults() *Conf {
	return &Conf{
		Output:     OutputStdout,
		Format:     FormatConsole,
		Service:    "teamhub",
		Path:       "./logs",
		Filename:   defaultFilename,
		Level:      "INFO",
		KeepHours:  7,
		RotateSize: 100,
		RotateNum:  10,
	}
}

// Validate 校验输出方式和格式，文件输出时补齐轮转参数
func (c *Conf) Validate() error {
	switch c.Output {
	case "", OutputStdout:
	case OutputFile:
		if c.Path == "" {
			return fmt.Errorf("log path is required when output is %q", OutputFile)
		}
		c.RotateSize = positiveOr(c.RotateSize, 100)
		c.RotateNum = positiveOr(c.RotateNum, 10)
		c.KeepHours = positiveOr(c.KeepHours, 7)
	default:
		return fmt.Errorf("unsupported log output %q", c.Output)
	}
	switch c.Format {
	case "", FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q", c.Format)
	}
	return nil
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type Logger struct {
	Log *zap.SugaredLogger
}

// NewLog 按配置构建 zap.Logger 并替换全局实例
func NewLog(conf *Conf) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	sink := zapcore.AddSync(os.Stdout)
	if conf.Output == OutputFile {
		sink = getFileLogWriter(conf)
	}

	core := zapcore.NewCore(newEncoder(conf.Format), sink, parseLogLevel(conf.Level))
	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)}
	if conf.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", conf.Service)))
	}
	l := zap.New(core, opts...)
	global.Store(l)

	l.Sugar().Debugw("log initialized", "output", conf.Output, "format", conf.Format, "level", conf.Level)
	return l, nil
}

// Init 初始化全局日志实例
func Init(conf *Conf) error {
	_, err := NewLog(conf)
	return err
}

func current() *zap.SugaredLogger {
	if l := global.Load(); l != nil {
		return l.Sugar()
	}
	lazyInit.Do(func() {
		if global.Load() == nil {
			_ = Init(SetDefaults())
		}
	})
	return global.Load().Sugar()
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "msg"
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder

	if format == FormatJSON {
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// parseLogLevel 大小写不敏感，接受 WARNING 作为 WARN 的别名，未知值回退到 INFO
func parseLogLevel(level string) zapcore.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "warning") {
		return zapcore.WarnLevel
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
