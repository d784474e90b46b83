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

package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

type Http struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	ContextPath     string   `mapstructure:"contextPath"`
	AccessLog       bool     `mapstructure:"accessLog"`
	ExposeMetrics   bool     `mapstructure:"exposeMetrics"`
	AllowOrigins    string   `mapstructure:"allowOrigins"`
	BodyLimit       int      `mapstructure:"bodyLimit"` // MB
	ReadTimeout     int      `mapstructure:"readTimeout"`
	WriteTimeout    int      `mapstructure:"writeTimeout"`
	IdleTimeout     int      `mapstructure:"idleTimeout"`
	ShutdownTimeout int      `mapstructure:"shutdownTimeout"`
	TLS             TLS      `mapstructure:"tls"`
	Auth            Auth     `mapstructure:"auth"`
	ExcludedPaths   []string `mapstructure:"excludedPaths"`
}

type TLS struct {
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

type Auth struct {
	SecretKey    string `mapstructure:"secretKey"`
	AccessExpire int    `mapstructure:"accessExpire"` // 分钟，仅用于本地签发调试令牌
}

// AccessTTL 调试令牌有效期，未配置时为 60 分钟
func (a Auth) AccessTTL() time.Duration {
	if a.AccessExpire <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessExpire) * time.Minute
}

// Addr returns host:port
func (h *Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// NewFiberApp creates a fiber app with sonic as JSON codec and the unified error handler
func NewFiberApp(cfg Http) *fiber.App {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 8
	}
	return fiber.New(fiber.Config{
		AppName:               "teamhub",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit * 1024 * 1024,
		ReadTimeout:           time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(cfg.IdleTimeout) * time.Second,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          ErrorHandler,
	})
}

// ErrorHandler renders errors that escape handlers in the unified error body
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return WithRepErrStatus(c, fiber.StatusNotFound, NotFound.Code, fe.Message, c.Path())
		case fiber.StatusMethodNotAllowed:
			return WithRepErrStatus(c, fiber.StatusMethodNotAllowed, MethodNotAllowed.Code, fe.Message, c.Path())
		case fiber.StatusRequestEntityTooLarge:
			return WithRepErrStatus(c, fiber.StatusRequestEntityTooLarge, BadRequest.Code, fe.Message, c.Path())
		}
		if fe.Code < fiber.StatusInternalServerError {
			return WithRepErrStatus(c, fe.Code, BadRequest.Code, fe.Message, c.Path())
		}
	}
	log.Errorw("unhandled request error", "path", c.Path(), "error", err)
	return WithRepErrStatus(c, fiber.StatusInternalServerError, InternalError.Code, InternalError.Msg, c.Path())
}
