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

package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// 不记录访问日志的路径，以 /* 结尾表示前缀匹配
var defaultExcludedPaths = []string{
	"/health",
	"/metrics",
}

// AccessLogMiddleware 每个请求结束后输出一条结构化访问日志，携带 trace_id 和 userId。
// 需挂在 TraceMiddleware 之后
func AccessLogMiddleware(httpConfig *http.Http) fiber.Handler {
	if httpConfig != nil && !httpConfig.AccessLog {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	excluded := defaultExcludedPaths
	if httpConfig != nil && len(httpConfig.ExcludedPaths) > 0 {
		excluded = append(append([]string{}, defaultExcludedPaths...), httpConfig.ExcludedPaths...)
	}

	return func(c *fiber.Ctx) error {
		if isExcluded(c.Path(), excluded) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		status := responseStatus(c, err)

		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"ip", c.IP(),
			"requestId", c.GetRespHeader(HeaderRequestId),
		}
		if userId := GetUserId(c); userId != "" {
			fields = append(fields, "userId", userId)
		}
		if err != nil {
			fields = append(fields, "error", err.Error())
		}

		l := log.WithContext(c.UserContext())
		switch {
		case status >= fiber.StatusInternalServerError:
			l.Errorw("http request", fields...)
		case status >= fiber.StatusBadRequest:
			l.Warnw("http request", fields...)
		default:
			l.Infow("http request", fields...)
		}
		return err
	}
}

// responseStatus 错误尚未交给 ErrorHandler 时，按错误推断最终状态码
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func isExcluded(path string, rules []string) bool {
	for _, rule := range rules {
		if prefix, ok := strings.CutSuffix(rule, "/*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		} else if path == rule {
			return true
		}
	}
	return false
}
