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
	httpx "github.com/go-arcade/teamhub/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// Locals keys read by UnifiedResponseMiddleware
const (
	// DETAIL 处理器返回的数据
	DETAIL = "detail"
	// OPERATION 处理器只返回操作结果
	OPERATION = "operation"
)

// UnifiedResponseMiddleware 把处理器放在 Locals 中的结果包装成统一响应
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			// 错误响应已由处理器写出
			return nil
		}

		if detail := c.Locals(DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}
		if c.Locals(OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}
		return nil
	}
}
