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
	"github.com/gofiber/fiber/v2"
)

// Response 统一响应体，成功和失败共用
type Response struct {
	Code   int    `json:"code"`
	Detail any    `json:"detail,omitempty"`
	Msg    string `json:"msg"`
}

func successOf(detail any) Response {
	return Response{Code: Success.Code, Msg: Success.Msg, Detail: detail}
}

// WithRepJSON 返回成功结果和数据，状态码沿用处理器设置的值（如 201）
func WithRepJSON(c *fiber.Ctx, detail any) error {
	return c.JSON(successOf(detail))
}

// WithRepNotDetail 只返回操作结果，没有 detail 字段
func WithRepNotDetail(c *fiber.Ctx) error {
	return c.JSON(successOf(nil))
}
