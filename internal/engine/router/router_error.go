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

package router

import (
	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// fail 把业务错误转换为统一错误响应，未知错误不向客户端暴露细节
func fail(c *fiber.Ctx, op string, err error) error {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindValidation:
		return http.WithRepErrMsg(c, http.ValidationFailed.Code, apperr.MessageOf(err), c.Path())
	case apperr.KindNotFound:
		return http.WithRepErrMsg(c, http.NotFound.Code, apperr.MessageOf(err), c.Path())
	case apperr.KindForbidden:
		return http.WithRepErrMsg(c, http.Forbidden.Code, apperr.MessageOf(err), c.Path())
	case apperr.KindConflict:
		return http.WithRepErrMsg(c, http.Conflict.Code, apperr.MessageOf(err), c.Path())
	case apperr.KindInvalidState:
		return http.WithRepErrMsg(c, http.InvalidState.Code, apperr.MessageOf(err), c.Path())
	default:
		log.WithContext(c.UserContext()).Errorw(op+" failed", "path", c.Path(), "error", err)
		return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
	}
}

func badRequest(c *fiber.Ctx, op string, err error) error {
	log.WithContext(c.UserContext()).Warnw(op+" failed: parse request", "path", c.Path(), "error", err)
	return http.WithRepErrMsg(c, http.BadRequest.Code, "invalid request body", c.Path())
}
