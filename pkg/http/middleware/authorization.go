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

	"github.com/go-arcade/teamhub/pkg/cache"
	"github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/http/jwt"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
)

const claimsKey = "claims"

// AuthorizationMiddleware 校验 Bearer 令牌，会话存储开启时要求 Redis 中存在对应会话
func AuthorizationMiddleware(secretKey string, sessions *cache.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return http.WithRepErrMsg(c, http.TokenFormatIncorrect.Code, http.TokenFormatIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Warnw("parse token failed", "error", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		exists, err := sessions.Exists(c.UserContext(), claims.UserId)
		if err != nil {
			log.Errorw("redis check session exists failed", "userId", claims.UserId, "error", err)
			return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
		}
		if !exists {
			return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// GetUserId returns the authenticated user id, empty when unauthenticated
func GetUserId(c *fiber.Ctx) string {
	claims, ok := c.Locals(claimsKey).(*jwt.AuthClaims)
	if !ok || claims == nil {
		return ""
	}
	return claims.UserId
}
