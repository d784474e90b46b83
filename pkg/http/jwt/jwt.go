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

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims 登录服务签发的访问令牌声明，本服务只读取 UserId
type AuthClaims struct {
	UserId string `json:"userId"`
	jwt.RegisteredClaims
}

const (
	issuer = "teamhub"
	leeway = 30 * time.Second
)

var ErrMissingUserId = errors.New("token has no userId")

var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
	jwt.WithLeeway(leeway),
	jwt.WithExpirationRequired(),
)

// GenToken 签发 HS256 访问令牌。生产环境令牌由登录服务签发，这里用于本地调试和测试
func GenToken(userId string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken 校验签名和有效期。过期时返回 jwt.ErrTokenExpired 以便调用方区分
func ParseToken(raw, secretKey string) (*AuthClaims, error) {
	claims := new(AuthClaims)
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secretKey), nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, jwt.ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.UserId == "" {
		return nil, ErrMissingUserId
	}
	return claims, nil
}
