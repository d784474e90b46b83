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

package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// SessionStore 校验登录服务写入 Redis 的会话是否仍然有效
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// ProvideSessionStore builds the session store; a nil client disables checks.
func ProvideSessionStore(client redis.UniversalClient, conf Redis) *SessionStore {
	return NewSessionStore(client, conf.SessionPrefix)
}

func NewSessionStore(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

// Key returns the redis key of a user's session
func (s *SessionStore) Key(userId string) string {
	return s.prefix + userId
}

// Enabled reports whether sessions are checked at all
func (s *SessionStore) Enabled() bool {
	return s != nil && s.client != nil
}

// Exists reports whether the user's session key is present
func (s *SessionStore) Exists(ctx context.Context, userId string) (bool, error) {
	if !s.Enabled() {
		return true, nil
	}
	n, err := s.client.Exists(ctx, s.Key(userId)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
