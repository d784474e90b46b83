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

package repo

import (
	"context"

	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/pkg/database"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUserId(ctx context.Context, userId string) (*model.User, error)
	GetUsersByUserIds(ctx context.Context, userIds []string) (map[string]*model.User, error)
}

type UserRepo struct {
	database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{IDatabase: db}
}

// CreateUser 创建用户，用户目录由认证系统维护，这里只用于初始化和测试
func (r *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return r.Database().WithContext(ctx).Create(user).Error
}

// GetUserByUserId 根据 userId 获取用户，不存在时返回 nil
func (r *UserRepo) GetUserByUserId(ctx context.Context, userId string) (*model.User, error) {
	var user model.User
	found, err := first(r.Database().WithContext(ctx).Where("user_id = ?", userId), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// GetUsersByUserIds 批量获取用户，返回 userId 到用户的映射
func (r *UserRepo) GetUsersByUserIds(ctx context.Context, userIds []string) (map[string]*model.User, error) {
	users := make(map[string]*model.User, len(userIds))
	if len(userIds) == 0 {
		return users, nil
	}
	var list []*model.User
	if err := r.Database().WithContext(ctx).Where("user_id IN ?", userIds).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, u := range list {
		users[u.UserId] = u
	}
	return users, nil
}
