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
	"fmt"
	"time"

	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/pkg/database"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/go-arcade/teamhub/pkg/retry"
	"github.com/google/wire"
	"gorm.io/gorm"
)

var ProviderSet = wire.NewSet(NewRepositories)

const txAttempts = 3

// Repositories 聚合所有仓储。事务内通过 Transaction 拿到绑定同一 tx 的一组仓储
type Repositories struct {
	db             database.IDatabase
	Team           ITeamRepository
	TeamMember     ITeamMemberRepository
	TeamInvitation ITeamInvitationRepository
	User           IUserRepository
}

func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		db:             db,
		Team:           NewTeamRepo(db),
		TeamMember:     NewTeamMemberRepo(db),
		TeamInvitation: NewTeamInvitationRepo(db),
		User:           NewUserRepo(db),
	}
}

// Transaction 在一个数据库事务中执行 fn，fn 返回错误时回滚。
// 死锁或锁等待失败时整个事务重跑，fn 必须可重入
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return retry.Do(ctx, func(ctx context.Context) error {
		return database.Transaction(ctx, r.db, func(tx database.IDatabase) error {
			return fn(NewRepositories(tx))
		})
	},
		retry.WithMaxAttempts(txAttempts),
		retry.WithBackoff(retry.Exponential(10*time.Millisecond, 200*time.Millisecond)),
		retry.WithJitter(retry.FullJitter),
		retry.WithRetryIf(database.IsRetryable),
		retry.WithOnRetry(func(attempt int, err error) {
			log.WithContext(ctx).Warnw("transaction aborted by lock contention, retrying", "attempt", attempt, "error", err)
		}),
	)
}

// AutoMigrate 创建或更新所有表和索引
func AutoMigrate(db database.IDatabase) error {
	if err := db.Database().AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// first 查询单条记录，不存在时返回 (false, nil)
func first(tx *gorm.DB, dest any) (bool, error) {
	err := tx.First(dest).Error
	if database.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
