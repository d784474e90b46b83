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
	"gorm.io/gorm/clause"
)

type ITeamRepository interface {
	CreateTeam(ctx context.Context, team *model.Team) error
	GetTeamById(ctx context.Context, teamId string) (*model.Team, error)
	LockTeam(ctx context.Context, teamId string) (*model.Team, error)
	ListTeamsByIds(ctx context.Context, teamIds []string) ([]*model.Team, error)
	UpdateTeam(ctx context.Context, teamId string, updates map[string]any) error
	DeleteTeam(ctx context.Context, teamId string) error
}

type TeamRepo struct {
	database.IDatabase
}

func NewTeamRepo(db database.IDatabase) ITeamRepository {
	return &TeamRepo{IDatabase: db}
}

// CreateTeam 创建团队
func (r *TeamRepo) CreateTeam(ctx context.Context, team *model.Team) error {
	return r.Database().WithContext(ctx).Create(team).Error
}

// GetTeamById 根据 teamId 获取团队，不存在时返回 nil
func (r *TeamRepo) GetTeamById(ctx context.Context, teamId string) (*model.Team, error) {
	var team model.Team
	found, err := first(r.Database().WithContext(ctx).Where("team_id = ?", teamId), &team)
	if err != nil || !found {
		return nil, err
	}
	return &team, nil
}

// LockTeam 在事务内锁定团队行（SELECT ... FOR UPDATE），串行化同一团队的负责人变更
func (r *TeamRepo) LockTeam(ctx context.Context, teamId string) (*model.Team, error) {
	var team model.Team
	found, err := first(r.Database().WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("team_id = ?", teamId), &team)
	if err != nil || !found {
		return nil, err
	}
	return &team, nil
}

// ListTeamsByIds 批量获取团队
func (r *TeamRepo) ListTeamsByIds(ctx context.Context, teamIds []string) ([]*model.Team, error) {
	var teams []*model.Team
	if len(teamIds) == 0 {
		return teams, nil
	}
	err := r.Database().WithContext(ctx).Where("team_id IN ?", teamIds).Find(&teams).Error
	return teams, err
}

// UpdateTeam 更新团队字段
func (r *TeamRepo) UpdateTeam(ctx context.Context, teamId string, updates map[string]any) error {
	return r.Database().WithContext(ctx).Model(&model.Team{}).
		Where("team_id = ?", teamId).
		Updates(updates).Error
}

// DeleteTeam 删除团队行，成员和邀请由调用方在同一事务中先删除
func (r *TeamRepo) DeleteTeam(ctx context.Context, teamId string) error {
	return r.Database().WithContext(ctx).Where("team_id = ?", teamId).Delete(&model.Team{}).Error
}
