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

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/pkg/database"
)

type ITeamMemberRepository interface {
	CreateMembership(ctx context.Context, member *model.TeamMember) error
	GetActiveMembership(ctx context.Context, teamId, userId string) (*model.TeamMember, error)
	ListActiveMembers(ctx context.Context, teamId string) ([]*model.TeamMember, error)
	ListActiveMembershipsByUser(ctx context.Context, userId string) ([]*model.TeamMember, error)
	CountActiveLeaders(ctx context.Context, teamId, excludingUserId string) (int64, error)
	Deactivate(ctx context.Context, member *model.TeamMember) error
	UpdateRole(ctx context.Context, member *model.TeamMember, role model.Role) error
	UpdateNotifications(ctx context.Context, member *model.TeamMember, enabled bool) error
	DeleteByTeamId(ctx context.Context, teamId string) error
}

type TeamMemberRepo struct {
	database.IDatabase
}

func NewTeamMemberRepo(db database.IDatabase) ITeamMemberRepository {
	return &TeamMemberRepo{IDatabase: db}
}

// CreateMembership 新增有效成员关系，同一团队同一用户已有有效成员关系时返回 Conflict
func (r *TeamMemberRepo) CreateMembership(ctx context.Context, member *model.TeamMember) error {
	err := r.Database().WithContext(ctx).Create(member).Error
	if database.IsDuplicateKey(err) {
		return apperr.Wrap(apperr.KindConflict, "user is already an active member of this team", err)
	}
	return err
}

// GetActiveMembership 获取有效成员关系，不存在时返回 nil
func (r *TeamMemberRepo) GetActiveMembership(ctx context.Context, teamId, userId string) (*model.TeamMember, error) {
	var member model.TeamMember
	found, err := first(r.Database().WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND is_active = ?", teamId, userId, true), &member)
	if err != nil || !found {
		return nil, err
	}
	return &member, nil
}

// ListActiveMembers 获取团队有效成员，负责人在前，其余按加入时间排序
func (r *TeamMemberRepo) ListActiveMembers(ctx context.Context, teamId string) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	err := r.Database().WithContext(ctx).
		Where("team_id = ? AND is_active = ?", teamId, true).
		Order(fmt.Sprintf("CASE WHEN role = '%s' THEN 0 ELSE 1 END", model.RoleLeader)).
		Order("joined_at ASC").
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// ListActiveMembershipsByUser 获取用户所有有效成员关系
func (r *TeamMemberRepo) ListActiveMembershipsByUser(ctx context.Context, userId string) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	err := r.Database().WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userId, true).
		Order("joined_at DESC").
		Find(&members).Error
	return members, err
}

// CountActiveLeaders 统计团队有效负责人数量，excludingUserId 非空时不计该用户
func (r *TeamMemberRepo) CountActiveLeaders(ctx context.Context, teamId, excludingUserId string) (int64, error) {
	var count int64
	query := r.Database().WithContext(ctx).Model(&model.TeamMember{}).
		Where("team_id = ? AND role = ? AND is_active = ?", teamId, string(model.RoleLeader), true)
	if excludingUserId != "" {
		query = query.Where("user_id <> ?", excludingUserId)
	}
	err := query.Count(&count).Error
	return count, err
}

// Deactivate 软删除成员关系，只有仍然有效的行会被修改
func (r *TeamMemberRepo) Deactivate(ctx context.Context, member *model.TeamMember) error {
	now := time.Now()
	result := r.Database().WithContext(ctx).Model(&model.TeamMember{}).
		Where("id = ? AND is_active = ?", member.ID, true).
		Updates(map[string]any{
			"is_active":   false,
			"active_slot": nil,
			"left_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.InvalidState("membership is no longer active")
	}
	member.IsActive = false
	member.ActiveSlot = nil
	member.LeftAt = &now
	return nil
}

// UpdateRole 修改有效成员的角色
func (r *TeamMemberRepo) UpdateRole(ctx context.Context, member *model.TeamMember, role model.Role) error {
	result := r.Database().WithContext(ctx).Model(&model.TeamMember{}).
		Where("id = ? AND is_active = ?", member.ID, true).
		Update("role", string(role))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.InvalidState("membership is no longer active")
	}
	member.Role = role
	return nil
}

// UpdateNotifications 修改有效成员的通知开关
func (r *TeamMemberRepo) UpdateNotifications(ctx context.Context, member *model.TeamMember, enabled bool) error {
	result := r.Database().WithContext(ctx).Model(&model.TeamMember{}).
		Where("id = ? AND is_active = ?", member.ID, true).
		Update("notifications_enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.InvalidState("membership is no longer active")
	}
	member.NotificationsEnabled = enabled
	return nil
}

// DeleteByTeamId 物理删除团队的全部成员关系（含历史记录），仅在删除团队时使用
func (r *TeamMemberRepo) DeleteByTeamId(ctx context.Context, teamId string) error {
	return r.Database().WithContext(ctx).Where("team_id = ?", teamId).Delete(&model.TeamMember{}).Error
}
