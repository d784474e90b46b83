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
	"time"

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/pkg/database"
	"github.com/go-arcade/teamhub/pkg/statemachine"
)

type ITeamInvitationRepository interface {
	CreateInvitation(ctx context.Context, inv *model.TeamInvitation) error
	GetInvitationById(ctx context.Context, invitationId string) (*model.TeamInvitation, error)
	GetPendingInvitation(ctx context.Context, teamId, invitedUserId string) (*model.TeamInvitation, error)
	ListInvitationsForUser(ctx context.Context, userId string, status statemachine.InvitationStatus) ([]*model.TeamInvitation, error)
	ListInvitationsForTeam(ctx context.Context, teamId string, status statemachine.InvitationStatus) ([]*model.TeamInvitation, error)
	Transition(ctx context.Context, inv *model.TeamInvitation, to statemachine.InvitationStatus) error
	DeletePending(ctx context.Context, inv *model.TeamInvitation) error
	CountByStatus(ctx context.Context, teamId string) (model.InvitationStats, error)
	DeleteByTeamId(ctx context.Context, teamId string) error
}

type TeamInvitationRepo struct {
	database.IDatabase
}

func NewTeamInvitationRepo(db database.IDatabase) ITeamInvitationRepository {
	return &TeamInvitationRepo{IDatabase: db}
}

// CreateInvitation 新增 pending 邀请，同一团队同一用户已有 pending 邀请时返回 Conflict
func (r *TeamInvitationRepo) CreateInvitation(ctx context.Context, inv *model.TeamInvitation) error {
	err := r.Database().WithContext(ctx).Create(inv).Error
	if database.IsDuplicateKey(err) {
		return apperr.Wrap(apperr.KindConflict, "a pending invitation already exists for this user", err)
	}
	return err
}

// GetInvitationById 根据 invitationId 获取邀请，不存在时返回 nil
func (r *TeamInvitationRepo) GetInvitationById(ctx context.Context, invitationId string) (*model.TeamInvitation, error) {
	var inv model.TeamInvitation
	found, err := first(r.Database().WithContext(ctx).Where("invitation_id = ?", invitationId), &inv)
	if err != nil || !found {
		return nil, err
	}
	return &inv, nil
}

// GetPendingInvitation 获取团队对某用户的 pending 邀请，不存在时返回 nil
func (r *TeamInvitationRepo) GetPendingInvitation(ctx context.Context, teamId, invitedUserId string) (*model.TeamInvitation, error) {
	var inv model.TeamInvitation
	found, err := first(r.Database().WithContext(ctx).
		Where("team_id = ? AND invited_user_id = ? AND status = ?", teamId, invitedUserId, string(statemachine.InvitationPending)), &inv)
	if err != nil || !found {
		return nil, err
	}
	return &inv, nil
}

// ListInvitationsForUser 获取用户收到的邀请，status 为空时返回全部，按邀请时间倒序
func (r *TeamInvitationRepo) ListInvitationsForUser(ctx context.Context, userId string, status statemachine.InvitationStatus) ([]*model.TeamInvitation, error) {
	var invitations []*model.TeamInvitation
	query := r.Database().WithContext(ctx).Where("invited_user_id = ?", userId)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	err := query.Order("invited_at DESC").Order("id DESC").Find(&invitations).Error
	return invitations, err
}

// ListInvitationsForTeam 获取团队发出的邀请，status 为空时返回全部，按邀请时间倒序
func (r *TeamInvitationRepo) ListInvitationsForTeam(ctx context.Context, teamId string, status statemachine.InvitationStatus) ([]*model.TeamInvitation, error) {
	var invitations []*model.TeamInvitation
	query := r.Database().WithContext(ctx).Where("team_id = ?", teamId)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	err := query.Order("invited_at DESC").Order("id DESC").Find(&invitations).Error
	return invitations, err
}

// Transition 把 pending 邀请流转到终止状态，并释放 pending 唯一约束占位
func (r *TeamInvitationRepo) Transition(ctx context.Context, inv *model.TeamInvitation, to statemachine.InvitationStatus) error {
	if err := statemachine.Invitations.Check(inv.Status, to); err != nil {
		return apperr.Wrap(apperr.KindInvalidState, "invitation is no longer pending", err)
	}

	now := time.Now()
	result := r.Database().WithContext(ctx).Model(&model.TeamInvitation{}).
		Where("id = ? AND status = ?", inv.ID, string(statemachine.InvitationPending)).
		Updates(map[string]any{
			"status":       string(to),
			"pending_slot": nil,
			"responded_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	// 并发的另一方已经先一步处理了这条邀请
	if result.RowsAffected == 0 {
		return apperr.InvalidState("invitation is no longer pending")
	}
	inv.Status = to
	inv.PendingSlot = nil
	inv.RespondedAt = &now
	return nil
}

// DeletePending 删除 pending 邀请（撤回），已处理的邀请不能删除
func (r *TeamInvitationRepo) DeletePending(ctx context.Context, inv *model.TeamInvitation) error {
	result := r.Database().WithContext(ctx).
		Where("id = ? AND status = ?", inv.ID, string(statemachine.InvitationPending)).
		Delete(&model.TeamInvitation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.InvalidState("only pending invitations can be cancelled")
	}
	return nil
}

type statusCount struct {
	Status string
	Total  int64
}

// CountByStatus 按状态统计团队邀请数量，没有记录的状态补零
func (r *TeamInvitationRepo) CountByStatus(ctx context.Context, teamId string) (model.InvitationStats, error) {
	var rows []statusCount
	err := r.Database().WithContext(ctx).Model(&model.TeamInvitation{}).
		Select("status, COUNT(*) AS total").
		Where("team_id = ?", teamId).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := model.NewInvitationStats()
	for _, row := range rows {
		stats[statemachine.InvitationStatus(row.Status)] = row.Total
	}
	return stats, nil
}

// DeleteByTeamId 删除团队的全部邀请，仅在删除团队时使用
func (r *TeamInvitationRepo) DeleteByTeamId(ctx context.Context, teamId string) error {
	return r.Database().WithContext(ctx).Where("team_id = ?", teamId).Delete(&model.TeamInvitation{}).Error
}
