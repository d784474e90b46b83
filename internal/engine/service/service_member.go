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

package service

import (
	"context"
	"fmt"

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/internal/engine/policy"
	"github.com/go-arcade/teamhub/internal/engine/repo"
	"github.com/go-arcade/teamhub/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

// MemberService 成员关系变更。所有影响负责人数量的操作都先锁定团队行
type MemberService struct {
	repos   *repo.Repositories
	metrics *metrics.TeamMetrics
}

func NewMemberService(repos *repo.Repositories, teamMetrics *metrics.TeamMetrics) *MemberService {
	return &MemberService{
		repos:   repos,
		metrics: teamMetrics,
	}
}

// ListMembers 获取团队有效成员，负责人在前
func (s *MemberService) ListMembers(ctx context.Context, teamId, actorId string) (resp []*model.MemberResp, err error) {
	ctx, span := startSpan(ctx, "MemberService.ListMembers", attribute.String("team.id", teamId))
	defer finishSpan(span, &err)

	if _, err := getTeam(ctx, s.repos, teamId); err != nil {
		return nil, err
	}
	actor, err := getMembership(ctx, s.repos, teamId, actorId)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewTeam(actor).Err(); err != nil {
		return nil, err
	}

	members, err := s.repos.TeamMember.ListActiveMembers(ctx, teamId)
	if err != nil {
		return nil, fmt.Errorf("list team members failed: %w", err)
	}
	return toMemberResps(ctx, s.repos, members), nil
}

// RemoveMember 负责人移除普通成员，负责人需要先降级才能被移除
func (s *MemberService) RemoveMember(ctx context.Context, teamId, targetUserId, actorId string) (err error) {
	ctx, span := startSpan(ctx, "MemberService.RemoveMember",
		attribute.String("team.id", teamId), attribute.String("target.id", targetUserId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		// 1. 锁定团队并鉴权
		if _, err := lockTeam(ctx, tx, teamId); err != nil {
			return err
		}
		actor, err := getMembership(ctx, tx, teamId, actorId)
		if err != nil {
			return err
		}
		if err := policy.CanManageMembers(actor).Err(); err != nil {
			return err
		}

		// 2. 检查目标成员
		target, err := getMembership(ctx, tx, teamId, targetUserId)
		if err != nil {
			return err
		}
		if target == nil {
			return apperr.NotFound("member not found in this team")
		}
		if target.IsLeader() {
			return apperr.Forbidden("cannot remove a team leader, change their role first")
		}

		// 3. 软删除
		return tx.TeamMember.Deactivate(ctx, target)
	})
	if err != nil {
		return err
	}

	s.metrics.Membership("removed")
	logger(ctx).Infow("success remove team member", "teamId", teamId, "userId", targetUserId, "actor", actorId)
	return nil
}

// LeaveTeam 当前用户退出团队，唯一的负责人不能退出
func (s *MemberService) LeaveTeam(ctx context.Context, teamId, actorId string) (err error) {
	ctx, span := startSpan(ctx, "MemberService.LeaveTeam", attribute.String("team.id", teamId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		if _, err := lockTeam(ctx, tx, teamId); err != nil {
			return err
		}
		member, err := getMembership(ctx, tx, teamId, actorId)
		if err != nil {
			return err
		}
		if member == nil {
			return apperr.NotFound("you are not a member of this team")
		}

		if member.IsLeader() {
			others, err := tx.TeamMember.CountActiveLeaders(ctx, teamId, actorId)
			if err != nil {
				return fmt.Errorf("count team leaders failed: %w", err)
			}
			if others == 0 {
				return apperr.Conflict("you are the only leader, assign another leader before leaving the team")
			}
		}

		return tx.TeamMember.Deactivate(ctx, member)
	})
	if err != nil {
		return err
	}

	s.metrics.Membership("left")
	logger(ctx).Infow("success leave team", "teamId", teamId, "userId", actorId)
	return nil
}

// UpdateMemberRole 负责人修改成员角色，团队至少保留一个负责人
func (s *MemberService) UpdateMemberRole(ctx context.Context, teamId, targetUserId string, req *model.UpdateMemberRoleReq, actorId string) (resp *model.MemberResp, err error) {
	ctx, span := startSpan(ctx, "MemberService.UpdateMemberRole",
		attribute.String("team.id", teamId), attribute.String("target.id", targetUserId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	// 1. 校验角色
	if err := validateReq(req); err != nil {
		return nil, err
	}
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, apperr.Validation("role must be leader or member")
	}

	var target *model.TeamMember
	changed := false
	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		// 2. 锁定团队并鉴权
		if _, err := lockTeam(ctx, tx, teamId); err != nil {
			return err
		}
		actor, err := getMembership(ctx, tx, teamId, actorId)
		if err != nil {
			return err
		}
		if err := policy.CanManageMembers(actor).Err(); err != nil {
			return err
		}

		// 3. 检查目标成员
		target, err = getMembership(ctx, tx, teamId, targetUserId)
		if err != nil {
			return err
		}
		if target == nil {
			return apperr.NotFound("member not found in this team")
		}
		if target.Role == role {
			return nil
		}

		// 4. 降级最后一个负责人会让团队失去负责人
		if target.IsLeader() && role == model.RoleMember {
			others, err := tx.TeamMember.CountActiveLeaders(ctx, teamId, targetUserId)
			if err != nil {
				return fmt.Errorf("count team leaders failed: %w", err)
			}
			if others == 0 {
				return apperr.Conflict("a team must keep at least one leader")
			}
		}

		changed = true
		return tx.TeamMember.UpdateRole(ctx, target, role)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		if role == model.RoleLeader {
			s.metrics.Membership("promoted")
		} else {
			s.metrics.Membership("demoted")
		}
		logger(ctx).Infow("success update member role", "teamId", teamId, "userId", targetUserId, "role", role, "actor", actorId)
	}

	users := loadUsers(ctx, s.repos, targetUserId)
	return target.ToMemberResp(users[targetUserId]), nil
}

// ToggleNotifications 切换当前用户在团队中的通知开关
func (s *MemberService) ToggleNotifications(ctx context.Context, teamId, actorId string) (resp *model.NotificationsResp, err error) {
	ctx, span := startSpan(ctx, "MemberService.ToggleNotifications", attribute.String("team.id", teamId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	if _, err := getTeam(ctx, s.repos, teamId); err != nil {
		return nil, err
	}
	member, err := getMembership(ctx, s.repos, teamId, actorId)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewTeam(member).Err(); err != nil {
		return nil, err
	}

	if err := s.repos.TeamMember.UpdateNotifications(ctx, member, !member.NotificationsEnabled); err != nil {
		return nil, fmt.Errorf("update notifications failed: %w", err)
	}

	logger(ctx).Infow("success toggle team notifications", "teamId", teamId, "userId", actorId, "enabled", member.NotificationsEnabled)
	return &model.NotificationsResp{NotificationsEnabled: member.NotificationsEnabled}, nil
}
