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
	"strings"
	"time"

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/internal/engine/policy"
	"github.com/go-arcade/teamhub/internal/engine/repo"
	"github.com/go-arcade/teamhub/pkg/id"
	"github.com/go-arcade/teamhub/pkg/metrics"
	"github.com/go-arcade/teamhub/pkg/statemachine"
	"go.opentelemetry.io/otel/attribute"
)

// InvitationService 邀请生命周期：pending -> accepted | rejected，或在 pending 时撤回删除
type InvitationService struct {
	repos   *repo.Repositories
	metrics *metrics.TeamMetrics
}

func NewInvitationService(repos *repo.Repositories, teamMetrics *metrics.TeamMetrics) *InvitationService {
	return &InvitationService{
		repos:   repos,
		metrics: teamMetrics,
	}
}

// Send 邀请用户加入团队
func (s *InvitationService) Send(ctx context.Context, teamId string, req *model.SendInvitationReq, actorId string) (resp *model.InvitationResp, err error) {
	ctx, span := startSpan(ctx, "InvitationService.Send", attribute.String("team.id", teamId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	// 1. 校验请求
	req.UserId = strings.TrimSpace(req.UserId)
	if req.Message != nil {
		msg := strings.TrimSpace(*req.Message)
		req.Message = &msg
		if msg == "" {
			req.Message = nil
		}
	}
	if err := validateReq(req); err != nil {
		return nil, err
	}

	// 2. 检查团队并鉴权，非成员拿不到被邀请用户是否存在的信息
	team, err := getTeam(ctx, s.repos, teamId)
	if err != nil {
		return nil, err
	}
	actor, err := getMembership(ctx, s.repos, teamId, actorId)
	if err != nil {
		return nil, err
	}
	if err := policy.CanSendInvitation(actor, team.Settings.Data()).Err(); err != nil {
		return nil, err
	}

	// 3. 检查被邀请用户是否存在
	invited, err := s.repos.User.GetUserByUserId(ctx, req.UserId)
	if err != nil {
		return nil, fmt.Errorf("get invited user failed: %w", err)
	}
	if invited == nil {
		return nil, apperr.NotFound("user not found")
	}

	// 4. 已是成员或已有 pending 邀请
	existing, err := getMembership(ctx, s.repos, teamId, req.UserId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("user is already a member of this team")
	}
	pending, err := s.repos.TeamInvitation.GetPendingInvitation(ctx, teamId, req.UserId)
	if err != nil {
		return nil, fmt.Errorf("get pending invitation failed: %w", err)
	}
	if pending != nil {
		return nil, apperr.Conflict("an invitation is already pending for this user")
	}

	// 5. 创建邀请，并发重复由唯一约束兜底
	inv := model.NewPendingInvitation(id.GetUUID(), teamId, req.UserId, actorId, req.Message, time.Now())
	if err := s.repos.TeamInvitation.CreateInvitation(ctx, inv); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		logger(ctx).Errorw("create invitation failed", "teamId", teamId, "invitedUserId", req.UserId, "error", err)
		return nil, fmt.Errorf("create invitation failed: %w", err)
	}

	s.metrics.Invitation(string(statemachine.InvitationPending))
	logger(ctx).Infow("success send invitation", "teamId", teamId, "invitationId", inv.InvitationId, "invitedUserId", req.UserId, "invitedBy", actorId)

	users := loadUsers(ctx, s.repos, actorId)
	return inv.ToInvitationResp(team, invited, users[actorId]), nil
}

// Accept 接受邀请并成为团队普通成员
func (s *InvitationService) Accept(ctx context.Context, invitationId, actorId string) (resp *model.AcceptInvitationResp, err error) {
	ctx, span := startSpan(ctx, "InvitationService.Accept", attribute.String("invitation.id", invitationId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	// 1. 检查邀请
	inv, err := s.respondable(ctx, invitationId, actorId)
	if err != nil {
		return nil, err
	}
	team, err := getTeam(ctx, s.repos, inv.TeamId)
	if err != nil {
		return nil, err
	}

	// 2. 已经是成员：关闭邀请后返回冲突
	existing, err := getMembership(ctx, s.repos, inv.TeamId, actorId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, s.closeOutAccepted(ctx, inv)
	}

	// 3. 同一事务内创建成员关系并标记邀请已接受
	candidate := model.NewActiveMember(inv.TeamId, actorId, model.RoleMember, time.Now())
	var member model.TeamMember
	var accepted model.TeamInvitation
	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		// 事务可能重跑，每次从原始值开始
		member, accepted = *candidate, *inv
		if err := tx.TeamMember.CreateMembership(ctx, &member); err != nil {
			return err
		}
		return tx.TeamInvitation.Transition(ctx, &accepted, statemachine.InvitationAccepted)
	})
	if err != nil {
		// 并发加入：另一个请求已经创建了成员关系
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, s.closeOutAccepted(ctx, inv)
		}
		return nil, err
	}
	inv = &accepted

	s.metrics.Invitation(string(statemachine.InvitationAccepted))
	s.metrics.Membership("joined")
	logger(ctx).Infow("success accept invitation", "invitationId", invitationId, "teamId", inv.TeamId, "userId", actorId)

	users := loadUsers(ctx, s.repos, actorId, inv.InvitedBy)
	return &model.AcceptInvitationResp{
		Invitation: inv.ToInvitationResp(team, users[actorId], users[inv.InvitedBy]),
		Membership: member.ToMemberResp(users[actorId]),
	}, nil
}

// closeOutAccepted 用户已是成员时把邀请标记为 accepted，并返回 Conflict
func (s *InvitationService) closeOutAccepted(ctx context.Context, inv *model.TeamInvitation) error {
	err := s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		accepted := *inv
		return tx.TeamInvitation.Transition(ctx, &accepted, statemachine.InvitationAccepted)
	})
	if err != nil {
		return err
	}
	s.metrics.Invitation(string(statemachine.InvitationAccepted))
	logger(ctx).Infow("invitation closed for existing member", "invitationId", inv.InvitationId, "teamId", inv.TeamId)
	return apperr.Conflict("you are already a member of this team")
}

// Reject 拒绝邀请
func (s *InvitationService) Reject(ctx context.Context, invitationId, actorId string) (resp *model.InvitationResp, err error) {
	ctx, span := startSpan(ctx, "InvitationService.Reject", attribute.String("invitation.id", invitationId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	inv, err := s.respondable(ctx, invitationId, actorId)
	if err != nil {
		return nil, err
	}
	if err := s.repos.TeamInvitation.Transition(ctx, inv, statemachine.InvitationRejected); err != nil {
		return nil, err
	}

	s.metrics.Invitation(string(statemachine.InvitationRejected))
	logger(ctx).Infow("success reject invitation", "invitationId", invitationId, "teamId", inv.TeamId, "userId", actorId)

	team, err := s.repos.Team.GetTeamById(ctx, inv.TeamId)
	if err != nil {
		return nil, fmt.Errorf("get team failed: %w", err)
	}
	users := loadUsers(ctx, s.repos, actorId, inv.InvitedBy)
	return inv.ToInvitationResp(team, users[actorId], users[inv.InvitedBy]), nil
}

// respondable 获取被邀请人可以响应的 pending 邀请
func (s *InvitationService) respondable(ctx context.Context, invitationId, actorId string) (*model.TeamInvitation, error) {
	inv, err := s.getInvitation(ctx, invitationId)
	if err != nil {
		return nil, err
	}
	if err := policy.CanRespondToInvitation(actorId, inv).Err(); err != nil {
		return nil, err
	}
	if !inv.IsPending() {
		return nil, apperr.InvalidState(fmt.Sprintf("invitation has already been %s", inv.Status))
	}
	return inv, nil
}

// Cancel 撤回 pending 邀请，邀请人或团队负责人可操作
func (s *InvitationService) Cancel(ctx context.Context, invitationId, actorId string) (err error) {
	ctx, span := startSpan(ctx, "InvitationService.Cancel", attribute.String("invitation.id", invitationId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	inv, err := s.getInvitation(ctx, invitationId)
	if err != nil {
		return err
	}
	if !inv.IsPending() {
		return apperr.InvalidState("only pending invitations can be cancelled")
	}
	actor, err := getMembership(ctx, s.repos, inv.TeamId, actorId)
	if err != nil {
		return err
	}
	if err := policy.CanCancelInvitation(actorId, actor, inv).Err(); err != nil {
		return err
	}

	if err := s.repos.TeamInvitation.DeletePending(ctx, inv); err != nil {
		return err
	}

	s.metrics.Invitation("cancelled")
	logger(ctx).Infow("success cancel invitation", "invitationId", invitationId, "teamId", inv.TeamId, "actor", actorId)
	return nil
}

// Stats 按状态统计团队邀请数量
func (s *InvitationService) Stats(ctx context.Context, teamId, actorId string) (stats model.InvitationStats, err error) {
	ctx, span := startSpan(ctx, "InvitationService.Stats", attribute.String("team.id", teamId))
	defer finishSpan(span, &err)

	if err := s.requireViewer(ctx, teamId, actorId); err != nil {
		return nil, err
	}
	stats, err = s.repos.TeamInvitation.CountByStatus(ctx, teamId)
	if err != nil {
		return nil, fmt.Errorf("count invitations failed: %w", err)
	}
	return stats, nil
}

// ListMine 获取当前用户收到的 pending 邀请，最新的在前
func (s *InvitationService) ListMine(ctx context.Context, userId string) (resp []*model.InvitationResp, err error) {
	ctx, span := startSpan(ctx, "InvitationService.ListMine", attribute.String("user.id", userId))
	defer finishSpan(span, &err)

	invitations, err := s.repos.TeamInvitation.ListInvitationsForUser(ctx, userId, statemachine.InvitationPending)
	if err != nil {
		return nil, fmt.Errorf("list invitations failed: %w", err)
	}
	return s.toInvitationResps(ctx, invitations)
}

// ListForTeam 获取团队发出的全部邀请，仅团队成员可见
func (s *InvitationService) ListForTeam(ctx context.Context, teamId, actorId string) (resp []*model.InvitationResp, err error) {
	ctx, span := startSpan(ctx, "InvitationService.ListForTeam", attribute.String("team.id", teamId))
	defer finishSpan(span, &err)

	if err := s.requireViewer(ctx, teamId, actorId); err != nil {
		return nil, err
	}
	invitations, err := s.repos.TeamInvitation.ListInvitationsForTeam(ctx, teamId, "")
	if err != nil {
		return nil, fmt.Errorf("list invitations failed: %w", err)
	}
	return s.toInvitationResps(ctx, invitations)
}

func (s *InvitationService) getInvitation(ctx context.Context, invitationId string) (*model.TeamInvitation, error) {
	inv, err := s.repos.TeamInvitation.GetInvitationById(ctx, invitationId)
	if err != nil {
		return nil, fmt.Errorf("get invitation failed: %w", err)
	}
	if inv == nil {
		return nil, apperr.NotFound("invitation not found")
	}
	return inv, nil
}

func (s *InvitationService) requireViewer(ctx context.Context, teamId, actorId string) error {
	if _, err := getTeam(ctx, s.repos, teamId); err != nil {
		return err
	}
	actor, err := getMembership(ctx, s.repos, teamId, actorId)
	if err != nil {
		return err
	}
	return policy.CanViewTeam(actor).Err()
}

func (s *InvitationService) toInvitationResps(ctx context.Context, invitations []*model.TeamInvitation) ([]*model.InvitationResp, error) {
	resps := make([]*model.InvitationResp, 0, len(invitations))
	if len(invitations) == 0 {
		return resps, nil
	}

	teamIds := make([]string, 0, len(invitations))
	userIds := make([]string, 0, 2*len(invitations))
	for _, inv := range invitations {
		teamIds = append(teamIds, inv.TeamId)
		userIds = append(userIds, inv.InvitedUserId, inv.InvitedBy)
	}
	teams, err := s.repos.Team.ListTeamsByIds(ctx, teamIds)
	if err != nil {
		return nil, fmt.Errorf("list teams failed: %w", err)
	}
	teamById := make(map[string]*model.Team, len(teams))
	for _, t := range teams {
		teamById[t.TeamId] = t
	}
	users := loadUsers(ctx, s.repos, userIds...)

	for _, inv := range invitations {
		resps = append(resps, inv.ToInvitationResp(teamById[inv.TeamId], users[inv.InvitedUserId], users[inv.InvitedBy]))
	}
	return resps, nil
}
