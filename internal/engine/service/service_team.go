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
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/internal/engine/policy"
	"github.com/go-arcade/teamhub/internal/engine/repo"
	"github.com/go-arcade/teamhub/pkg/id"
	"github.com/go-arcade/teamhub/pkg/metrics"
	"github.com/go-arcade/teamhub/pkg/storage"
	"github.com/go-arcade/teamhub/pkg/util"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
)

type TeamService struct {
	repos   *repo.Repositories
	images  storage.ImageStore
	metrics *metrics.TeamMetrics
}

func NewTeamService(repos *repo.Repositories, images storage.ImageStore, teamMetrics *metrics.TeamMetrics) *TeamService {
	return &TeamService{
		repos:   repos,
		images:  images,
		metrics: teamMetrics,
	}
}

// PhotoUpload 上传的团队头像
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateTeam 创建团队，创建者成为唯一负责人
func (s *TeamService) CreateTeam(ctx context.Context, req *model.CreateTeamReq, creatorId string) (resp *model.CreateTeamResp, err error) {
	ctx, span := startSpan(ctx, "TeamService.CreateTeam", attribute.String("user.id", creatorId))
	defer finishSpan(span, &err)

	// 1. 校验请求
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := validateReq(req); err != nil {
		return nil, err
	}

	// 2. 构建团队和负责人成员关系
	now := time.Now()
	team := &model.Team{
		TeamId:      id.GetUUID(),
		Name:        req.Name,
		Description: req.Description,
		PhotoUrl:    model.DefaultTeamPhotoUrl,
		CreatedBy:   creatorId,
		Settings:    datatypes.NewJSONType(model.DefaultTeamSettings()),
	}
	leader := model.NewActiveMember(team.TeamId, creatorId, model.RoleLeader, now)

	// 3. 同一事务内保存
	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		if err := tx.Team.CreateTeam(ctx, team); err != nil {
			return fmt.Errorf("create team failed: %w", err)
		}
		return tx.TeamMember.CreateMembership(ctx, leader)
	})
	if err != nil {
		logger(ctx).Errorw("create team failed", "name", team.Name, "creator", creatorId, "error", err)
		return nil, err
	}

	s.metrics.TeamOp("create")
	s.metrics.Membership("leader_created")
	logger(ctx).Infow("success create team", "name", team.Name, "teamId", team.TeamId, "creator", creatorId)

	users := loadUsers(ctx, s.repos, creatorId)
	return &model.CreateTeamResp{
		Team:       team.ToTeamResp(),
		Membership: leader.ToMemberResp(users[creatorId]),
	}, nil
}

// UpdateTeam 更新团队信息，只修改请求中出现的字段
func (s *TeamService) UpdateTeam(ctx context.Context, teamId string, req *model.UpdateTeamReq, actorId string) (resp *model.TeamResp, err error) {
	ctx, span := startSpan(ctx, "TeamService.UpdateTeam", attribute.String("team.id", teamId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	// 1. 校验请求
	req.Name = util.TrimPtr(req.Name)
	req.Description = util.TrimPtr(req.Description)
	if err := validateReq(req); err != nil {
		return nil, err
	}

	var updated *model.Team
	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		// 2. 锁定团队并鉴权
		team, err := lockTeam(ctx, tx, teamId)
		if err != nil {
			return err
		}
		actor, err := getMembership(ctx, tx, teamId, actorId)
		if err != nil {
			return err
		}
		if err := policy.CanUpdateTeamInfo(actor, team.Settings.Data()).Err(); err != nil {
			return err
		}

		// 3. 构建更新数据，settings 只合并出现的键
		updates := make(map[string]any)
		util.SetIfNotNil(updates, "name", req.Name)
		util.SetIfNotNil(updates, "description", req.Description)
		if req.Settings != nil {
			updates["settings"] = datatypes.NewJSONType(team.Settings.Data().Merge(req.Settings))
		}

		// 4. 执行更新
		if len(updates) > 0 {
			if err := tx.Team.UpdateTeam(ctx, teamId, updates); err != nil {
				return fmt.Errorf("update team failed: %w", err)
			}
		}

		updated, err = tx.Team.GetTeamById(ctx, teamId)
		if err != nil {
			return fmt.Errorf("get updated team failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TeamOp("update")
	logger(ctx).Infow("success update team", "teamId", teamId, "actor", actorId)
	return updated.ToTeamResp(), nil
}

// AttachPhoto 保存新的头像引用，成功后尽力删除旧的自定义头像
func (s *TeamService) AttachPhoto(ctx context.Context, teamId string, photo model.PhotoRef, actorId string) (resp *model.TeamResp, err error) {
	ctx, span := startSpan(ctx, "TeamService.AttachPhoto", attribute.String("team.id", teamId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	var previous *string
	var updated *model.Team
	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		team, err := lockTeam(ctx, tx, teamId)
		if err != nil {
			return err
		}
		actor, err := getMembership(ctx, tx, teamId, actorId)
		if err != nil {
			return err
		}
		if err := policy.CanChangeTeamPhoto(actor, team.Settings.Data()).Err(); err != nil {
			return err
		}

		previous = team.PhotoId
		photoId := photo.Id
		if err := tx.Team.UpdateTeam(ctx, teamId, map[string]any{
			"photo_url": photo.Url,
			"photo_id":  &photoId,
		}); err != nil {
			return fmt.Errorf("update team photo failed: %w", err)
		}

		updated, err = tx.Team.GetTeamById(ctx, teamId)
		if err != nil {
			return fmt.Errorf("get updated team failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previous != nil && *previous != "" && *previous != photo.Id {
		s.removePhoto(ctx, *previous)
	}

	s.metrics.TeamOp("photo")
	logger(ctx).Infow("success update team photo", "teamId", teamId, "photoId", photo.Id)
	return updated.ToTeamResp(), nil
}

// UploadPhoto 上传图片到外部存储并设置为团队头像
func (s *TeamService) UploadPhoto(ctx context.Context, teamId, actorId string, upload *PhotoUpload) (resp *model.TeamResp, err error) {
	ctx, span := startSpan(ctx, "TeamService.UploadPhoto", attribute.String("team.id", teamId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	// 1. 校验文件
	if upload == nil || upload.Reader == nil {
		return nil, apperr.Validation("no image provided")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, apperr.Validation("only image files are allowed")
	}

	// 2. 上传前先鉴权，避免产生无主对象
	team, err := getTeam(ctx, s.repos, teamId)
	if err != nil {
		return nil, err
	}
	actor, err := getMembership(ctx, s.repos, teamId, actorId)
	if err != nil {
		return nil, err
	}
	if err := policy.CanChangeTeamPhoto(actor, team.Settings.Data()).Err(); err != nil {
		return nil, err
	}

	// 3. 上传
	name := fmt.Sprintf("teams/%s/%s%s", teamId, id.GetUUIDWithoutDashes(), strings.ToLower(filepath.Ext(upload.Filename)))
	obj, err := s.images.Upload(ctx, name, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return nil, apperr.Wrap(apperr.KindValidation, "photo upload is not enabled", err)
		}
		logger(ctx).Errorw("upload team photo failed", "teamId", teamId, "error", err)
		return nil, fmt.Errorf("upload team photo failed: %w", err)
	}

	// 4. 保存引用，失败时清理刚上传的对象
	resp, err = s.AttachPhoto(ctx, teamId, model.PhotoRef{Url: obj.URL, Id: obj.Key}, actorId)
	if err != nil {
		s.removePhoto(ctx, obj.Key)
		return nil, err
	}
	return resp, nil
}

// DeleteTeam 删除团队及其成员关系和邀请
func (s *TeamService) DeleteTeam(ctx context.Context, teamId, actorId string) (err error) {
	ctx, span := startSpan(ctx, "TeamService.DeleteTeam", attribute.String("team.id", teamId), attribute.String("user.id", actorId))
	defer finishSpan(span, &err)

	// 1. 检查团队是否存在并鉴权
	team, err := getTeam(ctx, s.repos, teamId)
	if err != nil {
		return err
	}
	actor, err := getMembership(ctx, s.repos, teamId, actorId)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteTeam(actor).Err(); err != nil {
		return err
	}

	// 2. 尽力删除自定义头像，失败不阻塞删除
	if team.HasCustomPhoto() {
		s.removePhoto(ctx, *team.PhotoId)
	}

	// 3. 同一事务内按 邀请 -> 成员 -> 团队 的顺序删除
	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		if _, err := lockTeam(ctx, tx, teamId); err != nil {
			return err
		}
		actor, err := getMembership(ctx, tx, teamId, actorId)
		if err != nil {
			return err
		}
		if err := policy.CanDeleteTeam(actor).Err(); err != nil {
			return err
		}
		if err := tx.TeamInvitation.DeleteByTeamId(ctx, teamId); err != nil {
			return fmt.Errorf("delete team invitations failed: %w", err)
		}
		if err := tx.TeamMember.DeleteByTeamId(ctx, teamId); err != nil {
			return fmt.Errorf("delete team members failed: %w", err)
		}
		if err := tx.Team.DeleteTeam(ctx, teamId); err != nil {
			return fmt.Errorf("delete team failed: %w", err)
		}
		return nil
	})
	if err != nil {
		logger(ctx).Errorw("delete team failed", "teamId", teamId, "error", err)
		return err
	}

	s.metrics.TeamOp("delete")
	logger(ctx).Infow("success delete team", "name", team.Name, "teamId", teamId, "actor", actorId)
	return nil
}

// GetTeam 获取团队详情，仅团队成员可见
func (s *TeamService) GetTeam(ctx context.Context, teamId, actorId string) (resp *model.TeamDetailResp, err error) {
	ctx, span := startSpan(ctx, "TeamService.GetTeam", attribute.String("team.id", teamId))
	defer finishSpan(span, &err)

	team, err := getTeam(ctx, s.repos, teamId)
	if err != nil {
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

	return &model.TeamDetailResp{
		Team:    team.ToTeamResp(),
		MyRole:  actor.Role,
		Members: toMemberResps(ctx, s.repos, members),
	}, nil
}

// ListMyTeams 获取当前用户加入的团队
func (s *TeamService) ListMyTeams(ctx context.Context, userId string) (resp []*model.MyTeamResp, err error) {
	ctx, span := startSpan(ctx, "TeamService.ListMyTeams", attribute.String("user.id", userId))
	defer finishSpan(span, &err)

	memberships, err := s.repos.TeamMember.ListActiveMembershipsByUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list memberships failed: %w", err)
	}
	teamIds := make([]string, 0, len(memberships))
	for _, m := range memberships {
		teamIds = append(teamIds, m.TeamId)
	}
	teams, err := s.repos.Team.ListTeamsByIds(ctx, teamIds)
	if err != nil {
		return nil, fmt.Errorf("list teams failed: %w", err)
	}
	byId := make(map[string]*model.Team, len(teams))
	for _, t := range teams {
		byId[t.TeamId] = t
	}

	resp = make([]*model.MyTeamResp, 0, len(memberships))
	for _, m := range memberships {
		team, ok := byId[m.TeamId]
		if !ok {
			continue
		}
		resp = append(resp, &model.MyTeamResp{
			Team:                 team.ToTeamResp(),
			MyRole:               m.Role,
			JoinedAt:             m.JoinedAt,
			NotificationsEnabled: m.NotificationsEnabled,
		})
	}
	return resp, nil
}

func (s *TeamService) removePhoto(ctx context.Context, key string) {
	if err := s.images.Remove(ctx, key); err != nil {
		logger(ctx).Warnw("remove team photo failed", "key", key, "error", err)
	}
}

func toMemberResps(ctx context.Context, repos *repo.Repositories, members []*model.TeamMember) []*model.MemberResp {
	userIds := make([]string, 0, len(members))
	for _, m := range members {
		userIds = append(userIds, m.UserId)
	}
	users := loadUsers(ctx, repos, userIds...)

	resps := make([]*model.MemberResp, 0, len(members))
	for _, m := range members {
		resps = append(resps, m.ToMemberResp(users[m.UserId]))
	}
	return resps
}
