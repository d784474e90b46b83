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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/internal/engine/repo"
	"github.com/go-arcade/teamhub/pkg/database"
	"github.com/go-arcade/teamhub/pkg/metrics"
	"github.com/go-arcade/teamhub/pkg/statemachine"
	"github.com/go-arcade/teamhub/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db     database.IDatabase
	repos  *repo.Repositories
	images *storage.MemoryStore
	svc    *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	idb := database.NewGormDB(db)
	require.NoError(t, repo.AutoMigrate(idb))
	repos := repo.NewRepositories(idb)
	for _, u := range []string{"u1", "u2", "u3", "u4"} {
		require.NoError(t, repos.User.CreateUser(context.Background(), &model.User{UserId: u, Username: "user-" + u}))
	}

	images := storage.NewMemoryStore(nil)
	return &fixture{
		db:     idb,
		repos:  repos,
		images: images,
		svc:    NewServices(repos, images, metrics.NewTeamMetrics()),
	}
}

func (f *fixture) createTeam(t *testing.T, creator string) string {
	t.Helper()
	resp, err := f.svc.Team.CreateTeam(context.Background(), &model.CreateTeamReq{Name: "Alpha Team"}, creator)
	require.NoError(t, err)
	return resp.Team.TeamId
}

func (f *fixture) invite(t *testing.T, teamId, userId, actorId string) string {
	t.Helper()
	resp, err := f.svc.Invitation.Send(context.Background(), teamId, &model.SendInvitationReq{UserId: userId}, actorId)
	require.NoError(t, err)
	return resp.InvitationId
}

func (f *fixture) join(t *testing.T, teamId, userId string) {
	t.Helper()
	invId := f.invite(t, teamId, userId, "u1")
	_, err := f.svc.Invitation.Accept(context.Background(), invId, userId)
	require.NoError(t, err)
}

func (f *fixture) leaders(t *testing.T, teamId string) int64 {
	t.Helper()
	n, err := f.repos.TeamMember.CountActiveLeaders(context.Background(), teamId, "")
	require.NoError(t, err)
	return n
}

func TestInvitationFlow_LeaderHandOver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// u1 创建团队，成为唯一负责人
	created, err := f.svc.Team.CreateTeam(ctx, &model.CreateTeamReq{Name: "Alpha", Description: "first team"}, "u1")
	require.NoError(t, err)
	teamId := created.Team.TeamId
	assert.Equal(t, model.RoleLeader, created.Membership.Role)
	assert.Equal(t, model.DefaultTeamPhotoUrl, created.Team.PhotoUrl)
	assert.False(t, created.Team.HasCustomPhoto)
	assert.Equal(t, model.DefaultTeamSettings(), created.Team.Settings)
	assert.EqualValues(t, 1, f.leaders(t, teamId))

	// u1 邀请 u2，u2 接受
	invId := f.invite(t, teamId, "u2", "u1")
	accepted, err := f.svc.Invitation.Accept(ctx, invId, "u2")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, accepted.Membership.Role)
	assert.Equal(t, statemachine.InvitationAccepted, accepted.Invitation.Status)
	assert.NotNil(t, accepted.Invitation.RespondedAt)

	// 唯一负责人不能退出
	err = f.svc.Member.LeaveTeam(ctx, teamId, "u1")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// 提升 u2 后 u1 可以退出
	_, err = f.svc.Member.UpdateMemberRole(ctx, teamId, "u2", &model.UpdateMemberRoleReq{Role: "leader"}, "u1")
	require.NoError(t, err)
	require.NoError(t, f.svc.Member.LeaveTeam(ctx, teamId, "u1"))

	var old model.TeamMember
	require.NoError(t, f.db.Database().Where("team_id = ? AND user_id = ?", teamId, "u1").First(&old).Error)
	assert.False(t, old.IsActive)
	assert.NotNil(t, old.LeftAt)

	members, err := f.svc.Member.ListMembers(ctx, teamId, "u2")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "u2", members[0].UserId)
	assert.Equal(t, model.RoleLeader, members[0].Role)
	assert.EqualValues(t, 1, f.leaders(t, teamId))

	// 已退出的用户失去访问权限
	_, err = f.svc.Team.GetTeam(ctx, teamId, "u1")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestSend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")

	msg := "  join us  "
	resp, err := f.svc.Invitation.Send(ctx, teamId, &model.SendInvitationReq{UserId: "u2", Message: &msg}, "u1")
	require.NoError(t, err)
	assert.Equal(t, statemachine.InvitationPending, resp.Status)
	require.NotNil(t, resp.Message)
	assert.Equal(t, "join us", *resp.Message)
	assert.Equal(t, "user-u1", resp.InvitedBy.Username)
	assert.Equal(t, teamId, resp.Team.TeamId)

	tests := []struct {
		name   string
		teamId string
		userId string
		actor  string
		want   error
	}{
		{name: "duplicate pending", teamId: teamId, userId: "u2", actor: "u1", want: apperr.ErrConflict},
		{name: "already member", teamId: teamId, userId: "u1", actor: "u1", want: apperr.ErrConflict},
		{name: "unknown user", teamId: teamId, userId: "ghost", actor: "u1", want: apperr.ErrNotFound},
		{name: "unknown team", teamId: "missing", userId: "u3", actor: "u1", want: apperr.ErrNotFound},
		{name: "outsider", teamId: teamId, userId: "u3", actor: "u4", want: apperr.ErrForbidden},
		{name: "outsider cannot tell unknown users apart", teamId: teamId, userId: "ghost", actor: "u4", want: apperr.ErrForbidden},
		{name: "empty user", teamId: teamId, userId: "  ", actor: "u1", want: apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Invitation.Send(ctx, tt.teamId, &model.SendInvitationReq{UserId: tt.userId}, tt.actor)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	long := string(bytes.Repeat([]byte("x"), 201))
	_, err = f.svc.Invitation.Send(ctx, teamId, &model.SendInvitationReq{UserId: "u3", Message: &long}, "u1")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSend_MembersCanAddOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	f.join(t, teamId, "u2")

	_, err := f.svc.Invitation.Send(ctx, teamId, &model.SendInvitationReq{UserId: "u3"}, "u2")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	on := true
	_, err = f.svc.Team.UpdateTeam(ctx, teamId, &model.UpdateTeamReq{Settings: &model.TeamSettingsPatch{MembersCanAddOthers: &on}}, "u1")
	require.NoError(t, err)

	_, err = f.svc.Invitation.Send(ctx, teamId, &model.SendInvitationReq{UserId: "u3"}, "u2")
	assert.NoError(t, err)
}

func TestAcceptAndReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	invId := f.invite(t, teamId, "u2", "u1")

	_, err := f.svc.Invitation.Accept(ctx, invId, "u3")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.svc.Invitation.Accept(ctx, "missing", "u2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Invitation.Accept(ctx, invId, "u2")
	require.NoError(t, err)

	// 第二次接受和之后的拒绝都是无效状态
	_, err = f.svc.Invitation.Accept(ctx, invId, "u2")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = f.svc.Invitation.Reject(ctx, invId, "u2")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	rejectId := f.invite(t, teamId, "u3", "u1")
	rejected, err := f.svc.Invitation.Reject(ctx, rejectId, "u3")
	require.NoError(t, err)
	assert.Equal(t, statemachine.InvitationRejected, rejected.Status)
	assert.NotNil(t, rejected.RespondedAt)

	member, err := f.repos.TeamMember.GetActiveMembership(ctx, teamId, "u3")
	require.NoError(t, err)
	assert.Nil(t, member)

	// 拒绝后可以再次邀请
	f.invite(t, teamId, "u3", "u1")
}

func TestAccept_AlreadyMemberClosesInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	invId := f.invite(t, teamId, "u2", "u1")

	// 绕过邀请流程直接加入
	require.NoError(t, f.repos.TeamMember.CreateMembership(ctx, model.NewActiveMember(teamId, "u2", model.RoleMember, time.Now())))

	_, err := f.svc.Invitation.Accept(ctx, invId, "u2")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	inv, err := f.repos.TeamInvitation.GetInvitationById(ctx, invId)
	require.NoError(t, err)
	assert.Equal(t, statemachine.InvitationAccepted, inv.Status)
	assert.Nil(t, inv.PendingSlot)
}

func TestAccept_TeamDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	invId := f.invite(t, teamId, "u2", "u1")

	require.NoError(t, f.svc.Team.DeleteTeam(ctx, teamId, "u1"))

	_, err := f.svc.Invitation.Accept(ctx, invId, "u2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	f.join(t, teamId, "u2")

	msg := "join us"
	resp, err := f.svc.Invitation.Send(ctx, teamId, &model.SendInvitationReq{UserId: "u3", Message: &msg}, "u1")
	require.NoError(t, err)

	// 非邀请人的普通成员不能撤回
	assert.ErrorIs(t, f.svc.Invitation.Cancel(ctx, resp.InvitationId, "u2"), apperr.ErrForbidden)

	require.NoError(t, f.svc.Invitation.Cancel(ctx, resp.InvitationId, "u1"))
	assert.ErrorIs(t, f.svc.Invitation.Cancel(ctx, resp.InvitationId, "u1"), apperr.ErrNotFound)

	// 撤回后可以重新邀请
	again, err := f.svc.Invitation.Send(ctx, teamId, &model.SendInvitationReq{UserId: "u3", Message: &msg}, "u1")
	require.NoError(t, err)
	_, err = f.svc.Invitation.Accept(ctx, again.InvitationId, "u3")
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Invitation.Cancel(ctx, again.InvitationId, "u1"), apperr.ErrInvalidState)
}

func TestCancel_ByInviterAndLeader(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	f.join(t, teamId, "u2")

	on := true
	_, err := f.svc.Team.UpdateTeam(ctx, teamId, &model.UpdateTeamReq{Settings: &model.TeamSettingsPatch{MembersCanAddOthers: &on}}, "u1")
	require.NoError(t, err)

	byMember := f.invite(t, teamId, "u3", "u2")
	require.NoError(t, f.svc.Invitation.Cancel(ctx, byMember, "u2"))

	byMemberAgain := f.invite(t, teamId, "u3", "u2")
	require.NoError(t, f.svc.Invitation.Cancel(ctx, byMemberAgain, "u1"))
}

func TestUpdateMemberRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	f.join(t, teamId, "u2")

	_, err := f.svc.Member.UpdateMemberRole(ctx, teamId, "u1", &model.UpdateMemberRoleReq{Role: "member"}, "u1")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.EqualValues(t, 1, f.leaders(t, teamId))

	_, err = f.svc.Member.UpdateMemberRole(ctx, teamId, "u2", &model.UpdateMemberRoleReq{Role: "owner"}, "u1")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.Member.UpdateMemberRole(ctx, teamId, "u2", &model.UpdateMemberRoleReq{}, "u1")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.Member.UpdateMemberRole(ctx, teamId, "u3", &model.UpdateMemberRoleReq{Role: "leader"}, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.Member.UpdateMemberRole(ctx, teamId, "u1", &model.UpdateMemberRoleReq{Role: "member"}, "u2")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	resp, err := f.svc.Member.UpdateMemberRole(ctx, teamId, "u2", &model.UpdateMemberRoleReq{Role: "leader"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleLeader, resp.Role)

	// 有两个负责人时可以降级其中一个
	resp, err = f.svc.Member.UpdateMemberRole(ctx, teamId, "u1", &model.UpdateMemberRoleReq{Role: "member"}, "u2")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, resp.Role)
	assert.EqualValues(t, 1, f.leaders(t, teamId))
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	f.join(t, teamId, "u2")
	f.join(t, teamId, "u3")

	assert.ErrorIs(t, f.svc.Member.RemoveMember(ctx, teamId, "u3", "u2"), apperr.ErrForbidden)
	assert.ErrorIs(t, f.svc.Member.RemoveMember(ctx, teamId, "u1", "u1"), apperr.ErrForbidden)
	assert.ErrorIs(t, f.svc.Member.RemoveMember(ctx, teamId, "u4", "u1"), apperr.ErrNotFound)
	assert.ErrorIs(t, f.svc.Member.RemoveMember(ctx, "missing", "u2", "u1"), apperr.ErrNotFound)

	require.NoError(t, f.svc.Member.RemoveMember(ctx, teamId, "u2", "u1"))
	assert.ErrorIs(t, f.svc.Member.RemoveMember(ctx, teamId, "u2", "u1"), apperr.ErrNotFound)

	// 被移除的成员可以重新被邀请
	f.join(t, teamId, "u2")
}

func TestLeaveTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	f.join(t, teamId, "u2")

	assert.ErrorIs(t, f.svc.Member.LeaveTeam(ctx, teamId, "u3"), apperr.ErrNotFound)
	require.NoError(t, f.svc.Member.LeaveTeam(ctx, teamId, "u2"))
	assert.ErrorIs(t, f.svc.Member.LeaveTeam(ctx, teamId, "u2"), apperr.ErrNotFound)
}

func TestCreateTeam_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *model.CreateTeamReq
	}{
		{name: "empty name", req: &model.CreateTeamReq{Name: "   "}},
		{name: "short name", req: &model.CreateTeamReq{Name: "ab"}},
		{name: "long name", req: &model.CreateTeamReq{Name: string(bytes.Repeat([]byte("a"), 101))}},
		{name: "long description", req: &model.CreateTeamReq{Name: "valid", Description: string(bytes.Repeat([]byte("d"), 501))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Team.CreateTeam(ctx, tt.req, "u1")
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestUpdateTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	f.join(t, teamId, "u2")

	name := "Renamed"
	_, err := f.svc.Team.UpdateTeam(ctx, teamId, &model.UpdateTeamReq{Name: &name}, "u2")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	short := "ab"
	_, err = f.svc.Team.UpdateTeam(ctx, teamId, &model.UpdateTeamReq{Name: &short}, "u1")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	off := false
	resp, err := f.svc.Team.UpdateTeam(ctx, teamId, &model.UpdateTeamReq{
		Name:     &name,
		Settings: &model.TeamSettingsPatch{OnlyLeaderCanChangeInfo: &off},
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Name)
	assert.False(t, resp.Settings.OnlyLeaderCanChangeInfo)
	assert.False(t, resp.Settings.MembersCanAddOthers)
	assert.False(t, resp.Settings.OnlyLeaderCanSendMessages)

	// 关闭 onlyLeaderCanChangeInfo 后普通成员也能修改
	desc := "now editable"
	resp, err = f.svc.Team.UpdateTeam(ctx, teamId, &model.UpdateTeamReq{Description: &desc}, "u2")
	require.NoError(t, err)
	assert.Equal(t, "now editable", resp.Description)
	assert.Equal(t, "Renamed", resp.Name)

	_, err = f.svc.Team.UpdateTeam(ctx, "missing", &model.UpdateTeamReq{Name: &name}, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUploadPhotoAndDeleteTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	f.join(t, teamId, "u2")
	f.invite(t, teamId, "u3", "u1")

	upload := func(actor, contentType string) (*model.TeamResp, error) {
		return f.svc.Team.UploadPhoto(ctx, teamId, actor, &PhotoUpload{
			Filename:    "logo.PNG",
			ContentType: contentType,
			Size:        4,
			Reader:      bytes.NewReader([]byte("data")),
		})
	}

	_, err := upload("u1", "text/plain")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = upload("u2", "image/png")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, 0, f.images.Len())

	first, err := upload("u1", "image/png")
	require.NoError(t, err)
	assert.True(t, first.HasCustomPhoto)
	assert.Contains(t, first.PhotoUrl, ".png")

	// 新头像保存后旧头像被删除
	second, err := upload("u1", "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, first.PhotoUrl, second.PhotoUrl)
	assert.Equal(t, 1, f.images.Len())

	assert.ErrorIs(t, f.svc.Team.DeleteTeam(ctx, teamId, "u2"), apperr.ErrForbidden)
	require.NoError(t, f.svc.Team.DeleteTeam(ctx, teamId, "u1"))
	assert.Equal(t, 0, f.images.Len())

	var members, invitations int64
	require.NoError(t, f.db.Database().Model(&model.TeamMember{}).Where("team_id = ?", teamId).Count(&members).Error)
	require.NoError(t, f.db.Database().Model(&model.TeamInvitation{}).Where("team_id = ?", teamId).Count(&invitations).Error)
	assert.Zero(t, members)
	assert.Zero(t, invitations)

	_, err = f.svc.Team.GetTeam(ctx, teamId, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStatsAndListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")
	other := f.createTeam(t, "u4")
	f.join(t, teamId, "u2")
	rejectId := f.invite(t, teamId, "u3", "u1")
	_, err := f.svc.Invitation.Reject(ctx, rejectId, "u3")
	require.NoError(t, err)
	f.invite(t, teamId, "u3", "u1")

	stats, err := f.svc.Invitation.Stats(ctx, teamId, "u2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats[statemachine.InvitationPending])
	assert.EqualValues(t, 1, stats[statemachine.InvitationAccepted])
	assert.EqualValues(t, 1, stats[statemachine.InvitationRejected])

	_, err = f.svc.Invitation.Stats(ctx, teamId, "u3")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	empty, err := f.svc.Invitation.Stats(ctx, other, "u4")
	require.NoError(t, err)
	assert.Len(t, empty, 3)
	assert.Zero(t, empty[statemachine.InvitationPending])

	mine, err := f.svc.Invitation.ListMine(ctx, "u3")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, teamId, mine[0].Team.TeamId)
	assert.Equal(t, "user-u1", mine[0].InvitedBy.Username)

	all, err := f.svc.Invitation.ListForTeam(ctx, teamId, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	_, err = f.svc.Invitation.ListForTeam(ctx, teamId, "u4")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	teams, err := f.svc.Team.ListMyTeams(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, model.RoleMember, teams[0].MyRole)
	assert.True(t, teams[0].NotificationsEnabled)

	detail, err := f.svc.Team.GetTeam(ctx, teamId, "u2")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, detail.MyRole)
	require.Len(t, detail.Members, 2)
	assert.Equal(t, "u1", detail.Members[0].UserId)
	assert.Equal(t, "user-u1", detail.Members[0].User.Username)
}

func TestToggleNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teamId := f.createTeam(t, "u1")

	resp, err := f.svc.Member.ToggleNotifications(ctx, teamId, "u1")
	require.NoError(t, err)
	assert.False(t, resp.NotificationsEnabled)
	resp, err = f.svc.Member.ToggleNotifications(ctx, teamId, "u1")
	require.NoError(t, err)
	assert.True(t, resp.NotificationsEnabled)

	_, err = f.svc.Member.ToggleNotifications(ctx, teamId, "u2")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.svc.Member.ToggleNotifications(ctx, "missing", "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
