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
	"errors"
	"testing"
	"time"

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/pkg/database"
	"github.com/go-arcade/teamhub/pkg/statemachine"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	idb := database.NewGormDB(db)
	require.NoError(t, AutoMigrate(idb))
	return NewRepositories(idb)
}

func seedTeam(t *testing.T, repos *Repositories, teamId, leader string) *model.Team {
	t.Helper()
	ctx := context.Background()
	team := &model.Team{
		TeamId:    teamId,
		Name:      "team " + teamId,
		CreatedBy: leader,
		Settings:  datatypes.NewJSONType(model.DefaultTeamSettings()),
	}
	require.NoError(t, repos.Team.CreateTeam(ctx, team))
	require.NoError(t, repos.TeamMember.CreateMembership(ctx, model.NewActiveMember(teamId, leader, model.RoleLeader, time.Now())))
	return team
}

func TestTeamRepo_CRUD(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedTeam(t, repos, "t-1", "u-1")

	team, err := repos.Team.GetTeamById(ctx, "t-1")
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.True(t, team.Settings.Data().OnlyLeaderCanChangeInfo)

	missing, err := repos.Team.GetTeamById(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	settings := team.Settings.Data()
	settings.MembersCanAddOthers = true
	require.NoError(t, repos.Team.UpdateTeam(ctx, "t-1", map[string]any{
		"name":     "renamed",
		"settings": datatypes.NewJSONType(settings),
	}))
	locked, err := repos.Team.LockTeam(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", locked.Name)
	assert.True(t, locked.Settings.Data().MembersCanAddOthers)

	teams, err := repos.Team.ListTeamsByIds(ctx, []string{"t-1", "nope"})
	require.NoError(t, err)
	assert.Len(t, teams, 1)

	require.NoError(t, repos.Team.DeleteTeam(ctx, "t-1"))
	gone, err := repos.Team.GetTeamById(ctx, "t-1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTeamMemberRepo_SingleActiveMembership(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedTeam(t, repos, "t-1", "u-1")

	member := model.NewActiveMember("t-1", "u-2", model.RoleMember, time.Now())
	require.NoError(t, repos.TeamMember.CreateMembership(ctx, member))

	// 第二条有效成员关系被唯一约束拒绝
	err := repos.TeamMember.CreateMembership(ctx, model.NewActiveMember("t-1", "u-2", model.RoleMember, time.Now()))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// 离开后可以重新加入，历史行保留
	require.NoError(t, repos.TeamMember.Deactivate(ctx, member))
	assert.False(t, member.IsActive)
	assert.NotNil(t, member.LeftAt)
	require.NoError(t, repos.TeamMember.CreateMembership(ctx, model.NewActiveMember("t-1", "u-2", model.RoleMember, time.Now())))

	// 再次停用同一条旧记录
	assert.ErrorIs(t, repos.TeamMember.Deactivate(ctx, member), apperr.ErrInvalidState)

	var total int64
	require.NoError(t, repos.db.Database().Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", "t-1", "u-2").Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestTeamMemberRepo_ListAndCount(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedTeam(t, repos, "t-1", "u-1")

	base := time.Now().Add(-time.Hour)
	m2 := model.NewActiveMember("t-1", "u-2", model.RoleMember, base.Add(time.Minute))
	m3 := model.NewActiveMember("t-1", "u-3", model.RoleMember, base.Add(2*time.Minute))
	require.NoError(t, repos.TeamMember.CreateMembership(ctx, m3))
	require.NoError(t, repos.TeamMember.CreateMembership(ctx, m2))
	require.NoError(t, repos.TeamMember.UpdateRole(ctx, m3, model.RoleLeader))

	members, err := repos.TeamMember.ListActiveMembers(ctx, "t-1")
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, model.RoleLeader, members[0].Role)
	assert.Equal(t, model.RoleLeader, members[1].Role)
	assert.Equal(t, "u-2", members[2].UserId)

	count, err := repos.TeamMember.CountActiveLeaders(ctx, "t-1", "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	count, err = repos.TeamMember.CountActiveLeaders(ctx, "t-1", "u-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repos.TeamMember.UpdateNotifications(ctx, m2, false))
	got, err := repos.TeamMember.GetActiveMembership(ctx, "t-1", "u-2")
	require.NoError(t, err)
	assert.False(t, got.NotificationsEnabled)

	mine, err := repos.TeamMember.ListActiveMembershipsByUser(ctx, "u-2")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, repos.TeamMember.DeleteByTeamId(ctx, "t-1"))
	members, err = repos.TeamMember.ListActiveMembers(ctx, "t-1")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestTeamInvitationRepo_Lifecycle(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedTeam(t, repos, "t-1", "u-1")

	inv := model.NewPendingInvitation(uuid.NewString(), "t-1", "u-2", "u-1", nil, time.Now())
	require.NoError(t, repos.TeamInvitation.CreateInvitation(ctx, inv))

	dup := model.NewPendingInvitation(uuid.NewString(), "t-1", "u-2", "u-1", nil, time.Now())
	assert.ErrorIs(t, repos.TeamInvitation.CreateInvitation(ctx, dup), apperr.ErrConflict)

	pending, err := repos.TeamInvitation.GetPendingInvitation(ctx, "t-1", "u-2")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, inv.InvitationId, pending.InvitationId)

	require.NoError(t, repos.TeamInvitation.Transition(ctx, pending, statemachine.InvitationRejected))
	assert.Equal(t, statemachine.InvitationRejected, pending.Status)
	assert.NotNil(t, pending.RespondedAt)

	// 已终止的邀请不能再流转，过期的内存副本也不行
	assert.ErrorIs(t, repos.TeamInvitation.Transition(ctx, pending, statemachine.InvitationAccepted), apperr.ErrInvalidState)
	assert.ErrorIs(t, repos.TeamInvitation.Transition(ctx, inv, statemachine.InvitationAccepted), apperr.ErrInvalidState)
	assert.ErrorIs(t, repos.TeamInvitation.DeletePending(ctx, inv), apperr.ErrInvalidState)

	// 终止后可以再次邀请
	again := model.NewPendingInvitation(uuid.NewString(), "t-1", "u-2", "u-1", nil, time.Now())
	require.NoError(t, repos.TeamInvitation.CreateInvitation(ctx, again))

	stats, err := repos.TeamInvitation.CountByStatus(ctx, "t-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats[statemachine.InvitationPending])
	assert.EqualValues(t, 0, stats[statemachine.InvitationAccepted])
	assert.EqualValues(t, 1, stats[statemachine.InvitationRejected])

	list, err := repos.TeamInvitation.ListInvitationsForUser(ctx, "u-2", "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, again.InvitationId, list[0].InvitationId)

	list, err = repos.TeamInvitation.ListInvitationsForTeam(ctx, "t-1", statemachine.InvitationPending)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repos.TeamInvitation.DeletePending(ctx, again))
	got, err := repos.TeamInvitation.GetInvitationById(ctx, again.InvitationId)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositories_TransactionRollback(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	err := repos.Transaction(ctx, func(tx *Repositories) error {
		require.NoError(t, tx.Team.CreateTeam(ctx, &model.Team{
			TeamId:    "t-9",
			Name:      "rollback",
			CreatedBy: "u-1",
			Settings:  datatypes.NewJSONType(model.DefaultTeamSettings()),
		}))
		return apperr.Conflict("abort")
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	team, err := repos.Team.GetTeamById(ctx, "t-9")
	require.NoError(t, err)
	assert.Nil(t, team)
}

func TestRepositories_TransactionRetriesLockContention(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	attempts := 0
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		attempts++
		if err := tx.Team.CreateTeam(ctx, &model.Team{
			TeamId:    "t-retry",
			Name:      "retry",
			CreatedBy: "u-1",
			Settings:  datatypes.NewJSONType(model.DefaultTeamSettings()),
		}); err != nil {
			return err
		}
		if attempts == 1 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	team, err := repos.Team.GetTeamById(ctx, "t-retry")
	require.NoError(t, err)
	require.NotNil(t, team)

	attempts = 0
	err = repos.Transaction(ctx, func(tx *Repositories) error {
		attempts++
		return apperr.InvalidState("not pending")
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Equal(t, 1, attempts)
}

func TestUserRepo(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.User.CreateUser(ctx, &model.User{UserId: "u-1", Username: "alice"}))
	require.NoError(t, repos.User.CreateUser(ctx, &model.User{UserId: "u-2", Username: "bob"}))

	u, err := repos.User.GetUserByUserId(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	users, err := repos.User.GetUsersByUserIds(ctx, []string{"u-1", "u-2", "u-3"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "bob", users["u-2"].Username)
}
