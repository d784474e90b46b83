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

package policy

import (
	"testing"

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/stretchr/testify/assert"
)

func member(role model.Role) *model.TeamMember {
	return &model.TeamMember{TeamId: "t-1", UserId: "u-" + string(role), Role: role, IsActive: true}
}

func TestEvaluate(t *testing.T) {
	leader := member(model.RoleLeader)
	plain := member(model.RoleMember)
	left := &model.TeamMember{TeamId: "t-1", UserId: "u-left", Role: model.RoleLeader, IsActive: false}

	defaults := model.DefaultTeamSettings()
	open := defaults
	open.MembersCanAddOthers = true
	open.OnlyLeaderCanChangeInfo = false

	inv := &model.TeamInvitation{TeamId: "t-1", InvitedUserId: "u-invited", InvitedBy: "u-member"}

	tests := []struct {
		name string
		req  Request
		want bool
	}{
		{name: "view as member", req: Request{Action: ActionViewTeam, Membership: plain}, want: true},
		{name: "view as outsider", req: Request{Action: ActionViewTeam}, want: false},
		{name: "view after leaving", req: Request{Action: ActionViewTeam, Membership: left}, want: false},

		{name: "leader invites", req: Request{Action: ActionSendInvitation, Membership: leader, Settings: defaults}, want: true},
		{name: "member invites by default", req: Request{Action: ActionSendInvitation, Membership: plain, Settings: defaults}, want: false},
		{name: "member invites when allowed", req: Request{Action: ActionSendInvitation, Membership: plain, Settings: open}, want: true},
		{name: "outsider invites", req: Request{Action: ActionSendInvitation, Settings: open}, want: false},

		{name: "leader updates info", req: Request{Action: ActionUpdateTeamInfo, Membership: leader, Settings: defaults}, want: true},
		{name: "member updates info by default", req: Request{Action: ActionUpdateTeamInfo, Membership: plain, Settings: defaults}, want: false},
		{name: "member updates info when open", req: Request{Action: ActionUpdateTeamInfo, Membership: plain, Settings: open}, want: true},
		{name: "member changes photo by default", req: Request{Action: ActionChangeTeamPhoto, Membership: plain, Settings: defaults}, want: false},
		{name: "member changes photo when open", req: Request{Action: ActionChangeTeamPhoto, Membership: plain, Settings: open}, want: true},

		{name: "leader manages members", req: Request{Action: ActionManageMembers, Membership: leader}, want: true},
		{name: "member manages members", req: Request{Action: ActionManageMembers, Membership: plain}, want: false},
		{name: "former leader manages members", req: Request{Action: ActionManageMembers, Membership: left}, want: false},

		{name: "leader deletes team", req: Request{Action: ActionDeleteTeam, Membership: leader}, want: true},
		{name: "member deletes team", req: Request{Action: ActionDeleteTeam, Membership: plain}, want: false},

		{name: "inviter cancels", req: Request{Action: ActionCancelInvitation, ActorId: "u-member", Membership: plain, Invitation: inv}, want: true},
		{name: "leader cancels", req: Request{Action: ActionCancelInvitation, ActorId: "u-leader", Membership: leader, Invitation: inv}, want: true},
		{name: "other member cancels", req: Request{Action: ActionCancelInvitation, ActorId: "u-other", Membership: &model.TeamMember{TeamId: "t-1", Role: model.RoleMember, IsActive: true}, Invitation: inv}, want: false},
		{name: "invited user cancels", req: Request{Action: ActionCancelInvitation, ActorId: "u-invited", Invitation: inv}, want: false},

		{name: "invited user responds", req: Request{Action: ActionRespondToInvitation, ActorId: "u-invited", Invitation: inv}, want: true},
		{name: "leader responds for someone", req: Request{Action: ActionRespondToInvitation, ActorId: "u-leader", Membership: leader, Invitation: inv}, want: false},

		{name: "unknown action", req: Request{Action: Action(99), Membership: leader}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.req)
			assert.Equal(t, tt.want, d.Allowed)
			if tt.want {
				assert.NoError(t, d.Err())
			} else {
				assert.NotEmpty(t, d.Reason)
				assert.ErrorIs(t, d.Err(), apperr.ErrForbidden)
			}
		})
	}
}

func TestCanCancelInvitation_LeaderOfOtherTeam(t *testing.T) {
	inv := &model.TeamInvitation{TeamId: "t-1", InvitedUserId: "u-2", InvitedBy: "u-1"}
	other := &model.TeamMember{TeamId: "t-2", UserId: "u-9", Role: model.RoleLeader, IsActive: true}
	assert.False(t, CanCancelInvitation("u-9", other, inv).Allowed)
	assert.False(t, CanCancelInvitation("u-9", nil, nil).Allowed)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "send_invitation", ActionSendInvitation.String())
	assert.Equal(t, "unknown", Action(-1).String())
}
