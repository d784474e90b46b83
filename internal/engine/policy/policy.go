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

// Package policy decides whether an actor may perform a team action. Every
// function is pure: callers load the membership and settings fresh for each
// request and pass them in.
package policy

import (
	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
)

type Action int

const (
	ActionViewTeam Action = iota
	ActionUpdateTeamInfo
	ActionChangeTeamPhoto
	ActionSendInvitation
	ActionManageMembers
	ActionDeleteTeam
	ActionCancelInvitation
	ActionRespondToInvitation
)

func (a Action) String() string {
	switch a {
	case ActionViewTeam:
		return "view_team"
	case ActionUpdateTeamInfo:
		return "update_team_info"
	case ActionChangeTeamPhoto:
		return "change_team_photo"
	case ActionSendInvitation:
		return "send_invitation"
	case ActionManageMembers:
		return "manage_members"
	case ActionDeleteTeam:
		return "delete_team"
	case ActionCancelInvitation:
		return "cancel_invitation"
	case ActionRespondToInvitation:
		return "respond_to_invitation"
	default:
		return "unknown"
	}
}

// Request carries everything a decision depends on. Membership is the
// actor's membership in the team, nil when the actor is not a member.
type Request struct {
	Action     Action
	ActorId    string
	Membership *model.TeamMember
	Settings   model.TeamSettings
	Invitation *model.TeamInvitation
}

type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns a Forbidden error for a denied decision, nil otherwise
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Forbidden(d.Reason)
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

const (
	reasonNotMember  = "you are not a member of this team"
	reasonNotLeader  = "only team leaders can perform this action"
	reasonUnknownAct = "unknown action"
)

func isActive(m *model.TeamMember) bool {
	return m != nil && m.IsActive
}

// Evaluate dispatches a request to the matching rule
func Evaluate(req Request) Decision {
	switch req.Action {
	case ActionViewTeam:
		return CanViewTeam(req.Membership)
	case ActionUpdateTeamInfo:
		return CanUpdateTeamInfo(req.Membership, req.Settings)
	case ActionChangeTeamPhoto:
		return CanChangeTeamPhoto(req.Membership, req.Settings)
	case ActionSendInvitation:
		return CanSendInvitation(req.Membership, req.Settings)
	case ActionManageMembers:
		return CanManageMembers(req.Membership)
	case ActionDeleteTeam:
		return CanDeleteTeam(req.Membership)
	case ActionCancelInvitation:
		return CanCancelInvitation(req.ActorId, req.Membership, req.Invitation)
	case ActionRespondToInvitation:
		return CanRespondToInvitation(req.ActorId, req.Invitation)
	default:
		return deny(reasonUnknownAct)
	}
}

func CanViewTeam(m *model.TeamMember) Decision {
	if !isActive(m) {
		return deny(reasonNotMember)
	}
	return allow()
}

// CanSendInvitation leaders always may; members only when membersCanAddOthers is on
func CanSendInvitation(m *model.TeamMember, settings model.TeamSettings) Decision {
	if !isActive(m) {
		return deny(reasonNotMember)
	}
	switch m.Role {
	case model.RoleLeader:
		return allow()
	case model.RoleMember:
		if settings.MembersCanAddOthers {
			return allow()
		}
		return deny("only team leaders can invite members to this team")
	default:
		return deny(reasonNotLeader)
	}
}

// CanUpdateTeamInfo leaders always may; members only when onlyLeaderCanChangeInfo is off
func CanUpdateTeamInfo(m *model.TeamMember, settings model.TeamSettings) Decision {
	if !isActive(m) {
		return deny(reasonNotMember)
	}
	switch m.Role {
	case model.RoleLeader:
		return allow()
	case model.RoleMember:
		if !settings.OnlyLeaderCanChangeInfo {
			return allow()
		}
		return deny("only team leaders can change team info")
	default:
		return deny(reasonNotLeader)
	}
}

func CanChangeTeamPhoto(m *model.TeamMember, settings model.TeamSettings) Decision {
	return CanUpdateTeamInfo(m, settings)
}

// CanManageMembers covers removing members, changing roles and cancelling any invitation
func CanManageMembers(m *model.TeamMember) Decision {
	if !isActive(m) {
		return deny(reasonNotMember)
	}
	if m.Role != model.RoleLeader {
		return deny(reasonNotLeader)
	}
	return allow()
}

func CanDeleteTeam(m *model.TeamMember) Decision {
	if !isActive(m) {
		return deny(reasonNotMember)
	}
	if m.Role != model.RoleLeader {
		return deny("only team leaders can delete the team")
	}
	return allow()
}

// CanCancelInvitation the inviter or any leader of the invitation's team
func CanCancelInvitation(actorId string, m *model.TeamMember, inv *model.TeamInvitation) Decision {
	if inv == nil {
		return deny("invitation is required")
	}
	if inv.InvitedBy == actorId {
		return allow()
	}
	if m.IsLeader() && m.TeamId == inv.TeamId {
		return allow()
	}
	return deny("only the inviter or a team leader can cancel this invitation")
}

// CanRespondToInvitation only the invited user
func CanRespondToInvitation(actorId string, inv *model.TeamInvitation) Decision {
	if inv == nil || inv.InvitedUserId != actorId {
		return deny("this invitation is not addressed to you")
	}
	return allow()
}
