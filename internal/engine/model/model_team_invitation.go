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

package model

import (
	"time"

	"github.com/go-arcade/teamhub/pkg/statemachine"
)

// TeamInvitation 团队邀请。PendingSlot 只在 pending 状态为 true，
// (team_id, invited_user_id, pending_slot) 唯一索引保证同一用户最多一条待处理邀请。
type TeamInvitation struct {
	BaseModel
	InvitationId  string                        `gorm:"column:invitation_id;type:varchar(64);not null;uniqueIndex:uk_team_invitation_id" json:"invitationId"`
	TeamId        string                        `gorm:"column:team_id;type:varchar(64);not null;uniqueIndex:uk_team_invitation_pending,priority:1;index:idx_team_invitation_team" json:"teamId"`
	InvitedUserId string                        `gorm:"column:invited_user_id;type:varchar(64);not null;uniqueIndex:uk_team_invitation_pending,priority:2;index:idx_team_invitation_user" json:"invitedUserId"`
	InvitedBy     string                        `gorm:"column:invited_by;type:varchar(64);not null" json:"invitedBy"`
	Status        statemachine.InvitationStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	PendingSlot   *bool                         `gorm:"column:pending_slot;uniqueIndex:uk_team_invitation_pending,priority:3" json:"-"`
	Message       *string                       `gorm:"column:message;type:varchar(200)" json:"message"`
	InvitedAt     time.Time                     `gorm:"column:invited_at;not null" json:"invitedAt"`
	RespondedAt   *time.Time                    `gorm:"column:responded_at" json:"respondedAt"`
}

func (TeamInvitation) TableName() string {
	return "t_team_invitation"
}

// NewPendingInvitation 构造一条待处理邀请
func NewPendingInvitation(invitationId, teamId, invitedUserId, invitedBy string, message *string, invitedAt time.Time) *TeamInvitation {
	return &TeamInvitation{
		InvitationId:  invitationId,
		TeamId:        teamId,
		InvitedUserId: invitedUserId,
		InvitedBy:     invitedBy,
		Status:        statemachine.InvitationPending,
		PendingSlot:   boolPtr(true),
		Message:       message,
		InvitedAt:     invitedAt,
	}
}

// IsPending 是否为待处理状态
func (i *TeamInvitation) IsPending() bool {
	return i.Status == statemachine.InvitationPending
}

// SendInvitationReq 发送邀请请求
type SendInvitationReq struct {
	UserId  string  `json:"userId" validate:"required,max=64"`
	Message *string `json:"message" validate:"omitempty,max=200"`
}

// InvitationResp 邀请响应
type InvitationResp struct {
	InvitationId string                        `json:"invitationId"`
	TeamId       string                        `json:"teamId"`
	Team         *TeamBrief                    `json:"team,omitempty"`
	InvitedUser  *UserBrief                    `json:"invitedUser"`
	InvitedBy    *UserBrief                    `json:"invitedBy"`
	Status       statemachine.InvitationStatus `json:"status"`
	Message      *string                       `json:"message,omitempty"`
	InvitedAt    time.Time                     `json:"invitedAt"`
	RespondedAt  *time.Time                    `json:"respondedAt,omitempty"`
}

// TeamBrief 邀请列表中展示的团队摘要
type TeamBrief struct {
	TeamId   string `json:"teamId"`
	Name     string `json:"name"`
	PhotoUrl string `json:"photoUrl"`
}

// ToInvitationResp 转换为响应结构，关联对象缺失时只保留 id
func (i *TeamInvitation) ToInvitationResp(team *Team, invited, inviter *User) *InvitationResp {
	resp := &InvitationResp{
		InvitationId: i.InvitationId,
		TeamId:       i.TeamId,
		InvitedUser:  ToUserBrief(i.InvitedUserId, invited),
		InvitedBy:    ToUserBrief(i.InvitedBy, inviter),
		Status:       i.Status,
		Message:      i.Message,
		InvitedAt:    i.InvitedAt,
		RespondedAt:  i.RespondedAt,
	}
	if team != nil {
		resp.Team = &TeamBrief{
			TeamId:   team.TeamId,
			Name:     team.Name,
			PhotoUrl: team.ToTeamResp().PhotoUrl,
		}
	}
	return resp
}

// InvitationStats 团队邀请按状态统计，所有状态都有值
type InvitationStats map[statemachine.InvitationStatus]int64

// NewInvitationStats 返回所有状态计数为 0 的统计
func NewInvitationStats() InvitationStats {
	stats := make(InvitationStats, len(statemachine.InvitationStatuses))
	for _, s := range statemachine.InvitationStatuses {
		stats[s] = 0
	}
	return stats
}

// AcceptInvitationResp 接受邀请的结果
type AcceptInvitationResp struct {
	Invitation *InvitationResp `json:"invitation"`
	Membership *MemberResp     `json:"membership"`
}
