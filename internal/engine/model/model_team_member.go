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

import "time"

// Role 团队角色
type Role string

const (
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleLeader, RoleMember:
		return true
	}
	return false
}

// TeamMember 团队成员关系。离开或被移除时只做软删除，保留历史记录。
// ActiveSlot 在成员有效时为 true，失效后为 NULL；(team_id, user_id, active_slot)
// 上的唯一索引保证同一用户在同一团队最多一条有效记录。
type TeamMember struct {
	BaseModel
	TeamId               string     `gorm:"column:team_id;type:varchar(64);not null;uniqueIndex:uk_team_member_active,priority:1;index:idx_team_member_team" json:"teamId"`
	UserId               string     `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uk_team_member_active,priority:2;index:idx_team_member_user" json:"userId"`
	Role                 Role       `gorm:"column:role;type:varchar(16);not null" json:"role"`
	ActiveSlot           *bool      `gorm:"column:active_slot;uniqueIndex:uk_team_member_active,priority:3" json:"-"`
	IsActive             bool       `gorm:"column:is_active;not null" json:"isActive"`
	NotificationsEnabled bool       `gorm:"column:notifications_enabled;not null" json:"notificationsEnabled"`
	JoinedAt             time.Time  `gorm:"column:joined_at;not null" json:"joinedAt"`
	LeftAt               *time.Time `gorm:"column:left_at" json:"leftAt"`
}

func (TeamMember) TableName() string {
	return "t_team_member"
}

// NewActiveMember 构造一条有效的成员关系
func NewActiveMember(teamId, userId string, role Role, joinedAt time.Time) *TeamMember {
	return &TeamMember{
		TeamId:               teamId,
		UserId:               userId,
		Role:                 role,
		ActiveSlot:           boolPtr(true),
		IsActive:             true,
		NotificationsEnabled: true,
		JoinedAt:             joinedAt,
	}
}

// IsLeader 是否为有效的负责人
func (m *TeamMember) IsLeader() bool {
	return m != nil && m.IsActive && m.Role == RoleLeader
}

// UpdateMemberRoleReq 修改成员角色请求
type UpdateMemberRoleReq struct {
	Role string `json:"role" validate:"required"`
}

// MemberResp 成员响应
type MemberResp struct {
	UserId               string     `json:"userId"`
	User                 *UserBrief `json:"user,omitempty"`
	Role                 Role       `json:"role"`
	JoinedAt             time.Time  `json:"joinedAt"`
	NotificationsEnabled bool       `json:"notificationsEnabled"`
}

// ToMemberResp 转换为响应结构，user 可以为 nil
func (m *TeamMember) ToMemberResp(user *User) *MemberResp {
	resp := &MemberResp{
		UserId:               m.UserId,
		Role:                 m.Role,
		JoinedAt:             m.JoinedAt,
		NotificationsEnabled: m.NotificationsEnabled,
	}
	if user != nil {
		resp.User = ToUserBrief(m.UserId, user)
	}
	return resp
}

// NotificationsResp 切换通知后的结果
type NotificationsResp struct {
	NotificationsEnabled bool `json:"notificationsEnabled"`
}
