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

	"gorm.io/datatypes"
)

// DefaultTeamPhotoUrl 未上传团队头像时使用的默认图片
const DefaultTeamPhotoUrl = "https://cdn.pixabay.com/photo/2017/11/10/05/48/user-2935527_640.png"

// Team 团队表
type Team struct {
	BaseModel
	TeamId      string  `gorm:"column:team_id;type:varchar(64);not null;uniqueIndex:uk_team_team_id" json:"teamId"` // 团队唯一标识
	Name        string  `gorm:"column:name;type:varchar(100);not null" json:"name"`                                 // 团队名称
	Description string  `gorm:"column:description;type:varchar(500)" json:"description"`                            // 团队描述
	PhotoUrl    string  `gorm:"column:photo_url;type:varchar(512)" json:"photoUrl"`                                 // 头像地址
	PhotoId     *string `gorm:"column:photo_id;type:varchar(255)" json:"-"`                                         // 外部存储对象 key，为空表示默认头像
	CreatedBy   string  `gorm:"column:created_by;type:varchar(64);not null;index:idx_team_created_by" json:"createdBy"`

	Settings datatypes.JSONType[TeamSettings] `gorm:"column:settings" json:"settings"` // 团队设置
}

func (Team) TableName() string {
	return "t_team"
}

// HasCustomPhoto 是否设置了自定义头像
func (t *Team) HasCustomPhoto() bool {
	return t.PhotoId != nil && *t.PhotoId != ""
}

// TeamSettings 团队设置
type TeamSettings struct {
	OnlyLeaderCanSendMessages bool `json:"onlyLeaderCanSendMessages"`
	OnlyLeaderCanChangeInfo   bool `json:"onlyLeaderCanChangeInfo"`
	MembersCanAddOthers       bool `json:"membersCanAddOthers"`
}

// DefaultTeamSettings 新建团队的默认设置
func DefaultTeamSettings() TeamSettings {
	return TeamSettings{
		OnlyLeaderCanSendMessages: false,
		OnlyLeaderCanChangeInfo:   true,
		MembersCanAddOthers:       false,
	}
}

// TeamSettingsPatch 只包含请求中出现的设置项
type TeamSettingsPatch struct {
	OnlyLeaderCanSendMessages *bool `json:"onlyLeaderCanSendMessages"`
	OnlyLeaderCanChangeInfo   *bool `json:"onlyLeaderCanChangeInfo"`
	MembersCanAddOthers       *bool `json:"membersCanAddOthers"`
}

// Merge 把 patch 中出现的键覆盖到 s 上，未出现的键保持不变
func (s TeamSettings) Merge(p *TeamSettingsPatch) TeamSettings {
	if p == nil {
		return s
	}
	if p.OnlyLeaderCanSendMessages != nil {
		s.OnlyLeaderCanSendMessages = *p.OnlyLeaderCanSendMessages
	}
	if p.OnlyLeaderCanChangeInfo != nil {
		s.OnlyLeaderCanChangeInfo = *p.OnlyLeaderCanChangeInfo
	}
	if p.MembersCanAddOthers != nil {
		s.MembersCanAddOthers = *p.MembersCanAddOthers
	}
	return s
}

// CreateTeamReq 创建团队请求
type CreateTeamReq struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateTeamReq 更新团队请求，nil 字段不修改
type UpdateTeamReq struct {
	Name        *string            `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string            `json:"description" validate:"omitempty,max=500"`
	Settings    *TeamSettingsPatch `json:"settings"`
}

// Empty 请求中没有任何可更新字段
func (r *UpdateTeamReq) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Settings == nil
}

// PhotoRef 外部存储中的头像引用
type PhotoRef struct {
	Url string
	Id  string
}

// TeamResp 团队响应
type TeamResp struct {
	TeamId         string       `json:"teamId"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	PhotoUrl       string       `json:"photoUrl"`
	HasCustomPhoto bool         `json:"hasCustomPhoto"`
	CreatedBy      string       `json:"createdBy"`
	Settings       TeamSettings `json:"settings"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// ToTeamResp 转换为响应结构
func (t *Team) ToTeamResp() *TeamResp {
	photoUrl := t.PhotoUrl
	if photoUrl == "" {
		photoUrl = DefaultTeamPhotoUrl
	}
	return &TeamResp{
		TeamId:         t.TeamId,
		Name:           t.Name,
		Description:    t.Description,
		PhotoUrl:       photoUrl,
		HasCustomPhoto: t.HasCustomPhoto(),
		CreatedBy:      t.CreatedBy,
		Settings:       t.Settings.Data(),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// CreateTeamResp 创建团队的结果，包含创建者的负责人成员关系
type CreateTeamResp struct {
	Team       *TeamResp   `json:"team"`
	Membership *MemberResp `json:"membership"`
}

// TeamDetailResp 团队详情
type TeamDetailResp struct {
	Team    *TeamResp     `json:"team"`
	MyRole  Role          `json:"myRole"`
	Members []*MemberResp `json:"members"`
}

// MyTeamResp 我的团队列表项
type MyTeamResp struct {
	Team                 *TeamResp `json:"team"`
	MyRole               Role      `json:"myRole"`
	JoinedAt             time.Time `json:"joinedAt"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
}
