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

// User 用户目录，由身份服务写入，本服务只读
type User struct {
	BaseModel
	UserId   string `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uk_user_user_id" json:"userId"`
	Username string `gorm:"column:username;type:varchar(64);not null" json:"username"`
	Email    string `gorm:"column:email;type:varchar(128)" json:"email"`
	Avatar   string `gorm:"column:avatar;type:varchar(512)" json:"avatar"`
}

func (User) TableName() string {
	return "t_user"
}

// UserBrief 成员列表和邀请列表中返回的用户信息
type UserBrief struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// ToUserBrief 转换为用户摘要，用户不存在时只保留 userId
func ToUserBrief(userId string, u *User) *UserBrief {
	if u == nil {
		return &UserBrief{UserId: userId}
	}
	return &UserBrief{
		UserId:   u.UserId,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}
