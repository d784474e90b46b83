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

package router

import (
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// listMembers 获取团队成员
func (rt *Router) listMembers(c *fiber.Ctx) error {
	result, err := rt.Services.Member.ListMembers(c.UserContext(), c.Params("teamId"), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "list members", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// addMember 直接添加成员已废弃，成员只能通过邀请加入
func (rt *Router) addMember(c *fiber.Ctx) error {
	return http.WithRepErrMsg(c, http.Gone.Code,
		"adding members directly is no longer supported, send an invitation instead", c.Path())
}

// removeMember 移除成员
func (rt *Router) removeMember(c *fiber.Ctx) error {
	err := rt.Services.Member.RemoveMember(c.UserContext(), c.Params("teamId"), c.Params("userId"), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "remove member", err)
	}

	c.Locals(middleware.OPERATION, "")
	return nil
}

// updateMemberRole 修改成员角色
func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	var req model.UpdateMemberRoleReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "update member role", err)
	}

	result, err := rt.Services.Member.UpdateMemberRole(c.UserContext(), c.Params("teamId"), c.Params("userId"), &req, middleware.GetUserId(c))
	if err != nil {
		return fail(c, "update member role", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// leaveTeam 退出团队
func (rt *Router) leaveTeam(c *fiber.Ctx) error {
	if err := rt.Services.Member.LeaveTeam(c.UserContext(), c.Params("teamId"), middleware.GetUserId(c)); err != nil {
		return fail(c, "leave team", err)
	}

	c.Locals(middleware.OPERATION, "")
	return nil
}

// toggleNotifications 切换团队通知
func (rt *Router) toggleNotifications(c *fiber.Ctx) error {
	result, err := rt.Services.Member.ToggleNotifications(c.UserContext(), c.Params("teamId"), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "toggle notifications", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}
