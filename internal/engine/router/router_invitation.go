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
	"github.com/go-arcade/teamhub/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// sendInvitation 邀请用户加入团队
func (rt *Router) sendInvitation(c *fiber.Ctx) error {
	var req model.SendInvitationReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "send invitation", err)
	}

	result, err := rt.Services.Invitation.Send(c.UserContext(), c.Params("teamId"), &req, middleware.GetUserId(c))
	if err != nil {
		return fail(c, "send invitation", err)
	}

	c.Status(fiber.StatusCreated)
	c.Locals(middleware.DETAIL, result)
	return nil
}

// listTeamInvitations 获取团队发出的邀请
func (rt *Router) listTeamInvitations(c *fiber.Ctx) error {
	result, err := rt.Services.Invitation.ListForTeam(c.UserContext(), c.Params("teamId"), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "list team invitations", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// invitationStats 团队邀请统计
func (rt *Router) invitationStats(c *fiber.Ctx) error {
	result, err := rt.Services.Invitation.Stats(c.UserContext(), c.Params("teamId"), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "invitation stats", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// listMyInvitations 获取当前用户收到的 pending 邀请
func (rt *Router) listMyInvitations(c *fiber.Ctx) error {
	result, err := rt.Services.Invitation.ListMine(c.UserContext(), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "list my invitations", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// acceptInvitation 接受邀请
func (rt *Router) acceptInvitation(c *fiber.Ctx) error {
	result, err := rt.Services.Invitation.Accept(c.UserContext(), c.Params("invitationId"), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "accept invitation", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// rejectInvitation 拒绝邀请
func (rt *Router) rejectInvitation(c *fiber.Ctx) error {
	result, err := rt.Services.Invitation.Reject(c.UserContext(), c.Params("invitationId"), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "reject invitation", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// cancelInvitation 撤回邀请
func (rt *Router) cancelInvitation(c *fiber.Ctx) error {
	if err := rt.Services.Invitation.Cancel(c.UserContext(), c.Params("invitationId"), middleware.GetUserId(c)); err != nil {
		return fail(c, "cancel invitation", err)
	}

	c.Locals(middleware.OPERATION, "")
	return nil
}
