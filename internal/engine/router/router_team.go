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
	"github.com/go-arcade/teamhub/internal/engine/service"
	"github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) teamRouter(r fiber.Router, auth fiber.Handler) {
	teamGroup := r.Group("/teams", auth)
	{
		// 创建团队
		teamGroup.Post("", rt.createTeam)

		// 我的团队
		teamGroup.Get("/my-teams", rt.listMyTeams)

		// 邀请，必须在 /:teamId 之前注册
		teamGroup.Get("/invitations/pending", rt.listMyInvitations)
		teamGroup.Post("/invitations/:invitationId/accept", rt.acceptInvitation)
		teamGroup.Post("/invitations/:invitationId/reject", rt.rejectInvitation)
		teamGroup.Delete("/invitations/:invitationId", rt.cancelInvitation)

		// 团队详情、更新、删除
		teamGroup.Get("/:teamId", rt.getTeam)
		teamGroup.Put("/:teamId", rt.updateTeam)
		teamGroup.Delete("/:teamId", rt.deleteTeam)

		// 团队头像
		teamGroup.Post("/:teamId/photo", rt.uploadTeamPhoto)

		// 团队邀请
		teamGroup.Get("/:teamId/invitations/stats", rt.invitationStats)
		teamGroup.Get("/:teamId/invitations", rt.listTeamInvitations)
		teamGroup.Post("/:teamId/invitations", rt.sendInvitation)

		// 成员
		teamGroup.Get("/:teamId/members", rt.listMembers)
		teamGroup.Post("/:teamId/members", rt.addMember)
		teamGroup.Delete("/:teamId/members/:userId", rt.removeMember)
		teamGroup.Put("/:teamId/members/:userId/role", rt.updateMemberRole)
		teamGroup.Post("/:teamId/leave", rt.leaveTeam)
		teamGroup.Put("/:teamId/notifications", rt.toggleNotifications)
	}
}

// createTeam 创建团队
func (rt *Router) createTeam(c *fiber.Ctx) error {
	var req model.CreateTeamReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "create team", err)
	}

	result, err := rt.Services.Team.CreateTeam(c.UserContext(), &req, middleware.GetUserId(c))
	if err != nil {
		return fail(c, "create team", err)
	}

	c.Status(fiber.StatusCreated)
	c.Locals(middleware.DETAIL, result)
	return nil
}

// listMyTeams 获取当前用户加入的团队
func (rt *Router) listMyTeams(c *fiber.Ctx) error {
	result, err := rt.Services.Team.ListMyTeams(c.UserContext(), middleware.GetUserId(c))
	if err != nil {
		return fail(c, "list my teams", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// getTeam 获取团队详情
func (rt *Router) getTeam(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	result, err := rt.Services.Team.GetTeam(c.UserContext(), teamId, middleware.GetUserId(c))
	if err != nil {
		return fail(c, "get team", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// updateTeam 更新团队
func (rt *Router) updateTeam(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	var req model.UpdateTeamReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "update team", err)
	}

	result, err := rt.Services.Team.UpdateTeam(c.UserContext(), teamId, &req, middleware.GetUserId(c))
	if err != nil {
		return fail(c, "update team", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// deleteTeam 删除团队
func (rt *Router) deleteTeam(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	if err := rt.Services.Team.DeleteTeam(c.UserContext(), teamId, middleware.GetUserId(c)); err != nil {
		return fail(c, "delete team", err)
	}

	c.Locals(middleware.OPERATION, "")
	return nil
}

// uploadTeamPhoto 上传团队头像，表单字段 image
func (rt *Router) uploadTeamPhoto(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	file, err := c.FormFile("image")
	if err != nil {
		return http.WithRepErrMsg(c, http.ValidationFailed.Code, "no image provided", c.Path())
	}
	f, err := file.Open()
	if err != nil {
		return fail(c, "upload team photo", err)
	}
	defer f.Close()

	result, err := rt.Services.Team.UploadPhoto(c.UserContext(), teamId, middleware.GetUserId(c), &service.PhotoUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Size:        file.Size,
		Reader:      f,
	})
	if err != nil {
		return fail(c, "upload team photo", err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}
