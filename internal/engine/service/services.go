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

package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-arcade/teamhub/internal/engine/apperr"
	"github.com/go-arcade/teamhub/internal/engine/model"
	"github.com/go-arcade/teamhub/internal/engine/repo"
	"github.com/go-arcade/teamhub/pkg/metrics"
	"github.com/go-arcade/teamhub/pkg/storage"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/go-arcade/teamhub/internal/engine/service"

var (
	tracer   = otel.Tracer(tracerName)
	validate = newValidator()
)

// Services 统一管理所有 service
type Services struct {
	Team       *TeamService
	Member     *MemberService
	Invitation *InvitationService
}

// NewServices 初始化所有 service
func NewServices(repos *repo.Repositories, images storage.ImageStore, teamMetrics *metrics.TeamMetrics) *Services {
	return &Services{
		Team:       NewTeamService(repos, images, teamMetrics),
		Member:     NewMemberService(repos, teamMetrics),
		Invitation: NewInvitationService(repos, teamMetrics),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息里使用 json 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateReq 校验请求结构体，失败时返回 Validation 错误
func validateReq(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperr.Wrap(apperr.KindValidation, fieldMessage(fieldErrs[0]), err)
	}
	return apperr.Wrap(apperr.KindValidation, "invalid request", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// finishSpan 记录错误并结束 span，配合命名返回值在 defer 中使用
func finishSpan(span trace.Span, err *error) {
	if err != nil && *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}

// getTeam 获取团队，不存在时返回 NotFound
func getTeam(ctx context.Context, repos *repo.Repositories, teamId string) (*model.Team, error) {
	team, err := repos.Team.GetTeamById(ctx, teamId)
	if err != nil {
		return nil, fmt.Errorf("get team failed: %w", err)
	}
	if team == nil {
		return nil, apperr.NotFound("team not found")
	}
	return team, nil
}

// lockTeam 在事务内锁定团队，不存在时返回 NotFound
func lockTeam(ctx context.Context, tx *repo.Repositories, teamId string) (*model.Team, error) {
	team, err := tx.Team.LockTeam(ctx, teamId)
	if err != nil {
		return nil, fmt.Errorf("lock team failed: %w", err)
	}
	if team == nil {
		return nil, apperr.NotFound("team not found")
	}
	return team, nil
}

func getMembership(ctx context.Context, repos *repo.Repositories, teamId, userId string) (*model.TeamMember, error) {
	member, err := repos.TeamMember.GetActiveMembership(ctx, teamId, userId)
	if err != nil {
		return nil, fmt.Errorf("get membership failed: %w", err)
	}
	return member, nil
}

// loadUsers 批量获取用户，失败时只记录日志，响应中退化为只有 userId
func loadUsers(ctx context.Context, repos *repo.Repositories, userIds ...string) map[string]*model.User {
	users, err := repos.User.GetUsersByUserIds(ctx, userIds)
	if err != nil {
		logger(ctx).Warnw("load users failed", "userIds", userIds, "error", err)
		return map[string]*model.User{}
	}
	return users
}
