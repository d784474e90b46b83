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
	"strings"

	"github.com/go-arcade/teamhub/internal/engine/service"
	"github.com/go-arcade/teamhub/pkg/cache"
	httpx "github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/http/middleware"
	"github.com/go-arcade/teamhub/pkg/metrics"
	"github.com/go-arcade/teamhub/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

const defaultContextPath = "/api"

type Router struct {
	Http     *httpx.Http
	App      *fiber.App
	Services *service.Services
	Sessions *cache.SessionStore
	Registry *metrics.Registry
}

func NewRouter(
	httpConf *httpx.Http,
	app *fiber.App,
	services *service.Services,
	sessions *cache.SessionStore,
	registry *metrics.Registry,
) *Router {
	return &Router{
		Http:     httpConf,
		App:      app,
		Services: services,
		Sessions: sessions,
		Registry: registry,
	}
}

// Router 注册中间件和全部路由
func (rt *Router) Router() *fiber.App {
	app := rt.App

	// 中间件
	app.Use(
		middleware.ExceptionMiddleware,
		middleware.RequestMiddleware(),
		middleware.CorsMiddleware(rt.Http.AllowOrigins),
		middleware.TraceMiddleware(),
	)
	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}
	app.Use(middleware.UnifiedResponseMiddleware())

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	if rt.Http.ExposeMetrics && rt.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Registry.Handler()))
	}

	api := app.Group(rt.contextPath())
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, rt.Sessions)
	rt.teamRouter(api, auth)

	// 找不到路径时的处理，必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return httpx.WithRepErrMsg(c, httpx.NotFound.Code, "request path not found", c.Path())
	})

	return app
}

func (rt *Router) contextPath() string {
	p := strings.TrimRight(rt.Http.ContextPath, "/")
	if p == "" {
		return defaultContextPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
