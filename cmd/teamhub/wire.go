//go:build wireinject
// +build wireinject

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

package main

import (
	"github.com/go-arcade/teamhub/internal/bootstrap"
	"github.com/go-arcade/teamhub/internal/engine/config"
	"github.com/go-arcade/teamhub/internal/engine/repo"
	"github.com/go-arcade/teamhub/internal/engine/router"
	"github.com/go-arcade/teamhub/internal/engine/service"
	"github.com/go-arcade/teamhub/pkg/cache"
	"github.com/go-arcade/teamhub/pkg/database"
	"github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/go-arcade/teamhub/pkg/metrics"
	"github.com/go-arcade/teamhub/pkg/storage"
	"github.com/go-arcade/teamhub/pkg/trace"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		// 基础设施
		log.ProviderSet,
		database.ProviderSet,
		cache.ProviderSet,
		storage.ProviderSet,
		metrics.ProviderSet,
		trace.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		http.ProviderSet,
		router.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}

func initDatabase(configPath string) (database.IDatabase, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		log.ProviderSet,
		database.ProviderSet,
	))
}
