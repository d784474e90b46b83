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

package config

import (
	"github.com/go-arcade/teamhub/pkg/cache"
	"github.com/go-arcade/teamhub/pkg/database"
	"github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/go-arcade/teamhub/pkg/storage"
	"github.com/go-arcade/teamhub/pkg/trace"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideStorageConfig,
	ProvideTraceConfig,
)

func ProvideConf(configPath string) (*AppConfig, error) {
	appConf, err := LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	return &appConf, nil
}

func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	return &appConf.Http
}

func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideStorageConfig(appConf *AppConfig) storage.Storage {
	return appConf.Storage
}

func ProvideTraceConfig(appConf *AppConfig) *trace.Conf {
	return &appConf.Trace
}
