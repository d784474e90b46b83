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
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/teamhub/pkg/cache"
	"github.com/go-arcade/teamhub/pkg/database"
	"github.com/go-arcade/teamhub/pkg/http"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/go-arcade/teamhub/pkg/storage"
	"github.com/go-arcade/teamhub/pkg/trace"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 TEAMHUB_HTTP_PORT 覆盖 http.port
const EnvPrefix = "TEAMHUB"

type AppConfig struct {
	Log      log.Conf
	Http     http.Http
	Database database.Database
	Redis    cache.Redis
	Storage  storage.Storage
	Trace    trace.Conf
}

var (
	mu  sync.RWMutex
	cfg AppConfig
)

// Get 返回当前生效的配置副本
func Get() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LoadConfigFile 读取 toml 配置文件，环境变量优先于文件，文件变更时重新解析
func LoadConfigFile(path string) (AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return AppConfig{}, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var loaded AppConfig
	if err := v.Unmarshal(&loaded); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	if err := validate(&loaded); err != nil {
		return AppConfig{}, err
	}

	mu.Lock()
	cfg = loaded
	mu.Unlock()

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration file changed, reloading", "file", e.Name)
		var reloaded AppConfig
		if err := v.Unmarshal(&reloaded); err != nil {
			log.Errorw("failed to unmarshal configuration file", "file", e.Name, "error", err)
			return
		}
		if err := validate(&reloaded); err != nil {
			log.Errorw("invalid configuration, keeping previous values", "file", e.Name, "error", err)
			return
		}
		mu.Lock()
		cfg = reloaded
		mu.Unlock()
	})
	v.WatchConfig()

	log.Infow("config file loaded", "path", path)
	return loaded, nil
}

func setDefaults(v *viper.Viper) {
	logConf := log.SetDefaults()
	v.SetDefault("log.output", logConf.Output)
	v.SetDefault("log.format", logConf.Format)
	v.SetDefault("log.service", logConf.Service)
	v.SetDefault("log.path", logConf.Path)
	v.SetDefault("log.filename", logConf.Filename)
	v.SetDefault("log.level", logConf.Level)
	v.SetDefault("log.keepHours", logConf.KeepHours)
	v.SetDefault("log.rotateSize", logConf.RotateSize)
	v.SetDefault("log.rotateNum", logConf.RotateNum)

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.contextPath", "/api")
	v.SetDefault("http.accessLog", true)
	v.SetDefault("http.exposeMetrics", true)
	v.SetDefault("http.bodyLimit", 8)
	v.SetDefault("http.readTimeout", 30)
	v.SetDefault("http.writeTimeout", 30)
	v.SetDefault("http.idleTimeout", 60)
	v.SetDefault("http.shutdownTimeout", 30)
	v.SetDefault("http.auth.secretKey", "")
	v.SetDefault("http.auth.accessExpire", 60)

	v.SetDefault("database.driver", database.DriverSQLite)
	v.SetDefault("database.path", "teamhub.db")
	v.SetDefault("database.maxOpenConns", 20)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.maxLifeTime", 3600)
	v.SetDefault("database.maxIdleTime", 600)
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("redis.mode", "single")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.sessionPrefix", "teamhub:session:")

	v.SetDefault("storage.provider", storage.StorageDisabled)

	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.protocol", trace.ProtocolGRPC)
	v.SetDefault("trace.serviceName", "teamhub")
	v.SetDefault("trace.insecure", true)
}

func validate(c *AppConfig) error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Http.Port)
	}
	if c.Http.Auth.SecretKey == "" {
		return fmt.Errorf("http.auth.secretKey is required")
	}
	switch c.Trace.Protocol {
	case trace.ProtocolGRPC, trace.ProtocolHTTP:
	default:
		return fmt.Errorf("unsupported trace protocol: %s", c.Trace.Protocol)
	}
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverPostgres, database.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}
