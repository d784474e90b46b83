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

package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// ProviderSet 提供缓存相关的依赖
var ProviderSet = wire.NewSet(ProvideRedis, ProvideSessionStore)

// ProvideRedis 提供 Redis 实例，未配置地址时返回 nil 并关闭会话校验
func ProvideRedis(conf Redis) (redis.UniversalClient, func(), error) {
	if conf.Address == "" {
		log.Warn("redis address is empty, session checks are disabled")
		return nil, func() {}, nil
	}
	client, err := NewRedis(conf)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

type Redis struct {
	Mode             string        `mapstructure:"mode"`
	Address          string        `mapstructure:"address"`
	Password         string        `mapstructure:"password"`
	DB               int           `mapstructure:"db"`
	PoolSize         int           `mapstructure:"poolSize"`
	UseTLS           bool          `mapstructure:"useTLS"`
	MasterName       string        `mapstructure:"masterName"`
	SentinelUsername string        `mapstructure:"sentinelUsername"`
	SentinelPassword string        `mapstructure:"sentinelPassword"`
	DialTimeout      time.Duration `mapstructure:"dialTimeout"`  // 连接超时（秒）
	ReadTimeout      time.Duration `mapstructure:"readTimeout"`  // 读超时（秒）
	WriteTimeout     time.Duration `mapstructure:"writeTimeout"` // 写超时（秒）

	// SessionPrefix 登录服务写入会话时使用的 key 前缀
	SessionPrefix string `mapstructure:"sessionPrefix"`
}

const (
	ModeSingle   = "single"
	ModeSentinel = "sentinel"
	ModeCluster  = "cluster"
)

// NewRedis 按 mode 创建客户端并确认连通
func NewRedis(cfg Redis) (redis.UniversalClient, error) {
	redisClient, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect redis", "error", err)
		_ = redisClient.Close()
		return nil, err
	}

	log.Infow("redis connected", "mode", cfg.Mode)
	return redisClient, nil
}

// newClient 只构造客户端，不建立连接。address 在 sentinel 和 cluster 模式下为逗号分隔的地址列表
func newClient(cfg Redis) (redis.UniversalClient, error) {
	var tlsConfig *tls.Config
	if cfg.UseTLS {
		tlsConfig = &tls.Config{}
	}

	switch cfg.Mode {
	case ModeSingle, "":
		return redis.NewClient(&redis.Options{
			Addr:         cfg.Address,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  cfg.DialTimeout * time.Second,
			ReadTimeout:  cfg.ReadTimeout * time.Second,
			WriteTimeout: cfg.WriteTimeout * time.Second,
			TLSConfig:    tlsConfig,
		}), nil
	case ModeSentinel:
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    splitAddrs(cfg.Address),
			Password:         cfg.Password,
			DB:               cfg.DB,
			PoolSize:         cfg.PoolSize,
			SentinelUsername: cfg.SentinelUsername,
			SentinelPassword: cfg.SentinelPassword,
			DialTimeout:      cfg.DialTimeout * time.Second,
			ReadTimeout:      cfg.ReadTimeout * time.Second,
			WriteTimeout:     cfg.WriteTimeout * time.Second,
			TLSConfig:        tlsConfig,
		}), nil
	case ModeCluster:
		// cluster 只有 0 号库
		if cfg.DB != 0 {
			return nil, fmt.Errorf("redis cluster does not support db %d", cfg.DB)
		}
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        splitAddrs(cfg.Address),
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  cfg.DialTimeout * time.Second,
			ReadTimeout:  cfg.ReadTimeout * time.Second,
			WriteTimeout: cfg.WriteTimeout * time.Second,
			TLSConfig:    tlsConfig,
		}), nil
	default:
		return nil, fmt.Errorf("illegal redis mode: %s", cfg.Mode)
	}
}

func splitAddrs(address string) []string {
	var addrs []string
	for _, addr := range strings.Split(address, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}
