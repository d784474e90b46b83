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

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/google/wire"
)

// ProviderSet 提供存储相关的依赖
var ProviderSet = wire.NewSet(ProvideImageStore)

// 存储类型常量
const (
	StorageDisabled = ""
	StorageMinio    = "minio"
	StorageS3       = "s3"
	StorageMemory   = "memory"
)

// ErrStorageDisabled is returned by uploads when no provider is configured.
var ErrStorageDisabled = errors.New("image storage is not configured")

// Storage 存储配置结构
type Storage struct {
	Provider  string `mapstructure:"provider"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseTLS    bool   `mapstructure:"useTLS"`
	BasePath  string `mapstructure:"basePath"`
	// PublicURL 对外访问前缀，为空时由 endpoint 和 bucket 拼接
	PublicURL string `mapstructure:"publicURL"`
}

// Object is a stored image: its public URL and the key used to remove it.
type Object struct {
	URL string
	Key string
}

// ImageStore is the external image store used for team photos.
type ImageStore interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (Object, error)
	Remove(ctx context.Context, key string) error
}

// ProvideImageStore builds the configured image store
func ProvideImageStore(s Storage) (ImageStore, error) {
	return NewStorage(&s)
}

// NewStorage 根据配置创建存储实例
func NewStorage(s *Storage) (ImageStore, error) {
	switch s.Provider {
	case StorageDisabled:
		log.Warn("image storage is not configured, photo uploads are disabled")
		return disabledStore{}, nil
	case StorageMinio:
		return newMinio(s)
	case StorageS3:
		return newS3(s)
	case StorageMemory:
		return NewMemoryStore(s), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", s.Provider)
	}
}

// getFullPath joins the base path and object name into an object key
func getFullPath(basePath, objectName string) string {
	if basePath == "" {
		return objectName
	}
	return path.Join(strings.Trim(basePath, "/"), objectName)
}

// publicURL returns the URL under which key is served
func (s *Storage) publicURL(key string) string {
	if s.PublicURL != "" {
		return strings.TrimRight(s.PublicURL, "/") + "/" + key
	}
	scheme := "http"
	if s.UseTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, strings.TrimRight(s.Endpoint, "/"), s.Bucket, key)
}

type disabledStore struct{}

func (disabledStore) Upload(context.Context, string, io.Reader, int64, string) (Object, error) {
	return Object{}, ErrStorageDisabled
}

func (disabledStore) Remove(context.Context, string) error {
	return nil
}
