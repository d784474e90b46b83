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
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type MinioStorage struct {
	Client *minio.Client
	s      *Storage
}

func newMinio(s *Storage) (*MinioStorage, error) {
	client, err := minio.New(s.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseTLS,
		Region: s.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	return &MinioStorage{
		Client: client,
		s:      s,
	}, nil
}

func (m *MinioStorage) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (Object, error) {
	key := getFullPath(m.s.BasePath, name)
	_, err := m.Client.PutObject(ctx, m.s.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, errors.Wrapf(err, "minio put object %s", key)
	}
	return Object{URL: m.s.publicURL(key), Key: key}, nil
}

func (m *MinioStorage) Remove(ctx context.Context, key string) error {
	if err := m.Client.RemoveObject(ctx, m.s.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "minio remove object %s", key)
	}
	return nil
}
