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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	store, err := NewStorage(&Storage{})
	require.NoError(t, err)
	_, err = store.Upload(context.Background(), "a.png", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.NoError(t, store.Remove(context.Background(), "a.png"))

	_, err = NewStorage(&Storage{Provider: "ftp"})
	assert.Error(t, err)

	store, err = NewStorage(&Storage{Provider: StorageMinio, Endpoint: "localhost:9000", Bucket: "teams"})
	require.NoError(t, err)
	assert.IsType(t, &MinioStorage{}, store)
}

func TestGetFullPath(t *testing.T) {
	assert.Equal(t, "photo.png", getFullPath("", "photo.png"))
	assert.Equal(t, "teams/photo.png", getFullPath("/teams/", "photo.png"))
}

func TestPublicURL(t *testing.T) {
	s := &Storage{Endpoint: "minio:9000", Bucket: "teamhub"}
	assert.Equal(t, "http://minio:9000/teamhub/teams/a.png", s.publicURL("teams/a.png"))

	s.UseTLS = true
	assert.Equal(t, "https://minio:9000/teamhub/teams/a.png", s.publicURL("teams/a.png"))

	s.PublicURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/teams/a.png", s.publicURL("teams/a.png"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(&Storage{Provider: StorageMemory, Endpoint: "localhost", Bucket: "b", BasePath: "teams"})
	ctx := context.Background()

	obj, err := store.Upload(ctx, "t1.png", strings.NewReader("image-bytes"), 11, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "teams/t1.png", obj.Key)
	assert.Equal(t, "http://localhost/b/teams/t1.png", obj.URL)
	assert.True(t, store.Has(obj.Key))

	require.NoError(t, store.Remove(ctx, obj.Key))
	assert.Equal(t, 0, store.Len())
	assert.Error(t, store.Remove(ctx, obj.Key))
}
