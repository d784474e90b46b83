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
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps objects in process memory. Used by the local profile and tests.
type MemoryStore struct {
	mu      sync.Mutex
	s       *Storage
	objects map[string][]byte
}

func NewMemoryStore(s *Storage) *MemoryStore {
	if s == nil {
		s = &Storage{Provider: StorageMemory, Endpoint: "localhost", Bucket: "teamhub"}
	}
	return &MemoryStore{s: s, objects: make(map[string][]byte)}
}

func (m *MemoryStore) Upload(_ context.Context, name string, r io.Reader, _ int64, _ string) (Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, errors.Wrap(err, "read object body")
	}
	key := getFullPath(m.s.BasePath, name)

	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return Object{URL: m.s.publicURL(key), Key: key}, nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return errors.Errorf("object %s not found", key)
	}
	delete(m.objects, key)
	return nil
}

// Has reports whether key is stored
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
