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

package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUUID(t *testing.T) {
	a, b := GetUUID(), GetUUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.True(t, IsUUID(a))
}

func TestGetUUIDWithoutDashes(t *testing.T) {
	u := GetUUIDWithoutDashes()
	assert.Len(t, u, 32)
	assert.NotContains(t, u, "-")
	assert.False(t, IsUUID(u))
	assert.False(t, IsUUID("not-a-uuid"))
}
