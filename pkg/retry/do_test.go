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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBusy = errors.New("database is locked")

func TestDo(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		opts         []Option
		wantAttempts int
		wantErr      bool
	}{
		{name: "first try", failures: 0, wantAttempts: 1},
		{name: "succeeds on third", failures: 2, opts: []Option{WithMaxAttempts(3)}, wantAttempts: 3},
		{name: "gives up", failures: 10, opts: []Option{WithMaxAttempts(4)}, wantAttempts: 4, wantErr: true},
		{
			name:         "not retryable",
			failures:     10,
			opts:         []Option{WithMaxAttempts(5), WithRetryIf(func(error) bool { return false })},
			wantAttempts: 1,
			wantErr:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			opts := append([]Option{WithBackoff(Fixed(0))}, tt.opts...)
			err := Do(context.Background(), func(context.Context) error {
				attempts++
				if attempts <= tt.failures {
					return errBusy
				}
				return nil
			}, opts...)

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBusy)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDo_OnRetry(t *testing.T) {
	var seen []int
	_ = Do(context.Background(), func(context.Context) error {
		return errBusy
	}, WithMaxAttempts(3), WithBackoff(Fixed(0)), WithOnRetry(func(attempt int, err error) {
		seen = append(seen, attempt)
		assert.ErrorIs(t, err, errBusy)
	}))
	assert.Equal(t, []int{1, 2}, seen)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	start := time.Now()
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func(context.Context) error {
		attempts++
		return errBusy
	}, WithMaxAttempts(10), WithBackoff(Fixed(time.Second)))

	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 1, attempts)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestExponential(t *testing.T) {
	b := Exponential(10*time.Millisecond, 50*time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, b.Next(0))
	assert.Equal(t, 20*time.Millisecond, b.Next(1))
	assert.Equal(t, 40*time.Millisecond, b.Next(2))
	assert.Equal(t, 50*time.Millisecond, b.Next(3))
	assert.Equal(t, 50*time.Millisecond, b.Next(62))
}

func TestFullJitter(t *testing.T) {
	assert.Equal(t, time.Duration(0), FullJitter(0))
	for range 20 {
		d := FullJitter(10 * time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, 10*time.Millisecond)
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(context.Canceled))
	assert.True(t, IsRetryableError(errBusy))
}
