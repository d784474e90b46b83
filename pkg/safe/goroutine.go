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

package safe

import (
	"fmt"
	"runtime/debug"

	"github.com/go-arcade/teamhub/pkg/log"
)

// Go runs f in a new goroutine, see Do
func Go(name string, f func()) {
	go func() {
		_ = Do(name, f)
	}()
}

// Do runs f and converts a panic into an error, logging it with the stack
func Do(name string, f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", name, r)
			log.Errorw("recovered from panic", "task", name, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	f()
	return nil
}
