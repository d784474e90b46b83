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

// Package statemachine holds transition tables for persisted status columns.
// A Table carries no current state: callers pass the state they loaded and
// the table answers whether the move is legal.
package statemachine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrInvalidTransition = errors.New("invalid transition")

// Table maps a source state to the states it may move to. Safe for concurrent use.
type Table[T comparable] struct {
	mu    sync.RWMutex
	edges map[T][]T
}

func NewTable[T comparable]() *Table[T] {
	return &Table[T]{edges: make(map[T][]T)}
}

// Allow registers from -> to for every target, ignoring duplicates
func (t *Table[T]) Allow(from T, to ...T) *Table[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(t.edges[from], target) {
			t.edges[from] = append(t.edges[from], target)
		}
	}
	return t
}

func (t *Table[T]) CanTransition(from, to T) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Contains(t.edges[from], to)
}

// Check returns ErrInvalidTransition when from -> to is not registered
func (t *Table[T]) Check(from, to T) error {
	if !t.CanTransition(from, to) {
		return fmt.Errorf("%w: %v → %v", ErrInvalidTransition, from, to)
	}
	return nil
}

// Next lists the states reachable from from in registration order
func (t *Table[T]) Next(from T) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.edges[from])
}

// Terminal reports whether nothing is reachable from state
func (t *Table[T]) Terminal(state T) bool {
	return len(t.Next(state)) == 0
}
