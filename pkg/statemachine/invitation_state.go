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

package statemachine

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// InvitationStatuses 所有邀请状态，统计时按此顺序补零
var InvitationStatuses = []InvitationStatus{InvitationPending, InvitationAccepted, InvitationRejected}

// Invitations pending 只能流转到 accepted 或 rejected，两者都是终止状态
var Invitations = NewTable[InvitationStatus]().
	Allow(InvitationPending, InvitationAccepted, InvitationRejected)

// Valid 判断是否为已知状态
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationRejected:
		return true
	}
	return false
}

// IsTerminal 判断是否为终止状态
func (s InvitationStatus) IsTerminal() bool {
	return s.Valid() && Invitations.Terminal(s)
}
