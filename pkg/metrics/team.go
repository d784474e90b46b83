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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "teamhub"

// TeamMetrics 团队与邀请相关的业务指标
type TeamMetrics struct {
	TeamsTotal            *prometheus.CounterVec
	MembershipChanges     *prometheus.CounterVec
	InvitationTransitions *prometheus.CounterVec
}

// NewTeamMetrics creates the collectors; call Register to expose them.
func NewTeamMetrics() *TeamMetrics {
	return &TeamMetrics{
		TeamsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teams_total",
			Help:      "Number of team lifecycle operations by operation.",
		}, []string{"operation"}),
		MembershipChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_changes_total",
			Help:      "Number of membership changes by kind.",
		}, []string{"kind"}),
		InvitationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitation_transitions_total",
			Help:      "Number of invitation state changes by target state.",
		}, []string{"status"}),
	}
}

// Register adds the team collectors to the registry
func (m *TeamMetrics) Register(r *Registry) error {
	for _, c := range []prometheus.Collector{m.TeamsTotal, m.MembershipChanges, m.InvitationTransitions} {
		if err := r.RegisterCollector(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *TeamMetrics) TeamOp(operation string) {
	if m == nil {
		return
	}
	m.TeamsTotal.WithLabelValues(operation).Inc()
}

func (m *TeamMetrics) Membership(kind string) {
	if m == nil {
		return
	}
	m.MembershipChanges.WithLabelValues(kind).Inc()
}

func (m *TeamMetrics) Invitation(status string) {
	if m == nil {
		return
	}
	m.InvitationTransitions.WithLabelValues(status).Inc()
}
