/**
# Copyright (c) NVIDIA CORPORATION.  All rights reserved.
#
# Licensed under the Apache License, Version 2.0 (the "License");
# you may not use this file except in compliance with the License.
# You may obtain a copy of the License at
#
#     http://www.apache.org/licenses/LICENSE-2.0
#
# Unless required by applicable law or agreed to in writing, software
# distributed under the License is distributed on an "AS IS" BASIS,
# WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
# See the License for the specific language governing permissions and
# limitations under the License.
**/

package metrics

import (
	"context"
	"time"

	promcli "github.com/prometheus/client_golang/prometheus"

	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

// ComponentMetrics is a metrics struct that contains all the metrics of
// component declarations
type ComponentMetrics struct {
	registry *promcli.Registry

	declaredTotal     *promcli.CounterVec
	declareFailed     *promcli.CounterVec
	lastApplyDuration promcli.Gauge
	lastSuccess       promcli.Gauge

	now func() time.Time
}

// New creates ComponentMetrics registered on their own registry
func New() *ComponentMetrics {
	m := &ComponentMetrics{
		registry: promcli.NewRegistry(),
		declaredTotal: promcli.NewCounterVec(
			promcli.CounterOpts{
				Name: "gpu_operator_component_declared_resources_total",
				Help: "Number of child resources declared",
			},
			[]string{"kind"},
		),
		declareFailed: promcli.NewCounterVec(
			promcli.CounterOpts{
				Name: "gpu_operator_component_declare_failures_total",
				Help: "Number of child resource declarations that failed",
			},
			[]string{"kind"},
		),
		lastApplyDuration: promcli.NewGauge(
			promcli.GaugeOpts{
				Name: "gpu_operator_component_last_apply_duration_seconds",
				Help: "Duration (in seconds) of the last child resource declaration",
			},
		),
		lastSuccess: promcli.NewGauge(
			promcli.GaugeOpts{
				Name: "gpu_operator_component_last_success_ts_seconds",
				Help: "Timestamp (in seconds) of the last successful child resource declaration",
			},
		),
		now: time.Now,
	}

	m.registry.MustRegister(
		m.declaredTotal,
		m.declareFailed,
		m.lastApplyDuration,
		m.lastSuccess,
	)

	return m
}

// Registry returns the registry holding the component metrics
func (m *ComponentMetrics) Registry() *promcli.Registry {
	return m.registry
}

// Instrument wraps r so that every declaration is recorded
func (m *ComponentMetrics) Instrument(r component.ResourceRegistrar) component.ResourceRegistrar {
	return component.ResourceRegistrarFunc(func(ctx context.Context, res *component.ChildResource) (component.ResourceHandle, error) {
		start := m.now()
		handle, err := r.DeclareChildResource(ctx, res)
		end := m.now()

		m.lastApplyDuration.Set(end.Sub(start).Seconds())
		if err != nil {
			m.declareFailed.WithLabelValues(res.Kind).Inc()
			return nil, err
		}
		m.declaredTotal.WithLabelValues(res.Kind).Inc()
		m.lastSuccess.Set(float64(end.Unix()))
		return handle, nil
	})
}

// WriteTextfile writes the metrics in the text exposition format to path,
// for collection by the node-exporter textfile collector
func (m *ComponentMetrics) WriteTextfile(path string) error {
	return promcli.WriteToTextfile(path, m.registry)
}
