// Copyright 2026 The Docbot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics defines the Prometheus instrumentation the controller
// exposes on /metrics, registered against a caller-owned
// prometheus.Registry the way pkg/operator registers its collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector the controller updates directly; the Go and
// process collectors are registered separately by the caller.
type Metrics struct {
	JobsCreatedTotal       *prometheus.CounterVec
	JobCreationErrorsTotal *prometheus.CounterVec
	HookStoreSize          prometheus.Gauge
	TemplateHashStoreSize  prometheus.Gauge
	PodTemplateCacheSize   prometheus.Gauge
	WatchRestartsTotal     *prometheus.CounterVec
}

// New constructs a Metrics and registers every collector against reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		JobsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docbot_jobs_created_total",
			Help: "Total number of Jobs successfully created by hook fanout.",
		}, []string{"hook_namespace", "hook_name"}),
		JobCreationErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docbot_job_creation_errors_total",
			Help: "Total number of Job creation attempts that failed.",
		}, []string{"hook_namespace", "hook_name"}),
		HookStoreSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docbot_hook_store_size",
			Help: "Current number of DeploymentHooks held by the hook store.",
		}),
		TemplateHashStoreSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docbot_template_hash_store_size",
			Help: "Current number of Deployments fingerprinted by the template hash store.",
		}),
		PodTemplateCacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docbot_pod_template_cache_size",
			Help: "Current occupancy of the pod template LRU cache.",
		}),
		WatchRestartsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docbot_watch_restarts_total",
			Help: "Total number of times a watcher restarted after an error or stream end.",
		}, []string{"watcher"}),
	}

	reg.MustRegister(
		m.JobsCreatedTotal,
		m.JobCreationErrorsTotal,
		m.HookStoreSize,
		m.TemplateHashStoreSize,
		m.PodTemplateCacheSize,
		m.WatchRestartsTotal,
	)
	return m
}
