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

package controller

import (
	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	appsv1 "k8s.io/api/apps/v1"
)

// Matches reports whether hook's selector is satisfied by deployment's
// labels: every (key, value) pair in the selector must be present, with an
// equal value, in the Deployment's labels.
//
// An empty Deployment label set never matches, even against an empty
// selector. An empty selector is vacuously satisfied by any non-empty label
// set, so such a hook fires for every Deployment the controller watches.
func Matches(hook *hooksv1.DeploymentHook, deployment *appsv1.Deployment) bool {
	labels := deployment.Labels
	if len(labels) == 0 {
		return false
	}
	for k, v := range hook.Spec.Selector.Labels {
		if got, ok := labels[k]; !ok || got != v {
			return false
		}
	}
	return true
}
