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
	"testing"

	appsv1 "k8s.io/api/apps/v1"
)

func int32ptr(v int32) *int32 { return &v }

func TestIsComplete(t *testing.T) {
	cases := []struct {
		doc      string
		spec     *int32
		replicas int32
		ready    int32
		want     bool
	}{
		{doc: "nil spec.replicas always false", spec: nil, replicas: 3, ready: 3, want: false},
		{doc: "fully converged", spec: int32ptr(3), replicas: 3, ready: 3, want: true},
		{doc: "ready lags replicas", spec: int32ptr(3), replicas: 3, ready: 2, want: false},
		{doc: "replicas lags spec", spec: int32ptr(3), replicas: 2, ready: 2, want: false},
		{doc: "scale to zero converges", spec: int32ptr(0), replicas: 0, ready: 0, want: true},
	}
	for _, c := range cases {
		t.Run(c.doc, func(t *testing.T) {
			d := &appsv1.Deployment{
				Spec:   appsv1.DeploymentSpec{Replicas: c.spec},
				Status: appsv1.DeploymentStatus{Replicas: c.replicas, ReadyReplicas: c.ready},
			}
			if got := IsComplete(d); got != c.want {
				t.Errorf("IsComplete() = %v, want %v", got, c.want)
			}
		})
	}
}
