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

import appsv1 "k8s.io/api/apps/v1"

// IsComplete reports whether a Deployment has finished rolling out: its
// desired, observed, and ready replica counts all agree. spec.replicas is
// the only one of the three that the API represents as optional (nil before
// defaulting); an unset spec.replicas means the rollout hasn't been
// observed yet, so it's treated as not converged rather than guessed at.
//
// Scale-to-zero (all three equal to 0) intentionally reports true; the
// template-hash gate in the store (§4.2) is what keeps that from causing
// repeat fanout.
func IsComplete(d *appsv1.Deployment) bool {
	if d.Spec.Replicas == nil {
		return false
	}
	desired := *d.Spec.Replicas
	return d.Status.Replicas == desired && d.Status.ReadyReplicas == desired
}
