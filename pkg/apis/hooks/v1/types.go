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

package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DefaultTTLSecondsAfterFinished is used for any Hook that does not set
// spec.template.ttlSecondsAfterFinished explicitly: 72 hours.
const DefaultTTLSecondsAfterFinished int32 = 259200

// DeploymentHookLabel is the label key that gates which Deployments the
// controller watches at all. Its value is never inspected, only its presence.
const DeploymentHookLabel = "apps.mx.com/deploymenthook"

// DeploymentHook binds a label selector over Deployments to a pod template
// that is run as a Job once a matching Deployment finishes rolling out a new
// revision.
//
// +genclient
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type DeploymentHook struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec DeploymentHookSpec `json:"spec"`
}

// DeploymentHookList is a list of DeploymentHooks.
//
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type DeploymentHookList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []DeploymentHook `json:"items"`
}

// DeploymentHookSpec is the user-authored body of a DeploymentHook.
type DeploymentHookSpec struct {
	// Selector gates which Deployments this hook reacts to.
	Selector DeploymentSelector `json:"selector"`
	// Template describes the pod to run as a Job, either embedded or by
	// reference to a cluster PodTemplate.
	Template PodTemplateSource `json:"template"`
}

// DeploymentSelector is a required-label-equality selector. A Deployment
// matches iff every entry here is present in the Deployment's labels with an
// equal value. An empty Labels map matches every watched Deployment.
type DeploymentSelector struct {
	Labels map[string]string `json:"labels"`
}

// PodTemplateSource is exactly one of an embedded pod template spec or a
// reference by name to a cluster-resident PodTemplate in the hook's
// namespace. Exactly one of Name/Spec must be set; this is validated at
// fanout time rather than admission time (§4.1, §7 of the spec).
type PodTemplateSource struct {
	// Name references a PodTemplate resource in the hook's namespace.
	// Mutually exclusive with Spec.
	Name string `json:"name,omitempty"`
	// Spec is a pod template embedded directly in the hook. Mutually
	// exclusive with Name.
	Spec *corev1.PodTemplateSpec `json:"spec,omitempty"`
	// TTLSecondsAfterFinished is copied onto the produced Job's spec.
	// Defaults to DefaultTTLSecondsAfterFinished when nil.
	TTLSecondsAfterFinished *int32 `json:"ttlSecondsAfterFinished,omitempty"`
}

// TTLOrDefault returns TTLSecondsAfterFinished if set, else the package
// default.
func (p PodTemplateSource) TTLOrDefault() int32 {
	if p.TTLSecondsAfterFinished != nil {
		return *p.TTLSecondsAfterFinished
	}
	return DefaultTTLSecondsAfterFinished
}

// IsEmbedded reports whether the hook carries its pod template inline rather
// than referencing a PodTemplate by name.
func (p PodTemplateSource) IsEmbedded() bool {
	return p.Spec != nil
}
