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
	"github.com/pkg/errors"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// lastAppliedConfigAnnotation is the kubectl apply bookkeeping annotation
// that must never be copied onto a generated Job: it describes the
// PodTemplate, not the Job, and would be actively misleading there.
const lastAppliedConfigAnnotation = "kubectl.kubernetes.io/last-applied-configuration"

var backoffLimit = int32(1)

// BuildJob assembles the batch Job that fires when hook matches a completed
// Deployment rollout, given the resolved pod template podTemplate
// (embedded in the hook, or fetched via the pod-template resolver). This is
// C6: pure and deterministic so it can be golden-file tested without a
// cluster.
func BuildJob(hook *hooksv1.DeploymentHook, podTemplate *corev1.PodTemplate) (*batchv1.Job, error) {
	if hook.Name == "" {
		return nil, errors.New("cannot build job: hook has no name")
	}

	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: "docbot-hook-" + hook.Name + "-",
			Namespace:    podTemplate.Namespace,
			Labels:       copyStringMap(podTemplate.Labels),
			OwnerReferences: []metav1.OwnerReference{
				ownerReference(hook),
			},
		},
	}

	if annotations := copyStringMap(podTemplate.Template.Annotations); annotations != nil {
		delete(annotations, lastAppliedConfigAnnotation)
		job.Annotations = annotations
	}

	podSpec := *podTemplate.Template.Spec.DeepCopy()
	coerceRestartPolicy(&podSpec)

	job.Spec = batchv1.JobSpec{
		BackoffLimit:            &backoffLimit,
		TTLSecondsAfterFinished: ttlPointer(hook.Spec.Template.TTLOrDefault()),
		Template: corev1.PodTemplateSpec{
			ObjectMeta: *podTemplate.Template.ObjectMeta.DeepCopy(),
			Spec:       podSpec,
		},
	}

	return job, nil
}

// ownerReference builds the owner reference back to hook: controller=true
// so the API server's garbage collector cascades Job deletion, and the
// hook's own UID so the reference survives hook renames.
func ownerReference(hook *hooksv1.DeploymentHook) metav1.OwnerReference {
	isController := true
	return metav1.OwnerReference{
		APIVersion: hooksv1.SchemeGroupVersion.String(),
		Kind:       hooksv1.Kind,
		Name:       hook.Name,
		UID:        hook.UID,
		Controller: &isController,
	}
}

// coerceRestartPolicy enforces the Job requirement that pods never restart
// in place: "Always" (the Deployment-style default) is replaced with
// "Never"; an absent restartPolicy also becomes "Never". Any other explicit
// value (e.g. "OnFailure") is left untouched.
func coerceRestartPolicy(spec *corev1.PodSpec) {
	if spec.RestartPolicy == corev1.RestartPolicyAlways || spec.RestartPolicy == "" {
		spec.RestartPolicy = corev1.RestartPolicyNever
	}
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func ttlPointer(seconds int32) *int32 {
	v := seconds
	return &v
}
