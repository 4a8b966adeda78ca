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

	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

func basicHook(name string) *hooksv1.DeploymentHook {
	return &hooksv1.DeploymentHook{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: name, UID: types.UID("hook-uid-1")},
		Spec: hooksv1.DeploymentHookSpec{
			Template: hooksv1.PodTemplateSource{},
		},
	}
}

func basicPodTemplate() *corev1.PodTemplate {
	return &corev1.PodTemplate{
		ObjectMeta: metav1.ObjectMeta{
			Namespace: "ns1",
			Name:      "migrate",
			Labels:    map[string]string{"team": "payments"},
		},
		Template: corev1.PodTemplateSpec{
			ObjectMeta: metav1.ObjectMeta{
				Annotations: map[string]string{
					"kubectl.kubernetes.io/last-applied-configuration": `{"ignored":"value"}`,
					"keep-me": "yes",
				},
			},
			Spec: corev1.PodSpec{
				Containers:    []corev1.Container{{Name: "migrate", Image: "example/migrate:v1"}},
				RestartPolicy: corev1.RestartPolicyAlways,
			},
		},
	}
}

func TestBuildJob_Determinism(t *testing.T) {
	hook := basicHook("run-migrations")
	pt := basicPodTemplate()

	j1, err := BuildJob(hook, pt)
	if err != nil {
		t.Fatalf("BuildJob: %s", err)
	}
	j2, err := BuildJob(hook, pt)
	if err != nil {
		t.Fatalf("BuildJob: %s", err)
	}
	// GenerateName is deterministic by construction; compare the full
	// objects directly since nothing server-assigned is involved yet.
	if diff := cmp.Diff(j1, j2); diff != "" {
		t.Errorf("BuildJob is not deterministic: %s", diff)
	}
}

func TestBuildJob_Fields(t *testing.T) {
	hook := basicHook("run-migrations")
	pt := basicPodTemplate()

	job, err := BuildJob(hook, pt)
	if err != nil {
		t.Fatalf("BuildJob: %s", err)
	}

	if want := "docbot-hook-run-migrations-"; job.GenerateName != want {
		t.Errorf("GenerateName = %q, want %q", job.GenerateName, want)
	}
	if job.Name != "" {
		t.Errorf("Name should be empty, got %q", job.Name)
	}
	if job.Namespace != "ns1" {
		t.Errorf("Namespace = %q, want ns1", job.Namespace)
	}
	if job.Labels["team"] != "payments" {
		t.Errorf("Labels not copied from pod template: %+v", job.Labels)
	}
	if _, ok := job.Annotations["kubectl.kubernetes.io/last-applied-configuration"]; ok {
		t.Error("last-applied-configuration annotation leaked into job")
	}
	if job.Annotations["keep-me"] != "yes" {
		t.Errorf("other annotations should be preserved: %+v", job.Annotations)
	}
	if len(job.OwnerReferences) != 1 {
		t.Fatalf("OwnerReferences = %d entries, want 1", len(job.OwnerReferences))
	}
	ref := job.OwnerReferences[0]
	if ref.Kind != "DeploymentHook" || ref.APIVersion != "apps.mx.com/v1" || ref.Name != "run-migrations" || ref.UID != "hook-uid-1" {
		t.Errorf("owner reference = %+v", ref)
	}
	if ref.Controller == nil || !*ref.Controller {
		t.Error("owner reference must set controller=true")
	}
	if job.Spec.BackoffLimit == nil || *job.Spec.BackoffLimit != 1 {
		t.Errorf("BackoffLimit = %v, want 1", job.Spec.BackoffLimit)
	}
	if job.Spec.TTLSecondsAfterFinished == nil || *job.Spec.TTLSecondsAfterFinished != hooksv1.DefaultTTLSecondsAfterFinished {
		t.Errorf("TTLSecondsAfterFinished = %v, want %d", job.Spec.TTLSecondsAfterFinished, hooksv1.DefaultTTLSecondsAfterFinished)
	}
	if job.Spec.Template.Spec.RestartPolicy != corev1.RestartPolicyNever {
		t.Errorf("RestartPolicy = %q, want Never", job.Spec.Template.Spec.RestartPolicy)
	}
}

func TestBuildJob_RestartPolicyCoercion(t *testing.T) {
	cases := []struct {
		in   corev1.RestartPolicy
		want corev1.RestartPolicy
	}{
		{in: corev1.RestartPolicyAlways, want: corev1.RestartPolicyNever},
		{in: corev1.RestartPolicyNever, want: corev1.RestartPolicyNever},
		{in: "", want: corev1.RestartPolicyNever},
		{in: corev1.RestartPolicyOnFailure, want: corev1.RestartPolicyOnFailure},
	}
	for _, c := range cases {
		t.Run(string(c.in)+"->"+string(c.want), func(t *testing.T) {
			pt := basicPodTemplate()
			pt.Template.Spec.RestartPolicy = c.in

			job, err := BuildJob(basicHook("h"), pt)
			if err != nil {
				t.Fatalf("BuildJob: %s", err)
			}
			if got := job.Spec.Template.Spec.RestartPolicy; got != c.want {
				t.Errorf("RestartPolicy = %q, want %q", got, c.want)
			}
		})
	}
}

func TestBuildJob_CustomTTL(t *testing.T) {
	hook := basicHook("h")
	ttl := int32(600)
	hook.Spec.Template.TTLSecondsAfterFinished = &ttl

	job, err := BuildJob(hook, basicPodTemplate())
	if err != nil {
		t.Fatalf("BuildJob: %s", err)
	}
	if got := *job.Spec.TTLSecondsAfterFinished; got != 600 {
		t.Errorf("TTLSecondsAfterFinished = %d, want 600", got)
	}
}

func TestBuildJob_NoHookNameFails(t *testing.T) {
	hook := basicHook("")
	if _, err := BuildJob(hook, basicPodTemplate()); err == nil {
		t.Error("expected an error for a hook with no name")
	}
}
