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
	"context"
	"errors"
	"testing"

	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	clienthooksv1 "github.com/mxenabled/docbot/pkg/client/hooks/v1"
	hooksfake "github.com/mxenabled/docbot/pkg/client/hooks/v1/fake"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestHookStore_RefreshAndFindMatching(t *testing.T) {
	a := &hooksv1.DeploymentHook{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns2", Name: "a"},
		Spec: hooksv1.DeploymentHookSpec{
			Selector: hooksv1.DeploymentSelector{Labels: map[string]string{"app": "checkout"}},
		},
	}
	b := &hooksv1.DeploymentHook{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: "b"},
		Spec: hooksv1.DeploymentHookSpec{
			Selector: hooksv1.DeploymentSelector{Labels: map[string]string{"app": "catalog"}},
		},
	}
	c := &hooksv1.DeploymentHook{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: "a"},
		Spec: hooksv1.DeploymentHookSpec{
			Selector: hooksv1.DeploymentSelector{Labels: map[string]string{"app": "checkout"}},
		},
	}
	cs := hooksfake.NewSimpleClientset(a, b, c)

	store := NewHookStore()
	if err := store.Refresh(context.Background(), cs.DeploymentHooks("")); err != nil {
		t.Fatalf("Refresh: %s", err)
	}
	if got := store.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	d := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Labels: map[string]string{"app": "checkout"}},
	}
	matches := store.FindMatching(d)
	if len(matches) != 2 {
		t.Fatalf("FindMatching() returned %d hooks, want 2", len(matches))
	}
	// Ordered by (namespace, name) ascending: ns1/a before ns2/a.
	if matches[0].Namespace != "ns1" || matches[0].Name != "a" {
		t.Errorf("matches[0] = %s/%s, want ns1/a", matches[0].Namespace, matches[0].Name)
	}
	if matches[1].Namespace != "ns2" || matches[1].Name != "a" {
		t.Errorf("matches[1] = %s/%s, want ns2/a", matches[1].Namespace, matches[1].Name)
	}
}

func TestHookStore_RefreshErrorLeavesPriorContents(t *testing.T) {
	cs := hooksfake.NewSimpleClientset(&hooksv1.DeploymentHook{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: "a"},
	})
	store := NewHookStore()
	if err := store.Refresh(context.Background(), cs.DeploymentHooks("")); err != nil {
		t.Fatalf("Refresh: %s", err)
	}

	if err := store.Refresh(context.Background(), failingHookLister{}); err == nil {
		t.Fatal("Refresh returned nil error for a failing List")
	}
	if got := store.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

// failingHookLister is a DeploymentHookInterface whose List always fails.
type failingHookLister struct {
	clienthooksv1.DeploymentHookInterface
}

func (failingHookLister) List(context.Context, metav1.ListOptions) (*hooksv1.DeploymentHookList, error) {
	return nil, errors.New("list failed")
}
