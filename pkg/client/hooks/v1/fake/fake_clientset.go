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

// Package fake provides an in-memory stand-in for HooksV1Interface, used by
// controller tests that need to drive List/Watch/Get without a real API
// server. It plays the same role the client-gen fake clientset would, scaled
// down to the handful of calls the controller actually makes.
package fake

import (
	"context"
	"sync"

	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	clienthooksv1 "github.com/mxenabled/docbot/pkg/client/hooks/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/watch"
)

// Clientset is a fake implementation of clienthooksv1.HooksV1Interface.
type Clientset struct {
	mu    sync.Mutex
	hooks map[string]*hooksv1.DeploymentHook // keyed by namespace/name
	watch *watch.FakeWatcher
}

var _ clienthooksv1.HooksV1Interface = (*Clientset)(nil)

// NewSimpleClientset returns a Clientset preloaded with the given hooks.
func NewSimpleClientset(hooks ...*hooksv1.DeploymentHook) *Clientset {
	cs := &Clientset{
		hooks: make(map[string]*hooksv1.DeploymentHook),
		watch: watch.NewFake(),
	}
	for _, h := range hooks {
		cs.hooks[h.Namespace+"/"+h.Name] = h.DeepCopy()
	}
	return cs
}

// DeploymentHooks implements clienthooksv1.HooksV1Interface.
func (c *Clientset) DeploymentHooks(namespace string) clienthooksv1.DeploymentHookInterface {
	return &fakeDeploymentHooks{cs: c, namespace: namespace}
}

// Watcher exposes the fake's underlying watch.FakeWatcher so tests can push
// synthetic Added/Modified/Deleted events.
func (c *Clientset) Watcher() *watch.FakeWatcher {
	return c.watch
}

// Add inserts or replaces a hook, as test setup (not an API call).
func (c *Clientset) Add(h *hooksv1.DeploymentHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks[h.Namespace+"/"+h.Name] = h.DeepCopy()
}

type fakeDeploymentHooks struct {
	cs        *Clientset
	namespace string
}

func (f *fakeDeploymentHooks) Get(_ context.Context, name string, _ metav1.GetOptions) (*hooksv1.DeploymentHook, error) {
	f.cs.mu.Lock()
	defer f.cs.mu.Unlock()
	h, ok := f.cs.hooks[f.namespace+"/"+name]
	if !ok {
		return nil, apierrors.NewNotFound(schema.GroupResource{Group: hooksv1.GroupName, Resource: hooksv1.Plural}, name)
	}
	return h.DeepCopy(), nil
}

func (f *fakeDeploymentHooks) List(_ context.Context, _ metav1.ListOptions) (*hooksv1.DeploymentHookList, error) {
	f.cs.mu.Lock()
	defer f.cs.mu.Unlock()
	list := &hooksv1.DeploymentHookList{
		ListMeta: metav1.ListMeta{ResourceVersion: "1"},
	}
	for _, h := range f.cs.hooks {
		if f.namespace == "" || h.Namespace == f.namespace {
			list.Items = append(list.Items, *h.DeepCopy())
		}
	}
	return list, nil
}

func (f *fakeDeploymentHooks) Watch(_ context.Context, _ metav1.ListOptions) (watch.Interface, error) {
	return f.cs.watch, nil
}
