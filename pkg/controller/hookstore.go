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
	"sort"
	"sync"

	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	clienthooksv1 "github.com/mxenabled/docbot/pkg/client/hooks/v1"
	"github.com/pkg/errors"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// hookKey is the (namespace, name) identity of a Hook.
type hookKey struct {
	namespace string
	name      string
}

// HookStore is a coherent in-memory mirror of every DeploymentHook in the
// cluster, keyed by (namespace, name). Refresh performs an atomic
// list-and-replace; FindMatching is read-only and lock-cheap. This is C1.
type HookStore struct {
	mu    sync.RWMutex
	hooks map[hookKey]*hooksv1.DeploymentHook
}

// NewHookStore returns an empty HookStore. Call Refresh before relying on
// FindMatching to return anything.
func NewHookStore() *HookStore {
	return &HookStore{hooks: make(map[hookKey]*hooksv1.DeploymentHook)}
}

// Refresh lists every DeploymentHook visible through client (all namespaces
// for a client scoped to the empty namespace) and atomically replaces the
// store's contents. On a list error, the previous contents are
// left untouched and the error is returned — there is no partial update.
func (s *HookStore) Refresh(ctx context.Context, client clienthooksv1.DeploymentHookInterface) error {
	list, err := client.List(ctx, metav1.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "listing deployment hooks")
	}

	next := make(map[hookKey]*hooksv1.DeploymentHook, len(list.Items))
	for i := range list.Items {
		hook := &list.Items[i]
		next[hookKey{namespace: hook.Namespace, name: hook.Name}] = hook
	}

	s.mu.Lock()
	s.hooks = next
	s.mu.Unlock()
	return nil
}

// FindMatching returns every hook whose selector is satisfied by
// deployment's labels, ordered by (namespace, name) so fanout order is
// deterministic across runs.
func (s *HookStore) FindMatching(deployment *appsv1.Deployment) []*hooksv1.DeploymentHook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*hooksv1.DeploymentHook
	for _, hook := range s.hooks {
		if Matches(hook, deployment) {
			matches = append(matches, hook)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Name < b.Name
	})
	return matches
}

// Len returns the current number of hooks held in the store, for metrics.
func (s *HookStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hooks)
}
