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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// CacheOp is the result of observing a Deployment's pod template against the
// TemplateHashStore.
type CacheOp int

const (
	// Changed means the Deployment's pod template fingerprint differs from
	// what was last observed, or nothing was observed before.
	Changed CacheOp = iota
	// Unchanged means the fingerprint exactly matches the prior observation.
	Unchanged
)

// Fingerprint returns the uppercase hex SHA-256 digest of spec's canonical
// JSON encoding. encoding/json always marshals struct fields in declaration
// order and map keys in sorted order, so two equal PodSpecs always produce
// identical bytes regardless of how the caller assembled them.
func Fingerprint(spec *corev1.PodSpec) string {
	// PodSpec contains no channels, funcs, or cyclic pointers, so Marshal
	// never fails here.
	b, _ := json.Marshal(spec)
	sum := sha256.Sum256(b)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// TemplateHashStore fingerprints each Deployment's pod template and reports
// whether it changed since the last observation. This is C2, the sole
// de-duplication gate against scale events and spurious rollouts.
type TemplateHashStore struct {
	mu   sync.Mutex
	hash map[hookKey]string
}

// NewTemplateHashStore returns an empty TemplateHashStore.
func NewTemplateHashStore() *TemplateHashStore {
	return &TemplateHashStore{hash: make(map[hookKey]string)}
}

// PrimeFrom seeds the store from a full Deployment listing without emitting
// any change signal; this runs once at startup so a fleet of
// already-converged Deployments doesn't trigger a fanout storm.
func (s *TemplateHashStore) PrimeFrom(deployments []appsv1.Deployment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range deployments {
		d := &deployments[i]
		key := hookKey{namespace: d.Namespace, name: d.Name}
		s.hash[key] = Fingerprint(&d.Spec.Template.Spec)
	}
}

// Observe computes deployment's current fingerprint, compares it to the
// prior value at (namespace, name), stores the new value, and reports
// whether it changed. A previously unknown key is always Changed — first
// observation always triggers fanout.
func (s *TemplateHashStore) Observe(deployment *appsv1.Deployment) CacheOp {
	key := hookKey{namespace: deployment.Namespace, name: deployment.Name}
	next := Fingerprint(&deployment.Spec.Template.Spec)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.hash[key]
	s.hash[key] = next

	if existed && prev == next {
		return Unchanged
	}
	return Changed
}

// Len returns the number of Deployments currently fingerprinted, for
// metrics.
func (s *TemplateHashStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hash)
}
