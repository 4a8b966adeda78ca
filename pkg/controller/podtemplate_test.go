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
	"fmt"
	"testing"
	"time"

	"github.com/go-kit/log"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestPodTemplateResolver_GetCachesAfterAPIFetch(t *testing.T) {
	pt := &corev1.PodTemplate{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: "migrate"},
	}
	client := fake.NewSimpleClientset(pt)
	resolver := NewPodTemplateResolver(client, log.NewNopLogger(), "")

	got, err := resolver.Get(context.Background(), "ns1", "migrate")
	if err != nil {
		t.Fatalf("Get: %s", err)
	}
	if got.Name != "migrate" {
		t.Errorf("Get() returned %+v", got)
	}
	if resolver.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after the first miss-then-fetch", resolver.Len())
	}
}

func TestPodTemplateResolver_PushWarmsCacheWithoutAPICall(t *testing.T) {
	client := fake.NewSimpleClientset()
	resolver := NewPodTemplateResolver(client, log.NewNopLogger(), "")

	resolver.Push(&corev1.PodTemplate{ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: "migrate"}})

	got, err := resolver.Get(context.Background(), "ns1", "migrate")
	if err != nil {
		t.Fatalf("Get should hit the warmed cache, not the empty fake API: %s", err)
	}
	if got.Name != "migrate" {
		t.Errorf("Get() returned %+v", got)
	}
}

func TestPodTemplateResolver_LRUEviction(t *testing.T) {
	client := fake.NewSimpleClientset()
	resolver := NewPodTemplateResolver(client, log.NewNopLogger(), "")

	for i := 0; i < podTemplateCacheSize+1; i++ {
		resolver.Push(&corev1.PodTemplate{
			ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: fmt.Sprintf("pt-%d", i)},
		})
	}
	if got := resolver.Len(); got != podTemplateCacheSize {
		t.Fatalf("Len() = %d, want %d after inserting one past capacity", got, podTemplateCacheSize)
	}

	// pt-0 was the least recently used and should have been evicted,
	// forcing a miss against the empty fake API (which has no such object).
	if _, err := resolver.Get(context.Background(), "ns1", "pt-0"); err == nil {
		t.Error("expected a cache miss on the evicted key to surface a NotFound from the API")
	}
}

func TestPodTemplateResolver_BroadcastBestEffort(t *testing.T) {
	client := fake.NewSimpleClientset()
	resolver := NewPodTemplateResolver(client, log.NewNopLogger(), "")

	// Broadcasting with zero subscribers must not block or panic.
	resolver.broadcast("ns1/migrate")

	// A subscriber whose buffer is already full must be skipped, not
	// blocked on.
	ch, id := resolver.subscribe()
	for i := 0; i < fanoutBuffer; i++ {
		ch <- "filler"
	}
	done := make(chan struct{})
	go func() {
		resolver.broadcast("ns1/migrate")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full subscriber buffer")
	}
	resolver.unsubscribe(id)
}

func TestPodTemplateResolver_AwaitChange(t *testing.T) {
	client := fake.NewSimpleClientset()
	resolver := NewPodTemplateResolver(client, log.NewNopLogger(), "")

	go func() {
		time.Sleep(10 * time.Millisecond)
		resolver.broadcast("ns1/migrate")
	}()

	ctx := context.Background()
	if !resolver.AwaitChange(ctx, "ns1/migrate", time.Second) {
		t.Error("expected AwaitChange to observe the broadcast notification")
	}
}

func TestPodTemplateResolver_AwaitChangeTimesOut(t *testing.T) {
	client := fake.NewSimpleClientset()
	resolver := NewPodTemplateResolver(client, log.NewNopLogger(), "")

	ctx := context.Background()
	if resolver.AwaitChange(ctx, "ns1/never-comes", 20*time.Millisecond) {
		t.Error("expected AwaitChange to time out with no matching notification")
	}
}
