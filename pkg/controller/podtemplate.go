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
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"
	watchtools "k8s.io/client-go/tools/watch"
)

// podTemplateCacheSize is the LRU's capacity: enough to hold every
// PodTemplate referenced by a realistically-sized hook fleet without
// unbounded growth.
const podTemplateCacheSize = 1024

// fanoutBuffer is the per-subscriber channel depth in the change-notification
// fan-out. A slow or absent subscriber drops notifications past this depth
// rather than blocking the watcher.
const fanoutBuffer = 100

// PodTemplateResolver resolves named PodTemplate references to their pod
// template, backed by an LRU cache, and exposes a best-effort
// change-notification fan-out so callers can debounce against a stale
// informer cache. This is C3.
type PodTemplateResolver struct {
	client    kubernetes.Interface
	logger    log.Logger
	namespace string

	cache *lru.Cache[hookKey, *corev1.PodTemplate]

	fanoutMu sync.Mutex
	fanout   map[int]chan string
	nextSub  int
}

// NewPodTemplateResolver returns a PodTemplateResolver backed by client.
// namespace restricts WatchChanges to a single namespace; an empty string
// watches cluster-wide.
func NewPodTemplateResolver(client kubernetes.Interface, logger log.Logger, namespace string) *PodTemplateResolver {
	cache, err := lru.New[hookKey, *corev1.PodTemplate](podTemplateCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// podTemplateCacheSize never is.
		panic(err)
	}
	return &PodTemplateResolver{
		client:    client,
		logger:    logger,
		namespace: namespace,
		cache:     cache,
		fanout:    make(map[int]chan string),
	}
}

// Get returns the PodTemplate named (namespace, name), consulting the LRU
// cache first and falling back to the API on a miss. A cluster-side
// NotFound is returned unwrapped so callers can type-assert on it with
// apierrors.IsNotFound; any other failure is wrapped for context.
func (r *PodTemplateResolver) Get(ctx context.Context, namespace, name string) (*corev1.PodTemplate, error) {
	key := hookKey{namespace: namespace, name: name}
	if pt, ok := r.cache.Get(key); ok {
		return pt, nil
	}

	pt, err := r.client.CoreV1().PodTemplates(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "fetching pod template %s/%s", namespace, name)
	}

	r.cache.Add(key, pt)
	return pt, nil
}

// Push inserts or refreshes podTemplate's entry, keyed by its own namespace
// and name. The watcher calls this to warm the cache from Added/Modified
// events so a later Get need not round-trip to the API.
func (r *PodTemplateResolver) Push(podTemplate *corev1.PodTemplate) {
	key := hookKey{namespace: podTemplate.Namespace, name: podTemplate.Name}
	r.cache.Add(key, podTemplate)
}

// WatchChanges runs until ctx is cancelled. It lists PodTemplates to obtain
// a resource version, then watches every PodTemplate Added/Modified event
// from it (in the resolver's namespace; cluster-wide when that is empty),
// warming the cache via Push and broadcasting a "namespace/name"
// notification to every subscriber registered through AwaitChange. It never
// returns an error for a dropped notification — only when the list or watch
// cannot be established or the watch stream closes, which the caller is
// expected to retry.
func (r *PodTemplateResolver) WatchChanges(ctx context.Context) error {
	podTemplates := r.client.CoreV1().PodTemplates(r.namespace)

	list, err := podTemplates.List(ctx, metav1.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "listing pod templates to start watch")
	}

	w, err := watchtools.NewRetryWatcher(list.ResourceVersion, &cache.ListWatch{
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			return podTemplates.Watch(ctx, options)
		},
	})
	if err != nil {
		return errors.Wrap(err, "watching pod templates")
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.ResultChan():
			if !ok {
				return errors.New("pod template watch channel closed")
			}
			r.handleEvent(event)
		}
	}
}

func (r *PodTemplateResolver) handleEvent(event watch.Event) {
	switch event.Type {
	case watch.Added, watch.Modified:
		pt, ok := event.Object.(*corev1.PodTemplate)
		if !ok {
			return
		}
		r.Push(pt)
		r.broadcast(pt.Namespace + "/" + pt.Name)
	case watch.Error:
		level.Warn(r.logger).Log("msg", "pod template watch error event", "object", event.Object)
	}
}

// AwaitChange subscribes to the change fan-out and blocks until a
// notification equal to key arrives, timeout elapses, or ctx is cancelled.
// It reports whether a matching notification was observed.
func (r *PodTemplateResolver) AwaitChange(ctx context.Context, key string, timeout time.Duration) bool {
	ch, id := r.subscribe()
	defer r.unsubscribe(id)

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case notified := <-ch:
			if notified == key {
				return true
			}
		}
	}
}

func (r *PodTemplateResolver) subscribe() (chan string, int) {
	r.fanoutMu.Lock()
	defer r.fanoutMu.Unlock()
	id := r.nextSub
	r.nextSub++
	ch := make(chan string, fanoutBuffer)
	r.fanout[id] = ch
	return ch, id
}

func (r *PodTemplateResolver) unsubscribe(id int) {
	r.fanoutMu.Lock()
	defer r.fanoutMu.Unlock()
	delete(r.fanout, id)
}

// broadcast emits key to every current subscriber, dropping (and logging)
// sends that would block, and logging a notification that has no
// subscriber at all. Go has no native multi-consumer broadcast channel, so
// this table of bounded per-subscriber channels is the emulation.
func (r *PodTemplateResolver) broadcast(key string) {
	r.fanoutMu.Lock()
	defer r.fanoutMu.Unlock()
	if len(r.fanout) == 0 {
		level.Warn(r.logger).Log("msg", "dropped pod template change notification, no subscribers", "key", key)
		return
	}
	for id, ch := range r.fanout {
		select {
		case ch <- key:
		default:
			level.Warn(r.logger).Log("msg", "dropped pod template change notification", "subscriber", id, "key", key)
		}
	}
}

// Len returns the number of entries currently held in the LRU cache, for
// metrics.
func (r *PodTemplateResolver) Len() int {
	return r.cache.Len()
}
