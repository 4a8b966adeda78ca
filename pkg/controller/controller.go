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

// Package controller implements the docbot reconciliation pipeline: it
// watches Deployments for completed, genuinely new rollouts, matches them
// against DeploymentHook selectors, resolves the referenced pod template,
// and submits a batch Job for each match.
package controller

import (
	"context"
	"time"

	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	clienthooksv1 "github.com/mxenabled/docbot/pkg/client/hooks/v1"
	"github.com/mxenabled/docbot/pkg/metrics"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"
	watchtools "k8s.io/client-go/tools/watch"
)

// deploymentHookLabel is the label a Deployment must carry (any value) to
// enter the watched set at all.
const deploymentHookLabel = hooksv1.DeploymentHookLabel

// restartDelay is the flat retry interval C8 waits after a watcher ends or
// errors, before re-listing and re-watching. No exponential backoff: the
// API server is assumed responsive.
const restartDelay = 5 * time.Second

// awaitChangeTimeout bounds how long the deployment pipeline waits for a
// change notification on a Named pod template before looking it up through
// the C3 cache, which fetches from the API on a miss.
const awaitChangeTimeout = 3 * time.Second

// Config configures a Controller.
type Config struct {
	// Namespace restricts every watch to a single namespace. Empty means
	// cluster-wide.
	Namespace string
	// ResyncPeriod is the interval at which the hook store is
	// force-refreshed regardless of watch activity, guarding against a
	// missed or coalesced hook event.
	ResyncPeriod time.Duration
}

// Controller owns the three in-memory stores and runs the watchers that
// keep them current and drive job creation.
type Controller struct {
	cfg Config

	kubeClient  kubernetes.Interface
	hooksClient clienthooksv1.HooksV1Interface

	hooks        *HookStore
	hashes       *TemplateHashStore
	podTemplates *PodTemplateResolver

	metrics *metrics.Metrics
	logger  log.Logger
}

// New constructs a Controller. Call Run to prime its stores and start the
// watchers.
func New(kubeClient kubernetes.Interface, hooksClient clienthooksv1.HooksV1Interface, m *metrics.Metrics, logger log.Logger, cfg Config) *Controller {
	return &Controller{
		cfg:          cfg,
		kubeClient:   kubeClient,
		hooksClient:  hooksClient,
		hooks:        NewHookStore(),
		hashes:       NewTemplateHashStore(),
		podTemplates: NewPodTemplateResolver(kubeClient, logger, cfg.Namespace),
		metrics:      m,
		logger:       logger,
	}
}

// Run primes every store from a full listing, then starts every watcher and
// blocks until ctx is cancelled or an unrecoverable error occurs. Priming
// failures are wrapped and returned as fatal: the caller is expected to exit
// the process rather than begin fanout from an empty starting state.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.prime(ctx); err != nil {
		return errors.Wrap(err, "priming controller state")
	}

	var g run.Group
	ctx, cancel := context.WithCancel(ctx)

	g.Add(func() error {
		c.runForcedRefresh(ctx)
		return nil
	}, func(error) { cancel() })

	g.Add(func() error {
		c.runRestarting(ctx, "hooks", c.watchHooksOnce)
		return nil
	}, func(error) { cancel() })

	g.Add(func() error {
		c.runRestarting(ctx, "deployments", c.watchDeploymentsOnce)
		return nil
	}, func(error) { cancel() })

	g.Add(func() error {
		c.runRestarting(ctx, "podtemplates", c.podTemplates.WatchChanges)
		return nil
	}, func(error) { cancel() })

	return g.Run()
}

// prime performs the one-time startup listing described in §4.7: the hook
// store and template-hash store are populated before any watcher starts,
// so controller startup never causes a surge of job creation against
// Deployments that were already converged before the process began.
func (c *Controller) prime(ctx context.Context) error {
	if err := c.hooks.Refresh(ctx, c.hooksClient.DeploymentHooks(c.cfg.Namespace)); err != nil {
		return errors.Wrap(err, "priming hook store")
	}
	c.metrics.HookStoreSize.Set(float64(c.hooks.Len()))

	list, err := c.kubeClient.AppsV1().Deployments(c.cfg.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: deploymentHookLabel,
	})
	if err != nil {
		return errors.Wrap(err, "priming template hash store")
	}
	c.hashes.PrimeFrom(list.Items)
	c.metrics.TemplateHashStoreSize.Set(float64(c.hashes.Len()))

	level.Info(c.logger).Log("msg", "primed controller state", "hooks", c.hooks.Len(), "deployments", len(list.Items))
	return nil
}

// runForcedRefresh re-lists hooks on a fixed timer regardless of watch
// activity, independent of the hook watcher's per-event refresh.
func (c *Controller) runForcedRefresh(ctx context.Context) {
	period := c.cfg.ResyncPeriod
	if period <= 0 {
		period = 60 * time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.hooks.Refresh(ctx, c.hooksClient.DeploymentHooks(c.cfg.Namespace)); err != nil {
				level.Warn(c.logger).Log("msg", "forced hook refresh failed", "err", err)
				continue
			}
			c.metrics.HookStoreSize.Set(float64(c.hooks.Len()))
		}
	}
}

// runRestarting invokes watchOnce in a loop until ctx is cancelled: on
// return (error or clean stream end) it logs, counts a restart, sleeps
// restartDelay, and invokes watchOnce again. This is C8.
func (c *Controller) runRestarting(ctx context.Context, name string, watchOnce func(context.Context) error) {
	for {
		if ctx.Err() != nil {
			return
		}
		err := watchOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		c.metrics.WatchRestartsTotal.WithLabelValues(name).Inc()
		if err != nil {
			level.Warn(c.logger).Log("msg", "watcher ended, restarting", "watcher", name, "err", err)
		} else {
			level.Warn(c.logger).Log("msg", "watcher ended, restarting", "watcher", name)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(restartDelay):
		}
	}
}

// watchHooksOnce establishes a single hooks watch and refreshes the hook
// store on every received event. Refreshing on every event, rather than
// applying the event incrementally, is intentional: the hook set is small
// and correctness is worth more than the extra list calls.
func (c *Controller) watchHooksOnce(ctx context.Context) error {
	hooksClient := c.hooksClient.DeploymentHooks(c.cfg.Namespace)

	list, err := hooksClient.List(ctx, metav1.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "listing hooks to start watch")
	}

	w, err := watchtools.NewRetryWatcher(list.ResourceVersion, &cache.ListWatch{
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			return hooksClient.Watch(ctx, options)
		},
	})
	if err != nil {
		return errors.Wrap(err, "starting hook watch")
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.ResultChan():
			if !ok {
				return errors.New("hook watch channel closed")
			}
			if event.Type == watch.Error {
				level.Warn(c.logger).Log("msg", "hook watch error event", "object", event.Object)
				continue
			}
			if err := c.hooks.Refresh(ctx, hooksClient); err != nil {
				level.Warn(c.logger).Log("msg", "hook refresh on watch event failed", "err", err)
				continue
			}
			c.metrics.HookStoreSize.Set(float64(c.hooks.Len()))
		}
	}
}

// watchDeploymentsOnce establishes a single Deployments watch, restricted
// to Deployments carrying the docbot label, and runs the per-event state
// machine S0-S4 described in §4.7.
func (c *Controller) watchDeploymentsOnce(ctx context.Context) error {
	deployments := c.kubeClient.AppsV1().Deployments(c.cfg.Namespace)
	listOpts := metav1.ListOptions{LabelSelector: deploymentHookLabel}

	list, err := deployments.List(ctx, listOpts)
	if err != nil {
		return errors.Wrap(err, "listing deployments to start watch")
	}

	w, err := watchtools.NewRetryWatcher(list.ResourceVersion, &cache.ListWatch{
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			options.LabelSelector = deploymentHookLabel
			return deployments.Watch(ctx, options)
		},
	})
	if err != nil {
		return errors.Wrap(err, "starting deployment watch")
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.ResultChan():
			if !ok {
				return errors.New("deployment watch channel closed")
			}
			c.handleDeploymentEvent(ctx, event)
		}
	}
}

// handleDeploymentEvent is S0-S4: a single tick of the reconciliation
// state machine for one received Deployment event.
func (c *Controller) handleDeploymentEvent(ctx context.Context, event watch.Event) {
	if event.Type == watch.Error {
		level.Warn(c.logger).Log("msg", "deployment watch error event", "object", event.Object)
		return
	}
	// Deletion and any non-Added/Modified event is ignored: the controller
	// is event-additive only.
	if event.Type != watch.Added && event.Type != watch.Modified {
		return
	}

	deployment, ok := event.Object.(*appsv1.Deployment)
	if !ok {
		return
	}

	if deployment.Namespace == "" || deployment.Name == "" {
		level.Warn(c.logger).Log("msg", "deployment event missing namespace or name, skipping")
		return
	}

	// S1: drop incomplete rollouts.
	if !IsComplete(deployment) {
		return
	}
	// S2: drop unchanged revisions.
	if c.hashes.Observe(deployment) == Unchanged {
		c.metrics.TemplateHashStoreSize.Set(float64(c.hashes.Len()))
		return
	}
	c.metrics.TemplateHashStoreSize.Set(float64(c.hashes.Len()))

	// S3: find matching hooks.
	matches := c.hooks.FindMatching(deployment)

	// S4: build and submit a Job per match.
	for _, hook := range matches {
		c.fireHook(ctx, hook, deployment)
	}
}

// fireHook resolves hook's pod template, builds the Job, and submits it,
// logging and continuing past any failure so one bad hook never blocks its
// siblings.
func (c *Controller) fireHook(ctx context.Context, hook *hooksv1.DeploymentHook, deployment *appsv1.Deployment) {
	logger := log.With(c.logger, "hook_namespace", hook.Namespace, "hook_name", hook.Name, "deployment", deployment.Name)

	podTemplate, err := c.resolvePodTemplate(ctx, hook)
	c.metrics.PodTemplateCacheSize.Set(float64(c.podTemplates.Len()))
	if err != nil {
		level.Error(logger).Log("msg", "could not resolve pod template", "err", err)
		c.metrics.JobCreationErrorsTotal.WithLabelValues(hook.Namespace, hook.Name).Inc()
		return
	}

	job, err := BuildJob(hook, podTemplate)
	if err != nil {
		level.Error(logger).Log("msg", "building job failed", "err", err)
		c.metrics.JobCreationErrorsTotal.WithLabelValues(hook.Namespace, hook.Name).Inc()
		return
	}

	if _, err := c.kubeClient.BatchV1().Jobs(job.Namespace).Create(ctx, job, metav1.CreateOptions{}); err != nil {
		level.Error(logger).Log("msg", "submitting job failed", "err", err)
		c.metrics.JobCreationErrorsTotal.WithLabelValues(hook.Namespace, hook.Name).Inc()
		return
	}

	level.Info(logger).Log("msg", "job created")
	c.metrics.JobsCreatedTotal.WithLabelValues(hook.Namespace, hook.Name).Inc()
}

// resolvePodTemplate returns the pod template hook refers to, either by
// wrapping its embedded spec directly or by fetching a Named reference
// through the pod-template resolver. For a Named reference it briefly
// awaits a change notification first, hedging against the referenced
// PodTemplate's creation lagging behind the Deployment event that
// triggered this fanout.
func (c *Controller) resolvePodTemplate(ctx context.Context, hook *hooksv1.DeploymentHook) (*corev1.PodTemplate, error) {
	source := hook.Spec.Template
	switch {
	case source.IsEmbedded() && source.Name != "":
		return nil, errors.Errorf("hook %s/%s sets both an embedded and a named template", hook.Namespace, hook.Name)

	case source.IsEmbedded():
		return &corev1.PodTemplate{
			ObjectMeta: metav1.ObjectMeta{
				Namespace: hook.Namespace,
			},
			Template: *source.Spec,
		}, nil

	case source.Name != "":
		key := hook.Namespace + "/" + source.Name
		c.podTemplates.AwaitChange(ctx, key, awaitChangeTimeout)

		pt, err := c.podTemplates.Get(ctx, hook.Namespace, source.Name)
		if err != nil {
			if apierrors.IsNotFound(err) {
				return nil, errors.Wrapf(err, "named pod template %s not found", key)
			}
			return nil, errors.Wrapf(err, "fetching named pod template %s", key)
		}
		return pt, nil

	default:
		return nil, errors.Errorf("hook %s/%s has neither embedded nor named template", hook.Namespace, hook.Name)
	}
}
