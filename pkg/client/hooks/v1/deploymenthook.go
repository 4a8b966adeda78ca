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
	"context"
	"time"

	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	"github.com/mxenabled/docbot/pkg/client/hooks/v1/scheme"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/rest"
)

// DeploymentHooksGetter has a method to return a DeploymentHookInterface.
// A group's client should implement this interface.
type DeploymentHooksGetter interface {
	DeploymentHooks(namespace string) DeploymentHookInterface
}

// DeploymentHookInterface has methods to work with DeploymentHook resources.
type DeploymentHookInterface interface {
	Get(ctx context.Context, name string, opts metav1.GetOptions) (*hooksv1.DeploymentHook, error)
	List(ctx context.Context, opts metav1.ListOptions) (*hooksv1.DeploymentHookList, error)
	Watch(ctx context.Context, opts metav1.ListOptions) (watch.Interface, error)
}

// deploymentHooks implements DeploymentHookInterface.
type deploymentHooks struct {
	client rest.Interface
	ns     string
}

// newDeploymentHooks returns a DeploymentHookInterface scoped to ns. An empty
// ns addresses the cluster-scoped list/watch endpoint, matching how
// client-go's typed clients treat the all-namespaces case.
func newDeploymentHooks(c *HooksV1Client, ns string) *deploymentHooks {
	return &deploymentHooks{
		client: c.RESTClient(),
		ns:     ns,
	}
}

// Get takes the name of the DeploymentHook and returns the corresponding
// object, and an error if there is any.
func (c *deploymentHooks) Get(ctx context.Context, name string, opts metav1.GetOptions) (result *hooksv1.DeploymentHook, err error) {
	result = &hooksv1.DeploymentHook{}
	err = c.client.Get().
		Namespace(c.ns).
		Resource(hooksv1.Plural).
		Name(name).
		VersionedParams(&opts, scheme.ParameterCodec).
		Do(ctx).
		Into(result)
	return
}

// List takes label and field selectors, and returns the list of
// DeploymentHooks that match those selectors.
func (c *deploymentHooks) List(ctx context.Context, opts metav1.ListOptions) (result *hooksv1.DeploymentHookList, err error) {
	var timeout time.Duration
	if opts.TimeoutSeconds != nil {
		timeout = time.Duration(*opts.TimeoutSeconds) * time.Second
	}
	result = &hooksv1.DeploymentHookList{}
	err = c.client.Get().
		Namespace(c.ns).
		Resource(hooksv1.Plural).
		VersionedParams(&opts, scheme.ParameterCodec).
		Timeout(timeout).
		Do(ctx).
		Into(result)
	return
}

// Watch returns a watch.Interface that watches the requested DeploymentHooks.
func (c *deploymentHooks) Watch(ctx context.Context, opts metav1.ListOptions) (watch.Interface, error) {
	var timeout time.Duration
	if opts.TimeoutSeconds != nil {
		timeout = time.Duration(*opts.TimeoutSeconds) * time.Second
	}
	opts.Watch = true
	return c.client.Get().
		Namespace(c.ns).
		Resource(hooksv1.Plural).
		VersionedParams(&opts, scheme.ParameterCodec).
		Timeout(timeout).
		Watch(ctx)
}
