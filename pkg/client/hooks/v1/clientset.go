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

// Package v1 is a hand-written stand-in for the typed clientset client-gen
// would produce for the DeploymentHook custom resource. It is kept in the
// exact shape client-gen emits (Getter interface, REST-backed struct,
// scheme-driven codecs) so that swapping in real generated code later is a
// drop-in replacement.
package v1

import (
	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	"github.com/mxenabled/docbot/pkg/client/hooks/v1/scheme"
	"k8s.io/client-go/rest"
)

// HooksV1Interface has a method to return a DeploymentHooksGetter.
type HooksV1Interface interface {
	DeploymentHooksGetter
}

// HooksV1Client is used to interact with the apps.mx.com/v1 API group.
type HooksV1Client struct {
	restClient rest.Interface
}

var _ HooksV1Interface = (*HooksV1Client)(nil)

// DeploymentHooks returns a DeploymentHookInterface scoped to namespace. An
// empty namespace addresses every namespace (cluster-wide list/watch), as
// required by C1's Refresh (§4.1 of the spec).
func (c *HooksV1Client) DeploymentHooks(namespace string) DeploymentHookInterface {
	return newDeploymentHooks(c, namespace)
}

// NewForConfig creates a new HooksV1Client for the given config.
func NewForConfig(c *rest.Config) (*HooksV1Client, error) {
	config := *c
	if err := setConfigDefaults(&config); err != nil {
		return nil, err
	}
	client, err := rest.RESTClientFor(&config)
	if err != nil {
		return nil, err
	}
	return &HooksV1Client{restClient: client}, nil
}

// NewForConfigOrDie creates a new HooksV1Client for the given config and
// panics on error, mirroring the convention generated clientsets use.
func NewForConfigOrDie(c *rest.Config) *HooksV1Client {
	client, err := NewForConfig(c)
	if err != nil {
		panic(err)
	}
	return client
}

// RESTClient returns the underlying REST client used to access resources in
// this group.
func (c *HooksV1Client) RESTClient() rest.Interface {
	if c == nil {
		return nil
	}
	return c.restClient
}

func setConfigDefaults(config *rest.Config) error {
	gv := hooksv1.SchemeGroupVersion
	config.GroupVersion = &gv
	config.APIPath = "/apis"
	config.NegotiatedSerializer = scheme.Codecs.WithoutConversion()

	if config.UserAgent == "" {
		config.UserAgent = rest.DefaultKubernetesUserAgent()
	}
	return nil
}
