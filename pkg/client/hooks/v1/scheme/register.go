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

// Package scheme carries the runtime.Scheme and negotiated-serializer codecs
// the hooks clientset uses to marshal/unmarshal DeploymentHook objects over
// the REST client, mirroring the scheme subpackage client-gen emits for any
// generated clientset.
package scheme

import (
	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
)

// Scheme is the runtime.Scheme to which the hooks clientset is scoped.
var Scheme = runtime.NewScheme()

// Codecs provides access to encoding and decoding for the scheme.
var Codecs = serializer.NewCodecFactory(Scheme)

// ParameterCodec handles versioning of objects used in REST list/get/watch
// query parameters.
var ParameterCodec = runtime.NewParameterCodec(Scheme)

var localSchemeBuilder = runtime.SchemeBuilder{
	hooksv1.AddToScheme,
}

// AddToScheme adds the hooks v1 types to an existing scheme.
var AddToScheme = localSchemeBuilder.AddToScheme

func init() {
	utilruntime.Must(AddToScheme(Scheme))
}
