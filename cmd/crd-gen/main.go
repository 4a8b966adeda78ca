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

// Command crd-gen emits the CustomResourceDefinition for DeploymentHook as
// YAML. It is a boundary artifact generator only: nothing at controller
// runtime reads its output back in. Run via `go generate` from the module
// root; see the //go:generate directive in pkg/apis/hooks/v1/doc.go.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	hooksv1 "github.com/mxenabled/docbot/pkg/apis/hooks/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

func main() {
	out := flag.String("out", "crd/deploymenthooks.apps.mx.com.yaml", "output path for the generated CRD YAML")
	flag.Parse()

	crd := buildCRD()

	b, err := yaml.Marshal(crd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshaling CRD failed: %s\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, b, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing CRD to %s failed: %s\n", *out, err)
		os.Exit(1)
	}
}

// buildCRD hand-constructs the CustomResourceDefinition for DeploymentHook,
// mirroring the fields declared on hooksv1.DeploymentHookSpec. There is no
// code-generation tool run as part of this exercise, so the schema is kept
// in sync with pkg/apis/hooks/v1/types.go by hand.
func buildCRD() *apiextensionsv1.CustomResourceDefinition {
	preserveUnknownFields := false

	podTemplateSpecSchema := apiextensionsv1.JSONSchemaProps{
		Type:                   "object",
		XPreserveUnknownFields: boolPtr(true),
	}

	schema := &apiextensionsv1.JSONSchemaProps{
		Type: "object",
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"spec": {
				Type:     "object",
				Required: []string{"selector", "template"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"selector": {
						Type:     "object",
						Required: []string{"labels"},
						Properties: map[string]apiextensionsv1.JSONSchemaProps{
							"labels": {
								Type: "object",
								AdditionalProperties: &apiextensionsv1.JSONSchemaPropsOrBool{
									Schema: &apiextensionsv1.JSONSchemaProps{Type: "string"},
								},
							},
						},
					},
					"template": {
						Type: "object",
						Properties: map[string]apiextensionsv1.JSONSchemaProps{
							"name": {Type: "string"},
							"spec": podTemplateSpecSchema,
							"ttlSecondsAfterFinished": {
								Type:    "integer",
								Format:  "int32",
								Default: jsonDefault(hooksv1.DefaultTTLSecondsAfterFinished),
							},
						},
					},
				},
			},
		},
	}

	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apiextensions.k8s.io/v1",
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: hooksv1.Plural + "." + hooksv1.GroupName,
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: hooksv1.GroupName,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural:   hooksv1.Plural,
				Singular: "deploymenthook",
				Kind:     hooksv1.Kind,
				ListKind: hooksv1.Kind + "List",
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{
					Name:    hooksv1.Version,
					Served:  true,
					Storage: true,
					Schema: &apiextensionsv1.CustomResourceValidation{
						OpenAPIV3Schema: schema,
					},
				},
			},
			PreserveUnknownFields: preserveUnknownFields,
		},
	}
}

func boolPtr(b bool) *bool { return &b }

func jsonDefault(v int32) *apiextensionsv1.JSON {
	b, _ := json.Marshal(v)
	return &apiextensionsv1.JSON{Raw: b}
}
