/**
# Copyright (c) NVIDIA CORPORATION.  All rights reserved.
#
# Licensed under the Apache License, Version 2.0 (the "License");
# you may not use this file except in compliance with the License.
# You may obtain a copy of the License at
#
#     http://www.apache.org/licenses/LICENSE-2.0
#
# Unless required by applicable law or agreed to in writing, software
# distributed under the License is distributed on an "AS IS" BASIS,
# WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
# See the License for the specific language governing permissions and
# limitations under the License.
**/

package component

import (
	"context"
	"errors"
)

var (
	// ErrNamespaceRequired is returned when OperatorArgs has no namespace
	ErrNamespaceRequired = errors.New("namespace is required")
	// ErrVersionRequired is returned when OperatorArgs has no chart version
	ErrVersionRequired = errors.New("version is required")
)

// OperatorArgs are the inputs of the GPU Operator component
type OperatorArgs struct {
	// Namespace is the namespace to deploy the operator to
	Namespace string `pulumi:"namespace" json:"namespace"`
	// Version is the version of the operator chart to deploy
	Version string `pulumi:"version" json:"version"`
}

// Validate checks that both arguments are set. Syntax is left to the caller
// and to the chart installation itself.
func (a OperatorArgs) Validate() error {
	var errs []error
	if a.Namespace == "" {
		errs = append(errs, ErrNamespaceRequired)
	}
	if a.Version == "" {
		errs = append(errs, ErrVersionRequired)
	}
	return errors.Join(errs...)
}

// ChartRef locates a Helm chart
type ChartRef struct {
	Name       string
	Repository string
	Version    string
}

// ChildResource is a resource declared by a component
type ChildResource struct {
	// Kind is the engine type of the resource
	Kind string
	// Name is the logical name of the resource, also used as the release name
	Name      string
	Namespace string
	Chart     ChartRef
	// CreateNamespace asks the registrar to create Namespace if it is missing
	CreateNamespace bool
	Values          map[string]interface{}
	// Options are passed through to the registrar untouched
	Options []interface{}
}

// ResourceHandle references a declared resource
type ResourceHandle interface {
	ResourceName() string
}

// ResourceRegistrar declares child resources with an orchestration engine
type ResourceRegistrar interface {
	DeclareChildResource(ctx context.Context, res *ChildResource) (ResourceHandle, error)
}

// ResourceRegistrarFunc adapts a function to ResourceRegistrar
type ResourceRegistrarFunc func(ctx context.Context, res *ChildResource) (ResourceHandle, error)

// DeclareChildResource calls f(ctx, res)
func (f ResourceRegistrarFunc) DeclareChildResource(ctx context.Context, res *ChildResource) (ResourceHandle, error) {
	return f(ctx, res)
}
