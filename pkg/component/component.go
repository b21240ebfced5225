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
	"fmt"

	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/values"
)

// Option configures New
type Option func(*options)

type options struct {
	resourceOptions []interface{}
}

// WithResourceOptions passes opts through to the registrar with the declared release.
// The component does not inspect them.
func WithResourceOptions(opts ...interface{}) Option {
	return func(o *options) {
		o.resourceOptions = append(o.resourceOptions, opts...)
	}
}

// GPUOperator is a deployed GPU Operator component
type GPUOperator struct {
	name         string
	namespace    string
	valuesDigest string
	release      ResourceHandle
}

// New validates args, composes the chart values and declares the GPU Operator
// release through registrar. Nothing is declared when args are invalid.
// Registrar errors are returned wrapped but otherwise unmodified.
func New(ctx context.Context, registrar ResourceRegistrar, name string, args OperatorArgs, opts ...Option) (*GPUOperator, error) {
	if name == "" {
		return nil, fmt.Errorf("component name is required")
	}
	if registrar == nil {
		return nil, fmt.Errorf("no resource registrar provided")
	}

	res, err := NewReleaseResource(args, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
	}

	digest, err := values.Compose().Digest()
	if err != nil {
		return nil, err
	}

	release, err := registrar.DeclareChildResource(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("failed to declare %s release for %s: %w", res.Chart.Name, name, err)
	}

	return &GPUOperator{
		name:         name,
		namespace:    args.Namespace,
		valuesDigest: digest,
		release:      release,
	}, nil
}

// NewReleaseResource builds the release resource declared for args
func NewReleaseResource(args OperatorArgs, opts ...Option) (*ChildResource, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	chartValues, err := values.Compose().ToMap()
	if err != nil {
		return nil, err
	}

	return &ChildResource{
		Kind:      consts.HelmReleaseKind,
		Name:      consts.ReleaseName,
		Namespace: args.Namespace,
		Chart: ChartRef{
			Name:       consts.ChartName,
			Repository: consts.ChartRepository,
			Version:    args.Version,
		},
		CreateNamespace: true,
		Values:          chartValues,
		Options:         o.resourceOptions,
	}, nil
}

// Name returns the logical name of the component
func (g *GPUOperator) Name() string {
	return g.name
}

// Namespace returns the namespace the operator was deployed to
func (g *GPUOperator) Namespace() string {
	return g.namespace
}

// Release returns the handle of the declared release
func (g *GPUOperator) Release() ResourceHandle {
	return g.release
}

// ValuesDigest returns the digest of the chart values
func (g *GPUOperator) ValuesDigest() string {
	return g.valuesDigest
}
