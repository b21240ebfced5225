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

package pulumi

import (
	"context"
	"fmt"

	helmv3 "github.com/pulumi/pulumi-kubernetes/sdk/v4/go/kubernetes/helm/v3"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

// Registrar declares child resources as Pulumi resources
type Registrar struct {
	ctx    *pulumi.Context
	parent pulumi.Resource
}

// NewRegistrar returns a Registrar declaring resources in ctx as children of parent.
// parent may be nil.
func NewRegistrar(ctx *pulumi.Context, parent pulumi.Resource) *Registrar {
	return &Registrar{
		ctx:    ctx,
		parent: parent,
	}
}

// ReleaseHandle references a declared Helm release
type ReleaseHandle struct {
	Release *helmv3.Release
	name    string
}

// ResourceName returns the logical name of the release
func (h *ReleaseHandle) ResourceName() string {
	return h.name
}

// DeclareChildResource declares res as a kubernetes:helm.sh/v3:Release.
// Options of res must be pulumi.ResourceOption values.
func (r *Registrar) DeclareChildResource(_ context.Context, res *component.ChildResource) (component.ResourceHandle, error) {
	if res.Kind != consts.HelmReleaseKind {
		return nil, fmt.Errorf("unsupported resource kind %q", res.Kind)
	}

	var opts []pulumi.ResourceOption
	if r.parent != nil {
		opts = append(opts, pulumi.Parent(r.parent))
	}
	for _, o := range res.Options {
		opt, ok := o.(pulumi.ResourceOption)
		if !ok {
			return nil, fmt.Errorf("unsupported resource option of type %T", o)
		}
		opts = append(opts, opt)
	}

	release, err := helmv3.NewRelease(r.ctx, res.Name, &helmv3.ReleaseArgs{
		Name:            pulumi.String(res.Name),
		Chart:           pulumi.String(res.Chart.Name),
		Version:         pulumi.String(res.Chart.Version),
		Namespace:       pulumi.String(res.Namespace),
		CreateNamespace: pulumi.Bool(res.CreateNamespace),
		RepositoryOpts: &helmv3.RepositoryOptsArgs{
			Repo: pulumi.String(res.Chart.Repository),
		},
		Values: pulumi.ToMap(res.Values),
	}, opts...)
	if err != nil {
		return nil, err
	}

	return &ReleaseHandle{Release: release, name: res.Name}, nil
}
