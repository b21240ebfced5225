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
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

type mocks struct {
	mu        sync.Mutex
	resources []pulumi.MockResourceArgs
}

func (m *mocks) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = append(m.resources, args)
	return args.Name + "_id", args.Inputs, nil
}

func (m *mocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	return args.Args, nil
}

func (m *mocks) ofType(token string) []pulumi.MockResourceArgs {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []pulumi.MockResourceArgs
	for _, r := range m.resources {
		if r.TypeToken == token {
			out = append(out, r)
		}
	}
	return out
}

func plain(v resource.PropertyValue) resource.PropertyValue {
	if v.IsSecret() {
		return v.SecretValue().Element
	}
	return v
}

func TestDeclareRelease(t *testing.T) {
	m := &mocks{}
	var handle component.ResourceHandle

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		op, err := component.New(context.Background(), NewRegistrar(ctx, nil), "gpu",
			component.OperatorArgs{Namespace: "gpu-operator", Version: "v25.3.4"})
		if err != nil {
			return err
		}
		handle = op.Release()
		return nil
	}, pulumi.WithMocks("project", "stack", m))
	require.NoError(t, err)

	require.NotNil(t, handle)
	assert.Equal(t, "gpu-operator", handle.ResourceName())
	assert.NotNil(t, handle.(*ReleaseHandle).Release)

	releases := m.ofType("kubernetes:helm.sh/v3:Release")
	require.Len(t, releases, 1)
	inputs := releases[0].Inputs

	assert.Equal(t, "gpu-operator", inputs["name"].StringValue())
	assert.Equal(t, "gpu-operator", inputs["chart"].StringValue())
	assert.Equal(t, "v25.3.4", inputs["version"].StringValue())
	assert.Equal(t, "gpu-operator", inputs["namespace"].StringValue())
	assert.True(t, inputs["createNamespace"].BoolValue())
	assert.Equal(t, "https://helm.ngc.nvidia.com/nvidia", inputs["repositoryOpts"].ObjectValue()["repo"].StringValue())

	values := plain(inputs["values"]).ObjectValue()
	assert.False(t, values["driver"].ObjectValue()["enabled"].BoolValue())
	assert.True(t, values["cdi"].ObjectValue()["enabled"].BoolValue())
	assert.Equal(t, "/home/kubernetes/bin/nvidia", values["hostPaths"].ObjectValue()["driverInstallDir"].StringValue())

	dcgm := values["dcgmExporter"].ObjectValue()
	assert.True(t, dcgm["enabled"].BoolValue())
	assert.True(t, dcgm["serviceMonitor"].ObjectValue()["enabled"].BoolValue())
	config := dcgm["config"].ObjectValue()
	assert.Equal(t, float64(1000), config["collectInterval"].NumberValue())
	assert.Equal(t, float64(1000), config["publishInterval"].NumberValue())
	assert.Len(t, config["fieldIds"].ArrayValue(), 7)
}

func TestDeclareRejectsForeignOptions(t *testing.T) {
	m := &mocks{}

	var declareErr error
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		_, declareErr = component.New(context.Background(), NewRegistrar(ctx, nil), "gpu",
			component.OperatorArgs{Namespace: "gpu-operator", Version: "v25.3.4"},
			component.WithResourceOptions("not a pulumi option"))
		return declareErr
	}, pulumi.WithMocks("project", "stack", m))
	require.Error(t, err)
	assert.Contains(t, declareErr.Error(), "unsupported resource option")
	assert.Empty(t, m.ofType("kubernetes:helm.sh/v3:Release"))
}

func TestDeclareForwardsResourceOptions(t *testing.T) {
	m := &mocks{}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		_, err := component.New(context.Background(), NewRegistrar(ctx, nil), "gpu",
			component.OperatorArgs{Namespace: "gpu-operator", Version: "v25.3.4"},
			component.WithResourceOptions(pulumi.Protect(true)))
		return err
	}, pulumi.WithMocks("project", "stack", m))
	require.NoError(t, err)
	assert.Len(t, m.ofType("kubernetes:helm.sh/v3:Release"), 1)
}
