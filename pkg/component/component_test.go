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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/gpu-operator-component/internal/values"
)

type handle string

func (h handle) ResourceName() string { return string(h) }

type recordingRegistrar struct {
	declared []*ChildResource
	err      error
}

func (r *recordingRegistrar) DeclareChildResource(_ context.Context, res *ChildResource) (ResourceHandle, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.declared = append(r.declared, res)
	return handle(res.Name), nil
}

func TestNewDeclaresSingleRelease(t *testing.T) {
	reg := &recordingRegistrar{}
	args := OperatorArgs{Namespace: "gpu-operator", Version: "v25.3.4"}

	op, err := New(context.Background(), reg, "gpu", args)
	require.NoError(t, err)
	require.Len(t, reg.declared, 1)

	res := reg.declared[0]
	assert.Equal(t, "kubernetes:helm.sh/v3:Release", res.Kind)
	assert.Equal(t, "gpu-operator", res.Name)
	assert.Equal(t, "gpu-operator", res.Namespace)
	assert.Equal(t, "gpu-operator", res.Chart.Name)
	assert.Equal(t, "https://helm.ngc.nvidia.com/nvidia", res.Chart.Repository)
	assert.Equal(t, "v25.3.4", res.Chart.Version)
	assert.True(t, res.CreateNamespace)

	expected, err := values.Compose().ToMap()
	require.NoError(t, err)
	assert.Equal(t, expected, res.Values)

	assert.Equal(t, "gpu", op.Name())
	assert.Equal(t, "gpu-operator", op.Namespace())
	assert.Equal(t, "gpu-operator", op.Release().ResourceName())
	assert.NotEmpty(t, op.ValuesDigest())
}

func TestNewVersionChangeOnlyAffectsChartVersion(t *testing.T) {
	reg := &recordingRegistrar{}
	_, err := New(context.Background(), reg, "gpu", OperatorArgs{Namespace: "gpu-operator", Version: "v25.3.4"})
	require.NoError(t, err)
	_, err = New(context.Background(), reg, "gpu", OperatorArgs{Namespace: "gpu-operator", Version: "v25.10.0"})
	require.NoError(t, err)
	require.Len(t, reg.declared, 2)

	first, second := *reg.declared[0], *reg.declared[1]
	assert.Equal(t, "v25.3.4", first.Chart.Version)
	assert.Equal(t, "v25.10.0", second.Chart.Version)

	second.Chart.Version = first.Chart.Version
	assert.Equal(t, first, second)
}

func TestNewMissingArgs(t *testing.T) {
	testCases := []struct {
		description string
		args        OperatorArgs
		expected    []error
	}{
		{
			description: "missing namespace",
			args:        OperatorArgs{Version: "v25.3.4"},
			expected:    []error{ErrNamespaceRequired},
		},
		{
			description: "missing version",
			args:        OperatorArgs{Namespace: "gpu-operator"},
			expected:    []error{ErrVersionRequired},
		},
		{
			description: "missing both",
			args:        OperatorArgs{},
			expected:    []error{ErrNamespaceRequired, ErrVersionRequired},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			reg := &recordingRegistrar{}
			op, err := New(context.Background(), reg, "gpu", tc.args)
			require.Error(t, err)
			assert.Nil(t, op)
			for _, e := range tc.expected {
				assert.ErrorIs(t, err, e)
			}
			assert.Empty(t, reg.declared)
		})
	}
}

func TestNewPropagatesRegistrarError(t *testing.T) {
	cause := errors.New("chart not found")
	reg := &recordingRegistrar{err: cause}

	_, err := New(context.Background(), reg, "gpu", OperatorArgs{Namespace: "gpu-operator", Version: "v0.0.0"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestNewPassesResourceOptionsThrough(t *testing.T) {
	type parent struct{ name string }
	reg := &recordingRegistrar{}

	_, err := New(context.Background(), reg, "gpu",
		OperatorArgs{Namespace: "gpu-operator", Version: "v25.3.4"},
		WithResourceOptions(parent{"a"}, "opaque"),
	)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{parent{"a"}, "opaque"}, reg.declared[0].Options)
}

func TestNewRequiresRegistrarAndName(t *testing.T) {
	args := OperatorArgs{Namespace: "gpu-operator", Version: "v25.3.4"}

	_, err := New(context.Background(), nil, "gpu", args)
	assert.Error(t, err)

	_, err = New(context.Background(), &recordingRegistrar{}, "", args)
	assert.Error(t, err)
}

func TestResourceRegistrarFunc(t *testing.T) {
	called := false
	reg := ResourceRegistrarFunc(func(_ context.Context, res *ChildResource) (ResourceHandle, error) {
		called = true
		return handle(res.Name), nil
	})

	_, err := New(context.Background(), reg, "gpu", OperatorArgs{Namespace: "ns", Version: "v1.0.0"})
	require.NoError(t, err)
	assert.True(t, called)
}
