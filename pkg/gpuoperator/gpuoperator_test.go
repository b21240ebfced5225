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

package gpuoperator

import (
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

func (m *mocks) tokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, r := range m.resources {
		out = append(out, r.TypeToken)
	}
	return out
}

func TestNewGPUOperator(t *testing.T) {
	m := &mocks{}
	namespace := make(chan string, 1)

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		op, err := NewGPUOperator(ctx, "gpu", &GPUOperatorArgs{Namespace: "gpu-operator", Version: "v25.3.4"})
		if err != nil {
			return err
		}
		op.Namespace.ApplyT(func(ns string) string {
			namespace <- ns
			return ns
		})
		return nil
	}, pulumi.WithMocks("project", "stack", m))
	require.NoError(t, err)

	assert.Equal(t, "gpu-operator", <-namespace)
	assert.ElementsMatch(t, []string{
		"gpu-operator-component:index:GPUOperator",
		"kubernetes:helm.sh/v3:Release",
	}, m.tokens())
}

func TestNewGPUOperatorMissingArgs(t *testing.T) {
	testCases := []struct {
		description string
		args        *GPUOperatorArgs
		expected    error
	}{
		{"no args", nil, component.ErrNamespaceRequired},
		{"no namespace", &GPUOperatorArgs{Version: "v25.3.4"}, component.ErrNamespaceRequired},
		{"no version", &GPUOperatorArgs{Namespace: "gpu-operator"}, component.ErrVersionRequired},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			m := &mocks{}
			var constructErr error
			err := pulumi.RunErr(func(ctx *pulumi.Context) error {
				_, constructErr = NewGPUOperator(ctx, "gpu", tc.args)
				return constructErr
			}, pulumi.WithMocks("project", "stack", m))
			require.Error(t, err)
			assert.ErrorIs(t, constructErr, tc.expected)
			assert.Empty(t, m.tokens())
		})
	}
}
