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

package clusterinfo

import (
	"context"
	"testing"

	configv1 "github.com/openshift/api/config/v1"
	fakeconfig "github.com/openshift/client-go/config/clientset/versioned/fake"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	k8stesting "k8s.io/client-go/testing"
)

func newDiscovery(gitVersion string) *fakediscovery.FakeDiscovery {
	return &fakediscovery.FakeDiscovery{
		Fake:               &k8stesting.Fake{},
		FakedServerVersion: &version.Info{GitVersion: gitVersion},
	}
}

func newClusterVersion(history ...configv1.UpdateHistory) *configv1.ClusterVersion {
	return &configv1.ClusterVersion{
		ObjectMeta: metav1.ObjectMeta{Name: "version"},
		Status:     configv1.ClusterVersionStatus{History: history},
	}
}

func TestNew(t *testing.T) {
	testCases := []struct {
		description       string
		objs              []runtime.Object
		expectedOpenshift string
		expectErr         bool
	}{
		{
			description: "kubernetes",
		},
		{
			description: "openshift",
			objs: []runtime.Object{newClusterVersion(
				configv1.UpdateHistory{State: configv1.PartialUpdate, Version: "4.17.0"},
				configv1.UpdateHistory{State: configv1.CompletedUpdate, Version: "4.16.3"},
			)},
			expectedOpenshift: "4.16",
		},
		{
			description: "openshift without completed update",
			objs: []runtime.Object{newClusterVersion(
				configv1.UpdateHistory{State: configv1.PartialUpdate, Version: "4.17.0"},
			)},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			info, err := New(context.Background(),
				WithDiscoveryClient(newDiscovery("v1.30.5-gke.1014001")),
				WithClusterVersionsClient(fakeconfig.NewSimpleClientset(tc.objs...).ConfigV1()),
			)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "v1.30.5-gke.1014001", info.GetKubernetesVersion())
			require.Equal(t, tc.expectedOpenshift, info.GetOpenshiftVersion())
		})
	}
}

func TestNewWithoutConfig(t *testing.T) {
	_, err := New(context.Background())
	require.ErrorContains(t, err, "no kubernetes config provided")
}
