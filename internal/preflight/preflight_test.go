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

package preflight

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/regclient/regclient/types/ref"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func newFakeClient(objs ...client.Object) client.Client {
	return fake.NewClientBuilder().WithScheme(Scheme).WithObjects(objs...).Build()
}

func serviceMonitorCRD(version string, served bool) *apiextensionsv1.CustomResourceDefinition {
	return &apiextensionsv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: ServiceMonitorCRDName},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: "monitoring.coreos.com",
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{Name: version, Served: served, Storage: true},
			},
		},
	}
}

func TestServiceMonitorCRD(t *testing.T) {
	testCases := []struct {
		description string
		objs        []client.Object
		passed      bool
	}{
		{
			description: "crd missing",
			passed:      false,
		},
		{
			description: "crd serves v1",
			objs:        []client.Object{serviceMonitorCRD("v1", true)},
			passed:      true,
		},
		{
			description: "crd does not serve v1",
			objs:        []client.Object{serviceMonitorCRD("v1", false)},
			passed:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			c := NewClusterChecker(newFakeClient(tc.objs...))
			res := c.ServiceMonitorCRD()(context.Background())
			require.Equal(t, "servicemonitor-crd", res.Name)
			require.Equal(t, tc.passed, res.Passed, res.Message)
			require.Contains(t, res.Message, "servicemonitors.monitoring.coreos.com")
		})
	}
}

func TestNamespace(t *testing.T) {
	testCases := []struct {
		description string
		objs        []client.Object
		passed      bool
		message     string
	}{
		{
			description: "namespace missing",
			passed:      true,
			message:     "will be created",
		},
		{
			description: "namespace exists",
			objs: []client.Object{&corev1.Namespace{
				ObjectMeta: metav1.ObjectMeta{Name: "gpu-operator"},
				Status:     corev1.NamespaceStatus{Phase: corev1.NamespaceActive},
			}},
			passed:  true,
			message: "exists",
		},
		{
			description: "namespace terminating",
			objs: []client.Object{&corev1.Namespace{
				ObjectMeta: metav1.ObjectMeta{Name: "gpu-operator"},
				Status:     corev1.NamespaceStatus{Phase: corev1.NamespaceTerminating},
			}},
			passed:  false,
			message: "terminating",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			c := NewClusterChecker(newFakeClient(tc.objs...))
			res := c.Namespace("gpu-operator")(context.Background())
			require.Equal(t, tc.passed, res.Passed, res.Message)
			require.Contains(t, res.Message, tc.message)
		})
	}
}

func TestGPUNodes(t *testing.T) {
	gpuNode := &corev1.Node{ObjectMeta: metav1.ObjectMeta{
		Name:   "gpu-node",
		Labels: map[string]string{"cloud.google.com/gke-accelerator": "nvidia-l4"},
	}}
	cpuNode := &corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "cpu-node"}}

	res := NewClusterChecker(newFakeClient(cpuNode)).GPUNodes()(context.Background())
	require.False(t, res.Passed)
	require.Contains(t, res.Message, "no GPU nodes found")

	res = NewClusterChecker(newFakeClient(cpuNode, gpuNode)).GPUNodes()(context.Background())
	require.True(t, res.Passed, res.Message)
	require.Equal(t, "found 1 GPU node(s), accelerators map[nvidia-l4:1]", res.Message)
}

type clusterInfo struct {
	kubernetes string
	openshift  string
}

func (c clusterInfo) GetKubernetesVersion() string { return c.kubernetes }
func (c clusterInfo) GetOpenshiftVersion() string  { return c.openshift }

func TestPlatform(t *testing.T) {
	testCases := []struct {
		description string
		info        clusterInfo
		passed      bool
	}{
		{
			description: "supported kubernetes",
			info:        clusterInfo{kubernetes: "v1.30.5-gke.1014001"},
			passed:      true,
		},
		{
			description: "old kubernetes",
			info:        clusterInfo{kubernetes: "v1.23.17"},
		},
		{
			description: "unparsable version",
			info:        clusterInfo{kubernetes: "1.30"},
		},
		{
			description: "openshift",
			info:        clusterInfo{kubernetes: "v1.29.8+f10c92d", openshift: "4.16"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			res := Platform(tc.info)(context.Background())
			require.Equal(t, "platform", res.Name)
			require.Equal(t, tc.passed, res.Passed, res.Message)
		})
	}
}

func TestOperatorImage(t *testing.T) {
	t.Setenv("GPU_OPERATOR_REPOSITORY", "")

	var requested string
	c := &ImageChecker{
		manifestHead: func(_ context.Context, r ref.Ref) error {
			requested = r.CommonName()
			if r.Tag == "v24.9.0" {
				return nil
			}
			return errors.New("not found")
		},
	}

	res := c.OperatorImage("24.9.0")(context.Background())
	require.True(t, res.Passed, res.Message)
	require.Equal(t, "nvcr.io/nvidia/gpu-operator:v24.9.0", requested)

	res = c.OperatorImage("v99.0.0")(context.Background())
	require.False(t, res.Passed)
	require.Contains(t, res.Message, "not found")

	t.Setenv("GPU_OPERATOR_REPOSITORY", "registry.local:5000/nvidia")
	res = c.OperatorImage("v24.9.0")(context.Background())
	require.True(t, res.Passed, res.Message)
	require.Equal(t, "registry.local:5000/nvidia/gpu-operator:v24.9.0", requested)
}

func TestRun(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	pass := func(context.Context) Result { return Result{Name: "pass", Passed: true} }
	fail := func(context.Context) Result { return Result{Name: "fail"} }

	results, err := Run(context.Background(), logger, false, pass, fail)
	require.NoError(t, err)
	require.Len(t, results, 2)

	_, err = Run(context.Background(), logger, true, pass, fail)
	require.ErrorIs(t, err, ErrFailed)

	_, err = Run(context.Background(), logger, true, pass)
	require.NoError(t, err)
}
