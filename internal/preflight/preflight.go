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
	"fmt"

	"github.com/prometheus-operator/prometheus-operator/pkg/apis/monitoring"
	monitoringv1 "github.com/prometheus-operator/prometheus-operator/pkg/apis/monitoring/v1"
	"github.com/regclient/regclient"
	"github.com/regclient/regclient/types/ref"
	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
	corev1 "k8s.io/api/core/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/NVIDIA/gpu-operator-component/internal/clusterinfo"
	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/image"
	"github.com/NVIDIA/gpu-operator-component/internal/nodeinfo"
	"github.com/NVIDIA/gpu-operator-component/internal/validator"
)

// Scheme holds the types read by the cluster checks
var Scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(Scheme))
	utilruntime.Must(apiextensionsv1.AddToScheme(Scheme))
}

// Result is the outcome of a single check
type Result struct {
	Name    string
	Passed  bool
	Message string
}

// Check runs a single preflight check
type Check func(ctx context.Context) Result

// ErrFailed is returned by Run in strict mode when a check did not pass
var ErrFailed = errors.New("preflight checks failed")

// Run runs all checks and logs their results. A failed check is a warning
// unless strict is set.
func Run(ctx context.Context, logger *logrus.Logger, strict bool, checks ...Check) ([]Result, error) {
	results := make([]Result, 0, len(checks))
	failed := 0
	for _, check := range checks {
		res := check(ctx)
		results = append(results, res)
		if res.Passed {
			logger.Infof("Preflight %s: %s", res.Name, res.Message)
			continue
		}
		failed++
		logger.Warnf("Preflight %s failed: %s", res.Name, res.Message)
	}
	if strict && failed > 0 {
		return results, fmt.Errorf("%w: %d of %d", ErrFailed, failed, len(checks))
	}
	return results, nil
}

// ClusterChecker checks the target cluster
type ClusterChecker struct {
	client client.Client
}

// NewClusterChecker returns a ClusterChecker reading the cluster through c
func NewClusterChecker(c client.Client) *ClusterChecker {
	return &ClusterChecker{client: c}
}

// ServiceMonitorCRDName is the name of the prometheus-operator ServiceMonitor CRD
var ServiceMonitorCRDName = monitoringv1.ServiceMonitorName + "." + monitoring.GroupName

// ServiceMonitorCRD checks that the ServiceMonitor CRD is installed. The chart
// creates a ServiceMonitor for dcgm-exporter and fails without it.
func (c *ClusterChecker) ServiceMonitorCRD() Check {
	return func(ctx context.Context) Result {
		res := Result{Name: "servicemonitor-crd"}

		crd := &apiextensionsv1.CustomResourceDefinition{}
		err := c.client.Get(ctx, client.ObjectKey{Name: ServiceMonitorCRDName}, crd)
		if apierrors.IsNotFound(err) {
			res.Message = fmt.Sprintf("CRD %s not found, the dcgm-exporter %s cannot be created", ServiceMonitorCRDName, monitoringv1.ServiceMonitorsKind)
			return res
		}
		if err != nil {
			res.Message = fmt.Sprintf("failed to get CRD %s: %v", ServiceMonitorCRDName, err)
			return res
		}

		for _, v := range crd.Spec.Versions {
			if v.Name == monitoringv1.Version && v.Served {
				res.Passed = true
				res.Message = fmt.Sprintf("CRD %s serves %s", ServiceMonitorCRDName, monitoringv1.Version)
				return res
			}
		}
		res.Message = fmt.Sprintf("CRD %s does not serve %s", ServiceMonitorCRDName, monitoringv1.Version)
		return res
	}
}

// Namespace checks that namespace is usable. A missing namespace passes since
// the release creates it.
func (c *ClusterChecker) Namespace(namespace string) Check {
	return func(ctx context.Context) Result {
		res := Result{Name: "namespace"}

		ns := &corev1.Namespace{}
		err := c.client.Get(ctx, client.ObjectKey{Name: namespace}, ns)
		switch {
		case apierrors.IsNotFound(err):
			res.Passed = true
			res.Message = fmt.Sprintf("namespace %s does not exist and will be created", namespace)
		case err != nil:
			res.Message = fmt.Sprintf("failed to get namespace %s: %v", namespace, err)
		case ns.Status.Phase == corev1.NamespaceTerminating:
			res.Message = fmt.Sprintf("namespace %s is terminating", namespace)
		default:
			res.Passed = true
			res.Message = fmt.Sprintf("namespace %s exists", namespace)
		}
		return res
	}
}

// GPUNodes checks that the cluster has nodes with NVIDIA GPUs for the
// operands to run on
func (c *ClusterChecker) GPUNodes() Check {
	return func(ctx context.Context) Result {
		res := Result{Name: "gpu-nodes"}

		p, err := nodeinfo.NewProviderFromCluster(ctx, c.client)
		if err != nil {
			res.Message = err.Error()
			return res
		}

		attrs := p.GetNodesAttributes(nodeinfo.GPUNodeFilter())
		if len(attrs) == 0 {
			res.Message = fmt.Sprintf("no GPU nodes found, looked for labels %s, %s and %s",
				nodeinfo.NodeLabelNvidiaPCI, nodeinfo.NodeLabelNvGPU, nodeinfo.NodeLabelGKEAccelerator)
			return res
		}

		accelerators := map[string]int{}
		for _, a := range attrs {
			if acc, ok := a.Attributes[nodeinfo.AttrTypeAccelerator]; ok {
				accelerators[acc]++
			}
		}
		res.Passed = true
		res.Message = fmt.Sprintf("found %d GPU node(s)", len(attrs))
		if len(accelerators) > 0 {
			res.Message += fmt.Sprintf(", accelerators %v", accelerators)
		}
		return res
	}
}

// MinKubernetesVersion is the oldest Kubernetes version checked for
const MinKubernetesVersion = "v1.24.0"

// Platform checks the Kubernetes version and that the cluster is not
// OpenShift, where the operator is installed through OLM and the host
// driver layout differs
func Platform(info clusterinfo.Interface) Check {
	return func(context.Context) Result {
		res := Result{Name: "platform"}

		if ocp := info.GetOpenshiftVersion(); ocp != "" {
			res.Message = fmt.Sprintf("OpenShift %s detected, the GPU Operator should be installed through OLM", ocp)
			return res
		}

		k8s := info.GetKubernetesVersion()
		if !semver.IsValid(k8s) {
			res.Message = fmt.Sprintf("unable to parse kubernetes version %q", k8s)
			return res
		}
		if semver.Compare(k8s, MinKubernetesVersion) < 0 {
			res.Message = fmt.Sprintf("kubernetes %s is older than %s", k8s, MinKubernetesVersion)
			return res
		}

		res.Passed = true
		res.Message = fmt.Sprintf("kubernetes %s", k8s)
		return res
	}
}

// ImageChecker checks that the operator image of a chart version is published
type ImageChecker struct {
	manifestHead func(ctx context.Context, r ref.Ref) error
}

// NewImageChecker returns an ImageChecker querying registries with regclient
func NewImageChecker() *ImageChecker {
	rc := regclient.New()
	return &ImageChecker{
		manifestHead: func(ctx context.Context, r ref.Ref) error {
			_, err := rc.ManifestHead(ctx, r)
			return err
		},
	}
}

// OperatorImage checks that the gpu-operator image tagged with version exists.
// GPU Operator images are tagged with the chart version.
// The repository can be overridden through GPU_OPERATOR_REPOSITORY.
func (c *ImageChecker) OperatorImage(version string) Check {
	return func(ctx context.Context) Result {
		res := Result{Name: "operator-image"}

		path, err := image.ImagePath(consts.OperatorRepository, consts.OperatorImage, validator.CanonicalVersion(version), consts.OperatorRepositoryEnvName)
		if err != nil {
			res.Message = err.Error()
			return res
		}

		r, err := ref.New(path)
		if err != nil {
			res.Message = fmt.Sprintf("failed to construct an image reference for %s: %v", path, err)
			return res
		}
		if err := c.manifestHead(ctx, r); err != nil {
			res.Message = fmt.Sprintf("failed to get image manifest of %s: %v", path, err)
			return res
		}
		res.Passed = true
		res.Message = fmt.Sprintf("image %s exists", path)
		return res
	}
}
