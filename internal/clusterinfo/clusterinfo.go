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
	"fmt"
	"strings"

	configv1 "github.com/openshift/client-go/config/clientset/versioned/typed/config/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"
)

// Interface to the clusterinfo package
type Interface interface {
	GetKubernetesVersion() string
	GetOpenshiftVersion() string
}

type clusterInfo struct {
	config          *rest.Config
	discovery       discovery.ServerVersionInterface
	clusterVersions configv1.ClusterVersionsGetter

	kubernetesVersion string
	openshiftVersion  string
}

// New creates a new instance of clusterinfo API, querying the cluster once
func New(ctx context.Context, opts ...Option) (Interface, error) {
	l := &clusterInfo{}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.buildClients(); err != nil {
		return nil, err
	}

	kubernetesVersion, err := l.getKubernetesVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes version: %w", err)
	}
	l.kubernetesVersion = kubernetesVersion

	openshiftVersion, err := l.getOpenshiftVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get openshift version: %w", err)
	}
	l.openshiftVersion = openshiftVersion

	return l, nil
}

// Option is a function that configures the clusterInfo library
type Option func(*clusterInfo)

// WithKubernetesConfig provides an option to set the k8s config used by the library
func WithKubernetesConfig(config *rest.Config) Option {
	return func(l *clusterInfo) {
		l.config = config
	}
}

// WithDiscoveryClient sets the client used to get the server version
func WithDiscoveryClient(c discovery.ServerVersionInterface) Option {
	return func(l *clusterInfo) {
		l.discovery = c
	}
}

// WithClusterVersionsClient sets the client used to get the OpenShift ClusterVersion
func WithClusterVersionsClient(c configv1.ClusterVersionsGetter) Option {
	return func(l *clusterInfo) {
		l.clusterVersions = c
	}
}

func (l *clusterInfo) buildClients() error {
	if l.discovery != nil && l.clusterVersions != nil {
		return nil
	}
	if l.config == nil {
		return fmt.Errorf("no kubernetes config provided")
	}

	if l.discovery == nil {
		discoveryClient, err := discovery.NewDiscoveryClientForConfig(l.config)
		if err != nil {
			return fmt.Errorf("error building discovery client: %w", err)
		}
		l.discovery = discoveryClient
	}
	if l.clusterVersions == nil {
		client, err := configv1.NewForConfig(l.config)
		if err != nil {
			return fmt.Errorf("error building openshift config client: %w", err)
		}
		l.clusterVersions = client
	}
	return nil
}

// GetKubernetesVersion returns the k8s version detected in the cluster
func (l *clusterInfo) GetKubernetesVersion() string {
	return l.kubernetesVersion
}

// GetOpenshiftVersion returns the OpenShift version detected in the cluster.
// An empty string, "", is returned if it is determined we are not running on OpenShift.
func (l *clusterInfo) GetOpenshiftVersion() string {
	return l.openshiftVersion
}

func (l *clusterInfo) getKubernetesVersion() (string, error) {
	info, err := l.discovery.ServerVersion()
	if err != nil {
		return "", fmt.Errorf("unable to fetch server version information: %w", err)
	}

	return info.GitVersion, nil
}

func (l *clusterInfo) getOpenshiftVersion(ctx context.Context) (string, error) {
	v, err := l.clusterVersions.ClusterVersions().Get(ctx, "version", metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			// not an OpenShift cluster
			return "", nil
		}
		return "", err
	}

	for _, condition := range v.Status.History {
		if condition.State != "Completed" {
			continue
		}

		ocpV := strings.Split(condition.Version, ".")
		if len(ocpV) > 1 {
			return ocpV[0] + "." + ocpV[1], nil
		}
		return ocpV[0], nil
	}

	return "", fmt.Errorf("failed to find Completed Cluster Version")
}
