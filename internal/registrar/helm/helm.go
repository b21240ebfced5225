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

package helm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	helmclient "github.com/mittwald/go-helm-client"
	"github.com/sirupsen/logrus"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/repo"
	"helm.sh/helm/v3/pkg/storage/driver"
	"sigs.k8s.io/yaml"

	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/utils"
	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

const defaultTimeout = 10 * time.Minute

// Client is the subset of helmclient.Client used by the Registrar
type Client interface {
	AddOrUpdateChartRepo(entry repo.Entry) error
	GetRelease(name string) (*release.Release, error)
	InstallOrUpgradeChart(ctx context.Context, spec *helmclient.ChartSpec, opts *helmclient.GenericHelmOptions) (*release.Release, error)
	UninstallReleaseByName(name string) error
}

// ClientFactory returns a Client storing releases in namespace
type ClientFactory func(namespace string) (Client, error)

// NewClientFactory returns a ClientFactory building go-helm-client clients from kubeconfig bytes
func NewClientFactory(kubeconfig []byte, kubeContext string, logger *logrus.Logger) ClientFactory {
	return func(namespace string) (Client, error) {
		opt := &helmclient.KubeConfClientOptions{
			Options: &helmclient.Options{
				Namespace:        namespace,
				RepositoryCache:  filepath.Join(os.TempDir(), ".helmcache"),
				RepositoryConfig: filepath.Join(os.TempDir(), ".helmrepo"),
				Debug:            logger.IsLevelEnabled(logrus.DebugLevel),
				DebugLog: func(format string, v ...interface{}) {
					logger.Debugf(format, v...)
				},
			},
			KubeContext: kubeContext,
			KubeConfig:  kubeconfig,
		}

		c, err := helmclient.NewClientFromKubeConf(opt)
		if err != nil {
			return nil, fmt.Errorf("failed to create helm client: %w", err)
		}
		return c, nil
	}
}

// Registrar installs declared Helm releases directly into a cluster
type Registrar struct {
	logger    *logrus.Logger
	newClient ClientFactory
	clients   map[string]Client

	wait          bool
	atomic        bool
	timeout       time.Duration
	forceUpgrade  bool
	cleanupOnFail bool
}

// Option configures a Registrar
type Option func(*Registrar)

// WithLogger sets the logger of the Registrar
func WithLogger(logger *logrus.Logger) Option {
	return func(r *Registrar) {
		r.logger = logger
	}
}

// WithWait makes installs wait until all release resources are ready, up to timeout
func WithWait(wait bool, timeout time.Duration) Option {
	return func(r *Registrar) {
		r.wait = wait
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithAtomic rolls a failed install or upgrade back
func WithAtomic(atomic bool) Option {
	return func(r *Registrar) {
		r.atomic = atomic
		r.cleanupOnFail = atomic
	}
}

// WithForceUpgrade upgrades a release even when its chart version and values are unchanged
func WithForceUpgrade(force bool) Option {
	return func(r *Registrar) {
		r.forceUpgrade = force
	}
}

// NewRegistrar creates a Registrar using newClient to talk to the cluster
func NewRegistrar(newClient ClientFactory, opts ...Option) *Registrar {
	r := &Registrar{
		logger:    logrus.StandardLogger(),
		newClient: newClient,
		clients:   map[string]Client{},
		timeout:   defaultTimeout,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ReleaseHandle references an installed release
type ReleaseHandle struct {
	Namespace string
	Name      string
	Revision  int
	// Unchanged is set when the deployed release already matched the declaration
	Unchanged bool
}

// ResourceName returns namespace/name of the release
func (h *ReleaseHandle) ResourceName() string {
	return h.Namespace + "/" + h.Name
}

func (r *Registrar) client(namespace string) (Client, error) {
	if c, ok := r.clients[namespace]; ok {
		return c, nil
	}
	c, err := r.newClient(namespace)
	if err != nil {
		return nil, err
	}
	r.clients[namespace] = c
	return c, nil
}

// DeclareChildResource installs res, upgrades it when the chart version or the
// values changed, and leaves it alone otherwise
func (r *Registrar) DeclareChildResource(ctx context.Context, res *component.ChildResource) (component.ResourceHandle, error) {
	if res.Kind != consts.HelmReleaseKind {
		return nil, fmt.Errorf("unsupported resource kind %q", res.Kind)
	}

	c, err := r.client(res.Namespace)
	if err != nil {
		return nil, err
	}

	repoName := repositoryName(res.Chart.Repository)
	err = c.AddOrUpdateChartRepo(repo.Entry{
		Name: repoName,
		URL:  res.Chart.Repository,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add chart repository %s: %w", res.Chart.Repository, err)
	}

	digest, err := utils.GetValuesDigest(res.Values)
	if err != nil {
		return nil, err
	}

	if !r.forceUpgrade {
		current, err := c.GetRelease(res.Name)
		switch {
		case errors.Is(err, driver.ErrReleaseNotFound):
			r.logger.Debugf("Release %s/%s not found, installing", res.Namespace, res.Name)
		case err != nil:
			return nil, fmt.Errorf("failed to get release %s/%s: %w", res.Namespace, res.Name, err)
		case upToDate(current, res.Chart.Version, digest):
			r.logger.Infof("Release %s/%s is up to date (chart %s, revision %d)", res.Namespace, res.Name, res.Chart.Version, current.Version)
			return &ReleaseHandle{Namespace: res.Namespace, Name: res.Name, Revision: current.Version, Unchanged: true}, nil
		}
	}

	valuesYaml, err := yaml.Marshal(res.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode values of %s: %w", res.Name, err)
	}

	spec := &helmclient.ChartSpec{
		ReleaseName:     res.Name,
		ChartName:       repoName + "/" + res.Chart.Name,
		Namespace:       res.Namespace,
		Version:         res.Chart.Version,
		ValuesYaml:      string(valuesYaml),
		CreateNamespace: res.CreateNamespace,
		Wait:            r.wait,
		Timeout:         r.timeout,
		Atomic:          r.atomic,
		CleanupOnFail:   r.cleanupOnFail,
		UpgradeCRDs:     true,
	}

	r.logger.Infof("Installing or upgrading release %s/%s (chart %s %s)", res.Namespace, res.Name, spec.ChartName, spec.Version)
	rel, err := c.InstallOrUpgradeChart(ctx, spec, nil)
	if err != nil {
		return nil, err
	}

	return &ReleaseHandle{Namespace: res.Namespace, Name: rel.Name, Revision: rel.Version}, nil
}

// Remove uninstalls the named release from namespace
func (r *Registrar) Remove(namespace, name string) error {
	c, err := r.client(namespace)
	if err != nil {
		return err
	}
	r.logger.Infof("Uninstalling release %s/%s", namespace, name)
	return c.UninstallReleaseByName(name)
}

func upToDate(rel *release.Release, version, digest string) bool {
	if rel == nil || rel.Info == nil || rel.Info.Status != release.StatusDeployed {
		return false
	}
	if rel.Chart == nil || rel.Chart.Metadata == nil {
		return false
	}
	if strings.TrimPrefix(rel.Chart.Metadata.Version, "v") != strings.TrimPrefix(version, "v") {
		return false
	}
	current, err := utils.GetValuesDigest(rel.Config)
	if err != nil {
		return false
	}
	return current == digest
}

func repositoryName(url string) string {
	if url == consts.ChartRepository {
		return consts.ChartRepositoryName
	}
	return "repo-" + utils.GetStringHash(url)
}
