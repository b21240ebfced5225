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

package install

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/NVIDIA/gpu-operator-component/cmd/gpuop-component/options"
	"github.com/NVIDIA/gpu-operator-component/internal/clusterinfo"
	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/metrics"
	"github.com/NVIDIA/gpu-operator-component/internal/preflight"
	"github.com/NVIDIA/gpu-operator-component/internal/registrar/helm"
	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

type command struct {
	logger *logrus.Logger
}

type installOptions struct {
	args options.Args
	kube options.Kube

	wait         bool
	timeout      time.Duration
	atomic       bool
	forceUpgrade bool

	skipPreflight bool
	strict        bool
	verifyImage   bool

	metricsTextfile string
}

// NewCommand constructs an install command with the specified logger
func NewCommand(logger *logrus.Logger) *cli.Command {
	c := command{
		logger: logger,
	}
	return c.build()
}

// build creates the CLI command
func (m command) build() *cli.Command {
	opts := installOptions{}

	// Create the 'install' command
	c := cli.Command{
		Name:  "install",
		Usage: "Install or upgrade the GPU Operator release in a cluster",
		Action: func(c *cli.Context) error {
			return m.run(c.Context, &opts)
		},
	}

	c.Flags = append(opts.args.Flags(), opts.kube.Flags()...)
	c.Flags = append(c.Flags,
		&cli.BoolFlag{
			Name:        "wait",
			Usage:       "Wait until all release resources are ready",
			Destination: &opts.wait,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "How long to wait for the release to become ready",
			Value:       5 * time.Minute,
			Destination: &opts.timeout,
		},
		&cli.BoolFlag{
			Name:        "atomic",
			Usage:       "Roll the release back if the install or upgrade fails",
			Destination: &opts.atomic,
		},
		&cli.BoolFlag{
			Name:        "force-upgrade",
			Usage:       "Upgrade the release even if its chart version and values are unchanged",
			Destination: &opts.forceUpgrade,
		},
		&cli.BoolFlag{
			Name:        "skip-preflight",
			Usage:       "Do not check the cluster before installing",
			Destination: &opts.skipPreflight,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "Fail if a preflight check does not pass",
			Destination: &opts.strict,
		},
		&cli.BoolFlag{
			Name:        "verify-image",
			Usage:       "Check that the operator image for the chart version is published",
			Destination: &opts.verifyImage,
		},
		&cli.StringFlag{
			Name:        "metrics-textfile",
			Usage:       "Write run metrics to this file for the node-exporter textfile collector",
			Destination: &opts.metricsTextfile,
			EnvVars:     []string{"METRICS_TEXTFILE"},
		},
	)

	return &c
}

func (m command) run(ctx context.Context, opts *installOptions) error {
	args, err := opts.args.Load()
	if err != nil {
		return err
	}

	if !opts.skipPreflight {
		if err := m.preflight(ctx, opts, args); err != nil {
			return err
		}
	}

	kubeconfig, err := opts.kube.RawKubeconfig()
	if err != nil {
		return err
	}

	registrar := helm.NewRegistrar(
		helm.NewClientFactory(kubeconfig, opts.kube.Context, m.logger),
		helm.WithLogger(m.logger),
		helm.WithWait(opts.wait, opts.timeout),
		helm.WithAtomic(opts.atomic),
		helm.WithForceUpgrade(opts.forceUpgrade),
	)

	return m.install(ctx, registrar, args, opts.metricsTextfile)
}

func (m command) install(ctx context.Context, registrar component.ResourceRegistrar, args component.OperatorArgs, metricsTextfile string) error {
	componentMetrics := metrics.New()

	op, err := component.New(ctx, componentMetrics.Instrument(registrar), consts.ReleaseName, args)

	if metricsTextfile != "" {
		if werr := componentMetrics.WriteTextfile(metricsTextfile); werr != nil {
			m.logger.Warnf("Failed to write metrics to %s: %v", metricsTextfile, werr)
		}
	}
	if err != nil {
		return err
	}

	if h, ok := op.Release().(*helm.ReleaseHandle); ok && h.Unchanged {
		m.logger.Infof("Release %s is up to date (revision %d)", h.ResourceName(), h.Revision)
		return nil
	}
	m.logger.Infof("Deployed %s to namespace %s (values digest %s)", op.Release().ResourceName(), op.Namespace(), op.ValuesDigest())
	return nil
}

func (m command) preflight(ctx context.Context, opts *installOptions, args component.OperatorArgs) error {
	config, err := opts.kube.RESTConfig()
	if err != nil {
		return err
	}
	c, err := client.New(config, client.Options{Scheme: preflight.Scheme})
	if err != nil {
		return fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	info, err := clusterinfo.New(ctx, clusterinfo.WithKubernetesConfig(config))
	if err != nil {
		return err
	}

	cluster := preflight.NewClusterChecker(c)
	checks := []preflight.Check{
		preflight.Platform(info),
		cluster.Namespace(args.Namespace),
		cluster.ServiceMonitorCRD(),
		cluster.GPUNodes(),
	}
	if opts.verifyImage {
		checks = append(checks, preflight.NewImageChecker().OperatorImage(args.Version))
	}

	_, err = preflight.Run(ctx, m.logger, opts.strict, checks...)
	return err
}
