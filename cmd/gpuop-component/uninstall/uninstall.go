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

package uninstall

import (
	"fmt"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/NVIDIA/gpu-operator-component/cmd/gpuop-component/options"
	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/registrar/helm"
)

type command struct {
	logger *logrus.Logger
}

type remover interface {
	Remove(namespace, name string) error
}

type uninstallOptions struct {
	kube      options.Kube
	namespace string
}

// NewCommand constructs an uninstall command with the specified logger
func NewCommand(logger *logrus.Logger) *cli.Command {
	c := command{
		logger: logger,
	}
	return c.build()
}

// build creates the CLI command
func (m command) build() *cli.Command {
	opts := uninstallOptions{}

	// Create the 'uninstall' command
	c := cli.Command{
		Name:  "uninstall",
		Usage: "Uninstall the GPU Operator release from a cluster",
		Before: func(c *cli.Context) error {
			return m.validateFlags(c, &opts)
		},
		Action: func(c *cli.Context) error {
			return m.run(c, &opts)
		},
	}

	c.Flags = append(opts.kube.Flags(),
		&cli.StringFlag{
			Name:        "namespace",
			Aliases:     []string{"n"},
			Usage:       "The namespace the GPU Operator is deployed to",
			Destination: &opts.namespace,
			EnvVars:     []string{"NAMESPACE"},
		},
	)

	return &c
}

func (m command) validateFlags(c *cli.Context, opts *uninstallOptions) error {
	if opts.namespace == "" {
		return fmt.Errorf("--namespace is required")
	}
	return nil
}

func (m command) run(c *cli.Context, opts *uninstallOptions) error {
	kubeconfig, err := opts.kube.RawKubeconfig()
	if err != nil {
		return err
	}

	registrar := helm.NewRegistrar(
		helm.NewClientFactory(kubeconfig, opts.kube.Context, m.logger),
		helm.WithLogger(m.logger),
	)
	return m.uninstall(registrar, opts.namespace)
}

func (m command) uninstall(r remover, namespace string) error {
	if err := r.Remove(namespace, consts.ReleaseName); err != nil {
		return fmt.Errorf("failed to uninstall %s/%s: %w", namespace, consts.ReleaseName, err)
	}

	m.logger.Infof("Uninstalled %s/%s", namespace, consts.ReleaseName)
	return nil
}
