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

package render

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/NVIDIA/gpu-operator-component/cmd/gpuop-component/options"
	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/registrar/manifest"
	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

type command struct {
	logger *logrus.Logger
}

type renderOptions struct {
	args                options.Args
	controllerNamespace string
	output              string
}

// NewCommand constructs a render command with the specified logger
func NewCommand(logger *logrus.Logger) *cli.Command {
	c := command{
		logger: logger,
	}
	return c.build()
}

// build creates the CLI command
func (m command) build() *cli.Command {
	opts := renderOptions{}

	// Create the 'render' command
	c := cli.Command{
		Name:  "render",
		Usage: "Render the GPU Operator release as a HelmChart manifest for the k3s/RKE2 helm-controller",
		Action: func(c *cli.Context) error {
			return m.run(c.Context, c.App.Writer, &opts)
		},
	}

	c.Flags = append(opts.args.Flags(),
		&cli.StringFlag{
			Name:        "controller-namespace",
			Usage:       "The namespace watched by the helm-controller",
			Value:       "kube-system",
			Destination: &opts.controllerNamespace,
		},
		&cli.StringFlag{
			Name:        "output-file",
			Usage:       "Write the manifest to this file. If this is '-' it is written to STDOUT",
			Value:       "-",
			Destination: &opts.output,
		},
	)

	return &c
}

func (m command) run(ctx context.Context, stdout io.Writer, opts *renderOptions) error {
	args, err := opts.args.Load()
	if err != nil {
		return err
	}

	r, err := manifest.NewRegistrar(
		manifest.WithLogger(m.logger),
		manifest.WithControllerNamespace(opts.controllerNamespace),
	)
	if err != nil {
		return fmt.Errorf("failed to create manifest registrar: %w", err)
	}

	op, err := component.New(ctx, r, consts.ReleaseName, args)
	if err != nil {
		return err
	}
	m.logger.Infof("Rendered %s (values digest %s)", op.Release().ResourceName(), op.ValuesDigest())

	return writeManifest(stdout, opts.output, r)
}

func writeManifest(stdout io.Writer, output string, w io.WriterTo) error {
	if output == "-" {
		_, err := w.WriteTo(stdout)
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
