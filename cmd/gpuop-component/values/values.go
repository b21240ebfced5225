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

package values

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/NVIDIA/gpu-operator-component/internal/values"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

type command struct {
	logger *logrus.Logger
}

type options struct {
	output string
	fields bool
}

// NewCommand constructs a values command with the specified logger
func NewCommand(logger *logrus.Logger) *cli.Command {
	c := command{
		logger: logger,
	}
	return c.build()
}

// build creates the CLI command
func (m command) build() *cli.Command {
	opts := options{}

	// Create the 'values' command
	c := cli.Command{
		Name:  "values",
		Usage: "Print the Helm values the GPU Operator chart is deployed with",
		Before: func(c *cli.Context) error {
			return m.validateFlags(c, &opts)
		},
		Action: func(c *cli.Context) error {
			return m.run(c.App.Writer, &opts)
		},
	}

	c.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output format, one of: yaml, json",
			Value:       outputYAML,
			Destination: &opts.output,
		},
		&cli.BoolFlag{
			Name:        "fields",
			Usage:       "Print the DCGM fields collected by dcgm-exporter instead of the values",
			Destination: &opts.fields,
		},
	}

	return &c
}

func (m command) validateFlags(c *cli.Context, opts *options) error {
	switch opts.output {
	case outputYAML, outputJSON:
		return nil
	}
	return fmt.Errorf("invalid output format %q", opts.output)
}

func (m command) run(w io.Writer, opts *options) error {
	if opts.fields {
		return printFields(w)
	}

	chartValues := values.Compose()

	digest, err := chartValues.Digest()
	if err != nil {
		return fmt.Errorf("failed to compute values digest: %w", err)
	}
	m.logger.Debugf("Values digest: %s", digest)

	var out []byte
	switch opts.output {
	case outputJSON:
		out, err = json.MarshalIndent(chartValues, "", "  ")
		out = append(out, '\n')
	default:
		out, err = chartValues.ToYAML()
	}
	if err != nil {
		return fmt.Errorf("failed to marshal values: %w", err)
	}

	_, err = w.Write(out)
	return err
}

func printFields(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, f := range values.Fields {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.ID, f.Name, f.Help)
	}
	return tw.Flush()
}
