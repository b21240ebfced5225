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

package options

import (
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v2"
	"sigs.k8s.io/yaml"

	"github.com/NVIDIA/gpu-operator-component/internal/validator"
	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

// Args holds the component arguments given on the command line
type Args struct {
	Input     string
	Namespace string
	Version   string

	stdin io.Reader
}

// Flags returns the flags setting a
func (a *Args) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"f"},
			Usage:       "Specify a YAML or JSON file containing the component arguments. If this is '-' the file is read from STDIN",
			Destination: &a.Input,
		},
		&cli.StringFlag{
			Name:        "namespace",
			Aliases:     []string{"n"},
			Usage:       "The namespace to deploy the GPU Operator to. Overrides the input file",
			Destination: &a.Namespace,
			EnvVars:     []string{"NAMESPACE"},
		},
		&cli.StringFlag{
			Name:        "version",
			Usage:       "The GPU Operator chart version to deploy. Overrides the input file",
			Destination: &a.Version,
			EnvVars:     []string{"GPU_OPERATOR_VERSION"},
		},
	}
}

// Load returns the validated component arguments. Values set by flags take
// precedence over the input file.
func (a Args) Load() (component.OperatorArgs, error) {
	args := component.OperatorArgs{}
	if a.Input != "" {
		contents, err := a.getContents()
		if err != nil {
			return args, fmt.Errorf("failed to read file: %w", err)
		}
		if err := yaml.UnmarshalStrict(contents, &args); err != nil {
			return args, fmt.Errorf("failed to unmarshal arguments: %w", err)
		}
	}

	if a.Namespace != "" {
		args.Namespace = a.Namespace
	}
	if a.Version != "" {
		args.Version = a.Version
	}

	if err := validator.NewArgsValidator().Validate(args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

func (a Args) getContents() ([]byte, error) {
	if a.Input == "-" {
		if a.stdin != nil {
			return io.ReadAll(a.stdin)
		}
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(a.Input)
}
