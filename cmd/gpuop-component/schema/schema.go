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

package schema

import (
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/NVIDIA/gpu-operator-component/internal/provider"
)

type command struct {
	logger *logrus.Logger
}

// NewCommand constructs a schema command with the specified logger
func NewCommand(logger *logrus.Logger) *cli.Command {
	c := command{
		logger: logger,
	}
	return c.build()
}

// build creates the CLI command
func (m command) build() *cli.Command {
	// Create the 'schema' command
	c := cli.Command{
		Name:  "schema",
		Usage: "Print the Pulumi package schema of the component provider",
		Action: func(c *cli.Context) error {
			_, err := c.App.Writer.Write(provider.Schema())
			return err
		},
	}

	return &c
}
