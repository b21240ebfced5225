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

package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/NVIDIA/gpu-operator-component/cmd/gpuop-component/install"
	"github.com/NVIDIA/gpu-operator-component/cmd/gpuop-component/render"
	"github.com/NVIDIA/gpu-operator-component/cmd/gpuop-component/schema"
	"github.com/NVIDIA/gpu-operator-component/cmd/gpuop-component/uninstall"
	"github.com/NVIDIA/gpu-operator-component/cmd/gpuop-component/values"
	"github.com/NVIDIA/gpu-operator-component/internal/info"
)

var logger = log.New()

type config struct {
	Debug bool
}

func main() {
	config := config{}

	// Create the top-level CLI
	c := cli.NewApp()
	c.Name = "gpuop-component"
	c.Usage = "Deploy the NVIDIA GPU Operator Helm chart"
	c.Version = info.GetVersionString()

	// Setup the flags for this command
	c.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:        "debug",
			Aliases:     []string{"d"},
			Usage:       "Enable debug-level logging",
			Destination: &config.Debug,
			EnvVars:     []string{"DEBUG"},
		},
	}

	// Set log-level for all subcommands
	c.Before = func(c *cli.Context) error {
		logLevel := log.InfoLevel
		zapLevel := zapcore.InfoLevel
		if config.Debug {
			logLevel = log.DebugLevel
			zapLevel = zapcore.DebugLevel
		}
		logger.SetLevel(logLevel)

		opts := zap.Options{
			Level:           zapLevel,
			StacktraceLevel: zapcore.PanicLevel,
			DestWriter:      os.Stderr,
		}
		ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
		return nil
	}

	// Define the subcommands
	c.Commands = []*cli.Command{
		values.NewCommand(logger),
		render.NewCommand(logger),
		install.NewCommand(logger),
		uninstall.NewCommand(logger),
		schema.NewCommand(logger),
		{
			Name:  "version",
			Usage: "Print the version",
			Action: func(c *cli.Context) error {
				_, err := fmt.Fprintln(c.App.Writer, info.GetVersionString())
				return err
			},
		},
	}

	err := c.Run(os.Args)
	if err != nil {
		log.Errorf("%v", err)
		log.Exit(1)
	}
}
