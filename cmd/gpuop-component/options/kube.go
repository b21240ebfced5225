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

	cli "github.com/urfave/cli/v2"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Kube holds the cluster connection settings
type Kube struct {
	Kubeconfig string
	Context    string
}

// Flags returns the flags setting k
func (k *Kube) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "kubeconfig",
			Usage:       "Path to the kubeconfig file. Defaults to the KUBECONFIG environment variable or ~/.kube/config",
			Destination: &k.Kubeconfig,
		},
		&cli.StringFlag{
			Name:        "kube-context",
			Usage:       "The kubeconfig context to use. Defaults to the current context",
			Destination: &k.Context,
		},
	}
}

func (k Kube) clientConfig() clientcmd.ClientConfig {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if k.Kubeconfig != "" {
		rules.ExplicitPath = k.Kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: k.Context}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)
}

// RESTConfig returns the client configuration of the selected context
func (k Kube) RESTConfig() (*rest.Config, error) {
	config, err := k.clientConfig().ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return config, nil
}

// RawKubeconfig returns the merged kubeconfig serialized back to YAML
func (k Kube) RawKubeconfig() ([]byte, error) {
	raw, err := k.clientConfig().RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	contents, err := clientcmd.Write(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}
	return contents, nil
}
