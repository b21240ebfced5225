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
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/utils"
)

const (
	// CollectInterval is how often dcgm-exporter collects the configured fields
	CollectInterval = time.Second
	// PublishInterval is how often dcgm-exporter publishes the collected fields
	PublishInterval = time.Second
)

// ChartValues holds the values passed to the GPU Operator chart.
// Field names follow the chart's values.yaml.
type ChartValues struct {
	HostPaths    HostPathsValues    `json:"hostPaths"`
	Toolkit      ToolkitValues      `json:"toolkit"`
	CDI          CDIValues          `json:"cdi"`
	Driver       DriverValues       `json:"driver"`
	DCGMExporter DCGMExporterValues `json:"dcgmExporter"`
}

// HostPathsValues describes where host components are installed
type HostPathsValues struct {
	// DriverInstallDir is the root at which driver files can be found on the host
	DriverInstallDir string `json:"driverInstallDir"`
}

// ToolkitValues configures the NVIDIA Container Toolkit operand
type ToolkitValues struct {
	InstallDir string `json:"installDir"`
}

// CDIValues configures the Container Device Interface
type CDIValues struct {
	Enabled bool `json:"enabled"`
	// Default makes CDI the default mechanism for GPU access
	Default bool `json:"default"`
}

// DriverValues configures the driver operand
type DriverValues struct {
	Enabled bool `json:"enabled"`
}

// DCGMExporterValues configures the DCGM exporter operand
type DCGMExporterValues struct {
	Enabled        bool                 `json:"enabled"`
	ServiceMonitor ServiceMonitorValues `json:"serviceMonitor"`
	Config         DCGMExporterConfig   `json:"config"`
}

// ServiceMonitorValues toggles the ServiceMonitor for dcgm-exporter
type ServiceMonitorValues struct {
	Enabled bool `json:"enabled"`
}

// DCGMExporterConfig holds the collection settings of dcgm-exporter.
// Intervals are in milliseconds.
type DCGMExporterConfig struct {
	CollectInterval int64   `json:"collectInterval"`
	PublishInterval int64   `json:"publishInterval"`
	FieldIDs        []int64 `json:"fieldIds"`
}

// Compose returns the chart values used for every GPU Operator deployment.
// The result depends on nothing but package constants.
func Compose() *ChartValues {
	return &ChartValues{
		HostPaths: HostPathsValues{
			DriverInstallDir: consts.NvidiaInstallDir,
		},
		Toolkit: ToolkitValues{
			InstallDir: consts.NvidiaInstallDir,
		},
		CDI: CDIValues{
			Enabled: true,
			Default: true,
		},
		Driver: DriverValues{
			Enabled: false,
		},
		DCGMExporter: DCGMExporterValues{
			Enabled: true,
			ServiceMonitor: ServiceMonitorValues{
				Enabled: true,
			},
			Config: DCGMExporterConfig{
				CollectInterval: CollectInterval.Milliseconds(),
				PublishInterval: PublishInterval.Milliseconds(),
				FieldIDs:        FieldIDs(),
			},
		},
	}
}

// ToMap converts the values to the untyped tree expected by Helm
func (v *ChartValues) ToMap() (map[string]interface{}, error) {
	out, err := runtime.DefaultUnstructuredConverter.ToUnstructured(v)
	if err != nil {
		return nil, fmt.Errorf("failed to convert chart values: %w", err)
	}
	return out, nil
}

// ToYAML returns the values as a values.yaml document
func (v *ChartValues) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart values to YAML: %w", err)
	}
	return out, nil
}

// Digest returns a stable hash of the values
func (v *ChartValues) Digest() (string, error) {
	m, err := v.ToMap()
	if err != nil {
		return "", err
	}
	return utils.GetValuesDigest(m)
}
