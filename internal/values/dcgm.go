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

// DCGMField is a DCGM field exported as a metric by dcgm-exporter
type DCGMField struct {
	ID   int64
	Name string
	Help string
}

// Fields lists the DCGM fields collected by dcgm-exporter, in the order they
// are passed to the chart.
var Fields = []DCGMField{
	{ID: 1001, Name: "DCGM_FI_DEV_GPU_UTIL", Help: "GPU utilization (in %)"},
	{ID: 1005, Name: "DCGM_FI_DEV_MEM_COPY_UTIL", Help: "Memory utilization (in %)"},
	{ID: 1002, Name: "DCGM_FI_DEV_SM_CLOCK", Help: "SM clock frequency (in MHz)"},
	{ID: 1004, Name: "DCGM_FI_DEV_POWER_USAGE", Help: "Power draw (in W)"},
	{ID: 1013, Name: "DCGM_FI_DEV_GPU_TEMP", Help: "GPU temperature (in C)"},
	{ID: 1018, Name: "DCGM_FI_DEV_MEMORY_TEMP", Help: "Memory temperature (in C)"},
	{ID: 1010, Name: "DCGM_FI_DEV_PCIE_REPLAY_COUNTER", Help: "Total number of PCIe retries"},
}

// FieldIDs returns the IDs of Fields
func FieldIDs() []int64 {
	ids := make([]int64, 0, len(Fields))
	for _, f := range Fields {
		ids = append(ids, f.ID)
	}
	return ids
}

// MetricNames returns the names of Fields
func MetricNames() []string {
	names := make([]string, 0, len(Fields))
	for _, f := range Fields {
		names = append(names, f.Name)
	}
	return names
}
