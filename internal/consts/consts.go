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

package consts

/*
  This package contains constants used throughout the projects and does not fall into a particular package
*/

const (
	// ProviderName is the name the component provider plugin registers with the engine
	ProviderName = "gpu-operator-component"
	// GPUOperatorToken is the type token of the GPUOperator component resource
	GPUOperatorToken = ProviderName + ":index:GPUOperator"

	// ChartName is the name of the GPU Operator Helm chart
	ChartName = "gpu-operator"
	// ChartRepository is the NGC Helm repository hosting the GPU Operator chart
	ChartRepository = "https://helm.ngc.nvidia.com/nvidia"
	// ChartRepositoryName is the local alias used when the repository is added to a Helm client
	ChartRepositoryName = "nvidia"
	// ReleaseName is the name of the Helm release (and of the child resource)
	ReleaseName = "gpu-operator"
	// HelmReleaseKind is the kind of the declared child resource
	HelmReleaseKind = "kubernetes:helm.sh/v3:Release"

	// NvidiaInstallDir is where the host driver and container toolkit are found.
	// It matches the layout of GKE Container-Optimized OS nodes with preinstalled drivers.
	NvidiaInstallDir = "/home/kubernetes/bin/nvidia"

	// OperatorRepository is the registry path hosting the GPU Operator image
	OperatorRepository = "nvcr.io/nvidia"
	// OperatorImage is the GPU Operator image; its tags follow the chart versions
	OperatorImage = "gpu-operator"
	// OperatorRepositoryEnvName overrides OperatorRepository, e.g. for a mirror registry
	OperatorRepositoryEnvName = "GPU_OPERATOR_REPOSITORY"

	// ValuesDigestKey is the label/annotation carrying the digest of the composed chart values
	ValuesDigestKey = "nvidia.com/gpu-operator-values-digest"
)
