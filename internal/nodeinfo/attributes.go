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

package nodeinfo

import (
	corev1 "k8s.io/api/core/v1"
)

// Node labels used by nodeinfo package
const (
	NodeLabelHostname = "kubernetes.io/hostname"
	NodeLabelCPUArch  = "kubernetes.io/arch"
	// NodeLabelNvidiaPCI is set by NFD on nodes with an NVIDIA PCI device (vendor 10de)
	NodeLabelNvidiaPCI = "feature.node.kubernetes.io/pci-10de.present"
	// NodeLabelNvGPU is set by GPU Feature Discovery once the operator runs
	NodeLabelNvGPU = "nvidia.com/gpu.present"
	// NodeLabelGKEAccelerator is set by GKE on GPU node pools, its value is the GPU type
	NodeLabelGKEAccelerator = "cloud.google.com/gke-accelerator"
)

type AttributeType int

// Attribute type Enum, add new types before Last and update the mapping below
const (
	// required attrs
	AttrTypeHostname = iota
	AttrTypeCPUArch
	// optional attrs
	AttrTypeAccelerator
	OptionalAttrsStart = AttrTypeAccelerator
)

var attrToLabel = []string{
	// AttrTypeHostname
	NodeLabelHostname,
	// AttrTypeCPUArch
	NodeLabelCPUArch,
	// AttrTypeAccelerator
	NodeLabelGKEAccelerator,
}

// NodeAttributes provides attributes of a specific node
type NodeAttributes struct {
	// Node Name
	Name string
	// Node Attributes
	Attributes map[AttributeType]string
}

// newNodeAttributes creates a new NodeAttributes. Missing labels leave the
// attribute unset.
func newNodeAttributes(node *corev1.Node) NodeAttributes {
	attr := NodeAttributes{
		Name:       node.GetName(),
		Attributes: make(map[AttributeType]string),
	}

	nLabels := node.GetLabels()
	for attrType, label := range attrToLabel {
		if val, ok := nLabels[label]; ok {
			attr.Attributes[AttributeType(attrType)] = val
		} else if attrType < OptionalAttrsStart {
			log.V(1).Info("Node is missing a required label", "node", node.GetName(), "label", label)
		}
	}
	return attr
}
