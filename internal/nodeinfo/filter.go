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

import corev1 "k8s.io/api/core/v1"

// A Filter applies a filter on a list of Nodes
type Filter interface {
	// Apply filters a list of nodes according to some internal predicate
	Apply([]*corev1.Node) []*corev1.Node
}

// A node label filter matching nodes carrying all of its labels. use
// NewNodeLabelFilterBuilder to create instances
type nodeLabelFilter struct {
	labels map[string]string
}

// Apply Filter on Nodes
func (nlf *nodeLabelFilter) Apply(nodes []*corev1.Node) (filtered []*corev1.Node) {
NextIter:
	for _, node := range nodes {
		nodeLabels := node.GetLabels()
		for k, v := range nlf.labels {
			if nodeLabelVal, ok := nodeLabels[k]; !ok || nodeLabelVal != v {
				continue NextIter
			}
		}
		filtered = append(filtered, node)
	}
	return filtered
}

// NodeLabelFilterBuilder is a builder for nodeLabelFilter
type NodeLabelFilterBuilder struct {
	filter nodeLabelFilter
}

// NewNodeLabelFilterBuilder returns a new NodeLabelFilterBuilder
func NewNodeLabelFilterBuilder() *NodeLabelFilterBuilder {
	return &NodeLabelFilterBuilder{filter: nodeLabelFilter{labels: make(map[string]string)}}
}

// WithLabel adds a label for the Build process of the Label filter
func (b *NodeLabelFilterBuilder) WithLabel(key, val string) *NodeLabelFilterBuilder {
	b.filter.labels[key] = val
	return b
}

// Build the Filter
func (b *NodeLabelFilterBuilder) Build() Filter {
	return &b.filter
}

// anyFilter matches nodes matched by at least one of its filters
type anyFilter []Filter

// Apply Filter on Nodes, keeping the order of nodes
func (af anyFilter) Apply(nodes []*corev1.Node) (filtered []*corev1.Node) {
	matched := make(map[*corev1.Node]bool)
	for _, f := range af {
		for _, node := range f.Apply(nodes) {
			matched[node] = true
		}
	}
	for _, node := range nodes {
		if matched[node] {
			filtered = append(filtered, node)
		}
	}
	return filtered
}

// Any returns a Filter matching nodes matched by any of filters
func Any(filters ...Filter) Filter {
	return anyFilter(filters)
}

// labelPresentFilter matches nodes carrying a label, whatever its value
type labelPresentFilter string

// Apply Filter on Nodes
func (key labelPresentFilter) Apply(nodes []*corev1.Node) (filtered []*corev1.Node) {
	for _, node := range nodes {
		if _, ok := node.GetLabels()[string(key)]; ok {
			filtered = append(filtered, node)
		}
	}
	return filtered
}

// GPUNodeFilter matches nodes known to have NVIDIA GPUs, either from NFD,
// GPU Feature Discovery or GKE node pool labels
func GPUNodeFilter() Filter {
	return Any(
		NewNodeLabelFilterBuilder().WithLabel(NodeLabelNvidiaPCI, "true").Build(),
		NewNodeLabelFilterBuilder().WithLabel(NodeLabelNvGPU, "true").Build(),
		labelPresentFilter(NodeLabelGKEAccelerator),
	)
}
