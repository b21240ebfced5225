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

package utils

import (
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
	"k8s.io/apimachinery/pkg/util/rand"
	"sigs.k8s.io/yaml"
)

var spewPrinter = spew.ConfigState{
	Indent:         " ",
	SortKeys:       true,
	DisableMethods: true,
	SpewKeys:       true,
}

// GetObjectHash returns an FNV-32a hash of the full object (all fields).
func GetObjectHash(obj interface{}) string {
	hasher := fnv.New32a()
	spewPrinter.Fprintf(hasher, "%#v", obj)
	return fmt.Sprint(hasher.Sum32())
}

// GetValuesDigest returns a hash of a Helm values tree that is stable across
// serialization. Values are normalized through a JSON round trip first, so the
// digest of freshly composed values matches the digest of the same values read
// back from a stored Helm release (where all numbers are float64).
func GetValuesDigest(values map[string]interface{}) (string, error) {
	normalized, err := NormalizeValues(values)
	if err != nil {
		return "", err
	}
	return rand.SafeEncodeString(GetObjectHash(normalized)), nil
}

// NormalizeValues converts a values tree to the representation produced by a
// JSON decoder.
func NormalizeValues(values map[string]interface{}) (map[string]interface{}, error) {
	if values == nil {
		return map[string]interface{}{}, nil
	}
	raw, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal values: %w", err)
	}
	normalized := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("failed to unmarshal values: %w", err)
	}
	return normalized, nil
}

// GetStringHash returns a short, DNS-safe hash of s
func GetStringHash(s string) string {
	hasher := fnv.New32a()
	if _, err := hasher.Write([]byte(s)); err != nil {
		panic(err)
	}
	return rand.SafeEncodeString(fmt.Sprint(hasher.Sum32()))
}
