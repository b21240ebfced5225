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

package validator

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

// Validator checks component arguments before anything is declared
type Validator interface {
	Validate(args component.OperatorArgs) error
}

type argsValidator struct{}

// NewArgsValidator returns a Validator checking that the namespace is a valid
// Kubernetes namespace name and the version a semantic version
func NewArgsValidator() Validator {
	return argsValidator{}
}

// Validate returns all problems found in args joined into a single error
func (argsValidator) Validate(args component.OperatorArgs) error {
	if err := args.Validate(); err != nil {
		return err
	}

	var errs []error
	if msgs := validation.IsDNS1123Label(args.Namespace); len(msgs) > 0 {
		errs = append(errs, fmt.Errorf("invalid namespace %q: %s", args.Namespace, strings.Join(msgs, "; ")))
	}
	if err := ValidateVersion(args.Version); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateVersion checks that version is a semantic version. The leading 'v'
// used by GPU Operator releases is optional.
func ValidateVersion(version string) error {
	if !semver.IsValid(CanonicalVersion(version)) {
		return fmt.Errorf("invalid version %q: not a semantic version", version)
	}
	return nil
}

// CanonicalVersion returns version with a leading 'v'
func CanonicalVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
