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

package info

import "fmt"

var (
	version   = "0.0.0-dev"
	gitCommit = ""
)

// GetVersion returns the version set at build time through -ldflags
func GetVersion() string {
	return version
}

// GetVersionString returns a human readable version string including the git commit, if known
func GetVersionString() string {
	if gitCommit == "" {
		return version
	}
	return fmt.Sprintf("%s (commit: %s)", version, gitCommit)
}
