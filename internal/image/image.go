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

package image

import (
	"fmt"
	"os"
	"strings"
)

// ImagePath returns the path of image at version in repository. A version
// prefixed with sha256: is used as a digest instead of a tag.
// The path is obtained using following priority for the repository
// 1. Env repositoryEnvName (eg a mirror in an air-gapped cluster)
// 2. repository
func ImagePath(repository string, image string, version string, repositoryEnvName string) (string, error) {
	if envRepository := os.Getenv(repositoryEnvName); envRepository != "" {
		repository = envRepository
	}
	repository = strings.TrimSuffix(repository, "/")

	if repository == "" || image == "" || version == "" {
		return "", fmt.Errorf("incomplete image path: repository %q, image %q, version %q", repository, image, version)
	}

	// use @ if image digest is specified instead of tag
	if strings.HasPrefix(version, "sha256:") {
		return repository + "/" + image + "@" + version, nil
	}
	return repository + "/" + image + ":" + version, nil
}
