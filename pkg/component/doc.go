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

// Package component implements the GPU Operator component: it composes the
// GPU Operator chart values and declares a single Helm release for them
// through a ResourceRegistrar.
//
// The component owns no state. Everything that happens after the release is
// declared (diffing, applying, deleting) belongs to the registrar and the
// engine behind it.
package component
