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

package gpuoperator

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	pulumiregistrar "github.com/NVIDIA/gpu-operator-component/internal/registrar/pulumi"
	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

// GPUOperatorArgs are the inputs of the GPUOperator component
type GPUOperatorArgs = component.OperatorArgs

// GPUOperator deploys the NVIDIA GPU Operator Helm chart
type GPUOperator struct {
	pulumi.ResourceState

	// Namespace the operator was deployed to
	Namespace pulumi.StringOutput `pulumi:"namespace"`
}

// NewGPUOperator registers a GPUOperator component and its Helm release.
// Missing arguments fail before anything is registered.
// Providers passed in opts are inherited by the release.
func NewGPUOperator(ctx *pulumi.Context, name string, args *GPUOperatorArgs, opts ...pulumi.ResourceOption) (*GPUOperator, error) {
	if args == nil {
		args = &GPUOperatorArgs{}
	}
	if err := args.Validate(); err != nil {
		return nil, err
	}

	op := &GPUOperator{}
	if err := ctx.RegisterComponentResource(consts.GPUOperatorToken, name, op, opts...); err != nil {
		return nil, err
	}

	deployed, err := component.New(ctx.Context(), pulumiregistrar.NewRegistrar(ctx, op), name, *args)
	if err != nil {
		return nil, err
	}
	op.Namespace = pulumi.String(deployed.Namespace()).ToStringOutput()

	if err := ctx.RegisterResourceOutputs(op, pulumi.Map{
		"namespace": op.Namespace,
	}); err != nil {
		return nil, err
	}
	return op, nil
}
