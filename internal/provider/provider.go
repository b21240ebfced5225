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

package provider

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	pulumiprovider "github.com/pulumi/pulumi/sdk/v3/go/pulumi/provider"
	pulumirpc "github.com/pulumi/pulumi/sdk/v3/proto/go"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/validator"
	"github.com/NVIDIA/gpu-operator-component/pkg/gpuoperator"
)

//go:embed schema.json
var schema []byte

// Schema returns the package schema of the component provider
func Schema() []byte {
	return schema
}

// Serve runs the component provider plugin until the engine shuts it down
func Serve(name, version string) error {
	return pulumiprovider.Main(name, providerMaker(name, version))
}

func providerMaker(name, version string) func(*pulumiprovider.HostClient) (pulumirpc.ResourceProviderServer, error) {
	return func(host *pulumiprovider.HostClient) (pulumirpc.ResourceProviderServer, error) {
		return newProvider(host, name, version), nil
	}
}

type componentProvider struct {
	pulumirpc.UnimplementedResourceProviderServer

	host    *pulumiprovider.HostClient
	name    string
	version string
}

func newProvider(host *pulumiprovider.HostClient, name, version string) *componentProvider {
	return &componentProvider{
		host:    host,
		name:    name,
		version: version,
	}
}

// Construct creates a component resource
func (p *componentProvider) Construct(ctx context.Context, req *pulumirpc.ConstructRequest) (*pulumirpc.ConstructResponse, error) {
	return pulumiprovider.Construct(ctx, req, p.host.EngineConn(), construct)
}

// GetSchema returns the package schema
func (p *componentProvider) GetSchema(_ context.Context, req *pulumirpc.GetSchemaRequest) (*pulumirpc.GetSchemaResponse, error) {
	if v := req.GetVersion(); v != 0 {
		return nil, fmt.Errorf("unsupported schema version %d", v)
	}
	return &pulumirpc.GetSchemaResponse{Schema: string(schema)}, nil
}

// GetPluginInfo returns the version of the plugin
func (p *componentProvider) GetPluginInfo(context.Context, *emptypb.Empty) (*pulumirpc.PluginInfo, error) {
	return &pulumirpc.PluginInfo{Version: p.version}, nil
}

// Configure accepts any provider configuration; the component has none of its own
func (p *componentProvider) Configure(context.Context, *pulumirpc.ConfigureRequest) (*pulumirpc.ConfigureResponse, error) {
	return &pulumirpc.ConfigureResponse{
		AcceptSecrets:   true,
		SupportsPreview: true,
		AcceptResources: true,
	}, nil
}

// CheckConfig returns the provider configuration unchanged
func (p *componentProvider) CheckConfig(_ context.Context, req *pulumirpc.CheckRequest) (*pulumirpc.CheckResponse, error) {
	return &pulumirpc.CheckResponse{Inputs: req.GetNews()}, nil
}

// DiffConfig reports no changes to the provider configuration
func (p *componentProvider) DiffConfig(context.Context, *pulumirpc.DiffRequest) (*pulumirpc.DiffResponse, error) {
	return &pulumirpc.DiffResponse{}, nil
}

// Cancel is a no-op; the component holds no long-running operations
func (p *componentProvider) Cancel(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func construct(ctx *pulumi.Context, typ, name string, inputs pulumiprovider.ConstructInputs, options pulumi.ResourceOption) (*pulumiprovider.ConstructResult, error) {
	switch typ {
	case consts.GPUOperatorToken:
		return constructGPUOperator(ctx, name, inputs, options)
	default:
		return nil, fmt.Errorf("unknown resource type %s", typ)
	}
}

func constructGPUOperator(ctx *pulumi.Context, name string, inputs pulumiprovider.ConstructInputs, options pulumi.ResourceOption) (*pulumiprovider.ConstructResult, error) {
	args := &gpuoperator.GPUOperatorArgs{}
	if err := inputs.CopyTo(args); err != nil {
		return nil, fmt.Errorf("setting args: %w", err)
	}

	op, err := newGPUOperator(ctx, name, args, options)
	if err != nil {
		return nil, err
	}
	return pulumiprovider.NewConstructResult(op)
}

// newGPUOperator validates args and registers the component. Nothing is
// registered when args are invalid.
func newGPUOperator(ctx *pulumi.Context, name string, args *gpuoperator.GPUOperatorArgs, opts ...pulumi.ResourceOption) (*gpuoperator.GPUOperator, error) {
	if err := validator.NewArgsValidator().Validate(*args); err != nil {
		return nil, err
	}

	op, err := gpuoperator.NewGPUOperator(ctx, name, args, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating component: %w", err)
	}
	return op, nil
}
