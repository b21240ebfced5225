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

package manifest

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	"github.com/NVIDIA/gpu-operator-component/internal/consts"
	"github.com/NVIDIA/gpu-operator-component/internal/render"
	"github.com/NVIDIA/gpu-operator-component/internal/utils"
	"github.com/NVIDIA/gpu-operator-component/pkg/component"
)

// DefaultControllerNamespace is where the helm-controller of k3s and RKE2 watches HelmChart objects
const DefaultControllerNamespace = "kube-system"

//go:embed templates
var templates embed.FS

// Registrar declares Helm releases as helm.cattle.io/v1 HelmChart objects
// instead of installing them. The objects can be written out and applied by
// a helm-controller or committed to a GitOps repository.
type Registrar struct {
	logger              *logrus.Logger
	controllerNamespace string
	renderer            *render.Renderer
	objects             []*unstructured.Unstructured
}

// Option configures a Registrar
type Option func(*Registrar)

// WithLogger sets the logger of the Registrar
func WithLogger(logger *logrus.Logger) Option {
	return func(r *Registrar) {
		r.logger = logger
	}
}

// WithControllerNamespace sets the namespace of the rendered HelmChart objects
func WithControllerNamespace(namespace string) Option {
	return func(r *Registrar) {
		r.controllerNamespace = namespace
	}
}

// NewRegistrar creates a Registrar rendering the embedded HelmChart template
func NewRegistrar(opts ...Option) (*Registrar, error) {
	renderer, err := render.New(templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	r := &Registrar{
		logger:              logrus.StandardLogger(),
		controllerNamespace: DefaultControllerNamespace,
		renderer:            renderer,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

type helmChartData struct {
	Name                string
	ControllerNamespace string
	ManagedBy           string
	DigestKey           string
	Digest              string
	Namespace           string
	CreateNamespace     bool
	Chart               component.ChartRef
	Values              map[string]interface{}
}

type objectHandle struct {
	obj *unstructured.Unstructured
}

func (h objectHandle) ResourceName() string {
	return h.obj.GetNamespace() + "/" + h.obj.GetName()
}

// DeclareChildResource renders res and keeps the resulting objects
func (r *Registrar) DeclareChildResource(_ context.Context, res *component.ChildResource) (component.ResourceHandle, error) {
	if res.Kind != consts.HelmReleaseKind {
		return nil, fmt.Errorf("unsupported resource kind %q", res.Kind)
	}

	digest, err := utils.GetValuesDigest(res.Values)
	if err != nil {
		return nil, err
	}

	data := &helmChartData{
		Name:                res.Name,
		ControllerNamespace: r.controllerNamespace,
		ManagedBy:           consts.ProviderName,
		DigestKey:           consts.ValuesDigestKey,
		Digest:              digest,
		Namespace:           res.Namespace,
		CreateNamespace:     res.CreateNamespace,
		Chart:               res.Chart,
		Values:              res.Values,
	}

	objs, err := r.renderer.RenderObjects(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", res.Name, err)
	}
	if len(objs) != 1 {
		return nil, fmt.Errorf("expected a single object for %s, rendered %d", res.Name, len(objs))
	}

	r.logger.Debugf("Rendered %s %s/%s (chart %s %s)", objs[0].GetKind(), objs[0].GetNamespace(), objs[0].GetName(), res.Chart.Name, res.Chart.Version)
	r.objects = append(r.objects, objs[0])
	return objectHandle{obj: objs[0]}, nil
}

// Objects returns the objects declared so far
func (r *Registrar) Objects() []*unstructured.Unstructured {
	return r.objects
}

// WriteTo writes all declared objects to w as a multi-document YAML stream
func (r *Registrar) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for i, obj := range r.objects {
		if i > 0 {
			buf.WriteString("---\n")
		}
		out, err := yaml.Marshal(obj.Object)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal %s: %w", obj.GetName(), err)
		}
		buf.Write(out)
	}
	return buf.WriteTo(w)
}
