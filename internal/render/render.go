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

// Package render turns a directory of Go-templated manifests into
// unstructured Kubernetes objects.
package render

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"
)

// ManifestFileSuffix lists the extensions picked up as manifest templates
var ManifestFileSuffix = []string{".yaml", ".yml", ".json"}

// Renderer holds a parsed set of manifest templates
type Renderer struct {
	files     []string
	templates []*template.Template
}

// New parses every manifest template under dir in fsys. Templates are
// rendered in lexical file order.
func New(fsys fs.FS, dir string) (*Renderer, error) {
	files, err := ManifestFiles(fsys, dir)
	if err != nil {
		return nil, err
	}
	return NewFromFiles(fsys, files)
}

// NewFromFiles parses the given template files of fsys
func NewFromFiles(fsys fs.FS, files []string) (*Renderer, error) {
	r := &Renderer{files: files}
	for _, file := range files {
		t, err := parse(fsys, file)
		if err != nil {
			return nil, err
		}
		r.templates = append(r.templates, t)
	}
	return r, nil
}

// ManifestFiles returns the manifest templates found under dir, in lexical order
func ManifestFiles(fsys fs.FS, dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isManifest(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests in %s: %w", dir, err)
	}
	return files, nil
}

// Files returns the template files the Renderer was built from
func (r *Renderer) Files() []string {
	return r.files
}

// RenderObjects executes every template with data and decodes the output.
// Documents without a kind are dropped.
func (r *Renderer) RenderObjects(data interface{}) ([]*unstructured.Unstructured, error) {
	var objs []*unstructured.Unstructured
	for i, t := range r.templates {
		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to execute %s: %w", r.files[i], err)
		}
		out, err := decode(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", r.files[i], err)
		}
		objs = append(objs, out...)
	}
	return objs, nil
}

func isManifest(name string) bool {
	for _, s := range ManifestFileSuffix {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func funcs() template.FuncMap {
	toYaml := func(v interface{}) (string, error) {
		out, err := yaml.Marshal(v)
		return string(out), err
	}
	f := sprig.TxtFuncMap()
	f["yaml"] = toYaml
	f["toYaml"] = toYaml
	return f
}

func parse(fsys fs.FS, file string) (*template.Template, error) {
	txt, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	t, err := template.New(path.Base(file)).
		Funcs(funcs()).
		Option("missingkey=error").
		Parse(string(txt))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return t, nil
}

func decode(in io.Reader) ([]*unstructured.Unstructured, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(in))
	var out []*unstructured.Unstructured
	for {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}

		obj := map[string]interface{}{}
		if err := yaml.Unmarshal(doc, &obj); err != nil {
			return nil, err
		}
		u := &unstructured.Unstructured{Object: obj}
		if u.GetKind() == "" {
			continue
		}
		out = append(out, u)
	}
}
