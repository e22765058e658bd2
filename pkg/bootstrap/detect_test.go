// Copyright 2025 Vasync Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"testing"
	"testing/fstest"
)

func TestDetectProjectKind(t *testing.T) {
	cases := []struct {
		name     string
		files    []string
		expected ProjectKind
	}{
		{"requirements", []string{"requirements.txt", "main.py"}, ProjectKindPythonPip},
		{"uv lock", []string{"uv.lock", "pyproject.toml"}, ProjectKindPythonUV},
		{"taskfile wins", []string{"taskfile.yaml", "requirements.txt"}, ProjectKindTaskfile},
		{"plain pyproject", []string{"pyproject.toml"}, ProjectKindPythonPip},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := fstest.MapFS{}
			for _, f := range tc.files {
				dir[f] = &fstest.MapFile{Data: []byte{}}
			}
			kind, err := DetectProjectKind(dir)
			if err != nil {
				t.Fatal(err)
			}
			if kind != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, kind)
			}
			if !kind.Launchable() {
				t.Errorf("%s should be launchable", kind)
			}
		})
	}
}

func TestDetectProjectKindUVTool(t *testing.T) {
	dir := fstest.MapFS{
		"pyproject.toml": &fstest.MapFile{Data: []byte("[tool.uv]\ndev-dependencies = []\n")},
	}
	kind, err := DetectProjectKind(dir)
	if err != nil {
		t.Fatal(err)
	}
	if kind != ProjectKindPythonUV {
		t.Error("a [tool.uv] section should classify as uv, got", kind)
	}
}

func TestDetectProjectKindUnknown(t *testing.T) {
	dir := fstest.MapFS{
		"readme.md": &fstest.MapFile{Data: []byte{}},
	}
	kind, err := DetectProjectKind(dir)
	if err == nil {
		t.Error("expected an error for an unlaunchable directory")
	}
	if kind != ProjectKindUnknown {
		t.Error("expected unknown kind, got", kind)
	}
	if kind.Launchable() {
		t.Error("unknown kind must not be launchable")
	}
}
