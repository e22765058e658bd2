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
	"errors"
	"io/fs"

	"github.com/pelletier/go-toml"

	"github.com/vasync/vasync/pkg/util"
)

type ProjectKind string

const (
	ProjectKindTaskfile  ProjectKind = "taskfile"
	ProjectKindPythonPip ProjectKind = "python.pip"
	ProjectKindPythonUV  ProjectKind = "python.uv"
	ProjectKindUnknown   ProjectKind = "unknown"
)

func (k ProjectKind) IsPython() bool {
	return k == ProjectKindPythonPip || k == ProjectKindPythonUV
}

// Launchable reports whether the launcher knows how to set up and run this
// kind of directory.
func (k ProjectKind) Launchable() bool {
	return k == ProjectKindTaskfile || k.IsPython()
}

// DetectProjectKind classifies a script directory by its manifest files. A
// taskfile takes precedence over the built-in Python sequence.
func DetectProjectKind(dir fs.FS) (ProjectKind, error) {
	if util.FileExists(dir, TaskFile) {
		return ProjectKindTaskfile, nil
	}

	if util.FileExists(dir, "uv.lock") {
		return ProjectKindPythonUV, nil
	}
	if util.FileExists(dir, RequirementsFile) {
		return ProjectKindPythonPip, nil
	}
	if util.FileExists(dir, "pyproject.toml") {
		data, err := fs.ReadFile(dir, "pyproject.toml")
		if err == nil {
			var doc map[string]any
			if err := toml.Unmarshal(data, &doc); err == nil {
				if tool, ok := doc["tool"].(map[string]any); ok {
					if _, hasUv := tool["uv"]; hasUv {
						return ProjectKindPythonUV, nil
					}
				}
			}
		}
		// any other pyproject.toml is treated as pip-installable
		return ProjectKindPythonPip, nil
	}

	return ProjectKindUnknown, errors.New("expected taskfile.yaml, requirements.txt, uv.lock, or pyproject.toml")
}
