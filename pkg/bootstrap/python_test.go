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
	"os/exec"
	"strings"
	"testing"
)

func TestParsePythonVersion(t *testing.T) {
	version, err := ParsePythonVersion("Python 3.11.4\n")
	if err != nil {
		t.Fatal("expected version output to parse:", err)
	}
	if version.Major() != 3 || version.Minor() != 11 || version.Patch() != 4 {
		t.Error("parsed wrong version:", version)
	}

	if _, err := ParsePythonVersion("zsh: command not found: python"); err == nil {
		t.Error("expected garbage output to fail")
	}
	if _, err := ParsePythonVersion(""); err == nil {
		t.Error("expected empty output to fail")
	}
}

func TestFindPythonPrefersPython3(t *testing.T) {
	lookPath := func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}
	bin, err := findPython(lookPath)
	if err != nil {
		t.Fatal(err)
	}
	if bin != "/usr/bin/python3" {
		t.Error("expected python3 to win, got", bin)
	}

	// fall back to python when python3 is absent
	lookPath = func(name string) (string, error) {
		if name == "python" {
			return "/usr/bin/python", nil
		}
		return "", exec.ErrNotFound
	}
	bin, err = findPython(lookPath)
	if err != nil {
		t.Fatal(err)
	}
	if bin != "/usr/bin/python" {
		t.Error("expected fallback to python, got", bin)
	}

	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	if _, err := findPython(lookPath); err != ErrInterpreterNotFound {
		t.Error("expected ErrInterpreterNotFound, got", err)
	}
}

func TestActivateEnv(t *testing.T) {
	base := []string{
		"HOME=/home/user",
		"PATH=/usr/bin:/bin",
		"VIRTUAL_ENV=/old/venv",
	}
	env := ActivateEnv("/work/venv", base)

	var gotPath, gotVenv string
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			gotPath = v
		}
		if v, ok := strings.CutPrefix(kv, "VIRTUAL_ENV="); ok {
			gotVenv = v
		}
	}

	if !strings.HasPrefix(gotPath, VenvBinDir("/work/venv")) {
		t.Error("venv bin dir should be first on PATH, got", gotPath)
	}
	if !strings.Contains(gotPath, "/usr/bin:/bin") {
		t.Error("original PATH entries should be preserved, got", gotPath)
	}
	if gotVenv != "/work/venv" {
		t.Error("VIRTUAL_ENV should point at the new venv, got", gotVenv)
	}
}

func TestActivateEnvWithoutPath(t *testing.T) {
	env := ActivateEnv("/work/venv", []string{"HOME=/home/user"})
	var found bool
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			found = true
		}
	}
	if !found {
		t.Error("a PATH entry should be synthesized when the base has none")
	}
}
