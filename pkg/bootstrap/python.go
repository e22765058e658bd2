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
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var ErrInterpreterNotFound = errors.New("python interpreter not found")

// python3 is preferred; plain python is the Windows convention.
var pythonNames = []string{"python3", "python"}

func findPython(lookPath func(string) (string, error)) (string, error) {
	for _, name := range pythonNames {
		if bin, err := lookPath(name); err == nil {
			return bin, nil
		}
	}
	return "", ErrInterpreterNotFound
}

// ParsePythonVersion extracts a semver from `python --version` output,
// which looks like "Python 3.11.4".
func ParsePythonVersion(output string) (*semver.Version, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "python") {
		return nil, fmt.Errorf("unrecognized version output %q", strings.TrimSpace(output))
	}
	version, err := semver.NewVersion(fields[1])
	if err != nil {
		return nil, fmt.Errorf("unrecognized python version %q: %w", fields[1], err)
	}
	return version, nil
}

// PythonVersion runs the interpreter's version query.
func PythonVersion(ctx context.Context, bin string) (*semver.Version, error) {
	// older interpreters print the version to stderr
	out, err := exec.CommandContext(ctx, bin, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s --version: %w", bin, err)
	}
	return ParsePythonVersion(string(out))
}

// VenvBinDir returns the script directory inside a virtual environment.
func VenvBinDir(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts")
	}
	return filepath.Join(venvPath, "bin")
}

// VenvPython returns the interpreter path inside a virtual environment.
func VenvPython(venvPath string) string {
	bin := "python"
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	return filepath.Join(VenvBinDir(venvPath), bin)
}

// ActivateEnv returns a copy of base with the environment a venv activate
// script would set: VIRTUAL_ENV, and the venv script directory first on
// PATH. Child processes started with it resolve python and pip inside the
// environment.
func ActivateEnv(venvPath string, base []string) []string {
	env := make([]string, 0, len(base)+2)
	binDir := VenvBinDir(venvPath)

	pathSeen := false
	for _, kv := range base {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			env = append(env, kv)
			continue
		}
		switch strings.ToUpper(key) {
		case "VIRTUAL_ENV":
			continue
		case "PATH":
			pathSeen = true
			env = append(env, key+"="+binDir+string(filepath.ListSeparator)+value)
		default:
			env = append(env, kv)
		}
	}
	if !pathSeen {
		env = append(env, "PATH="+binDir)
	}
	env = append(env, "VIRTUAL_ENV="+venvPath)
	return env
}
