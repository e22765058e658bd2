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

// Package bootstrap prepares a Python script directory for execution and
// hands control to its entry point: interpreter check, idempotent venv
// creation, dependency install, launch. The sequence reproduces the batch
// launcher the legacy tool shipped with, including its permissive error
// handling: only a missing interpreter halts the run.
package bootstrap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-task/task/v3"
	"github.com/go-task/task/v3/taskfile/ast"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vasync/vasync/pkg/logger"
)

const (
	VenvDir           = "venv"
	RequirementsFile  = "requirements.txt"
	DefaultEntrypoint = "main.py"
	TaskFile          = "taskfile.yaml"
	EnvFile           = ".env"
	EnvExampleFile    = ".env.example"
)

const (
	TaskInstall = "install"
	TaskRun     = "run"
)

// Launcher runs the setup-and-launch sequence for one script directory.
type Launcher struct {
	Dir        string
	Kind       ProjectKind
	Entrypoint string
	// MinPython, when set, turns the presence-only interpreter check into
	// a version gate.
	MinPython *semver.Version
	NoPause   bool
	Verbose   bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// test seams
	lookPath func(string) (string, error)
	version  func(context.Context, string) (*semver.Version, error)
	runCmd   func(*exec.Cmd) error
	stdinTTY func() bool
}

func NewLauncher(dir string, kind ProjectKind) *Launcher {
	return &Launcher{
		Dir:        dir,
		Kind:       kind,
		Entrypoint: DefaultEntrypoint,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		lookPath:   exec.LookPath,
		version:    PythonVersion,
		runCmd:     func(cmd *exec.Cmd) error { return cmd.Run() },
		stdinTTY: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
}

// Run performs the full bootstrap sequence. Every path through it, the
// interpreter-check failure included, ends with a single pause so terminal
// output stays readable before a window closes.
//
// Dependency installation failures are reported but never gate the launch,
// and the entry point's exit status is reported without changing the
// launcher's own. That permissiveness is deliberate; the launcher's only
// hard requirement is a working interpreter.
func (l *Launcher) Run(ctx context.Context) error {
	defer l.pause()

	python, err := findPython(l.lookPath)
	if err != nil {
		fmt.Fprintln(l.Stderr, "Python was not found on PATH. Install Python 3 and try again.")
		return err
	}
	version, err := l.version(ctx, python)
	if err != nil {
		fmt.Fprintln(l.Stderr, "Python did not report a usable version:", err)
		return fmt.Errorf("%w: %s", ErrInterpreterNotFound, err)
	}
	fmt.Fprintf(l.Stdout, "Using %s (Python %s)\n", python, version)

	if l.MinPython != nil && version.LessThan(l.MinPython) {
		fmt.Fprintf(l.Stderr, "Python %s is below the required minimum %s\n", version, l.MinPython)
		return fmt.Errorf("python %s is older than required %s", version, l.MinPython)
	}

	switch {
	case l.Kind == ProjectKindTaskfile:
		l.runTaskfile(ctx)
	case l.Kind == ProjectKindPythonUV && CommandExists("uv"):
		l.runUV(ctx)
	default:
		l.runVenv(ctx, python)
	}

	return nil
}

// runVenv is the transliterated batch sequence: ensure venv, activate,
// upgrade pip, install requirements, launch.
func (l *Launcher) runVenv(ctx context.Context, python string) {
	venvPath := filepath.Join(l.Dir, VenvDir)
	if _, err := os.Stat(venvPath); os.IsNotExist(err) {
		fmt.Fprintln(l.Stdout, "Creating virtual environment...")
		if err := l.command(ctx, nil, python, "-m", "venv", VenvDir); err != nil {
			fmt.Fprintln(l.Stderr, "Failed to create virtual environment:", err)
		}
	} else {
		logger.Debugw("reusing virtual environment", "path", venvPath)
	}

	env := ActivateEnv(venvPath, os.Environ())
	venvPython := VenvPython(venvPath)

	if err := l.command(ctx, env, venvPython, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		fmt.Fprintln(l.Stderr, "pip upgrade failed:", err)
	}
	if err := l.command(ctx, env, venvPython, "-m", "pip", "install", "-r", RequirementsFile); err != nil {
		// install failures do not gate the launch
		fmt.Fprintln(l.Stderr, "Dependency installation failed:", err)
	}

	fmt.Fprintf(l.Stdout, "Starting %s...\n", l.Entrypoint)
	if err := l.command(ctx, env, venvPython, l.Entrypoint); err != nil {
		fmt.Fprintf(l.Stderr, "%s exited with error: %v\n", l.Entrypoint, err)
	}
}

func (l *Launcher) runUV(ctx context.Context) {
	if err := l.command(ctx, nil, "uv", "sync"); err != nil {
		fmt.Fprintln(l.Stderr, "uv sync failed:", err)
	}
	fmt.Fprintf(l.Stdout, "Starting %s...\n", l.Entrypoint)
	if err := l.command(ctx, nil, "uv", "run", l.Entrypoint); err != nil {
		fmt.Fprintf(l.Stderr, "%s exited with error: %v\n", l.Entrypoint, err)
	}
}

// runTaskfile replaces the built-in sequence with the directory's own
// install and run tasks.
func (l *Launcher) runTaskfile(ctx context.Context) {
	tf, err := ParseTaskfile(l.Dir)
	if err != nil {
		fmt.Fprintln(l.Stderr, "Failed to parse taskfile:", err)
		return
	}

	install, err := NewTask(ctx, tf, l.Dir, TaskInstall, l.Verbose)
	if err != nil {
		fmt.Fprintln(l.Stderr, "Failed to set up install task:", err)
		return
	}
	if err := install(); err != nil {
		fmt.Fprintln(l.Stderr, "Install task failed:", err)
	}

	run, err := NewTask(ctx, tf, l.Dir, TaskRun, l.Verbose)
	if err != nil {
		fmt.Fprintln(l.Stderr, "Failed to set up run task:", err)
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(l.Stderr, "Run task failed:", err)
	}
}

func (l *Launcher) command(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = l.Dir
	cmd.Env = env
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	return l.runCmd(cmd)
}

// pause waits for one Enter keypress. Skipped when stdin is not a terminal,
// since the keypress could never arrive.
func (l *Launcher) pause() {
	if l.NoPause || !l.stdinTTY() {
		return
	}
	fmt.Fprint(l.Stdout, "\nPress Enter to exit...")
	_, _ = bufio.NewReader(l.Stdin).ReadString('\n')
}

// ExecutableDir returns the directory containing the running binary, the
// default script directory when launch is invoked without one.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func ParseTaskfile(rootPath string) (*ast.Taskfile, error) {
	file, err := os.ReadFile(path.Join(rootPath, TaskFile))
	if err != nil {
		return nil, err
	}
	tf := &ast.Taskfile{}
	if err := yaml.Unmarshal(file, tf); err != nil {
		return nil, err
	}
	return tf, nil
}

func NewTaskExecutor(dir string, verbose bool) *task.Executor {
	var o io.Writer = io.Discard
	var e io.Writer = os.Stderr
	if verbose {
		o = os.Stdout
	}
	return &task.Executor{
		Dir:       dir,
		Force:     false,
		ForceAll:  false,
		Insecure:  false,
		Download:  false,
		Offline:   false,
		Watch:     false,
		Verbose:   false,
		Silent:    !verbose,
		AssumeYes: false,
		Dry:       false,
		Summary:   false,
		Parallel:  false,
		Color:     true,

		Stdin:  os.Stdin,
		Stdout: o,
		Stderr: e,
	}
}

func NewTask(ctx context.Context, tf *ast.Taskfile, dir, taskName string, verbose bool) (func() error, error) {
	exe := NewTaskExecutor(dir, verbose)
	if err := exe.Setup(); err != nil {
		return nil, errors.Wrap(err, "task setup")
	}

	return func() error {
		return exe.Run(ctx, &task.Call{
			Task: taskName,
		})
	}, nil
}

type PromptFunc func(key string, value string) (string, error)

// InstantiateDotEnv materializes .env from .env.example, prompting for each
// value. Returns false without prompting when .env already exists or there
// is no example file.
func InstantiateDotEnv(dir string, prompt PromptFunc) (bool, error) {
	envPath := filepath.Join(dir, EnvFile)
	if _, err := os.Stat(envPath); err == nil {
		return false, nil
	}

	examplePath := filepath.Join(dir, EnvExampleFile)
	envMap, err := godotenv.Read(examplePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	keys := make([]string, 0, len(envMap))
	for key := range envMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, err := prompt(key, envMap[key])
		if err != nil {
			return false, err
		}
		envMap[key] = value
	}

	contents, err := godotenv.Marshal(envMap)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(envPath, []byte(contents+"\n"), 0600); err != nil {
		return false, err
	}
	return true, nil
}

// Determine if `cmd` is a binary in PATH or a known alias
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil || CommandIsAlias(cmd)
}

// Determine if `cmd` is a known alias
func CommandIsAlias(cmd string) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	out, err := exec.Command("alias", cmd).Output()
	if err != nil {
		return false
	}
	output := strings.TrimSpace(string(out))
	return strings.HasPrefix(output, cmd+"=")
}
