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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/vasync/vasync/pkg/bootstrap"
	"github.com/vasync/vasync/pkg/util"
)

var (
	LaunchCommands = []*cli.Command{
		{
			Name:      "launch",
			Usage:     "Set up a script directory's Python environment and run its entry point",
			UsageText: "vasync launch [DIR]",
			ArgsUsage: "[DIR]",
			Action:    launchScript,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "entrypoint",
					Usage: "`SCRIPT` to run once setup completes",
					Value: bootstrap.DefaultEntrypoint,
				},
				&cli.StringFlag{
					Name:  "min-python",
					Usage: "Refuse interpreters older than `VERSION`",
				},
				&cli.BoolFlag{
					Name:  "no-pause",
					Usage: "Do not wait for a keypress before exiting",
				},
			},
		},
	}
)

func launchScript(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		// no argument: the directory containing the running binary, the
		// way the original launcher resolved its own location
		exeDir, err := bootstrap.ExecutableDir()
		if err != nil {
			return fmt.Errorf("failed to resolve executable directory: %w", err)
		}
		dir = exeDir
	}
	if info, err := os.Stat(dir); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	kind, err := bootstrap.DetectProjectKind(os.DirFS(dir))
	if err != nil {
		return fmt.Errorf("%s is not launchable: %w", dir, err)
	}
	fmt.Printf("Launching %s project in [%s]\n", kind, util.Accented(dir))

	if err := maybeInstantiateDotEnv(ctx, dir); err != nil {
		return err
	}

	launcher := bootstrap.NewLauncher(dir, kind)
	launcher.Entrypoint = cmd.String("entrypoint")
	launcher.NoPause = cmd.Bool("no-pause")
	launcher.Verbose = cmd.Bool("verbose")

	if min := cmd.String("min-python"); min != "" {
		version, err := semver.NewVersion(min)
		if err != nil {
			return fmt.Errorf("invalid min-python version %q: %w", min, err)
		}
		launcher.MinPython = version
	}

	return launcher.Run(ctx)
}

// maybeInstantiateDotEnv offers to fill in a .env from .env.example before
// the first launch, since the legacy tool reads its tokens from it. Only
// offered interactively.
func maybeInstantiateDotEnv(ctx context.Context, dir string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil
	}

	written, err := bootstrap.InstantiateDotEnv(dir, func(key, value string) (string, error) {
		input := value
		err := huh.NewForm(huh.NewGroup(huh.NewInput().
			Title(key).
			Placeholder(value).
			Value(&input))).
			WithTheme(util.Theme).
			RunWithContext(ctx)
		return input, err
	})
	if err != nil {
		return err
	}
	if written {
		fmt.Println("Created " + bootstrap.EnvFile + " from " + bootstrap.EnvExampleFile)
	}
	return nil
}
