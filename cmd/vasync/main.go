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
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	vasync "github.com/vasync/vasync"
	"github.com/vasync/vasync/pkg/logger"
)

func main() {
	app := &cli.Command{
		Name:                   "vasync",
		Usage:                  "Sync Visible portfolio metrics into Affinity",
		Description:            "A command line tool that pulls metric data from Visible.vc, matches portfolio companies against an Affinity list by domain, and writes the values into a list field. Also bundles the legacy launcher for script-based installs.",
		Version:                vasync.Version,
		EnableShellCompletion:  true,
		Suggest:                true,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags,
		Commands: []*cli.Command{
			{
				Name:   "generate-fish-completion",
				Action: generateFishCompletion,
				Hidden: true,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
					},
				},
			},
		},
		Before: initApp,
	}

	app.Commands = append(app.Commands, LaunchCommands...)
	app.Commands = append(app.Commands, WorkspaceCommands...)
	app.Commands = append(app.Commands, SyncCommands...)
	app.Commands = append(app.Commands, AffinityCommands...)
	app.Commands = append(app.Commands, VisibleCommands...)

	// Register cleanup hook for SIGINT, SIGTERM, SIGQUIT
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initApp(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	// the legacy tool read its tokens from a .env in the working
	// directory; keep honoring it
	_ = godotenv.Load()

	logConfig := &logger.Config{
		Level: "warn",
	}
	if cmd.Bool("verbose") {
		logConfig.Level = "debug"
	}
	logger.InitFromConfig(logConfig, "vasync")

	return nil, nil
}

func generateFishCompletion(ctx context.Context, cmd *cli.Command) error {
	fishScript, err := cmd.ToFishCompletion()
	if err != nil {
		return err
	}

	outPath := cmd.String("out")
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(fishScript), 0o644); err != nil {
			return err
		}
	} else {
		fmt.Println(fishScript)
	}

	return nil
}
