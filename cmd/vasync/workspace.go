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
	"errors"
	"fmt"
	"regexp"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/vasync/vasync/pkg/config"
	"github.com/vasync/vasync/pkg/util"
)

var (
	WorkspaceCommands = []*cli.Command{
		{
			Name:   "workspace",
			Usage:  "Add or remove workspaces and view existing workspace properties",
			Before: loadWorkspaceConfig,
			Commands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Add a new workspace pairing Affinity and Visible credentials",
					UsageText: "vasync workspace add WORKSPACE_NAME",
					ArgsUsage: "WORKSPACE_NAME",
					Action:    addWorkspace,
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "affinity-token",
							Usage: "Affinity API `TOKEN`",
						},
						&cli.StringFlag{
							Name:  "visible-token",
							Usage: "Visible API `TOKEN`",
						},
						&cli.StringFlag{
							Name:  "visible-company",
							Usage: "Visible company `ID`",
						},
						&cli.BoolFlag{
							Name:  "default",
							Usage: "Set this workspace as the default",
						},
					},
				},
				{
					Name:      "list",
					Usage:     "List all configured workspaces",
					UsageText: "vasync workspace list",
					Action:    listWorkspaces,
					Flags:     []cli.Flag{jsonFlag},
				},
				{
					Name:      "remove",
					Usage:     "Remove an existing workspace from config",
					UsageText: "vasync workspace remove WORKSPACE_NAME",
					ArgsUsage: "WORKSPACE_NAME",
					Action:    removeWorkspace,
				},
				{
					Name:      "set-default",
					Usage:     "Set a workspace as default to use with other commands",
					UsageText: "vasync workspace set-default WORKSPACE_NAME",
					ArgsUsage: "WORKSPACE_NAME",
					Action:    setDefaultWorkspace,
				},
			},
		},
	}

	cliConfig        *config.CLIConfig
	defaultWorkspace *config.WorkspaceConfig
	nameRegex        = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

func loadWorkspaceConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	conf, err := config.LoadOrCreate()
	if err != nil {
		return ctx, err
	}
	cliConfig = conf

	if cliConfig.DefaultWorkspace != "" {
		for _, w := range cliConfig.Workspaces {
			if w.Name == cliConfig.DefaultWorkspace {
				defaultWorkspace = &w
				break
			}
		}
	}
	return ctx, nil
}

func addWorkspace(ctx context.Context, cmd *cli.Command) error {
	w := config.WorkspaceConfig{}
	var err error
	var prompts []huh.Field

	// Name
	validateName := func(val string) error {
		if !nameRegex.MatchString(val) {
			return errors.New("name can only contain alphanumeric characters, dashes and underscores")
		}
		if cliConfig.WorkspaceExists(val) {
			return errors.New("name already exists")
		}
		return nil
	}

	if w.Name = cmd.Args().Get(0); w.Name != "" {
		if err = validateName(w.Name); err != nil {
			return err
		}
		fmt.Println("  Workspace Name:", w.Name)
	} else {
		prompts = append(prompts, huh.NewInput().
			Title("Workspace Name").
			Placeholder("my-fund").
			Validate(validateName).
			Value(&w.Name))
	}

	validateToken := func(val string) error {
		if len(val) < 3 {
			return errors.New("value must be at least 3 characters")
		}
		return nil
	}

	// Affinity token
	if w.AffinityToken = cmd.String("affinity-token"); w.AffinityToken != "" {
		if err = validateToken(w.AffinityToken); err != nil {
			return err
		}
		fmt.Println("  Affinity Token: ************")
	} else {
		prompts = append(prompts, huh.NewInput().
			Title("Affinity API Token").
			Placeholder("****************************").
			EchoMode(huh.EchoModePassword).
			Validate(validateToken).
			Value(&w.AffinityToken))
	}

	// Visible token
	if w.VisibleToken = cmd.String("visible-token"); w.VisibleToken != "" {
		if err = validateToken(w.VisibleToken); err != nil {
			return err
		}
		fmt.Println("  Visible Token: ************")
	} else {
		prompts = append(prompts, huh.NewInput().
			Title("Visible API Token").
			Placeholder("****************************").
			EchoMode(huh.EchoModePassword).
			Validate(validateToken).
			Value(&w.VisibleToken))
	}

	// Visible company ID
	if w.VisibleCompanyID = cmd.String("visible-company"); w.VisibleCompanyID != "" {
		fmt.Println("  Visible Company ID:", w.VisibleCompanyID)
	} else {
		prompts = append(prompts, huh.NewInput().
			Title("Visible Company ID").
			Placeholder("12345").
			Validate(func(val string) error {
				if val == "" {
					return errors.New("company ID is required")
				}
				return nil
			}).
			Value(&w.VisibleCompanyID))
	}

	// if it's the first workspace, make it default
	isDefault := cmd.Bool("default") || defaultWorkspace == nil
	if !isDefault && !cmd.IsSet("default") {
		prompts = append(prompts, huh.NewConfirm().
			Title("Make this workspace default?").
			Value(&isDefault).
			Inline(true).
			WithTheme(util.Theme))
	}

	if len(prompts) > 0 {
		var groups []*huh.Group
		for _, p := range prompts {
			groups = append(groups, huh.NewGroup(p))
		}
		err = huh.NewForm(groups...).
			WithTheme(util.Theme).
			RunWithContext(ctx)
		if err != nil {
			return err
		}
	}

	// the name may have been filled in by the form just now
	if isDefault {
		cliConfig.DefaultWorkspace = w.Name
	}

	cliConfig.Workspaces = append(cliConfig.Workspaces, w)

	// save config
	if err = cliConfig.PersistIfNeeded(); err != nil {
		return err
	}

	listWorkspaces(ctx, cmd)

	return nil
}

func listWorkspaces(ctx context.Context, cmd *cli.Command) error {
	if len(cliConfig.Workspaces) == 0 {
		fmt.Println("No workspaces configured, use `vasync workspace add` to create one.")
		return nil
	}

	baseStyle := util.FormBaseStyle
	headerStyle := util.FormHeaderStyle
	selectedStyle := util.Theme.Focused.Title.Padding(0, 1)

	if cmd.Bool("json") {
		util.PrintJSON(cliConfig.Workspaces)
	} else {
		table := util.CreateTable().
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case cliConfig.Workspaces[row].Name == cliConfig.DefaultWorkspace:
					return selectedStyle
				default:
					return baseStyle
				}
			}).
			Headers("Name", "Visible Company", "Affinity API")
		for _, w := range cliConfig.Workspaces {
			var wName string
			if w.Name == cliConfig.DefaultWorkspace {
				wName = "* " + w.Name
			} else {
				wName = "  " + w.Name
			}
			affinityURL := w.AffinityBaseURL
			if affinityURL == "" {
				affinityURL = "api.affinity.co"
			}
			table.Row(wName, w.VisibleCompanyID, affinityURL)
		}
		fmt.Println(table)
	}

	return nil
}

func removeWorkspace(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		_ = cli.ShowSubcommandHelp(cmd)
		return errors.New("workspace name is required")
	}
	name := cmd.Args().First()
	return cliConfig.RemoveWorkspace(name)
}

func setDefaultWorkspace(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		_ = cli.ShowSubcommandHelp(cmd)
		return errors.New("workspace name is required")
	}
	name := cmd.Args().First()

	for _, w := range cliConfig.Workspaces {
		if w.Name != name {
			continue
		}

		cliConfig.DefaultWorkspace = w.Name
		if err := cliConfig.PersistIfNeeded(); err != nil {
			return err
		}
		fmt.Println("Default workspace set to [" + util.Accented(w.Name) + "]")
		return nil
	}

	return errors.New("workspace not found")
}
