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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/vasync/vasync/pkg/affinity"
	"github.com/vasync/vasync/pkg/config"
	"github.com/vasync/vasync/pkg/util"
	"github.com/vasync/vasync/pkg/visible"
)

var (
	workingDir   string = "."
	tomlFilename string = config.VasyncTOMLFile

	jsonFlag = &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Output as JSON",
	}

	affinityURLFlag = &cli.StringFlag{
		Name:    "affinity-url",
		Usage:   "Base `URL` override for the Affinity API",
		Sources: cli.EnvVars("AFFINITY_BASE_URL"),
	}
	visibleURLFlag = &cli.StringFlag{
		Name:    "visible-url",
		Usage:   "Base `URL` override for the Visible API",
		Sources: cli.EnvVars("VISIBLE_BASE_URL"),
	}

	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  "workspace",
			Usage: "`NAME` of a configured workspace",
		},
		&cli.StringFlag{
			Name:    "affinity-token",
			Usage:   "Affinity API `TOKEN`",
			Sources: cli.EnvVars("AFFINITY_ACCESS_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "visible-token",
			Usage:   "Visible API `TOKEN`",
			Sources: cli.EnvVars("VISIBLE_ACCESS_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "visible-company",
			Usage:   "Visible company `ID`",
			Sources: cli.EnvVars("VISIBLE_COMPANY_ID"),
		},
		hidden(affinityURLFlag),
		hidden(visibleURLFlag),
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Config `TOML` to use in the working directory",
			Value:       config.VasyncTOMLFile,
			Destination: &tomlFilename,
			Required:    false,
		},
		&cli.BoolFlag{
			Name:     "verbose",
			Required: false,
		},
	}

	vsConfig *config.VasyncTOML
)

func optional[T any, C any, VC cli.ValueCreator[T, C]](flag *cli.FlagBase[T, C, VC]) *cli.FlagBase[T, C, VC] {
	newFlag := *flag
	newFlag.Required = false
	return &newFlag
}

func hidden[T any, C any, VC cli.ValueCreator[T, C]](flag *cli.FlagBase[T, C, VC]) *cli.FlagBase[T, C, VC] {
	newFlag := *flag
	newFlag.Hidden = true
	return &newFlag
}

// requireConfig loads the per-directory vasync.toml into vsConfig. A
// missing file is not an error; vsConfig just stays nil.
func requireConfig(dir, tomlFileName string) error {
	if vsConfig != nil {
		return nil
	}
	cfg, exists, err := config.LoadTOMLFile(dir, tomlFileName)
	if err != nil {
		if exists {
			return err
		}
		return nil
	}
	vsConfig = cfg
	return nil
}

// attempt to load credentials, prioritizing
// 1. command line flags (or env vars, including a .env in the working dir)
// 2. a named --workspace
// 3. config file (by default, vasync.toml)
// 4. default workspace
func loadWorkspaceDetails(c *cli.Command) (*config.WorkspaceConfig, error) {
	logDetails := func(ws *config.WorkspaceConfig) {
		if c.Bool("verbose") {
			fmt.Printf("affinity-token: %s, visible-token: %s, visible-company: %s\n",
				"************",
				"************",
				ws.VisibleCompanyID,
			)
		}
	}

	// if an explicit workspace is named, use it
	if name := c.String("workspace"); name != "" {
		ws, err := config.LoadWorkspace(name)
		if err != nil {
			return nil, err
		}
		applyFlagOverrides(c, ws)
		fmt.Println("Using workspace [" + util.Accented(name) + "]")
		logDetails(ws)
		return ws, nil
	}

	ws := &config.WorkspaceConfig{
		AffinityToken:    c.String("affinity-token"),
		AffinityBaseURL:  c.String("affinity-url"),
		VisibleToken:     c.String("visible-token"),
		VisibleBaseURL:   c.String("visible-url"),
		VisibleCompanyID: c.String("visible-company"),
	}
	if ws.AffinityToken != "" && ws.VisibleToken != "" && ws.VisibleCompanyID != "" {
		var envVars []string
		// if it's set via env, we should let users know
		if os.Getenv("AFFINITY_ACCESS_TOKEN") == ws.AffinityToken {
			envVars = append(envVars, "affinity-token")
		}
		if os.Getenv("VISIBLE_ACCESS_TOKEN") == ws.VisibleToken {
			envVars = append(envVars, "visible-token")
		}
		if os.Getenv("VISIBLE_COMPANY_ID") == ws.VisibleCompanyID {
			envVars = append(envVars, "visible-company")
		}
		if len(envVars) > 0 {
			fmt.Printf("Using %s from environment\n", strings.Join(envVars, ", "))
		}
		logDetails(ws)
		return ws, nil
	}

	// load from config file
	if err := requireConfig(workingDir, tomlFilename); err != nil {
		return nil, err
	}
	if vsConfig != nil && vsConfig.Workspace != nil && vsConfig.Workspace.Name != "" {
		named, err := config.LoadWorkspace(vsConfig.Workspace.Name)
		if err != nil {
			return nil, err
		}
		applyFlagOverrides(c, named)
		fmt.Println("Using workspace [" + util.Accented(named.Name) + "] from " + tomlFilename)
		logDetails(named)
		return named, nil
	}

	// load default workspace
	dw, err := config.LoadDefaultWorkspace()
	if err == nil {
		applyFlagOverrides(c, dw)
		fmt.Println("Using default workspace [" + util.Accented(dw.Name) + "]")
		logDetails(dw)
		return dw, nil
	}

	if ws.AffinityToken == "" {
		return nil, errors.New("affinity-token is required")
	}
	if ws.VisibleToken == "" {
		return nil, errors.New("visible-token is required")
	}
	if ws.VisibleCompanyID == "" {
		return nil, errors.New("visible-company is required")
	}

	// cannot happen
	return ws, nil
}

// individual flags and env vars layer on top of a stored workspace
func applyFlagOverrides(c *cli.Command, ws *config.WorkspaceConfig) {
	if v := c.String("affinity-token"); v != "" {
		ws.AffinityToken = v
	}
	if v := c.String("affinity-url"); v != "" {
		ws.AffinityBaseURL = v
	}
	if v := c.String("visible-token"); v != "" {
		ws.VisibleToken = v
	}
	if v := c.String("visible-url"); v != "" {
		ws.VisibleBaseURL = v
	}
	if v := c.String("visible-company"); v != "" {
		ws.VisibleCompanyID = v
	}
}

func affinityClient(ws *config.WorkspaceConfig) *affinity.Client {
	var opts []affinity.ClientOption
	if ws.AffinityBaseURL != "" {
		opts = append(opts, affinity.WithBaseURL(ws.AffinityBaseURL))
	}
	return affinity.NewClient(ws.AffinityToken, opts...)
}

func visibleClient(ws *config.WorkspaceConfig) *visible.Client {
	var opts []visible.ClientOption
	if ws.VisibleBaseURL != "" {
		opts = append(opts, visible.WithBaseURL(ws.VisibleBaseURL))
	}
	return visible.NewClient(ws.VisibleToken, ws.VisibleCompanyID, opts...)
}
