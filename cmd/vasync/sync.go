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
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/vasync/vasync/pkg/affinity"
	"github.com/vasync/vasync/pkg/config"
	"github.com/vasync/vasync/pkg/sync"
	"github.com/vasync/vasync/pkg/util"
	"github.com/vasync/vasync/pkg/visible"
)

const unmatchedSampleSize = 10

var (
	listFlag = &cli.Int64Flag{
		Name:     "list",
		Aliases:  []string{"l"},
		Usage:    "`ID` of the Affinity list",
		Required: true,
	}
	fieldFlag = &cli.StringFlag{
		Name:  "field",
		Usage: "`ID` of the Affinity field to update",
	}
	metricFlag = &cli.StringFlag{
		Name:  "metric",
		Usage: "`NAME` of the Visible metric to sync",
	}

	SyncCommands = []*cli.Command{
		{
			Name:   "sync",
			Usage:  "Sync a Visible metric into an Affinity list field, matching companies by domain",
			Action: runSync,
			Flags: []cli.Flag{
				optional(listFlag),
				fieldFlag,
				metricFlag,
				&cli.BoolFlag{
					Name:  "apply",
					Usage: "Write the updates to Affinity (default is a dry run)",
				},
				&cli.BoolFlag{
					Name:  "save",
					Usage: "Save the resolved mapping to " + config.VasyncTOMLFile + " for later runs",
				},
				util.OpenFlag,
			},
			Commands: []*cli.Command{
				{
					Name:   "config",
					Usage:  "Print the resolved sync mapping",
					Action: printSyncConfig,
					Flags:  []cli.Flag{jsonFlag},
				},
			},
		},
	}
)

// syncMapping is the fully resolved list/field/metric triple the pipeline
// operates on.
type syncMapping struct {
	ListID     int64
	FieldID    string
	FieldName  string
	MetricName string
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	ws, err := loadWorkspaceDetails(cmd)
	if err != nil {
		return err
	}
	affinityC := affinityClient(ws)
	visibleC := visibleClient(ws)

	mapping, err := resolveMapping(ctx, cmd, affinityC, visibleC)
	if err != nil {
		return err
	}
	fmt.Printf("Syncing Visible metric [%s] into Affinity field [%s]\n",
		util.Accented(mapping.MetricName), util.Accented(mapping.FieldName))

	// Step 1: fetch metric data from Visible
	var valuesByDomain map[string]float64
	if err := util.Await("Fetching Visible data for "+mapping.MetricName, ctx, func(ctx context.Context) error {
		valuesByDomain, err = visibleC.MetricValuesByDomain(ctx, mapping.MetricName)
		return err
	}); err != nil {
		return err
	}
	if len(valuesByDomain) == 0 {
		return fmt.Errorf("no data found in Visible for metric %q", mapping.MetricName)
	}
	fmt.Printf("Loaded %d companies with %q data from Visible\n", len(valuesByDomain), mapping.MetricName)

	// Step 2: fetch the Affinity list entries
	var rawEntries []affinity.ListEntry
	if err := util.Await("Fetching Affinity list entries", ctx, func(ctx context.Context) error {
		rawEntries, err = affinityC.ListEntries(ctx, mapping.ListID)
		return err
	}); err != nil {
		return err
	}
	fmt.Printf("Retrieved %d entries from Affinity list\n", len(rawEntries))

	// Step 3: match companies by domain
	entries := make([]sync.Entry, 0, len(rawEntries))
	for _, e := range rawEntries {
		entries = append(entries, sync.Entry{
			ID:      e.ID,
			Company: e.Entity.Name,
			Domains: e.Entity.Domains,
		})
	}
	report := sync.MatchByDomain(entries, valuesByDomain)
	printMatchReport(report)

	// Step 4: update Affinity, or simulate
	if cmd.Bool("apply") {
		applyUpdates(ctx, affinityC, mapping, report.Matches)
	} else {
		fmt.Println("\n" + util.Dimmed("Dry run, no updates made. Re-run with --apply to write the values above."))
	}

	if cmd.Bool("save") {
		if err := saveMapping(ws, mapping); err != nil {
			return err
		}
	}
	if cmd.Bool("open") {
		if err := util.OpenAffinityList(mapping.ListID); err != nil {
			return err
		}
	}

	return nil
}

func printMatchReport(report sync.Report) {
	if len(report.Matches) > 0 {
		table := util.CreateTable().
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return util.FormHeaderStyle
				}
				return util.FormBaseStyle
			}).
			Headers("Company", "Domain", "Value")
		for _, m := range report.Matches {
			table.Row(m.Company, m.Domain, fmt.Sprintf("%.1f", m.Value))
		}
		fmt.Println(table)
	}

	fmt.Printf("Matched %d companies; %d in Visible without an Affinity entry, %d in Affinity without Visible data\n",
		len(report.Matches), len(report.VisibleOnly), len(report.AffinityOnly))

	if len(report.AffinityOnly) > 0 {
		fmt.Println("\nCompanies in Affinity without Visible data:")
		for i, u := range report.AffinityOnly {
			if i == unmatchedSampleSize {
				fmt.Printf("  ... and %d more\n", len(report.AffinityOnly)-unmatchedSampleSize)
				break
			}
			fmt.Printf("  - %s (%s)\n", u.Company, util.JoinFirst(u.Domains, ", ", 2))
		}
	}
}

func applyUpdates(ctx context.Context, client *affinity.Client, mapping syncMapping, matches []sync.Match) {
	results := sync.Apply(ctx, client, mapping.ListID, mapping.FieldID, matches)

	updated, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("  ✖ %s: %v\n", r.Match.Company, r.Err)
		} else {
			updated++
			fmt.Printf("  ✔ %s → %.1f\n", r.Match.Company, r.Match.Value)
		}
	}
	fmt.Printf("\nUpdated %d/%d companies, %d failed\n", updated, len(results), failed)
}

func saveMapping(ws *config.WorkspaceConfig, mapping syncMapping) error {
	conf := config.NewVasyncTOML(ws.Name).
		WithSync(mapping.ListID, mapping.FieldID, mapping.FieldName, mapping.MetricName)
	return conf.SaveTOMLFile(workingDir, tomlFilename)
}

// resolveMapping layers flags over vasync.toml, prompting for whatever is
// still missing. Prompts require a terminal; otherwise the missing pieces
// are an error.
func resolveMapping(ctx context.Context, cmd *cli.Command, affinityC *affinity.Client, visibleC *visible.Client) (syncMapping, error) {
	var mapping syncMapping

	if err := requireConfig(workingDir, tomlFilename); err != nil {
		return mapping, err
	}
	if vsConfig != nil && vsConfig.HasSync() {
		mapping.ListID = vsConfig.Sync.AffinityListID
		mapping.FieldID = vsConfig.Sync.AffinityFieldID
		mapping.FieldName = vsConfig.Sync.FieldName
		mapping.MetricName = vsConfig.Sync.VisibleMetric
	}
	if cmd.IsSet("list") {
		mapping.ListID = cmd.Int64("list")
	}
	if cmd.IsSet("field") {
		mapping.FieldID = cmd.String("field")
		mapping.FieldName = ""
	}
	if cmd.IsSet("metric") {
		mapping.MetricName = cmd.String("metric")
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	if mapping.ListID == 0 {
		if !interactive {
			return mapping, errors.New("list is required when not running interactively")
		}
		listID, err := selectAffinityList(ctx, affinityC)
		if err != nil {
			return mapping, err
		}
		mapping.ListID = listID
	}

	if mapping.FieldID == "" {
		if !interactive {
			return mapping, errors.New("field is required when not running interactively")
		}
		field, err := selectAffinityField(ctx, affinityC, mapping.ListID)
		if err != nil {
			return mapping, err
		}
		mapping.FieldID = field.ID
		mapping.FieldName = field.Name
	} else if mapping.FieldName == "" {
		// a bare field ID still needs its display name
		fields, err := affinityC.ListFields(ctx, mapping.ListID)
		if err != nil {
			return mapping, err
		}
		for _, f := range fields {
			if f.ID == mapping.FieldID {
				mapping.FieldName = f.Name
				break
			}
		}
		if mapping.FieldName == "" {
			return mapping, fmt.Errorf("field %q not found on list %d", mapping.FieldID, mapping.ListID)
		}
	}

	if mapping.MetricName == "" {
		if !interactive {
			return mapping, errors.New("metric is required when not running interactively")
		}
		metric, err := selectVisibleMetric(ctx, visibleC)
		if err != nil {
			return mapping, err
		}
		mapping.MetricName = metric
	}

	return mapping, nil
}

func selectAffinityList(ctx context.Context, client *affinity.Client) (int64, error) {
	var lists []affinity.List
	var err error
	if err = util.Await("Fetching Affinity lists", ctx, func(ctx context.Context) error {
		lists, err = client.ListLists(ctx)
		return err
	}); err != nil {
		return 0, err
	}
	if len(lists) == 0 {
		return 0, errors.New("no lists found in Affinity")
	}

	opts := make([]huh.Option[int64], 0, len(lists))
	for _, l := range lists {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (ID: %d)", l.Name, l.ID), l.ID))
	}

	var listID int64
	err = huh.NewForm(huh.NewGroup(huh.NewSelect[int64]().
		Title("Select the Affinity list to sync").
		Options(opts...).
		Value(&listID).
		WithTheme(util.Theme))).
		RunWithContext(ctx)
	return listID, err
}

func selectAffinityField(ctx context.Context, client *affinity.Client, listID int64) (affinity.Field, error) {
	var fields []affinity.Field
	var err error
	if err = util.Await("Fetching list fields", ctx, func(ctx context.Context) error {
		fields, err = client.ListFields(ctx, listID)
		return err
	}); err != nil {
		return affinity.Field{}, err
	}

	named := make([]affinity.Field, 0, len(fields))
	for _, f := range fields {
		if f.Name != "" {
			named = append(named, f)
		}
	}
	if len(named) == 0 {
		return affinity.Field{}, errors.New("no fields found on this list")
	}
	sort.Slice(named, func(i, j int) bool {
		return strings.ToLower(named[i].Name) < strings.ToLower(named[j].Name)
	})

	opts := make([]huh.Option[affinity.Field], 0, len(named))
	for _, f := range named {
		label := f.Name
		if f.ValueType != "" {
			label = fmt.Sprintf("%s (%s)", f.Name, f.ValueType)
		}
		opts = append(opts, huh.NewOption(label, f))
	}

	var field affinity.Field
	err = huh.NewForm(huh.NewGroup(huh.NewSelect[affinity.Field]().
		Title("Select which Affinity field to update").
		Options(opts...).
		Value(&field).
		WithTheme(util.Theme))).
		RunWithContext(ctx)
	return field, err
}

func selectVisibleMetric(ctx context.Context, client *visible.Client) (string, error) {
	var names []string
	var err error
	if err = util.Await("Fetching available metrics from Visible", ctx, func(ctx context.Context) error {
		names, err = client.MetricNames(ctx)
		return err
	}); err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", errors.New("no metrics found in Visible")
	}

	opts := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		opts = append(opts, huh.NewOption(name, name))
	}

	var metric string
	err = huh.NewForm(huh.NewGroup(huh.NewSelect[string]().
		Title("Select which Visible metric to sync").
		Options(opts...).
		Value(&metric).
		WithTheme(util.Theme))).
		RunWithContext(ctx)
	return metric, err
}

func printSyncConfig(ctx context.Context, cmd *cli.Command) error {
	if err := requireConfig(workingDir, tomlFilename); err != nil {
		return err
	}
	if vsConfig == nil || !vsConfig.HasSync() {
		return fmt.Errorf("no %s with a [sync] section in the working directory", tomlFilename)
	}

	if cmd.Bool("json") {
		util.PrintJSON(vsConfig)
		return nil
	}
	if vsConfig.Workspace != nil && vsConfig.Workspace.Name != "" {
		fmt.Println("Workspace:      ", vsConfig.Workspace.Name)
	}
	fmt.Println("Affinity list:  ", vsConfig.Sync.AffinityListID)
	fmt.Printf("Affinity field:  %s (ID: %s)\n", vsConfig.Sync.FieldName, vsConfig.Sync.AffinityFieldID)
	fmt.Println("Visible metric: ", vsConfig.Sync.VisibleMetric)
	return nil
}
