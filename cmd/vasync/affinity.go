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
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/vasync/vasync/pkg/affinity"
	"github.com/vasync/vasync/pkg/util"
)

var (
	AffinityCommands = []*cli.Command{
		{
			Name:  "affinity",
			Usage: "Browse Affinity lists, fields, and entries",
			Commands: []*cli.Command{
				{
					Name:   "lists",
					Usage:  "List all Affinity lists visible to the token",
					Action: listAffinityLists,
					Flags:  []cli.Flag{jsonFlag},
				},
				{
					Name:   "fields",
					Usage:  "List the fields of an Affinity list",
					Action: listAffinityFields,
					Flags:  []cli.Flag{listFlag, jsonFlag},
				},
				{
					Name:   "entries",
					Usage:  "List the entries of an Affinity list",
					Action: listAffinityEntries,
					Flags: []cli.Flag{
						listFlag,
						jsonFlag,
						util.OpenFlag,
						&cli.Int64Flag{
							Name:  "limit",
							Usage: "Show at most `N` entries",
						},
					},
				},
			},
		},
	}
)

func listAffinityLists(ctx context.Context, cmd *cli.Command) error {
	ws, err := loadWorkspaceDetails(cmd)
	if err != nil {
		return err
	}
	client := affinityClient(ws)

	var lists []affinity.List
	if err = util.Await("Fetching Affinity lists", ctx, func(ctx context.Context) error {
		lists, err = client.ListLists(ctx)
		return err
	}); err != nil {
		return err
	}

	if cmd.Bool("json") {
		util.PrintJSON(lists)
		return nil
	}

	table := util.CreateTable().
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return util.FormHeaderStyle
			}
			return util.FormBaseStyle
		}).
		Headers("ID", "Name", "Type")
	for _, l := range lists {
		table.Row(strconv.FormatInt(l.ID, 10), l.Name, l.Type)
	}
	fmt.Println(table)

	return nil
}

func listAffinityFields(ctx context.Context, cmd *cli.Command) error {
	ws, err := loadWorkspaceDetails(cmd)
	if err != nil {
		return err
	}
	client := affinityClient(ws)
	listID := cmd.Int64("list")

	var fields []affinity.Field
	if err = util.Await("Fetching list fields", ctx, func(ctx context.Context) error {
		fields, err = client.ListFields(ctx, listID)
		return err
	}); err != nil {
		return err
	}

	if cmd.Bool("json") {
		util.PrintJSON(fields)
		return nil
	}

	table := util.CreateTable().
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return util.FormHeaderStyle
			}
			return util.FormBaseStyle
		}).
		Headers("ID", "Name", "Value Type")
	for _, f := range fields {
		table.Row(f.ID, f.Name, f.ValueType)
	}
	fmt.Println(table)

	return nil
}

func listAffinityEntries(ctx context.Context, cmd *cli.Command) error {
	ws, err := loadWorkspaceDetails(cmd)
	if err != nil {
		return err
	}
	client := affinityClient(ws)
	listID := cmd.Int64("list")

	var entries []affinity.ListEntry
	if err = util.Await("Fetching list entries", ctx, func(ctx context.Context) error {
		entries, err = client.ListEntries(ctx, listID)
		return err
	}); err != nil {
		return err
	}

	total := len(entries)
	if limit := cmd.Int64("limit"); limit > 0 && int64(total) > limit {
		entries = entries[:limit]
	}

	if cmd.Bool("json") {
		util.PrintJSON(entries)
	} else {
		table := util.CreateTable().
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return util.FormHeaderStyle
				}
				return util.FormBaseStyle
			}).
			Headers("Entry ID", "Company", "Domains")
		for _, e := range entries {
			table.Row(
				strconv.FormatInt(e.ID, 10),
				e.Entity.Name,
				util.JoinFirst(e.Entity.Domains, ", ", 3),
			)
		}
		fmt.Println(table)
		if len(entries) < total {
			fmt.Printf("Showing %d of %d entries\n", len(entries), total)
		}
	}

	if cmd.Bool("open") {
		return util.OpenAffinityList(listID)
	}
	return nil
}
