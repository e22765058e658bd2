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

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/vasync/vasync/pkg/sync"
	"github.com/vasync/vasync/pkg/util"
	"github.com/vasync/vasync/pkg/visible"
)

var (
	VisibleCommands = []*cli.Command{
		{
			Name:  "visible",
			Usage: "Browse Visible portfolio companies and metrics",
			Commands: []*cli.Command{
				{
					Name:   "companies",
					Usage:  "List the portfolio companies with their websites",
					Action: listVisibleCompanies,
					Flags:  []cli.Flag{jsonFlag},
				},
				{
					Name:   "metrics",
					Usage:  "List the metric names available in the account",
					Action: listVisibleMetrics,
					Flags:  []cli.Flag{jsonFlag},
				},
			},
		},
	}
)

func listVisibleCompanies(ctx context.Context, cmd *cli.Command) error {
	ws, err := loadWorkspaceDetails(cmd)
	if err != nil {
		return err
	}
	client := visibleClient(ws)

	var companies []visible.PortfolioCompany
	websites := make(map[string]string)

	if err = util.Await("Fetching portfolio companies", ctx, func(ctx context.Context) error {
		companies, err = client.ListPortfolioCompanies(ctx)
		if err != nil {
			return err
		}

		propertyID, err := client.WebsitePropertyID(ctx)
		if errors.Is(err, visible.ErrNoWebsiteProperty) {
			return nil
		} else if err != nil {
			return err
		}
		for _, company := range companies {
			website, err := client.CompanyWebsite(ctx, company.ID.String(), propertyID)
			if err != nil {
				return err
			}
			websites[company.ID.String()] = website
		}
		return nil
	}); err != nil {
		return err
	}

	if cmd.Bool("json") {
		type companyRow struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Website string `json:"website,omitempty"`
			Domain  string `json:"domain,omitempty"`
		}
		rows := make([]companyRow, 0, len(companies))
		for _, c := range companies {
			website := websites[c.ID.String()]
			rows = append(rows, companyRow{
				ID:      c.ID.String(),
				Name:    c.Name,
				Website: website,
				Domain:  sync.NormalizeDomain(website),
			})
		}
		util.PrintJSON(rows)
		return nil
	}

	table := util.CreateTable().
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return util.FormHeaderStyle
			}
			return util.FormBaseStyle
		}).
		Headers("ID", "Company", "Domain")
	for _, c := range companies {
		table.Row(c.ID.String(), c.Name, sync.NormalizeDomain(websites[c.ID.String()]))
	}
	fmt.Println(table)

	return nil
}

func listVisibleMetrics(ctx context.Context, cmd *cli.Command) error {
	ws, err := loadWorkspaceDetails(cmd)
	if err != nil {
		return err
	}
	client := visibleClient(ws)

	var names []string
	if err = util.Await("Fetching metrics", ctx, func(ctx context.Context) error {
		names, err = client.MetricNames(ctx)
		return err
	}); err != nil {
		return err
	}

	if cmd.Bool("json") {
		util.PrintJSON(names)
		return nil
	}

	if len(names) == 0 {
		fmt.Println("No metrics found.")
		return nil
	}
	table := util.CreateTable().
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return util.FormHeaderStyle
			}
			return util.FormBaseStyle
		}).
		Headers("Metric")
	for _, name := range names {
		table.Row(name)
	}
	fmt.Println(table)

	return nil
}
