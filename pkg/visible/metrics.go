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

package visible

import (
	"context"
	"errors"
	"strings"
	gosync "sync"

	"golang.org/x/sync/errgroup"

	"github.com/vasync/vasync/pkg/logger"
	"github.com/vasync/vasync/pkg/sync"
)

var ErrNoWebsiteProperty = errors.New("no website property found in portfolio")

// companyFetchConcurrency bounds the per-company fan-out so a large
// portfolio does not hammer the API past its rate budget.
const companyFetchConcurrency = 4

// CompanyValue is one company's latest value of a metric, keyed by its
// normalized website domain.
type CompanyValue struct {
	Company string
	Domain  string
	Value   float64
}

// MetricValuesByDomain resolves the named metric for every portfolio
// company: website property -> normalized domain -> latest data point.
// Companies without a website, without the metric, or whose lookups fail
// are logged and skipped; only portfolio-level fetches are fatal.
func (c *Client) MetricValuesByDomain(ctx context.Context, metricName string) (map[string]float64, error) {
	companies, err := c.ListPortfolioCompanies(ctx)
	if err != nil {
		return nil, err
	}

	propertyID, err := c.WebsitePropertyID(ctx)
	if err != nil {
		return nil, err
	}

	wantName := strings.ToLower(strings.TrimSpace(metricName))

	var mu gosync.Mutex
	valuesByDomain := make(map[string]float64)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(companyFetchConcurrency)
	for _, company := range companies {
		group.Go(func() error {
			value, domain, err := c.companyMetricValue(ctx, company, propertyID, wantName)
			if err != nil {
				// per-company failures never abort the sweep, except when
				// the whole context is gone
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warnw("skipping company", err, "company", company.Name)
				return nil
			}
			if domain == "" {
				return nil
			}
			mu.Lock()
			valuesByDomain[domain] = value
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	logger.Infow("resolved metric values",
		"metric", metricName,
		"companies", len(companies),
		"withData", len(valuesByDomain))
	return valuesByDomain, nil
}

func (c *Client) companyMetricValue(ctx context.Context, company PortfolioCompany, propertyID, wantName string) (float64, string, error) {
	website, err := c.CompanyWebsite(ctx, company.ID.String(), propertyID)
	if err != nil {
		return 0, "", err
	}
	domain := sync.NormalizeDomain(website)
	if domain == "" {
		return 0, "", nil
	}

	metrics, err := c.CompanyMetrics(ctx, company.ID.String())
	if err != nil {
		return 0, "", err
	}
	var metricID string
	for _, m := range metrics {
		if strings.ToLower(strings.TrimSpace(m.Name)) == wantName {
			metricID = m.ID.String()
			break
		}
	}
	if metricID == "" {
		logger.Debugw("metric not tracked for company", "company", company.Name, "metric", wantName)
		return 0, "", nil
	}

	latest, err := c.LatestDataPoint(ctx, metricID)
	if err != nil {
		return 0, "", err
	}
	value, ok := latest.Value.Float()
	if !ok {
		logger.Debugw("no data for metric", "company", company.Name, "metric", wantName)
		return 0, "", nil
	}
	return value, domain, nil
}
