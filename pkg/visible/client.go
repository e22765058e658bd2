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

// Package visible is a client for the Visible.vc reporting API: portfolio
// companies, metrics, data points, and portfolio properties.
package visible

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vasync/vasync/pkg/util"
)

const (
	DefaultBaseURL = "https://api.visible.vc"

	dataPointPageSize = 100
	maxErrorBody      = 200
)

var defaultLimit = rate.Every(time.Minute / 300)

type Client struct {
	baseURL   string
	token     string
	companyID string
	http      *http.Client
	limiter   *rate.Limiter
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

func WithRateLimit(limit rate.Limit) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

// NewClient builds a client scoped to one Visible company account.
func NewClient(token, companyID string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		token:     token,
		companyID: companyID,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(defaultLimit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPortfolioCompanies returns every company profile in the portfolio.
func (c *Client) ListPortfolioCompanies(ctx context.Context) ([]PortfolioCompany, error) {
	var companies []PortfolioCompany
	err := c.forEachPage(ctx, "/portfolio_company_profiles", nil, func(body []byte) (meta, error) {
		var page struct {
			Companies []PortfolioCompany `json:"portfolio_company_profiles"`
			Meta      meta               `json:"meta"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return meta{}, err
		}
		companies = append(companies, page.Companies...)
		return page.Meta, nil
	})
	return companies, err
}

// ListMetrics returns all metric definitions for the account.
func (c *Client) ListMetrics(ctx context.Context) ([]Metric, error) {
	return c.listMetrics(ctx, nil)
}

// CompanyMetrics returns the metrics tracked for one portfolio company.
func (c *Client) CompanyMetrics(ctx context.Context, profileID string) ([]Metric, error) {
	return c.listMetrics(ctx, url.Values{
		"filter[portfolio_company_profile_id]": []string{profileID},
	})
}

func (c *Client) listMetrics(ctx context.Context, extra url.Values) ([]Metric, error) {
	var metrics []Metric
	err := c.forEachPage(ctx, "/metrics", extra, func(body []byte) (meta, error) {
		var page struct {
			Metrics []Metric `json:"metrics"`
			Meta    meta     `json:"meta"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return meta{}, err
		}
		metrics = append(metrics, page.Metrics...)
		return page.Meta, nil
	})
	return metrics, err
}

// MetricNames returns the deduplicated, sorted metric names for selection
// prompts.
func (c *Client) MetricNames(ctx context.Context) ([]string, error) {
	metrics, err := c.ListMetrics(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(metrics))
	var names []string
	for _, m := range metrics {
		if m.Name == "" || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}

// LatestDataPoint returns the newest dated data point of a metric that
// carries a value. The zero DataPoint is returned when no usable point
// exists.
func (c *Client) LatestDataPoint(ctx context.Context, metricID string) (DataPoint, error) {
	var latest DataPoint

	params := url.Values{
		"metric_id": []string{metricID},
		"page_size": []string{fmt.Sprint(dataPointPageSize)},
	}
	err := c.forEachPage(ctx, "/data_points", params, func(body []byte) (meta, error) {
		var page struct {
			DataPoints []DataPoint `json:"data_points"`
			Meta       meta        `json:"meta"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return meta{}, err
		}
		for _, dp := range page.DataPoints {
			if _, ok := dp.Value.Float(); !ok {
				continue
			}
			// ISO dates compare correctly as strings
			if dp.Date != "" && dp.Date > latest.Date {
				latest = dp
			}
		}
		return page.Meta, nil
	})
	return latest, err
}

// WebsitePropertyID finds the portfolio property holding company websites,
// matched by a name starting with "website".
func (c *Client) WebsitePropertyID(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/portfolio_properties", url.Values{
		"company_id": []string{c.companyID},
	})
	if err != nil {
		return "", err
	}

	var payload struct {
		Properties []PortfolioProperty `json:"portfolio_properties"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	for _, p := range payload.Properties {
		if strings.HasPrefix(strings.ToLower(p.Name), "website") {
			return p.ID.String(), nil
		}
	}
	return "", ErrNoWebsiteProperty
}

// CompanyWebsite returns the website property value of one company, or ""
// when unset.
func (c *Client) CompanyWebsite(ctx context.Context, profileID, propertyID string) (string, error) {
	body, err := c.get(ctx, "/portfolio_property_values", url.Values{
		"portfolio_company_profile_id": []string{profileID},
	})
	if err != nil {
		return "", err
	}

	var payload struct {
		Values []PortfolioPropertyValue `json:"portfolio_property_values"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	for _, v := range payload.Values {
		if v.PortfolioPropertyID.String() == propertyID {
			return v.Value, nil
		}
	}
	return "", nil
}

// forEachPage walks the page-number pagination protocol: request page=N and
// stop once N reaches meta.total_pages. company_id is always included.
func (c *Client) forEachPage(ctx context.Context, path string, extra url.Values, consume func([]byte) (meta, error)) error {
	for page := 1; ; page++ {
		params := url.Values{}
		for key, values := range extra {
			params[key] = values
		}
		params.Set("company_id", c.companyID)
		params.Set("page", fmt.Sprint(page))

		body, err := c.get(ctx, path, params)
		if err != nil {
			return err
		}

		m, err := consume(body)
		if err != nil {
			return fmt.Errorf("visible: decoding %s: %w", path, err)
		}

		totalPages := m.TotalPages
		if totalPages < 1 {
			totalPages = 1
		}
		if page >= totalPages {
			return nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: res.StatusCode,
			Body:       util.EllipsizeTo(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}
	return body, nil
}
