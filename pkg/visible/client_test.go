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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("test-token", "company-1",
		WithBaseURL(srv.URL),
		WithRateLimit(rate.Inf),
	)
}

func TestListPortfolioCompaniesPaginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/portfolio_company_profiles", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "company-1", r.URL.Query().Get("company_id"))

		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"portfolio_company_profiles":[{"id":1,"name":"Acme"}],"meta":{"total_pages":2}}`)
		case "2":
			fmt.Fprint(w, `{"portfolio_company_profiles":[{"id":"2","name":"Globex"}],"meta":{"total_pages":2}}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	companies, err := newTestClient(srv).ListPortfolioCompanies(context.Background())
	require.NoError(t, err)

	require.Len(t, companies, 2)
	assert.Equal(t, "Acme", companies[0].Name)
	// both numeric and string ids decode
	assert.Equal(t, "1", companies[0].ID.String())
	assert.Equal(t, "2", companies[1].ID.String())
}

func TestMetricNamesDeduplicatesAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"metrics":[
			{"id":1,"name":"Runway"},
			{"id":2,"name":"ARR"},
			{"id":3,"name":"Runway"},
			{"id":4,"name":""}
		],"meta":{"total_pages":1}}`)
	}))
	defer srv.Close()

	names, err := newTestClient(srv).MetricNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ARR", "Runway"}, names)
}

func TestLatestDataPointPicksNewestWithValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data_points", r.URL.Path)
		require.Equal(t, "42", r.URL.Query().Get("metric_id"))

		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"data_points":[
				{"date":"2025-06-30","value":12.5},
				{"date":"2025-07-31","value":null}
			],"meta":{"total_pages":2}}`)
		default:
			fmt.Fprint(w, `{"data_points":[
				{"date":"2025-05-31","value":"14.25"},
				{"date":"2025-04-30","value":9}
			],"meta":{"total_pages":2}}`)
		}
	}))
	defer srv.Close()

	latest, err := newTestClient(srv).LatestDataPoint(context.Background(), "42")
	require.NoError(t, err)

	// the newest date carries null, so the next newest valued point wins
	assert.Equal(t, "2025-06-30", latest.Date)
	value, ok := latest.Value.Float()
	require.True(t, ok)
	assert.Equal(t, 12.5, value)
}

func TestWebsitePropertyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"portfolio_properties":[
			{"id":1,"name":"Sector"},
			{"id":2,"name":"Website URL"}
		]}`)
	}))
	defer srv.Close()

	id, err := newTestClient(srv).WebsitePropertyID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestWebsitePropertyIDMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"portfolio_properties":[{"id":1,"name":"Sector"}]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).WebsitePropertyID(context.Background())
	require.ErrorIs(t, err, ErrNoWebsiteProperty)
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad token"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ListPortfolioCompanies(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestNumberUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		value   float64
		present bool
	}{
		{"number", `18.5`, 18.5, true},
		{"integer", `7`, 7, true},
		{"numeric string", `"14.25"`, 14.25, true},
		{"null", `null`, 0, false},
		{"none string", `"None"`, 0, false},
		{"empty string", `""`, 0, false},
		{"garbage string", `"n/a"`, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tc.input), &n))
			value, ok := n.Float()
			assert.Equal(t, tc.present, ok)
			if tc.present {
				assert.Equal(t, tc.value, value)
			}
		})
	}
}

func TestMetricValuesByDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/portfolio_company_profiles":
			fmt.Fprint(w, `{"portfolio_company_profiles":[
				{"id":1,"name":"Acme"},
				{"id":2,"name":"NoSite"},
				{"id":3,"name":"NoMetric"}
			],"meta":{"total_pages":1}}`)
		case "/portfolio_properties":
			fmt.Fprint(w, `{"portfolio_properties":[{"id":9,"name":"Website"}]}`)
		case "/portfolio_property_values":
			switch q.Get("portfolio_company_profile_id") {
			case "1":
				fmt.Fprint(w, `{"portfolio_property_values":[{"portfolio_property_id":9,"value":"https://www.acme.com"}]}`)
			case "3":
				fmt.Fprint(w, `{"portfolio_property_values":[{"portfolio_property_id":9,"value":"nometric.io"}]}`)
			default:
				fmt.Fprint(w, `{"portfolio_property_values":[]}`)
			}
		case "/metrics":
			switch q.Get("filter[portfolio_company_profile_id]") {
			case "1":
				fmt.Fprint(w, `{"metrics":[{"id":11,"name":" Runway "}],"meta":{"total_pages":1}}`)
			default:
				fmt.Fprint(w, `{"metrics":[{"id":12,"name":"ARR"}],"meta":{"total_pages":1}}`)
			}
		case "/data_points":
			fmt.Fprint(w, `{"data_points":[{"date":"2025-07-31","value":18.5}],"meta":{"total_pages":1}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	values, err := newTestClient(srv).MetricValuesByDomain(context.Background(), "runway")
	require.NoError(t, err)

	// name matching ignores case and padding; companies without a website
	// or without the metric are skipped
	assert.Equal(t, map[string]float64{"acme.com": 18.5}, values)
}
