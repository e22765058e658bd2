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

// Package affinity is a minimal client for the Affinity v2 REST API,
// covering lists, list fields, list entries, and field updates.
package affinity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vasync/vasync/pkg/logger"
	"github.com/vasync/vasync/pkg/util"
)

const (
	DefaultBaseURL = "https://api.affinity.co"

	pageLimit    = 100
	maxErrorBody = 200
)

// Affinity allows 900 requests per minute per key.
var defaultLimit = rate.Every(time.Minute / 900)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
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

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(defaultLimit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListLists returns all lists visible to the token.
func (c *Client) ListLists(ctx context.Context) ([]List, error) {
	return collect[List](ctx, c, "/v2/lists")
}

// ListFields returns the field metadata for a list.
func (c *Client) ListFields(ctx context.Context, listID int64) ([]Field, error) {
	return collect[Field](ctx, c, fmt.Sprintf("/v2/lists/%d/fields", listID))
}

// ListEntries returns every row of a list.
func (c *Client) ListEntries(ctx context.Context, listID int64) ([]ListEntry, error) {
	return collect[ListEntry](ctx, c, fmt.Sprintf("/v2/lists/%d/list-entries", listID))
}

// UpdateFieldValue writes a numeric value into one field of one list entry.
func (c *Client) UpdateFieldValue(ctx context.Context, listID, entryID int64, fieldID string, value float64) error {
	payload := updateFieldsRequest{
		Operation: "update-fields",
		Updates: []fieldUpdate{
			{ID: fieldID, Value: fieldValue{Type: "number", Data: value}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v2/lists/%d/list-entries/%d/fields", c.baseURL, listID, entryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	logger.Debugw("updating affinity field", "listID", listID, "entryID", entryID, "fieldID", fieldID)
	_, err = c.do(req)
	return err
}

// collect follows the v2 pagination protocol: limit on the first request
// only, then pagination.nextUrl until it is empty. Next URLs may be absolute
// or server-relative.
func collect[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	url := fmt.Sprintf("%s%s?limit=%d", c.baseURL, path, pageLimit)

	var all []T
	for url != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		body, err := c.do(req)
		if err != nil {
			return nil, err
		}

		var page listPage[T]
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("affinity: decoding %s: %w", path, err)
		}
		all = append(all, page.Data...)

		next := page.Pagination.NextURL
		switch {
		case next == "":
			url = ""
		case strings.HasPrefix(next, "http"):
			url = next
		default:
			url = c.baseURL + next
		}
	}

	return all, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
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
