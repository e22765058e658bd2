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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// IDs in the Visible API are passed through as query parameters, never
// interpreted, so they are kept as json.Number to tolerate both string and
// numeric encodings.
type PortfolioCompany struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type Metric struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

// DataPoint is one dated observation of a metric. Values arrive as numbers,
// numeric strings, or null.
type DataPoint struct {
	Date  string `json:"date"`
	Value Number `json:"value"`
}

type PortfolioProperty struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type PortfolioPropertyValue struct {
	PortfolioPropertyID json.Number `json:"portfolio_property_id"`
	Value               string      `json:"value"`
}

// Number is a float that may be encoded as a JSON number, a quoted numeric
// string, or null. Unparseable values decode as absent rather than failing
// the whole payload.
type Number struct {
	value   float64
	present bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	if raw == "" || raw == "None" {
		*n = Number{}
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = Number{}
		return nil
	}
	*n = Number{value: value, present: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

func (n Number) Float() (float64, bool) {
	return n.value, n.present
}

type meta struct {
	TotalPages int `json:"total_pages"`
}

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("visible: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("visible: unexpected status %d: %s", e.StatusCode, e.Body)
}
