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

package affinity

import "fmt"

// List is an Affinity list as returned by /v2/lists.
type List struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Field describes a column on a list. Field IDs are opaque strings in the
// v2 API ("field-123").
type Field struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ValueType string `json:"valueType,omitempty"`
}

// ListEntry is a row on a list; the entity carries the company name and its
// registered domains.
type ListEntry struct {
	ID     int64  `json:"id"`
	Type   string `json:"type,omitempty"`
	Entity Entity `json:"entity"`
}

type Entity struct {
	ID      int64    `json:"id,omitempty"`
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
}

type pagination struct {
	NextURL string `json:"nextUrl"`
}

type listPage[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

type fieldValue struct {
	Type string  `json:"type"`
	Data float64 `json:"data"`
}

type fieldUpdate struct {
	ID    string     `json:"id"`
	Value fieldValue `json:"value"`
}

type updateFieldsRequest struct {
	Operation string        `json:"operation"`
	Updates   []fieldUpdate `json:"updates"`
}

// StatusError is returned for non-2xx API responses. The body is truncated;
// it is for diagnostics, not parsing.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("affinity: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("affinity: unexpected status %d: %s", e.StatusCode, e.Body)
}
