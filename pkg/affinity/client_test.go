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
	return NewClient("test-token",
		WithBaseURL(srv.URL),
		WithRateLimit(rate.Inf),
	)
}

func TestListListsFollowsRelativeNextURL(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.String())
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch len(requests) {
		case 1:
			fmt.Fprint(w, `{"data":[{"id":1,"name":"Portfolio"}],"pagination":{"nextUrl":"/v2/lists?cursor=abc"}}`)
		default:
			fmt.Fprint(w, `{"data":[{"id":2,"name":"Pipeline"}],"pagination":{"nextUrl":null}}`)
		}
	}))
	defer srv.Close()

	lists, err := newTestClient(srv).ListLists(context.Background())
	require.NoError(t, err)

	require.Len(t, lists, 2)
	assert.Equal(t, "Portfolio", lists[0].Name)
	assert.Equal(t, "Pipeline", lists[1].Name)

	// limit is sent on the first request only
	require.Len(t, requests, 2)
	assert.Equal(t, "/v2/lists?limit=100", requests[0])
	assert.Equal(t, "/v2/lists?cursor=abc", requests[1])
}

func TestListListsFollowsAbsoluteNextURL(t *testing.T) {
	var srv *httptest.Server
	var pages int
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		if pages == 1 {
			fmt.Fprintf(w, `{"data":[{"id":1,"name":"A"}],"pagination":{"nextUrl":"%s/v2/lists?cursor=next"}}`, srv.URL)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":2,"name":"B"}],"pagination":{}}`)
	}))
	defer srv.Close()

	lists, err := newTestClient(srv).ListLists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, 2, pages)
}

func TestListEntriesDecodesEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/lists/42/list-entries", r.URL.Path)
		fmt.Fprint(w, `{"data":[
			{"id":7,"entity":{"id":100,"name":"Acme","domains":["acme.com","acme.dev"]}},
			{"id":8,"entity":{"id":101,"name":"Globex","domains":[]}}
		],"pagination":{"nextUrl":null}}`)
	}))
	defer srv.Close()

	entries, err := newTestClient(srv).ListEntries(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, int64(7), entries[0].ID)
	assert.Equal(t, "Acme", entries[0].Entity.Name)
	assert.Equal(t, []string{"acme.com", "acme.dev"}, entries[0].Entity.Domains)
	assert.Empty(t, entries[1].Entity.Domains)
}

func TestUpdateFieldValuePayload(t *testing.T) {
	var got updateFieldsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v2/lists/42/list-entries/7/fields", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv).UpdateFieldValue(context.Background(), 42, 7, "field-9", 18.5)
	require.NoError(t, err)

	assert.Equal(t, "update-fields", got.Operation)
	require.Len(t, got.Updates, 1)
	assert.Equal(t, "field-9", got.Updates[0].ID)
	assert.Equal(t, "number", got.Updates[0].Value.Type)
	assert.Equal(t, 18.5, got.Updates[0].Value.Data)
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write(long)
	}))
	defer srv.Close()

	err := newTestClient(srv).UpdateFieldValue(context.Background(), 1, 2, "field-3", 0)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.LessOrEqual(t, len(statusErr.Body), 200)
}
