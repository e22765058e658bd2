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

package sync

import "testing"

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"not available placeholder", "N/A", ""},
		{"bare domain", "acme.com", "acme.com"},
		{"https url", "https://acme.com", "acme.com"},
		{"http url with path", "http://acme.com/about", "acme.com"},
		{"www prefix", "www.acme.com", "acme.com"},
		{"url with www", "https://www.acme.com/", "acme.com"},
		{"uppercase", "HTTPS://WWW.Acme.COM", "acme.com"},
		{"trailing slash", "acme.com/", "acme.com"},
		{"surrounding whitespace", " acme.com ", "acme.com"},
		{"subdomain kept", "https://app.acme.com", "app.acme.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDomain(tc.input); got != tc.expected {
				t.Errorf("NormalizeDomain(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
