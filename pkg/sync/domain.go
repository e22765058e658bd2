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

import (
	"net/url"
	"strings"
)

// NormalizeDomain reduces a website URL or bare domain to a comparable key:
// host only, lowercased, no www. prefix, no trailing slash. Empty values and
// the "N/A" placeholder map to "".
func NormalizeDomain(website string) string {
	if website == "" || website == "N/A" {
		return ""
	}

	domain := website
	if strings.Contains(website, "://") {
		if parsed, err := url.Parse(website); err == nil {
			if parsed.Host != "" {
				domain = parsed.Host
			} else {
				domain = parsed.Path
			}
		}
	}

	domain = strings.ToLower(domain)
	domain = strings.ReplaceAll(domain, "www.", "")
	domain = strings.TrimSpace(domain)
	domain = strings.TrimRight(domain, "/")
	return domain
}
