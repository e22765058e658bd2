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

package util

import (
	"testing"
)

func TestEllipziseTo(t *testing.T) {
	str := "This is some long string that should be ellipsized"
	ellipsized := EllipsizeTo(str, 12)
	if len(ellipsized) != 12 {
		t.Error("ellipsizeTo should return a string of the specified length")
	}
	if ellipsized != "This is s..." {
		t.Error("ellipsizeTo should ellipsize the string")
	}
}

func TestJoinFirst(t *testing.T) {
	strs := []string{"a.co", "b.co", "c.co"}
	if JoinFirst(strs, ", ", 2) != "a.co, b.co" {
		t.Error("joinFirst should keep only the first n elements")
	}
	if JoinFirst(strs, ", ", 5) != "a.co, b.co, c.co" {
		t.Error("joinFirst should keep all elements when under the limit")
	}
}
