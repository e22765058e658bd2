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
	"fmt"

	"github.com/pkg/browser"
	"github.com/urfave/cli/v3"
)

const affinityAppURL = "https://app.affinity.co"

var OpenFlag = &cli.BoolFlag{
	Name:  "open",
	Usage: "Open the Affinity list in the browser when done",
}

func OpenAffinityList(listID int64) error {
	url := fmt.Sprintf("%s/lists/%d", affinityAppURL, listID)
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
