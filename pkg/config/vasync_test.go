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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVasyncTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()

	conf := NewVasyncTOML("acme-fund").
		WithSync(42, "field-9", "Runway (months)", "Runway")
	require.NoError(t, conf.SaveTOMLFile(dir, VasyncTOMLFile))

	loaded, exists, err := LoadTOMLFile(dir, VasyncTOMLFile)
	require.NoError(t, err)
	require.True(t, exists)

	assert.Equal(t, "acme-fund", loaded.Workspace.Name)
	require.True(t, loaded.HasSync())
	assert.Equal(t, int64(42), loaded.Sync.AffinityListID)
	assert.Equal(t, "field-9", loaded.Sync.AffinityFieldID)
	assert.Equal(t, "Runway (months)", loaded.Sync.FieldName)
	assert.Equal(t, "Runway", loaded.Sync.VisibleMetric)
}

func TestLoadTOMLFileMissing(t *testing.T) {
	dir := t.TempDir()

	conf, exists, err := LoadTOMLFile(dir, VasyncTOMLFile)
	assert.Nil(t, conf)
	assert.False(t, exists)
	assert.Error(t, err)
}

func TestLoadTOMLFileWithoutWorkspace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, VasyncTOMLFile), []byte("[sync]\naffinity_list_id = 1\n"), 0644))

	_, exists, err := LoadTOMLFile(dir, VasyncTOMLFile)
	assert.True(t, exists)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
