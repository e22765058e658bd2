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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/vasync/vasync/pkg/logger"
	"github.com/vasync/vasync/pkg/util"
)

const (
	VasyncTOMLFile = "vasync.toml"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration file")
)

// VasyncTOML is the per-directory mapping file written after an interactive
// sync run, so later runs need no prompts.
type VasyncTOML struct {
	Workspace *VasyncTOMLWorkspaceConfig `toml:"workspace"`
	Sync      *VasyncTOMLSyncConfig      `toml:"sync"`
}

type VasyncTOMLWorkspaceConfig struct {
	Name string `toml:"name"`
}

type VasyncTOMLSyncConfig struct {
	AffinityListID  int64  `toml:"affinity_list_id"`
	AffinityFieldID string `toml:"affinity_field_id"`
	FieldName       string `toml:"field_name"`
	VisibleMetric   string `toml:"visible_metric"`
}

func NewVasyncTOML(forWorkspace string) *VasyncTOML {
	return &VasyncTOML{
		Workspace: &VasyncTOMLWorkspaceConfig{
			Name: forWorkspace,
		},
	}
}

func (c *VasyncTOML) WithSync(listID int64, fieldID, fieldName, metricName string) *VasyncTOML {
	c.Sync = &VasyncTOMLSyncConfig{
		AffinityListID:  listID,
		AffinityFieldID: fieldID,
		FieldName:       fieldName,
		VisibleMetric:   metricName,
	}
	return c
}

func (c *VasyncTOML) HasSync() bool {
	return c.Sync != nil
}

func (c *VasyncTOML) SaveTOMLFile(dir string, tomlFileName string) error {
	f, err := os.Create(filepath.Join(dir, tomlFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("error encoding TOML: %w", err)
	}
	fmt.Printf("Saving config file [%s]\n", util.Accented(tomlFileName))
	return nil
}

func LoadTOMLFile(dir string, tomlFileName string) (*VasyncTOML, bool, error) {
	logger.Debugw(fmt.Sprintf("loading %s file", tomlFileName))
	var config *VasyncTOML
	var err error
	var configExists bool

	tomlFile := filepath.Join(dir, tomlFileName)

	if _, err = os.Stat(tomlFile); err == nil {
		configExists = true

		if _, err = toml.DecodeFile(tomlFile, &config); err != nil {
			return nil, configExists, err
		}
		if config == nil || config.Workspace == nil {
			return nil, configExists, fmt.Errorf("%s has no [workspace] section: %w", tomlFileName, ErrInvalidConfig)
		}
	} else {
		configExists = !errors.Is(err, fs.ErrNotExist)
	}

	return config, configExists, err
}
