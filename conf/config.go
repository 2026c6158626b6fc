// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package conf

import (
	"os"

	scrapeerrors "github.com/n42blockchain/N42/pkg/errors"
	"gopkg.in/yaml.v2"
)

// AppConfig is the top-level shape of the --config YAML file.
type AppConfig struct {
	Node    NodeConfig    `yaml:"node"`
	Scraper ScraperConfig `yaml:"scraper"`
	Logger  LoggerConfig  `yaml:"logger"`
}

// DefaultAppConfig mirrors DefaultScraperConfig with sane companion
// node/logger defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Node:    NodeConfig{DataDir: "./data"},
		Scraper: DefaultScraperConfig(),
		Logger:  LoggerConfig{Level: "info", MaxSize: 100, MaxBackups: 10, MaxAge: 30, Compress: true},
	}
}

// LoadAppConfig reads and unmarshals a YAML config file at path. The
// original Starknet scraper configures itself from TOML; no TOML
// library exists anywhere in this module's dependency pack, so this
// port uses gopkg.in/yaml.v2, already a genuine teacher dependency.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, scrapeerrors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, scrapeerrors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}
