// aedat4to2 - convert AEDAT-4 recordings into jAER AEDAT-2.0 format
// Copyright (C) 2024, the aedat4to2 authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/davis-tools/aedat4to2/convert"
	"github.com/davis-tools/aedat4to2/dvstream"
)

type Config struct {
	ChipName  string `yaml:"chip-name"`
	Exporter  string `yaml:"exporter"`
	OutputDir string `yaml:"output-dir"`
	Overwrite bool   `yaml:"overwrite"`
}

var defaultConfig = Config{
	ChipName: convert.DefaultChipName,
	Exporter: dvstream.DefaultExporterBinary,
}

func (conf *Config) Validate() error {
	if conf.ChipName == "" {
		return errors.New("chip-name cannot be empty")
	}
	if strings.ContainsAny(conf.ChipName, "\r\n") {
		return errors.New("chip-name cannot contain line breaks")
	}
	if conf.Exporter == "" {
		return errors.New("exporter cannot be empty")
	}
	return nil
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
