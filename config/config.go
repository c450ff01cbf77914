// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package config loads the codec policy and per-entity QoS templates from
// YAML
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go.e43.eu/ddsi/plist"
	"go.e43.eu/ddsi/qos"
)

var ErrEmptyConfig = errors.New("empty config")

// Config holds the decode policy and the QoS templates, keyed by entity
// kind name ("reader", "writer", ...), which override built-in defaults
type Config struct {
	Policy   plist.Policy        `yaml:"policy"`
	Defaults map[string]*qos.QoS `yaml:"defaults,omitempty"`
}

func (c Config) String() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<error creating config string: %s>", err)
	}
	return string(b)
}

// Load parses the YAML input b into a Config and validates it
func Load(b []byte) (*Config, error) {
	if len(b) == 0 {
		return nil, ErrEmptyConfig
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses the given YAML file into a Config.
func LoadFile(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(content)
	if err != nil {
		return nil, fmt.Errorf("parsing YAML file %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks that every template names a known entity kind and that
// the template, layered over that kind's defaults, is a valid QoS
func (c *Config) Validate() error {
	for name := range c.Defaults {
		if _, err := c.QoS(name); err != nil {
			return err
		}
	}
	return nil
}

// QoS returns the effective defaults for the named entity kind: the
// configured template with the built-in defaults filling in whatever it
// leaves out
func (c *Config) QoS(name string) (*qos.QoS, error) {
	var kind qos.EntityKind
	if err := kind.UnmarshalText([]byte(name)); err != nil {
		return nil, err
	}
	base, err := qos.Defaults(kind)
	if err != nil {
		return nil, err
	}

	out := &qos.QoS{}
	out.MergeMissing(c.Defaults[name])
	out.MergeMissing(base)
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("defaults for %s: %w", name, err)
	}
	return out, nil
}
