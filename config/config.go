// Package config defines how an editing session is configured.
package config

import (
	"encoding/json"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sculpt/octree"
)

// DefaultHistoryLimit is the number of undoable edits kept when none is configured.
const DefaultHistoryLimit = 100

// Config describes an editing session.
type Config struct {
	Octree  octree.Config `json:"octree"`
	History HistoryConfig `json:"history"`
	Debug   bool          `json:"debug"`
}

// HistoryConfig configures the undo history.
type HistoryConfig struct {
	// Limit is the number of undoable edits kept. Zero keeps all of them.
	Limit int `json:"limit"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Octree:  octree.DefaultConfig(),
		History: HistoryConfig{Limit: DefaultHistoryLimit},
	}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	var err error
	if octreeErr := c.Octree.Validate(); octreeErr != nil {
		err = multierr.Append(err, errors.Wrap(octreeErr, "octree"))
	}
	if c.History.Limit < 0 {
		err = multierr.Append(err, errors.Errorf("history limit must not be negative, got %d", c.History.Limit))
	}
	return err
}

// FromAttributes decodes a config from loosely typed attributes, such as parsed JSON. Missing fields keep their
// defaults and unknown fields are an error.
func FromAttributes(attributes map[string]interface{}) (*Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "cannot decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Read loads a config from a JSON file.
func Read(path string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %q", path)
	}
	var attributes map[string]interface{}
	if err := json.Unmarshal(data, &attributes); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", path)
	}
	cfg, err := FromAttributes(attributes)
	if err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}
