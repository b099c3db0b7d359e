/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config collapses process-wide tunables into a single
// RuntimeConfig, constructed once at startup. Only part of it reaches the
// runtime: cmd/collage-node reads the first Listen entry, Cache.Size and
// MetricsAddr, and passes LocalNode a node.Config carrying the cache size;
// the node's timeouts and intervals are package-level variables that
// RuntimeConfig does not set. Struct-per-concern layout, tag set and validation
// style are grounded on nabbar/golib/config and cluster/config*.go.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ListenConfig describes one address this node listens on.
type ListenConfig struct {
	Scheme string `mapstructure:"scheme" json:"scheme" yaml:"scheme" toml:"scheme" validate:"required,oneof=TCP PIPE EVENT"`
	Host   string `mapstructure:"host" json:"host" yaml:"host" toml:"host" validate:"required"`
	Port   uint16 `mapstructure:"port" json:"port" yaml:"port" toml:"port"`
}

// TimeoutConfig groups the configured blocking-call timeouts. They are
// loaded and validated but not applied to the runtime.
type TimeoutConfig struct {
	Default       int64 `mapstructure:"default_ms" json:"default_ms" yaml:"default_ms" toml:"default_ms" validate:"min=0"`
	KeepAlive     int64 `mapstructure:"keepalive_ms" json:"keepalive_ms" yaml:"keepalive_ms" toml:"keepalive_ms" validate:"min=0"`
	Barrier       int64 `mapstructure:"barrier_ms" json:"barrier_ms" yaml:"barrier_ms" toml:"barrier_ms" validate:"min=0"`
	Map           int64 `mapstructure:"map_ms" json:"map_ms" yaml:"map_ms" toml:"map_ms" validate:"min=0"`
}

// CacheConfig sizes and ages out the per-node instance-data cache.
type CacheConfig struct {
	Size    int   `mapstructure:"size" json:"size" yaml:"size" toml:"size" validate:"min=0"`
	MaxAgeS int64 `mapstructure:"max_age_s" json:"max_age_s" yaml:"max_age_s" toml:"max_age_s" validate:"min=0"`
}

// RuntimeConfig is the complete, validated configuration for one node
// process, built once at init and never mutated afterward.
type RuntimeConfig struct {
	NodeType string         `mapstructure:"node_type" json:"node_type" yaml:"node_type" toml:"node_type" validate:"required,oneof=master slave hybrid"`
	Listen   []ListenConfig `mapstructure:"listen" json:"listen" yaml:"listen" toml:"listen" validate:"required,min=1,dive"`
	Timeouts TimeoutConfig  `mapstructure:"timeouts" json:"timeouts" yaml:"timeouts" toml:"timeouts"`
	Cache    CacheConfig    `mapstructure:"cache" json:"cache" yaml:"cache" toml:"cache"`
	// PluginDirs names directories the compressor plugin layer would load
	// from; no plugin loading is implemented, the field exists so the
	// config surface matches what a complete deployment needs.
	PluginDirs []string `mapstructure:"plugin_dirs" json:"plugin_dirs" yaml:"plugin_dirs" toml:"plugin_dirs"`
	// MetricsAddr, if non-empty, is the address a Prometheus scrape
	// listener is bound to.
	MetricsAddr string `mapstructure:"metrics_addr" json:"metrics_addr" yaml:"metrics_addr" toml:"metrics_addr"`
}

var validate = validator.New()

// Validate runs struct-tag validation over the whole config tree, the
// same go-playground/validator.Validate() call nabbar/golib/config
// performs on every component before it is considered live.
func (c *RuntimeConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Default returns a RuntimeConfig with the runtime's baseline tunables,
// used when no config file is supplied.
func Default() RuntimeConfig {
	return RuntimeConfig{
		NodeType: "hybrid",
		Listen: []ListenConfig{
			{Scheme: "TCP", Host: "0.0.0.0", Port: 4242},
		},
		Timeouts: TimeoutConfig{
			Default:   5000,
			KeepAlive: 10000,
			Barrier:   30000,
			Map:       5000,
		},
		Cache: CacheConfig{
			Size:    4096,
			MaxAgeS: 60,
		},
	}
}

// Load reads a RuntimeConfig from path (any format viper supports: yaml,
// json, toml) layered over Default, then validates the result.
func Load(path string) (RuntimeConfig, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
