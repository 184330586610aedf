// Package config loads the optional ctltree.yaml file.
package config

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/controls/internal/logging"
	"github.com/go-drift/controls/pkg/controls"
	"github.com/go-drift/controls/pkg/errors"
	"github.com/go-drift/controls/pkg/tree"
)

// FileName is the config file looked up in the working directory.
const FileName = "ctltree.yaml"

// Config represents the optional ctltree.yaml configuration.
type Config struct {
	LogLevel string      `yaml:"log_level,omitempty"`
	Strict   bool        `yaml:"strict,omitempty"`
	RootKind string      `yaml:"root_kind,omitempty"`
	Styles   []StyleRule `yaml:"styles,omitempty"`
}

// StyleRule is a demo style applied to nodes carrying Class, optionally
// restricted to one Kind. Note is printed when the rule matches.
type StyleRule struct {
	Class string `yaml:"class"`
	Kind  string `yaml:"kind,omitempty"`
	Note  string `yaml:"note,omitempty"`
}

// Matches reports whether the rule applies to n.
func (r StyleRule) Matches(n *tree.Node) bool {
	if r.Kind != "" && r.Kind != n.Kind() {
		return false
	}
	return r.Class == "" || n.Classes().Contains(r.Class)
}

// Resolved contains configuration values with defaults applied.
type Resolved struct {
	Level     slog.Level
	Strict    bool
	RootKind  string
	RootModel tree.ContentModel
	Styles    []StyleRule
}

// Load reads the config at path. A missing file yields an empty config when
// optional is true.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, configError(fmt.Errorf("failed to read %s: %w", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, configError(fmt.Errorf("failed to parse %s: %w", path, err))
	}
	return &cfg, nil
}

// LoadOptional reads ctltree.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName), true)
}

// Resolve validates the config and fills in defaults.
func (c *Config) Resolve() (*Resolved, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, configError(err)
	}

	res := &Resolved{
		Level:     level,
		Strict:    c.Strict,
		RootKind:  "Root",
		RootModel: tree.SingleChild,
	}
	if kind := strings.TrimSpace(c.RootKind); kind != "" {
		model, ok := controls.Lookup(kind)
		if !ok {
			return nil, configError(fmt.Errorf("root_kind %q is not a registered control kind", kind))
		}
		if model == tree.NoChildren {
			return nil, configError(fmt.Errorf("root_kind %q cannot hold children", kind))
		}
		res.RootKind, res.RootModel = kind, model
	}
	for i, rule := range c.Styles {
		if strings.TrimSpace(rule.Class) == "" && strings.TrimSpace(rule.Kind) == "" {
			return nil, configError(fmt.Errorf("styles[%d] needs a class or a kind", i))
		}
	}
	res.Styles = c.Styles
	return res, nil
}

func configError(err error) error {
	return &errors.LifecycleError{Op: "config.Load", Kind: errors.KindConfig, Err: err}
}
