package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownFormat = errors.New("unknown config format")
)

// LoadJSON decodes a config from JSON over the defaults and validates it.
func LoadJSON(r io.Reader) (*Config, error) {
	c := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadYAML decodes a config from YAML over the defaults and validates it.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile picks the decoder by extension: .yaml, .yml or .json.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Validate rejects constants the engine cannot run with.
func (c *Config) Validate() error {
	p := c.Params
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return invalid("params.width/height", "must be positive")
	case p.UnitLength <= 0:
		return invalid("params.unit_length", "must be positive")
	case p.ReachRadius <= 0:
		return invalid("params.reach_radius", "must be positive")
	case p.Life <= 0:
		return invalid("params.life", "must be positive")
	case p.TranslationSteps <= 0:
		return invalid("params.translation_steps", "must be positive")
	case p.BlendRatio <= 0 || p.BlendRatio > 1:
		return invalid("params.blend_ratio", "must be in (0, 1]")
	case p.VanishTolerance <= 0:
		return invalid("params.vanish_tolerance", "must be positive")
	case p.TickRate <= 0:
		return invalid("params.tick_rate", "must be positive")
	}

	for i, k := range c.Layout.Kings {
		if k.Side != "magenta" && k.Side != "cyan" {
			return invalid(fmt.Sprintf("layout.kings[%d].side", i), "must be magenta or cyan")
		}
		if k.Radius <= 0 {
			return invalid(fmt.Sprintf("layout.kings[%d].radius", i), "must be positive")
		}
	}
	if n := len(c.Layout.Kings); n != 0 && n != 2 {
		return invalid("layout.kings", "needs exactly one king per side")
	}
	if n := len(c.Layout.Kings); n == 2 && c.Layout.Kings[0].Side == c.Layout.Kings[1].Side {
		return invalid("layout.kings", "needs exactly one king per side")
	}
	for i, h := range c.Layout.Hazards {
		if h.Size <= 0 {
			return invalid(fmt.Sprintf("layout.hazards[%d].size", i), "must be positive")
		}
	}
	for i, t := range c.Layout.Trees {
		if t.Diameter <= 0 {
			return invalid(fmt.Sprintf("layout.trees[%d].diameter", i), "must be positive")
		}
	}

	switch sv := c.Server; {
	case sv.WriteTimeout <= 0:
		return invalid("server.write_timeout", "must be positive")
	case sv.SendBuffer <= 0:
		return invalid("server.send_buffer", "must be positive")
	case sv.QueueSize <= 0:
		return invalid("server.queue_size", "must be positive")
	}
	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, reason)
}
