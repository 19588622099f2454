// Package replay drives an engine through a scripted list of shots without a
// clock and fingerprints every tick, so two runs of the same script can be
// compared bit for bit.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/duel/internal/config"
)

// DefaultMaxTicksPerShot bounds a shot that never settles.
const DefaultMaxTicksPerShot = 1000

var (
	ErrEmptyScript = errors.New("replay: script has no shots")
	ErrShotStalled = errors.New("replay: shot did not settle")
)

// Shot is one launch: the point clicked to pick the origin and the cursor
// position at release.
type Shot struct {
	Origin config.Point `yaml:"origin" json:"origin"`
	Cursor config.Point `yaml:"cursor" json:"cursor"`
}

type Script struct {
	Name            string `yaml:"name" json:"name"`
	Shots           []Shot `yaml:"shots" json:"shots"`
	MaxTicksPerShot int    `yaml:"max_ticks_per_shot" json:"max_ticks_per_shot"`
}

func (s *Script) maxTicks() int {
	if s.MaxTicksPerShot > 0 {
		return s.MaxTicksPerShot
	}
	return DefaultMaxTicksPerShot
}

// LoadScript decodes a YAML script.
func LoadScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("replay: decode script: %w", err)
	}
	if len(s.Shots) == 0 {
		return nil, ErrEmptyScript
	}
	return &s, nil
}

func LoadScriptFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := LoadScript(f)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
