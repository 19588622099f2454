// Package config describes a match: the simulation constants, the arena
// layout, the spectator server and the log level.
package config

import (
	"time"
)

// Config is the root document loaded from YAML or JSON.
type Config struct {
	Params   Params `json:"params" yaml:"params"`
	Layout   Layout `json:"layout" yaml:"layout"`
	Server   Server `json:"server" yaml:"server"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Params holds the simulation constants.
type Params struct {
	Width       float32 `json:"width" yaml:"width"`
	Height      float32 `json:"height" yaml:"height"`
	UnitLength  float32 `json:"unit_length" yaml:"unit_length"`
	LineWidth   float32 `json:"line_width" yaml:"line_width"`
	ReachRadius float32 `json:"reach_radius" yaml:"reach_radius"`
	Life        int     `json:"life" yaml:"life"`

	// TranslationSteps is the number of increments a shot is allowed.
	TranslationSteps int     `json:"translation_steps" yaml:"translation_steps"`
	BlendRatio       float32 `json:"blend_ratio" yaml:"blend_ratio"`
	VanishTolerance  float32 `json:"vanish_tolerance" yaml:"vanish_tolerance"`
	TickRate         int     `json:"tick_rate" yaml:"tick_rate"`
}

// PawnRadius is half a unit.
func (p Params) PawnRadius() float32 { return p.UnitLength / 2 }

// TickInterval is the wall-clock period between ticks.
func (p Params) TickInterval() time.Duration {
	if p.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(p.TickRate)
}

// Point is an (x, y) pair.
type Point [2]float32

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	W float32 `json:"w" yaml:"w"`
	H float32 `json:"h" yaml:"h"`
}

type Segment struct {
	Start Point `json:"start" yaml:"start"`
	End   Point `json:"end" yaml:"end"`
}

type Hazard struct {
	Center Point   `json:"center" yaml:"center"`
	Size   float32 `json:"size" yaml:"size"`
}

type Tree struct {
	Center   Point   `json:"center" yaml:"center"`
	Diameter float32 `json:"diameter" yaml:"diameter"`
}

// King places one side's king. Side is "magenta" or "cyan".
type King struct {
	Side   string  `json:"side" yaml:"side"`
	Body   Point   `json:"body" yaml:"body"`
	Radius float32 `json:"radius" yaml:"radius"`
	Throne Rect    `json:"throne" yaml:"throne"`
}

// Layout lists the static scene. A layout with no obstacle section set is
// replaced by the classic map; a missing fence or missing kings take their
// classic placement.
type Layout struct {
	Fence   *Rect     `json:"fence,omitempty" yaml:"fence,omitempty"`
	Walls   []Rect    `json:"walls,omitempty" yaml:"walls,omitempty"`
	Windows []Segment `json:"windows,omitempty" yaml:"windows,omitempty"`
	Hazards []Hazard  `json:"hazards,omitempty" yaml:"hazards,omitempty"`
	Trees   []Tree    `json:"trees,omitempty" yaml:"trees,omitempty"`
	Kings   []King    `json:"kings,omitempty" yaml:"kings,omitempty"`
}

// Empty reports whether no obstacle section is set.
func (l Layout) Empty() bool {
	return l.Fence == nil && len(l.Walls) == 0 && len(l.Windows) == 0 &&
		len(l.Hazards) == 0 && len(l.Trees) == 0
}

type Server struct {
	Addr         string        `json:"addr" yaml:"addr"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	SendBuffer   int           `json:"send_buffer" yaml:"send_buffer"`
	QueueSize    int           `json:"queue_size" yaml:"queue_size"`
}

// DefaultParams reproduces the classic game constants.
func DefaultParams() Params {
	const width, height = 800, 600
	return Params{
		Width:            width,
		Height:           height,
		UnitLength:       10,
		LineWidth:        1,
		ReachRadius:      height / 4,
		Life:             3,
		TranslationSteps: 10,
		BlendRatio:       0.5,
		VanishTolerance:  0.05,
		TickRate:         30,
	}
}

func DefaultServer() Server {
	return Server{
		Addr:         ":8080",
		WriteTimeout: 5 * time.Second,
		SendBuffer:   64,
		QueueSize:    16,
	}
}

// Default returns the classic match with an empty layout.
func Default() *Config {
	return &Config{
		Params:   DefaultParams(),
		Server:   DefaultServer(),
		LogLevel: "info",
	}
}
