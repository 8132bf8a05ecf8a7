package main

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type PatternKind int

const (
	PatternText PatternKind = iota
	PatternImage
)

// maxEmbossDepth bounds the displacement amplitude. The UI range is
// 0.1..0.6; the core clamps rather than trusting the caller.
const maxEmbossDepth = 0.6

// DefaultResolution is the heightmap edge length in pixels.
const DefaultResolution = 4096

func ParsePatternKind(s string) (PatternKind, error) {
	switch s {
	case "text":
		return PatternText, nil
	case "image":
		return PatternImage, nil
	}
	return 0, fmt.Errorf("unrecognised pattern kind: %s", s)
}

func (k PatternKind) String() string {
	if k == PatternImage {
		return "image"
	}
	return "text"
}

func (k *PatternKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	kind, err := ParsePatternKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Config is the immutable snapshot of all generation parameters for one
// cycle. The orchestrator copies it by value, so an in-flight cycle
// never sees later edits.
type Config struct {
	Kind PatternKind `yaml:"kind"`

	Text          string  `yaml:"text"`
	Font          string  `yaml:"font"`
	FontSize      float64 `yaml:"font_size"`
	LetterSpacing float64 `yaml:"letter_spacing"`

	ImagePath  string  `yaml:"image"`
	ImageScale float64 `yaml:"image_scale"`

	SpacingX float64 `yaml:"spacing_x"`
	SpacingY float64 `yaml:"spacing_y"`
	Tilt     float64 `yaml:"tilt"` // degrees, per-tile rotation

	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`

	Resolution int `yaml:"resolution"`

	Quiet bool `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Kind:       PatternText,
		Text:       "A",
		Font:       "regular",
		FontSize:   120,
		ImageScale: 1,
		SpacingX:   20,
		SpacingY:   120,
		Radius:     15,
		Height:     60,
		Depth:      0.4,
		Resolution: DefaultResolution,
	}
}

// LoadConfig reads a YAML pattern description, applied on top of the
// defaults so partial files work.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("radius must be > 0, got %g", c.Radius)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be > 0, got %g", c.Height)
	}
	if c.Depth < 0 {
		return fmt.Errorf("depth must be >= 0, got %g", c.Depth)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution must be > 0, got %d", c.Resolution)
	}
	switch c.Kind {
	case PatternText:
		if _, err := lookupFont(c.Font); err != nil {
			return err
		}
	case PatternImage:
		if c.ImagePath == "" {
			return fmt.Errorf("image pattern needs an image path")
		}
	default:
		return fmt.Errorf("unrecognised pattern kind: %d", c.Kind)
	}
	return nil
}

// normalized clamps parameters the generation math depends on into safe
// ranges without rejecting the config.
func (c Config) normalized() Config {
	c.Tilt = math.Mod(c.Tilt, 360)
	if c.Tilt < 0 {
		c.Tilt += 360
	}
	if c.Depth < 0 {
		c.Depth = 0
	}
	if c.Depth > maxEmbossDepth {
		c.Depth = maxEmbossDepth
	}
	if c.ImageScale <= 0 {
		c.ImageScale = 1
	}
	if c.Resolution < 64 {
		c.Resolution = 64
	}
	return c
}
