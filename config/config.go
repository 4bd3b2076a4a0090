package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds the user-facing configuration for a shape-overlay filter
// instance. Fields may be loaded from a YAML file and overridden by
// command-line flags.
type Settings struct {
	TemplatePath string `yaml:"template_path"`
	OverlayPath  string `yaml:"overlay_path"`

	// Detection parameters
	Threshold  float64 `yaml:"threshold"`
	IntervalMS int     `yaml:"interval_ms"`

	// Rendering parameters
	Opacity         float64 `yaml:"opacity"`
	OffsetX         int     `yaml:"offset_x"`
	OffsetY         int     `yaml:"offset_y"`
	ScaleOverlay    bool    `yaml:"scale_overlay"`
	OnlyWhenMatched bool    `yaml:"only_when_matched"`

	// Demo host behavior
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns Settings populated with standard defaults.
func Defaults() Settings {
	return Settings{
		TemplatePath:    "",
		OverlayPath:     "",
		Threshold:       0.80,
		IntervalMS:      100,
		Opacity:         100,
		OffsetX:         0,
		OffsetY:         0,
		ScaleOverlay:    true,
		OnlyWhenMatched: true,
		Debug:           false,
		DebugDir:        "debug",
	}
}

// Normalize clamps values to their documented ranges.
func (s *Settings) Normalize() {
	s.Threshold = clampF(s.Threshold, 0, 1)
	s.Opacity = clampF(s.Opacity, 0, 100)
	s.IntervalMS = clampI(s.IntervalMS, 0, 2000)
	s.OffsetX = clampI(s.OffsetX, -4096, 4096)
	s.OffsetY = clampI(s.OffsetY, -4096, 4096)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Load attempts to read settings from the given YAML file path. If the file
// does not exist it returns Defaults(). On a parse error it returns defaults
// with the error.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Defaults(), err
	}
	s.Normalize()
	return s, nil
}

// Save writes the settings to the given path in YAML format.
func (s Settings) Save(path string) error {
	s.Normalize()
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
