// Package config holds the editor settings shared by the orchestrator and
// every editing tool.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable, e.g.
// BRICKYARD_SNAP_SIZE.
const EnvPrefix = "BRICKYARD"

// Settings are the editing settings owned by the editor and passed by
// reference to tools. Tools read them on every call, so a change takes
// effect on the next event.
type Settings struct {
	Snapping    bool `envconfig:"SNAPPING" default:"true" yaml:"snapping"`
	Autoconnect bool `envconfig:"AUTOCONNECT" default:"true" yaml:"autoconnect"`
	RepeatBrick bool `envconfig:"REPEAT_BRICK" default:"true" yaml:"repeat_brick"`
	AxisEnabled bool `envconfig:"AXIS_ENABLED" default:"true" yaml:"axis_enabled"`
	GridEnabled bool `envconfig:"GRID_ENABLED" default:"true" yaml:"grid_enabled"`

	SnapSize   float64 `envconfig:"SNAP_SIZE" default:"4" yaml:"snap_size"`
	GridSize   float64 `envconfig:"GRID_SIZE" default:"20" yaml:"grid_size"`
	RotateStep float64 `envconfig:"ROTATE_STEP" default:"90" yaml:"rotate_step"` // degrees

	CurrentColor int `envconfig:"CURRENT_COLOR" default:"4" yaml:"current_color"`

	// SnapRadius bounds the distance at which connectors are considered
	// for snapping; LockRelease is how far the cursor must move away from
	// a locked target before it lets go.
	SnapRadius  float64 `envconfig:"SNAP_RADIUS" default:"12" yaml:"snap_radius"`
	LockRelease float64 `envconfig:"LOCK_RELEASE" default:"24" yaml:"lock_release"`

	MeshCells     int `envconfig:"MESH_CELLS" default:"48" yaml:"mesh_cells"`
	MeshCacheSize int `envconfig:"MESH_CACHE_SIZE" default:"256" yaml:"mesh_cache_size"`

	// ScriptTimeout bounds one script evaluation.
	ScriptTimeout time.Duration `envconfig:"SCRIPT_TIMEOUT" default:"5s" yaml:"script_timeout"`
}

// Default returns the built-in defaults with environment overrides applied.
func Default() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	return &s, nil
}

// MustDefault is Default for tests and hosts that cannot recover from a
// malformed environment.
func MustDefault() *Settings {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// Load returns the defaults overlaid with the YAML file at path. Keys present
// in the file win over both defaults and environment. An empty path skips
// the file.
func Load(path string) (*Settings, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path as YAML.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the editor cannot work with.
func (s *Settings) Validate() error {
	if s.SnapSize < 0 || s.GridSize < 0 {
		return fmt.Errorf("snap and grid size must not be negative")
	}
	if s.RotateStep <= 0 || s.RotateStep > 360 {
		return fmt.Errorf("rotate step %g out of range (0, 360]", s.RotateStep)
	}
	if s.SnapRadius <= 0 || s.LockRelease < s.SnapRadius {
		return fmt.Errorf("snap radius must be positive and not exceed the lock release distance")
	}
	if s.ScriptTimeout <= 0 {
		return fmt.Errorf("script timeout must be positive")
	}
	return nil
}

// RotateStepRadians returns RotateStep in radians.
func (s *Settings) RotateStepRadians() float64 {
	return s.RotateStep * math.Pi / 180
}

// Clone returns an independent copy.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}
