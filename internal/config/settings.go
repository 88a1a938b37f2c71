package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultSettingsPath is the path to the canonical settings defaults file.
// This is the single source of truth for all default values.
const DefaultSettingsPath = "config/settings.defaults.json"

// Built-in fallbacks used by the Get* methods when a field is unset.
const (
	defaultBaseResolution     = 6
	defaultLockedAxisEnabled  = true
	defaultLockedWorldAxis    = "X"
	defaultInterpolation      = "KEY_BSPLINE"
	defaultScaleFactor        = 0.95
	defaultShiftFactor        = 0.5
	defaultResetToUniform     = true
	defaultLiveUpdateInterval = 150 * time.Millisecond
)

// Settings is the user-facing configuration for lattice creation and
// deformation. Unset fields fall back to built-in defaults through the
// Get* methods, so partial files are safe.
type Settings struct {
	// Lattice creation
	BaseResolution    *int    `json:"base_resolution,omitempty"`
	LockedAxisEnabled *bool   `json:"locked_axis_enabled,omitempty"`
	LockedWorldAxis   *string `json:"locked_world_axis,omitempty"` // "X", "Y" or "Z"
	Interpolation     *string `json:"interpolation,omitempty"`     // KEY_LINEAR, KEY_CARDINAL, KEY_CATMULL_ROM, KEY_BSPLINE

	// Deformation
	ScaleFactor    *float64 `json:"scale_factor,omitempty"`
	ShiftFactor    *float64 `json:"shift_factor,omitempty"`
	OffsetX        *float64 `json:"offset_x,omitempty"`
	OffsetY        *float64 `json:"offset_y,omitempty"`
	OffsetZ        *float64 `json:"offset_z,omitempty"`
	ResetToUniform *bool    `json:"reset_to_uniform,omitempty"`

	// Live update
	LiveUpdateInterval *string `json:"live_update_interval,omitempty"` // duration string like "150ms"
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptySettings returns Settings with all fields set to nil.
func EmptySettings() *Settings {
	return &Settings{}
}

// DefaultSettings returns Settings with every field populated from the
// built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		BaseResolution:     ptrInt(defaultBaseResolution),
		LockedAxisEnabled:  ptrBool(defaultLockedAxisEnabled),
		LockedWorldAxis:    ptrString(defaultLockedWorldAxis),
		Interpolation:      ptrString(defaultInterpolation),
		ScaleFactor:        ptrFloat64(defaultScaleFactor),
		ShiftFactor:        ptrFloat64(defaultShiftFactor),
		OffsetX:            ptrFloat64(0),
		OffsetY:            ptrFloat64(0),
		OffsetZ:            ptrFloat64(0),
		ResetToUniform:     ptrBool(defaultResetToUniform),
		LiveUpdateInterval: ptrString(defaultLiveUpdateInterval.String()),
	}
}

// LoadSettings loads Settings from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadSettings(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("settings file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat settings file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("settings file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	cfg := EmptySettings()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return cfg, nil
}

// SaveSettings writes s as indented JSON.
func SaveSettings(path string, s *Settings) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return fmt.Errorf("settings file must have .json extension, got %q", ext)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(cleanPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// MustLoadDefaultSettings loads the canonical defaults from DefaultSettingsPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultSettings() *Settings {
	candidates := []string{
		DefaultSettingsPath,
		"../../" + DefaultSettingsPath,       // from internal/config/
		"../../../" + DefaultSettingsPath,    // from internal/lattice/solver/
		"../../../../" + DefaultSettingsPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadSettings(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultSettingsPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable.
func (c *Settings) Validate() error {
	if c.BaseResolution != nil && *c.BaseResolution < 2 {
		return fmt.Errorf("base_resolution must be at least 2, got %d", *c.BaseResolution)
	}

	if c.LockedWorldAxis != nil {
		switch strings.ToUpper(*c.LockedWorldAxis) {
		case "X", "Y", "Z":
		default:
			return fmt.Errorf("locked_world_axis must be X, Y or Z, got %q", *c.LockedWorldAxis)
		}
	}

	if c.Interpolation != nil {
		switch *c.Interpolation {
		case "KEY_LINEAR", "KEY_CARDINAL", "KEY_CATMULL_ROM", "KEY_BSPLINE":
		default:
			return fmt.Errorf("unknown interpolation %q", *c.Interpolation)
		}
	}

	for name, v := range map[string]*float64{
		"scale_factor": c.ScaleFactor,
		"shift_factor": c.ShiftFactor,
		"offset_x":     c.OffsetX,
		"offset_y":     c.OffsetY,
		"offset_z":     c.OffsetZ,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%s must be finite", name)
		}
	}

	if c.ScaleFactor != nil && *c.ScaleFactor < 0 {
		return fmt.Errorf("scale_factor must be non-negative, got %f", *c.ScaleFactor)
	}

	if c.ShiftFactor != nil && (*c.ShiftFactor < -1 || *c.ShiftFactor > 1) {
		return fmt.Errorf("shift_factor must be between -1 and 1, got %f", *c.ShiftFactor)
	}

	if c.LiveUpdateInterval != nil && *c.LiveUpdateInterval != "" {
		d, err := time.ParseDuration(*c.LiveUpdateInterval)
		if err != nil {
			return fmt.Errorf("invalid live_update_interval '%s': %w", *c.LiveUpdateInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("live_update_interval must be positive, got %s", d)
		}
	}

	return nil
}

// Set parses value and assigns it to the field whose JSON name is key.
// The result is validated; on error the settings are left unchanged.
func (c *Settings) Set(key, value string) error {
	next := *c
	value = strings.TrimSpace(value)

	parseFloat := func() (*float64, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return &f, nil
	}
	parseBool := func() (*bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return &b, nil
	}

	var err error
	switch key {
	case "base_resolution":
		var n int
		n, err = strconv.Atoi(value)
		if err == nil {
			next.BaseResolution = &n
		}
	case "locked_axis_enabled":
		next.LockedAxisEnabled, err = parseBool()
	case "locked_world_axis":
		next.LockedWorldAxis = ptrString(strings.ToUpper(value))
	case "interpolation":
		next.Interpolation = ptrString(value)
	case "scale_factor":
		next.ScaleFactor, err = parseFloat()
	case "shift_factor":
		next.ShiftFactor, err = parseFloat()
	case "offset_x":
		next.OffsetX, err = parseFloat()
	case "offset_y":
		next.OffsetY, err = parseFloat()
	case "offset_z":
		next.OffsetZ, err = parseFloat()
	case "reset_to_uniform":
		next.ResetToUniform, err = parseBool()
	case "live_update_interval":
		next.LiveUpdateInterval = ptrString(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ResetDeformSliders sets scale to 1 and shift and offsets to 0, leaving
// every other field as is.
func (c *Settings) ResetDeformSliders() {
	c.ScaleFactor = ptrFloat64(1)
	c.ShiftFactor = ptrFloat64(0)
	c.OffsetX = ptrFloat64(0)
	c.OffsetY = ptrFloat64(0)
	c.OffsetZ = ptrFloat64(0)
}

// GetBaseResolution returns the base_resolution value or the default.
func (c *Settings) GetBaseResolution() int {
	if c.BaseResolution == nil {
		return defaultBaseResolution
	}
	return *c.BaseResolution
}

// GetLockedAxisEnabled returns the locked_axis_enabled value or the default.
func (c *Settings) GetLockedAxisEnabled() bool {
	if c.LockedAxisEnabled == nil {
		return defaultLockedAxisEnabled
	}
	return *c.LockedAxisEnabled
}

// GetLockedWorldAxis returns the locked_world_axis value or the default.
func (c *Settings) GetLockedWorldAxis() string {
	if c.LockedWorldAxis == nil || *c.LockedWorldAxis == "" {
		return defaultLockedWorldAxis
	}
	return strings.ToUpper(*c.LockedWorldAxis)
}

// GetInterpolation returns the interpolation value or the default.
func (c *Settings) GetInterpolation() string {
	if c.Interpolation == nil || *c.Interpolation == "" {
		return defaultInterpolation
	}
	return *c.Interpolation
}

// GetScaleFactor returns the scale_factor value or the default.
func (c *Settings) GetScaleFactor() float64 {
	if c.ScaleFactor == nil {
		return defaultScaleFactor
	}
	return *c.ScaleFactor
}

// GetShiftFactor returns the shift_factor value or the default.
func (c *Settings) GetShiftFactor() float64 {
	if c.ShiftFactor == nil {
		return defaultShiftFactor
	}
	return *c.ShiftFactor
}

// GetOffsetX returns the offset_x value or 0.
func (c *Settings) GetOffsetX() float64 {
	if c.OffsetX == nil {
		return 0
	}
	return *c.OffsetX
}

// GetOffsetY returns the offset_y value or 0.
func (c *Settings) GetOffsetY() float64 {
	if c.OffsetY == nil {
		return 0
	}
	return *c.OffsetY
}

// GetOffsetZ returns the offset_z value or 0.
func (c *Settings) GetOffsetZ() float64 {
	if c.OffsetZ == nil {
		return 0
	}
	return *c.OffsetZ
}

// GetResetToUniform returns the reset_to_uniform value or the default.
func (c *Settings) GetResetToUniform() bool {
	if c.ResetToUniform == nil {
		return defaultResetToUniform
	}
	return *c.ResetToUniform
}

// GetLiveUpdateInterval parses and returns the LiveUpdateInterval as a time.Duration.
func (c *Settings) GetLiveUpdateInterval() time.Duration {
	if c.LiveUpdateInterval == nil || *c.LiveUpdateInterval == "" {
		return defaultLiveUpdateInterval
	}
	d, err := time.ParseDuration(*c.LiveUpdateInterval)
	if err != nil || d <= 0 {
		return defaultLiveUpdateInterval // default on parse error
	}
	return d
}
