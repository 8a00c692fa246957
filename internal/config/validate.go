package config

import (
	"fmt"
	"strings"

	"github.com/Gaurav-Gosain/tuitile/internal/tile"
)

// ValidationError describes one problem in the configuration.
type ValidationError struct {
	Field   string
	Key     string
	Message string
}

func (e ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("[%s] %s", e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Field, e.Key, e.Message)
}

// ValidationResult holds the errors and warnings of a configuration.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors reports whether the configuration is unusable.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether anything looks suspicious.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

func (r *ValidationResult) errorf(field, key, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field, key, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Key: key, Message: fmt.Sprintf(format, args...)})
}

// ValidateConfig checks every setting of cfg.
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	r := &ValidationResult{}

	t := cfg.Tile
	switch t.TileByDefault {
	case tile.TileAll, tile.TileNone:
	default:
		r.errorf("tile", "tile_by_default", "must be %q or %q, got %q", tile.TileAll, tile.TileNone, t.TileByDefault)
	}
	for key, v := range map[string]int{
		"inner_gap_size":       t.InnerGapSize,
		"outer_horiz_gap_size": t.OuterHorizGapSize,
		"outer_vert_gap_size":  t.OuterVertGapSize,
	} {
		if v < 0 {
			r.errorf("tile", key, "must not be negative, got %d", v)
		} else if v > 200 {
			r.warnf("tile", key, "gap of %d leaves little room for windows", v)
		}
	}
	if t.GridWidth < 1 || t.GridHeight < 1 {
		r.errorf("tile", "grid_width", "workspace grid must be at least 1x1, got %dx%d", t.GridWidth, t.GridHeight)
	} else if t.GridWidth*t.GridHeight > 9 {
		r.warnf("tile", "grid_width", "only the first 9 of %d workspaces have default keybindings", t.GridWidth*t.GridHeight)
	}

	d := cfg.Drag
	if d.StartThreshold < 0 {
		r.errorf("drag", "start_threshold", "must not be negative, got %v", d.StartThreshold)
	}
	if d.SnapOffThreshold < 0 {
		r.errorf("drag", "snap_off_threshold", "must not be negative, got %v", d.SnapOffThreshold)
	} else if d.SnapOffThreshold < d.StartThreshold {
		r.warnf("drag", "snap_off_threshold", "smaller than start_threshold, tiled windows come loose at once")
	}
	if d.Sensitivity <= 0 || d.Sensitivity > 0.5 {
		r.errorf("drag", "sensitivity", "must be in (0, 0.5], got %v", d.Sensitivity)
	}
	if d.InitialScale <= 0 {
		r.errorf("drag", "initial_scale", "must be positive, got %v", d.InitialScale)
	}

	if cfg.Resize.MinSize < 1 {
		r.errorf("resize", "min_size", "must be positive, got %d", cfg.Resize.MinSize)
	}

	validateKeybinds(cfg, r)
	return r
}

func validateKeybinds(cfg *UserConfig, r *ValidationResult) {
	normalizer := NewKeyNormalizer()
	owner := make(map[string]string)
	for _, section := range cfg.Keybindings.sections() {
		for action, keys := range section {
			if _, known := ActionDescriptions[action]; !known {
				r.warnf("keybindings", action, "unknown action")
			}
			for _, key := range keys {
				if ok, msg := normalizer.ValidateKey(key); !ok {
					r.errorf("keybindings", action, "invalid key %q: %s", key, msg)
					continue
				}
				canon := normalizer.NormalizeKey(key)[0]
				if prev, dup := owner[canon]; dup && prev != action {
					r.warnf("keybindings", action, "key %q is also bound to %s", key, prev)
					continue
				}
				owner[canon] = action
			}
		}
	}
}

// String summarises the result for the CLI.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	for _, e := range r.Errors {
		sb.WriteString("error: " + e.Error() + "\n")
	}
	for _, w := range r.Warnings {
		sb.WriteString("warning: " + w.Error() + "\n")
	}
	return sb.String()
}
