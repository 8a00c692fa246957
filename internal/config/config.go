// Package config loads the tuitile configuration file: tiling gaps and
// defaults, drag and resize tunables, the demo theme and keybindings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/resize"
	"github.com/Gaurav-Gosain/tuitile/internal/retile"
	"github.com/Gaurav-Gosain/tuitile/internal/tile"
)

// ConfigFile is the path of the config file below the XDG config home.
const ConfigFile = "tuitile/config.toml"

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "config",
	})
}

// SetLogLevel sets the logging level for the config package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// UserConfig represents the user's configuration file
type UserConfig struct {
	Tile        TileConfig        `toml:"tile"`
	Drag        DragConfig        `toml:"drag"`
	Resize      ResizeConfig      `toml:"resize"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
}

// TileConfig holds the tiling settings
type TileConfig struct {
	InnerGapSize             int    `toml:"inner_gap_size"`
	OuterHorizGapSize        int    `toml:"outer_horiz_gap_size"`
	OuterVertGapSize         int    `toml:"outer_vert_gap_size"`
	TileByDefault            string `toml:"tile_by_default"` // all or none
	KeepFullscreenOnAdjacent *bool  `toml:"keep_fullscreen_on_adjacent"`
	GridWidth                int    `toml:"grid_width"`  // workspace columns per output
	GridHeight               int    `toml:"grid_height"` // workspace rows per output
}

// DragConfig holds the pointer drag settings
type DragConfig struct {
	StartThreshold   float64 `toml:"start_threshold"`
	SnapOffThreshold float64 `toml:"snap_off_threshold"`
	Sensitivity      float64 `toml:"sensitivity"` // share of a tile that counts as an edge
	InitialScale     float64 `toml:"initial_scale"`
}

// ResizeConfig holds the tile resize settings
type ResizeConfig struct {
	MinSize int `toml:"min_size"`
}

// AppearanceConfig holds demo appearance settings
type AppearanceConfig struct {
	Theme string `toml:"theme"` // bubbletint theme id, empty for terminal colors
}

// KeybindingsConfig holds all keybinding configurations
type KeybindingsConfig struct {
	Windows    map[string][]string `toml:"windows"`
	Tiling     map[string][]string `toml:"tiling"`
	Workspaces map[string][]string `toml:"workspaces"`
	System     map[string][]string `toml:"system"`
}

func (k *KeybindingsConfig) sections() []map[string][]string {
	return []map[string][]string{k.Windows, k.Tiling, k.Workspaces, k.System}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	opts := tile.DefaultOptions()
	keep := opts.KeepFullscreenOnAdjacent
	return &UserConfig{
		Tile: TileConfig{
			InnerGapSize:             opts.InnerGap,
			OuterHorizGapSize:        opts.OuterHorizGap,
			OuterVertGapSize:         opts.OuterVertGap,
			TileByDefault:            opts.TileByDefault,
			KeepFullscreenOnAdjacent: &keep,
			GridWidth:                opts.Grid.Width,
			GridHeight:               opts.Grid.Height,
		},
		Drag: DragConfig{
			StartThreshold:   drag.DefaultStartThreshold,
			SnapOffThreshold: drag.DefaultSnapOffThreshold,
			Sensitivity:      retile.DefaultSensitivity,
			InitialScale:     1,
		},
		Resize: ResizeConfig{MinSize: resize.DefaultMinSize},
		Keybindings: KeybindingsConfig{
			Windows: map[string][]string{
				"new_window":      {"n"},
				"close_window":    {"x"},
				"minimize_window": {"m"},
				"restore_all":     {"M"},
				"next_window":     {"tab"},
			},
			Tiling: map[string][]string{
				"toggle_tiling":     {"t"},
				"toggle_fullscreen": {"f"},
				"focus_left":        {"h", "left"},
				"focus_right":       {"l", "right"},
				"focus_up":          {"k", "up"},
				"focus_down":        {"j", "down"},
				"cycle_gaps":        {"g"},
				"print_layout":      {"p"},
			},
			Workspaces: defaultWorkspaceKeybinds(),
			System: map[string][]string{
				"toggle_help": {"?"},
				"quit":        {"q", "ctrl+c"},
			},
		},
	}
}

func defaultWorkspaceKeybinds() map[string][]string {
	// terminals report alt+shift+1 as alt+!
	const shifted = "!@#$%^&*("
	binds := make(map[string][]string, 18)
	for i := 1; i <= 9; i++ {
		binds[fmt.Sprintf("switch_workspace_%d", i)] = []string{fmt.Sprintf("alt+%d", i)}
		binds[fmt.Sprintf("move_to_workspace_%d", i)] = []string{
			fmt.Sprintf("alt+shift+%d", i),
			"alt+" + shifted[i-1:i],
		}
	}
	return binds
}

// TileOptions converts the configuration into tiling manager options.
func (c *UserConfig) TileOptions() tile.Options {
	opts := tile.DefaultOptions()
	opts.TileByDefault = c.Tile.TileByDefault
	if c.Tile.KeepFullscreenOnAdjacent != nil {
		opts.KeepFullscreenOnAdjacent = *c.Tile.KeepFullscreenOnAdjacent
	}
	opts.InnerGap = c.Tile.InnerGapSize
	opts.OuterHorizGap = c.Tile.OuterHorizGapSize
	opts.OuterVertGap = c.Tile.OuterVertGapSize
	opts.Grid = geom.Dimensions{Width: c.Tile.GridWidth, Height: c.Tile.GridHeight}
	opts.StartThreshold = c.Drag.StartThreshold
	opts.SnapOffThreshold = c.Drag.SnapOffThreshold
	opts.Sensitivity = c.Drag.Sensitivity
	opts.InitialScale = c.Drag.InitialScale
	opts.MinSize = c.Resize.MinSize
	return opts
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile(ConfigFile)
	}
	return path, nil
}

// LoadUserConfig loads the user configuration from the XDG config directory,
// writing a commented default file first when there is none.
func LoadUserConfig() (*UserConfig, error) {
	path, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		path, err = xdg.ConfigFile(ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		cfg := DefaultConfig()
		if err := WriteConfigFile(path, cfg); err != nil {
			return nil, err
		}
		logger.Info("created default config", "path", path)
		return cfg, nil
	}
	return LoadConfigFile(path)
}

// LoadConfigFile reads, completes and validates the config file at path.
func LoadConfigFile(path string) (*UserConfig, error) {
	// #nosec G304 - reading the user config is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML data and fills every missing setting with its
// default. Validation errors are fatal; warnings are logged.
func ParseConfig(data []byte) (*UserConfig, error) {
	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config file at line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaultCfg := DefaultConfig()
	fillMissingTile(&cfg, defaultCfg)
	fillMissingDrag(&cfg, defaultCfg)
	fillMissingKeybinds(&cfg, defaultCfg)

	validation := ValidateConfig(&cfg)
	for _, warn := range validation.Warnings {
		logger.Warn("config warning", "field", warn.Field, "key", warn.Key, "msg", warn.Message)
	}
	if validation.HasErrors() {
		for _, e := range validation.Errors {
			logger.Error("config error", "field", e.Field, "key", e.Key, "msg", e.Message)
		}
		return nil, fmt.Errorf("configuration has %d error(s): %w", len(validation.Errors), validation.Errors[0])
	}
	return &cfg, nil
}

// fillMissingTile fills unset tiling settings. Gap sizes of zero are valid
// and kept.
func fillMissingTile(cfg, defaultCfg *UserConfig) {
	if cfg.Tile.TileByDefault == "" {
		cfg.Tile.TileByDefault = defaultCfg.Tile.TileByDefault
	}
	if cfg.Tile.KeepFullscreenOnAdjacent == nil {
		cfg.Tile.KeepFullscreenOnAdjacent = defaultCfg.Tile.KeepFullscreenOnAdjacent
	}
	if cfg.Tile.GridWidth == 0 {
		cfg.Tile.GridWidth = defaultCfg.Tile.GridWidth
	}
	if cfg.Tile.GridHeight == 0 {
		cfg.Tile.GridHeight = defaultCfg.Tile.GridHeight
	}
	if cfg.Resize.MinSize == 0 {
		cfg.Resize.MinSize = defaultCfg.Resize.MinSize
	}
}

func fillMissingDrag(cfg, defaultCfg *UserConfig) {
	if cfg.Drag.StartThreshold == 0 {
		cfg.Drag.StartThreshold = defaultCfg.Drag.StartThreshold
	}
	if cfg.Drag.SnapOffThreshold == 0 {
		cfg.Drag.SnapOffThreshold = defaultCfg.Drag.SnapOffThreshold
	}
	if cfg.Drag.Sensitivity == 0 {
		cfg.Drag.Sensitivity = defaultCfg.Drag.Sensitivity
	}
	if cfg.Drag.InitialScale == 0 {
		cfg.Drag.InitialScale = defaultCfg.Drag.InitialScale
	}
}

// fillMissingKeybinds fills in any missing keybindings with defaults
func fillMissingKeybinds(cfg, defaultCfg *UserConfig) {
	k := &cfg.Keybindings
	if k.Windows == nil {
		k.Windows = make(map[string][]string)
	}
	if k.Tiling == nil {
		k.Tiling = make(map[string][]string)
	}
	if k.Workspaces == nil {
		k.Workspaces = make(map[string][]string)
	}
	if k.System == nil {
		k.System = make(map[string][]string)
	}
	fillMapDefaults(k.Windows, defaultCfg.Keybindings.Windows)
	fillMapDefaults(k.Tiling, defaultCfg.Keybindings.Tiling)
	fillMapDefaults(k.Workspaces, defaultCfg.Keybindings.Workspaces)
	fillMapDefaults(k.System, defaultCfg.Keybindings.System)
}

func fillMapDefaults(target, defaults map[string][]string) {
	for k, v := range defaults {
		if _, exists := target[k]; !exists {
			target[k] = v
		}
	}
}

// WriteConfigFile writes cfg to path with a commented header, creating the
// directory when needed.
func WriteConfigFile(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := Marshal(cfg, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders cfg as TOML below a header describing every setting.
func Marshal(cfg *UserConfig, path string) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# tuitile configuration file\n")
	if path != "" {
		sb.WriteString("# Configuration location: " + path + "\n")
	}
	sb.WriteString("# For keybindings run: tuitile keybinds list\n")
	sb.WriteString("#\n")
	sb.WriteString("# [tile]\n")
	sb.WriteString("#   inner_gap_size: gap between adjacent tiles (default 5)\n")
	sb.WriteString("#   outer_horiz_gap_size, outer_vert_gap_size: gaps at the output edges\n")
	sb.WriteString("#   tile_by_default: all or none\n")
	sb.WriteString("#   keep_fullscreen_on_adjacent: hand fullscreen over when moving focus\n")
	sb.WriteString("#   grid_width, grid_height: workspaces per output (default 3x3)\n")
	sb.WriteString("# [drag]\n")
	sb.WriteString("#   start_threshold: pointer travel before a move starts (default 5)\n")
	sb.WriteString("#   snap_off_threshold: travel before a tiled window comes loose (default 20)\n")
	sb.WriteString("#   sensitivity: share of a tile that counts as a drop edge, up to 0.5\n")
	sb.WriteString("#   initial_scale: scale of a window while dragged\n")
	sb.WriteString("# [resize]\n")
	sb.WriteString("#   min_size: smallest tile width or height while resizing (default 50)\n")
	sb.WriteString("# [appearance]\n")
	sb.WriteString("#   theme: color theme id for the demo, empty for terminal colors\n\n")
	sb.Write(data)
	return []byte(sb.String()), nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
