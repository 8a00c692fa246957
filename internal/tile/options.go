package tile

import (
	"fmt"

	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/resize"
	"github.com/Gaurav-Gosain/tuitile/internal/retile"
)

// Values of Options.TileByDefault.
const (
	TileAll  = "all"
	TileNone = "none"
)

// Options are the tunables of the tiling manager.
type Options struct {
	// TileByDefault is TileAll or TileNone.
	TileByDefault            string
	KeepFullscreenOnAdjacent bool

	InnerGap      int
	OuterHorizGap int
	OuterVertGap  int

	// Grid is the workspace grid size of new outputs.
	Grid geom.Dimensions

	StartThreshold   float64
	SnapOffThreshold float64
	Sensitivity      float64
	InitialScale     float64

	MinSize int
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		TileByDefault:            TileAll,
		KeepFullscreenOnAdjacent: true,
		InnerGap:                 5,
		OuterHorizGap:            0,
		OuterVertGap:             0,
		Grid:                     geom.Dimensions{Width: 3, Height: 3},
		StartThreshold:           drag.DefaultStartThreshold,
		SnapOffThreshold:         drag.DefaultSnapOffThreshold,
		Sensitivity:              retile.DefaultSensitivity,
		InitialScale:             1,
		MinSize:                  resize.DefaultMinSize,
	}
}

// Validate reports the first unusable value.
func (o Options) Validate() error {
	switch o.TileByDefault {
	case TileAll, TileNone:
	default:
		return fmt.Errorf("tile_by_default must be %q or %q, got %q", TileAll, TileNone, o.TileByDefault)
	}
	if o.InnerGap < 0 || o.OuterHorizGap < 0 || o.OuterVertGap < 0 {
		return fmt.Errorf("gap sizes must not be negative")
	}
	if o.Grid.Width < 1 || o.Grid.Height < 1 {
		return fmt.Errorf("workspace grid must be at least 1x1, got %dx%d", o.Grid.Width, o.Grid.Height)
	}
	if o.Sensitivity <= 0 || o.Sensitivity > 0.5 {
		return fmt.Errorf("drop sensitivity must be in (0, 0.5], got %v", o.Sensitivity)
	}
	if o.MinSize < 1 {
		return fmt.Errorf("minimum resize size must be positive, got %d", o.MinSize)
	}
	return nil
}
