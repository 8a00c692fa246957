package tile

import (
	"github.com/Gaurav-Gosain/tuitile/internal/drag"
	"github.com/Gaurav-Gosain/tuitile/internal/geom"
	"github.com/Gaurav-Gosain/tuitile/internal/resize"
	"github.com/Gaurav-Gosain/tuitile/internal/wset"
)

// controller is an active pointer session of a plugin.
type controller interface {
	motion(p geom.Point)
	release(force bool)
}

// moveController drags a tiled window. Dropping it is left to the retile
// manager listening on the drag context.
type moveController struct {
	ctx *drag.Context
}

func (c *moveController) motion(p geom.Point) { c.ctx.Motion(p) }

func (c *moveController) release(force bool) {
	if force {
		c.ctx.Cancel()
		return
	}
	c.ctx.Release()
}

// resizeController resizes the tiles around the grab point.
type resizeController struct {
	store *wset.Store
	rc    *resize.Controller
}

func (c *resizeController) motion(p geom.Point) { c.rc.Motion(c.store.ToGrid(p)) }

func (c *resizeController) release(force bool) { c.rc.Release() }
