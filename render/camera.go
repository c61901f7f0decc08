package render

import (
	"math"

	"github.com/samuelbigos/tower-of-babylon/parameter"
)

// Camera maps the 2D view plane (horizontal coordinate u, height y) to terminal cells
// It scrolls only when the followed point leaves the dead zone
type Camera struct {
	U, Y       float64 // World point at the viewport centre
	ScaleX     float64 // Cells per metre
	ScaleY     float64
	MarginX    int
	MarginY    int
	Width      int
	Height     int
	positioned bool
}

func NewCamera() *Camera {
	return &Camera{
		ScaleX:  parameter.CameraCellsPerMetreX,
		ScaleY:  parameter.CameraCellsPerMetreY,
		MarginX: parameter.CameraDeadZoneMarginX,
		MarginY: parameter.CameraDeadZoneMarginY,
	}
}

// Resize sets the viewport size in cells
func (c *Camera) Resize(w, h int) {
	c.Width, c.Height = w, h
}

// Follow shifts the camera just enough to keep (u, y) inside the dead zone
// The first call centres on the point
func (c *Camera) Follow(u, y float64) {
	if !c.positioned {
		c.U, c.Y = u, y
		c.positioned = true
		return
	}

	halfW := float64(c.Width)/2 - float64(min(c.MarginX, c.Width/2))
	halfH := float64(c.Height)/2 - float64(min(c.MarginY, c.Height/2))
	dx := (u - c.U) * c.ScaleX
	dy := (y - c.Y) * c.ScaleY
	if dx > halfW {
		c.U += (dx - halfW) / c.ScaleX
	} else if dx < -halfW {
		c.U += (dx + halfW) / c.ScaleX
	}
	if dy > halfH {
		c.Y += (dy - halfH) / c.ScaleY
	} else if dy < -halfH {
		c.Y += (dy + halfH) / c.ScaleY
	}
}

// Recenter forgets the position so the next Follow centres again
func (c *Camera) Recenter() {
	c.positioned = false
}

// ToCell returns the cell containing the view point; rows grow downwards
func (c *Camera) ToCell(u, y float64) (int, int) {
	x := float64(c.Width)/2 + (u-c.U)*c.ScaleX
	row := float64(c.Height)/2 - (y-c.Y)*c.ScaleY
	return int(math.Floor(x)), int(math.Floor(row))
}

// ToView returns the view point at the centre of a cell
func (c *Camera) ToView(x, row int) (float64, float64) {
	u := c.U + (float64(x)+0.5-float64(c.Width)/2)/c.ScaleX
	y := c.Y - (float64(row)+0.5-float64(c.Height)/2)/c.ScaleY
	return u, y
}
