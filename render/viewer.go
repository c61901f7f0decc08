// Package render draws a session step into a terminal cell grid
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/samuelbigos/tower-of-babylon/engine"
	"github.com/samuelbigos/tower-of-babylon/grapple"
	"github.com/samuelbigos/tower-of-babylon/parameter"
	"github.com/samuelbigos/tower-of-babylon/physics"
	"github.com/samuelbigos/tower-of-babylon/vmath"
)

// ViewMode selects how world positions map to the horizontal screen axis
type ViewMode int

const (
	// ViewAuto unrolls when the step's curvature wraps, otherwise uses the side view
	ViewAuto ViewMode = iota
	// ViewSide uses world X directly
	ViewSide
	// ViewUnrolled uses arc length around the tower axis
	ViewUnrolled
	viewModeCount
)

func (m ViewMode) String() string {
	switch m {
	case ViewSide:
		return "side"
	case ViewUnrolled:
		return "unrolled"
	default:
		return "auto"
	}
}

// HUD carries frame state that is not part of the simulation
type HUD struct {
	Scene     string
	Muted     bool
	Recording bool
	Dropped   int // Ticks dropped by the clock since start
}

// Viewer renders steps onto a tcell screen
type Viewer struct {
	screen tcell.Screen
	world  *physics.World
	camera *Camera
	mode   ViewMode
	height float64 // Capsule height
}

func NewViewer(screen tcell.Screen, world *physics.World, capsule physics.Capsule) *Viewer {
	return &Viewer{
		screen: screen,
		world:  world,
		camera: NewCamera(),
		height: capsule.Height,
	}
}

// CycleMode switches to the next view mode and returns it
func (v *Viewer) CycleMode() ViewMode {
	v.mode = (v.mode + 1) % viewModeCount
	v.camera.Recenter()
	return v.mode
}

func (v *Viewer) Mode() ViewMode {
	return v.mode
}

func (v *Viewer) Camera() *Camera {
	return v.camera
}

// projection maps between 3D world points and the view plane for one frame
type projection struct {
	unrolled bool
	radius   float64 // Unrolled reference radius
	angle    float64 // Agent angle around the axis
	depth    float64 // Side view slice Z
}

func (v *Viewer) projection(s engine.Step) projection {
	pos := s.Pose.Position
	unrolled := v.mode == ViewUnrolled || (v.mode == ViewAuto && s.Curvature.Wrap)
	p := projection{unrolled: unrolled, depth: pos.Z}
	if unrolled {
		p.radius = vmath.V3FMag(vmath.V3FFlatten(pos))
		if s.Curvature.Wrap && s.Curvature.Radius > 0 {
			p.radius = s.Curvature.Radius
		}
		if p.radius <= 0 {
			p.radius = 1
		}
		p.angle = math.Atan2(pos.Z, pos.X)
	}
	return p
}

// toView maps a world point onto (u, y); the unrolled angle is taken nearest the agent
func (p projection) toView(w vmath.Vec3F) (float64, float64) {
	if !p.unrolled {
		return w.X, w.Y
	}
	d := math.Remainder(math.Atan2(w.Z, w.X)-p.angle, 2*math.Pi)
	return (p.angle + d) * p.radius, w.Y
}

func (p projection) toWorld(u, y float64) vmath.Vec3F {
	if !p.unrolled {
		return vmath.Vec3F{X: u, Y: y, Z: p.depth}
	}
	theta := u / p.radius
	return vmath.Vec3F{X: p.radius * math.Cos(theta), Y: y, Z: p.radius * math.Sin(theta)}
}

// Draw renders one step and shows the screen
func (v *Viewer) Draw(s engine.Step, hud HUD) {
	w, h := v.screen.Size()
	bg := tcell.StyleDefault.Background(RgbBackground)
	v.screen.Fill(' ', bg)

	fieldH := h - parameter.TopMargin - parameter.BottomMargin
	if w <= 0 || fieldH <= 0 {
		v.screen.Show()
		return
	}

	proj := v.projection(s)
	v.camera.Resize(w, fieldH)
	v.camera.Follow(proj.toView(s.Pose.Position))

	v.drawColliders(proj, w, fieldH, bg)
	v.drawGrapple(s, proj, bg)
	v.drawAgent(s, proj, bg)
	v.drawStatusBar(s, hud, w, bg)
	v.drawText(0, h-1, parameter.HelpText, bg.Foreground(RgbHelpText), w)

	v.screen.Show()
}

// drawColliders samples the world at every playfield cell centre
func (v *Viewer) drawColliders(proj projection, w, fieldH int, bg tcell.Style) {
	for row := 0; row < fieldH; row++ {
		for x := 0; x < w; x++ {
			p := proj.toWorld(v.camera.ToView(x, row))
			layer, ok := v.world.Contains(p, physics.LayerAll)
			if !ok {
				continue
			}
			ch, fg := layerGlyph(layer)
			v.screen.SetContent(x, row+parameter.TopMargin, ch, nil, bg.Foreground(fg))
		}
	}
}

func (v *Viewer) drawGrapple(s engine.Step, proj projection, bg tcell.Style) {
	if len(s.Sections) > 0 {
		ropeStyle := bg.Foreground(RgbRope)
		for _, sec := range s.Sections {
			v.drawLine(proj, sec.Base, sec.Tip, '·', ropeStyle)
		}
		// Bends between sections
		for _, sec := range s.Sections[1:] {
			v.plot(proj, sec.Base, '+', ropeStyle)
		}
		if s.Grapple == grapple.StateHooked {
			v.plot(proj, s.Sections[0].Base, '◆', bg.Foreground(RgbAnchor))
		} else {
			v.plot(proj, s.Sections[0].Base, '*', ropeStyle)
		}
		return
	}

	if s.Grapple == grapple.StateInactive && s.State == engine.StateAlive {
		style := bg.Foreground(RgbPreviewMiss)
		if s.Preview.Valid {
			style = bg.Foreground(RgbPreview)
		}
		v.plot(proj, s.Preview.Point, '+', style)
	}
}

func (v *Viewer) drawAgent(s engine.Step, proj projection, bg tcell.Style) {
	pos := s.Pose.Position
	color := RgbAgent
	if !s.Grounded {
		color = RgbAgentAirborne
	}
	style := bg.Foreground(color).Bold(true)

	body := '@'
	switch {
	case s.State == engine.StateDead:
		body = 'x'
	case math.Sin(s.Pose.Yaw*math.Pi/180) < -0.5:
		body = '<'
	case math.Sin(s.Pose.Yaw*math.Pi/180) > 0.5:
		body = '>'
	}
	head := vmath.V3FAdd(pos, vmath.Vec3F{Y: v.height / 4})
	feet := vmath.V3FAdd(pos, vmath.Vec3F{Y: -v.height / 4})
	v.plot(proj, head, 'o', style)
	v.plot(proj, feet, body, style)
}

func (v *Viewer) drawStatusBar(s engine.Step, hud HUD, w int, bg tcell.Style) {
	var label string
	switch s.State {
	case engine.StateAlive:
		label = parameter.StateTextAlive
	case engine.StateDead:
		label = parameter.StateTextDead
	case engine.StateSummit:
		label = parameter.StateTextSummit
	default:
		label = parameter.StateTextIntro
	}
	x := v.drawText(0, 0, label, bg.Foreground(RgbStatusText).Background(stateColor(s.State)), w)

	pos := s.Pose.Position
	info := fmt.Sprintf(" %s  t %6.2fs  h %6.1fm  v %5.1fm/s  aim %4.0f°  %s",
		hud.Scene, s.RunTime, pos.Y, vmath.V3FMag(s.Velocity), s.Input.AimAngle, s.Grapple)
	if n := len(s.Sections); n > 1 {
		info += fmt.Sprintf("×%d", n)
	}
	if s.RopeLength > 0 {
		info += fmt.Sprintf("  rope %.1fm", s.RopeLength)
	}
	if proj := v.projection(s); proj.unrolled {
		info += fmt.Sprintf("  r %.1f", proj.radius)
	}
	if hud.Dropped > 0 {
		info += fmt.Sprintf("  drop %d", hud.Dropped)
	}
	x = v.drawText(x, 0, info, bg.Foreground(RgbHUDText), w)

	var flags string
	if hud.Recording {
		flags += parameter.RecordStr
	}
	if !hud.Muted {
		flags += parameter.AudioStr
	}
	if flags != "" {
		start := max(w-len([]rune(flags)), x+1)
		v.drawText(start, 0, flags, bg.Foreground(RgbHUDText), w)
	}
}

// plot draws ch at the cell of world point p if it lies in the playfield
func (v *Viewer) plot(proj projection, p vmath.Vec3F, ch rune, style tcell.Style) {
	x, row := v.camera.ToCell(proj.toView(p))
	if x < 0 || x >= v.camera.Width || row < 0 || row >= v.camera.Height {
		return
	}
	v.screen.SetContent(x, row+parameter.TopMargin, ch, nil, style)
}

// drawLine walks the cells between two world points in view space
func (v *Viewer) drawLine(proj projection, a, b vmath.Vec3F, ch rune, style tcell.Style) {
	x0, y0 := v.camera.ToCell(proj.toView(a))
	x1, y1 := v.camera.ToCell(proj.toView(b))
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for i := 0; i <= dx-dy; i++ {
		if x0 >= 0 && x0 < v.camera.Width && y0 >= 0 && y0 < v.camera.Height {
			v.screen.SetContent(x0, y0+parameter.TopMargin, ch, nil, style)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawText writes s from column x and returns the column after it
func (v *Viewer) drawText(x, y int, s string, style tcell.Style, w int) int {
	for _, ch := range s {
		if x >= w {
			break
		}
		v.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
