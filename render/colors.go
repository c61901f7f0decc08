package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samuelbigos/tower-of-babylon/engine"
	"github.com/samuelbigos/tower-of-babylon/physics"
)

var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)
	RgbHelpText   = tcell.NewRGBColor(120, 120, 140)
	RgbHUDText    = tcell.NewRGBColor(255, 255, 255)

	RgbSolid    = tcell.NewRGBColor(120, 110, 100) // Default layer
	RgbKillZone = tcell.NewRGBColor(200, 50, 50)
	RgbBlocker  = tcell.NewRGBColor(100, 150, 255)
	RgbGrapple  = tcell.NewRGBColor(0, 200, 0)

	RgbAgent         = tcell.NewRGBColor(255, 165, 0)
	RgbAgentAirborne = tcell.NewRGBColor(255, 255, 0)
	RgbRope          = tcell.NewRGBColor(200, 200, 200)
	RgbAnchor        = tcell.NewRGBColor(50, 255, 50)
	RgbPreview       = tcell.NewRGBColor(0, 200, 200)
	RgbPreviewMiss   = tcell.NewRGBColor(100, 100, 100)

	RgbStateIntro  = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbStateAlive  = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbStateDead   = tcell.NewRGBColor(200, 50, 50)
	RgbStateSummit = tcell.NewRGBColor(255, 215, 0)
)

// layerGlyph picks how a filled cell of a collider layer is drawn
func layerGlyph(l physics.Layer) (rune, tcell.Color) {
	switch {
	case l&physics.LayerKillZone != 0:
		return '▒', RgbKillZone
	case l&physics.LayerGrapple != 0:
		return '█', RgbGrapple
	case l&physics.LayerBlocker != 0:
		return '▓', RgbBlocker
	default:
		return '█', RgbSolid
	}
}

func stateColor(s engine.GameState) tcell.Color {
	switch s {
	case engine.StateAlive:
		return RgbStateAlive
	case engine.StateDead:
		return RgbStateDead
	case engine.StateSummit:
		return RgbStateSummit
	default:
		return RgbStateIntro
	}
}
