//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Param is one labeled value shown on the overlay readout.
type Param struct {
	Label string
	Value string
}

// Overlay draws a toggleable parameter readout on top of the scope view.
type Overlay struct {
	visible bool
}

// NewOverlay constructs an overlay, initially visible.
func NewOverlay() *Overlay { return &Overlay{visible: true} }

// Update handles the visibility toggle.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		o.visible = !o.visible
	}
}

var readoutColor = color.RGBA{R: 0x60, G: 0xff, B: 0x60, A: 0xff}

// Draw renders the parameter list in the top-left screen corner.
func (o *Overlay) Draw(screen *ebiten.Image, params []Param) {
	if !o.visible {
		return
	}
	face := basicfont.Face7x13
	y := 16
	for _, p := range params {
		text.Draw(screen, p.Label+": "+p.Value, face, 8, y, readoutColor)
		y += 14
	}
}
