//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// ScopePainter uploads the kernel's RGBA display buffer into a reusable
// image and draws it scaled to the screen.
type ScopePainter struct {
	w, h int
	img  *ebiten.Image
}

// NewScopePainter allocates a painter matching the scope buffer size.
func NewScopePainter(w, h int) *ScopePainter {
	return &ScopePainter{w: w, h: h, img: ebiten.NewImage(w, h)}
}

// Blit uploads the RGBA buffer and draws it at the given integer scale.
func (p *ScopePainter) Blit(dst *ebiten.Image, rgba []byte, scale int) {
	if len(rgba) != 4*p.w*p.h {
		return
	}
	p.img.ReplacePixels(rgba)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}

// Size returns the dimensions of the underlying image.
func (p *ScopePainter) Size() (int, int) { return p.w, p.h }
