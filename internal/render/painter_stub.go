//go:build !ebiten

package render

// ScopePainter is a placeholder that satisfies the API expected by the GUI
// build.
type ScopePainter struct{}

// NewScopePainter panics to indicate that the ebiten build tag is required.
func NewScopePainter(int, int) *ScopePainter {
	panic("render.NewScopePainter requires building with the 'ebiten' tag")
}

// Blit is a no-op placeholder.
func (p *ScopePainter) Blit(any, []byte, int) {}

// Size returns zeros in the headless build.
func (p *ScopePainter) Size() (int, int) { return 0, 0 }
