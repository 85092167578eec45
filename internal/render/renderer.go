// Package render decouples the map core from any concrete UI toolkit.
// The assembler hands a View to an injected Renderer; the bundled
// implementation emits a standalone interactive HTML page.
package render

import (
	"context"
	"io"
	"os"

	"github.com/sidimo/electomap/internal/domain"
)

// View is everything a renderer needs to draw the map: the serialized
// geo-source, the candidate list and the currently active selection
// with its color scale.
type View struct {
	Title       string
	TitlePrefix string
	Candidates  []string
	Active      string
	Scale       domain.ColorScale
	GeoJSON     []byte
	Width       int
	Height      int
}

// Widget is the assembled output. The HTML payload is opaque to the
// pipeline; callers embed it, save it, or discard it.
type Widget struct {
	ID   string
	HTML []byte
}

func (w *Widget) WriteTo(out io.Writer) (int64, error) {
	n, err := out.Write(w.HTML)
	return int64(n), err
}

func (w *Widget) Save(path string) error {
	return os.WriteFile(path, w.HTML, 0644)
}

// Renderer builds the widget and is notified when the active candidate
// changes. Refresh receives the already-updated view; how (and whether)
// the toolkit repaints is its own business.
type Renderer interface {
	Render(ctx context.Context, view *View) (*Widget, error)
	Refresh(ctx context.Context, view *View) error
}
