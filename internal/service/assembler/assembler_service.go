package assembler

import (
	"context"
	"fmt"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/render"
)

type Service struct {
	renderer render.Renderer
}

func NewService(renderer render.Renderer) *Service {
	return &Service{renderer: renderer}
}

// AssembleOpts carries the presentation knobs.
type AssembleOpts struct {
	InitialCandidate string
	Palette          []string
	TitlePrefix      string
	Width            int
	Height           int
}

// Assembly is the renderable unit: geo-source, selection pair and the
// widget built from them. The pipeline keeps mutating it through
// Select, so its parts always describe the same candidate.
type Assembly struct {
	Source    *GeoSource
	Selection *Selection
	Widget    *render.Widget
	Merged    *domain.MergedTable

	opts AssembleOpts
}

// Assemble builds the geo-source and the initial scale, then hands both
// to the renderer.
func (s *Service) Assemble(ctx context.Context, merged *domain.MergedTable, opts AssembleOpts) (*Assembly, error) {
	sel, err := NewSelection(merged, opts.InitialCandidate, opts.Palette)
	if err != nil {
		return nil, err
	}

	source, err := BuildGeoSource(merged, sel.Active())
	if err != nil {
		return nil, err
	}

	a := &Assembly{Source: source, Selection: sel, Merged: merged, opts: opts}

	view, err := a.view()
	if err != nil {
		return nil, err
	}
	widget, err := s.renderer.Render(ctx, view)
	if err != nil {
		return nil, fmt.Errorf("renderer.Render: %w", err)
	}
	a.Widget = widget

	return a, nil
}

// Select changes the active candidate: selection pair first, then the
// geo-source display fields, then the renderer notification. Unknown
// names leave everything untouched.
func (s *Service) Select(ctx context.Context, a *Assembly, candidate string) error {
	if !a.Selection.Select(ctx, candidate) {
		return nil
	}

	source, err := BuildGeoSource(a.Merged, a.Selection.Active())
	if err != nil {
		return err
	}
	// replace contents in place so callers holding the pointer see the
	// swap
	*a.Source = *source

	view, err := a.view()
	if err != nil {
		return err
	}
	if err := s.renderer.Refresh(ctx, view); err != nil {
		return fmt.Errorf("renderer.Refresh: %w", err)
	}

	return nil
}

func (a *Assembly) view() (*render.View, error) {
	active, scale := a.Selection.Snapshot()

	raw, err := a.Source.JSON()
	if err != nil {
		return nil, fmt.Errorf("geo-source JSON: %w", err)
	}

	return &render.View{
		Title:       fmt.Sprintf("%s : %s", a.opts.TitlePrefix, active),
		TitlePrefix: a.opts.TitlePrefix,
		Candidates:  a.Merged.Candidates,
		Active:      active,
		Scale:       scale,
		GeoJSON:     raw,
		Width:       a.opts.Width,
		Height:      a.opts.Height,
	}, nil
}
