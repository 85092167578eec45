package assembler

import (
	"context"
	"sync"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/pkg/constants"
	"github.com/sidimo/electomap/internal/pkg/logger"
)

// Selection holds the active candidate and its color scale behind one
// mutex: a reader can never observe the scale of one candidate paired
// with the name of another.
type Selection struct {
	mu      sync.Mutex
	merged  *domain.MergedTable
	palette []string
	active  string
	scale   domain.ColorScale
}

// NewSelection initializes the pair for the initial candidate (empty
// means first-seen). An explicit unknown initial candidate is a schema
// error; the all-null degenerate case degrades to a flat scale.
func NewSelection(merged *domain.MergedTable, initial string, palette []string) (*Selection, error) {
	if len(merged.Candidates) == 0 {
		return nil, constants.NoDataErrorf("merged table has no candidates")
	}
	if initial == "" {
		initial = merged.Candidates[0]
	} else if !merged.HasCandidate(initial) {
		return nil, constants.SchemaErrorf("initial candidate %q not present in results", initial)
	}

	s := &Selection{merged: merged, palette: palette, active: initial}
	s.scale = s.computeScale(context.Background(), initial)

	return s, nil
}

func (s *Selection) computeScale(ctx context.Context, candidate string) domain.ColorScale {
	scale, err := scaleFor(s.merged, candidate, s.palette)
	if err != nil {
		// the one error kind that must never propagate
		logger.Warnf(ctx, "flat color scale fallback: %s", err.Error())
	}
	return scale
}

// scaleFor computes the per-candidate bounds. The returned error is
// always of kind EmptyRange and comes paired with the flat fallback
// scale, so callers may log it and keep going.
func scaleFor(merged *domain.MergedTable, candidate string, palette []string) (domain.ColorScale, error) {
	low, high, ok := merged.Bounds(candidate)
	if !ok {
		return domain.NewFlatScale(palette), constants.EmptyRangeErrorf("every vote count is null for candidate %q", candidate)
	}
	return domain.NewColorScale(palette, low, high), nil
}

// Active returns the currently displayed candidate.
func (s *Selection) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Scale returns a copy of the current color scale.
func (s *Selection) Scale() domain.ColorScale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

// Snapshot returns the candidate and scale as the consistent pair.
func (s *Selection) Snapshot() (string, domain.ColorScale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.scale
}

// Select swaps the active candidate and rescales. An unknown name is a
// no-op with a diagnostic; repeating the same name recomputes to the
// identical bounds. The returned bool reports whether the name was
// accepted.
func (s *Selection) Select(ctx context.Context, candidate string) bool {
	if !s.merged.HasCandidate(candidate) {
		logger.Warnf(ctx, "selection of unknown candidate %q ignored", candidate)
		return false
	}

	scale := s.computeScale(ctx, candidate)

	s.mu.Lock()
	s.active = candidate
	s.scale = scale
	s.mu.Unlock()

	return true
}
