// Package electomap builds interactive election choropleth maps: it
// merges a geometry source with tabular results for one election year
// and assembles a color-mapped widget with a candidate dropdown and
// hover tooltips.
package electomap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/loader"
	"github.com/sidimo/electomap/internal/pkg/config"
	"github.com/sidimo/electomap/internal/pkg/logger"
	"github.com/sidimo/electomap/internal/render"
	"github.com/sidimo/electomap/internal/service/assembler"
	"github.com/sidimo/electomap/internal/service/dataset"
)

// Re-exported types so callers don't import internal packages. Renderer
// and View are the seam for plugging a different UI toolkit.
type (
	Region          = domain.Region
	ResultRecord    = domain.ResultRecord
	CandidateSeries = domain.CandidateSeries
	MergedTable     = domain.MergedTable
	ColorScale      = domain.ColorScale
	GeoSource       = assembler.GeoSource
	Widget          = render.Widget
	Renderer        = render.Renderer
	View            = render.View
)

// OutputMode selects what happens with the built widget.
type OutputMode string

const (
	// OutputInteractive writes the widget HTML to OutputPath (or a
	// generated temp file) so it can be opened in a browser.
	OutputInteractive OutputMode = "interactive-display"
	// OutputHeadless only returns the in-memory widget.
	OutputHeadless OutputMode = "headless-build-only"
)

// VotePolicy mirrors the loader's malformed-row handling.
type VotePolicy = loader.Policy

const (
	VotePolicyRejectAll = loader.PolicyRejectAll
	VotePolicyRejectRow = loader.PolicyRejectRow
)

// Options configures one map build. Zero values fall back to the
// configured defaults (see internal/pkg/config).
type Options struct {
	// GeometryPath points at a shapefile (.shp) or GeoJSON collection.
	GeometryPath string `validate:"required"`
	// ResultsSource is a local path or http(s) URL of the results CSV.
	ResultsSource string `validate:"required"`
	// RegionKeyField is the geometry attribute holding the region name
	// (default ADM2_EN).
	RegionKeyField string
	// Year filters the results (default 2024).
	Year domain.Year
	// TitlePrefix is composed with the active candidate into the map
	// title.
	TitlePrefix string
	// Widget dimensions in pixels.
	Width  int `validate:"omitempty,gt=0"`
	Height int `validate:"omitempty,gt=0"`
	// InitialCandidate defaults to the first-seen candidate.
	InitialCandidate string
	// Palette is an ordered color sequence (default reversed Viridis).
	Palette []string
	// OutputMode defaults to headless-build-only.
	OutputMode OutputMode `validate:"omitempty,oneof=interactive-display headless-build-only"`
	// OutputPath receives the widget HTML in interactive-display mode.
	OutputPath string
	// FetchTimeout and FetchRetries tune the remote CSV fetch.
	FetchTimeout time.Duration
	FetchRetries uint64
	// VotePolicy defaults to rejecting the whole load on a malformed
	// vote count.
	VotePolicy VotePolicy
	// Renderer defaults to the bundled standalone HTML renderer.
	Renderer render.Renderer
}

func (o Options) withDefaults() Options {
	if o.Year == 0 {
		o.Year = config.DefaultYear()
	}
	if o.TitlePrefix == "" {
		o.TitlePrefix = config.TitlePrefix()
	}
	if o.Width == 0 {
		o.Width = config.Width()
	}
	if o.Height == 0 {
		o.Height = config.Height()
	}
	if o.OutputMode == "" {
		o.OutputMode = OutputHeadless
	}
	if o.OutputPath == "" {
		o.OutputPath = config.OutputPath()
	}
	if o.FetchTimeout == 0 {
		o.FetchTimeout = config.FetchTimeout()
	}
	if o.FetchRetries == 0 {
		o.FetchRetries = config.FetchRetries()
	}
	if o.Renderer == nil {
		o.Renderer = render.NewHTML()
	}
	return o
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// MapResult aggregates everything a caller needs for further
// customization without re-running the pipeline.
type MapResult struct {
	// Widget is the assembled interactive layout, opaque to this core.
	Widget *render.Widget
	// GeoSource is the merged table in the renderer's geometry format.
	GeoSource *assembler.GeoSource
	// Candidates in first-seen order.
	Candidates []string
	// Merged is the joined table backing the geo-source.
	Merged *domain.MergedTable

	svc      *assembler.Service
	assembly *assembler.Assembly
}

// Active returns the currently displayed candidate.
func (m *MapResult) Active() string {
	return m.assembly.Selection.Active()
}

// ColorScale returns a snapshot of the current scale. Its bounds follow
// the active candidate.
func (m *MapResult) ColorScale() domain.ColorScale {
	return m.assembly.Selection.Scale()
}

// Select is the selection-change handler: it swaps the active candidate
// and its scale bounds as one unit and notifies the renderer. Unknown
// names are a logged no-op.
func (m *MapResult) Select(ctx context.Context, candidate string) error {
	return m.svc.Select(ctx, m.assembly, candidate)
}

// Diagnostics reports the non-fatal anomaly counts of the build.
func (m *MapResult) Diagnostics() domain.Diagnostics {
	return m.Merged.Diagnostics
}

// CreateElectionMap runs the full pipeline: load geometry and results,
// filter to the requested year, pivot and merge, then assemble the
// interactive widget.
func CreateElectionMap(ctx context.Context, opts Options) (*MapResult, error) {
	opts = opts.withDefaults()
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	merged, err := dataset.NewService().Build(ctx, dataset.BuildOpts{
		GeometryPath:   opts.GeometryPath,
		RegionKeyField: opts.RegionKeyField,
		ResultsSource:  opts.ResultsSource,
		Year:           opts.Year,
		Results: loader.ResultsOptions{
			Timeout:    opts.FetchTimeout,
			MaxRetries: opts.FetchRetries,
			Policy:     opts.VotePolicy,
		},
	})
	if err != nil {
		return nil, err
	}

	return assemble(ctx, merged, opts)
}

func assemble(ctx context.Context, merged *domain.MergedTable, opts Options) (*MapResult, error) {
	svc := assembler.NewService(opts.Renderer)
	a, err := svc.Assemble(ctx, merged, assembler.AssembleOpts{
		InitialCandidate: opts.InitialCandidate,
		Palette:          opts.Palette,
		TitlePrefix:      opts.TitlePrefix,
		Width:            opts.Width,
		Height:           opts.Height,
	})
	if err != nil {
		return nil, err
	}

	result := &MapResult{
		Widget:     a.Widget,
		GeoSource:  a.Source,
		Candidates: merged.Candidates,
		Merged:     merged,
		svc:        svc,
		assembly:   a,
	}

	if opts.OutputMode == OutputInteractive {
		path := opts.OutputPath
		if path == "" {
			path = filepath.Join(os.TempDir(), fmt.Sprintf("electomap-%s.html", a.Widget.ID))
		}
		if err := a.Widget.Save(path); err != nil {
			return nil, fmt.Errorf("save widget to %s: %w", path, err)
		}
		logger.Infof(ctx, "map with %d candidates written to %s", len(merged.Candidates), path)
	}

	return result, nil
}
