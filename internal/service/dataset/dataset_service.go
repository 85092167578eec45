// Package dataset turns the raw loader output into one merged table:
// filter to a single year, pivot to candidate columns, left-join onto
// the geometry regions by exact name match.
package dataset

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/loader"
	"github.com/sidimo/electomap/internal/pkg/constants"
	"github.com/sidimo/electomap/internal/pkg/logger"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// BuildOpts names both sources and the target year.
type BuildOpts struct {
	GeometryPath   string
	RegionKeyField string
	ResultsSource  string
	Year           domain.Year
	Results        loader.ResultsOptions
}

// Build loads both sources concurrently and produces the merged table.
func (s *Service) Build(ctx context.Context, opts BuildOpts) (*domain.MergedTable, error) {
	var (
		regions  []domain.Region
		records  []domain.ResultRecord
		rejected int
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		regions, err = loader.Geometry(egCtx, opts.GeometryPath, opts.RegionKeyField)
		if err != nil {
			return fmt.Errorf("loader.Geometry: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		records, rejected, err = loader.Results(egCtx, opts.ResultsSource, opts.Results)
		if err != nil {
			return fmt.Errorf("loader.Results: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	table, err := Assemble(ctx, regions, records, opts.Year)
	if err != nil {
		return nil, err
	}
	table.Diagnostics.RejectedRecords = rejected

	return table, nil
}

// Assemble runs filter+pivot+merge over already-loaded inputs.
func Assemble(ctx context.Context, regions []domain.Region, records []domain.ResultRecord, year domain.Year) (*domain.MergedTable, error) {
	known := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		known[r.Name] = struct{}{}
	}

	pivot, candidates, unmatched, err := FilterPivot(ctx, records, year, known)
	if err != nil {
		return nil, err
	}

	table := Merge(regions, pivot, candidates, year)
	table.Diagnostics.UnmatchedResults = unmatched

	return table, nil
}

// FilterPivot selects the records of one year and pivots them into a
// region → candidate → votes mapping. Candidates keep first-seen order
// from the filtered sequence. Rows naming an unknown region are dropped
// and counted; duplicate (region, candidate) rows are summed.
func FilterPivot(ctx context.Context, records []domain.ResultRecord, year domain.Year, known map[string]struct{}) (map[string]map[string]int64, []string, int, error) {
	var filtered []domain.ResultRecord
	for _, rec := range records {
		if rec.Year == year {
			filtered = append(filtered, rec)
		}
	}
	if len(filtered) == 0 {
		return nil, nil, 0, constants.NoDataErrorf("no election data for year %d", year)
	}

	var candidates []string
	seen := make(map[string]struct{})
	pivot := make(map[string]map[string]int64)
	unmatched := 0

	for _, rec := range filtered {
		if _, ok := seen[rec.Candidate]; !ok {
			seen[rec.Candidate] = struct{}{}
			candidates = append(candidates, rec.Candidate)
		}

		if _, ok := known[rec.RegionName]; !ok {
			logger.Warnf(ctx, "results row for unmatched region %q dropped", rec.RegionName)
			unmatched++
			continue
		}

		votes, ok := pivot[rec.RegionName]
		if !ok {
			votes = make(map[string]int64)
			pivot[rec.RegionName] = votes
		}
		votes[rec.Candidate] += rec.VoteCount
	}

	if unmatched > 0 {
		logger.Warnf(ctx, "%d results rows matched no region and were dropped", unmatched)
	}

	return pivot, candidates, unmatched, nil
}

// Merge left-joins the regions with the pivoted results. Row order
// equals region order; regions without results keep empty vote maps,
// which render as "no data" downstream.
func Merge(regions []domain.Region, pivot map[string]map[string]int64, candidates []string, year domain.Year) *domain.MergedTable {
	rows := make([]*domain.MergedRow, 0, len(regions))
	for _, region := range regions {
		votes := make(map[string]int64)
		for candidate, count := range pivot[region.Name] {
			votes[candidate] = count
		}
		rows = append(rows, &domain.MergedRow{Region: region, Votes: votes})
	}

	return &domain.MergedTable{
		Year:       year,
		Rows:       rows,
		Candidates: candidates,
	}
}
