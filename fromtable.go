package electomap

import (
	"context"
	"fmt"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/pkg/constants"
)

// CreateElectionMapFromTable builds a map from an already-loaded
// geometry table and pre-joined per-candidate vote series, skipping the
// loader and the merge. Series order defines the candidate order; each
// series must align with the region slice, nil entries meaning null.
// The output contract matches CreateElectionMap.
func CreateElectionMapFromTable(ctx context.Context, regions []domain.Region, series []domain.CandidateSeries, opts Options) (*MapResult, error) {
	opts = opts.withDefaults()
	if err := validateTableOptions(opts); err != nil {
		return nil, err
	}

	merged, err := tableFromSeries(regions, series, opts.Year)
	if err != nil {
		return nil, err
	}

	return assemble(ctx, merged, opts)
}

// validateTableOptions skips the source-path fields; both inputs are
// already in memory here.
func validateTableOptions(opts Options) error {
	if err := validate.StructExcept(opts, "GeometryPath", "ResultsSource"); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func tableFromSeries(regions []domain.Region, series []domain.CandidateSeries, year domain.Year) (*domain.MergedTable, error) {
	if len(series) == 0 {
		return nil, constants.NoDataErrorf("no candidate series provided")
	}

	candidates := make([]string, 0, len(series))
	seen := make(map[string]struct{}, len(series))
	for _, s := range series {
		if s.Candidate == "" {
			return nil, constants.SchemaErrorf("candidate series with empty name")
		}
		if _, ok := seen[s.Candidate]; ok {
			return nil, constants.SchemaErrorf("duplicate candidate series %q", s.Candidate)
		}
		seen[s.Candidate] = struct{}{}
		candidates = append(candidates, s.Candidate)

		if len(s.Votes) != len(regions) {
			return nil, constants.SchemaErrorf("series %q has %d values for %d regions", s.Candidate, len(s.Votes), len(regions))
		}
	}

	rows := make([]*domain.MergedRow, 0, len(regions))
	for i, region := range regions {
		votes := make(map[string]int64)
		for _, s := range series {
			if v := s.Votes[i]; v != nil {
				if *v < 0 {
					return nil, constants.DataFormatErrorf("negative vote count %d for %q in %q", *v, s.Candidate, region.Name)
				}
				votes[s.Candidate] = *v
			}
		}
		rows = append(rows, &domain.MergedRow{Region: region, Votes: votes})
	}

	return &domain.MergedTable{
		Year:       year,
		Rows:       rows,
		Candidates: candidates,
	}, nil
}
