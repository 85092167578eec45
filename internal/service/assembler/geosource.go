// Package assembler turns a merged table into the renderable pieces:
// the GeoJSON geo-source, the per-candidate color scale and the
// selection handler that swaps both as one unit.
package assembler

import (
	"github.com/bytedance/sonic"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/pkg/constants"
)

// Fixed property keys of every geo-source feature, next to one column
// per candidate.
const (
	PropRegion       = "region"
	PropVotesDisplay = "votes_display"
	PropCandidate    = "current_candidate"
	PropShareDisplay = "share_display"
)

// GeoSource is the merged table in the renderer's native format: one
// feature per region carrying every candidate column (null allowed) so
// later selection swaps never hit a missing field.
type GeoSource struct {
	Collection *geojson.FeatureCollection
	Active     string
}

// JSON serializes the feature collection. ConfigStd keeps < and >
// escaped inside strings so the payload can be embedded in a script
// element.
func (g *GeoSource) JSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(g.Collection)
}

// BuildGeoSource converts the merged table for the given active
// candidate. Null tallies stay JSON null, never zero.
func BuildGeoSource(merged *domain.MergedTable, active string) (*GeoSource, error) {
	if active != "" && !merged.HasCandidate(active) {
		return nil, constants.SchemaErrorf("candidate %q not present in merged table", active)
	}

	fc := geojson.NewFeatureCollection()
	for _, row := range merged.Rows {
		f := geojson.NewFeature(row.Geometry)
		f.Properties[PropRegion] = row.Name
		f.Properties[PropCandidate] = active

		for _, candidate := range merged.Candidates {
			if v, ok := row.Vote(candidate); ok {
				f.Properties[candidate] = v
			} else {
				f.Properties[candidate] = nil
			}
		}

		if v, ok := row.Vote(active); ok {
			f.Properties[PropVotesDisplay] = v
			f.Properties[PropShareDisplay] = voteShare(v, row.Total(merged.Candidates))
		} else {
			f.Properties[PropVotesDisplay] = nil
			f.Properties[PropShareDisplay] = nil
		}

		fc.Append(f)
	}

	return &GeoSource{Collection: fc, Active: active}, nil
}

// voteShare formats the candidate's share of the region total as a
// percentage with one decimal, e.g. "55.6 %".
func voteShare(votes, total int64) any {
	if total <= 0 {
		return nil
	}
	share := decimal.NewFromInt(votes).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	return share.String() + " %"
}
