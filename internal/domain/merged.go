package domain

// MergedRow is one region joined with the pivoted results for the
// selected year. Votes holds one entry per candidate that has data for
// this region; a missing key means null, never zero.
type MergedRow struct {
	Region
	Votes map[string]int64
}

// Vote returns the vote count for a candidate and whether the region
// has data for it.
func (r *MergedRow) Vote(candidate string) (int64, bool) {
	v, ok := r.Votes[candidate]
	return v, ok
}

// Total sums the non-null vote counts of the row across the given
// candidates.
func (r *MergedRow) Total(candidates []string) int64 {
	var total int64
	for _, c := range candidates {
		if v, ok := r.Votes[c]; ok {
			total += v
		}
	}
	return total
}

// Diagnostics counts the per-row anomalies that were skipped without
// aborting the pipeline.
type Diagnostics struct {
	// UnmatchedResults is the number of result rows whose region name
	// matched no geometry record.
	UnmatchedResults int
	// RejectedRecords is the number of malformed result rows skipped
	// under the reject-row policy.
	RejectedRecords int
}

// MergedTable is the left join of the geometry regions with the pivoted
// results. Rows keep the geometry order, Candidates keep first-seen
// order from the year-filtered results.
type MergedTable struct {
	Year        Year
	Rows        []*MergedRow
	Candidates  []string
	Diagnostics Diagnostics
}

func (t *MergedTable) HasCandidate(name string) bool {
	for _, c := range t.Candidates {
		if c == name {
			return true
		}
	}
	return false
}

// Bounds returns the minimum and maximum non-null vote count for a
// candidate across all rows. ok is false when every row is null for
// that candidate.
func (t *MergedTable) Bounds(candidate string) (low, high int64, ok bool) {
	for _, row := range t.Rows {
		v, has := row.Vote(candidate)
		if !has {
			continue
		}
		if !ok || v < low {
			low = v
		}
		if !ok || v > high {
			high = v
		}
		ok = true
	}
	return low, high, ok
}
