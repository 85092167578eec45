package domain

import "github.com/paulmach/orb"

type Year = int

// Region is one administrative area from the geometry source. Name is
// the unique join key; the geometry is carried through to the geo-source
// untouched.
type Region struct {
	Name     string
	Geometry orb.Geometry
}

// ResultRecord is one observed tally: one candidate's votes in one
// region for one election year.
type ResultRecord struct {
	Year       Year
	RegionName string
	Candidate  string
	VoteCount  int64
}

// CandidateSeries pairs a candidate with per-region vote counts aligned
// to a caller-supplied region slice. Nil entries mean "no data".
type CandidateSeries struct {
	Candidate string
	Votes     []*int64
}
