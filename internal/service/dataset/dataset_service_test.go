package dataset

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/pkg/constants"
	"github.com/sidimo/electomap/internal/pkg/logger"
)

// the unmatched-region tests log on purpose
func TestMain(m *testing.M) {
	logger.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

func testRegions() []domain.Region {
	return []domain.Region{
		{Name: "Nouakchott"},
		{Name: "Akjoujt"},
	}
}

func testRecords() []domain.ResultRecord {
	return []domain.ResultRecord{
		{Year: 2024, RegionName: "Nouakchott", Candidate: "A", VoteCount: 1500},
		{Year: 2024, RegionName: "Nouakchott", Candidate: "B", VoteCount: 1200},
		{Year: 2024, RegionName: "Akjoujt", Candidate: "A", VoteCount: 800},
	}
}

func TestAssembleScenario(t *testing.T) {
	table, err := Assemble(context.Background(), testRegions(), testRecords(), 2024)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, table.Candidates)
	require.Len(t, table.Rows, 2)

	nkt := table.Rows[0]
	assert.Equal(t, "Nouakchott", nkt.Name)
	v, ok := nkt.Vote("A")
	require.True(t, ok)
	assert.Equal(t, int64(1500), v)
	v, ok = nkt.Vote("B")
	require.True(t, ok)
	assert.Equal(t, int64(1200), v)

	akj := table.Rows[1]
	v, ok = akj.Vote("A")
	require.True(t, ok)
	assert.Equal(t, int64(800), v)
	_, ok = akj.Vote("B")
	assert.False(t, ok, "missing tally must stay null, never zero")
}

func TestAssembleRowCountEqualsRegionCount(t *testing.T) {
	regions := append(testRegions(), domain.Region{Name: "Atar"})

	table, err := Assemble(context.Background(), regions, testRecords(), 2024)
	require.NoError(t, err)
	require.Len(t, table.Rows, len(regions))

	// geometry-only region keeps all-null votes
	atar := table.Rows[2]
	assert.Equal(t, "Atar", atar.Name)
	assert.Empty(t, atar.Votes)
}

func TestAssembleNoDataForYear(t *testing.T) {
	_, err := Assemble(context.Background(), testRegions(), testRecords(), 2023)
	require.Error(t, err)
	assert.True(t, constants.IsKind(err, constants.KindNoData))
	assert.Contains(t, err.Error(), "2023")
}

func TestAssembleUnmatchedRegionDiagnostic(t *testing.T) {
	records := append(testRecords(), domain.ResultRecord{
		Year: 2024, RegionName: "Nouakchottt", Candidate: "A", VoteCount: 10,
	})

	table, err := Assemble(context.Background(), testRegions(), records, 2024)
	require.NoError(t, err, "unmatched names must never abort the pipeline")
	assert.Equal(t, 1, table.Diagnostics.UnmatchedResults)
	require.Len(t, table.Rows, 2)

	// the typo row must not leak into any region
	v, _ := table.Rows[0].Vote("A")
	assert.Equal(t, int64(1500), v)
}

func TestFilterPivotCandidateOrderFirstSeen(t *testing.T) {
	records := []domain.ResultRecord{
		{Year: 2024, RegionName: "Akjoujt", Candidate: "Z", VoteCount: 1},
		{Year: 2024, RegionName: "Akjoujt", Candidate: "A", VoteCount: 2},
		{Year: 2024, RegionName: "Nouakchott", Candidate: "M", VoteCount: 3},
		{Year: 2024, RegionName: "Nouakchott", Candidate: "Z", VoteCount: 4},
	}
	known := map[string]struct{}{"Nouakchott": {}, "Akjoujt": {}}

	_, candidates, _, err := FilterPivot(context.Background(), records, 2024, known)
	require.NoError(t, err)
	assert.Equal(t, []string{"Z", "A", "M"}, candidates)
}

func TestFilterPivotCandidateFromUnmatchedRowStillListed(t *testing.T) {
	// the candidate column set comes from the year filter, before the
	// unmatched-name drop
	records := []domain.ResultRecord{
		{Year: 2024, RegionName: "Nouakchott", Candidate: "A", VoteCount: 5},
		{Year: 2024, RegionName: "Tidjikja", Candidate: "B", VoteCount: 7},
	}
	known := map[string]struct{}{"Nouakchott": {}}

	pivot, candidates, unmatched, err := FilterPivot(context.Background(), records, 2024, known)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, candidates)
	assert.Equal(t, 1, unmatched)
	assert.NotContains(t, pivot, "Tidjikja")
}

func TestFilterPivotSumsDuplicates(t *testing.T) {
	records := []domain.ResultRecord{
		{Year: 2024, RegionName: "Nouakchott", Candidate: "A", VoteCount: 100},
		{Year: 2024, RegionName: "Nouakchott", Candidate: "A", VoteCount: 50},
	}
	known := map[string]struct{}{"Nouakchott": {}}

	pivot, _, _, err := FilterPivot(context.Background(), records, 2024, known)
	require.NoError(t, err)
	assert.Equal(t, int64(150), pivot["Nouakchott"]["A"])
}

func TestMergeExactMatchOnly(t *testing.T) {
	regions := []domain.Region{{Name: "Nouakchott"}}
	records := []domain.ResultRecord{
		{Year: 2024, RegionName: "nouakchott", Candidate: "A", VoteCount: 10},
		{Year: 2024, RegionName: "Nouakchott", Candidate: "A", VoteCount: 20},
	}

	table, err := Assemble(context.Background(), regions, records, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Diagnostics.UnmatchedResults)

	v, ok := table.Rows[0].Vote("A")
	require.True(t, ok)
	assert.Equal(t, int64(20), v)
}

func TestMergeOrderFollowsRegions(t *testing.T) {
	regions := []domain.Region{{Name: "Akjoujt"}, {Name: "Nouakchott"}}

	table, err := Assemble(context.Background(), regions, testRecords(), 2024)
	require.NoError(t, err)
	assert.Equal(t, "Akjoujt", table.Rows[0].Name)
	assert.Equal(t, "Nouakchott", table.Rows[1].Name)
}
