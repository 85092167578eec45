package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/pkg/constants"
	"github.com/sidimo/electomap/internal/pkg/logger"
)

// the rejection and retry tests log on purpose
func TestMain(m *testing.M) {
	logger.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

const testResultsCSV = `year,moughataa,candidate,nb_votes
2024,Nouakchott,A,1500
2024,Nouakchott,B,1200
2024,Akjoujt,A,800
`

func TestResultsFromReader(t *testing.T) {
	records, rejected, err := ResultsFromReader(context.Background(), strings.NewReader(testResultsCSV), ResultsOptions{})
	require.NoError(t, err)
	assert.Zero(t, rejected)
	require.Len(t, records, 3)

	assert.Equal(t, domain.ResultRecord{
		Year:       2024,
		RegionName: "Nouakchott",
		Candidate:  "A",
		VoteCount:  1500,
	}, records[0])
}

func TestResultsLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte(testResultsCSV), 0644))

	records, _, err := Results(context.Background(), path, ResultsOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestResultsRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testResultsCSV))
	}))
	defer srv.Close()

	records, _, err := Results(context.Background(), srv.URL, ResultsOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestResultsRemoteRetriesThenFails(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := Results(context.Background(), srv.URL, ResultsOptions{Timeout: time.Second, MaxRetries: 2})
	require.Error(t, err)
	assert.True(t, constants.IsKind(err, constants.KindDataSource))
	assert.Equal(t, 3, calls)
}

func TestResultsMissingColumn(t *testing.T) {
	csv := "year,moughataa,candidate\n2024,Nouakchott,A\n"

	_, _, err := ResultsFromReader(context.Background(), strings.NewReader(csv), ResultsOptions{})
	require.Error(t, err)
	assert.True(t, constants.IsKind(err, constants.KindSchema))
	assert.Contains(t, err.Error(), "nb_votes")
}

func TestResultsNonNumericVotesRejectAll(t *testing.T) {
	csv := "year,moughataa,candidate,nb_votes\n2024,Nouakchott,A,N/A\n2024,Akjoujt,A,800\n"

	_, _, err := ResultsFromReader(context.Background(), strings.NewReader(csv), ResultsOptions{})
	require.Error(t, err)
	assert.True(t, constants.IsKind(err, constants.KindDataFormat))
	assert.Contains(t, err.Error(), "N/A")
}

func TestResultsNonNumericVotesRejectRow(t *testing.T) {
	csv := "year,moughataa,candidate,nb_votes\n2024,Nouakchott,A,N/A\n2024,Akjoujt,A,800\n"

	records, rejected, err := ResultsFromReader(context.Background(), strings.NewReader(csv), ResultsOptions{Policy: PolicyRejectRow})
	require.NoError(t, err)
	assert.Equal(t, 1, rejected)
	require.Len(t, records, 1)
	assert.Equal(t, "Akjoujt", records[0].RegionName)
}

func TestResultsNegativeVotes(t *testing.T) {
	csv := "year,moughataa,candidate,nb_votes\n2024,Nouakchott,A,-5\n"

	_, _, err := ResultsFromReader(context.Background(), strings.NewReader(csv), ResultsOptions{})
	require.Error(t, err)
	assert.True(t, constants.IsKind(err, constants.KindDataFormat))
}

func TestResultsNonNumericYear(t *testing.T) {
	csv := "year,moughataa,candidate,nb_votes\nlast,Nouakchott,A,10\n"

	_, _, err := ResultsFromReader(context.Background(), strings.NewReader(csv), ResultsOptions{})
	require.Error(t, err)
	assert.True(t, constants.IsKind(err, constants.KindDataFormat))
}

func TestResultsRegionNamesKeepExactBytes(t *testing.T) {
	csv := "year,moughataa,candidate,nb_votes\n2024, Nouakchott ,A,10\n"

	records, _, err := ResultsFromReader(context.Background(), strings.NewReader(csv), ResultsOptions{})
	require.NoError(t, err)
	assert.Equal(t, " Nouakchott ", records[0].RegionName)
}

func TestResultsUnreadableFile(t *testing.T) {
	_, _, err := Results(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), ResultsOptions{})
	require.Error(t, err)
	assert.True(t, constants.IsKind(err, constants.KindDataSource))
}
