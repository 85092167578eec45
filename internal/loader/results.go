package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gocarina/gocsv"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/pkg/constants"
	"github.com/sidimo/electomap/internal/pkg/logger"
)

// Policy controls how malformed result rows are handled. The default
// rejects the whole load so a bad file can never silently understate
// results.
type Policy int

const (
	PolicyRejectAll Policy = iota
	PolicyRejectRow
)

// ResultsOptions tunes the results load. Timeout and MaxRetries apply
// only to http(s) sources.
type ResultsOptions struct {
	Timeout    time.Duration
	MaxRetries uint64
	Policy     Policy
}

// resultRow matches the CSV contract. All columns decode as strings so
// that numeric validation stays under our policy rather than gocsv's.
type resultRow struct {
	Year      string `csv:"year"`
	Moughataa string `csv:"moughataa"`
	Candidate string `csv:"candidate"`
	NbVotes   string `csv:"nb_votes"`
}

var requiredColumns = []string{
	constants.FieldYear,
	constants.FieldRegionName,
	constants.FieldCandidate,
	constants.FieldVoteCount,
}

// Results loads election result records from a local path or an
// http(s) URL.
func Results(ctx context.Context, src string, opts ResultsOptions) ([]domain.ResultRecord, int, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		data, err = fetchRemote(ctx, src, opts)
	} else {
		data, err = os.ReadFile(src)
		if err != nil {
			err = constants.DataSourceErrorf("read results source %s: %w", src, err)
		}
	}
	if err != nil {
		return nil, 0, err
	}

	return parseResults(ctx, data, opts)
}

// ResultsFromReader loads records from an in-memory table.
func ResultsFromReader(ctx context.Context, r io.Reader, opts ResultsOptions) ([]domain.ResultRecord, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, constants.DataSourceErrorf("read results: %w", err)
	}
	return parseResults(ctx, data, opts)
}

func fetchRemote(ctx context.Context, src string, opts ResultsOptions) ([]byte, error) {
	client := &http.Client{Timeout: opts.Timeout}

	var body []byte
	err := backoff.Retry(
		func() error {
			resp, httpErr := client.Get(src)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			var readErr error
			body, readErr = io.ReadAll(resp.Body)
			if readErr != nil {
				return fmt.Errorf("read body: %w", readErr)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), opts.MaxRetries),
			ctx,
		),
	)
	if err != nil {
		logger.Errorf(ctx, "results fetch from %s gave up: %s", src, err.Error())
		return nil, constants.DataSourceErrorf("fetch results from %s: %w", src, err)
	}

	return body, nil
}

func parseResults(ctx context.Context, data []byte, opts ResultsOptions) ([]domain.ResultRecord, int, error) {
	if err := checkHeader(data); err != nil {
		return nil, 0, err
	}

	var rows []*resultRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, 0, constants.DataFormatErrorf("decode results csv: %w", err)
	}

	records := make([]domain.ResultRecord, 0, len(rows))
	rejected := 0
	for i, row := range rows {
		// line 1 is the header
		line := i + 2

		rec, err := row.record(line)
		if err != nil {
			if opts.Policy == PolicyRejectRow {
				logger.Warnf(ctx, "results line %d rejected: %s", line, err.Error())
				rejected++
				continue
			}
			return nil, 0, err
		}
		records = append(records, rec)
	}

	return records, rejected, nil
}

// checkHeader verifies the required columns before gocsv decodes the
// payload, because gocsv leaves fields of absent columns zero-valued
// instead of failing.
func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return constants.DataSourceErrorf("read results header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return constants.SchemaErrorf("required column %q missing in results source", col)
		}
	}
	return nil
}

// record validates one CSV row. Region and candidate names keep their
// exact bytes; only the numeric columns are trimmed before parsing.
func (r *resultRow) record(line int) (domain.ResultRecord, error) {
	year, err := strconv.Atoi(strings.TrimSpace(r.Year))
	if err != nil {
		return domain.ResultRecord{}, constants.DataFormatErrorf("line %d: non-numeric year %q", line, r.Year)
	}

	votes, err := strconv.ParseInt(strings.TrimSpace(r.NbVotes), 10, 64)
	if err != nil {
		return domain.ResultRecord{}, constants.DataFormatErrorf("line %d: non-numeric vote count %q", line, r.NbVotes)
	}
	if votes < 0 {
		return domain.ResultRecord{}, constants.DataFormatErrorf("line %d: negative vote count %d", line, votes)
	}

	return domain.ResultRecord{
		Year:       year,
		RegionName: r.Moughataa,
		Candidate:  r.Candidate,
		VoteCount:  votes,
	}, nil
}
