// Package ingest loads the list of subreddits to watch.
package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// DefaultLimit is used when a row gives no usable post limit.
const DefaultLimit = 25

// Reddit caps listings at 100 items.
const maxLimit = 100

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

// LoadTargets reads a subreddit,limit CSV with a header row.
func LoadTargets(path string) ([]domain.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open targets %s", path)
	}
	defer f.Close()

	return ReadTargets(f)
}

// ReadTargets parses targets from r. Rows with an invalid subreddit name are
// skipped (fail-soft), as are duplicates of an earlier row.
func ReadTargets(r io.Reader) ([]domain.Target, error) {
	// Wrap in BOM stripper
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1

	var targets []domain.Target
	seen := make(map[string]bool)
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		line++
		if line == 1 {
			continue // Skip header
		}

		// Validation (Fail-Soft)
		sub := strings.TrimSpace(record[0])
		if !subNameRegex.MatchString(sub) || seen[strings.ToLower(sub)] {
			continue
		}
		seen[strings.ToLower(sub)] = true

		limit := DefaultLimit
		if len(record) > 1 {
			if n, err := strconv.Atoi(strings.TrimSpace(record[1])); err == nil && n > 0 {
				limit = min(n, maxLimit)
			}
		}

		targets = append(targets, domain.Target{
			Subreddit: sub,
			Limit:     limit,
		})
	}
	return targets, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		_ = br.UnreadRune()
	}
	return br
}
