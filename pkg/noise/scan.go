package noise

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/zygosity"
)

// maxLineBytes bounds a single observation or call-file line.
const maxLineBytes = 1024 * 1024

// NormalizePosition converts a position field to its tally key.
// Anything from the first '.' on is dropped, so insertion positions
// like "100.1" share the key of base position 100.
func NormalizePosition(field string) (int, error) {
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[:i]
	}
	pos, err := strconv.Atoi(field)
	if err != nil || pos < 0 {
		return 0, fmt.Errorf("invalid position %q", field)
	}
	return pos, nil
}

// ParseObservation parses one observation line: chromosome, position,
// allele-1 count, allele-2 count and total count, whitespace
// delimited.
func ParseObservation(line string) (Observation, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return Observation{}, fmt.Errorf("expected 5 fields, found %d", len(fields))
	}

	pos, err := NormalizePosition(fields[1])
	if err != nil {
		return Observation{}, err
	}
	allele1, err := parseCount(fields[2])
	if err != nil {
		return Observation{}, err
	}
	allele2, err := parseCount(fields[3])
	if err != nil {
		return Observation{}, err
	}
	total, err := parseCount(fields[4])
	if err != nil {
		return Observation{}, err
	}

	return Observation{
		Chrom:   fields[0],
		Pos:     pos,
		Allele1: allele1,
		Allele2: allele2,
		Total:   total,
	}, nil
}

func parseCount(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q", field)
	}
	return n, nil
}

// AggregateReader classifies every observation in r and folds it into
// t. The first malformed line aborts with a *ParseError carrying the
// source name and line number; the caller must discard t.
func AggregateReader(ctx context.Context, r io.Reader, source string, p Params, t SiteTally) (int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var line int64
	var observations int64
	for scanner.Scan() {
		line++

		obs, err := ParseObservation(scanner.Text())
		if err != nil {
			return observations, &ParseError{Source: source, Line: line, Reason: err.Error()}
		}

		call := zygosity.Classify(obs.Allele1, obs.Allele2, obs.Total, p.CovMin, p.HomoRatioMin)
		t.Add(obs.Chrom, obs.Pos, call)
		observations++

		// Cancellation check, amortized over the scan.
		if line%4096 == 0 {
			select {
			case <-ctx.Done():
				return observations, ctx.Err()
			default:
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return observations, fmt.Errorf("failed to read %s: %w", source, err)
	}

	return observations, nil
}
