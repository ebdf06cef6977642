package noise

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObservation(t *testing.T) {
	obs, err := ParseObservation("chr1\t100\t9\t1\t10")
	require.NoError(t, err)
	assert.Equal(t, Observation{Chrom: "chr1", Pos: 100, Allele1: 9, Allele2: 1, Total: 10}, obs)
}

func TestParseObservationMixedWhitespace(t *testing.T) {
	obs, err := ParseObservation("  chr1   100\t9 1   10 ")
	require.NoError(t, err)
	assert.Equal(t, "chr1", obs.Chrom)
	assert.Equal(t, 100, obs.Pos)
	assert.Equal(t, 10, obs.Total)
}

func TestParseObservationInsertionPosition(t *testing.T) {
	obs, err := ParseObservation("chr1 1407.1 5 0 5")
	require.NoError(t, err)
	assert.Equal(t, 1407, obs.Pos)
}

func TestParseObservationErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "chr1 100 9 1"},
		{"too many fields", "chr1 100 9 1 10 extra"},
		{"empty line", ""},
		{"negative count", "chr1 100 -1 1 10"},
		{"non-numeric count", "chr1 100 nine 1 10"},
		{"float count", "chr1 100 9.5 1 10"},
		{"non-numeric position", "chr1 abc 9 1 10"},
		{"negative position", "chr1 -100 9 1 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseObservation(tt.line)
			assert.Error(t, err)
		})
	}
}

func TestNormalizePosition(t *testing.T) {
	pos, err := NormalizePosition("42")
	require.NoError(t, err)
	assert.Equal(t, 42, pos)

	pos, err = NormalizePosition("100.1")
	require.NoError(t, err)
	assert.Equal(t, 100, pos)

	pos, err = NormalizePosition("100.1.2")
	require.NoError(t, err)
	assert.Equal(t, 100, pos)

	for _, field := range []string{"", ".", "x.1", "-3", "10x"} {
		_, err := NormalizePosition(field)
		assert.Error(t, err, "field %q", field)
	}
}

func TestAggregateReaderCounts(t *testing.T) {
	input := strings.Join([]string{
		"chr1 100 9 1 10", // homozygous
		"chr1 100 5 5 10", // heterozygous
		"chr1 100 1 1 2",  // below the coverage floor
		"chr2 200 0 8 8",  // homozygous on the alternate allele
	}, "\n") + "\n"

	tally := make(SiteTally)
	n, err := AggregateReader(context.Background(), strings.NewReader(input), "s1", DefaultParams(), tally)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.NotNil(t, tally["chr1"][100])
	assert.Equal(t, Tally{Homo: 1, Het: 1, NA: 1}, *tally["chr1"][100])
	require.NotNil(t, tally["chr2"][200])
	assert.Equal(t, Tally{Homo: 1}, *tally["chr2"][200])
	assert.Equal(t, 2, tally.Sites())
}

func TestAggregateReaderReportsSourceAndLine(t *testing.T) {
	input := "chr1 100 9 1 10\nchr1 100 bad 1 10\n"

	tally := make(SiteTally)
	_, err := AggregateReader(context.Background(), strings.NewReader(input), "s1.tsv", DefaultParams(), tally)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "s1.tsv", parseErr.Source)
	assert.Equal(t, int64(2), parseErr.Line)
	assert.Contains(t, parseErr.Error(), "s1.tsv:2:")
}

func TestAggregateReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Enough lines to reach the periodic cancellation check.
	var b strings.Builder
	for i := 0; i < 5000; i++ {
		b.WriteString("chr1 100 9 1 10\n")
	}

	tally := make(SiteTally)
	_, err := AggregateReader(ctx, strings.NewReader(b.String()), "s1", DefaultParams(), tally)
	assert.ErrorIs(t, err, context.Canceled)
}
