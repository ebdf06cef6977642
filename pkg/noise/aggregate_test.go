package noise

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/zygosity"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSiteTallyMerge(t *testing.T) {
	a := make(SiteTally)
	a.Add("chr1", 100, zygosity.Homo)
	a.Add("chr1", 100, zygosity.Het)

	b := make(SiteTally)
	b.Add("chr1", 100, zygosity.Homo)
	b.Add("chr2", 5, zygosity.NA)

	a.Merge(b)
	assert.Equal(t, Tally{Homo: 2, Het: 1}, *a["chr1"][100])
	assert.Equal(t, Tally{NA: 1}, *a["chr2"][5])
	assert.Equal(t, 2, a.Sites())

	// The merged-in tally keeps its own counts.
	assert.Equal(t, Tally{Homo: 1}, *b["chr1"][100])
}

func TestAggregateSourcesOrderIndependent(t *testing.T) {
	lines := []string{
		"chr1 100 9 1 10",
		"chr1 100 5 5 10",
		"chr2 50 8 0 8",
		"chr1 100 0 0 0",
	}
	perms := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}}

	var tallies []SiteTally
	for _, perm := range perms {
		var b strings.Builder
		for _, i := range perm {
			b.WriteString(lines[i])
			b.WriteByte('\n')
		}

		tally, _, err := AggregateSources(context.Background(),
			[]Source{ReaderSource{Label: "mem", R: strings.NewReader(b.String())}},
			DefaultParams())
		require.NoError(t, err)
		tallies = append(tallies, tally)
	}

	assert.Equal(t, tallies[0], tallies[1])
	assert.Equal(t, tallies[0], tallies[2])
}

func TestAggregateSourcesParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()

	var sources []Source
	for i := 0; i < 6; i++ {
		content := fmt.Sprintf("chr1 %d 9 1 10\nchr1 100 5 5 10\nchr2 7 2 1 3\n", 100+i)
		sources = append(sources, FileSource(writeTemp(t, dir, fmt.Sprintf("s%d.tsv", i), content)))
	}

	sequential := DefaultParams()
	sequential.Workers = 1
	parallel := DefaultParams()
	parallel.Workers = 4

	seqTally, seqStats, err := AggregateSources(context.Background(), sources, sequential)
	require.NoError(t, err)
	parTally, parStats, err := AggregateSources(context.Background(), sources, parallel)
	require.NoError(t, err)

	assert.Equal(t, seqTally, parTally)
	assert.Equal(t, seqStats.Observations, parStats.Observations)
	assert.Equal(t, 6, parStats.Sources)
}

func TestAggregateSourcesGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.tsv.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("chr1 100 9 1 10\nchr1 100 10 0 10\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	tally, stats, err := AggregateSources(context.Background(), []Source{FileSource(path)}, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Observations)
	assert.Equal(t, 2, tally["chr1"][100].Homo)
}

func TestAggregateSourcesMalformedAborts(t *testing.T) {
	dir := t.TempDir()
	good := writeTemp(t, dir, "good.tsv", "chr1 100 9 1 10\n")
	bad := writeTemp(t, dir, "bad.tsv", "chr1 100 9 1\n")

	tally, stats, err := AggregateSources(context.Background(),
		[]Source{FileSource(good), FileSource(bad)}, DefaultParams())
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Nil(t, tally)
	assert.Nil(t, stats)
}

func TestAggregateSourcesMissingInput(t *testing.T) {
	_, _, err := AggregateSources(context.Background(),
		[]Source{FileSource(filepath.Join(t.TempDir(), "absent.tsv"))}, DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 1, WorkerCount(1))
	assert.Equal(t, 7, WorkerCount(7))
	assert.GreaterOrEqual(t, WorkerCount(0), 1)
	assert.LessOrEqual(t, WorkerCount(0), 32)
}
