package noise

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/zygosity"
)

// Default thresholds applied by DefaultParams and the CLI.
const (
	DefaultCovMin         = 3
	DefaultHomoRatioMin   = 0.9
	DefaultSampleRatioMin = 0.9
)

// Params holds the thresholds and resources for a run.
type Params struct {
	CovMin         int     `json:"cov_min"`
	HomoRatioMin   float64 `json:"homo_ratio_min"`
	SampleRatioMin float64 `json:"sample_ratio_min"`
	Workers        int     `json:"workers"`
}

// DefaultParams returns the standard thresholds with sequential
// source scanning.
func DefaultParams() Params {
	return Params{
		CovMin:         DefaultCovMin,
		HomoRatioMin:   DefaultHomoRatioMin,
		SampleRatioMin: DefaultSampleRatioMin,
		Workers:        1,
	}
}

// Observation is one sample's allele counts at a genomic position.
type Observation struct {
	Chrom   string
	Pos     int
	Allele1 int
	Allele2 int
	Total   int
}

// Tally counts per-sample classifications at one position.
type Tally struct {
	Homo int `json:"homo"`
	Het  int `json:"het"`
	NA   int `json:"na"`
}

// SiteTally accumulates classification counts per chromosome and
// position. It is mutated only while aggregating; afterwards it is
// read-only.
type SiteTally map[string]map[int]*Tally

// Add records one classification for chrom:pos.
func (t SiteTally) Add(chrom string, pos int, call zygosity.Call) {
	byPos := t[chrom]
	if byPos == nil {
		byPos = make(map[int]*Tally)
		t[chrom] = byPos
	}

	tally := byPos[pos]
	if tally == nil {
		tally = &Tally{}
		byPos[pos] = tally
	}

	switch call {
	case zygosity.Homo:
		tally.Homo++
	case zygosity.Het:
		tally.Het++
	default:
		tally.NA++
	}
}

// Merge folds the counts of other into t. The counting order never
// changes the result, so per-source tallies can be merged in any
// order.
func (t SiteTally) Merge(other SiteTally) {
	for chrom, byPos := range other {
		dst := t[chrom]
		if dst == nil {
			dst = make(map[int]*Tally, len(byPos))
			t[chrom] = dst
		}
		for pos, src := range byPos {
			tally := dst[pos]
			if tally == nil {
				dst[pos] = &Tally{Homo: src.Homo, Het: src.Het, NA: src.NA}
				continue
			}
			tally.Homo += src.Homo
			tally.Het += src.Het
			tally.NA += src.NA
		}
	}
}

// Sites returns the number of distinct tallied positions.
func (t SiteTally) Sites() int {
	n := 0
	for _, byPos := range t {
		n += len(byPos)
	}
	return n
}

// Chromosomes returns the tallied chromosome names, sorted.
func (t SiteTally) Chromosomes() []string {
	chroms := lo.Keys(t)
	sort.Strings(chroms)
	return chroms
}

// Positions returns the tallied positions of one chromosome, sorted.
func (t SiteTally) Positions(chrom string) []int {
	positions := lo.Keys(t[chrom])
	sort.Ints(positions)
	return positions
}

// DecisionSet records, per chromosome and position, whether the
// position survives filtering.
type DecisionSet map[string]map[int]bool

// Keep reports whether chrom:pos was kept. Positions that were never
// tallied are not kept.
func (d DecisionSet) Keep(chrom string, pos int) bool {
	return d[chrom][pos]
}

// Kept returns the number of kept positions.
func (d DecisionSet) Kept() int {
	n := 0
	for _, byPos := range d {
		for _, keep := range byPos {
			if keep {
				n++
			}
		}
	}
	return n
}

// AggregateStats summarizes one aggregation pass.
type AggregateStats struct {
	Sources      int           `json:"sources"`
	Observations int64         `json:"observations"`
	Elapsed      time.Duration `json:"elapsed"`
}
