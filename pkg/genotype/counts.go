package genotype

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Options filters the reads and bases that contribute evidence.
type Options struct {
	MinMapQ     int // minimum mapping quality, 0 counts everything
	MinBaseQual int // minimum base quality, 0 counts everything
}

// skipFlags marks reads that never contribute evidence.
const skipFlags = sam.Unmapped | sam.Secondary | sam.Supplementary | sam.Duplicate | sam.QCFail

// siteCount accumulates allele evidence for one site.
type siteCount struct {
	site  Site
	a1    int
	a2    int
	total int
}

// CountSet holds allele counts for every listed site of one sample.
type CountSet struct {
	bySite map[string]map[int]*siteCount
	order  []*siteCount
}

// NewCountSet indexes the listed sites. Duplicate (chromosome,
// position) entries collapse into one.
func NewCountSet(sites []Site) *CountSet {
	cs := &CountSet{bySite: make(map[string]map[int]*siteCount)}

	for _, site := range sites {
		byPos := cs.bySite[site.Chrom]
		if byPos == nil {
			byPos = make(map[int]*siteCount)
			cs.bySite[site.Chrom] = byPos
		}
		if _, ok := byPos[site.Pos]; ok {
			continue
		}
		sc := &siteCount{site: site}
		byPos[site.Pos] = sc
		cs.order = append(cs.order, sc)
	}

	sort.Slice(cs.order, func(i, j int) bool {
		a, b := cs.order[i].site, cs.order[j].site
		if a.Chrom != b.Chrom {
			return a.Chrom < b.Chrom
		}
		return a.Pos < b.Pos
	})

	return cs
}

// CountAlleles scans a BAM file and tallies, for every listed site,
// how many aligned bases match each expected allele. Unmapped,
// secondary, supplementary, duplicate and QC-fail reads are skipped,
// as are reads below MinMapQ and bases below MinBaseQual. Only
// A/C/G/T bases count toward the total.
func CountAlleles(bamPath string, sites []Site, opts Options) (*CountSet, error) {
	f, err := os.Open(bamPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open BAM file: %w", err)
	}
	defer f.Close()

	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create BAM reader: %w", err)
	}
	defer br.Close()

	counts := NewCountSet(sites)

	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read BAM record: %w", err)
		}
		counts.addRecord(rec, opts)
	}

	return counts, nil
}

// addRecord projects one read onto the reference and scores every
// listed site it covers. Reference positions are 1-based in site
// lists while BAM records are 0-based.
func (cs *CountSet) addRecord(rec *sam.Record, opts Options) {
	if rec.Flags&skipFlags != 0 {
		return
	}
	if int(rec.MapQ) < opts.MinMapQ {
		return
	}
	if rec.Ref == nil {
		return
	}

	byPos := cs.bySite[rec.Ref.Name()]
	if byPos == nil {
		return
	}

	seq := rec.Seq.Expand()
	refPos := rec.Pos
	query := 0

	for _, op := range rec.Cigar {
		consumes := op.Type().Consumes()
		length := op.Len()

		switch {
		case consumes.Query == 1 && consumes.Reference == 1:
			for i := 0; i < length; i++ {
				qi := query + i
				if qi >= len(seq) {
					break
				}
				sc := byPos[refPos+i+1]
				if sc == nil {
					continue
				}
				if qi < len(rec.Qual) && int(rec.Qual[qi]) < opts.MinBaseQual {
					continue
				}
				sc.count(seq[qi])
			}
			refPos += length
			query += length

		case consumes.Query == 1:
			// Insertions and soft clips advance the read only.
			query += length

		case consumes.Reference == 1:
			// Deletions and skips cover no base.
			refPos += length
		}
	}
}

func (sc *siteCount) count(base byte) {
	if base >= 'a' && base <= 'z' {
		base -= 'a' - 'A'
	}
	switch base {
	case 'A', 'C', 'G', 'T':
	default:
		return
	}

	sc.total++
	switch base {
	case sc.site.Allele1:
		sc.a1++
	case sc.site.Allele2:
		sc.a2++
	}
}

// Counts returns the tallied (allele1, allele2, total) for one site.
func (cs *CountSet) Counts(chrom string, pos int) (a1, a2, total int, ok bool) {
	sc := cs.bySite[chrom][pos]
	if sc == nil {
		return 0, 0, 0, false
	}
	return sc.a1, sc.a2, sc.total, true
}

// Sites returns the number of indexed sites.
func (cs *CountSet) Sites() int { return len(cs.order) }

// WriteObservations emits the five-field observation table consumed by
// the aggregator: chromosome, position, allele-1 count, allele-2 count
// and total, sorted by chromosome and position. Every listed site
// appears, covered or not.
func (cs *CountSet) WriteObservations(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, sc := range cs.order {
		_, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\n", sc.site.Chrom, sc.site.Pos, sc.a1, sc.a2, sc.total)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
