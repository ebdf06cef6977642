package noise

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// CallFile pairs a chromosome with its SNP call file.
type CallFile struct {
	Chrom string
	Path  string
}

// FindCallFiles matches directory entries against a pattern holding a
// single {chr} placeholder, e.g. "{chr}.snps.tsv". The matched part
// becomes the chromosome name. Results are sorted by chromosome.
func FindCallFiles(dir, pattern string) ([]CallFile, error) {
	if strings.Count(pattern, "{chr}") != 1 {
		return nil, fmt.Errorf("pattern %q must contain {chr} exactly once", pattern)
	}

	parts := strings.SplitN(pattern, "{chr}", 2)
	re, err := regexp.Compile("^" + regexp.QuoteMeta(parts[0]) + "(.+)" + regexp.QuoteMeta(parts[1]) + "$")
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read call directory: %w", err)
	}

	var files []CallFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		files = append(files, CallFile{Chrom: m[1], Path: filepath.Join(dir, entry.Name())})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Chrom < files[j].Chrom })
	return files, nil
}

// RewriteStats reports what one call-file rewrite did.
type RewriteStats struct {
	Lines   int64 `json:"lines"`
	Kept    int64 `json:"kept"`
	Dropped int64 `json:"dropped"`
}

// Rewrite copies the call file at inputPath to outputPath, keeping the
// header line and every data line whose position was kept for chrom.
// Data lines are tab delimited with the position in the second field;
// an insertion suffix like ".1" is ignored for the lookup. Lines whose
// position misses the decision map are dropped. The output must not
// already exist unless overwrite is set.
func Rewrite(chrom string, decisions DecisionSet, inputPath, outputPath string, overwrite bool) (RewriteStats, error) {
	var stats RewriteStats

	in, err := OpenInput(inputPath)
	if err != nil {
		return stats, err
	}
	defer in.Close()

	out, err := CreateOutput(outputPath, overwrite)
	if err != nil {
		return stats, err
	}

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	header := true
	for scanner.Scan() {
		line := scanner.Text()

		// The header line is copied through untouched.
		if header {
			header = false
			if _, err := fmt.Fprintln(w, line); err != nil {
				out.Close()
				return stats, fmt.Errorf("failed to write %s: %w", outputPath, err)
			}
			continue
		}

		stats.Lines++
		if !keepLine(chrom, decisions, line) {
			stats.Dropped++
			continue
		}

		stats.Kept++
		if _, err := fmt.Fprintln(w, line); err != nil {
			out.Close()
			return stats, fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		return stats, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	if err := w.Flush(); err != nil {
		out.Close()
		return stats, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("failed to close %s: %w", outputPath, err)
	}

	return stats, nil
}

// keepLine decides one data line. The second tab field holds the
// position; anything that fails to parse misses the decision map.
func keepLine(chrom string, decisions DecisionSet, line string) bool {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 2 {
		return false
	}
	pos, err := NormalizePosition(fields[1])
	if err != nil {
		return false
	}
	return decisions.Keep(chrom, pos)
}
