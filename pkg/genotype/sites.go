package genotype

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/noise"
)

// Site is a known SNP position with its two expected alleles.
type Site struct {
	Chrom   string
	Pos     int
	Allele1 byte
	Allele2 byte
}

// ReadSiteList loads a SNP site table: chromosome, position, allele-1
// base and allele-2 base, whitespace delimited. Lines starting with
// '#' are comments and extra columns are ignored. Gzip and zstd lists
// are decompressed by extension.
func ReadSiteList(path string) ([]Site, error) {
	r, err := noise.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return parseSiteList(r, path)
}

func parseSiteList(r io.Reader, source string) ([]Site, error) {
	scanner := bufio.NewScanner(r)

	var sites []Site
	var line int64
	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 4 {
			return nil, &noise.ParseError{
				Source: source,
				Line:   line,
				Reason: fmt.Sprintf("expected 4 fields, found %d", len(fields)),
			}
		}

		pos, err := noise.NormalizePosition(fields[1])
		if err != nil {
			return nil, &noise.ParseError{Source: source, Line: line, Reason: err.Error()}
		}
		allele1, err := parseBase(fields[2])
		if err != nil {
			return nil, &noise.ParseError{Source: source, Line: line, Reason: err.Error()}
		}
		allele2, err := parseBase(fields[3])
		if err != nil {
			return nil, &noise.ParseError{Source: source, Line: line, Reason: err.Error()}
		}

		sites = append(sites, Site{Chrom: fields[0], Pos: pos, Allele1: allele1, Allele2: allele2})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	return sites, nil
}

func parseBase(field string) (byte, error) {
	switch strings.ToUpper(field) {
	case "A":
		return 'A', nil
	case "C":
		return 'C', nil
	case "G":
		return 'G', nil
	case "T":
		return 'T', nil
	}
	return 0, fmt.Errorf("invalid allele %q", field)
}
