package noise

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// RunInfo identifies one noise-reduction run.
type RunInfo struct {
	ID      string    `json:"id"`
	Started time.Time `json:"started"`
	Params  Params    `json:"params"`
	Sources []string  `json:"sources"`
}

// NewRunInfo stamps a fresh run with a UUID.
func NewRunInfo(p Params, sources []string) RunInfo {
	return RunInfo{
		ID:      uuid.New().String(),
		Started: time.Now(),
		Params:  p,
		Sources: sources,
	}
}

// SiteRow is one position in the site report.
type SiteRow struct {
	Chrom        string  `json:"chrom"`
	Pos          int     `json:"pos"`
	Homo         int     `json:"homo"`
	Het          int     `json:"het"`
	NA           int     `json:"na"`
	Scored       int     `json:"scored"`
	HomoFraction float64 `json:"homo_fraction"`
	Keep         bool    `json:"keep"`
}

// ChromSummary rolls one chromosome up.
type ChromSummary struct {
	Chrom     string `json:"chrom"`
	Sites     int    `json:"sites"`
	Kept      int    `json:"kept"`
	Discarded int    `json:"discarded"`
}

// Report is the scored view of a run: every tallied position with its
// decision, plus per-chromosome rollups.
type Report struct {
	Info        RunInfo        `json:"info"`
	Rows        []SiteRow      `json:"rows"`
	Chromosomes []ChromSummary `json:"chromosomes"`
	Kept        int            `json:"kept"`
	Discarded   int            `json:"discarded"`
}

// BuildReport flattens a tally and its decisions into a report sorted
// by chromosome and position.
func BuildReport(t SiteTally, decisions DecisionSet, info RunInfo) *Report {
	report := &Report{Info: info}

	for _, chrom := range t.Chromosomes() {
		summary := ChromSummary{Chrom: chrom}
		for _, pos := range t.Positions(chrom) {
			tally := t[chrom][pos]
			ratio, scored := SampleRatio(tally)
			keep := decisions.Keep(chrom, pos)

			report.Rows = append(report.Rows, SiteRow{
				Chrom:        chrom,
				Pos:          pos,
				Homo:         tally.Homo,
				Het:          tally.Het,
				NA:           tally.NA,
				Scored:       scored,
				HomoFraction: ratio,
				Keep:         keep,
			})

			summary.Sites++
			if keep {
				summary.Kept++
			} else {
				summary.Discarded++
			}
		}
		report.Chromosomes = append(report.Chromosomes, summary)
		report.Kept += summary.Kept
		report.Discarded += summary.Discarded
	}

	return report
}

// WriteTSV writes the per-site rows as a tab-delimited table with a
// header line. Keep is encoded as 1 or 0.
func (r *Report) WriteTSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "chrom\tpos\thomo\thet\tna\tscored\thomo_fraction\tkeep"); err != nil {
		return err
	}
	for _, row := range r.Rows {
		keep := 0
		if row.Keep {
			keep = 1
		}
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%.4f\t%d\n",
			row.Chrom, row.Pos, row.Homo, row.Het, row.NA, row.Scored, row.HomoFraction, keep)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteTSVFile writes the TSV report to path.
func (r *Report) WriteTSVFile(path string, overwrite bool) error {
	out, err := CreateOutput(path, overwrite)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	if err := r.WriteTSV(w); err != nil {
		out.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return out.Close()
}

// WriteJSON writes the full report, run info included, as indented
// JSON.
func (r *Report) WriteJSON(path string, overwrite bool) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	out, err := CreateOutput(path, overwrite)
	if err != nil {
		return err
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		out.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return out.Close()
}

// WriteXLSX writes a workbook with Sites, Chromosomes and Run sheets.
func (r *Report) WriteXLSX(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &ConflictError{Path: path}
		}
	}

	excel := excelize.NewFile()
	defer excel.Close()

	if err := r.writeSitesSheet(excel); err != nil {
		return fmt.Errorf("failed to build Sites sheet: %w", err)
	}
	if err := r.writeChromosomesSheet(excel); err != nil {
		return fmt.Errorf("failed to build Chromosomes sheet: %w", err)
	}
	if err := r.writeRunSheet(excel); err != nil {
		return fmt.Errorf("failed to build Run sheet: %w", err)
	}
	if err := excel.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := excel.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (r *Report) writeSitesSheet(excel *excelize.File) error {
	const sheet = "Sites"
	if _, err := excel.NewSheet(sheet); err != nil {
		return err
	}

	title := []interface{}{"chrom", "pos", "homo", "het", "na", "scored", "homo_fraction", "keep"}
	if err := excel.SetSheetRow(sheet, "A1", &title); err != nil {
		return err
	}

	for i, row := range r.Rows {
		values := []interface{}{row.Chrom, row.Pos, row.Homo, row.Het, row.NA, row.Scored, row.HomoFraction, row.Keep}
		if err := excel.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) writeChromosomesSheet(excel *excelize.File) error {
	const sheet = "Chromosomes"
	if _, err := excel.NewSheet(sheet); err != nil {
		return err
	}

	title := []interface{}{"chrom", "sites", "kept", "discarded"}
	if err := excel.SetSheetRow(sheet, "A1", &title); err != nil {
		return err
	}

	for i, summary := range r.Chromosomes {
		values := []interface{}{summary.Chrom, summary.Sites, summary.Kept, summary.Discarded}
		if err := excel.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) writeRunSheet(excel *excelize.File) error {
	const sheet = "Run"
	if _, err := excel.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"run_id", r.Info.ID},
		{"started", r.Info.Started.Format(time.RFC3339)},
		{"cov_min", r.Info.Params.CovMin},
		{"homo_ratio_min", r.Info.Params.HomoRatioMin},
		{"sample_ratio_min", r.Info.Params.SampleRatioMin},
		{"sources", strings.Join(r.Info.Sources, ", ")},
		{"sites", len(r.Rows)},
		{"kept", r.Kept},
		{"discarded", r.Discarded},
	}
	for i := range rows {
		if err := excel.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
