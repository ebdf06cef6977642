package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/noise"
)

var showWorst int

var scoreCmd = &cobra.Command{
	Use:   "score [observations...]",
	Short: "Score positions across the population without touching call files",
	Long: `Aggregate per-sample allele-count observations and report, for every
(chromosome, position), how many samples look homozygous, heterozygous
or under-covered, and whether the position would be kept.

Observation tables are whitespace-delimited with five fields:
chromosome, position, allele-1 count, allele-2 count, total count.
Files ending in .gz or .zst are decompressed transparently, and "-"
reads from stdin.

Examples:
  snpnoise score sample1.counts sample2.counts
  snpnoise score counts/*.tsv --report sites.tsv
  snpnoise score counts/*.tsv.gz --show 10
  zcat sample1.counts.gz | snpnoise score -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd, configPath); err != nil {
			return err
		}

		tally, decisions, report, err := runScoring(cmd.Context(), args)
		if err != nil {
			return err
		}

		printScoreSummary(tally, decisions)
		if showWorst > 0 {
			printWorst(report, showWorst)
		}

		return writeReports(report)
	},
}

func init() {
	addScoringFlags(scoreCmd)
	scoreCmd.Flags().IntVar(&showWorst, "show", 0,
		"Show the N discarded positions with the most heterozygous samples")
}

// runScoring aggregates the observation sources and decides every
// position under the current flag values.
func runScoring(ctx context.Context, args []string) (noise.SiteTally, noise.DecisionSet, *noise.Report, error) {
	params := noise.Params{
		CovMin:         covMin,
		HomoRatioMin:   homoRatioMin,
		SampleRatioMin: sampleRatioMin,
		Workers:        workers,
	}

	sources := make([]noise.Source, 0, len(args))
	for _, arg := range args {
		if arg == "-" {
			sources = append(sources, noise.ReaderSource{Label: "stdin", R: os.Stdin})
			continue
		}
		sources = append(sources, noise.FileSource(arg))
	}

	names := lo.Map(sources, func(s noise.Source, _ int) string { return s.Name() })
	info := noise.NewRunInfo(params, names)
	slog.Info("aggregating observations",
		"run", info.ID,
		"sources", len(sources),
		"workers", noise.WorkerCount(params.Workers))

	tally, stats, err := noise.AggregateSources(ctx, sources, params)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.Debug("aggregation finished",
		"observations", stats.Observations,
		"sites", tally.Sites(),
		"elapsed", stats.Elapsed)

	decisions := noise.Decide(tally, params.SampleRatioMin)

	return tally, decisions, noise.BuildReport(tally, decisions, info), nil
}

// printScoreSummary prints the population rollup.
func printScoreSummary(tally noise.SiteTally, decisions noise.DecisionSet) {
	sites := tally.Sites()
	kept := decisions.Kept()

	fmt.Println("Population scoring summary")
	fmt.Println("==========================")
	fmt.Printf("  Chromosomes: %d\n", len(tally.Chromosomes()))
	fmt.Printf("  Positions: %d\n", sites)
	if sites > 0 {
		fmt.Printf("  Kept: %d (%.2f%%)\n", kept, float64(kept)/float64(sites)*100)
	} else {
		fmt.Printf("  Kept: %d\n", kept)
	}
	fmt.Printf("  Discarded: %d\n", sites-kept)
}

// printWorst lists the discarded positions with the most heterozygous
// samples, the usual suspects when tuning thresholds.
func printWorst(report *noise.Report, n int) {
	discarded := lo.Filter(report.Rows, func(row noise.SiteRow, _ int) bool { return !row.Keep })
	sort.Slice(discarded, func(i, j int) bool { return discarded[i].Het > discarded[j].Het })

	if n > len(discarded) {
		n = len(discarded)
	}
	if n == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("%-12s %12s %6s %6s %6s %14s\n", "Chrom", "Position", "Homo", "Het", "NA", "Homo fraction")
	fmt.Println("------------------------------------------------------------")
	for i := 0; i < n; i++ {
		row := discarded[i]
		fmt.Printf("%-12s %12d %6d %6d %6d %14.4f\n",
			row.Chrom, row.Pos, row.Homo, row.Het, row.NA, row.HomoFraction)
	}
}

// writeReports writes whichever report outputs were requested.
func writeReports(report *noise.Report) error {
	if reportPath != "" {
		if err := report.WriteTSVFile(reportPath, overwrite); err != nil {
			return fmt.Errorf("failed to write site report: %w", err)
		}
		slog.Info("wrote site report", "path", reportPath)
	}
	if jsonPath != "" {
		if err := report.WriteJSON(jsonPath, overwrite); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
		slog.Info("wrote JSON report", "path", jsonPath)
	}
	if xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, overwrite); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		slog.Info("wrote workbook", "path", xlsxPath)
	}
	return nil
}
