package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/noise"
)

var (
	callsDir     string
	callPattern  string
	outputSuffix string
)

var filterCmd = &cobra.Command{
	Use:   "filter [observations...]",
	Short: "Remove noisy positions from per-chromosome SNP call files",
	Long: `Run the full noise-reduction pipeline: aggregate per-sample
allele-count observations, decide which positions to keep, and rewrite
every per-chromosome SNP call file with the discarded positions
removed.

Call files are discovered under --calls by matching --pattern, which
must contain {chr} exactly once; the matched part becomes the
chromosome name. Each output is written next to its input with
--suffix appended. The header line of every call file is copied
through untouched and kept lines are copied verbatim.

Examples:
  snpnoise filter counts/*.tsv --calls calls/
  snpnoise filter counts/*.tsv --calls calls/ --pattern "{chr}.snps.tsv" --suffix .nr
  snpnoise filter counts/*.tsv --calls calls/ --sample-ratio-min 0.95 --overwrite
  snpnoise filter counts/*.tsv --calls calls/ --config run.yaml --report sites.tsv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd, configPath); err != nil {
			return err
		}
		if callsDir == "" {
			return fmt.Errorf("--calls is required")
		}

		tally, decisions, report, err := runScoring(cmd.Context(), args)
		if err != nil {
			return err
		}

		files, err := noise.FindCallFiles(callsDir, callPattern)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no call files matching %q under %s", callPattern, callsDir)
		}

		fmt.Printf("Rewriting %d call files...\n", len(files))

		var kept, dropped int64
		for _, file := range files {
			outPath := file.Path + outputSuffix
			stats, err := noise.Rewrite(file.Chrom, decisions, file.Path, outPath, overwrite)
			if err != nil {
				return fmt.Errorf("failed to rewrite %s: %w", file.Path, err)
			}
			slog.Debug("rewrote call file",
				"chrom", file.Chrom,
				"out", outPath,
				"kept", stats.Kept,
				"dropped", stats.Dropped)
			kept += stats.Kept
			dropped += stats.Dropped
		}

		printScoreSummary(tally, decisions)
		fmt.Println()
		fmt.Printf("Call lines kept: %d\n", kept)
		fmt.Printf("Call lines removed: %d\n", dropped)

		return writeReports(report)
	},
}

func init() {
	addScoringFlags(filterCmd)
	filterCmd.Flags().StringVar(&callsDir, "calls", "",
		"Directory holding per-chromosome SNP call files")
	filterCmd.Flags().StringVar(&callPattern, "pattern", "{chr}.snps.tsv",
		"Call file name pattern, {chr} marks the chromosome")
	filterCmd.Flags().StringVar(&outputSuffix, "suffix", ".nr",
		"Suffix appended to call file names for outputs")
}
