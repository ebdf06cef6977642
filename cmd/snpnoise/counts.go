package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/genotype"
	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/noise"
)

var (
	bamPath     string
	sitesPath   string
	countsOut   string
	minMapQ     int
	minBaseQual int
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Build an allele-count observation table from a BAM file",
	Long: `Count the reads supporting each expected allele at known SNP sites in
one sample's BAM file.

The site list is whitespace-delimited with four fields: chromosome,
position, allele-1 base, allele-2 base. Output is the five-field
observation table consumed by score and filter, one line per listed
site. Unmapped, secondary, supplementary, duplicate and QC-fail reads
never contribute; --min-mapq and --min-base-qual drop low-confidence
evidence.

Examples:
  snpnoise counts --bam sample1.bam --sites snps.tsv -o sample1.counts
  snpnoise counts --bam sample1.bam --sites snps.tsv.gz --min-mapq 20 --min-base-qual 13`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sites, err := genotype.ReadSiteList(sitesPath)
		if err != nil {
			return fmt.Errorf("failed to read site list: %w", err)
		}
		slog.Info("counting alleles", "bam", bamPath, "sites", len(sites))

		counts, err := genotype.CountAlleles(bamPath, sites, genotype.Options{
			MinMapQ:     minMapQ,
			MinBaseQual: minBaseQual,
		})
		if err != nil {
			return err
		}

		if countsOut == "" || countsOut == "-" {
			return counts.WriteObservations(os.Stdout)
		}

		out, err := noise.CreateOutput(countsOut, overwrite)
		if err != nil {
			return err
		}
		if err := counts.WriteObservations(out); err != nil {
			out.Close()
			return fmt.Errorf("failed to write observation table: %w", err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", countsOut, err)
		}

		slog.Info("wrote observation table", "path", countsOut, "sites", counts.Sites())
		return nil
	},
}

func init() {
	countsCmd.Flags().StringVar(&bamPath, "bam", "", "Sample BAM file to count from")
	countsCmd.Flags().StringVar(&sitesPath, "sites", "", "Known SNP site list (chrom pos allele1 allele2)")
	countsCmd.Flags().StringVarP(&countsOut, "output", "o", "", "Observation table output path (default stdout)")
	countsCmd.Flags().IntVar(&minMapQ, "min-mapq", 0, "Minimum read mapping quality")
	countsCmd.Flags().IntVar(&minBaseQual, "min-base-qual", 0, "Minimum base quality")
	countsCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the output file if it exists")

	countsCmd.MarkFlagRequired("bam")
	countsCmd.MarkFlagRequired("sites")
}
