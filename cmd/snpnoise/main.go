package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "snpnoise",
	Short: "Population-scale noise reduction for SNP calls",
	Long: `snpnoise reduces noise in SNP call sets from genotyped populations
that lack a second reference parent.

Positions where heterozygous calls are over-represented across the
population's samples are flagged as unreliable and removed from
per-chromosome SNP call files. Allele-count observation tables can be
produced directly from sample BAM files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("snpnoise version 0.2.0")
		fmt.Println("Noise reduction for SNP calls from genotyped populations")
	},
}
