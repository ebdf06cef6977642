package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mfcovington/noise-reduction-for-snps-from-pop/pkg/noise"
)

// Flags shared by score and filter. Only one command runs per
// invocation, so both bind the same variables.
var (
	configPath     string
	covMin         int
	homoRatioMin   float64
	sampleRatioMin float64
	workers        int
	overwrite      bool
	reportPath     string
	jsonPath       string
	xlsxPath       string
)

// addScoringFlags registers the aggregation and reporting flags shared
// by score and filter.
func addScoringFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&covMin, "cov-min", noise.DefaultCovMin,
		"Minimum coverage for an observation to be scored")
	cmd.Flags().Float64Var(&homoRatioMin, "homo-ratio-min", noise.DefaultHomoRatioMin,
		"Minimum major-allele fraction for a homozygous call")
	cmd.Flags().Float64Var(&sampleRatioMin, "sample-ratio-min", noise.DefaultSampleRatioMin,
		"Minimum homozygous fraction of scored samples to keep a position")
	cmd.Flags().IntVar(&workers, "workers", 1,
		"Parallel source readers (0 = auto-detect CPU count, 1 = sequential)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false,
		"Replace outputs that already exist")
	cmd.Flags().StringVar(&configPath, "config", "",
		"YAML config file (explicit flags override file values)")
	cmd.Flags().StringVar(&reportPath, "report", "",
		"Write the per-site report as TSV to this path")
	cmd.Flags().StringVar(&jsonPath, "json", "",
		"Write the full report as JSON to this path")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "",
		"Write the per-site report as an xlsx workbook to this path")
}

// loadConfig overlays a YAML config file onto any flags the user did
// not set explicitly. Flag values always win over file values.
func loadConfig(cmd *cobra.Command, path string) error {
	if path == "" {
		return nil
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("cov-min") && viper.IsSet("cov_min") {
		covMin = viper.GetInt("cov_min")
	}
	if !flags.Changed("homo-ratio-min") && viper.IsSet("homo_ratio_min") {
		homoRatioMin = viper.GetFloat64("homo_ratio_min")
	}
	if !flags.Changed("sample-ratio-min") && viper.IsSet("sample_ratio_min") {
		sampleRatioMin = viper.GetFloat64("sample_ratio_min")
	}
	if !flags.Changed("workers") && viper.IsSet("workers") {
		workers = viper.GetInt("workers")
	}
	if !flags.Changed("overwrite") && viper.IsSet("overwrite") {
		overwrite = viper.GetBool("overwrite")
	}
	if flags.Lookup("calls") != nil && !flags.Changed("calls") && viper.IsSet("calls_dir") {
		callsDir = viper.GetString("calls_dir")
	}
	if flags.Lookup("pattern") != nil && !flags.Changed("pattern") && viper.IsSet("call_pattern") {
		callPattern = viper.GetString("call_pattern")
	}
	if flags.Lookup("suffix") != nil && !flags.Changed("suffix") && viper.IsSet("output_suffix") {
		outputSuffix = viper.GetString("output_suffix")
	}

	return nil
}
