package zygosity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		allele1 int
		allele2 int
		total   int
		covMin  int
		homoMin float64
		want    Call
	}{
		{"strong reference allele", 9, 1, 10, 3, 0.9, Homo},
		{"below coverage floor", 1, 1, 2, 3, 0.9, NA},
		{"zero coverage with zero floor", 0, 0, 0, 0, 0.9, NA},
		{"exactly at coverage floor", 2, 1, 3, 3, 0.9, Het},
		{"ratio exactly at threshold", 9, 1, 10, 3, 0.9, Homo},
		{"ratio just below threshold", 89, 11, 100, 3, 0.9, Het},
		{"alternate allele dominates", 1, 9, 10, 3, 0.9, Homo},
		{"balanced counts", 5, 5, 10, 3, 0.9, Het},
		{"zero threshold scores everything", 0, 0, 10, 3, 0, Homo},
		{"total larger than allele sum", 4, 1, 10, 3, 0.9, Het},
		{"threshold of one needs a pure call", 10, 0, 10, 3, 1, Homo},
		{"threshold of one rejects one stray read", 9, 1, 10, 3, 1, Het},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.allele1, tt.allele2, tt.total, tt.covMin, tt.homoMin)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCallString(t *testing.T) {
	assert.Equal(t, "NA", NA.String())
	assert.Equal(t, "homo", Homo.String())
	assert.Equal(t, "het", Het.String())
}
