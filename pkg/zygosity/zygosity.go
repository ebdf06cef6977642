package zygosity

// Call is the zygosity classification of one sample's allele counts
// at a single genomic position.
type Call int

const (
	// NA marks observations with too little coverage to classify.
	NA Call = iota
	// Homo marks observations dominated by a single allele.
	Homo
	// Het marks observations with substantial support for both alleles.
	Het
)

// String returns the table form of the call.
func (c Call) String() string {
	switch c {
	case Homo:
		return "homo"
	case Het:
		return "het"
	default:
		return "NA"
	}
}

// Classify scores one observation. Coverage below covMin (or zero)
// yields NA; otherwise the major-allele fraction decides between
// homozygous and heterozygous. Both thresholds are inclusive.
func Classify(allele1, allele2, total, covMin int, homoRatioMin float64) Call {
	if total == 0 || total < covMin {
		return NA
	}

	major := allele1
	if allele2 > major {
		major = allele2
	}

	if float64(major)/float64(total) >= homoRatioMin {
		return Homo
	}
	return Het
}
