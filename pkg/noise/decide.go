package noise

// SampleRatio returns the homozygous fraction of the scored samples at
// one position, together with the scored count. NA observations never
// score; a position with no scored samples gets ratio 0.
func SampleRatio(t *Tally) (float64, int) {
	scored := t.Homo + t.Het
	if scored == 0 {
		return 0, 0
	}
	return float64(t.Homo) / float64(scored), scored
}

// Decide maps every tallied position to a keep decision: kept when its
// homozygous fraction is at least sampleRatioMin, inclusive.
func Decide(t SiteTally, sampleRatioMin float64) DecisionSet {
	decisions := make(DecisionSet, len(t))
	for chrom, byPos := range t {
		keep := make(map[int]bool, len(byPos))
		for pos, tally := range byPos {
			ratio, _ := SampleRatio(tally)
			keep[pos] = ratio >= sampleRatioMin
		}
		decisions[chrom] = keep
	}
	return decisions
}
