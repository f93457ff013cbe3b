package style

const DefaultPersonalizationThreshold = 20

type Progress struct {
	Progress     int
	Threshold    int
	Personalized bool
}

func Readiness(swipes, threshold int) Progress {
	if threshold < 0 {
		threshold = 0
	}
	return Progress{
		Progress:     min(swipes, threshold),
		Threshold:    threshold,
		Personalized: swipes >= threshold,
	}
}

// Fraction is the progress bar fill in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Threshold == 0 {
		return 1
	}
	return float64(p.Progress) / float64(p.Threshold)
}
