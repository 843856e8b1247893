package title

import (
	edlib "github.com/hbollon/go-edlib"
)

// Confidence buckets for a match score.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
	ConfidenceNone   = "none"
)

// Match is the result of comparing a wanted title against candidates.
type Match struct {
	Index      int
	Title      string
	Score      float64
	Confidence string
}

// BestMatch returns the candidate most similar to the wanted title using
// Jaro-Winkler similarity over normalized strings. Index is -1 when
// candidates is empty.
func BestMatch(wanted string, candidates []string) Match {
	normalizedWanted := Normalize(wanted)

	best := Match{Index: -1, Confidence: ConfidenceNone}
	for i, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalizedWanted, Normalize(candidate)))
		if score > best.Score {
			best.Index = i
			best.Title = candidate
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	}
	return best
}
