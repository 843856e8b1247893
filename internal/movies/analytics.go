package movies

import "math"

// Aggregate computes the analytics snapshot for a set of movies. It is a
// pure function and returns a zeroed snapshot for empty input.
func Aggregate(list []Movie) Analytics {
	a := Analytics{
		GenreDistribution:    make(map[string]int),
		AverageRuntimeByYear: make(map[int]int),
		TotalMovies:          len(list),
	}

	var ratingSum float64
	var rated int
	runtimeSum := make(map[int]int)
	runtimeCount := make(map[int]int)

	for _, m := range list {
		for _, g := range m.Genre {
			a.GenreDistribution[g]++
		}
		if m.Rating > 0 {
			ratingSum += m.Rating
			rated++
		}
		runtimeSum[m.Year] += m.Runtime
		runtimeCount[m.Year]++
	}

	if rated > 0 {
		a.AverageRating = math.Round(ratingSum/float64(rated)*100) / 100
	}
	for year, sum := range runtimeSum {
		a.AverageRuntimeByYear[year] = int(math.Round(float64(sum) / float64(runtimeCount[year])))
	}

	return a
}
