package ea

import (
	"math"
	"sort"
)

// --- Statistical Functions ---

// Mean calculates the average of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return Sum(values) / float64(len(values))
}

// Stdev calculates the sample standard deviation of a slice of float64 values.
func Stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

// Sum calculates the sum of a slice of float64 values.
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// MaxFloat returns the maximum value, or negative infinity if the slice is empty.
func MaxFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// MinFloat returns the minimum value, or positive infinity if the slice is empty.
func MinFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	minVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
	}
	return minVal
}

// Median returns the median, or NaN if the slice is empty.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

// StatFunctions maps function names to the statistical functions above.
var StatFunctions = map[string]func([]float64) float64{
	"mean":   Mean,
	"stdev":  Stdev,
	"sum":    Sum,
	"max":    MaxFloat,
	"min":    MinFloat,
	"median": Median,
}

// Summary describes the scores of a population at one point in time.
type Summary struct {
	Species int // Number of species.
	Genomes int // Distinct genomes, same as Population.Count.
	Invalid int // Genomes with a NaN or infinite score.

	// Statistics over the raw scores of valid genomes. With no valid genomes
	// all of them are zero.
	MeanScore   float64
	StdevScore  float64
	MinScore    float64
	MaxScore    float64
	MedianScore float64

	// SpeciesScores holds one value per species, in species order, computed
	// with the population's SpeciesScoreFunc over the valid member scores.
	// A species without valid members scores zero.
	SpeciesScores []float64
}

func (p *Population) speciesScoreFunc() func([]float64) float64 {
	if fn, ok := StatFunctions[p.SpeciesScoreFunc]; ok {
		return fn
	}
	return Mean
}

// Summarize computes a Summary without modifying the population.
func (p *Population) Summarize() Summary {
	genomes := p.Flatten()
	scores := make([]float64, 0, len(genomes))
	invalid := 0
	for _, g := range genomes {
		if HasInvalidScore(g) {
			invalid++
			continue
		}
		scores = append(scores, g.Score())
	}

	sum := Summary{
		Species:       len(p.species),
		Genomes:       len(genomes),
		Invalid:       invalid,
		SpeciesScores: make([]float64, len(p.species)),
	}
	reduce := p.speciesScoreFunc()
	for i, s := range p.species {
		var values []float64
		for _, g := range s.Members() {
			if !HasInvalidScore(g) {
				values = append(values, g.Score())
			}
		}
		if len(values) > 0 {
			sum.SpeciesScores[i] = reduce(values)
		}
	}
	if len(scores) == 0 {
		return sum
	}
	sum.MeanScore = Mean(scores)
	sum.StdevScore = Stdev(scores)
	sum.MinScore = MinFloat(scores)
	sum.MaxScore = MaxFloat(scores)
	sum.MedianScore = Median(scores)
	return sum
}
