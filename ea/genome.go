package ea

import "math"

// Genome is a single candidate solution held by a Population.
// Score and AdjustedScore may be NaN or infinite after a failed evaluation.
//
// Genomes are compared with ==, so implementations must be comparable;
// pointer types are the expected choice and give identity semantics.
type Genome interface {
	Score() float64
	AdjustedScore() float64
}

// GenomeFactory creates genomes for a population. The population only stores it
// for callers; it never invokes the factory itself.
type GenomeFactory interface {
	NewGenome() Genome
	CopyGenome(other Genome) Genome
}

// IsValidScore reports whether a score is finite.
func IsValidScore(score float64) bool {
	return !math.IsNaN(score) && !math.IsInf(score, 0)
}

// HasInvalidScore reports whether either of the genome's scores is NaN or infinite.
func HasInvalidScore(g Genome) bool {
	return !IsValidScore(g.Score()) || !IsValidScore(g.AdjustedScore())
}

// BasicGenome is a minimal genome carrying only its key and scores.
// Fields are exported so it can be written to checkpoints.
type BasicGenome struct {
	Key             int     // Unique identifier for this genome.
	Fitness         float64 // Raw fitness.
	AdjustedFitness float64 // Fitness after niching/age adjustment.
}

// Score returns the raw fitness.
func (g *BasicGenome) Score() float64 { return g.Fitness }

// AdjustedScore returns the adjusted fitness.
func (g *BasicGenome) AdjustedScore() float64 { return g.AdjustedFitness }

// BasicGenomeFactory hands out BasicGenomes with sequential keys.
type BasicGenomeFactory struct {
	NextGenomeKey int // Key for the next genome; 0 is treated as 1.
}

// NewBasicGenomeFactory creates a factory whose first genome gets key 1.
func NewBasicGenomeFactory() *BasicGenomeFactory {
	return &BasicGenomeFactory{NextGenomeKey: 1}
}

func (f *BasicGenomeFactory) getNextKey() int {
	if f.NextGenomeKey <= 0 {
		f.NextGenomeKey = 1
	}
	key := f.NextGenomeKey
	f.NextGenomeKey++
	return key
}

// NewGenome returns a fresh genome with zero scores.
func (f *BasicGenomeFactory) NewGenome() Genome {
	return &BasicGenome{Key: f.getNextKey()}
}

// CopyGenome returns a new genome with the scores of other and a new key.
func (f *BasicGenomeFactory) CopyGenome(other Genome) Genome {
	return &BasicGenome{
		Key:             f.getNextKey(),
		Fitness:         other.Score(),
		AdjustedFitness: other.AdjustedScore(),
	}
}
