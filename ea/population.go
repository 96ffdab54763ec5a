package ea

import (
	"io"
	"log/slog"
	"math"
)

// Population holds the species of one evolutionary run.
//
// A Population is not safe for concurrent use. Fitness evaluation must finish
// before PurgeInvalidGenomes, DetermineBestSpecies or Flatten are called, and
// no species or member list may be mutated while they run.
type Population struct {
	Name string

	// BestGenome is the best genome seen so far. It is managed by the caller;
	// the population never updates or validates it, so it may refer to a
	// genome that is no longer a member of any species.
	BestGenome Genome

	// PopulationSize is the target genome count. It is advisory only.
	PopulationSize int

	// GenomeFactory is kept for callers that seed or refill the population.
	GenomeFactory GenomeFactory

	// SpeciesFactory builds species for CreateSpecies. Nil means NewBasicSpecies.
	SpeciesFactory SpeciesFactory

	// SpeciesScoreFunc names the StatFunctions entry Summarize uses to reduce
	// each species' scores to one value. Empty or unknown means "mean".
	SpeciesScoreFunc string

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	species []Species
}

// NewPopulation creates an empty population with a target size and genome factory.
func NewPopulation(size int, factory GenomeFactory) *Population {
	return &Population{
		PopulationSize: size,
		GenomeFactory:  factory,
	}
}

// Species returns the species in creation order. The returned slice is a copy.
func (p *Population) Species() []Species {
	out := make([]Species, len(p.species))
	copy(out, p.species)
	return out
}

// Clear removes every species. BestGenome is left as is.
func (p *Population) Clear() {
	clear(p.species)
	p.species = p.species[:0]
}

// CreateSpecies appends a new, empty species owned by p and returns it.
// It panics if SpeciesFactory returns a species that does not point back to p.
func (p *Population) CreateSpecies() Species {
	factory := p.SpeciesFactory
	if factory == nil {
		factory = NewBasicSpecies
	}
	s := factory(p)
	if s == nil || s.Population() != p {
		panic("ea: SpeciesFactory must return a species owned by the population it was given")
	}
	p.species = append(p.species, s)
	return s
}

// DetermineBestSpecies returns the first species whose members contain
// BestGenome, or nil if BestGenome is unset or not a member of any species.
func (p *Population) DetermineBestSpecies() Species {
	if p.BestGenome == nil {
		return nil
	}
	for _, s := range p.species {
		if s.Contains(p.BestGenome) {
			return s
		}
	}
	return nil
}

// Flatten returns every genome of every species, in species order and then
// member order. A genome referenced by more than one species (or twice by the
// same species) appears once, at its first position.
func (p *Population) Flatten() []Genome {
	result := make([]Genome, 0, p.memberCount())
	seen := make(map[Genome]struct{}, cap(result))
	for _, s := range p.species {
		for _, g := range s.Members() {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			result = append(result, g)
		}
	}
	return result
}

// Count returns the number of distinct genomes, len(Flatten()).
func (p *Population) Count() int {
	return len(p.Flatten())
}

// MaxIndividualSize reports that the population imposes no size limit on genomes.
func (p *Population) MaxIndividualSize() int {
	return math.MaxInt
}

// PurgeInvalidGenomes removes every genome whose Score or AdjustedScore is NaN
// or infinite. Species left empty are removed. A surviving species whose
// leader was removed gets Members()[0] as its new leader, and its best score
// is reset to that leader's adjusted score.
func (p *Population) PurgeInvalidGenomes() {
	removedGenomes, removedSpecies, newLeaders := 0, 0, 0

	speciesNum := 0
	for speciesNum < len(p.species) {
		s := p.species[speciesNum]

		genomeNum := 0
		for genomeNum < len(s.Members()) {
			g := s.Members()[genomeNum]
			if HasInvalidScore(g) {
				s.RemoveMember(g)
				removedGenomes++
				continue
			}
			genomeNum++
		}

		members := s.Members()
		if len(members) == 0 {
			p.removeSpeciesAt(speciesNum)
			removedSpecies++
			continue
		}

		if !s.Contains(s.Leader()) {
			leader := members[0]
			s.SetLeader(leader)
			s.SetBestScore(leader.AdjustedScore())
			newLeaders++
		}
		speciesNum++
	}

	if removedGenomes > 0 || newLeaders > 0 {
		p.log().Debug("purged invalid genomes",
			"population", p.Name,
			"genomes_removed", removedGenomes,
			"species_removed", removedSpecies,
			"leaders_replaced", newLeaders,
			"species_left", len(p.species))
	}
}

func (p *Population) removeSpeciesAt(i int) {
	copy(p.species[i:], p.species[i+1:])
	p.species[len(p.species)-1] = nil
	p.species = p.species[:len(p.species)-1]
}

func (p *Population) memberCount() int {
	n := 0
	for _, s := range p.species {
		n += len(s.Members())
	}
	return n
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (p *Population) log() *slog.Logger {
	if p.Logger == nil {
		return discardLogger
	}
	return p.Logger
}
