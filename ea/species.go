package ea

// Species is a group of genomes kept together for niching.
//
// Members keeps insertion order; index 0 is the fallback leader when the
// current leader disappears. Uniqueness of members is left to the
// implementation. The owning Population is fixed when the species is created.
type Species interface {
	// Members returns the ordered member list. The slice may be the
	// species' own storage and must not be retained across mutations.
	Members() []Genome
	AddMember(g Genome)
	// RemoveMember removes the first member equal to g.
	RemoveMember(g Genome) bool
	Contains(g Genome) bool

	Leader() Genome
	SetLeader(g Genome)
	BestScore() float64
	SetBestScore(score float64)

	Population() *Population
}

// SpeciesFactory builds an empty species owned by p. The returned species'
// Population method must return p; CreateSpecies panics otherwise.
type SpeciesFactory func(p *Population) Species

// BasicSpecies is the default Species implementation.
type BasicSpecies struct {
	members    []Genome
	leader     Genome
	bestScore  float64
	population *Population
}

// NewBasicSpecies creates an empty species owned by p.
func NewBasicSpecies(p *Population) Species {
	return &BasicSpecies{population: p}
}

func (s *BasicSpecies) Members() []Genome { return s.members }

func (s *BasicSpecies) AddMember(g Genome) {
	s.members = append(s.members, g)
}

func (s *BasicSpecies) RemoveMember(g Genome) bool {
	for i, m := range s.members {
		if m == g {
			copy(s.members[i:], s.members[i+1:])
			s.members[len(s.members)-1] = nil
			s.members = s.members[:len(s.members)-1]
			return true
		}
	}
	return false
}

func (s *BasicSpecies) Contains(g Genome) bool {
	return containsGenome(s.members, g)
}

func (s *BasicSpecies) Leader() Genome         { return s.leader }
func (s *BasicSpecies) SetLeader(g Genome)     { s.leader = g }
func (s *BasicSpecies) BestScore() float64     { return s.bestScore }
func (s *BasicSpecies) SetBestScore(v float64) { s.bestScore = v }

// Population returns the population this species was created for.
func (s *BasicSpecies) Population() *Population { return s.population }

// containsGenome reports whether g is in members. A nil g never matches.
func containsGenome(members []Genome, g Genome) bool {
	if g == nil {
		return false
	}
	for _, m := range members {
		if m == g {
			return true
		}
	}
	return false
}
