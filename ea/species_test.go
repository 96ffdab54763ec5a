package ea

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicSpeciesMembership(t *testing.T) {
	p := &Population{}
	s := NewBasicSpecies(p)
	g1, g2, g3 := newGenome(1, 1, 1), newGenome(2, 2, 2), newGenome(3, 3, 3)

	s.AddMember(g1)
	s.AddMember(g2)
	s.AddMember(g3)
	s.AddMember(g2)
	assert.Equal(t, []Genome{g1, g2, g3, g2}, s.Members())

	assert.True(t, s.RemoveMember(g2))
	assert.Equal(t, []Genome{g1, g3, g2}, s.Members(), "first occurrence removed")

	assert.False(t, s.RemoveMember(newGenome(2, 2, 2)), "equal scores are not identity")
	assert.True(t, s.Contains(g3))
	assert.False(t, s.Contains(nil))
	assert.Same(t, p, s.Population())
}

func TestBasicSpeciesLeader(t *testing.T) {
	s := NewBasicSpecies(nil)
	g := newGenome(1, 1, 0.75)

	s.SetLeader(g)
	s.SetBestScore(g.AdjustedScore())

	assert.Same(t, g, s.Leader())
	assert.Equal(t, 0.75, s.BestScore())
}

func TestHasInvalidScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		adjusted float64
		invalid  bool
	}{
		{"finite", 1, -1, false},
		{"zero", 0, 0, false},
		{"nan score", math.NaN(), 0, true},
		{"nan adjusted", 0, math.NaN(), true},
		{"positive infinity", math.Inf(1), 0, true},
		{"negative infinity adjusted", 0, math.Inf(-1), true},
		{"max float", math.MaxFloat64, -math.MaxFloat64, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invalid, HasInvalidScore(newGenome(1, tt.score, tt.adjusted)))
		})
	}
}

func TestBasicGenomeFactory(t *testing.T) {
	f := NewBasicGenomeFactory()

	g1 := f.NewGenome().(*BasicGenome)
	g2 := f.NewGenome().(*BasicGenome)
	assert.Equal(t, 1, g1.Key)
	assert.Equal(t, 2, g2.Key)

	g1.Fitness, g1.AdjustedFitness = 3, 2
	c := f.CopyGenome(g1).(*BasicGenome)
	assert.Equal(t, 3, c.Key)
	assert.Equal(t, 3.0, c.Score())
	assert.Equal(t, 2.0, c.AdjustedScore())
	assert.NotSame(t, g1, c)

	var zero BasicGenomeFactory
	assert.Equal(t, 1, zero.NewGenome().(*BasicGenome).Key)
}
