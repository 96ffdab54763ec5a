package ea

import (
	"bytes"
	"encoding/gob"
	"errors"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	factory := NewBasicGenomeFactory()
	p := NewPopulation(12, factory)
	p.Name = "round-trip"

	g1, g2, g3 := newGenome(1, 1, 0.5), newGenome(2, math.NaN(), 2), newGenome(3, 3, 3)
	addSpecies(p, g1, g1, g2)
	addSpecies(p, g3, g3, g1)
	p.CreateSpecies()
	p.BestGenome = g3

	var buf bytes.Buffer
	require.NoError(t, p.WriteCheckpoint(&buf))

	loaded, err := ReadCheckpoint(&buf, factory)
	require.NoError(t, err)

	assert.Equal(t, "round-trip", loaded.Name)
	assert.Equal(t, 12, loaded.PopulationSize)
	assert.Same(t, factory, loaded.GenomeFactory)

	species := loaded.Species()
	require.Len(t, species, 3)
	for _, s := range species {
		assert.Same(t, loaded, s.Population())
	}
	assert.Empty(t, species[2].Members())
	assert.Nil(t, species[2].Leader())

	flat := loaded.Flatten()
	require.Len(t, flat, 3)
	assert.Equal(t, 1, flat[0].(*BasicGenome).Key)
	assert.True(t, math.IsNaN(flat[1].Score()))
	assert.Equal(t, 3, flat[2].(*BasicGenome).Key)

	// The genome shared by both species is restored as one value.
	assert.Same(t, species[0].Members()[0], species[1].Members()[1])
	assert.Same(t, species[0].Members()[0], species[0].Leader())
	assert.Equal(t, 0.5, species[0].BestScore())
	assert.Same(t, species[1], loaded.DetermineBestSpecies())
}

func TestCheckpointKeepsNonMemberReferences(t *testing.T) {
	p := &Population{}
	outsider := newGenome(7, 7, 7)
	member := newGenome(1, 1, 1)
	addSpecies(p, outsider, member)
	p.BestGenome = newGenome(9, 9, 9)

	loaded, err := Restore(p.Snapshot(), nil)
	require.NoError(t, err)

	s := loaded.Species()[0]
	assert.Equal(t, 7, s.Leader().(*BasicGenome).Key)
	assert.False(t, s.Contains(s.Leader()))
	assert.Equal(t, 9, loaded.BestGenome.(*BasicGenome).Key)
	assert.Nil(t, loaded.DetermineBestSpecies())
	assert.Equal(t, 1, loaded.Count())
}

func TestSnapshotIndexesDistinctGenomes(t *testing.T) {
	p := &Population{}
	g1, g2 := newGenome(1, 1, 1), newGenome(2, 2, 2)
	addSpecies(p, g2, g1, g2)
	addSpecies(p, nil, g2)

	snap := p.Snapshot()

	assert.Equal(t, []Genome{g1, g2}, snap.Genomes)
	assert.Equal(t, []SpeciesRecord{
		{Members: []int{0, 1}, Leader: 1, BestScore: 2},
		{Members: []int{1}, Leader: -1},
	}, snap.Species)
	assert.Equal(t, -1, snap.Best)
}

func TestRestoreErrors(t *testing.T) {
	_, err := Restore(&Snapshot{Version: CheckpointVersion + 1}, nil)
	assert.True(t, errors.Is(err, ErrCheckpointVersion))

	_, err = Restore(&Snapshot{
		Version: CheckpointVersion,
		Species: []SpeciesRecord{{Members: []int{3}}},
	}, nil)
	assert.ErrorContains(t, err, "out of range")

	_, err = Restore(&Snapshot{Version: CheckpointVersion, Best: 0}, nil)
	assert.ErrorContains(t, err, "best genome")
}

func TestReadCheckpointRejectsGarbage(t *testing.T) {
	_, err := ReadCheckpoint(bytes.NewReader([]byte("not a checkpoint")), nil)
	assert.ErrorContains(t, err, "gzip reader")
}

type unregisteredGenome struct{ Value float64 }

func (g *unregisteredGenome) Score() float64         { return g.Value }
func (g *unregisteredGenome) AdjustedScore() float64 { return g.Value }

type taggedGenome struct {
	Tag   string
	Value float64
}

func (g *taggedGenome) Score() float64         { return g.Value }
func (g *taggedGenome) AdjustedScore() float64 { return g.Value / 2 }

func TestWriteCheckpointNeedsRegisteredGenomes(t *testing.T) {
	p := &Population{}
	addSpecies(p, nil, &unregisteredGenome{Value: 1})

	var buf bytes.Buffer
	assert.ErrorContains(t, p.WriteCheckpoint(&buf), "failed to encode population data")
}

func TestCheckpointCustomGenomeType(t *testing.T) {
	gob.Register(&taggedGenome{})

	p := &Population{}
	g := &taggedGenome{Tag: "alpha", Value: 4}
	addSpecies(p, g, g)

	var buf bytes.Buffer
	require.NoError(t, p.WriteCheckpoint(&buf))
	loaded, err := ReadCheckpoint(&buf, nil)
	require.NoError(t, err)

	restored, ok := loaded.Flatten()[0].(*taggedGenome)
	require.True(t, ok)
	assert.Equal(t, "alpha", restored.Tag)
	assert.Equal(t, 2.0, loaded.Species()[0].BestScore())
}

func TestSaveAndLoadCheckpointFile(t *testing.T) {
	var logs bytes.Buffer
	p := NewPopulation(3, nil)
	p.Name = "file"
	p.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	g := newGenome(1, 2, 2)
	addSpecies(p, g, g)

	path := filepath.Join(t.TempDir(), "pop.ckpt.gz")
	require.NoError(t, p.SaveCheckpoint(path))
	assert.Contains(t, logs.String(), "checkpoint saved")

	loaded, err := LoadCheckpoint(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "file", loaded.Name)
	assert.Equal(t, 1, loaded.Count())

	_, err = LoadCheckpoint(filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorContains(t, err, "failed to open checkpoint file")
}
