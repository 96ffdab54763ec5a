package ea

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// CheckpointVersion is the version written into every Snapshot.
const CheckpointVersion = 1

// ErrCheckpointVersion is returned when a checkpoint was written by an
// incompatible codec version.
var ErrCheckpointVersion = errors.New("checkpoint version mismatch")

func init() {
	// Genomes travel as interface values; gob needs their concrete types.
	// Other Genome implementations must be registered by their package.
	gob.Register(&BasicGenome{})
}

// SpeciesRecord is the saved form of one species. Genomes are referenced by
// their index in Snapshot.Genomes; -1 stands for an unset genome.
type SpeciesRecord struct {
	Members   []int
	Leader    int
	BestScore float64
}

// Snapshot is the saved form of a Population. Each distinct genome is stored
// once, so genomes shared between species, leaders and BestGenome keep their
// identity when restored. The GenomeFactory, SpeciesFactory and Logger are
// not saved.
type Snapshot struct {
	Version        int
	Name           string
	PopulationSize int
	Genomes        []Genome
	Species        []SpeciesRecord
	Best           int
}

// Snapshot captures the current state of the population.
func (p *Population) Snapshot() *Snapshot {
	snap := &Snapshot{
		Version:        CheckpointVersion,
		Name:           p.Name,
		PopulationSize: p.PopulationSize,
		Species:        make([]SpeciesRecord, 0, len(p.species)),
	}

	index := make(map[Genome]int)
	indexOf := func(g Genome) int {
		if g == nil {
			return -1
		}
		if i, ok := index[g]; ok {
			return i
		}
		i := len(snap.Genomes)
		index[g] = i
		snap.Genomes = append(snap.Genomes, g)
		return i
	}

	for _, s := range p.species {
		members := s.Members()
		rec := SpeciesRecord{
			Members:   make([]int, len(members)),
			BestScore: s.BestScore(),
		}
		for i, g := range members {
			rec.Members[i] = indexOf(g)
		}
		rec.Leader = indexOf(s.Leader())
		snap.Species = append(snap.Species, rec)
	}
	snap.Best = indexOf(p.BestGenome)
	return snap
}

// Restore rebuilds a population from a snapshot. Species are created through
// CreateSpecies, so they are BasicSpecies owned by the new population.
func Restore(snap *Snapshot, factory GenomeFactory) (*Population, error) {
	if snap.Version != CheckpointVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCheckpointVersion, snap.Version, CheckpointVersion)
	}

	lookup := func(i int) (Genome, error) {
		if i == -1 {
			return nil, nil
		}
		if i < -1 || i >= len(snap.Genomes) {
			return nil, fmt.Errorf("genome index %d out of range [0, %d)", i, len(snap.Genomes))
		}
		return snap.Genomes[i], nil
	}

	p := NewPopulation(snap.PopulationSize, factory)
	p.Name = snap.Name
	for sn, rec := range snap.Species {
		s := p.CreateSpecies()
		for _, i := range rec.Members {
			g, err := lookup(i)
			if err != nil {
				return nil, fmt.Errorf("species %d member: %w", sn, err)
			}
			s.AddMember(g)
		}
		leader, err := lookup(rec.Leader)
		if err != nil {
			return nil, fmt.Errorf("species %d leader: %w", sn, err)
		}
		s.SetLeader(leader)
		s.SetBestScore(rec.BestScore)
	}

	best, err := lookup(snap.Best)
	if err != nil {
		return nil, fmt.Errorf("best genome: %w", err)
	}
	p.BestGenome = best
	return p, nil
}

// WriteCheckpoint writes a gzip-compressed gob snapshot of the population to w.
func (p *Population) WriteCheckpoint(w io.Writer) error {
	gzWriter := gzip.NewWriter(w)
	if err := gob.NewEncoder(gzWriter).Encode(p.Snapshot()); err != nil {
		_ = gzWriter.Close()
		return fmt.Errorf("failed to encode population data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}
	return nil
}

// ReadCheckpoint reads a checkpoint written by WriteCheckpoint.
func ReadCheckpoint(r io.Reader, factory GenomeFactory) (*Population, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	snap := &Snapshot{}
	if err := gob.NewDecoder(gzReader).Decode(snap); err != nil {
		return nil, fmt.Errorf("failed to decode population data from checkpoint: %w", err)
	}
	return Restore(snap, factory)
}

// SaveCheckpoint writes the population to a checkpoint file.
func (p *Population) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}

	cw := &countingWriter{w: file}
	if err := p.WriteCheckpoint(cw); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close checkpoint file '%s': %w", filePath, err)
	}

	p.log().Info("checkpoint saved",
		"population", p.Name,
		"path", filePath,
		"size", humanize.Bytes(uint64(cw.n)))
	return nil
}

// LoadCheckpoint loads a population from a checkpoint file. The factory is
// attached to the restored population since it is not part of the file.
func LoadCheckpoint(filePath string, factory GenomeFactory) (*Population, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	p, err := ReadCheckpoint(file, factory)
	if err != nil {
		return nil, fmt.Errorf("checkpoint '%s': %w", filePath, err)
	}
	return p, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.n += int64(n)
	return n, err
}
