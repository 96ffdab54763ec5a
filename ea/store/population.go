package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/baldhumanity/evopop/ea"
)

// SavePopulation encodes p as a checkpoint and saves it under run and generation.
func SavePopulation(ctx context.Context, s Store, run string, generation int, p *ea.Population) (Record, error) {
	var buf bytes.Buffer
	if err := p.WriteCheckpoint(&buf); err != nil {
		return Record{}, err
	}
	return s.SaveCheckpoint(ctx, run, generation, buf.Bytes())
}

// LoadPopulation restores the population saved under run and generation.
func LoadPopulation(ctx context.Context, s Store, run string, generation int, factory ea.GenomeFactory) (*ea.Population, bool, error) {
	payload, ok, err := s.LoadCheckpoint(ctx, run, generation)
	if err != nil || !ok {
		return nil, ok, err
	}
	p, err := ea.ReadCheckpoint(bytes.NewReader(payload), factory)
	if err != nil {
		return nil, false, fmt.Errorf("decode checkpoint %s/%d: %w", run, generation, err)
	}
	return p, true, nil
}

// LoadLatestPopulation restores the highest generation saved for run.
func LoadLatestPopulation(ctx context.Context, s Store, run string, factory ea.GenomeFactory) (*ea.Population, Record, bool, error) {
	record, payload, ok, err := s.LatestCheckpoint(ctx, run)
	if err != nil || !ok {
		return nil, Record{}, ok, err
	}
	p, err := ea.ReadCheckpoint(bytes.NewReader(payload), factory)
	if err != nil {
		return nil, Record{}, false, fmt.Errorf("decode checkpoint %s/%d: %w", run, record.Generation, err)
	}
	return p, record, true, nil
}
