// Package ea provides the population and species containers used inside an
// evolutionary training loop (genetic algorithms, neuroevolution).
//
// A Population owns an ordered list of Species, each holding member Genomes
// and a leader. The container does not compute fitness, assign species or
// reproduce; the trainer does that and uses the population for bookkeeping
// between generations: creating species, flattening the population, finding
// the species that holds the best genome and purging genomes whose fitness
// became NaN or infinite.
//
// Basic usage:
//
//	factory := ea.NewBasicGenomeFactory()
//	pop := ea.NewPopulation(100, factory)
//
//	s := pop.CreateSpecies()
//	for i := 0; i < pop.PopulationSize; i++ {
//		s.AddMember(factory.NewGenome())
//	}
//
//	// Evaluate fitness externally, then:
//	pop.BestGenome = best
//	pop.PurgeInvalidGenomes()
//	if sp := pop.DetermineBestSpecies(); sp != nil {
//		fmt.Println("best species leader:", sp.Leader())
//	}
//
// Checkpoints can be written to files (Population.SaveCheckpoint) or to a
// memory or SQLite store from the ea/store package.
package ea
