// Package paco provides a Go implementation of population-based ant colony
// optimization (PACO) for neural networks.
//
// Instead of gradient descent, PACO keeps a bounded archive of evaluated
// networks ("ants"). The values every archived ant carries for a connection
// or a bias form that parameter's pheromone. New candidates are sampled
// from the archive: a template ant is picked by rank, its topology may be
// grown, shrunk or split, and every weight and bias is redrawn around the
// values the population already knows.
//
// The networks themselves live in the nn sub-package, which supports
// structural edits on live networks in a matrix-backed and a graph-backed
// representation.
//
// Basic usage:
//
//	// Load configuration
//	config, err := paco.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	base, err := config.BaseNetwork()
//	if err != nil {
//		log.Fatalf("Error building base network: %v", err)
//	}
//	archive, err := paco.NewArchive(base, config)
//	if err != nil {
//		log.Fatalf("Error creating archive: %v", err)
//	}
//	sampler, err := paco.NewSampler(base, archive, config, rand.New(rand.NewSource(config.Sampler.Seed)))
//	if err != nil {
//		log.Fatalf("Error creating sampler: %v", err)
//	}
//
//	for i := 0; i < 1000; i++ {
//		ant, err := sampler.CreateCandidate()
//		if err != nil {
//			log.Fatalf("Error sampling: %v", err)
//		}
//		ant.SetFitness(evaluate(ant.Network))
//		if err := archive.Add(ant); err != nil {
//			log.Fatalf("Error archiving: %v", err)
//		}
//	}
package paco
