// Package bavc implements the octopus opening for a pruned GGM tree: a
// batched all-but-challenge vector-commitment proof that reveals the minimal
// set of interior nodes from which every non-challenged leaf can be
// re-expanded, while no revealed node has a challenged descendant.
package bavc

import (
	ggm "GGM-Octopus/GGM"
)

// OpeningStep carries the node values revealed at one tree layer. Indices
// are strictly increasing and parallel to Values.
type OpeningStep struct {
	Layer   int
	Indices []int
	Values  []ggm.Node
}

// Proof is an octopus opening: one step per layer ordered from the leaf
// layer H down to layer 1. A proof for an empty challenge set is the single
// layer-0 step revealing the root seed. Step order is part of the format;
// the verifier's size bookkeeping depends on it.
type Proof struct {
	Steps []OpeningStep
}

// NumRevealed returns the total number of node values carried by the proof.
func (p *Proof) NumRevealed() int {
	n := 0
	for _, s := range p.Steps {
		n += len(s.Values)
	}
	return n
}

// Size returns the canonical serialized size of the proof in bytes.
func (p *Proof) Size() int {
	n := 4
	for _, s := range p.Steps {
		n += 8 + (4+ggm.NodeBytes)*len(s.Indices)
	}
	return n
}
