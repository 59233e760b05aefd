package bavc

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	ggm "GGM-Octopus/GGM"
)

// ErrMalformedProof marks structural defects: wrong step count or order,
// mismatched index/value lengths, non-increasing indices.
var ErrMalformedProof = errors.New("bavc: malformed proof")

// ErrCorruptProof marks semantic defects that signal a corrupted or
// adversarial proof: out-of-range indices or conflicting leaf writes.
var ErrCorruptProof = errors.New("bavc: corrupt proof")

// Recovered holds the leaves reconstructed by Verify. Positions belonging to
// the original challenge set stay unset.
type Recovered struct {
	leaves []ggm.Node
	set    *bitset.BitSet
}

// Len returns the leaf count M*N.
func (r *Recovered) Len() int {
	return len(r.leaves)
}

// Leaf returns the value at leaf index i and whether it was recovered.
func (r *Recovered) Leaf(i int) (ggm.Node, bool) {
	if i < 0 || i >= len(r.leaves) || !r.set.Test(uint(i)) {
		return ggm.Node{}, false
	}
	return r.leaves[i], true
}

// Count returns the number of recovered leaves.
func (r *Recovered) Count() int {
	return int(r.set.Count())
}

// Missing returns the leaf indices left unset, i.e. the challenge set the
// proof was opened under.
func (r *Recovered) Missing() []int {
	var out []int
	for i := range r.leaves {
		if !r.set.Test(uint(i)) {
			out = append(out, i)
		}
	}
	return out
}

// Verify reconstructs all non-challenged leaves from proof alone. Every
// revealed node is re-expanded down to the leaf layer under the same
// truncation rule as the builder, and the resulting contiguous leaf range is
// written into the recovered array. prg must be the PRG the tree was built
// with. Verification is all-or-nothing: any malformed step, out-of-range
// derived index or conflicting rewrite aborts with an error.
func Verify(proof *Proof, M, N int, prg ggm.PRG) (*Recovered, error) {
	params, err := ggm.NewParams(M, N)
	if err != nil {
		return nil, err
	}
	if proof == nil {
		return nil, fmt.Errorf("%w: nil proof", ErrMalformedProof)
	}
	if err := checkStepLayout(proof, params.Height()); err != nil {
		return nil, err
	}

	total := params.Leaves()
	rec := &Recovered{
		leaves: make([]ggm.Node, total),
		set:    bitset.New(uint(total)),
	}
	for _, step := range proof.Steps {
		if len(step.Indices) != len(step.Values) {
			return nil, fmt.Errorf("%w: layer %d carries %d indices but %d values",
				ErrMalformedProof, step.Layer, len(step.Indices), len(step.Values))
		}
		size := params.LayerSize(step.Layer)
		for t, i := range step.Indices {
			if t > 0 && i <= step.Indices[t-1] {
				return nil, fmt.Errorf("%w: indices not strictly increasing at layer %d", ErrMalformedProof, step.Layer)
			}
			if i < 0 || i >= size {
				return nil, fmt.Errorf("%w: node index %d out of range at layer %d (size %d)",
					ErrCorruptProof, i, step.Layer, size)
			}
			base, leaves := ggm.ExpandToLeaves(prg, step.Values[t], step.Layer, i, params)
			for off, leaf := range leaves {
				gi := base + off
				if gi < 0 || gi >= total {
					return nil, fmt.Errorf("%w: derived leaf index %d out of range 0..%d",
						ErrCorruptProof, gi, total-1)
				}
				if rec.set.Test(uint(gi)) {
					// An idempotent rewrite is harmless; a differing one is
					// a proof-integrity failure.
					if rec.leaves[gi] != leaf {
						return nil, fmt.Errorf("%w: conflicting values for leaf %d", ErrCorruptProof, gi)
					}
					continue
				}
				rec.leaves[gi] = leaf
				rec.set.Set(uint(gi))
			}
		}
	}
	return rec, nil
}

// checkStepLayout enforces the canonical step sequence: exactly H steps
// ordered from layer H down to 1, or the single layer-0 root step produced
// for an empty challenge set.
func checkStepLayout(proof *Proof, H int) error {
	if len(proof.Steps) == 1 && proof.Steps[0].Layer == 0 {
		return nil
	}
	if len(proof.Steps) != H {
		return fmt.Errorf("%w: got %d steps, want %d", ErrMalformedProof, len(proof.Steps), H)
	}
	for k, step := range proof.Steps {
		if step.Layer != H-k {
			return fmt.Errorf("%w: step %d at layer %d, want layer %d", ErrMalformedProof, k, step.Layer, H-k)
		}
	}
	return nil
}
