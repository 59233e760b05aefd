package bavc

import (
	"fmt"
	"sort"

	ggm "GGM-Octopus/GGM"
)

// Open computes the octopus proof for tree under challenge set A: the
// leaves indexed by A stay hidden, everything else becomes reconstructable
// from the proof. Duplicates in A collapse and its order is irrelevant.
//
// Per layer, the opener forms the unordered sibling pairs touched by the
// current target set and reveals exactly the pair members that are neither
// targets themselves nor pruned away; the deduplicated pair parents become
// the next target. Two challenged siblings share one parent entry, which is
// what shrinks the proof versus independent authentication paths.
func Open(tree *ggm.Tree, A []int) (*Proof, error) {
	H := tree.Height()
	leaves := tree.LayerSize(H)
	target := dedupSorted(A)
	for _, i := range target {
		if i < 0 || i >= leaves {
			return nil, fmt.Errorf("bavc: invalid challenge index %d (leaf count %d)", i, leaves)
		}
	}
	if len(target) == 0 {
		// Nothing is hidden: reveal the root and let the verifier expand it.
		root := tree.At(0, 0)
		return &Proof{Steps: []OpeningStep{{Layer: 0, Indices: []int{0}, Values: []ggm.Node{root}}}}, nil
	}

	steps := make([]OpeningStep, 0, H)
	for L := H; L >= 1; L-- {
		// target is sorted, so pair lower bounds come out sorted too and
		// duplicates are adjacent.
		pairLo := make([]int, 0, len(target))
		inTarget := make(map[int]struct{}, len(target))
		for _, i := range target {
			inTarget[i] = struct{}{}
			lo := i &^ 1
			if len(pairLo) == 0 || pairLo[len(pairLo)-1] != lo {
				pairLo = append(pairLo, lo)
			}
		}
		size := tree.LayerSize(L)
		var indices []int
		var values []ggm.Node
		for _, lo := range pairLo {
			for _, j := range [2]int{lo, lo + 1} {
				if _, hit := inTarget[j]; hit || j >= size {
					continue
				}
				indices = append(indices, j)
				values = append(values, tree.At(L, j))
			}
		}
		steps = append(steps, OpeningStep{Layer: L, Indices: indices, Values: values})

		// Pair lower bounds are distinct even numbers, so the halved
		// parents stay sorted and unique.
		next := make([]int, len(pairLo))
		for k, lo := range pairLo {
			next[k] = lo / 2
		}
		target = next
	}
	return &Proof{Steps: steps}, nil
}

// dedupSorted returns a sorted copy of a with duplicates removed.
func dedupSorted(a []int) []int {
	out := append([]int(nil), a...)
	sort.Ints(out)
	n := 0
	for _, v := range out {
		if n == 0 || out[n-1] != v {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
