package ggm

import (
	"fmt"
	"math/bits"
)

// Params describes the shape of a pruned GGM tree with exactly M*N leaves.
// The shape is fully determined by the two factors: the height, the set of
// abandon layers (layers that drop their last node) and every layer size are
// computed once and cached here.
type Params struct {
	M, N    int
	height  int
	abandon map[int]struct{}
	sizes   []int
}

// Height returns the tree height H = bitlen(M-1) + bitlen(N-1), the smallest
// height whose complete tree covers M*N leaves when M and N are rounded up
// to powers of two independently.
func Height(M, N int) (int, error) {
	if M < 1 || N < 1 {
		return 0, fmt.Errorf("ggm: invalid parameters M=%d N=%d (need M,N >= 1)", M, N)
	}
	return bits.Len(uint(M-1)) + bits.Len(uint(N-1)), nil
}

// AbandonLayers returns the 1-based layers at which the last node must be
// dropped so the leaf layer ends up with exactly M*N nodes: one layer H-i per
// set bit i of 2^H - M*N, taken from the most significant bit down.
func AbandonLayers(M, N int) ([]int, error) {
	H, err := Height(M, N)
	if err != nil {
		return nil, err
	}
	diff := (uint64(1) << uint(H)) - uint64(M)*uint64(N)
	var out []int
	for diff != 0 {
		i := bits.Len64(diff) - 1
		out = append(out, H-i)
		diff ^= uint64(1) << uint(i)
	}
	return out, nil
}

// LayerSizes returns the node count of every layer 0..H.
func LayerSizes(M, N int) ([]int, error) {
	p, err := NewParams(M, N)
	if err != nil {
		return nil, err
	}
	return p.LayerSizes(), nil
}

// NewParams validates M,N and precomputes the tree shape.
func NewParams(M, N int) (*Params, error) {
	H, err := Height(M, N)
	if err != nil {
		return nil, err
	}
	layers, err := AbandonLayers(M, N)
	if err != nil {
		return nil, err
	}
	abandon := make(map[int]struct{}, len(layers))
	for _, l := range layers {
		abandon[l] = struct{}{}
	}
	sizes := make([]int, H+1)
	sizes[0] = 1
	for d := 0; d < H; d++ {
		s := 2 * sizes[d]
		if _, ok := abandon[d+1]; ok {
			s--
		}
		if s <= 0 {
			return nil, fmt.Errorf("ggm: layer %d would hold %d nodes (M=%d N=%d)", d+1, s, M, N)
		}
		sizes[d+1] = s
	}
	return &Params{M: M, N: N, height: H, abandon: abandon, sizes: sizes}, nil
}

// Height returns the cached tree height.
func (p *Params) Height() int {
	return p.height
}

// Leaves returns the leaf count M*N.
func (p *Params) Leaves() int {
	return p.sizes[p.height]
}

// LayerSize returns the node count at depth d.
func (p *Params) LayerSize(d int) int {
	return p.sizes[d]
}

// LayerSizes returns a copy of the per-layer node counts, index 0..H.
func (p *Params) LayerSizes() []int {
	return append([]int(nil), p.sizes...)
}

func (p *Params) isAbandon(layer int) bool {
	_, ok := p.abandon[layer]
	return ok
}
