package ggm

// Tree is a fully expanded pruned GGM tree. Layer 0 holds the root seed;
// layer d+1 is the PRG expansion of layer d, minus its last node when d+1 is
// an abandon layer. A Tree is immutable after BuildTree returns.
type Tree struct {
	params *Params
	layers [][]Node
}

// BuildTree expands seed into all H+1 layers of the pruned tree for params.
// Children are concatenated in (left, right) order per parent; on abandon
// layers the last expanded node is dropped before the layer is stored. The
// result is a pure function of (seed, params, prg).
func BuildTree(seed Node, params *Params, prg PRG) *Tree {
	layers := make([][]Node, params.height+1)
	layers[0] = []Node{seed}
	for d := 0; d < params.height; d++ {
		next := make([]Node, 0, 2*len(layers[d]))
		for _, node := range layers[d] {
			l, r := prg.Split(node)
			next = append(next, l, r)
		}
		if params.isAbandon(d + 1) {
			next = next[:len(next)-1]
		}
		layers[d+1] = next
	}
	return &Tree{params: params, layers: layers}
}

// Params returns the shape parameters the tree was built with.
func (t *Tree) Params() *Params {
	return t.params
}

// Height returns the tree height H.
func (t *Tree) Height() int {
	return t.params.height
}

// LayerSize returns the node count at depth d.
func (t *Tree) LayerSize(d int) int {
	return len(t.layers[d])
}

// At returns the node value at (layer, index).
func (t *Tree) At(layer, index int) Node {
	return t.layers[layer][index]
}

// Leaves returns the leaf layer. The slice is shared with the tree and must
// not be modified.
func (t *Tree) Leaves() []Node {
	return t.layers[t.params.height]
}

// ExpandToLeaves re-expands a single node at (layer, index) down to the leaf
// layer under the same truncation rule as BuildTree. It returns the first
// global leaf index covered by the subtree and the leaf values in index
// order. The node dropped on an abandon layer sits one past the stored
// layer, at global index params.LayerSize(d+1); the subtree range touches it
// only when the subtree ends the layer.
func ExpandToLeaves(prg PRG, node Node, layer, index int, params *Params) (int, []Node) {
	nodes := []Node{node}
	lo, hi := index, index
	for d := layer; d < params.height; d++ {
		next := make([]Node, 0, 2*len(nodes))
		for _, x := range nodes {
			l, r := prg.Split(x)
			next = append(next, l, r)
		}
		lo, hi = 2*lo, 2*hi+1
		if dropped := params.sizes[d+1]; lo <= dropped && dropped <= hi {
			next = next[:len(next)-1]
			hi--
		}
		nodes = next
	}
	return lo, nodes
}
