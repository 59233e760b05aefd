package ggm

import (
	"math/bits"
	"testing"
)

func TestHeightKnownValues(t *testing.T) {
	cases := []struct{ M, N, want int }{
		{1, 1, 0},
		{1, 2, 1},
		{2, 2, 2},
		{3, 4, 4},
		{1, 5, 3},
		{8, 8, 6},
		{12, 7, 7},
	}
	for _, c := range cases {
		got, err := Height(c.M, c.N)
		if err != nil {
			t.Fatalf("Height(%d,%d): %v", c.M, c.N, err)
		}
		if got != c.want {
			t.Fatalf("Height(%d,%d)=%d want %d", c.M, c.N, got, c.want)
		}
	}
}

func TestInvalidParamsRejected(t *testing.T) {
	for _, c := range [][2]int{{0, 1}, {1, 0}, {-3, 4}, {0, 0}} {
		if _, err := Height(c[0], c[1]); err == nil {
			t.Fatalf("Height(%d,%d) accepted", c[0], c[1])
		}
		if _, err := AbandonLayers(c[0], c[1]); err == nil {
			t.Fatalf("AbandonLayers(%d,%d) accepted", c[0], c[1])
		}
		if _, err := NewParams(c[0], c[1]); err == nil {
			t.Fatalf("NewParams(%d,%d) accepted", c[0], c[1])
		}
	}
}

func TestAbandonLayerCount(t *testing.T) {
	for M := 1; M <= 16; M++ {
		for N := 1; N <= 16; N++ {
			H, err := Height(M, N)
			if err != nil {
				t.Fatal(err)
			}
			layers, err := AbandonLayers(M, N)
			if err != nil {
				t.Fatal(err)
			}
			diff := (uint64(1) << uint(H)) - uint64(M*N)
			if len(layers) != bits.OnesCount64(diff) {
				t.Fatalf("M=%d N=%d: %d abandon layers, want popcount(%d)=%d",
					M, N, len(layers), diff, bits.OnesCount64(diff))
			}
			seen := make(map[int]bool)
			for _, l := range layers {
				if l < 1 || l > H {
					t.Fatalf("M=%d N=%d: abandon layer %d outside 1..%d", M, N, l, H)
				}
				if seen[l] {
					t.Fatalf("M=%d N=%d: abandon layer %d repeated", M, N, l)
				}
				seen[l] = true
			}
		}
	}
}

func TestLayerSizesInvariant(t *testing.T) {
	for M := 1; M <= 16; M++ {
		for N := 1; N <= 16; N++ {
			sizes, err := LayerSizes(M, N)
			if err != nil {
				t.Fatal(err)
			}
			if sizes[0] != 1 {
				t.Fatalf("M=%d N=%d: size(0)=%d", M, N, sizes[0])
			}
			if last := sizes[len(sizes)-1]; last != M*N {
				t.Fatalf("M=%d N=%d: leaf layer has %d nodes, want %d", M, N, last, M*N)
			}
			for d := 1; d < len(sizes); d++ {
				if sizes[d] != 2*sizes[d-1] && sizes[d] != 2*sizes[d-1]-1 {
					t.Fatalf("M=%d N=%d: size(%d)=%d after size=%d", M, N, d, sizes[d], sizes[d-1])
				}
			}
		}
	}
}

func TestLayerSizes3x4(t *testing.T) {
	// 2^4 = 16, diff = 4 = 0b100, one abandon layer at H-2 = 2.
	layers, err := AbandonLayers(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(layers) != 1 || layers[0] != 2 {
		t.Fatalf("AbandonLayers(3,4)=%v want [2]", layers)
	}
	sizes, err := LayerSizes(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3, 6, 12}
	if len(sizes) != len(want) {
		t.Fatalf("LayerSizes(3,4)=%v want %v", sizes, want)
	}
	for d := range want {
		if sizes[d] != want[d] {
			t.Fatalf("LayerSizes(3,4)=%v want %v", sizes, want)
		}
	}
}

func TestPowerOfTwoHasNoAbandonLayers(t *testing.T) {
	for _, c := range [][2]int{{1, 1}, {2, 2}, {4, 8}, {16, 16}} {
		layers, err := AbandonLayers(c[0], c[1])
		if err != nil {
			t.Fatal(err)
		}
		if len(layers) != 0 {
			t.Fatalf("AbandonLayers(%d,%d)=%v want empty", c[0], c[1], layers)
		}
	}
}
