package bavc

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	ggm "GGM-Octopus/GGM"
)

func TestProofWireRoundTrip(t *testing.T) {
	_, proof := openTestProof(t, 3, 4, []int{0, 5, 11}, 30)
	wire, err := proof.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(wire) != proof.Size() {
		t.Fatalf("encoded %d bytes, Size() says %d", len(wire), proof.Size())
	}
	var back Proof
	if err := back.UnmarshalBinary(wire); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(normalize(proof), normalize(&back)) {
		t.Fatal("decoded proof differs from original")
	}
	rec, err := Verify(&back, 3, 4, ggm.ShakePRG{})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Count() != 9 {
		t.Fatalf("recovered %d leaves from decoded proof, want 9", rec.Count())
	}
}

// normalize maps nil and empty index slices to a common form; the wire
// format cannot distinguish them.
func normalize(p *Proof) []OpeningStep {
	out := make([]OpeningStep, len(p.Steps))
	for k, s := range p.Steps {
		out[k] = s
		if len(s.Indices) == 0 {
			out[k].Indices = nil
			out[k].Values = nil
		}
	}
	return out
}

func TestMarshalRejectsLengthMismatch(t *testing.T) {
	_, proof := openTestProof(t, 2, 2, []int{0}, 31)
	proof.Steps[0].Values = nil
	if _, err := proof.MarshalBinary(); !errors.Is(err, ErrMalformedProof) {
		t.Fatalf("err=%v want ErrMalformedProof", err)
	}
}

func TestUnmarshalRejectsTruncation(t *testing.T) {
	_, proof := openTestProof(t, 3, 4, []int{2, 9}, 32)
	wire, err := proof.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	for _, cut := range []int{1, 4, 9, len(wire) - 1} {
		var back Proof
		if err := back.UnmarshalBinary(wire[:cut]); !errors.Is(err, ErrMalformedProof) {
			t.Fatalf("cut=%d: err=%v want ErrMalformedProof", cut, err)
		}
	}
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	_, proof := openTestProof(t, 2, 2, []int{3}, 33)
	wire, err := proof.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var back Proof
	if err := back.UnmarshalBinary(append(wire, 0)); !errors.Is(err, ErrMalformedProof) {
		t.Fatalf("err=%v want ErrMalformedProof", err)
	}
}

func TestUnmarshalRejectsAbsurdStepCount(t *testing.T) {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], 1<<30)
	var back Proof
	if err := back.UnmarshalBinary(hdr[:]); !errors.Is(err, ErrMalformedProof) {
		t.Fatalf("err=%v want ErrMalformedProof", err)
	}
}
