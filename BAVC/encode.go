package bavc

import (
	"encoding/binary"
	"fmt"

	ggm "GGM-Octopus/GGM"
)

// MarshalBinary encodes the proof in its canonical wire layout: a uint32
// step count, then per step layer:uint32, count:uint32, indices
// uint32[count], values NodeBytes[count]. Integers are little-endian and the
// H→1 step order is preserved verbatim; reordering steps breaks the
// verifier's layer bookkeeping.
func (p *Proof) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, p.Size())
	var u32 [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(u32[:], v)
		buf = append(buf, u32[:]...)
	}
	put(uint32(len(p.Steps)))
	for _, step := range p.Steps {
		if len(step.Indices) != len(step.Values) {
			return nil, fmt.Errorf("%w: layer %d carries %d indices but %d values",
				ErrMalformedProof, step.Layer, len(step.Indices), len(step.Values))
		}
		put(uint32(step.Layer))
		put(uint32(len(step.Indices)))
		for _, i := range step.Indices {
			put(uint32(i))
		}
		for _, v := range step.Values {
			buf = append(buf, v[:]...)
		}
	}
	return buf, nil
}

// UnmarshalBinary decodes a proof from its canonical wire layout. It only
// checks framing; semantic validation happens in Verify.
func (p *Proof) UnmarshalBinary(data []byte) error {
	off := 0
	u32 := func() (uint32, error) {
		if off+4 > len(data) {
			return 0, fmt.Errorf("%w: truncated at byte %d", ErrMalformedProof, off)
		}
		v := binary.LittleEndian.Uint32(data[off:])
		off += 4
		return v, nil
	}
	nsteps, err := u32()
	if err != nil {
		return err
	}
	if int(nsteps) > (len(data)-off)/8 {
		return fmt.Errorf("%w: step count %d exceeds remaining bytes", ErrMalformedProof, nsteps)
	}
	steps := make([]OpeningStep, 0, nsteps)
	for s := uint32(0); s < nsteps; s++ {
		layer, err := u32()
		if err != nil {
			return err
		}
		count, err := u32()
		if err != nil {
			return err
		}
		need := int(count) * (4 + ggm.NodeBytes)
		if off+need > len(data) {
			return fmt.Errorf("%w: step %d claims %d entries but only %d bytes remain",
				ErrMalformedProof, s, count, len(data)-off)
		}
		step := OpeningStep{Layer: int(layer)}
		if count > 0 {
			step.Indices = make([]int, count)
			step.Values = make([]ggm.Node, count)
		}
		for t := range step.Indices {
			v, _ := u32()
			step.Indices[t] = int(v)
		}
		for t := range step.Values {
			copy(step.Values[t][:], data[off:off+ggm.NodeBytes])
			off += ggm.NodeBytes
		}
		steps = append(steps, step)
	}
	if off != len(data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformedProof, len(data)-off)
	}
	p.Steps = steps
	return nil
}
