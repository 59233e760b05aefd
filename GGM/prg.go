package ggm

import (
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// NodeBytes is the size of every node value in the tree.
const NodeBytes = 16

// Node is the unit cryptographic value held at one tree position.
type Node [NodeBytes]byte

// PRG maps a node value to its two children. Implementations must be
// deterministic and behave as an independent pseudorandom function per
// distinct input (the standard GGM requirement); any secure XOF qualifies.
type PRG interface {
	Split(node Node) (left, right Node)
}

// ShakePRG stretches a node through SHAKE-256 to 2*NodeBytes bytes; the
// first half is the left child, the second the right. This is the reference
// PRG and the wire-compatible default.
type ShakePRG struct{}

func (ShakePRG) Split(node Node) (left, right Node) {
	h := sha3.NewShake256()
	_, _ = h.Write(node[:])
	var stream [2 * NodeBytes]byte
	_, _ = h.Read(stream[:])
	copy(left[:], stream[:NodeBytes])
	copy(right[:], stream[NodeBytes:])
	return
}

// Blake3PRG is a drop-in alternative built on the BLAKE3 XOF. Prover and
// verifier of a deployment must agree on a single PRG; trees expanded with
// one PRG do not verify under another.
type Blake3PRG struct{}

func (Blake3PRG) Split(node Node) (left, right Node) {
	h := blake3.New()
	_, _ = h.Write(node[:])
	var stream [2 * NodeBytes]byte
	_, _ = h.Digest().Read(stream[:])
	copy(left[:], stream[:NodeBytes])
	copy(right[:], stream[NodeBytes:])
	return
}
