package vm

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// ProgramDigest returns a canonical SHA3-256 digest over a program's
// instruction stream, float pool and symbol pool, suitable as a stable attestation
// identity for a loaded program independent of how it was assembled.
func ProgramDigest(p *tisc.Program) [32]byte {
	h := sha3.New256()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	for _, insn := range p.Insns {
		h.Write([]byte{byte(insn.Opcode), byte(insn.LiteralKind)})
		writeInt(int64(insn.A))
		writeInt(int64(insn.B))
		writeInt(int64(insn.C))
	}
	for _, f := range p.Floats {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(f*1e9)))
		h.Write(buf[:])
	}
	for _, s := range p.Symbols {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}
