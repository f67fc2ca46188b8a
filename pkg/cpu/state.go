// Package cpu implements the 8086 simulator: register/flag state, a flat
// 64 KiB memory, and the instruction executor.
package cpu

import "github.com/oisee/x86decoder/pkg/inst"

// MemSize is the simulator's flat, non-segmented address space.
const MemSize = 65536

// Flags holds the four one-bit condition flags this scope maintains. The
// overflow flag is deliberately absent (spec §4.5, §9): jumps that would
// need it are a fatal "not implemented" in Exec.
type Flags struct {
	Parity bool
	Zero   bool
	Sign   bool
	Carry  bool
}

// Letters renders the asserted flags as the concatenated letters the driver
// prints, in P Z S C order (spec §6).
func (f Flags) Letters() string {
	s := ""
	if f.Parity {
		s += "P"
	}
	if f.Zero {
		s += "Z"
	}
	if f.Sign {
		s += "S"
	}
	if f.Carry {
		s += "C"
	}
	return s
}

// State is the simulator's machine state: the 9-register file, the flags,
// and a fixed 64 KiB memory array.
type State struct {
	Regs  [inst.RegCount]uint16
	Flags Flags
	Mem   [MemSize]byte
}

// NewState returns a zeroed CPU state.
func NewState() *State {
	return &State{}
}

// Reg reads a register by semantic identity.
func (s *State) Reg(id inst.RegID) uint16 {
	return s.Regs[id]
}

// SetReg writes a register by semantic identity.
func (s *State) SetReg(id inst.RegID, v uint16) {
	s.Regs[id] = v
}

// BaseValue resolves the register-sum portion of an effective address,
// wrapping modulo 2^16 (spec §4.5).
func (s *State) BaseValue(b inst.Base) uint16 {
	switch b {
	case inst.BaseBxSi:
		return s.Reg(inst.RegB) + s.Reg(inst.RegSI)
	case inst.BaseBxDi:
		return s.Reg(inst.RegB) + s.Reg(inst.RegDI)
	case inst.BaseBpSi:
		return s.Reg(inst.RegBP) + s.Reg(inst.RegSI)
	case inst.BaseBpDi:
		return s.Reg(inst.RegBP) + s.Reg(inst.RegDI)
	case inst.BaseSi:
		return s.Reg(inst.RegSI)
	case inst.BaseDi:
		return s.Reg(inst.RegDI)
	case inst.BaseBx:
		return s.Reg(inst.RegB)
	case inst.BaseBp:
		return s.Reg(inst.RegBP)
	case inst.BaseDirect:
		return 0
	default:
		panic("cpu: unknown EAC base")
	}
}

// EffectiveAddress resolves a full memory operand to a linear offset.
func (s *State) EffectiveAddress(eac inst.EAC) uint16 {
	if eac.Base == inst.BaseDirect {
		return eac.Direct
	}
	addr := s.BaseValue(eac.Base)
	if eac.HasDisp {
		addr += uint16(eac.Disp)
	}
	return addr
}

// ReadMem16 reads a little-endian word from memory.
func (s *State) ReadMem16(addr uint16) uint16 {
	lo := s.Mem[addr]
	hi := s.Mem[uint16(addr+1)]
	return uint16(lo) | uint16(hi)<<8
}

// WriteMem16 writes a little-endian word to memory.
func (s *State) WriteMem16(addr uint16, v uint16) {
	s.Mem[addr] = byte(v)
	s.Mem[uint16(addr+1)] = byte(v >> 8)
}
