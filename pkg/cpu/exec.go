package cpu

import (
	"fmt"

	"github.com/oisee/x86decoder/pkg/inst"
)

// Exec interprets one decoded instruction against the CPU state, returning
// the signed jump offset to add to IP (nonzero only for a taken jump). The
// driver always also adds the instruction's byte length (spec §4.5).
func Exec(s *State, i inst.Instruction) (int8, error) {
	switch i.Kind {
	case inst.Mov:
		v, err := s.read(i.Src)
		if err != nil {
			return 0, err
		}
		if err := s.write(i.Dst, v); err != nil {
			return 0, err
		}
		return 0, nil
	case inst.Add:
		return 0, s.alu(i, addOp)
	case inst.Sub:
		return 0, s.alu(i, subOp)
	case inst.Cmp:
		return 0, s.alu(i, cmpOp)
	case inst.Jump:
		return s.execJump(i)
	default:
		return 0, fmt.Errorf("cpu: unhandled instruction kind %v in Exec", i.Kind)
	}
}

type aluOp uint8

const (
	addOp aluOp = iota
	subOp
	cmpOp
)

// alu implements Add/Sub/Cmp: compute a 16-bit two's-complement result with
// wrap, update P/Z/S/C, and write back unless the op is Cmp (spec §4.5).
func (s *State) alu(i inst.Instruction, op aluOp) error {
	dstVal, err := s.read(i.Dst)
	if err != nil {
		return err
	}
	srcVal, err := s.read(i.Src)
	if err != nil {
		return err
	}

	var result uint16
	var carry bool
	switch op {
	case addOp:
		wide := uint32(dstVal) + uint32(srcVal)
		result = uint16(wide)
		carry = wide > 0xFFFF
	case subOp, cmpOp:
		result = dstVal - srcVal
		carry = srcVal > dstVal
	}

	zero, sign, parity := flagsFromResult(result)
	s.Flags = Flags{Parity: parity, Zero: zero, Sign: sign, Carry: carry}

	if op == cmpOp {
		return nil
	}
	return s.write(i.Dst, result)
}

// execJump evaluates the jump's predicate against current flags (spec §6).
// Predicates requiring the overflow flag are unimplemented in this scope
// (spec §4.5, §9) and are a fatal error.
func (s *State) execJump(i inst.Instruction) (int8, error) {
	f := s.Flags
	var taken bool
	switch i.JKind {
	case inst.JB:
		taken = f.Carry
	case inst.JNB:
		taken = !f.Carry
	case inst.JE:
		taken = f.Zero
	case inst.JNE:
		taken = !f.Zero
	case inst.JBE:
		taken = f.Carry || f.Zero
	case inst.JA:
		taken = !f.Carry && !f.Zero
	case inst.JS:
		taken = f.Sign
	case inst.JNS:
		taken = !f.Sign
	case inst.JP:
		taken = f.Parity
	case inst.JNP:
		taken = !f.Parity
	case inst.LOOPNZ:
		taken = s.decCX() && !f.Zero
	case inst.LOOPZ:
		taken = s.decCX() && f.Zero
	case inst.LOOP:
		taken = s.decCX()
	case inst.JCXZ:
		taken = s.Reg(inst.RegC) == 0
	case inst.JO, inst.JNO, inst.JL, inst.JNL, inst.JLE, inst.JG:
		return 0, fmt.Errorf("cpu: jump %s not implemented (requires overflow flag, unmaintained in this scope)", i.JKind.Mnemonic())
	default:
		return 0, fmt.Errorf("cpu: unknown jump kind %v", i.JKind)
	}
	if taken {
		return i.Offset, nil
	}
	return 0, nil
}

// decCX decrements CX and reports whether it is still nonzero, the shared
// loop-family predicate half (spec §6).
func (s *State) decCX() bool {
	cx := s.Reg(inst.RegC) - 1
	s.SetReg(inst.RegC, cx)
	return cx != 0
}

// read fetches an operand's value (spec §4.5 "Operand read").
func (s *State) read(l inst.Loc) (uint16, error) {
	switch l.Kind {
	case inst.LocRegister:
		return s.Reg(l.Reg.ID), nil
	case inst.LocImm8, inst.LocImm16:
		return l.Imm, nil
	case inst.LocMemory:
		return s.ReadMem16(s.EffectiveAddress(l.Mem)), nil
	default:
		return 0, fmt.Errorf("cpu: unknown operand kind %v in read", l.Kind)
	}
}

// write stores an operand's value (spec §4.5 "Operand write"). Writing to
// an immediate is a decoder invariant violation, never produced by a
// correct dispatcher, so it panics rather than returning an error.
func (s *State) write(l inst.Loc, v uint16) error {
	switch l.Kind {
	case inst.LocRegister:
		s.SetReg(l.Reg.ID, v)
		return nil
	case inst.LocMemory:
		s.WriteMem16(s.EffectiveAddress(l.Mem), v)
		return nil
	case inst.LocImm8, inst.LocImm16:
		panic("cpu: attempted write to an immediate operand")
	default:
		return fmt.Errorf("cpu: unknown operand kind %v in write", l.Kind)
	}
}
