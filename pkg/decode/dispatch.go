package decode

import (
	"fmt"

	"github.com/oisee/x86decoder/pkg/inst"
)

// recognizer tries to match and decode one instruction form starting at the
// cursor's current (unconsumed) byte. It returns ok=false, leaving the
// cursor untouched, if the leading byte doesn't match its pattern.
type recognizer func(first byte, cur *Cursor) (inst.Instruction, bool, error)

// recognizers is the fixed, order-significant dispatch list (spec §4.3).
var recognizers = []recognizer{
	recognizeImmediateToRM,
	recognizeRMToFromReg,
	recognizeImmediateToAccumulator,
	recognizeJump,
	recognizeImmediateToRegMov,
	recognizeAccumulatorMemMov,
}

// Decode reads one instruction at the cursor, returning its decoded form.
// The caller reads cur.Consumed() (or the returned Instruction's Length) to
// learn how many bytes it occupied.
func Decode(cur *Cursor) (inst.Instruction, error) {
	cur.ResetConsumed()

	first, ok := cur.Peek()
	if !ok {
		return inst.Instruction{}, fmt.Errorf("decode: called Decode on an empty cursor")
	}

	for _, r := range recognizers {
		instr, matched, err := r(first, cur)
		if err != nil {
			return inst.Instruction{}, err
		}
		if matched {
			instr.Length = cur.Consumed()
			return instr, nil
		}
	}

	return inst.Instruction{}, fmt.Errorf("decode: unrecognized opcode byte %08b", first)
}

// aluOpFromSubopcode maps the 3-bit subopcode/reg field used by the
// Add/Sub/Cmp grouped encodings to an instruction kind. Other 8086
// arithmetic ops (Or/Adc/Sbb/And/Xor) share these encodings but are out of
// scope (spec §1 non-goals); they decode-error here.
func aluOpFromSubopcode(sub uint8) (inst.InstrKind, error) {
	switch sub {
	case 0b000:
		return inst.Add, nil
	case 0b101:
		return inst.Sub, nil
	case 0b111:
		return inst.Cmp, nil
	default:
		return 0, fmt.Errorf("decode: unimplemented arithmetic subopcode %03b", sub)
	}
}

// recognizeImmediateToRM matches 1000_00sw (grouped Add/Sub/Cmp) or
// 1100_011w (Mov), immediate to register-or-memory.
func recognizeImmediateToRM(first byte, cur *Cursor) (inst.Instruction, bool, error) {
	isGroup := first&0b11111100 == 0b10000000
	isMov := first&0b11111110 == 0b11000110
	if !isGroup && !isMov {
		return inst.Instruction{}, false, nil
	}
	cur.Next() // consume opcode byte

	w := first&0x01 != 0
	s := false
	if isGroup {
		s = first&0x02 != 0
	}

	second, err := cur.MustNext("mod/subopcode/r-m byte")
	if err != nil {
		return inst.Instruction{}, true, err
	}
	mod := (second >> 6) & 0x03
	sub := (second >> 3) & 0x07
	rm := second & 0x07

	dst, err := DecodeRM(mod, rm, w, cur)
	if err != nil {
		return inst.Instruction{}, true, err
	}

	var kind inst.InstrKind
	if isMov {
		kind = inst.Mov
		s = false // S is architecturally reserved for Mov; always treat as 0.
	} else {
		kind, err = aluOpFromSubopcode(sub)
		if err != nil {
			return inst.Instruction{}, true, err
		}
	}

	var src inst.Loc
	switch {
	case w && s:
		src, err = DecodeSignExtendedImmediate(cur)
	case w:
		src, err = DecodeImmediate(true, cur)
	default:
		src, err = DecodeImmediate(false, cur)
	}
	if err != nil {
		return inst.Instruction{}, true, err
	}

	return inst.Instruction{Kind: kind, Dst: dst, Src: src}, true, nil
}

// recognizeRMToFromReg matches 100010dw (Mov) or 00xxx0dw with xxx in
// {Add,Sub,Cmp}, register/memory to/from register.
func recognizeRMToFromReg(first byte, cur *Cursor) (inst.Instruction, bool, error) {
	isMov := first&0b11111100 == 0b10001000
	isGroup := first&0b11000100 == 0b00000000 && aluGroupOK(first)
	if !isMov && !isGroup {
		return inst.Instruction{}, false, nil
	}
	cur.Next()

	d := first&0x02 != 0
	w := first&0x01 != 0

	second, err := cur.MustNext("mod/reg/r-m byte")
	if err != nil {
		return inst.Instruction{}, true, err
	}
	mod := (second >> 6) & 0x03
	regField := (second >> 3) & 0x07
	rm := second & 0x07

	regLoc := inst.RegLoc(inst.DecodeReg(regField, w))
	rmLoc, err := DecodeRM(mod, rm, w, cur)
	if err != nil {
		return inst.Instruction{}, true, err
	}

	var kind inst.InstrKind
	if isMov {
		kind = inst.Mov
	} else {
		sub := (first >> 3) & 0x07
		kind, err = aluOpFromSubopcode(sub)
		if err != nil {
			return inst.Instruction{}, true, err
		}
	}

	dst, src := rmLoc, regLoc
	if d {
		dst, src = regLoc, rmLoc
	}
	return inst.Instruction{Kind: kind, Dst: dst, Src: src}, true, nil
}

// aluGroupOK reports whether the 3-bit op field of a 00xxx0dw byte is one of
// the supported Add/Sub/Cmp values, without consuming input.
func aluGroupOK(first byte) bool {
	sub := (first >> 3) & 0x07
	switch sub {
	case 0b000, 0b101, 0b111:
		return true
	default:
		return false
	}
}

// recognizeImmediateToAccumulator matches 00xxx10w with xxx in
// {Add,Sub,Cmp}, immediate to AL/AX.
func recognizeImmediateToAccumulator(first byte, cur *Cursor) (inst.Instruction, bool, error) {
	if first&0b11000110 != 0b00000100 || !aluGroupOK(first) {
		return inst.Instruction{}, false, nil
	}
	cur.Next()

	w := first&0x01 != 0
	sub := (first >> 3) & 0x07
	kind, err := aluOpFromSubopcode(sub)
	if err != nil {
		return inst.Instruction{}, true, err
	}

	src, err := DecodeImmediate(w, cur)
	if err != nil {
		return inst.Instruction{}, true, err
	}

	dst := inst.RegLoc(inst.DecodeReg(0b000, w)) // AL or AX
	return inst.Instruction{Kind: kind, Dst: dst, Src: src}, true, nil
}

// recognizeJump matches the 20 conditional/loop jump opcodes (spec §6).
func recognizeJump(first byte, cur *Cursor) (inst.Instruction, bool, error) {
	kind, ok := inst.JumpKindForByte(first)
	if !ok {
		return inst.Instruction{}, false, nil
	}
	cur.Next()

	b, err := cur.MustNext("jump displacement")
	if err != nil {
		return inst.Instruction{}, true, err
	}
	return inst.Instruction{Kind: inst.Jump, JKind: kind, Offset: int8(b)}, true, nil
}

// recognizeImmediateToRegMov matches 1011wrrr, immediate to register Mov.
func recognizeImmediateToRegMov(first byte, cur *Cursor) (inst.Instruction, bool, error) {
	if first&0b11110000 != 0b10110000 {
		return inst.Instruction{}, false, nil
	}
	cur.Next()

	w := first&0x08 != 0
	rrr := first & 0x07

	src, err := DecodeImmediate(w, cur)
	if err != nil {
		return inst.Instruction{}, true, err
	}
	dst := inst.RegLoc(inst.DecodeReg(rrr, w))
	return inst.Instruction{Kind: inst.Mov, Dst: dst, Src: src}, true, nil
}

// recognizeAccumulatorMemMov matches 1010000w (mem->acc) or 1010001w
// (acc->mem), both reading a 16-bit direct address.
func recognizeAccumulatorMemMov(first byte, cur *Cursor) (inst.Instruction, bool, error) {
	if first&0b11111100 != 0b10100000 {
		return inst.Instruction{}, false, nil
	}
	cur.Next()

	w := first&0x01 != 0
	toMem := first&0x02 != 0

	addr, err := cur.NextU16("direct address")
	if err != nil {
		return inst.Instruction{}, true, err
	}
	mem := inst.MemLoc(inst.EAC{Base: inst.BaseDirect, Direct: addr})
	acc := inst.RegLoc(inst.DecodeReg(0b000, w))

	instr := inst.Instruction{Kind: inst.Mov, Form: inst.FormAccMem}
	if toMem {
		instr.Dst, instr.Src = mem, acc
	} else {
		instr.Dst, instr.Src = acc, mem
	}
	return instr, true, nil
}
