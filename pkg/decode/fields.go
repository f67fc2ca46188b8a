package decode

import (
	"fmt"

	"github.com/oisee/x86decoder/pkg/inst"
)

// DecodeRM translates a MOD/R-M pair, plus W and the cursor for any
// displacement bytes, into an operand location (spec §4.2).
func DecodeRM(mod, rm uint8, w bool, cur *Cursor) (inst.Loc, error) {
	if mod == 0b11 {
		return inst.RegLoc(inst.DecodeReg(rm, w)), nil
	}

	if mod == 0b00 && rm == 0b110 {
		addr, err := cur.NextU16("direct address")
		if err != nil {
			return inst.Loc{}, err
		}
		return inst.MemLoc(inst.EAC{Base: inst.BaseDirect, Direct: addr}), nil
	}

	base := inst.BaseForRM(rm)

	switch mod {
	case 0b00:
		return inst.MemLoc(inst.EAC{Base: base}), nil
	case 0b01:
		b, err := cur.MustNext("8-bit displacement")
		if err != nil {
			return inst.Loc{}, err
		}
		return inst.MemLoc(inst.EAC{Base: base, Disp: int16(int8(b)), HasDisp: true}), nil
	case 0b10:
		d, err := cur.NextU16("16-bit displacement")
		if err != nil {
			return inst.Loc{}, err
		}
		return inst.MemLoc(inst.EAC{Base: base, Disp: int16(d), HasDisp: true}), nil
	default:
		return inst.Loc{}, fmt.Errorf("decode: impossible MOD value %02b", mod)
	}
}

// DecodeImmediate reads an operand immediate: one byte if w is false, two
// little-endian bytes (as Imm16) if true.
func DecodeImmediate(w bool, cur *Cursor) (inst.Loc, error) {
	if w {
		v, err := cur.NextU16("16-bit immediate")
		if err != nil {
			return inst.Loc{}, err
		}
		return inst.Imm16Loc(v), nil
	}
	b, err := cur.MustNext("8-bit immediate")
	if err != nil {
		return inst.Loc{}, err
	}
	return inst.Imm8Loc(b), nil
}

// DecodeSignExtendedImmediate reads one byte and sign-extends it to a 16-bit
// immediate location, used when S=1,W=1 (spec §4.3 recognizer 1).
func DecodeSignExtendedImmediate(cur *Cursor) (inst.Loc, error) {
	b, err := cur.MustNext("sign-extended immediate")
	if err != nil {
		return inst.Loc{}, err
	}
	return inst.Imm16Loc(uint16(int16(int8(b)))), nil
}
