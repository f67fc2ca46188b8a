package decode

import (
	"fmt"

	"github.com/oisee/x86decoder/pkg/inst"
)

var mnemonics = map[inst.InstrKind]string{
	inst.Mov: "mov",
	inst.Add: "add",
	inst.Sub: "sub",
	inst.Cmp: "cmp",
}

// Print renders a decoded instruction as one line of lowercased
// NASM-compatible assembly (spec §4.4).
func Print(i inst.Instruction) (string, error) {
	if i.Kind == inst.Jump {
		n := 2 + int(i.Offset)
		if n < 0 {
			return fmt.Sprintf("%s $%d", i.JKind.Mnemonic(), n), nil
		}
		return fmt.Sprintf("%s $+%d", i.JKind.Mnemonic(), n), nil
	}

	mnemonic, ok := mnemonics[i.Kind]
	if !ok {
		return "", fmt.Errorf("decode: no printer for instruction kind %v", i.Kind)
	}

	dst, err := printLoc(i.Dst, false)
	if err != nil {
		return "", err
	}
	src, err := printLoc(i.Src, i.Dst.Kind == inst.LocMemory)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s, %s", mnemonic, dst, src), nil
}

// printLoc renders one operand. qualifyImm controls whether an immediate
// source gets a "byte"/"word" size prefix — required when the other operand
// is memory (NASM can't otherwise infer width), omitted when it's a
// register (the register's own width is unambiguous).
func printLoc(l inst.Loc, qualifyImm bool) (string, error) {
	switch l.Kind {
	case inst.LocRegister:
		return l.Reg.Mnemonic(), nil
	case inst.LocMemory:
		return printMem(l.Mem), nil
	case inst.LocImm8:
		if qualifyImm {
			return fmt.Sprintf("byte %d", l.Imm), nil
		}
		return fmt.Sprintf("%d", l.Imm), nil
	case inst.LocImm16:
		if qualifyImm {
			return fmt.Sprintf("word %d", l.Imm), nil
		}
		return fmt.Sprintf("%d", l.Imm), nil
	default:
		return "", fmt.Errorf("decode: unknown operand kind %v", l.Kind)
	}
}

func printMem(m inst.EAC) string {
	if m.Base == inst.BaseDirect {
		return fmt.Sprintf("[%d]", m.Direct)
	}
	base := m.Base.Text()
	if !m.HasDisp || m.Disp == 0 {
		return fmt.Sprintf("[%s]", base)
	}
	if m.Disp > 0 {
		return fmt.Sprintf("[%s + %d]", base, m.Disp)
	}
	return fmt.Sprintf("[%s - %d]", base, -int32(m.Disp))
}
