package inst

import "fmt"

// EAPenalty returns the addressing-mode cycle penalty for a memory operand,
// per the 8086 manual's effective-address cost table (spec §4.6).
func EAPenalty(eac EAC) int {
	switch eac.Base {
	case BaseDirect:
		return 6
	case BaseBx, BaseBp, BaseSi, BaseDi:
		if eac.HasDisp {
			return 9
		}
		return 5
	case BaseBxSi, BaseBpDi:
		if eac.HasDisp {
			return 11
		}
		return 7
	case BaseBpSi, BaseBxDi:
		if eac.HasDisp {
			return 12
		}
		return 8
	default:
		panic(fmt.Sprintf("inst: unknown EAC base %v", eac.Base))
	}
}

// Estimate returns the cycle-count estimate for a decoded instruction,
// keyed on (mnemonic family, operand shape), per spec §4.6.
func Estimate(i Instruction) (int, error) {
	switch i.Kind {
	case Mov:
		return estimateMov(i)
	case Add, Sub, Cmp:
		return estimateAluShape(i)
	case Jump:
		return 0, fmt.Errorf("inst: cycle estimate not implemented for jumps")
	default:
		return 0, fmt.Errorf("inst: unknown instruction kind %v", i.Kind)
	}
}

func estimateMov(i Instruction) (int, error) {
	if i.Form == FormAccMem {
		return 10, nil
	}
	switch {
	case i.Dst.Kind == LocRegister && i.Src.Kind == LocRegister:
		return 2, nil
	case i.Dst.Kind == LocRegister && (i.Src.Kind == LocImm8 || i.Src.Kind == LocImm16):
		return 4, nil
	case i.Dst.Kind == LocRegister && i.Src.Kind == LocMemory:
		return 8 + EAPenalty(i.Src.Mem), nil
	case i.Dst.Kind == LocMemory && i.Src.Kind == LocRegister:
		return 9 + EAPenalty(i.Dst.Mem), nil
	case i.Dst.Kind == LocMemory && (i.Src.Kind == LocImm8 || i.Src.Kind == LocImm16):
		return 10 + EAPenalty(i.Dst.Mem), nil
	default:
		return 0, fmt.Errorf("inst: unhandled mov operand shape (dst=%v src=%v)", i.Dst.Kind, i.Src.Kind)
	}
}

// estimateAluShape covers Add/Sub/Cmp, which share one cost structure
// (spec §4.6: "Sub/Cmp use the same shape → cost structure as Add").
func estimateAluShape(i Instruction) (int, error) {
	switch {
	case i.Dst.Kind == LocRegister && i.Src.Kind == LocRegister:
		return 3, nil
	case i.Dst.Kind == LocRegister && (i.Src.Kind == LocImm8 || i.Src.Kind == LocImm16):
		return 4, nil
	case i.Dst.Kind == LocRegister && i.Src.Kind == LocMemory:
		return 9 + EAPenalty(i.Src.Mem), nil
	case i.Dst.Kind == LocMemory && i.Src.Kind == LocRegister:
		return 16 + EAPenalty(i.Dst.Mem), nil
	case i.Dst.Kind == LocMemory && (i.Src.Kind == LocImm8 || i.Src.Kind == LocImm16):
		return 17 + EAPenalty(i.Dst.Mem), nil
	default:
		return 0, fmt.Errorf("inst: unhandled alu operand shape (dst=%v src=%v)", i.Dst.Kind, i.Src.Kind)
	}
}
