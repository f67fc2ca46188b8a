package decode

import (
	"testing"

	"github.com/oisee/x86decoder/pkg/inst"
)

// decodeOne decodes a single instruction from a literal byte sequence and
// returns its printed form and consumed length.
func decodeOne(t *testing.T, bytes []byte) (string, int) {
	t.Helper()
	cur := NewCursor(bytes)
	instr, err := Decode(cur)
	if err != nil {
		t.Fatalf("Decode(% X): %v", bytes, err)
	}
	line, err := Print(instr)
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	return line, instr.Length
}

// TestConcreteScenarios exercises the literal byte-sequence → assembly-line
// scenarios from spec §8.
func TestConcreteScenarios(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  string
	}{
		{[]byte{0x89, 0xD9}, "mov cx, bx"},
		{[]byte{0x88, 0xE5}, "mov ch, ah"},
		{[]byte{0xB1, 0x0C}, "mov cl, 12"},
		{[]byte{0x8B, 0x76, 0x00}, "mov si, [bp]"},
		{[]byte{0x03, 0x4F, 0x02}, "add cx, [bx + 2]"},
		{[]byte{0x83, 0xC6, 0x02}, "add si, 2"},
		{[]byte{0x75, 0xF4}, "jnz $-10"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			got, _ := decodeOne(t, c.bytes)
			if got != c.want {
				t.Errorf("decode(% X) = %q, want %q", c.bytes, got, c.want)
			}
		})
	}
}

// TestInstructionLength verifies the consumed-byte counter equals the
// documented encoding length (spec §8 property 3).
func TestInstructionLength(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  int
	}{
		{[]byte{0x89, 0xD9}, 2},                               // mov cx, bx
		{[]byte{0x8B, 0x76, 0x00}, 3},                         // mov si, [bp]
		{[]byte{0x8B, 0xBB, 0x0F, 0x13}, 4}, // mov di, [bp+di+4879] (mod=10, 16-bit displacement)
	}
	for _, c := range cases {
		t.Run("", func(t *testing.T) {
			_, length := decodeOne(t, c.bytes)
			if length != c.want {
				t.Errorf("length(% X) = %d, want %d", c.bytes, length, c.want)
			}
		})
	}
}

// TestSignExtension verifies spec §8 property 6: decoding 1000_0011 with
// immediate byte 0xF6 stores Imm16 = 0xFFF6.
func TestSignExtension(t *testing.T) {
	cur := NewCursor([]byte{0b10000011, 0b11000110, 0xF6}) // add si, -10 (sign-extended)
	instr, err := Decode(cur)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if instr.Src.Kind != inst.LocImm16 {
		t.Fatalf("src kind = %v, want LocImm16", instr.Src.Kind)
	}
	if instr.Src.Imm != 0xFFF6 {
		t.Errorf("src imm = %#x, want 0xFFF6", instr.Src.Imm)
	}
}

// TestDecoderDeterminism verifies spec §8 property 2: decoding the same
// image twice yields the same instruction sequence regardless of how many
// times the caller peeks in between.
func TestDecoderDeterminism(t *testing.T) {
	image := []byte{0xB8, 0x01, 0x00, 0xBB, 0x02, 0x00, 0x01, 0xD8}

	decodeAll := func(extraPeeks int) []string {
		cur := NewCursor(image)
		var lines []string
		for !cur.Empty() {
			for p := 0; p < extraPeeks; p++ {
				cur.Peek() // extra peeks must not disturb decode state
			}
			instr, err := Decode(cur)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			line, err := Print(instr)
			if err != nil {
				t.Fatalf("Print: %v", err)
			}
			lines = append(lines, line)
		}
		return lines
	}

	first := decodeAll(0)
	second := decodeAll(3)
	if len(first) != len(second) {
		t.Fatalf("nondeterministic instruction count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestUnrecognizedByteIsFatal(t *testing.T) {
	cur := NewCursor([]byte{0x0F}) // not in the supported opcode set
	if _, err := Decode(cur); err == nil {
		t.Error("expected a decode error for an unrecognized opcode byte")
	}
}

func TestTruncatedInputIsFatal(t *testing.T) {
	cur := NewCursor([]byte{0x89}) // mov reg/mem, missing the mod/reg/r-m byte
	if _, err := Decode(cur); err == nil {
		t.Error("expected a truncation error")
	}
}
