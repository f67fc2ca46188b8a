// Package decode implements the 8086 byte cursor, field parsers, opcode
// dispatcher, and NASM assembly printer.
package decode

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a forward, peek-capable stream over a program image. It also
// tracks a consumed-byte counter, reset between instructions, used to
// measure instruction length for IP advancement.
type Cursor struct {
	bytes    []byte
	pos      int
	consumed int
}

// NewCursor wraps a byte slice for sequential decoding.
func NewCursor(bytes []byte) *Cursor {
	return &Cursor{bytes: bytes}
}

// Empty reports whether the cursor has no more bytes to read.
func (c *Cursor) Empty() bool {
	return c.pos >= len(c.bytes)
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.Empty() {
		return 0, false
	}
	return c.bytes[c.pos], true
}

// Next consumes and returns the next byte.
func (c *Cursor) Next() (byte, bool) {
	if c.Empty() {
		return 0, false
	}
	b := c.bytes[c.pos]
	c.pos++
	c.consumed++
	return b, true
}

// MustNext consumes the next byte or returns a truncation error naming what
// was being decoded when the image ran out.
func (c *Cursor) MustNext(context string) (byte, error) {
	b, ok := c.Next()
	if !ok {
		return 0, fmt.Errorf("decode: truncated input while reading %s", context)
	}
	return b, nil
}

// NextU16 reads a little-endian 16-bit value.
func (c *Cursor) NextU16(context string) (uint16, error) {
	if c.pos+2 > len(c.bytes) {
		return 0, fmt.Errorf("decode: truncated input while reading %s", context)
	}
	v := binary.LittleEndian.Uint16(c.bytes[c.pos : c.pos+2])
	c.pos += 2
	c.consumed += 2
	return v, nil
}

// ResetConsumed zeroes the consumed-byte counter. Call once per instruction
// before decoding it, then read Consumed() after to get its length in bytes.
func (c *Cursor) ResetConsumed() {
	c.consumed = 0
}

// Consumed returns the number of bytes read since the last ResetConsumed.
func (c *Cursor) Consumed() int {
	return c.consumed
}
