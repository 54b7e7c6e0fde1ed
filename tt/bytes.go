package tt

// Reading bytes from a font's binary representation.

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// binarySegm is a segment of byte data, i.e. a view into the font's binary
// data. We use it throughout this module to navigate the font's bytes.
// Segments are never copied out of the underlying blob.
type binarySegm []byte

// Size returns the size of the segment in bytes.
func (b binarySegm) Size() int {
	return len(b)
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n <= 0 || offset+n > len(b) {
		return nil, errEof(0, "", "buffer bounds exceeded")
	}
	return b[offset : offset+n], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// --- Cursor ----------------------------------------------------------------

// cursor is a read position within a byte segment. All reads are big-endian
// and bounds-checked: a read or jump that would exceed the remaining bytes
// fails with an Eof-kind FontError and leaves the position untouched, so no
// partial consumption is ever observable.
//
// cursor has value semantics; parse functions thread it explicitly instead
// of mutating shared state, which keeps parsing reentrant.
type cursor struct {
	b     binarySegm
	pos   int
	table Tag // for error reporting only
}

func cursorOn(b binarySegm, table Tag) cursor {
	return cursor{b: b, table: table}
}

// remaining returns the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.b) - c.pos
}

func (c *cursor) fail(section string, need int) error {
	return FontError{
		Kind:    Eof,
		Table:   c.table,
		Section: section,
		Issue:   "unexpected end of data",
		Offset:  uint32(c.pos + need),
	}
}

// jump advances the position by n bytes.
func (c *cursor) jump(n int) error {
	if n < 0 || c.pos+n > len(c.b) {
		return c.fail("", n)
	}
	c.pos += n
	return nil
}

func (c *cursor) readU8(section string) (uint8, error) {
	if c.pos+1 > len(c.b) {
		return 0, c.fail(section, 1)
	}
	v := c.b[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) readU16(section string) (uint16, error) {
	if c.pos+2 > len(c.b) {
		return 0, c.fail(section, 2)
	}
	v := u16(c.b[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) readI16(section string) (int16, error) {
	v, err := c.readU16(section)
	return int16(v), err
}

func (c *cursor) readU32(section string) (uint32, error) {
	if c.pos+4 > len(c.b) {
		return 0, c.fail(section, 4)
	}
	v := u32(c.b[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) readI64(section string) (int64, error) {
	if c.pos+8 > len(c.b) {
		return 0, c.fail(section, 8)
	}
	hi := u32(c.b[c.pos:])
	lo := u32(c.b[c.pos+4:])
	c.pos += 8
	return int64(hi)<<32 | int64(lo), nil
}
