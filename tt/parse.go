package tt

import (
	"fmt"
	"math"
)

// Code comments often cite passages from the OpenType specification
// version 1.8.4; see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow. Malicious fonts
// may claim counts which overflow offset calculations and thereby defeat
// bounds checks.

// checkedMulInt checks for overflow in multiplication of two integers.
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if (a < 0 && b > 0 && a < math.MinInt/b) || (a > 0 && b < 0 && b < math.MinInt/a) {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values.
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// ---------------------------------------------------------------------------

const headMagicNumber = 0x5f0f3cf5

// RequiredTables lists the tables this decoder cannot operate without:
// glyph count, loca entry size, glyph locations, outline data, and the
// code-point mapping.
var RequiredTables = []string{
	"cmap", "glyf", "head", "loca", "maxp",
}

// Parse parses an sfnt font from a byte slice.
//
// A Font needs ongoing access to the font's byte-data after the Parse
// function returns. Its elements are assumed immutable while the Font
// remains in use.
//
// Parse fails with a typed FontError on malformed or truncated input; it
// never panics on bad data.
func Parse(font []byte) (*Font, error) {
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	src := binarySegm(font)
	c := cursorOn(src, 0)
	h := FontHeader{}
	var err error
	// The version tag is checked before any length-dependent reads; only a
	// blob too short for the tag itself reports Eof.
	if h.FontType, err = c.readU32("Header"); err != nil {
		return nil, err
	}
	tracer().Debugf("font type tag = %x|%s", h.FontType, Tag(h.FontType).String())
	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		return nil, errUnknownFormat(0, "Header",
			fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	if h.TableCount, err = c.readU16("Header"); err != nil {
		return nil, err
	}
	if err = c.jump(6); err != nil { // searchRange, entrySelector, rangeShift
		return nil, errEof(0, "Header", "offset table incomplete")
	}

	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	tableRecordsSize, err := checkedMulInt(16, int(h.TableCount))
	if err != nil {
		return nil, errUnknownFormat(0, "TableRecords",
			fmt.Sprintf("table count too large: %v", err))
	}
	buf, err := src.view(12, tableRecordsSize)
	if err != nil {
		return nil, errEof(0, "TableRecords", "table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			return nil, errUnknownFormat(tag, "TableRecords", "table order")
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // ignore checksums, but "all tables must begin on four byte boundries".
			return nil, errUnknownFormat(tag, "Offset", "invalid table offset")
		}
		// Validate table bounds before slicing to prevent panic.
		tableEnd, err := checkedAddUint32(off, size)
		if err != nil {
			return nil, errEof(tag, "Size",
				fmt.Sprintf("size calculation overflow: %v", err))
		}
		if off > uint32(len(src)) || tableEnd > uint32(len(src)) {
			return nil, errEof(tag, "Bounds",
				fmt.Sprintf("bounds [%d:%d] exceed font size %d", off, tableEnd, len(src)))
		}
		if otf.tables[tag], err = parseTable(tag, src[off:tableEnd], off, size); err != nil {
			return nil, err
		}
	}
	if err := connectTables(otf); err != nil {
		return nil, err
	}
	return otf, nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size)
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("glyf"):
		// Glyph descriptions are decoded lazily, per glyph, via the ranges
		// of the loca table.
		return newGlyfTable(t, b, offset, size), nil
	case T("loca"):
		return newLocaTable(t, b, offset, size), nil
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// Consistency check and shortcuts to essential tables.
//
// Dependencies (taken from the Apple Developer page about TrueType):
// The size of entries in the 'loca' table must be appropriate for the value
// of the indexToLocFormat field of the 'head' table. The number of entries
// must be the same as the numGlyphs field of the 'maxp' table.
func connectTables(otf *Font) error {
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			return errMissingTable(T(tag))
		}
	}
	otf.Head = otf.tables[T("head")].Self().AsHead()
	otf.MaxP = otf.tables[T("maxp")].Self().AsMaxP()
	otf.Loca = otf.tables[T("loca")].Self().AsLoca()
	otf.Glyf = otf.tables[T("glyf")].Self().AsGlyf()
	otf.CMap = otf.tables[T("cmap")].Self().AsCMap()
	if otf.MaxP == nil {
		return errUnknownFormat(T("maxp"), "Header", "maxp table unreadable")
	}

	numGlyphs := otf.MaxP.NumGlyphs
	loca := otf.Loca
	loca.locCnt = numGlyphs + 1
	var entrySize int
	switch otf.Head.IndexToLocFormat {
	case 0:
		loca.inx2loc = shortLocaVersion
		entrySize = 2
	case 1:
		loca.inx2loc = longLocaVersion
		entrySize = 4
	default:
		// The head parser reads the field permissively; interpretation of
		// loca is the point where values outside {0,1} become fatal.
		return errUnknownFormat(T("head"), "IndexToLocFormat",
			fmt.Sprintf("invalid value: %d (must be 0 or 1)", otf.Head.IndexToLocFormat))
	}
	expectedLocaSize, err := checkedMulInt(numGlyphs+1, entrySize)
	if err != nil {
		return errUnknownFormat(T("loca"), "Size", fmt.Sprintf("size calculation overflow: %v", err))
	}
	if int(loca.length) < expectedLocaSize {
		return errEof(T("loca"), "Size",
			fmt.Sprintf("table size %d insufficient for %d glyphs (need %d)",
				loca.length, numGlyphs, expectedLocaSize))
	}
	return nil
}

// --- Head table ------------------------------------------------------------

// parseHead decodes table 'head'. The walk below encodes the immovable byte
// layout of the table; skip widths are the documented field sizes (u32
// fontRevision + u32 checkSumAdjustment before the magic number, u16 flags
// before unitsPerEm, two i64 timestamps before the bounds, u16 macStyle +
// u16 lowestRecPPEM + i16 fontDirectionHint before indexToLocFormat).
func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := newHeadTable(tag, b, offset, size)
	c := cursorOn(b, tag)

	// Check the version.
	majorVersion, err := c.readU16("Version")
	if err != nil {
		return nil, err
	}
	minorVersion, err := c.readU16("Version")
	if err != nil {
		return nil, err
	}
	if majorVersion != 1 || minorVersion != 0 {
		return nil, FontError{Kind: UnsupportedHeadVersion, Table: tag, Section: "Version",
			Issue: fmt.Sprintf("unsupported head version %d.%d", majorVersion, minorVersion)}
	}

	// Check the magic number.
	if err = c.jump(8); err != nil { // fontRevision, checkSumAdjustment
		return nil, errEof(tag, "MagicNumber", "head table truncated")
	}
	magic, err := c.readU32("MagicNumber")
	if err != nil {
		return nil, err
	}
	if magic != headMagicNumber {
		return nil, errUnknownFormat(tag, "MagicNumber",
			fmt.Sprintf("bad magic number %#08x", magic))
	}

	// Read the units per em.
	if err = c.jump(2); err != nil { // flags
		return nil, errEof(tag, "UnitsPerEm", "head table truncated")
	}
	if t.UnitsPerEm, err = c.readU16("UnitsPerEm"); err != nil {
		return nil, err
	}

	// Read the maximum bounds.
	if err = c.jump(16); err != nil { // created, modified timestamps
		return nil, errEof(tag, "Bounds", "head table truncated")
	}
	var xMin, yMin, xMax, yMax int16
	if xMin, err = c.readI16("Bounds"); err != nil {
		return nil, err
	}
	if yMin, err = c.readI16("Bounds"); err != nil {
		return nil, err
	}
	if xMax, err = c.readI16("Bounds"); err != nil {
		return nil, err
	}
	if yMax, err = c.readI16("Bounds"); err != nil {
		return nil, err
	}
	t.MaxGlyphBounds = GlyphBounds{
		Left:   int32(xMin),
		Bottom: int32(yMin),
		Right:  int32(xMax),
		Top:    int32(yMax),
	}

	// Read the index-to-location format. Values outside {0,1} are read
	// permissively here and rejected when the loca table is wired up.
	if err = c.jump(6); err != nil { // macStyle, lowestRecPPEM, fontDirectionHint
		return nil, errEof(tag, "IndexToLocFormat", "head table truncated")
	}
	if t.IndexToLocFormat, err = c.readI16("IndexToLocFormat"); err != nil {
		return nil, err
	}

	// Check the glyph data format.
	glyphDataFormat, err := c.readI16("GlyphDataFormat")
	if err != nil {
		return nil, err
	}
	if glyphDataFormat != 0 {
		return nil, FontError{Kind: UnsupportedGlyphFormat, Table: tag, Section: "GlyphDataFormat",
			Issue: fmt.Sprintf("unsupported glyph data format %d", glyphDataFormat)}
	}
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with
// CFF data must use version 0.5 of this table, specifying only the numGlyphs
// field. Fonts with TrueType outlines must use version 1.0.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errEof(tag, "Header", "maxp table too small")
	}
	t := newMaxPTable(tag, b, offset, size)
	n, _ := b.u16(4)
	t.NumGlyphs = int(n)
	return t, nil
}
