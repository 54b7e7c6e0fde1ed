package tt

// Helpers to assemble minimal sfnt fonts in memory. The builders produce
// byte-exact table layouts (directory records sorted by tag, tables padded to
// four-byte boundaries), so the parser sees the same shape as with a font
// from disk.

import (
	"encoding/binary"
	"testing"
)

type testTable struct {
	tag  string
	data []byte
}

// buildFont assembles an sfnt blob from the given tables. Tables must be
// passed in ascending tag order.
func buildFont(t *testing.T, version uint32, tables ...testTable) []byte {
	t.Helper()
	n := len(tables)
	font := make([]byte, 0, 1024)
	font = binary.BigEndian.AppendUint32(font, version)
	font = binary.BigEndian.AppendUint16(font, uint16(n))
	font = binary.BigEndian.AppendUint16(font, 16) // searchRange, unchecked
	font = binary.BigEndian.AppendUint16(font, 0)  // entrySelector
	font = binary.BigEndian.AppendUint16(font, 0)  // rangeShift

	offset := uint32(12 + 16*n)
	for _, tb := range tables {
		if len(tb.tag) != 4 {
			t.Fatalf("table tag %q must have 4 letters", tb.tag)
		}
		font = append(font, tb.tag...)
		font = binary.BigEndian.AppendUint32(font, 0) // checksum, unchecked
		font = binary.BigEndian.AppendUint32(font, offset)
		font = binary.BigEndian.AppendUint32(font, uint32(len(tb.data)))
		offset += uint32(len(tb.data))
		offset = (offset + 3) &^ 3 // next table starts 4-byte aligned
	}
	for _, tb := range tables {
		font = append(font, tb.data...)
		for len(font)&3 != 0 {
			font = append(font, 0)
		}
	}
	return font
}

type headSpec struct {
	majorVersion    uint16
	minorVersion    uint16
	magic           uint32
	unitsPerEm      uint16
	bounds          GlyphBounds
	indexToLoc      int16
	glyphDataFormat int16
}

func defaultHead() headSpec {
	return headSpec{
		majorVersion: 1,
		magic:        headMagicNumber,
		unitsPerEm:   2048,
		bounds:       GlyphBounds{Left: -100, Bottom: -200, Right: 1000, Top: 800},
	}
}

// buildHead encodes a 54-byte 'head' table.
func buildHead(h headSpec) []byte {
	b := make([]byte, 0, 54)
	b = binary.BigEndian.AppendUint16(b, h.majorVersion)
	b = binary.BigEndian.AppendUint16(b, h.minorVersion)
	b = binary.BigEndian.AppendUint32(b, 0x00010000) // fontRevision
	b = binary.BigEndian.AppendUint32(b, 0)          // checkSumAdjustment
	b = binary.BigEndian.AppendUint32(b, h.magic)
	b = binary.BigEndian.AppendUint16(b, 0) // flags
	b = binary.BigEndian.AppendUint16(b, h.unitsPerEm)
	b = append(b, make([]byte, 16)...) // created, modified
	b = binary.BigEndian.AppendUint16(b, uint16(int16(h.bounds.Left)))
	b = binary.BigEndian.AppendUint16(b, uint16(int16(h.bounds.Bottom)))
	b = binary.BigEndian.AppendUint16(b, uint16(int16(h.bounds.Right)))
	b = binary.BigEndian.AppendUint16(b, uint16(int16(h.bounds.Top)))
	b = binary.BigEndian.AppendUint16(b, 0) // macStyle
	b = binary.BigEndian.AppendUint16(b, 8) // lowestRecPPEM
	b = binary.BigEndian.AppendUint16(b, 0) // fontDirectionHint
	b = binary.BigEndian.AppendUint16(b, uint16(h.indexToLoc))
	b = binary.BigEndian.AppendUint16(b, uint16(h.glyphDataFormat))
	return b
}

func buildMaxP(numGlyphs uint16) []byte {
	b := make([]byte, 0, 6)
	b = binary.BigEndian.AppendUint32(b, 0x00005000) // version 0.5
	b = binary.BigEndian.AppendUint16(b, numGlyphs)
	return b
}

// buildLocaShort encodes a short-format loca table; offsets are byte offsets
// into glyf, halved per the short format.
func buildLocaShort(offsets []uint32) []byte {
	b := make([]byte, 0, 2*len(offsets))
	for _, off := range offsets {
		b = binary.BigEndian.AppendUint16(b, uint16(off/2))
	}
	return b
}

func buildLocaLong(offsets []uint32) []byte {
	b := make([]byte, 0, 4*len(offsets))
	for _, off := range offsets {
		b = binary.BigEndian.AppendUint32(b, off)
	}
	return b
}

// --- glyf builder -----------------------------------------------------------

type testPoint struct {
	x, y    int16
	onCurve bool
}

// buildSimpleGlyph encodes a simple glyph description. Flags are written
// without run-length compression and every coordinate as a full 16-bit
// delta, which is valid (if not minimal) encoding.
func buildSimpleGlyph(contours ...[]testPoint) []byte {
	var b []byte
	b = binary.BigEndian.AppendUint16(b, uint16(int16(len(contours))))
	b = append(b, make([]byte, 8)...) // bbox, unchecked
	end := -1
	var pts []testPoint
	for _, c := range contours {
		end += len(c)
		b = binary.BigEndian.AppendUint16(b, uint16(end))
		pts = append(pts, c...)
	}
	b = binary.BigEndian.AppendUint16(b, 0) // no instructions
	for _, p := range pts {
		var f byte
		if p.onCurve {
			f = flagOnCurve
		}
		b = append(b, f)
	}
	prev := int16(0)
	for _, p := range pts {
		b = binary.BigEndian.AppendUint16(b, uint16(p.x-prev))
		prev = p.x
	}
	prev = 0
	for _, p := range pts {
		b = binary.BigEndian.AppendUint16(b, uint16(p.y-prev))
		prev = p.y
	}
	return b
}

// buildGlyf concatenates glyph descriptions, each padded to a 2-byte
// boundary (required for short loca offsets), and returns the table bytes
// plus the numGlyphs+1 loca offsets.
func buildGlyf(glyphs ...[]byte) (glyf []byte, locaOffsets []uint32) {
	locaOffsets = append(locaOffsets, 0)
	for _, g := range glyphs {
		glyf = append(glyf, g...)
		if len(glyf)&1 != 0 {
			glyf = append(glyf, 0)
		}
		locaOffsets = append(locaOffsets, uint32(len(glyf)))
	}
	return glyf, locaOffsets
}

// --- cmap builders ----------------------------------------------------------

type cmapSegment struct {
	start, end uint16
	delta      uint16 // glyph id = code-point + delta (mod 2^16)
}

// segmentDelta computes the idDelta that maps code-point start onto glyph
// index first. The two's-complement wrap happens at runtime; a negative
// constant would not convert to uint16.
func segmentDelta(start rune, first uint16) uint16 {
	return first - uint16(start)
}

// buildCMapFormat4 encodes a cmap table with a single format 4 sub-table for
// platform 3 / encoding 1. All segments use the delta mechanism
// (idRangeOffset 0); callers wanting the glyph-ID-array path use
// buildCMapFormat4Indexed. The final 0xffff sentinel segment is appended
// automatically.
func buildCMapFormat4(segments []cmapSegment) []byte {
	segments = append(segments, cmapSegment{start: 0xffff, end: 0xffff, delta: 1})
	segCount := len(segments)

	var sub []byte
	sub = binary.BigEndian.AppendUint16(sub, 4) // format
	length := 14 + 2 + 8*segCount
	sub = binary.BigEndian.AppendUint16(sub, uint16(length))
	sub = binary.BigEndian.AppendUint16(sub, 0) // language
	sub = binary.BigEndian.AppendUint16(sub, uint16(segCount*2))
	sub = binary.BigEndian.AppendUint16(sub, 0) // searchRange, unchecked
	sub = binary.BigEndian.AppendUint16(sub, 0) // entrySelector
	sub = binary.BigEndian.AppendUint16(sub, 0) // rangeShift
	for _, s := range segments {
		sub = binary.BigEndian.AppendUint16(sub, s.end)
	}
	sub = binary.BigEndian.AppendUint16(sub, 0) // reservedPad
	for _, s := range segments {
		sub = binary.BigEndian.AppendUint16(sub, s.start)
	}
	for _, s := range segments {
		sub = binary.BigEndian.AppendUint16(sub, s.delta)
	}
	for range segments {
		sub = binary.BigEndian.AppendUint16(sub, 0) // idRangeOffset
	}
	return wrapCMapSubtable(3, 1, sub)
}

// buildCMapFormat4Indexed encodes a format 4 sub-table with one segment that
// resolves through the glyph ID array (idRangeOffset != 0). glyphIds holds
// one glyph index per code-point of [start, end].
func buildCMapFormat4Indexed(start, end uint16, glyphIds []uint16) []byte {
	const segCount = 2 // the segment plus the 0xffff sentinel

	var sub []byte
	sub = binary.BigEndian.AppendUint16(sub, 4)
	length := 14 + 2 + 8*segCount + 2*len(glyphIds)
	sub = binary.BigEndian.AppendUint16(sub, uint16(length))
	sub = binary.BigEndian.AppendUint16(sub, 0)
	sub = binary.BigEndian.AppendUint16(sub, segCount*2)
	sub = binary.BigEndian.AppendUint16(sub, 0)
	sub = binary.BigEndian.AppendUint16(sub, 0)
	sub = binary.BigEndian.AppendUint16(sub, 0)
	sub = binary.BigEndian.AppendUint16(sub, end)    // endCode[0]
	sub = binary.BigEndian.AppendUint16(sub, 0xffff) // endCode[1]
	sub = binary.BigEndian.AppendUint16(sub, 0)      // reservedPad
	sub = binary.BigEndian.AppendUint16(sub, start)  // startCode[0]
	sub = binary.BigEndian.AppendUint16(sub, 0xffff) // startCode[1]
	sub = binary.BigEndian.AppendUint16(sub, 0)      // idDelta[0]
	sub = binary.BigEndian.AppendUint16(sub, 1)      // idDelta[1]
	// idRangeOffset[0]: byte distance from this element to glyphIds[0]. The
	// element sits 2 array slots before the end of the offsets array.
	sub = binary.BigEndian.AppendUint16(sub, 2*2)
	sub = binary.BigEndian.AppendUint16(sub, 0) // idRangeOffset[1]
	for _, gid := range glyphIds {
		sub = binary.BigEndian.AppendUint16(sub, gid)
	}
	return wrapCMapSubtable(3, 1, sub)
}

type cmapGroup struct {
	start, end uint32
	startGlyph uint32
}

// buildCMapFormat12 encodes a cmap table with a single format 12 sub-table
// for platform 3 / encoding 10.
func buildCMapFormat12(groups []cmapGroup) []byte {
	var sub []byte
	sub = binary.BigEndian.AppendUint16(sub, 12) // format
	sub = binary.BigEndian.AppendUint16(sub, 0)  // reserved
	length := 16 + 12*len(groups)
	sub = binary.BigEndian.AppendUint32(sub, uint32(length))
	sub = binary.BigEndian.AppendUint32(sub, 0) // language
	sub = binary.BigEndian.AppendUint32(sub, uint32(len(groups)))
	for _, g := range groups {
		sub = binary.BigEndian.AppendUint32(sub, g.start)
		sub = binary.BigEndian.AppendUint32(sub, g.end)
		sub = binary.BigEndian.AppendUint32(sub, g.startGlyph)
	}
	return wrapCMapSubtable(3, 10, sub)
}

func wrapCMapSubtable(pid, psid uint16, sub []byte) []byte {
	var b []byte
	b = binary.BigEndian.AppendUint16(b, 0) // version
	b = binary.BigEndian.AppendUint16(b, 1) // one encoding record
	b = binary.BigEndian.AppendUint16(b, pid)
	b = binary.BigEndian.AppendUint16(b, psid)
	b = binary.BigEndian.AppendUint32(b, 12) // sub-table follows the record
	return append(b, sub...)
}

// --- Complete fonts ---------------------------------------------------------

// buildTestFont assembles a parseable font around the given glyph
// descriptions. Glyph 0 is the missing-character glyph (empty outline); the
// given glyphs follow as indices 1…n. Code-points 'A', 'B', … map to glyphs
// 1, 2, … via a format 4 cmap.
func buildTestFont(t *testing.T, glyphs ...[]byte) []byte {
	t.Helper()
	descriptions := append([][]byte{nil}, glyphs...) // glyph 0 is empty
	glyf, locaOffsets := buildGlyf(descriptions...)
	numGlyphs := uint16(len(descriptions))
	cmap := buildCMapFormat4([]cmapSegment{
		{start: 'A', end: 'A' + numGlyphs - 2, delta: segmentDelta('A', 1)},
	})
	return buildFont(t, 0x00010000,
		testTable{"cmap", cmap},
		testTable{"glyf", glyf},
		testTable{"head", buildHead(defaultHead())},
		testTable{"loca", buildLocaShort(locaOffsets)},
		testTable{"maxp", buildMaxP(numGlyphs)},
	)
}

func parseTestFont(t *testing.T, font []byte) *Font {
	t.Helper()
	otf, err := Parse(font)
	if err != nil {
		t.Fatalf("cannot parse test font: %v", err)
	}
	return otf
}
