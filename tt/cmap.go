package tt

import "fmt"

/*
Parts of the cmap lookup code replicate code of the Go core team, available
from https://github.com/golang/image/tree/master/font/sfnt.
I understand it's legal to do so, as long as the license information stays intact.

   Copyright 2017 The Go Authors. All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.

The LICENSE file mentioned is replicated as GO-LICENSE at the root directory of
this module.
*/

// platformEncodingWidth returns the number of bytes per character assumed by
// the given Platform ID and Platform Specific ID.
//
// Old fonts, from when Unicode meant the Basic Multilingual Plane (BMP),
// assume that 2 bytes per character is sufficient.
//
// Recent fonts naturally support the full range of Unicode code points, which
// can take up to 4 bytes per character. Such fonts might still choose one of
// the legacy encodings if e.g. their repertoire is limited to the BMP, for
// greater compatibility with older software, or because the resultant file
// size can be smaller.
func platformEncodingWidth(pid, psid uint16) int {
	switch pid {
	case 0: // Unicode platform
		switch psid {
		case 3: // Unicode BMP
			return 2
		case 4, 10: // Unicode full  (include 10 from FontForge bug)
			return 4
		}
	case 3: // Windows platform
		switch psid {
		case 1: // Unicode BMP
			return 2
		case 10: // Unicode full
			return 4
		}
	}
	return 0 // width 0 will never get selected
}

// The various cmap formats are described at
// https://www.microsoft.com/typography/otspec/cmap.htm
//
// From the spec.: Of the seven available formats, not all are commonly used
// today. Formats 4 or 12 are appropriate for most new fonts, depending on the
// Unicode character repertoire supported.
//
// We only support the following plaform/encoding/format combinations:
//
//	0 (Unicode)  3    4   Unicode BMP
//	0 (Unicode)  4    12  Unicode full  (10 from FontForge, error)
//	3 (Win)      1    4   Unicode BMP
//	3 (Win)      10   12  Unicode full
//
// Note that FontForge may generate a bogus Platform Specific ID (value 10)
// for the Unicode Platform ID (value 0). See
// https://github.com/fontforge/fontforge/issues/2728
func supportedCmapFormat(format, pid, psid uint16) bool {
	tracer().Debugf("checking supported cmap format (%d | %d | %d)", pid, psid, format)
	return (pid == 0 && psid == 3 && format == 4) ||
		(pid == 0 && psid == 4 && format == 12) ||
		(pid == 3 && psid == 1 && format == 4) ||
		(pid == 3 && psid == 10 && format == 12)
}

type encodingRecord struct {
	platformId uint16
	encodingId uint16
	offset     uint32 // offset of the sub-table from the start of the cmap table
	format     uint16
	width      int // encoding width in bytes
}

// parseCMap decodes the cmap table. A cmap table may contain more than one
// sub-table; we select the one with the widest supported encoding and
// instantiate a lookup structure for it.
func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	n, err := b.u16(2) // number of sub-tables
	if err != nil {
		return nil, errEof(tag, "Header", "cmap table too small")
	}
	tracer().Debugf("font cmap has %d sub-tables in %d|%d bytes", n, len(b), size)
	t := newCMapTable(tag, b, offset, size)
	const headerSize, entrySize = 4, 8

	var enc encodingRecord
	for i := 0; i < int(n); i++ {
		rec, err := b.view(headerSize+entrySize*i, entrySize)
		if err != nil {
			return nil, errEof(tag, "EncodingRecords", "cmap encoding records incomplete")
		}
		pid, psid := u16(rec), u16(rec[2:])
		width := platformEncodingWidth(pid, psid)
		if width <= enc.width {
			continue
		}
		subOffset := u32(rec[4:])
		format, err := b.u16(int(subOffset))
		if err != nil {
			tracer().Infof("cmap sub-table cannot be read")
			continue
		}
		if supportedCmapFormat(format, pid, psid) {
			enc.platformId = pid
			enc.encodingId = psid
			enc.offset = subOffset
			enc.format = format
			enc.width = width
		}
	}
	if enc.width == 0 {
		return nil, errUnknownFormat(tag, "Format", "no supported cmap format found")
	}
	if t.GlyphIndexMap, err = makeGlyphIndex(b, enc); err != nil {
		return nil, err
	}
	return t, nil
}

// Dispatcher to create the correct implementation of a CMapGlyphIndex from a
// given format.
func makeGlyphIndex(b binarySegm, which encodingRecord) (CMapGlyphIndex, error) {
	subtable := b[which.offset:]
	switch which.format {
	case 4:
		return makeGlyphIndexFormat4(subtable)
	case 12:
		return makeGlyphIndexFormat12(subtable)
	}
	panic("unreachable") // unsupported formats should have been weeded out beforehand
}

// CMapGlyphIndex represents a CMap table index to receive a glyph index from
// a code-point.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex        // central activity of CMap
	ReverseLookup(GlyphIndex) rune // this is non-standard, but helps with tests
}

// Format 4: Segment mapping to delta values
// This is the standard character-to-glyph-index mapping subtable for fonts
// that support only Unicode Basic Multilingual Plane characters
// (U+0000 to U+FFFF).
//
// This format is used when the character codes for the characters represented
// by a font fall into several contiguous ranges, possibly with holes in some
// or all of the ranges (that is, some of the codes in a range may not have a
// representation in the font).
type format4GlyphIndex struct {
	segCnt   int
	entries  []cmapEntry16
	glyphIds binarySegm
}

// Format 4 holds four parallel arrays to describe the segments (one segment
// for each contiguous range of codes).
// see https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-4-segment-mapping-to-delta-values
type cmapEntry16 struct {
	end, start, delta, offset uint16
}

func (f4 format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if uint32(r) > 0xffff { // format 4 is for BMP code-points only
		return 0 // return index for 'missing character'
	}
	c := uint16(r)
	N := len(f4.entries)
	for i, j := 0, N; i < j; {
		h := i + (j-i)/2 // do a binary search on f4.entries (which may get large)
		entry := &f4.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else if entry.offset == 0 {
			return GlyphIndex(c + entry.delta)
		} else {
			// The spec describes the calculation to find the link into the
			// glyph ID array as follows:
			// “The character code offset from startCode is added to the
			//  idRangeOffset value. This sum is used as an offset from the
			//  current location within idRangeOffset itself to index out the
			//  correct glyphIdArray value. This obscure indexing trick works
			//  because glyphIdArray immediately follows idRangeOffset in the
			//  font file.”
			// We already sliced the cmap into sub-segments, so this will not
			// work for us. Instead, we calculate a clean index into the glyph
			// ID array by reversing some of the magic pre-calculations in the
			// font.
			//
			// First cut off the trailing part of offset which results from
			// skipping over to the start of the glyph ID array:
			deltaToEndOfEntries := (N - h) * 2 // 2 = byte size of offset array entry
			offset := int(entry.offset) - deltaToEndOfEntries
			// Now normalize the index into the glyph ID array
			index := offset / 2 // offset is in bytes, we need an array index
			index += int(c - entry.start)
			glyphInx, err := f4.glyphIds.u16(index * 2)
			if err != nil {
				return 0
			}
			if glyphInx > 0 {
				// If the value obtained from the indexing operation is not 0
				// (which indicates missingGlyph), idDelta[i] is added to it
				// to get the glyph index
				glyphInx += entry.delta
			}
			return GlyphIndex(glyphInx)
		}
	}
	return GlyphIndex(0)
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do
// not support this operation, thus this operation is inefficient.
// However, for testing and debugging purposes it is often useful.
func (f4 format4GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for _, entry := range f4.entries {
		if entry.end < entry.start || entry.start == 0xffff {
			break
		}
		// scan in int space: a segment may end at 0xffff, where a uint16
		// counter would wrap and never terminate
		for c := int(entry.start); c <= int(entry.end); c++ {
			if f4.Lookup(rune(c)) == gid {
				return rune(c)
			}
		}
	}
	return 0
}

// The format's data is divided into three parts, which must occur in the
// following order:
//
// - A four-word header gives parameters for an optimized search of the segment list;
// - Four parallel arrays describe the segments (one segment for each contiguous range of codes);
// - A variable-length array of glyph IDs (unsigned words).
func makeGlyphIndexFormat4(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 14
	if headerSize > b.Size() {
		return nil, errEof(T("cmap"), "Format4", "cmap subtable bounds overflow")
	}
	size, _ := b.u16(2)
	if int(size) > b.Size() {
		return nil, errEof(T("cmap"), "Format4", "cmap subtable bounds overflow")
	}
	segCount, _ := b.u16(6)
	if segCount&1 != 0 {
		tracer().Debugf("cmap format 4 segment count is %d", segCount)
		return nil, errUnknownFormat(T("cmap"), "Format4", "illegal segment count")
	}
	segCount /= 2
	eLength := 8*int(segCount) + 2
	if eLength > b.Size() || headerSize+eLength > int(size) {
		return nil, errUnknownFormat(T("cmap"), "Format4", "internal structure")
	}
	b = b[headerSize:size]
	next := 0
	endCodes := b[next : next+int(segCount)*2]
	next += int(segCount)*2 + 2 // 2 is a padding entry in the cmap table
	startCodes := b[next : next+int(segCount)*2]
	next += int(segCount) * 2
	deltas := b[next : next+int(segCount)*2]
	next += int(segCount) * 2
	offsets := b[next : next+int(segCount)*2]
	next += int(segCount) * 2
	entries := make([]cmapEntry16, segCount)
	for i := range entries {
		entries[i] = cmapEntry16{
			end:    u16(endCodes[i*2:]),
			start:  u16(startCodes[i*2:]),
			delta:  u16(deltas[i*2:]),
			offset: u16(offsets[i*2:]),
		}
	}
	glyphTable := b[next:]
	tracer().Debugf("cmap format 4 glyph table starts at offset %d", next)
	return format4GlyphIndex{
		segCnt:   int(segCount),
		entries:  entries,
		glyphIds: glyphTable,
	}, nil
}

type cmapEntry32 struct {
	start, end, delta uint32
}

// Each sequential map group record specifies a character range and the
// starting glyph ID mapped from the first character. Glyph IDs for subsequent
// characters follow in sequence.
type format12GlyphIndex struct {
	grpCnt  int
	entries []cmapEntry32
}

func (f12 format12GlyphIndex) Lookup(r rune) GlyphIndex {
	c := uint32(r)
	for i, j := 0, len(f12.entries); i < j; {
		h := i + (j-i)/2 // do a binary search on f12.entries (which may get large)
		entry := &f12.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else {
			return GlyphIndex(c - entry.start + entry.delta)
		}
	}
	return 0
}

// ReverseLookup retrieves a code-point for a given glyph. Sequential map
// groups cover contiguous glyph ranges, so the code-point can be computed
// per group without a scan.
func (f12 format12GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	cid := uint32(gid)
	for _, entry := range f12.entries {
		// a group maps glyphs delta … delta+(end-start) in sequence, so the
		// code-point can be computed directly instead of scanning the range
		if entry.end < entry.start || cid < entry.delta {
			continue
		}
		d := uint64(cid - entry.delta)
		if d <= uint64(entry.end)-uint64(entry.start) {
			return rune(uint64(entry.start) + d)
		}
	}
	return 0
}

// This is the standard character-to-glyph-index mapping subtable for fonts
// supporting Unicode character repertoires that include supplementary-plane
// characters (U+10000 to U+10FFFF).
//
// Format 12 is similar to format 4 in that it defines segments for sparse
// representation. It differs, however, in that it uses 32-bit character
// codes, and Glyph ID lookup and calculation is a lot simpler.
func makeGlyphIndexFormat12(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 16
	if headerSize > b.Size() {
		return nil, errEof(T("cmap"), "Format12", "cmap subtable bounds overflow")
	}
	size, _ := b.u32(4)
	if int(size) > b.Size() {
		return nil, errEof(T("cmap"), "Format12", "cmap subtable bounds overflow")
	}
	grpCount, _ := b.u32(12)
	eLength, err := checkedMulInt(12, int(grpCount))
	if err != nil {
		return nil, errUnknownFormat(T("cmap"), "Format12",
			fmt.Sprintf("group count too large: %v", err))
	}
	if eLength > b.Size() || eLength+headerSize > int(size) {
		return nil, errUnknownFormat(T("cmap"), "Format12", "internal structure")
	}
	b = b[headerSize:size]
	// SequentialMapGroup Record:
	// Type     Name            Description
	// uint32   startCharCode   First character code in this group
	// uint32   endCharCode     Last character code in this group
	// uint32   startGlyphID    Glyph index corresponding to the starting character code
	entries := make([]cmapEntry32, grpCount)
	for i := range entries {
		g := b[i*12:]
		entries[i] = cmapEntry32{
			start: u32(g),
			end:   u32(g[4:]),
			delta: u32(g[8:]),
		}
	}
	return format12GlyphIndex{
		grpCnt:  int(grpCount),
		entries: entries,
	}, nil
}

// --- Glyph mapping over code-point ranges ----------------------------------

// CodepointRange is an inclusive range of Unicode code-points.
type CodepointRange struct {
	Start, End rune
}

// GlyphMappingEntry associates a code-point with its glyph index. Mapped is
// false for code-points the font does not cover; Glyph is 0 in that case,
// i.e. the index of the 'missing character'.
type GlyphMappingEntry struct {
	Codepoint rune
	Glyph     GlyphIndex
	Mapped    bool
}

// GlyphMapping is a flattened list of per-code-point mapping entries, in the
// order of the ranges it was produced from.
type GlyphMapping []GlyphMappingEntry

// GlyphMappingForCodepointRanges maps every code-point of the given ranges to
// its glyph index, in order. Code-points without coverage in the font are
// included in the result with Mapped set to false, so the result always holds
// one entry per code-point of the input ranges.
//
// A range with End < Start is empty and contributes nothing.
func (otf *Font) GlyphMappingForCodepointRanges(ranges []CodepointRange) (GlyphMapping, error) {
	if otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return nil, errMissingTable(T("cmap"))
	}
	var total int
	for _, rg := range ranges {
		if rg.End < rg.Start {
			continue
		}
		total += int(rg.End-rg.Start) + 1
	}
	mapping := make(GlyphMapping, 0, total)
	for _, rg := range ranges {
		for c := rg.Start; c <= rg.End; c++ {
			gid := otf.CMap.GlyphIndexMap.Lookup(c)
			mapping = append(mapping, GlyphMappingEntry{
				Codepoint: c,
				Glyph:     gid,
				Mapped:    gid != 0,
			})
		}
	}
	return mapping, nil
}
