package ttquery

import (
	"github.com/npillmayer/truetype/tt"
)

// FontType returns a descriptive string for the font's container flavour,
// one of "TrueType", "OpenType" or "unknown".
func FontType(otf *tt.Font) string {
	if otf == nil || otf.Header == nil {
		return "unknown"
	}
	switch otf.Header.FontType {
	case 0x00010000, 0x74727565: // TrueType, 'true'
		return "TrueType"
	case 0x4f54544f: // 'OTTO'
		return "OpenType"
	}
	return "unknown"
}

// CodePointForGlyph performs a reverse lookup of the font's cmap table: it
// returns a code-point which maps to the given glyph, or 0 if there is none.
// cmap tables do not support this direction, so this is a linear operation,
// intended for testing and debugging.
func CodePointForGlyph(otf *tt.Font, gid tt.GlyphIndex) rune {
	if otf == nil || otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return 0
	}
	return otf.CMap.GlyphIndexMap.ReverseLookup(gid)
}

// CoverageInfo summarizes how well a font covers a set of code-point ranges.
type CoverageInfo struct {
	Total  int // number of code-points probed
	Mapped int // number of code-points with a glyph
}

// Complete reports whether every probed code-point has a glyph.
func (ci CoverageInfo) Complete() bool {
	return ci.Total == ci.Mapped
}

// GlyphCoverage probes the font's character mapping for every code-point of
// the given ranges and reports how many of them resolve to a glyph.
func GlyphCoverage(otf *tt.Font, ranges []tt.CodepointRange) (CoverageInfo, error) {
	mapping, err := otf.GlyphMappingForCodepointRanges(ranges)
	if err != nil {
		return CoverageInfo{}, err
	}
	info := CoverageInfo{Total: len(mapping)}
	for _, entry := range mapping {
		if entry.Mapped {
			info.Mapped++
		}
	}
	return info, nil
}
