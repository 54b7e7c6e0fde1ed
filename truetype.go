/*
Package truetype decodes TrueType and OpenType font files for glyph geometry
extraction.

There is a certain confusion with the nomenclature of typesetting. We will
stick to the following definitions:

▪︎ A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

▪︎ A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

This package is the facade for the module: it parses a font from raw bytes
or from a file and answers the most common questions (family name, glyph
count). The heavy lifting is done by package `tt`, which decodes the sfnt
container, and package `ttquery`, which provides informational queries.
Clients extracting glyph outlines or code-point mappings use those packages
directly.

# Status

Does not yet contain methods for font collections (*.ttc), e.g.,
/System/Library/Fonts/Helvetica.ttc on Mac OS.

# Links

The sfnt container format explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package truetype

import (
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/truetype/tt"
	"github.com/npillmayer/truetype/ttquery"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'font.truetype'
func tracer() tracing.Trace {
	return tracing.Select("font.truetype")
}

// FromBinary parses raw sfnt bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font sfnt stream.
// It must not change after parsing for the font to be usable.
func FromBinary(data []byte) (*tt.Font, error) {
	return tt.Parse(data)
}

// FromFile reads a font file (TTF or OTF) and parses it.
func FromFile(fontfile string) (*tt.Font, error) {
	data, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	otf, err := tt.Parse(data)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("loaded and parsed font %q", fontfile)
	return otf, nil
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist or if records cannot
// be decoded by the current name-table reader.
func FamilyName(f *tt.Font) (family, subfamily string) {
	for nameId, stringValue := range ttquery.NamesRange(f) {
		switch nameId {
		case sfnt.NameIDFamily:
			family = stringValue
		case sfnt.NameIDSubfamily:
			subfamily = stringValue
		}
	}
	return
}
