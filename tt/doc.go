/*
Package tt decodes sfnt font files (TrueType and OpenType) to the extent
needed for glyph geometry extraction. Intended audience for this package are:

▪︎ rasterizers and path exporters, which need glyph outlines as sequences of
curve points

▪︎ text renderers, which need to map Unicode code-points to glyph indices

▪︎ any tool needing safe, typed access to the binary tables of a font file
without linking a full font-rendering engine

Package `tt` is a decoder, not a font validator: fonts are checked exactly as
far as necessary to extract the requested data without ever reading out of
bounds. Malformed or truncated input yields a typed error, never a panic.

The package performs no I/O. Clients hand in a fully materialized byte slice
(read from a file, memory-mapped, embedded, …) and the decoder borrows it:
tables are views into the original slice, never copies, and the slice must
not be mutated while a Font derived from it is in use. All derived values are
read-only after parsing, so a Font may be shared freely between goroutines.

Out of scope: rasterization, hinting-instruction execution, variable-font
interpolation, color-font tables, and font collections (*.ttc).

# Status

Simple TrueType outlines ('glyf'/'loca') and cmap formats 4 and 12 are
supported. Composite glyphs are recognized but not flattened. The 'OTTO'
version tag is accepted, but fonts lacking the TrueType outline tables are
rejected with a MissingTable error.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package tt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.truetype'
func tracer() tracing.Trace {
	return tracing.Select("font.truetype")
}
