/*
Package ttquery provides queries into fonts parsed by package tt.

Where package tt decodes just enough of a font to extract glyph geometry,
ttquery answers informational questions on top of it: full views over the
'head' and 'maxp' tables, naming entries, and code-point coverage. Queries
never fail hard on incomplete fonts; missing information yields zero values
or an ok-flag.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ttquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.truetype'
func tracer() tracing.Trace {
	return tracing.Select("font.truetype")
}
