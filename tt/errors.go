package tt

import "fmt"

// ErrorKind classifies a font decoding error. Every failure of this package
// carries exactly one kind, so callers can react to classes of failures
// (truncated input, unsupported sub-format, …) without string matching.
type ErrorKind int

const (
	// Eof indicates that a read or jump exceeded the remaining bytes of the
	// current table or of the font blob.
	Eof ErrorKind = iota
	// UnknownFormat indicates an unrecognized sfnt version tag or a bad
	// magic number.
	UnknownFormat
	// UnsupportedHeadVersion indicates a 'head' table with a version other
	// than 1.0.
	UnsupportedHeadVersion
	// UnsupportedGlyphFormat indicates a 'head' table announcing a glyph
	// data format other than 0.
	UnsupportedGlyphFormat
	// InvalidGlyphIndex indicates a requested glyph index outside of
	// [0, maxp.numGlyphs).
	InvalidGlyphIndex
	// UnsupportedCompositeGlyph indicates a composite glyph where only
	// simple glyphs are handled.
	UnsupportedCompositeGlyph
	// MissingTable indicates a required table absent from the font's table
	// directory.
	MissingTable
)

// String returns a human-readable representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case Eof:
		return "EOF"
	case UnknownFormat:
		return "UNKNOWN-FORMAT"
	case UnsupportedHeadVersion:
		return "UNSUPPORTED-HEAD-VERSION"
	case UnsupportedGlyphFormat:
		return "UNSUPPORTED-GLYPH-FORMAT"
	case InvalidGlyphIndex:
		return "INVALID-GLYPH-INDEX"
	case UnsupportedCompositeGlyph:
		return "UNSUPPORTED-COMPOSITE-GLYPH"
	case MissingTable:
		return "MISSING-TABLE"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font decoding. Errors are
// terminal for the current operation; malformed or truncated input cannot be
// fixed by retrying.
type FontError struct {
	Kind    ErrorKind // classification of the failure
	Table   Tag       // the table where the error occurred (zero Tag if the directory itself)
	Section string    // specific section within the table (e.g., "Header", "Flags")
	Issue   string    // human-readable description of the issue
	Offset  uint32    // byte offset in the font file where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	where := e.Table.String()
	if e.Section != "" {
		where += "/" + e.Section
	}
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s at offset %d: %s", e.Kind, where, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, where, e.Issue)
}

// IsKind reports whether err is a FontError of kind k.
func IsKind(err error, k ErrorKind) bool {
	if ferr, ok := err.(FontError); ok {
		return ferr.Kind == k
	}
	return false
}

func errEof(table Tag, section string, issue string) FontError {
	return FontError{Kind: Eof, Table: table, Section: section, Issue: issue}
}

func errUnknownFormat(table Tag, section string, issue string) FontError {
	return FontError{Kind: UnknownFormat, Table: table, Section: section, Issue: issue}
}

func errMissingTable(tag Tag) FontError {
	return FontError{Kind: MissingTable, Table: tag, Issue: "required table not present in font"}
}
