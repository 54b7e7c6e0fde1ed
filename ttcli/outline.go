package main

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/npillmayer/truetype/tt"
	"github.com/npillmayer/truetype/ttquery"
	"github.com/pterm/pterm"
)

func mapOp(intp *Intp, op *Op) (err error, stop bool) {
	rg, err := codepointRange(op)
	if err != nil {
		return err, false
	}
	mapping, err := intp.font.GlyphMappingForCodepointRanges([]tt.CodepointRange{rg})
	if err != nil {
		return err, false
	}
	data := [][]string{
		{"Code-point", "Glyph", "Mapped"},
	}
	for _, entry := range mapping {
		mapped := "yes"
		if !entry.Mapped {
			mapped = "-"
		}
		data = append(data, []string{
			fmt.Sprintf("%#U", entry.Codepoint),
			fmt.Sprintf("%d", entry.Glyph),
			mapped,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func coverageOp(intp *Intp, op *Op) (err error, stop bool) {
	rg, err := codepointRange(op)
	if err != nil {
		return err, false
	}
	info, err := ttquery.GlyphCoverage(intp.font, []tt.CodepointRange{rg})
	if err != nil {
		return err, false
	}
	pterm.Printf("%d of %d code-points covered\n", info.Mapped, info.Total)
	if info.Complete() {
		pterm.Info.Println("coverage is complete")
	}
	return nil, false
}

// outlineOp prints the outline of a glyph as path commands, one point per
// line. A contour start prints as a move-to (M), on-curve points as
// line-to (L), control points as Q or C.
func outlineOp(intp *Intp, op *Op) (err error, stop bool) {
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("outline needs a glyph argument, e.g. outline:A or outline:42"), false
	}
	gid, err := glyphArg(intp, arg)
	if err != nil {
		return err, false
	}
	pterm.Printf("glyph %d:\n", gid)
	count := 0
	err = intp.font.ForEachPoint(gid, &intp.buf, func(p tt.Point) error {
		count++
		pterm.Printf("  %s %g %g\n", pathCommand(p), p.X, p.Y)
		return nil
	})
	if err != nil {
		return err, false
	}
	if count == 0 {
		pterm.Info.Println("glyph has no outline")
	}
	return nil, false
}

func pathCommand(p tt.Point) string {
	if p.IndexInContour == 0 {
		return "M"
	}
	switch p.Kind {
	case tt.QuadControl:
		return "Q"
	case tt.FirstCubicControl, tt.SecondCubicControl:
		return "C"
	}
	return "L"
}

// glyphArg resolves a command argument to a glyph index: either a numeric
// glyph index or a character to look up in the font's cmap.
func glyphArg(intp *Intp, arg string) (tt.GlyphIndex, error) {
	if n, err := strconv.ParseUint(arg, 0, 16); err == nil {
		return tt.GlyphIndex(n), nil
	}
	r, _ := utf8.DecodeRuneInString(arg)
	if r == utf8.RuneError {
		return 0, fmt.Errorf("cannot interpret glyph argument %q", arg)
	}
	gid := intp.font.CMap.GlyphIndexMap.Lookup(r)
	if gid == 0 {
		return 0, fmt.Errorf("font has no glyph for %#U", r)
	}
	return gid, nil
}

// codepointRange reads a code-point range from a command's arguments, e.g.
// "map:A:Z" or "coverage:0x20:0x7e". A missing second argument denotes a
// single code-point.
func codepointRange(op *Op) (tt.CodepointRange, error) {
	start, err := codepointArg(op.arg)
	if err != nil {
		return tt.CodepointRange{}, err
	}
	end := start
	if op.arg2 != "" {
		if end, err = codepointArg(op.arg2); err != nil {
			return tt.CodepointRange{}, err
		}
	}
	if end < start {
		return tt.CodepointRange{}, fmt.Errorf("empty code-point range %#U … %#U", start, end)
	}
	return tt.CodepointRange{Start: start, End: end}, nil
}

// codepointArg interprets an argument as a code-point: a single character, or
// a number like 65 or 0x41.
func codepointArg(arg string) (rune, error) {
	if arg == "" {
		return 0, errors.New("missing code-point argument")
	}
	if n, err := strconv.ParseUint(arg, 0, 21); err == nil && utf8.RuneCountInString(arg) > 1 {
		return rune(n), nil
	}
	r, _ := utf8.DecodeRuneInString(arg)
	if r == utf8.RuneError {
		return 0, fmt.Errorf("cannot interpret code-point argument %q", arg)
	}
	return r, nil
}
