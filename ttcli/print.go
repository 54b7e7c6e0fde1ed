package main

import (
	"fmt"

	"github.com/npillmayer/truetype/ttquery"
	"github.com/pterm/pterm"
)

func infoOp(intp *Intp, op *Op) (error, bool) {
	family, subfamily := familyNames(intp)
	data := [][]string{
		{"Property", "Value"},
		{"Font type", ttquery.FontType(intp.font)},
		{"Family", family},
		{"Subfamily", subfamily},
		{"Units per em", fmt.Sprintf("%d", intp.font.UnitsPerEm())},
		{"Glyph count", fmt.Sprintf("%d", intp.font.NumGlyphs())},
		{"Glyph bounds", fmt.Sprintf("%+v", intp.font.Head.MaxGlyphBounds)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func familyNames(intp *Intp) (family, subfamily string) {
	for nameId, value := range ttquery.NamesRange(intp.font) {
		switch int(nameId) {
		case 1: // family
			family = value
		case 2: // subfamily
			subfamily = value
		}
	}
	if family == "" {
		family = "-"
	}
	if subfamily == "" {
		subfamily = "-"
	}
	return
}

func tablesOp(intp *Intp, op *Op) (error, bool) {
	data := [][]string{
		{"Tag", "Offset", "Size"},
	}
	for _, tag := range intp.font.TableTags() {
		offset, size := intp.font.Table(tag).Extent()
		data = append(data, []string{
			tag.String(),
			fmt.Sprintf("%d", offset),
			fmt.Sprintf("%d", size),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func headOp(intp *Intp, op *Op) (error, bool) {
	h, ok := ttquery.HeadInfo(intp.font)
	if !ok {
		pterm.Error.Println("cannot decode table 'head'")
		return nil, false
	}
	data := [][]string{
		{"Field", "Value"},
		{"version", fmt.Sprintf("%d.%d", h.MajorVersion, h.MinorVersion)},
		{"fontRevision", fmt.Sprintf("%#08x", h.FontRevision)},
		{"magicNumber", fmt.Sprintf("%#08x", h.MagicNumber)},
		{"flags", fmt.Sprintf("%#016b", h.Flags)},
		{"unitsPerEm", fmt.Sprintf("%d", h.UnitsPerEm)},
		{"bounds", fmt.Sprintf("(%d,%d) … (%d,%d)", h.XMin, h.YMin, h.XMax, h.YMax)},
		{"macStyle", fmt.Sprintf("%#b", h.MacStyle)},
		{"lowestRecPPEM", fmt.Sprintf("%d", h.LowestRecPPEM)},
		{"indexToLocFormat", fmt.Sprintf("%d", h.IndexToLocFormat)},
		{"glyphDataFormat", fmt.Sprintf("%d", h.GlyphDataFormat)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func maxpOp(intp *Intp, op *Op) (error, bool) {
	m, ok := ttquery.MaxPInfo(intp.font)
	if !ok {
		pterm.Error.Println("cannot decode table 'maxp'")
		return nil, false
	}
	data := [][]string{
		{"Field", "Value"},
		{"version", fmt.Sprintf("%#08x", m.VersionFixed)},
		{"numGlyphs", fmt.Sprintf("%d", m.NumGlyphs)},
	}
	if m.HasExtendedProfile {
		data = append(data,
			[]string{"maxPoints", fmt.Sprintf("%d", m.MaxPoints)},
			[]string{"maxContours", fmt.Sprintf("%d", m.MaxContours)},
			[]string{"maxCompositePoints", fmt.Sprintf("%d", m.MaxCompositePoints)},
			[]string{"maxComponentDepth", fmt.Sprintf("%d", m.MaxComponentDepth)},
		)
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}
