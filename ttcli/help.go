package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "map", "coverage":
		pterm.Info.Println("map / coverage")
		pterm.Println(`
	map:<start>[:<end>] prints the glyph index for every code-point of a range,
	coverage:<start>[:<end>] summarizes how many of them have a glyph.

	Code-points may be given as characters or as numbers:
	   map:A:Z
	   map:0x20:0x7e
	`)
	case "outline":
		pterm.Info.Println("outline")
		pterm.Println(`
	outline:<glyph> prints the outline of a glyph as path commands,
	one point per line:
	   M  start of a contour (always on-curve)
	   L  on-curve point
	   Q  quadratic control point
	The on-curve point implied between two consecutive control points
	is printed explicitly.

	The glyph may be given as a character or as a glyph index:
	   outline:A
	   outline:42
	`)
	case "info", "tables", "head", "maxp":
		pterm.Info.Println("info / tables / head / maxp")
		pterm.Println(`
	info    prints general information about the loaded font
	tables  lists the font's tables with offsets and sizes
	head    dumps the fields of table 'head'
	maxp    dumps the fields of table 'maxp'
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	info      general information about the loaded font
	tables    list the font's tables
	head      dump table 'head'
	maxp      dump table 'maxp'
	map       map code-points to glyph indices  (help:map)
	coverage  summarize code-point coverage     (help:map)
	outline   print a glyph outline             (help:outline)
	quit      leave the CLI
	`)
	}
}
