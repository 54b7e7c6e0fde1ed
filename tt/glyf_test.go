package tt

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func collectPoints(t *testing.T, otf *Font, gid GlyphIndex) []Point {
	t.Helper()
	var points []Point
	err := otf.ForEachPoint(gid, nil, func(p Point) error {
		points = append(points, p)
		return nil
	})
	if err != nil {
		t.Fatalf("cannot extract outline of glyph %d: %v", gid, err)
	}
	return points
}

func TestOutlineTriangle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t, buildSimpleGlyph([]testPoint{
		{0, 0, true}, {100, 0, true}, {50, 80, true},
	})))
	points := collectPoints(t, otf, 1)
	want := []Point{
		{X: 0, Y: 0, Kind: OnCurve, IndexInContour: 0},
		{X: 100, Y: 0, Kind: OnCurve, IndexInContour: 1},
		{X: 50, Y: 80, Kind: OnCurve, IndexInContour: 2},
	}
	assert.Equal(t, want, points)
}

// Two consecutive off-curve control points imply an on-curve point at their
// midpoint.
func TestOutlineImpliedMidpoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t, buildSimpleGlyph([]testPoint{
		{0, 0, true}, {10, 0, false}, {20, 0, false}, {30, 0, true},
	})))
	points := collectPoints(t, otf, 1)
	want := []Point{
		{X: 0, Y: 0, Kind: OnCurve, IndexInContour: 0},
		{X: 10, Y: 0, Kind: QuadControl, IndexInContour: 1},
		{X: 15, Y: 0, Kind: OnCurve, IndexInContour: 2}, // synthesized
		{X: 20, Y: 0, Kind: QuadControl, IndexInContour: 3},
		{X: 30, Y: 0, Kind: OnCurve, IndexInContour: 4},
	}
	assert.Equal(t, want, points)
}

// Midpoints of integer-valued control points may end on a half design unit.
func TestOutlineHalfUnitMidpoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t, buildSimpleGlyph([]testPoint{
		{0, 0, true}, {10, 5, false}, {21, 10, false}, {30, 0, true},
	})))
	points := collectPoints(t, otf, 1)
	if points[2].Kind != OnCurve {
		t.Fatalf("expected point 2 to be synthesized on-curve, is %s", points[2].Kind)
	}
	assert.Equal(t, float32(15.5), points[2].X)
	assert.Equal(t, float32(7.5), points[2].Y)
}

// A contour starting off-curve conceptually starts at the preceding on-curve
// point, i.e. by wrap-around at the contour's last point.
func TestOutlineContourStartsOffCurve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t, buildSimpleGlyph([]testPoint{
		{10, 0, false}, {20, 20, true}, {0, 20, true}, {0, 0, true},
	})))
	points := collectPoints(t, otf, 1)
	want := []Point{
		{X: 0, Y: 0, Kind: OnCurve, IndexInContour: 0}, // rotated contour start
		{X: 10, Y: 0, Kind: QuadControl, IndexInContour: 1},
		{X: 20, Y: 20, Kind: OnCurve, IndexInContour: 2},
		{X: 0, Y: 20, Kind: OnCurve, IndexInContour: 3},
	}
	assert.Equal(t, want, points)
}

// A contour where both the first and the last point are off-curve starts at
// their synthesized midpoint.
func TestOutlineContourStartsAndEndsOffCurve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t, buildSimpleGlyph([]testPoint{
		{10, 0, false}, {20, 20, true}, {0, 10, false},
	})))
	points := collectPoints(t, otf, 1)
	want := []Point{
		{X: 5, Y: 5, Kind: OnCurve, IndexInContour: 0}, // midpoint of last and first
		{X: 10, Y: 0, Kind: QuadControl, IndexInContour: 1},
		{X: 20, Y: 20, Kind: OnCurve, IndexInContour: 2},
		{X: 0, Y: 10, Kind: QuadControl, IndexInContour: 3},
	}
	assert.Equal(t, want, points)
}

// IndexInContour restarts at 0 with every contour, marking contour starts for
// path builders.
func TestOutlineMultipleContours(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t, buildSimpleGlyph(
		[]testPoint{{0, 0, true}, {100, 0, true}, {100, 100, true}, {0, 100, true}},
		[]testPoint{{20, 20, true}, {20, 80, true}, {80, 80, true}}, // inner contour, reversed
	)))
	points := collectPoints(t, otf, 1)
	if len(points) != 7 {
		t.Fatalf("expected 7 points over 2 contours, have %d", len(points))
	}
	var starts []int
	for i, p := range points {
		if p.IndexInContour == 0 {
			starts = append(starts, i)
		}
	}
	assert.Equal(t, []int{0, 4}, starts)
	assert.Equal(t, uint32(3), points[3].IndexInContour)
	assert.Equal(t, uint32(2), points[6].IndexInContour)
}

// The space character has no outline; its glyph yields no points and no
// error.
func TestOutlineEmptyGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t, buildSimpleGlyph([]testPoint{
		{0, 0, true}, {10, 0, true}, {10, 10, true},
	})))
	points := collectPoints(t, otf, 0) // glyph 0 is built without an outline
	if len(points) != 0 {
		t.Errorf("expected no points for an empty glyph, have %d", len(points))
	}
}

func TestOutlineInvalidGlyphIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t))
	err := otf.ForEachPoint(99, nil, func(Point) error { return nil })
	if !IsKind(err, InvalidGlyphIndex) {
		t.Fatalf("expected InvalidGlyphIndex, got %v", err)
	}
}

func TestOutlineCompositeGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	// A glyph description with numberOfContours = -1 announces a composite
	// glyph.
	composite := []byte{
		0xff, 0xff, // numberOfContours = -1
		0, 0, 0, 0, 0, 0, 0, 0, // bbox
		0, 1, // component glyph flags and index (not decoded)
	}
	otf := parseTestFont(t, buildTestFont(t, composite))
	err := otf.ForEachPoint(1, nil, func(Point) error { return nil })
	if !IsKind(err, UnsupportedCompositeGlyph) {
		t.Fatalf("expected UnsupportedCompositeGlyph, got %v", err)
	}
}

// An error returned by the visitor aborts the walk and is handed through
// verbatim, distinguishable from any decoding error.
func TestOutlineVisitorError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	otf := parseTestFont(t, buildTestFont(t, buildSimpleGlyph([]testPoint{
		{0, 0, true}, {100, 0, true}, {50, 80, true},
	})))
	stop := errors.New("stop after first point")
	visits := 0
	err := otf.ForEachPoint(1, nil, func(Point) error {
		visits++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected the visitor's error, got %v", err)
	}
	if visits != 1 {
		t.Errorf("expected walk to abort after 1 visit, had %d", visits)
	}
}

// A re-used Buffer must yield the same results as freshly allocated scratch
// memory, also when a larger glyph was decoded into it before.
func TestOutlineBufferReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	big := buildSimpleGlyph(
		[]testPoint{{0, 0, true}, {10, 0, true}, {10, 10, true}, {0, 10, true}},
		[]testPoint{{2, 2, true}, {2, 8, true}, {8, 8, true}, {8, 2, true}},
	)
	small := buildSimpleGlyph([]testPoint{{0, 0, true}, {5, 0, true}, {5, 5, true}})
	otf := parseTestFont(t, buildTestFont(t, big, small))
	buf := &Buffer{}
	fresh := collectPoints(t, otf, 2)
	for round := 0; round < 2; round++ {
		var points []Point
		err := otf.ForEachPoint(2, buf, func(p Point) error {
			points = append(points, p)
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, fresh, points, "round %d", round)
		// decode the bigger glyph in between to dirty the buffer
		if err := otf.ForEachPoint(1, buf, func(Point) error { return nil }); err != nil {
			t.Fatal(err)
		}
	}
}

// Flags may be run-length encoded and coordinates delta-compressed to single
// bytes; decoding must match the uncompressed encoding of the same outline.
func TestOutlineCompressedEncoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	// By hand: a square with all four points on-curve, flags RLE-compressed,
	// coordinates as short vectors with sign bits.
	var g []byte
	g = append(g, 0, 1) // numberOfContours = 1
	g = append(g, make([]byte, 8)...)
	g = append(g, 0, 3) // endPtsOfContours = [3]
	g = append(g, 0, 0) // no instructions
	g = append(g, flagOnCurve|flagXShortVector|flagYShortVector|flagRepeat, 3)
	// x deltas: 0, +10, 0, -10  (sign bit = flagXIsSameOrPositiveX)
	// With X_SHORT_VECTOR set on all points, every delta is one byte; the
	// flag variant "same as previous" is not used here, a zero byte encodes
	// a zero delta.
	g = append(g, 0, 10, 0, 10)
	g = append(g, 0, 0, 10, 10)
	otf := parseTestFont(t, buildTestFont(t, g))
	points := collectPoints(t, otf, 1)
	// All sign bits are clear, so deltas are subtracted.
	want := []Point{
		{X: 0, Y: 0, Kind: OnCurve, IndexInContour: 0},
		{X: -10, Y: 0, Kind: OnCurve, IndexInContour: 1},
		{X: -10, Y: -10, Kind: OnCurve, IndexInContour: 2},
		{X: -20, Y: -20, Kind: OnCurve, IndexInContour: 3},
	}
	assert.Equal(t, want, points)
}

func TestOutlineTruncatedGlyphData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.truetype")
	defer teardown()
	//
	glyph := buildSimpleGlyph([]testPoint{
		{0, 0, true}, {100, 0, false}, {100, 100, true},
	})
	for size := len(glyph) - 1; size > 0; size-- {
		buf := &Buffer{}
		err := decodeSimpleGlyph(glyph[:size], buf)
		if err == nil {
			t.Fatalf("expected truncated glyph data (%d bytes) to fail", size)
		}
		if _, ok := err.(FontError); !ok {
			t.Fatalf("size %d: expected a FontError, got %T: %v", size, err, err)
		}
	}
}
