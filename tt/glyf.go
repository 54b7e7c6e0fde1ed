package tt

import "fmt"

// Decoding of simple glyph descriptions from table 'glyf', and classification
// of the decoded points into a curve-point sequence suitable for path
// construction.
//
// See https://docs.microsoft.com/en-us/typography/opentype/spec/glyf

// Simple glyph flags, per the OpenType specification.
const (
	flagOnCurve            = 0x01 // ON_CURVE_POINT
	flagXShortVector       = 0x02 // X_SHORT_VECTOR
	flagYShortVector       = 0x04 // Y_SHORT_VECTOR
	flagRepeat             = 0x08 // REPEAT_FLAG
	flagXIsSameOrPositiveX = 0x10 // X_IS_SAME_OR_POSITIVE_X_SHORT_VECTOR
	flagYIsSameOrPositiveY = 0x20 // Y_IS_SAME_OR_POSITIVE_Y_SHORT_VECTOR
)

// PointKind classifies a point of a glyph outline.
type PointKind uint8

const (
	// OnCurve is a point the contour passes through. Consecutive on-curve
	// points are connected by straight lines.
	OnCurve PointKind = iota
	// QuadControl is the off-curve control point of a quadratic Bézier
	// segment, as used by TrueType outlines.
	QuadControl
	// FirstCubicControl is the first of the two control points of a cubic
	// Bézier segment. TrueType 'glyf' outlines never produce cubic control
	// points; the kind exists for clients consuming mixed outline sources.
	FirstCubicControl
	// SecondCubicControl is the second of the two control points of a cubic
	// Bézier segment.
	SecondCubicControl
)

// String returns a short mnemonic for the point kind.
func (k PointKind) String() string {
	switch k {
	case OnCurve:
		return "on-curve"
	case QuadControl:
		return "quad-ctrl"
	case FirstCubicControl:
		return "cubic-ctrl-1"
	case SecondCubicControl:
		return "cubic-ctrl-2"
	}
	return "invalid"
}

// Point is one point of a glyph outline, in font design units.
//
// Coordinates are floating point because synthesized on-curve points sit at
// the midpoint of two integer-valued control points and may end on a half
// unit.
//
// IndexInContour counts the points emitted for the current contour, including
// synthesized ones, and restarts at 0 with every contour. A point with
// IndexInContour == 0 therefore starts a new contour; path builders emit a
// move-to for it.
type Point struct {
	X, Y           float32
	Kind           PointKind
	IndexInContour uint32
}

// Buffer holds re-usable scratch memory for glyph decoding. Re-using a Buffer
// across calls to Font.ForEachPoint avoids repeated allocation of the
// intermediate point arrays. The zero value is ready to use; a nil *Buffer is
// accepted as well.
//
// A Buffer must not be used concurrently.
type Buffer struct {
	ends  []uint16 // per contour: index of its last point
	flags []uint8  // per point: simple glyph flags
	xs    []int16  // per point: absolute x coordinate
	ys    []int16  // per point: absolute y coordinate
}

func (buf *Buffer) grow(contours, points int) {
	if cap(buf.ends) < contours {
		buf.ends = make([]uint16, contours)
	}
	buf.ends = buf.ends[:contours]
	if cap(buf.flags) < points {
		buf.flags = make([]uint8, points)
		buf.xs = make([]int16, points)
		buf.ys = make([]int16, points)
	}
	buf.flags = buf.flags[:points]
	buf.xs = buf.xs[:points]
	buf.ys = buf.ys[:points]
}

// ForEachPoint decodes the outline of glyph gid and calls visit once for
// every point of the outline, contour by contour, in font file order.
//
// TrueType stores quadratic curves with an optimization: the on-curve point
// between two consecutive off-curve control points is implied. ForEachPoint
// synthesizes these implied points, so the visited sequence is fully
// materialized; between two QuadControl points there is always an OnCurve
// point. A contour that starts with an off-curve point is rotated to start
// with an on-curve point (the contour's last point if that one is on-curve,
// otherwise a synthesized midpoint), so IndexInContour == 0 always denotes an
// on-curve contour start.
//
// A glyph without an outline (e.g. the space character) yields no calls and
// no error. Composite glyphs are not flattened and yield an
// UnsupportedCompositeGlyph error. An error returned by visit aborts the
// walk and is returned verbatim.
//
// buf may be nil; passing a re-used Buffer avoids per-call allocations.
func (otf *Font) ForEachPoint(gid GlyphIndex, buf *Buffer, visit func(Point) error) error {
	if int(gid) >= otf.MaxP.NumGlyphs {
		return FontError{Kind: InvalidGlyphIndex, Table: T("glyf"),
			Issue: fmt.Sprintf("glyph index %d out of range (font has %d glyphs)",
				gid, otf.MaxP.NumGlyphs)}
	}
	start, end, err := otf.Loca.GlyphRange(gid)
	if err != nil {
		return err
	}
	if start == end { // glyph without an outline
		return nil
	}
	glyf := otf.Glyf.data
	if int(end) > len(glyf) {
		return errEof(T("glyf"), "Bounds", "glyph description exceeds glyf table")
	}
	if buf == nil {
		buf = &Buffer{}
	}
	if err := decodeSimpleGlyph(glyf[start:end], buf); err != nil {
		return err
	}
	return walkContours(buf, visit)
}

// decodeSimpleGlyph decodes a simple glyph description into buf: contour end
// indices, per-point flags and absolute coordinates. The delta-encoded
// coordinate streams are materialized into plain arrays before any curve
// interpretation takes place.
func decodeSimpleGlyph(b binarySegm, buf *Buffer) error {
	glyfT := T("glyf")
	c := cursorOn(b, glyfT)
	numContours, err := c.readI16("Header")
	if err != nil {
		return err
	}
	if numContours < 0 {
		return FontError{Kind: UnsupportedCompositeGlyph, Table: glyfT, Section: "Header",
			Issue: "composite glyphs are not supported"}
	}
	if err = c.jump(8); err != nil { // xMin, yMin, xMax, yMax
		return errEof(glyfT, "Header", "glyph description truncated")
	}
	if numContours == 0 {
		buf.grow(0, 0) // clear possibly stale scratch state
		return nil
	}

	// Contour end point indices, non-decreasing; the last one determines the
	// point count.
	buf.grow(int(numContours), 0)
	prev := uint16(0)
	for i := 0; i < int(numContours); i++ {
		e, err := c.readU16("Endpoints")
		if err != nil {
			return err
		}
		if i > 0 && e < prev {
			return errUnknownFormat(glyfT, "Endpoints", "contour end points not monotonic")
		}
		buf.ends[i] = e
		prev = e
	}
	numPoints := int(prev) + 1
	buf.grow(int(numContours), numPoints)

	// Skip the hinting instructions.
	instructionLen, err := c.readU16("Instructions")
	if err != nil {
		return err
	}
	if err = c.jump(int(instructionLen)); err != nil {
		return errEof(glyfT, "Instructions", "glyph description truncated")
	}

	// Flags, run-length encoded.
	for i := 0; i < numPoints; {
		f, err := c.readU8("Flags")
		if err != nil {
			return err
		}
		buf.flags[i] = f
		i++
		if f&flagRepeat != 0 {
			r, err := c.readU8("Flags")
			if err != nil {
				return err
			}
			if i+int(r) > numPoints {
				return errUnknownFormat(glyfT, "Flags", "flag repeat count exceeds point count")
			}
			for ; r > 0; r-- {
				buf.flags[i] = f
				i++
			}
		}
	}

	// X coordinates, delta-encoded; accumulate into absolute values.
	var x int16
	for i := 0; i < numPoints; i++ {
		f := buf.flags[i]
		if f&flagXShortVector != 0 {
			d, err := c.readU8("XCoordinates")
			if err != nil {
				return err
			}
			if f&flagXIsSameOrPositiveX != 0 {
				x += int16(d)
			} else {
				x -= int16(d)
			}
		} else if f&flagXIsSameOrPositiveX == 0 {
			d, err := c.readI16("XCoordinates")
			if err != nil {
				return err
			}
			x += d
		} // else: x unchanged
		buf.xs[i] = x
	}

	// Y coordinates, same scheme.
	var y int16
	for i := 0; i < numPoints; i++ {
		f := buf.flags[i]
		if f&flagYShortVector != 0 {
			d, err := c.readU8("YCoordinates")
			if err != nil {
				return err
			}
			if f&flagYIsSameOrPositiveY != 0 {
				y += int16(d)
			} else {
				y -= int16(d)
			}
		} else if f&flagYIsSameOrPositiveY == 0 {
			d, err := c.readI16("YCoordinates")
			if err != nil {
				return err
			}
			y += d
		}
		buf.ys[i] = y
	}
	return nil
}

// walkContours walks the decoded point arrays contour by contour, classifies
// each point and synthesizes the implied on-curve points between consecutive
// off-curve control points.
func walkContours(buf *Buffer, visit func(Point) error) error {
	lo := 0
	for _, e := range buf.ends {
		hi := int(e) // inclusive
		if err := walkContour(buf, lo, hi, visit); err != nil {
			return err
		}
		lo = hi + 1
	}
	return nil
}

func walkContour(buf *Buffer, lo, hi int, visit func(Point) error) error {
	if hi < lo {
		return nil
	}
	var index uint32
	emit := func(kind PointKind, x, y float32) error {
		p := Point{X: x, Y: y, Kind: kind, IndexInContour: index}
		index++
		return visit(p)
	}
	on := func(i int) bool { return buf.flags[i]&flagOnCurve != 0 }
	at := func(i int) (float32, float32) {
		return float32(buf.xs[i]), float32(buf.ys[i])
	}

	// Establish an on-curve contour start. If the contour's first point is
	// off-curve, the contour conceptually starts at the preceding on-curve
	// point, which by wrap-around is the contour's last point. If that one is
	// off-curve as well, the start is the implied midpoint of the two.
	last := hi
	if !on(lo) {
		fx, fy := at(lo)
		lx, ly := at(last)
		if on(last) {
			if err := emit(OnCurve, lx, ly); err != nil {
				return err
			}
			last-- // consumed as the contour start
		} else {
			if err := emit(OnCurve, (fx+lx)/2, (fy+ly)/2); err != nil {
				return err
			}
		}
	}

	prevOffCurve := false
	var prevX, prevY float32
	for i := lo; i <= last; i++ {
		x, y := at(i)
		if on(i) {
			if err := emit(OnCurve, x, y); err != nil {
				return err
			}
			prevOffCurve = false
			continue
		}
		if prevOffCurve {
			// Two consecutive off-curve points imply an on-curve point at
			// their midpoint.
			if err := emit(OnCurve, (prevX+x)/2, (prevY+y)/2); err != nil {
				return err
			}
		}
		if err := emit(QuadControl, x, y); err != nil {
			return err
		}
		prevOffCurve = true
		prevX, prevY = x, y
	}
	return nil
}
