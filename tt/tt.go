package tt

// Font represents the decoded structure of an sfnt font (TrueType or
// OpenType). It is used to map code-points to glyphs and to extract glyph
// outline geometry.
//
// A Font borrows the byte slice it was parsed from; the slice must outlive
// the Font and must not be mutated while the Font is in use. The Font itself
// is immutable after Parse and may be shared between goroutines.
type Font struct {
	Header *FontHeader
	tables map[Tag]Table
	Head   *HeadTable // typed access to head, always present
	MaxP   *MaxPTable // typed access to maxp, always present
	Loca   *LocaTable // typed access to loca, always present
	Glyf   *GlyfTable // typed access to glyf, always present
	CMap   *CMapTable // typed access to cmap, always present
}

// FontHeader is a directory of the top-level tables in a font. If the font
// file contains only one font, the table directory will begin at byte 0 of
// the file.
//
// Fonts that contain TrueType outlines use the value 0x00010000 for the
// FontType. Fonts containing CFF data use 0x4F54544F ('OTTO', when
// re-interpreted as a Tag). The Apple specification additionally allows
// 'true' for TrueType fonts.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Table tag names are case-sensitive, following the names in the OpenType
// specification, e.g. one of:
//
//	cmap cvt fpgm gasp glyf head hhea hmtx loca maxp name OS/2 post prep
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	return tags
}

// UnitsPerEm returns the design-unit resolution of the font's em square.
func (otf *Font) UnitsPerEm() uint16 {
	return otf.Head.UnitsPerEm
}

// NumGlyphs returns the number of glyphs in the font.
func (otf *Font) NumGlyphs() int {
	return otf.MaxP.NumGlyphs
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType spec as:
// Array of four uint8s (length = 32 bits) used to identify a table,
// design-variation axis, script, language system, feature, or baseline.
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
//
//	MakeTag([]byte("cmap"))
//
// If b is shorter or longer, it will be silently extended or cut as
// appropriate.
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as
// appropriate.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various font tables.
//
// Tables needed for geometry extraction are decoded into concrete table
// flavours (HeadTable, MaxPTable, LocaTable, CMapTable, GlyfTable); every
// other table contained in the font is still listed in the directory as a
// generic table, i.e. no table information is dropped.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of font tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   any
}

// Extent returns offset and byte size of this table within the font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting a
// generic table to a concrete table flavour, and for reproducing the name
// tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) any {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if k, ok := safeSelf(tself).(*HeadTable); ok {
		return k
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if k, ok := safeSelf(tself).(*MaxPTable); ok {
		return k
	}
	return nil
}

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable {
	if k, ok := safeSelf(tself).(*LocaTable); ok {
		return k
	}
	return nil
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	if k, ok := safeSelf(tself).(*CMapTable); ok {
		return k
	}
	return nil
}

// AsGlyf returns this table as a glyf table, or nil.
func (tself TableSelf) AsGlyf() *GlyfTable {
	if k, ok := safeSelf(tself).(*GlyfTable); ok {
		return k
	}
	return nil
}

// --- Concrete table implementations ----------------------------------------

// GlyphBounds is an axis-aligned box in font design units.
type GlyphBounds struct {
	Left, Bottom, Right, Top int32
}

// HeadTable gives global information about the font: the design-unit
// resolution, the union of all glyph bounding boxes, and the entry size of
// the 'loca' table.
type HeadTable struct {
	tableBase
	UnitsPerEm       uint16      // values 16 … 16384 are valid
	IndexToLocFormat int16       // 0 = short loca offsets, 1 = long; needed to interpret loca table
	MaxGlyphBounds   GlyphBounds // union of the bounding boxes of all glyphs
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table. By definition, index
// zero points to the “missing character”.
//
// The table holds numGlyphs+1 entries; the byte range of glyph g within
// 'glyf' is [entry(g), entry(g+1)). An empty range denotes a glyph without
// an outline, e.g. the space character.
type LocaTable struct {
	tableBase
	inx2loc func(t *LocaTable, gid GlyphIndex) (uint32, error) // returns glyph location for glyph gid
	locCnt  int                                                // number of location entries (numGlyphs + 1)
}

func newLocaTable(tag Tag, b binarySegm, offset, size uint32) *LocaTable {
	t := &LocaTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.inx2loc = shortLocaVersion // may get changed during font consistency check
	t.locCnt = 0                 // has to be set during consistency check
	t.self = t
	return t
}

func shortLocaVersion(t *LocaTable, gid GlyphIndex) (uint32, error) {
	if int(gid) >= t.locCnt {
		return 0, FontError{Kind: InvalidGlyphIndex, Table: t.name,
			Issue: "glyph location index out of range"}
	}
	loc, err := t.data.u16(int(gid) * 2)
	if err != nil {
		return 0, errEof(t.name, "Offsets", "loca table too small")
	}
	return uint32(loc) * 2, nil
}

func longLocaVersion(t *LocaTable, gid GlyphIndex) (uint32, error) {
	if int(gid) >= t.locCnt {
		return 0, FontError{Kind: InvalidGlyphIndex, Table: t.name,
			Issue: "glyph location index out of range"}
	}
	loc, err := t.data.u32(int(gid) * 4)
	if err != nil {
		return 0, errEof(t.name, "Offsets", "loca table too small")
	}
	return loc, nil
}

// GlyphRange returns the byte range of glyph gid within the 'glyf' table.
// start == end denotes an empty glyph.
func (t *LocaTable) GlyphRange(gid GlyphIndex) (start, end uint32, err error) {
	if int(gid)+1 >= t.locCnt { // checked in int space, gid+1 may wrap for gid 0xffff
		return 0, 0, FontError{Kind: InvalidGlyphIndex, Table: t.name,
			Issue: "glyph location index out of range"}
	}
	if start, err = t.inx2loc(t, gid); err != nil {
		return 0, 0, err
	}
	if end, err = t.inx2loc(t, gid+1); err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, errUnknownFormat(t.name, "Offsets", "glyph locations not monotonic")
	}
	return start, end, nil
}

// GlyfTable holds the raw glyph outline data. It is not decoded as a whole;
// individual glyph descriptions are decoded on demand by Font.ForEachPoint,
// using the byte ranges provided by the loca table.
type GlyfTable struct {
	tableBase
}

func newGlyfTable(tag Tag, b binarySegm, offset, size uint32) *GlyfTable {
	t := &GlyfTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// CMapTable represents a font's cmap table, i.e. the table to receive glyphs
// from code-points.
//
// Consulting the cmap table is a very frequent operation on fonts. We
// therefore construct an internal representation of the lookup table. A cmap
// table may contain more than one sub-table, but we will only instantiate
// the most appropriate one.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}
