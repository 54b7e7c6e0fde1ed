// Package fontload reads font files into memory and attaches an
// x/image/font/sfnt view, which serves as an independent cross-check on
// fonts decoded by package tt and provides the font's display name.
package fontload

import (
	"os"

	"golang.org/x/image/font/sfnt"
)

// ScalableFont is a loaded scalable font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Binary   []byte
	SFNT     *sfnt.Font
}

// FromFile loads a font (TTF or OTF) from a file.
func FromFile(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	return FromMemory(bytez)
}

// FromMemory loads a font (TTF or OTF) from memory.
func FromMemory(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull)
	if err != nil {
		f.Fontname = "" // font without a usable full name is still loadable
		err = nil
	}
	return f, nil
}
