package main

import (
	"image"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// glyph cell of the debug font
	glyphWidth = 7
	lineHeight = 13

	// printable ASCII
	firstGlyph = ' '
	lastGlyph  = '~'
)

var (
	/// Texture containing the debug font glyphs side by side.
	///
	Font *sdl.Texture
)

/// InitFont renders the printable ASCII glyphs of a fixed 7x13 font into a
/// texture atlas.
///
func InitFont() error {
	face := basicfont.Face7x13

	atlas := image.NewRGBA(image.Rect(0, 0, (lastGlyph-firstGlyph+1)*glyphWidth, lineHeight))

	drawer := &font.Drawer{
		Dst:  atlas,
		Src:  image.White,
		Face: face,
	}

	for c := firstGlyph; c <= lastGlyph; c++ {
		drawer.Dot = fixed.P(int(c-firstGlyph)*glyphWidth, face.Ascent)
		drawer.DrawString(string(rune(c)))
	}

	var err error

	// create the texture
	Font, err = Renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STATIC), int32(atlas.Rect.Dx()), lineHeight)
	if err != nil {
		return err
	}

	if err = Font.Update(nil, atlas.Pix, atlas.Stride); err != nil {
		return err
	}

	return Font.SetBlendMode(sdl.BlendMode(sdl.BLENDMODE_BLEND))
}

/// SetTextColor of all text drawn after.
///
func SetTextColor(r, g, b uint8) {
	Font.SetColorMod(r, g, b)
}

/// DrawText using the loaded font.
///
func DrawText(s string, x, y int) {
	src := sdl.Rect{W: glyphWidth, H: lineHeight}
	dst := sdl.Rect{
		X: int32(x),
		Y: int32(y),
		W: glyphWidth,
		H: lineHeight,
	}

	// loop over all the characters in the string
	for _, c := range s {
		if c > firstGlyph && c <= lastGlyph {
			src.X = int32(c-firstGlyph) * glyphWidth

			// draw the glyph
			Renderer.Copy(Font, &src, &dst)
		}

		// advance
		dst.X += glyphWidth
	}
}
