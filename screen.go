package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chip8vm/chip8vm/chip8"
)

const (
	/// Margin around and between the panels.
	///
	Margin = 8

	/// DebugWidth is the width of the disassembly panel.
	///
	DebugWidth = 240

	/// DebugHeight is the height of the registers and log panels.
	///
	DebugHeight = 17*lineHeight + 8

	// glow of a pixel that was just turned off, and how much it loses
	// every frame
	fadeStart = 160
	fadeStep  = 40

	// bytes per texture pixel
	pixelDepth = 4
)

var (
	/// Screen is the texture the CHIP-8 display is drawn into.
	///
	Screen *sdl.Texture

	/// Pixels backing the screen texture.
	///
	Pixels = make([]byte, chip8.Width*chip8.Height*pixelDepth)

	/// Glow of each pixel, 255 is lit and 0 is dark.
	///
	Glow [chip8.Width * chip8.Height]uint8

	// background and lit pixel colors
	colorOff = [3]byte{143, 145, 133}
	colorOn  = [3]byte{17, 29, 43}
)

/// WindowSize returns the window dimensions for the scale in the options.
///
func WindowSize() (int32, int32) {
	w := Margin + chip8.Width*Options.Scale + Margin + DebugWidth + Margin
	h := Margin + chip8.Height*Options.Scale + Margin + DebugHeight + Margin

	return int32(w), int32(h)
}

/// InitScreen creates the texture for the CHIP-8 video memory.
///
func InitScreen() error {
	var err error

	Screen, err = Renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), chip8.Width, chip8.Height)
	if err != nil {
		return err
	}

	return nil
}

/// RefreshScreen with the CHIP-8 video memory. Pixels that go dark fade
/// out over a few frames, which hides the flicker of XOR drawing.
///
func RefreshScreen() error {
	var d *chip8.Display
	var changed bool

	if Machine != nil {
		d = &Machine.VM.Display
		changed = d.ConsumeChanged()
	}

	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			i := y*chip8.Width + x

			switch {
			case d != nil && d.Pixel(x, y):
				Glow[i] = 255
			case changed && d.Faded(x, y) && Glow[i] < fadeStart:
				// turned on and off again since the last frame
				Glow[i] = fadeStart
			case Glow[i] > fadeStep:
				Glow[i] -= fadeStep
			default:
				Glow[i] = 0
			}

			p := Pixels[i*pixelDepth:]

			for c := 0; c < 3; c++ {
				p[c] = mix(colorOff[c], colorOn[c], Glow[i])
			}
			p[3] = 255
		}
	}

	return Screen.Update(nil, Pixels, chip8.Width*pixelDepth)
}

/// CopyScreen to the renderer.
///
func CopyScreen(x, y, w, h int32) {
	Renderer.Copy(Screen, nil, &sdl.Rect{X: x, Y: y, W: w, H: h})
}

// blend from a to b by t/255
func mix(a, b, t byte) byte {
	return byte((int(a)*(255-int(t)) + int(b)*int(t)) / 255)
}
