package chip8

import "math/bits"

const (
	/// Width of the display in pixels.
	///
	Width = 64

	/// Height of the display in pixels.
	///
	Height = 32
)

/// SpritePolicy decides what happens to the parts of a sprite that fall off
/// the right or bottom edge of the display.
///
type SpritePolicy uint8

const (
	/// ClipSprites drops pixels past column 63 and rows past row 31.
	///
	ClipSprites SpritePolicy = iota

	/// WrapSprites wraps them around to the opposite edge.
	///
	WrapSprites
)

func (p SpritePolicy) String() string {
	if p == WrapSprites {
		return "wrap"
	}
	return "clip"
}

/// Display is the 64x32 monochrome frame buffer. Each row is a 64-bit mask
/// with column 0 in the most significant bit.
///
type Display struct {
	/// Rows of lit pixels.
	///
	Rows [Height]uint64

	/// Fading holds, per row, the pixels turned off by the most recent draw
	/// (or clear). It has no effect on the machine and only exists so a
	/// renderer can fade pixels out instead of dropping them.
	///
	Fading [Height]uint64

	// set by every draw and clear, reset only by the consumer
	changed bool
}

/// Pixel returns true if the pixel at x, y is lit.
///
func (d *Display) Pixel(x, y int) bool {
	return d.Rows[y]>>uint(Width-1-x)&1 == 1
}

/// Faded returns true if the pixel at x, y was just turned off.
///
func (d *Display) Faded(x, y int) bool {
	return d.Fading[y]>>uint(Width-1-x)&1 == 1
}

/// Changed reports whether the display was drawn to since the flag was last
/// consumed.
///
func (d *Display) Changed() bool {
	return d.changed
}

/// ConsumeChanged returns the changed flag and clears it. Only the consumer
/// of the display calls this; the VM never clears the flag itself.
///
func (d *Display) ConsumeChanged() bool {
	c := d.changed
	d.changed = false
	return c
}

/// Clear turns off every pixel. Everything that was lit starts fading.
///
func (d *Display) Clear() {
	d.Fading = d.Rows
	d.Rows = [Height]uint64{}
	d.changed = true
}

/// Draw XORs an 8-pixel wide sprite onto the display with its top-left
/// corner at x, y. Returns true if any lit pixel was turned off.
///
func (d *Display) Draw(x, y int, sprite []byte, policy SpritePolicy) bool {
	x %= Width
	y %= Height

	// only the rows touched by this draw may fade
	d.Fading = [Height]uint64{}
	d.changed = true

	collision := false

	for i, b := range sprite {
		row := y + i

		if row >= Height {
			if policy == ClipSprites {
				break
			}
			row %= Height
		}

		var mask uint64
		if policy == WrapSprites {
			mask = bits.RotateLeft64(uint64(b)<<56, -x)
		} else {
			mask = uint64(b) << 56 >> uint(x)
		}

		// pixels about to be turned off
		c := d.Rows[row] & mask

		d.Fading[row] = c
		d.Rows[row] ^= mask

		if c != 0 {
			collision = true
		}
	}

	return collision
}
