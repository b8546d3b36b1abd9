package tty

import (
	"strings"

	"github.com/chip8vm/chip8vm/chip8"
)

const (
	home        = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// two display rows share a character cell
var blocks = [4]string{" ", "▀", "▄", "█"}

// Render the display as chip8.Height/2 lines of block characters, framed
// by a border.
func Render(d *chip8.Display) string {
	var sb strings.Builder

	sb.Grow((chip8.Width + 3) * (chip8.Height/2 + 2) * 3)

	sb.WriteString("+" + strings.Repeat("-", chip8.Width) + "+\r\n")

	for y := 0; y < chip8.Height; y += 2 {
		sb.WriteByte('|')

		for x := 0; x < chip8.Width; x++ {
			cell := 0
			if d.Pixel(x, y) {
				cell |= 1
			}
			if d.Pixel(x, y+1) {
				cell |= 2
			}

			sb.WriteString(blocks[cell])
		}

		sb.WriteString("|\r\n")
	}

	sb.WriteString("+" + strings.Repeat("-", chip8.Width) + "+\r\n")

	return sb.String()
}
