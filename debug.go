package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/logger"
)

const (
	/// LogLines is the height of the log panel in lines.
	///
	LogLines = 17

	/// RegistersWidth is the width of the registers panel.
	///
	RegistersWidth = 200

	// widest log line that fits the log panel at the smallest scale
	minLogColumns = 16
)

var (
	// keypad keys as they are laid out on the device
	keypadRows = [4][4]chip8.Key{
		{0x1, 0x2, 0x3, 0xC},
		{0x4, 0x5, 0x6, 0xD},
		{0x7, 0x8, 0x9, 0xE},
		{0xA, 0x0, 0xB, 0xF},
	}

	/// Current debug window address.
	///
	Address int
)

/// Refresh redraws the whole window.
///
func Refresh() {
	Renderer.SetDrawColor(32, 42, 53, 255)
	Renderer.Clear()

	sw := chip8.Width * Options.Scale
	sh := chip8.Height * Options.Scale
	ww, _ := WindowSize()

	// frame various portions of the app
	Frame(Margin-2, Margin-2, sw+4, sh+4)
	Frame(2*Margin+sw, Margin-2, DebugWidth, sh+4)
	Frame(Margin-2, 2*Margin+sh, RegistersWidth, DebugHeight)
	Frame(2*Margin+RegistersWidth, 2*Margin+sh, int(ww)-3*Margin-RegistersWidth, DebugHeight)

	// update the video screen and copy it
	if err := RefreshScreen(); err != nil {
		logger.Logf("screen", "%v", err)
	}
	CopyScreen(Margin, Margin, int32(sw), int32(sh))

	// debug assembly and virtual registers
	DebugAssembly(2*Margin+sw+4, Margin+2, (sh-4)/lineHeight)
	DebugRegisters(Margin+2, 2*Margin+sh+4)
	DebugLog(2*Margin+RegistersWidth+4, 2*Margin+sh+4, (int(ww)-3*Margin-RegistersWidth-8)/glyphWidth)

	// show the new frame
	Renderer.Present()
}

/// Frame draws a bevelled border.
///
func Frame(x, y, w, h int) {
	x1, y1 := int32(x), int32(y)
	x2, y2 := int32(x+w), int32(y+h)

	Renderer.SetDrawColor(0, 0, 0, 255)
	Renderer.DrawLine(x1, y1, x2, y1)
	Renderer.DrawLine(x1, y1, x1, y2)

	// highlight
	Renderer.SetDrawColor(95, 112, 120, 255)
	Renderer.DrawLine(x2, y1, x2, y2)
	Renderer.DrawLine(x1, y2, x2, y2)
}

/// DebugHelp shows the key bindings in the log.
///
func DebugHelp() {
	logger.Log("", "Virtual keys:")
	for _, row := range keypadRows {
		names := make([]string, len(row))
		for i, k := range row {
			names[i] = k.Name()
		}
		logger.Log("", "  "+strings.Join(names, "-"))
	}

	logger.Log("", "")
	logger.Log("", "Emulation keys:")
	logger.Log("", "  ESC       - Quit")
	logger.Log("", "  BS        - Restart (+CTRL paused)")
	logger.Log("", "  F3        - Load ROM")
	logger.Log("", "  F5/SPACE  - Pause")
	logger.Log("", "  F6/F10    - Step")
	logger.Log("", "  F8        - Dump memory graph")
	logger.Log("", "  F9        - Toggle breakpoint")
	logger.Log("", "  [ ]       - Slower/faster")
	logger.Log("", "  Pg Up/Dn  - Scroll log")
}

/// DebugAssembly renders the disassembled instructions around
/// the CHIP-8 program counter.
///
func DebugAssembly(x, y, lines int) {
	if Machine == nil {
		return
	}

	if lines < 1 {
		lines = 1
	}

	pc := int(Machine.VM.PC)

	// keep the window still until the pc leaves it or goes odd
	if pc < Address || pc >= Address+2*(lines-1) || (Address^pc)&1 == 1 {
		Address = pc - 2
	}
	if Address < 0 {
		Address = pc
	}

	// show the disassembled instructions
	for i := 0; i < lines; i++ {
		address := Address + i*2
		ly := y + i*lineHeight

		if address == pc {
			if Machine.Paused() {
				Renderer.SetDrawColor(176, 32, 57, 255)
			} else {
				Renderer.SetDrawColor(57, 102, 176, 255)
			}

			// highlight the current instruction
			Renderer.FillRect(&sdl.Rect{
				X: int32(x - 2),
				Y: int32(ly),
				W: DebugWidth - 4,
				H: lineHeight,
			})
		}

		marker := " "
		if address <= 0xFFFF && Machine.Breakpoint(uint16(address)) {
			marker = "*"
		}

		SetTextColor(255, 255, 255)
		DrawText(marker+Machine.VM.Disassemble(address), x, ly)
	}
}

/// DebugRegisters shows the current value of all the CHIP-8 registers.
///
func DebugRegisters(x, y int) {
	if Machine == nil {
		return
	}

	vm := Machine.VM

	SetTextColor(255, 255, 255)

	for i := 0; i < 16; i++ {
		DrawText(fmt.Sprintf("V%X - #%02X", i, vm.V[i]), x, y+i*lineHeight)
	}

	// shift over for the other registers
	x += 84

	DrawText(fmt.Sprintf("PC - #%04X", vm.PC), x, y)
	DrawText(fmt.Sprintf("I  - #%04X", vm.I), x, y+lineHeight)
	DrawText(fmt.Sprintf("DT - #%02X", vm.Timers.Delay), x, y+3*lineHeight)
	DrawText(fmt.Sprintf("ST - #%02X", vm.Timers.Sound), x, y+4*lineHeight)
	DrawText(fmt.Sprintf("SP - %d", vm.Stack.Depth()), x, y+6*lineHeight)

	// most recent return addresses first
	stack := vm.Stack.Addresses()
	for i := 0; i < len(stack) && i < 4; i++ {
		DrawText(fmt.Sprintf("  #%04X", stack[len(stack)-1-i]), x, y+(7+i)*lineHeight)
	}

	state := vm.State.String()
	if Machine.Paused() && vm.State != chip8.Halted {
		SetTextColor(176, 32, 57)
		state = "paused"
	}
	DrawText(state, x, y+12*lineHeight)

	SetTextColor(255, 255, 255)
	DrawText(fmt.Sprintf("%d ips", Machine.Speed()), x, y+13*lineHeight)
	DrawText(vm.SpritePolicy().String(), x, y+14*lineHeight)
}

/// DebugLog shows the lines of the log up to its read position.
///
func DebugLog(x, y, columns int) {
	if columns < minLogColumns {
		columns = minLogColumns
	}

	SetTextColor(191, 196, 173)

	for _, line := range logger.Central().Window(LogLines) {
		if len(line) > columns {
			line = line[:columns-3] + "..."
		}

		DrawText(line, x, y)

		// advance to the next line
		y += lineHeight
	}
}

/// DebugMemory writes a graph of the machine's state to a Graphviz file.
///
func DebugMemory() {
	file := fmt.Sprintf("%s-%04X.dot", strings.TrimSuffix(Machine.Name, ".ch8"), Machine.VM.PC)

	f, err := os.Create(file)
	if err != nil {
		ShowError(err)
		return
	}
	defer f.Close()

	memviz.Map(f, Machine.VM)

	logger.Logf("debug", "memory graph written to %s", file)
}
