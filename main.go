package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/cli"
	"github.com/chip8vm/chip8vm/internal/emu"
	"github.com/chip8vm/chip8vm/internal/options"
	"github.com/chip8vm/chip8vm/logger"
	"github.com/chip8vm/chip8vm/statsview"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

var (
	/// Options from the command line.
	///
	Options options.Program

	/// The running program, nil until a ROM is loaded.
	///
	Machine *emu.Machine

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var err error

	Options, err = cli.ParseFlags(filepath.Base(os.Args[0]), os.Args[1:], os.Stderr)
	if err != nil {
		var usage *cli.UsageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, err)
			usage.ShowUsage()
		}
		os.Exit(2)
	}

	if Options.Version {
		fmt.Printf("chip8vm %s\n", buildinfo.Version(version, commit, date))
		return
	}

	if Options.Statsview {
		statsview.Launch(os.Stderr)
	}

	switch {
	case Options.Disassemble:
		err = Disassemble(os.Stdout)
	case Options.Terminal:
		err = RunTerminal()
	default:
		err = RunWindow()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

/// Disassemble prints a listing of the input ROM.
///
func Disassemble(w io.Writer) error {
	program, err := emu.LoadProgram(Options.Input, Options.Assemble)
	if err != nil {
		return err
	}

	for _, line := range chip8.DisassembleROM(program) {
		fmt.Fprintln(w, line)
	}

	return nil
}

/// RunWindow runs the interpreter and debugger in an SDL window.
///
func RunWindow() error {
	var err error

	// initialize SDL
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initializing sdl: %w", err)
	}
	defer sdl.Quit()

	// create the main window and renderer
	w, h := WindowSize()
	if Window, Renderer, err = sdl.CreateWindowAndRenderer(w, h, uint32(sdl.WINDOW_SHOWN)); err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	Window.SetTitle("CHIP-8")

	// initialize subsystems
	if err = InitScreen(); err != nil {
		return err
	}
	if err = InitFont(); err != nil {
		return err
	}
	if err = InitAudio(); err != nil {
		// run silently rather than not at all
		logger.Logf("audio", "%v", err)
	}
	defer CloseAudio()

	InitKeyMap()

	if Options.Input != "" {
		Load(Options.Input)
	} else {
		LoadDialog()
	}

	if Machine == nil {
		logger.Log("chip8vm", "press F3 to load a rom, H for help")
	}

	// refresh rate, instructions are paced by elapsed time
	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	last := time.Now()

	// loop until window closed or user quit
	for ProcessEvents() {
		now := <-video.C

		if Machine != nil {
			if _, err := Machine.Frame(now.Sub(last)); err != nil {
				ShowError(err)
			}
		}

		last = now

		UpdateAudio()
		Refresh()
	}

	return nil
}

/// Load a ROM (or assembly source) and boot it, replacing the running one.
///
func Load(file string) {
	program, err := emu.LoadProgram(file, Options.Assemble || options.IsSource(file))
	if err != nil {
		ShowError(err)
		return
	}

	m, err := emu.New(filepath.Base(file), program, Options, nil)
	if err != nil {
		ShowError(err)
		return
	}

	Machine = m
	Window.SetTitle(fmt.Sprintf("CHIP-8 - %s", m.Name))
}

/// LoadDialog asks for a ROM to load.
///
func LoadDialog() {
	file, err := dialog.File().
		Filter("CHIP-8 ROM", "ch8", "c8").
		Filter("CHIP-8 source", "asm", "c8s").
		Filter("All files", "*").
		Title("Load ROM").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			ShowError(err)
		}
		return
	}

	Load(file)
}

/// ShowError logs an error and reports it in a message box.
///
func ShowError(err error) {
	logger.Log("error", err.Error())

	dialog.Message("%s", err.Error()).Title("CHIP-8").Error()
}
