// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chip8vm/chip8vm/internal/options"
)

// ParseFlags parses the command line arguments, excluding the program name.
func ParseFlags(name string, args []string, output io.Writer) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {}

	opts := options.New()
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, output: output, msg: err.Error()}
	}

	args = flags.Args()
	if err := validateArgs(args); err != nil {
		return opts, &UsageError{flags: flags, output: output, msg: err.Error()}
	}
	if len(args) == 1 {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, &UsageError{flags: flags, output: output, msg: err.Error()}
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags  *flag.FlagSet
	output io.Writer
	msg    string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text and the flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Fprintf(e.output, "usage: %s [options] [rom]\n\n", e.flags.Name())
	e.flags.PrintDefaults()
	fmt.Fprintln(e.output)
}

// validateArgs makes sure at most a single ROM follows the flags
func validateArgs(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expected a single rom, found %d arguments: %s", len(args), strings.Join(args, " "))
	}
	return nil
}

// normalizeOptions validates option values and fills in implied ones
func normalizeOptions(opts *options.Program) error {
	if opts.Speed < options.MinSpeed || opts.Speed > options.MaxSpeed {
		return fmt.Errorf("speed must be between %d and %d", options.MinSpeed, options.MaxSpeed)
	}
	if opts.Scale < 1 || opts.Scale > 40 {
		return fmt.Errorf("scale must be between 1 and 40")
	}

	if options.IsSource(opts.Input) {
		opts.Assemble = true
	}

	if opts.Disassemble && opts.Input == "" {
		return fmt.Errorf("-disasm needs a rom")
	}

	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.IntVar(&opts.Speed, "speed", options.DefaultSpeed, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "window pixels per CHIP-8 pixel")
	flags.BoolVar(&opts.Terminal, "term", false, "run in the terminal instead of a window")
	flags.BoolVar(&opts.Wrap, "wrap", false, "wrap sprites around the display edges instead of clipping them")
	flags.BoolVar(&opts.Assemble, "asm", false, "treat the input as assembly source (implied by .asm and .c8s)")
	flags.BoolVar(&opts.Disassemble, "disasm", false, "print a disassembly of the rom and exit")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.StringVar(&opts.Wav, "wav", "", "record the beep to a .wav file")
	flags.BoolVar(&opts.Statsview, "statsview", false, "launch the runtime stats server")
	flags.BoolVar(&opts.Paused, "paused", false, "boot paused")
	flags.BoolVar(&opts.Version, "version", false, "print the version and exit")
}
