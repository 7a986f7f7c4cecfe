// Package cli holds the subcommand registry of the activitygen tool.
package cli

import (
	"flag"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Command is an activitygen subcommand.
type Command interface {
	// FlagSet returns the flags of the command, or nil when it has none.
	FlagSet() *flag.FlagSet

	// Run runs the command with the arguments that follow its name.
	Run(args []string, stdout io.Writer) error

	// ShortDescription is the line shown next to the command in the usage.
	ShortDescription() string

	UsageLine() string
	HelpMessage(w io.Writer) error
}

// BaseCommand carries the descriptive parts of a Command. Commands embed it
// and implement Run.
type BaseCommand struct {
	Flags *flag.FlagSet
	Short string
	Usage string
	Help  string
}

func (b BaseCommand) ShortDescription() string {
	return b.Short
}

func (b BaseCommand) UsageLine() string {
	return b.Usage
}

func (b BaseCommand) FlagSet() *flag.FlagSet {
	return b.Flags
}

// Parse parses args with the command flags. The command takes no positional
// arguments. Failures are returned as *CommandLineError.
func (b BaseCommand) Parse(args []string) error {
	if b.Flags != nil {
		if err := b.Flags.Parse(args); err != nil {
			return &CommandLineError{Err: err}
		}
		args = b.Flags.Args()
	}
	if len(args) > 0 {
		return &CommandLineError{Err: errors.Errorf("unexpected arguments: %s", strings.Join(args, " "))}
	}
	return nil
}

// HelpMessage prints the flag defaults followed by the long help text.
func (b BaseCommand) HelpMessage(w io.Writer) error {
	if b.Flags != nil {
		b.Flags.SetOutput(w)
		b.Flags.PrintDefaults()
		b.Flags.SetOutput(io.Discard)
	}
	_, err := io.WriteString(w, b.Help)
	return err
}
