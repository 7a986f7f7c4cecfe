package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tuanvm-tyson/activitygen/internal/cli"
	"github.com/tuanvm-tyson/activitygen/internal/generate"
)

func init() {
	cli.RegisterCommand("gen", generate.NewGenerateCommand())
	cli.RegisterCommand("check", generate.NewCheckCommand())
}

func main() {
	if len(os.Args) < 2 {
		if err := cli.Usage(os.Stderr); err != nil {
			die(1, err.Error())
		}
		os.Exit(2)
	}

	flag.CommandLine.Usage = func() {
		die(2, "Run 'activitygen help' for usage.")
	}

	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.CommandLine.Usage()
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(os.Stdout, cli.Version())
		return
	case "help":
		if err := help(args[1:], os.Stdout); err != nil {
			die(2, err.Error())
		}
		return
	}

	if err := cli.Run(args[0], args[1:], os.Stdout); err != nil {
		var cle *cli.CommandLineError
		if errors.As(err, &cle) {
			prefix := "activitygen"
			if cle.Command != "" {
				prefix += " " + cle.Command
			}
			die(2, "%s: %s\n%s", prefix, cle.Err, cle.Hint())
		}
		die(1, "%s", err.Error())
	}
}

func die(exitCode int, format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format+"\n", args...); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func help(args []string, w io.Writer) error {
	if len(args) > 1 {
		return errors.New("usage: activitygen help [command]\n\nToo many arguments given")
	}

	if len(args) == 0 {
		return cli.Usage(w)
	}

	command := cli.GetCommand(args[0])
	if command == nil {
		return fmt.Errorf("activitygen: unknown command %q\nRun 'activitygen help' for usage", args[0])
	}

	if _, err := fmt.Fprintf(w, "Usage: activitygen %s %s\n", args[0], command.UsageLine()); err != nil {
		return err
	}
	return command.HelpMessage(w)
}
