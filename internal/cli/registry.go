package cli

import (
	"flag"
	"io"
	"text/template"

	"github.com/pkg/errors"
)

// version is set at build time with -ldflags "-X".
var version = "dev"

// Version returns the tool version.
func Version() string {
	return version
}

var commands = map[string]Command{}

// RegisterCommand adds command to the global Commands map
func RegisterCommand(name string, cmd Command) {
	commands[name] = cmd
	if fs := cmd.FlagSet(); fs != nil {
		fs.Init("", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
	}
}

// GetCommand returns command from the global Commands map
func GetCommand(name string) Command {
	return commands[name]
}

// Run runs the named command. A *CommandLineError it returns is tagged
// with name.
func Run(name string, args []string, stdout io.Writer) error {
	cmd := GetCommand(name)
	if cmd == nil {
		return &CommandLineError{Err: errors.Errorf("unknown subcommand %q", name)}
	}

	err := cmd.Run(args, stdout)
	var cle *CommandLineError
	if errors.As(err, &cle) && cle.Command == "" {
		cle.Command = name
	}
	return err
}

// Usage writes activitygen usage message to w
func Usage(w io.Writer) error {
	return usageTemplate.Execute(w, struct {
		Commands map[string]Command
		Version  string
	}{commands, version})
}

var usageTemplate = template.Must(template.New("usage").Parse(`activitygen({{.Version}}) generates tracing activity bodies for annotated Go stubs

Usage:

	activitygen command [arguments]

The commands are:
{{ range $name, $cmd := .Commands }}
	{{ printf "%-10s" $name }}{{ $cmd.ShortDescription }}
{{ end }}
Use "activitygen help [command]" for more information about a command.
`))
