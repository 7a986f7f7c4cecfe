package cli

import "fmt"

// CommandLineError reports invalid arguments given to a subcommand. Run fills
// in Command when the subcommand leaves it empty.
type CommandLineError struct {
	Command string
	Err     error
}

func (e *CommandLineError) Error() string {
	return e.Err.Error()
}

func (e *CommandLineError) Unwrap() error {
	return e.Err
}

// Hint points the user at the help of the failed subcommand.
func (e *CommandLineError) Hint() string {
	if e.Command == "" {
		return "Run 'activitygen help' for usage."
	}
	return fmt.Sprintf("Run 'activitygen help %s' for usage.", e.Command)
}
