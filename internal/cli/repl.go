package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"keypad-calculator/internal/calculator"
	"keypad-calculator/internal/keypad"
)

// NewReplCommand creates the "repl" command.
func NewReplCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read keys line by line from stdin, keeping one calculator session",
		Long: `Each line holds whitespace-separated keys. The view is printed after
every line. Enter q or quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.InOrStdin(), newFormatter(cmd, opts))
		},
	}
}

func runRepl(in io.Reader, out *OutputFormatter) error {
	st := calculator.NewState()
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "q" || fields[0] == "quit" {
			return nil
		}

		events, err := keypad.ParseKeys(fields)
		if err != nil {
			// The session survives a typo; nothing from the line is applied.
			fmt.Fprintln(out.Writer, err)
			continue
		}

		st = press(out, st, events)
		if err := out.View(calculator.Display(st)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "reading input", err)
	}
	return nil
}
