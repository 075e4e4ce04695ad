package cli

import (
	"github.com/spf13/cobra"

	"keypad-calculator/internal/calculator"
	"keypad-calculator/internal/keypad"
)

// NewPressCommand creates the "press" command.
func NewPressCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "press KEY...",
		Short: "Press keys from a fresh calculator and print the display",
		Example: `  calc press 2 + 3 + 4 =
  calc press 5 0 %
  calc --verbose press 9 + 1 = bs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := keypad.ParseKeys(args)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid keys", err)
			}

			out := newFormatter(cmd, opts)
			st := press(out, calculator.NewState(), events)
			if err := out.View(calculator.Display(st)); err != nil {
				return err
			}

			if st.Current == calculator.ErrorDisplay {
				return NewExitError(ExitFailure, "calculation error")
			}
			return nil
		},
	}
}

// press applies events to st, reporting every step to out.
func press(out *OutputFormatter, st calculator.State, events []calculator.Event) calculator.State {
	for _, ev := range events {
		st = calculator.Reduce(st, ev)
		out.Step(ev.Label(), calculator.Display(st))
	}
	return st
}
