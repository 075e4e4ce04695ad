package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"keypad-calculator/internal/calculator"
	"keypad-calculator/internal/keypad"
)

// NewEvalCommand creates the "eval" command.
func NewEvalCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "eval A OP B",
		Short:   "Apply one operator to two operands",
		Example: "  calc eval 0.1 + 0.2",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := keypad.ParseKey(args[1])
			if err == nil && ev.Kind != calculator.EventOperator {
				err = fmt.Errorf("%w: %q is not an operator", keypad.ErrUnknownKey, args[1])
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid operator", err)
			}

			result := calculator.Evaluate(args[0], args[2], ev.Operator)
			if err := newFormatter(cmd, opts).Value(result); err != nil {
				return err
			}

			if result == calculator.ErrorDisplay {
				return NewExitError(ExitFailure, "calculation error")
			}
			return nil
		},
	}
}
