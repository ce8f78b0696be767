package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vogtb/go-spreadsheet/packages/formula"
)

// expression: print the expression built from a formula
var ExpressionCmd = &cobra.Command{
	Use:   "expression <text>",
	Short: "Print the expression built from a formula",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := formula.ParseFormula(args[0], grammar.ValueOrExpression())
		if err := formulaError(f); err != nil {
			return err
		}

		f, err := f.ToExpression(expressionCtx)
		if err != nil {
			return err
		}
		if err := formulaError(f); err != nil {
			return err
		}
		if f.Expression() == nil {
			return nil
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), f.Expression())
		return err
	},
}
