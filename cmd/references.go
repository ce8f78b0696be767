package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vogtb/go-spreadsheet/packages/formula"
	"github.com/vogtb/go-spreadsheet/packages/reference"
)

// references: list what a formula refers to
var ReferencesCmd = &cobra.Command{
	Use:   "references <text>",
	Short: "List the cells, ranges and labels a formula refers to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := formula.ParseFormula(args[0], grammar.ValueOrExpression())
		if err := formulaError(f); err != nil {
			return err
		}
		if f.Token() == nil {
			return nil
		}

		out := cmd.OutOrStdout()
		for _, ref := range formula.References(f.Token()) {
			if _, err := fmt.Fprintf(out, "%s\t%s\n", referenceKind(ref), ref); err != nil {
				return err
			}
		}
		return nil
	},
}

func referenceKind(ref reference.Reference) string {
	switch ref.(type) {
	case reference.Cell:
		return "cell"
	case reference.CellRange:
		return "range"
	case reference.Label:
		return "label"
	case reference.TemplateValueName:
		return "template"
	}
	return "unknown"
}
