package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vogtb/go-spreadsheet/packages/formula"
	"github.com/vogtb/go-spreadsheet/packages/reference"
)

var (
	parserName string
	readStdin  bool
)

// parse: print the token of a formula
var ParseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Print the parse tree of a formula as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := grammar.Lookup(parserName)
		if !ok {
			return fmt.Errorf("unknown parser %q, expected one of %s", parserName, strings.Join(formula.ParserNames(), ", "))
		}
		if readStdin {
			return parseLines(cmd.InOrStdin(), cmd.OutOrStdout(), p)
		}
		if len(args) != 1 {
			return fmt.Errorf("expected formula text or --stdin")
		}

		f := formula.ParseFormula(args[0], p)
		if err := writeJSON(cmd.OutOrStdout(), f); err != nil {
			return err
		}
		return formulaError(f)
	},
}

func init() {
	ParseCmd.Flags().StringVar(&parserName, "parser", "value-or-expression", "named parser to apply")
	ParseCmd.Flags().BoolVar(&readStdin, "stdin", false, "read one formula per line into cells A1, A2, ...")
}

// parseLines stores every line in column A and prints the formula id per
// cell, cells with equal formulas share an id
func parseLines(in io.Reader, out io.Writer, p formula.Parser) error {
	table := formula.NewTable()
	column, _ := reference.NewColumn(1, reference.Relative)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), formula.MaxFormulaLength*4)
	failed := 0
	for line := 1; scanner.Scan(); line++ {
		row, err := reference.NewRow(line, reference.Relative)
		if err != nil {
			return err
		}
		cell := reference.Cell{Column: column, Row: row}

		f := formula.ParseFormula(scanner.Text(), p)
		id := table.Intern(f, cell)
		if err := f.Error(); err != nil {
			failed++
			fmt.Fprintf(out, "%s\t%d\t%s\t%s %s\n", cell, id, f.Text(), err.ErrorCode, err.Message)
			continue
		}
		fmt.Fprintf(out, "%s\t%d\t%s\n", cell, id, f.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read formulas: %w", err)
	}

	logger.Info().Int("distinct", table.Len()).Int("failed", failed).Msg("parsed formulas")
	fmt.Fprintf(out, "%d distinct formulas\n", table.Len())
	return nil
}
