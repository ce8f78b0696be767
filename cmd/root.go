package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vogtb/go-spreadsheet/packages/formula"
)

var (
	cfg = NewConfig()

	numberKind       string
	valueSeparator   string
	decimalSeparator string

	logger        zerolog.Logger
	grammar       *formula.Grammar
	expressionCtx *formula.ExpressionContext
)

var rootCmd = &cobra.Command{
	Use:   "formula",
	Short: "Formula CLI: parse spreadsheet formulas into trees and expressions",
	Long: `Formula parses what a user types into a spreadsheet cell.

Commands:
  parse       Print the parse tree of a formula as JSON
  expression  Print the expression built from a formula
  references  List the cells, ranges and labels a formula refers to
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configure(cmd.ErrOrStderr())
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&numberKind, "number-kind", cfg.NumberKind.String(), "number representation: big-decimal or float64")
	flags.IntVar(&cfg.TwoDigitYear, "two-digit-year", cfg.TwoDigitYear, "years below this pivot are 20xx, others 19xx")
	flags.IntVar(&cfg.DefaultYear, "default-year", cfg.DefaultYear, "year for dates written without one, 0 for the current year")
	flags.StringVar(&valueSeparator, "value-separator", string(cfg.ValueSeparator), "function argument separator")
	flags.StringVar(&decimalSeparator, "decimal-separator", string(cfg.DecimalSeparator), "number decimal separator")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	rootCmd.AddCommand(ParseCmd, ExpressionCmd, ReferencesCmd)
}

// configure applies the flags to cfg and builds the shared grammar, contexts
// and logger
func configure(stderr io.Writer) error {
	kind, ok := formula.ParseNumberKind(numberKind)
	if !ok {
		return fmt.Errorf("unknown number kind %q, expected %s or %s",
			numberKind, formula.NumberKindBigDecimal, formula.NumberKindFloat64)
	}
	cfg.NumberKind = kind

	var err error
	if cfg.ValueSeparator, err = separatorFlag("value-separator", valueSeparator); err != nil {
		return err
	}
	if cfg.DecimalSeparator, err = separatorFlag("decimal-separator", decimalSeparator); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()

	parserCtx, err := cfg.ParserContext(&logger)
	if err != nil {
		return err
	}
	grammar = formula.NewGrammar(parserCtx)
	expressionCtx = cfg.ExpressionContext(&logger)

	logger.Debug().
		Str("number_kind", cfg.NumberKind.String()).
		Int("two_digit_year", cfg.TwoDigitYear).
		Msg("configured")
	return nil
}

func separatorFlag(name, value string) (rune, error) {
	r, ok := singleRune(value)
	if !ok {
		return 0, fmt.Errorf("--%s must be a single character but got %q", name, value)
	}
	return r, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// formulaError reports the error held by f, nil when there is none
func formulaError(f formula.Formula) error {
	if err := f.Error(); err != nil {
		return fmt.Errorf("%s %s", err.ErrorCode, err.Message)
	}
	return nil
}
