package cmd

import (
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/vogtb/go-spreadsheet/packages/formula"
)

// Config holds the settings shared by every command
type Config struct {
	NumberKind       formula.NumberKind
	TwoDigitYear     int
	DefaultYear      int
	ValueSeparator   rune
	DecimalSeparator rune
	LogLevel         string
}

// NewConfig creates and returns a new Config instance, populating it from
// environment variables or using default values.
func NewConfig() *Config {
	return &Config{
		NumberKind:       getEnvAsNumberKind("FORMULA_NUMBER_KIND", formula.NumberKindBigDecimal),
		TwoDigitYear:     getEnvAsInt("FORMULA_TWO_DIGIT_YEAR", 20),
		DefaultYear:      getEnvAsInt("FORMULA_DEFAULT_YEAR", 0),
		ValueSeparator:   getEnvAsRune("FORMULA_VALUE_SEPARATOR", ','),
		DecimalSeparator: getEnvAsRune("FORMULA_DECIMAL_SEPARATOR", '.'),
		LogLevel:         getEnv("FORMULA_LOG_LEVEL", zerolog.WarnLevel.String()),
	}
}

// ParserContext returns the en-US parser context with the configured
// separators
func (c *Config) ParserContext(logger *zerolog.Logger) (*formula.ParserContext, error) {
	if c.ValueSeparator == c.DecimalSeparator {
		return nil, fmt.Errorf("value separator and decimal separator are both %q", c.ValueSeparator)
	}
	ctx := formula.NewParserContext()
	ctx.ValueSeparator = c.ValueSeparator
	ctx.DecimalSeparator = c.DecimalSeparator
	ctx.Logger = logger
	return ctx, nil
}

func (c *Config) ExpressionContext(logger *zerolog.Logger) *formula.ExpressionContext {
	ctx := formula.NewExpressionContext()
	ctx.NumberKind = c.NumberKind
	ctx.TwoDigitYear = c.TwoDigitYear
	ctx.DefaultYear = c.DefaultYear
	ctx.Logger = logger
	return ctx
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt parses an environment variable as an integer.
// If the environment variable is not set, not a valid integer, or is empty,
// it returns the provided fallback value.
func getEnvAsInt(key string, fallback int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return fallback
}

// getEnvAsRune accepts a single character
func getEnvAsRune(key string, fallback rune) rune {
	if valueStr, exists := os.LookupEnv(key); exists {
		if r, ok := singleRune(valueStr); ok {
			return r
		}
	}
	return fallback
}

func getEnvAsNumberKind(key string, fallback formula.NumberKind) formula.NumberKind {
	if valueStr, exists := os.LookupEnv(key); exists {
		if kind, ok := formula.ParseNumberKind(valueStr); ok {
			return kind
		}
	}
	return fallback
}

func singleRune(text string) (rune, bool) {
	if utf8.RuneCountInString(text) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return r, r != utf8.RuneError
}
