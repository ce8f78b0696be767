package formula

import (
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"
)

// MaxFormulaLength caps the text accepted by ParseFormula
const MaxFormulaLength = 8192

// ParserContext holds the locale-ish symbols the grammar matches. a context is
// read-only once a Grammar has been built from it.
type ParserContext struct {
	ValueSeparator   rune
	DecimalSeparator rune
	ExponentSymbol   string
	PercentSymbol    rune
	NegativeSign     rune
	PositiveSign     rune
	DateSeparators   string
	TimeSeparator    rune

	MonthNames             [12]string
	MonthNameAbbreviations [12]string
	DayNames               [7]string // Sunday first, matching time.Weekday
	DayNameAbbreviations   [7]string
	AmPm                   [2]string

	Logger *zerolog.Logger
}

// NewParserContext returns the en-US defaults
func NewParserContext() *ParserContext {
	return &ParserContext{
		ValueSeparator:   ',',
		DecimalSeparator: '.',
		ExponentSymbol:   "E",
		PercentSymbol:    '%',
		NegativeSign:     '-',
		PositiveSign:     '+',
		DateSeparators:   "/-",
		TimeSeparator:    ':',
		MonthNames: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		MonthNameAbbreviations: [12]string{
			"Jan", "Feb", "Mar", "Apr", "May", "Jun",
			"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
		},
		DayNames: [7]string{
			"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
		},
		DayNameAbbreviations: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		AmPm:                 [2]string{"AM", "PM"},
	}
}

func (ctx *ParserContext) debug() *zerolog.Event {
	if ctx == nil || ctx.Logger == nil {
		return nil
	}
	return ctx.Logger.Debug()
}

// NumberKind selects the representation of numbers in built expressions
type NumberKind uint8

const (
	NumberKindBigDecimal NumberKind = iota // *apd.Decimal
	NumberKindFloat64                      // float64
)

func (k NumberKind) String() string {
	switch k {
	case NumberKindBigDecimal:
		return "big-decimal"
	case NumberKindFloat64:
		return "float64"
	}
	return "unknown"
}

// ParseNumberKind is the inverse of NumberKind.String
func ParseNumberKind(text string) (NumberKind, bool) {
	for _, k := range []NumberKind{NumberKindBigDecimal, NumberKindFloat64} {
		if k.String() == text {
			return k, true
		}
	}
	return NumberKindBigDecimal, false
}

// Clock interface provides time functionality for testing
type Clock interface {
	Now() time.Time
}

// WallClock is the default implementation using system time
type WallClock struct{}

func (w *WallClock) Now() time.Time {
	return time.Now()
}

// ExpressionContext configures ToExpression
type ExpressionContext struct {
	NumberKind NumberKind

	// TwoDigitYear is the pivot for expanding a 1 or 2 digit year: values
	// below it land in 2000+, the pivot and above in 1900+.
	TwoDigitYear int

	// DefaultYear and DefaultMonth fill in dates written without them. zero
	// means use the clock.
	DefaultYear  int
	DefaultMonth time.Month
	Clock        Clock

	// Decimal rounds BigDecimal numbers. nil leaves them exact.
	Decimal *apd.Context

	Logger *zerolog.Logger
}

const (
	defaultTwoDigitYear     = 20
	defaultDecimalPrecision = 34
)

// NewExpressionContext returns a context using big decimals with 34 digits of
// precision, a two digit year pivot of 20 and the wall clock.
func NewExpressionContext() *ExpressionContext {
	return &ExpressionContext{
		NumberKind:   NumberKindBigDecimal,
		TwoDigitYear: defaultTwoDigitYear,
		Clock:        &WallClock{},
		Decimal:      apd.BaseContext.WithPrecision(defaultDecimalPrecision),
	}
}

func (ctx *ExpressionContext) now() time.Time {
	if ctx.Clock == nil {
		return time.Now()
	}
	return ctx.Clock.Now()
}

func (ctx *ExpressionContext) defaultYear() int {
	if ctx.DefaultYear != 0 {
		return ctx.DefaultYear
	}
	return ctx.now().Year()
}

func (ctx *ExpressionContext) defaultMonth() time.Month {
	if ctx.DefaultMonth != 0 {
		return ctx.DefaultMonth
	}
	return ctx.now().Month()
}

// expandYear resolves a 1 or 2 digit year against the pivot
func (ctx *ExpressionContext) expandYear(value int) int {
	if value < ctx.TwoDigitYear {
		return 2000 + value
	}
	return 1900 + value
}

func (ctx *ExpressionContext) debug() *zerolog.Event {
	if ctx == nil || ctx.Logger == nil {
		return nil
	}
	return ctx.Logger.Debug()
}
