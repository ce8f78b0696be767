package formula

import (
	"errors"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogtb/go-spreadsheet/packages/reference"
)

func digits(text string) Node { return NewDigits(text) }

func number(t *testing.T, children ...Node) *Number {
	t.Helper()
	n, err := NewNumber(children)
	require.NoError(t, err)
	return n
}

func assertDecimal(t *testing.T, want string, got *apd.Decimal) {
	t.Helper()
	d, _, err := apd.NewFromString(want)
	require.NoError(t, err)
	assert.Zero(t, d.Cmp(got), "expected %s but got %s", want, got)
}

func requireInvalidArgument(t *testing.T, err error) {
	t.Helper()
	var appErr *AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError but got %v", err)
	assert.Equal(t, InvalidArgument, appErr.Code)
}

func TestBinaryArity(t *testing.T) {
	one := number(t, digits("1"))
	two := number(t, digits("2"))
	three := number(t, digits("3"))
	plus := NewSymbol(KindPlus, "+")
	space := NewWhitespace(" ")

	tests := []struct {
		name     string
		children []Node
	}{
		{"NoOperands", []Node{plus}},
		{"OneOperand", []Node{one, plus}},
		{"ThreeOperands", []Node{one, plus, two, plus, three}},
		{"Empty", nil},
		{"MissingSymbol", []Node{one, two}},
		{"WrongSymbol", []Node{one, NewSymbol(KindMultiply, "*"), two}},
		{"TwoSymbols", []Node{one, plus, plus, two}},
		{"SymbolFirst", []Node{plus, one, two}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBinary(KindAddition, tt.children)
			requireInvalidArgument(t, err)
		})
	}

	b, err := NewBinary(KindAddition, []Node{one, space, plus, space, two})
	require.NoError(t, err)
	assert.Equal(t, "1 + 2", b.Text())
	assert.Same(t, one, b.Left())
	assert.Same(t, two, b.Right())
	assert.Len(t, b.Children(), 5)

	_, err = NewBinary(KindGroup, []Node{one, plus, two})
	requireInvalidArgument(t, err)
}

func TestUnaryArity(t *testing.T) {
	one := number(t, digits("1"))
	open := NewSymbol(KindParenthesisOpen, "(")
	closing := NewSymbol(KindParenthesisClose, ")")

	group, err := NewUnary(KindGroup, []Node{open, NewWhitespace(" "), one, closing})
	require.NoError(t, err)
	assert.Equal(t, "( 1)", group.Text())
	assert.Same(t, one, group.Operand())

	_, err = NewUnary(KindGroup, []Node{open, closing})
	requireInvalidArgument(t, err)

	_, err = NewUnary(KindNegative, []Node{one, one})
	requireInvalidArgument(t, err)
}

func TestConditionRightCombineLeft(t *testing.T) {
	ten := number(t, digits("10"))
	right, err := NewConditionRight(KindConditionRightGreaterThanEquals, []Node{NewSymbol(KindGreaterThanEquals, ">="), ten})
	require.NoError(t, err)
	assert.Same(t, ten, right.Right())

	left := number(t, digits("5"))
	combined, err := right.CombineLeft(left)
	require.NoError(t, err)
	assert.Equal(t, KindGreaterThanEqualsCondition, combined.Kind())
	assert.Equal(t, "5>=10", combined.Text())
	assert.Same(t, left, combined.Left())
	assert.Same(t, ten, combined.Right())

	_, err = NewConditionRight(KindConditionRightEquals, []Node{NewSymbol(KindEquals, "=")})
	requireInvalidArgument(t, err)

	_, err = NewConditionRight(KindConditionRightEquals, []Node{NewSymbol(KindLessThan, "<"), ten})
	requireInvalidArgument(t, err)

	_, err = NewConditionRight(KindConditionRightEquals, []Node{ten, NewSymbol(KindEquals, "=")})
	requireInvalidArgument(t, err)
}

func TestCellReference(t *testing.T) {
	column, _ := reference.ParseColumn("$B")
	row, _ := reference.ParseRow("3")

	cell, err := NewCell([]Node{NewColumn(column, "$B"), NewRow(row, "3")})
	require.NoError(t, err)
	assert.Equal(t, "$B3", cell.Text())
	assert.Equal(t, "$B3", cell.Reference().String())

	_, err = NewCell([]Node{NewRow(row, "3"), NewColumn(column, "$B")})
	requireInvalidArgument(t, err)

	_, err = NewCellRange([]Node{cell, cell})
	requireInvalidArgument(t, err)

	r, err := NewCellRange([]Node{cell, NewSymbol(KindBetween, ":"), cell})
	require.NoError(t, err)
	assert.Equal(t, "$B3:$B3", r.Reference().String())
}

func TestTextLiterals(t *testing.T) {
	quote := NewSymbol(KindDoubleQuote, `"`)
	literal := NewTextLiteral(`say "hi"`, `say ""hi""`)

	text, err := NewText([]Node{quote, literal, quote})
	require.NoError(t, err)
	assert.Equal(t, `"say ""hi"""`, text.Text())
	assert.Equal(t, `say "hi"`, text.Value())

	_, err = NewText([]Node{quote, literal, literal, quote})
	requireInvalidArgument(t, err)

	_, err = NewText([]Node{quote, digits("1"), quote})
	requireInvalidArgument(t, err)
}

func TestNumberValue(t *testing.T) {
	tests := []struct {
		name     string
		children []Node
		want     string
	}{
		{"LeadingZeros", []Node{digits("001")}, "1"},
		{"Percent", []Node{digits("50"), NewSymbol(KindPercent, "%")}, "0.5"},
		{"Exponent", []Node{digits("1"), NewSymbol(KindExponent, "E"), digits("2")}, "100"},
		{"NegativePercent", []Node{NewSymbol(KindMinus, "-"), digits("400"), NewSymbol(KindPercent, "%")}, "-4"},
		{"Fraction", []Node{digits("1"), NewSymbol(KindDecimalSeparator, "."), digits("25")}, "1.25"},
		{"FractionOnly", []Node{NewSymbol(KindDecimalSeparator, "."), digits("5")}, "0.5"},
		{"NegativeExponent", []Node{digits("15"), NewSymbol(KindExponent, "e"), NewSymbol(KindMinus, "-"), digits("1")}, "1.5"},
		{"NoDigits", []Node{NewSymbol(KindPercent, "%")}, "0"},
		{"SignOnly", []Node{NewSymbol(KindMinus, "-")}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := number(t, tt.children...)
			assertDecimal(t, tt.want, n.Value())
			assert.Equal(t, textOf(tt.children), n.Text())
		})
	}

	_, err := NewNumber([]Node{digits("1"), NewSymbol(KindExponent, "E")})
	requireInvalidArgument(t, err)
}

func TestTimeAmPm(t *testing.T) {
	colon := NewSymbol(KindTimeSeparator, ":")
	space := NewWhitespace(" ")
	tests := []struct {
		hour int
		ampm int
		want civil.Time
	}{
		{11, 12, civil.Time{Hour: 23}},
		{12, 0, civil.Time{Hour: 0}},
		{12, 12, civil.Time{Hour: 12}},
		{1, 0, civil.Time{Hour: 1}},
	}
	for _, tt := range tests {
		children := []Node{
			NewComponent(KindHour, tt.hour, "h"),
			colon,
			NewComponent(KindMinute, 0, "00"),
			space,
			NewComponent(KindAmPm, tt.ampm, "am-pm"),
		}
		tm, err := NewTime(children)
		require.NoError(t, err)
		assert.Equal(t, tt.want, tm.Value())
	}

	_, err := NewTime([]Node{NewComponent(KindHour, 13, "13"), space, NewComponent(KindAmPm, 12, "PM")})
	requireInvalidArgument(t, err)

	_, err = NewTime([]Node{NewComponent(KindMinute, 1, "01")})
	requireInvalidArgument(t, err)
}

func TestDateParts(t *testing.T) {
	slash := NewSymbol(KindDateSeparator, "/")
	date, err := NewDate([]Node{
		NewComponent(KindDayNumber, 31, "31"), slash,
		NewComponent(KindMonthNumber, 12, "12"), slash,
		NewComponent(KindYear, 99, "99"),
	})
	require.NoError(t, err)
	assert.Equal(t, DateParts{Day: 31, Month: 12, Year: 99, YearDigits: 2, Weekday: -1}, date.Parts())

	date, err = NewDate([]Node{NewComponent(KindDayNumber, 31, "31"), slash, NewComponent(KindYear, 2000, "2000")})
	require.NoError(t, err)
	assert.Equal(t, DateParts{Day: 31, Year: 2000, YearDigits: 4, Weekday: -1}, date.Parts())

	_, err = NewDate([]Node{NewComponent(KindDayNumber, 30, "30"), slash, NewComponent(KindMonthNumber, 2, "2")})
	requireInvalidArgument(t, err)
}

func TestFunctionShapes(t *testing.T) {
	name := NewFunctionName("SUM", "sum")
	params, err := NewFunctionParameters([]Node{
		NewSymbol(KindParenthesisOpen, "("),
		number(t, digits("1")),
		NewSymbol(KindValueSeparator, ","),
		NewWhitespace(" "),
		number(t, digits("2")),
		NewSymbol(KindParenthesisClose, ")"),
	})
	require.NoError(t, err)
	assert.Len(t, params.Arguments(), 2)

	f, err := NewNamedFunction([]Node{name, params})
	require.NoError(t, err)
	assert.Equal(t, "SUM", f.Name())
	assert.Equal(t, "sum(1, 2)", f.Text())

	_, err = NewNamedFunction([]Node{name})
	requireInvalidArgument(t, err)

	_, err = NewLambda([]Node{name, params})
	requireInvalidArgument(t, err)

	_, err = NewFunctionParameters([]Node{number(t, digits("1"))})
	requireInvalidArgument(t, err)
}

func TestNewSymbolPanics(t *testing.T) {
	assert.Panics(t, func() { NewSymbol(KindDigits, "1") })
	assert.Panics(t, func() { NewComponent(KindPlus, 1, "+") })
	assert.NotPanics(t, func() { NewSymbol(KindWhitespace, " ") })
}

func TestEqual(t *testing.T) {
	g := NewGrammar(nil)
	parse := func(text string) Node {
		n, err := g.Expression().Parse(text)
		require.NoError(t, err)
		return n
	}

	assert.True(t, Equal(parse("1+2*A1"), parse("1+2*A1")))
	assert.False(t, Equal(parse("1+2"), parse("1 + 2")))
	assert.False(t, Equal(parse("1+2"), parse("1-2")))
	assert.False(t, Equal(parse("A1"), parse("a1")))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(parse("1"), nil))
}

func TestKindNames(t *testing.T) {
	for k := KindDigits; k < kindCount; k++ {
		assert.NotEmpty(t, k.String(), "kind %d", k)
		found, ok := KindByName(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, found)
	}
	_, ok := KindByName("invalid")
	assert.False(t, ok)
}

func TestTextReconstruction(t *testing.T) {
	g := NewGrammar(nil)
	formulas := []string{
		"=1 + 2 * 3",
		"=SUM( A1:B2 , -C3 , \"x\"\"y\" )",
		"=LAMBDA(x, x*2)(3)",
		"=(1+2)^3%",
		"=IF(A1<>B$2, #N/A, TRUE)",
		"=total.net / 1.5E-3",
		"Monday, 1 Jan 2000 12:30:15.5 PM",
		"'quoted",
		"plain text",
	}
	for _, formula := range formulas {
		t.Run(formula, func(t *testing.T) {
			root, err := g.ValueOrExpression().Parse(formula)
			require.NoError(t, err)
			assert.Equal(t, formula, root.Text())

			Inspect(root, func(n Node) bool {
				if children := Children(n); children != nil {
					assert.Equal(t, n.Text(), textOf(children), n.Kind().String())
				}
				return true
			})
		})
	}
}

func TestReferences(t *testing.T) {
	n, err := NewGrammar(nil).Expression().Parse("SUM(A1:B2, $C$3, rate) * tax")
	require.NoError(t, err)

	var texts []string
	for _, ref := range References(n) {
		texts = append(texts, ref.String())
	}
	assert.Equal(t, []string{"A1:B2", "$C$3", "rate", "tax"}, texts)
}
