package formula

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogtb/go-spreadsheet/packages/expression"
	"github.com/vogtb/go-spreadsheet/packages/reference"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func testExpressionContext(kind NumberKind) *ExpressionContext {
	ctx := NewExpressionContext()
	ctx.NumberKind = kind
	ctx.Clock = fixedClock{now: time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)}
	return ctx
}

func assertExpression(t *testing.T, want, got expression.Expression) {
	t.Helper()
	assert.True(t, expression.Equal(want, got), "expected %v but got %v", want, got)
}

func buildExpression(t *testing.T, p Parser, text string, ctx *ExpressionContext) expression.Expression {
	t.Helper()
	n, err := p.Parse(text)
	require.NoError(t, err)
	e, err := ToExpression(n, ctx)
	require.NoError(t, err)
	return e
}

func decimal(t *testing.T, text string) *apd.Decimal {
	t.Helper()
	d, _, err := apd.NewFromString(text)
	require.NoError(t, err)
	return d
}

func TestToExpressionNumbers(t *testing.T) {
	g := NewGrammar(nil)
	tests := []struct {
		text string
		want string
		f    float64
	}{
		{"001", "1", 1},
		{"50%", "0.5", 0.5},
		{"1E2", "100", 100},
		{"-400%", "-4", -4},
		{"12.5", "12.5", 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			big := buildExpression(t, g.Number(), tt.text, testExpressionContext(NumberKindBigDecimal))
			assertExpression(t, expression.NewValue(decimal(t, tt.want)), big)

			float := buildExpression(t, g.Number(), tt.text, testExpressionContext(NumberKindFloat64))
			assertExpression(t, expression.NewValue(tt.f), float)
		})
	}
}

func TestToExpressionRounding(t *testing.T) {
	ctx := testExpressionContext(NumberKindBigDecimal)
	ctx.Decimal = apd.BaseContext.WithPrecision(3)
	e := buildExpression(t, NewGrammar(nil).Number(), "1.23456", ctx)
	assertExpression(t, expression.NewValue(decimal(t, "1.23")), e)

	ctx.Decimal = nil
	e = buildExpression(t, NewGrammar(nil).Number(), "1.23456", ctx)
	assertExpression(t, expression.NewValue(decimal(t, "1.23456")), e)
}

func TestToExpressionDates(t *testing.T) {
	g := NewGrammar(nil)
	tests := []struct {
		text string
		want civil.Date
	}{
		{"1/1/10", civil.Date{Year: 2010, Month: time.January, Day: 1}},
		{"1/1/20", civil.Date{Year: 1920, Month: time.January, Day: 1}},
		{"1/1/50", civil.Date{Year: 1950, Month: time.January, Day: 1}},
		{"1/1/5", civil.Date{Year: 2005, Month: time.January, Day: 1}},
		{"1/1/2000", civil.Date{Year: 2000, Month: time.January, Day: 1}},
		{"31/12", civil.Date{Year: 2024, Month: time.December, Day: 31}},
		{"Dec 1999", civil.Date{Year: 1999, Month: time.December, Day: 1}},
		{"29/2/2024", civil.Date{Year: 2024, Month: time.February, Day: 29}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			e := buildExpression(t, g.Date(), tt.text, testExpressionContext(NumberKindBigDecimal))
			assertExpression(t, expression.NewValue(tt.want), e)
		})
	}
}

func TestToExpressionDefaultYear(t *testing.T) {
	ctx := testExpressionContext(NumberKindBigDecimal)
	ctx.DefaultYear = 1999
	ctx.TwoDigitYear = 50
	g := NewGrammar(nil)

	e := buildExpression(t, g.Date(), "31/12", ctx)
	assertExpression(t, expression.NewValue(civil.Date{Year: 1999, Month: time.December, Day: 31}), e)

	e = buildExpression(t, g.Date(), "1/1/20", ctx)
	assertExpression(t, expression.NewValue(civil.Date{Year: 2020, Month: time.January, Day: 1}), e)
}

func TestToExpressionDefaultMonth(t *testing.T) {
	slash := NewSymbol(KindDateSeparator, "/")
	date := func(day int) *Date {
		d, err := NewDate([]Node{
			NewComponent(KindDayNumber, day, strconv.Itoa(day)), slash,
			NewComponent(KindYear, 2000, "2000"),
		})
		require.NoError(t, err)
		return d
	}

	ctx := testExpressionContext(NumberKindBigDecimal)
	e, err := ToExpression(date(5), ctx)
	require.NoError(t, err)
	assertExpression(t, expression.NewValue(civil.Date{Year: 2000, Month: time.March, Day: 5}), e)

	ctx.DefaultMonth = time.June
	e, err = ToExpression(date(5), ctx)
	require.NoError(t, err)
	assertExpression(t, expression.NewValue(civil.Date{Year: 2000, Month: time.June, Day: 5}), e)

	_, err = ToExpression(date(31), ctx)
	var spreadsheetErr *SpreadsheetError
	require.True(t, errors.As(err, &spreadsheetErr), "expected *SpreadsheetError but got %v", err)
	assert.Equal(t, ErrorCodeValue, spreadsheetErr.ErrorCode)
}

func TestToExpressionInvalidDate(t *testing.T) {
	n, err := NewGrammar(nil).Date().Parse("29/2/2001")
	require.NoError(t, err)

	_, err = ToExpression(n, testExpressionContext(NumberKindBigDecimal))
	var spreadsheetErr *SpreadsheetError
	require.True(t, errors.As(err, &spreadsheetErr), "expected *SpreadsheetError but got %v", err)
	assert.Equal(t, ErrorCodeValue, spreadsheetErr.ErrorCode)
}

func TestToExpressionTimes(t *testing.T) {
	g := NewGrammar(nil)
	ctx := testExpressionContext(NumberKindFloat64)

	assertExpression(t, expression.NewValue(civil.Time{Hour: 23}), buildExpression(t, g.Time(), "11 PM", ctx))
	assertExpression(t, expression.NewValue(civil.Time{Hour: 0}), buildExpression(t, g.Time(), "12 AM", ctx))

	e := buildExpression(t, g.DateTime(), "31/12/1999 23:59:30", ctx)
	want := civil.DateTime{
		Date: civil.Date{Year: 1999, Month: time.December, Day: 31},
		Time: civil.Time{Hour: 23, Minute: 59, Second: 30},
	}
	assertExpression(t, expression.NewValue(want), e)
}

func TestToExpressionFormulas(t *testing.T) {
	g := NewGrammar(nil)
	a1, _ := reference.ParseCell("A1")
	b2, _ := reference.ParseCell("B2")
	r, _ := reference.ParseCellRange("A1:B2")
	x := expression.NewReference(reference.Label("x"))
	num := func(v float64) expression.Expression { return expression.NewValue(v) }

	tests := []struct {
		text string
		want expression.Expression
	}{
		{"=1+2", expression.Add(num(1), num(2))},
		{"=1+2*3", expression.Add(num(1), expression.Multiply(num(2), num(3)))},
		{"=(1-2)/3", expression.Divide(expression.Subtract(num(1), num(2)), num(3))},
		{"=2^3", expression.Power(num(2), num(3))},
		{"=-A1", expression.Negate(expression.NewReference(a1))},
		{"=A1:B2", expression.NewReference(r)},
		{"=A1<>B2", expression.NotEquals(expression.NewReference(a1), expression.NewReference(b2))},
		{"=A1>=1", expression.GreaterThanEquals(expression.NewReference(a1), num(1))},
		{"=A1<=1", expression.LessThanEquals(expression.NewReference(a1), num(1))},
		{"=A1<1", expression.LessThan(expression.NewReference(a1), num(1))},
		{"=A1>1", expression.GreaterThan(expression.NewReference(a1), num(1))},
		{"=A1=1", expression.Equals(expression.NewReference(a1), num(1))},
		{`="say ""hi"""`, expression.NewValue(`say "hi"`)},
		{"=TRUE", expression.NewValue(true)},
		{"=#N/A", expression.NewValue(NewSpreadsheetError(ErrorCodeNA, ""))},
		{"=SUM()", expression.NewCall(expression.NewNamedFunction("SUM"))},
		{
			"=sum(A1, rate, -2)",
			expression.NewCall(
				expression.NewNamedFunction("SUM"),
				expression.NewReference(a1),
				expression.NewReference(reference.Label("rate")),
				expression.Negate(num(2)),
			),
		},
		{
			"=LAMBDA(x, x*2)(3)",
			expression.NewCall(
				expression.NewCall(expression.NewNamedFunction("LAMBDA"), x, expression.Multiply(x, num(2))),
				num(3),
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			e := buildExpression(t, g.ValueOrExpression(), tt.text, testExpressionContext(NumberKindFloat64))
			assertExpression(t, tt.want, e)
		})
	}
}

func TestToExpressionBigDecimalFormula(t *testing.T) {
	e := buildExpression(t, NewGrammar(nil).ValueOrExpression(), "=0.1+0.2", testExpressionContext(NumberKindBigDecimal))
	assertExpression(t, expression.Add(expression.NewValue(decimal(t, "0.1")), expression.NewValue(decimal(t, "0.2"))), e)
}

func TestToExpressionTemplateValueName(t *testing.T) {
	n, err := NewGrammar(nil).TemplateValueName().Parse("first-name")
	require.NoError(t, err)
	e, err := ToExpression(n, nil)
	require.NoError(t, err)
	assertExpression(t, expression.NewReference(reference.TemplateValueName("first-name")), e)
}

func TestToExpressionConditionRight(t *testing.T) {
	g := NewGrammar(nil)
	n, err := g.ConditionRight().Parse(">10")
	require.NoError(t, err)

	_, err = ToExpression(n, nil)
	requireInvalidArgument(t, err)

	a1, err := g.Cell().Parse("A1")
	require.NoError(t, err)
	combined, err := n.(*ConditionRight).CombineLeft(a1)
	require.NoError(t, err)

	e, err := ToExpression(combined, testExpressionContext(NumberKindFloat64))
	require.NoError(t, err)
	assertExpression(t, expression.GreaterThan(expression.NewReference(a1.(*Cell).Reference()), expression.NewValue(10.0)), e)
}

func TestToExpressionNothing(t *testing.T) {
	e, err := ToExpression(NewSymbol(KindPlus, "+"), nil)
	require.NoError(t, err)
	assert.Nil(t, e)

	_, err = ToExpression(nil, nil)
	require.Error(t, err)
}
