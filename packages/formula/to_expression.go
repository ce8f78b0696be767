package formula

import (
	"fmt"

	"github.com/golang-sql/civil"

	"github.com/vogtb/go-spreadsheet/packages/expression"
	"github.com/vogtb/go-spreadsheet/packages/reference"
)

var binaryOps = map[Kind]expression.Op{
	KindAddition:                   expression.OpAdd,
	KindSubtraction:                expression.OpSubtract,
	KindMultiplication:             expression.OpMultiply,
	KindDivision:                   expression.OpDivide,
	KindPowerOf:                    expression.OpPower,
	KindEqualsCondition:            expression.OpEquals,
	KindNotEqualsCondition:         expression.OpNotEquals,
	KindGreaterThanCondition:       expression.OpGreaterThan,
	KindGreaterThanEqualsCondition: expression.OpGreaterThanEquals,
	KindLessThanCondition:          expression.OpLessThan,
	KindLessThanEqualsCondition:    expression.OpLessThanEquals,
}

// ToExpression converts a parsed tree into an expression. the result is nil
// when the tree holds nothing that evaluates, such as a lone symbol. an
// invalid date is returned as a *SpreadsheetError.
func ToExpression(n Node, ctx *ExpressionContext) (expression.Expression, error) {
	if n == nil {
		return nil, NewApplicationError(InvalidArgument, "nil node")
	}
	if ctx == nil {
		ctx = NewExpressionContext()
	}

	b := &builder{ctx: ctx, stack: [][]expression.Expression{nil}}
	Walk(b, n)
	if b.err != nil {
		ctx.debug().Str("text", n.Text()).Err(b.err).Msg("expression failed")
		return nil, b.err
	}
	if len(b.stack) != 1 {
		return nil, NewApplicationError(Internal, fmt.Sprintf("unbalanced expression stack %d", len(b.stack)))
	}

	results := b.stack[0]
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		ctx.debug().Str("text", n.Text()).Stringer("expression", results[0]).Msg("expression built")
		return results[0], nil
	}
	return nil, NewApplicationError(Internal, fmt.Sprintf("%s: expected 0 or 1 expressions but got %d", n.Kind(), len(results)))
}

// builder collects the expressions of the children of every node being
// visited, one list per level. Enter pushes a list, Leave pops it and
// appends the result for the node to its parent's list.
type builder struct {
	ctx   *ExpressionContext
	stack [][]expression.Expression
	err   error
}

func (b *builder) Enter(Node) bool {
	if b.err != nil {
		return false
	}
	b.stack = append(b.stack, nil)
	return true
}

func (b *builder) Leave(n Node) {
	last := len(b.stack) - 1
	results := b.stack[last]
	b.stack = b.stack[:last]
	if b.err != nil {
		return
	}

	built, err := b.build(n, results)
	if err != nil {
		b.err = err
		return
	}
	b.stack[last-1] = append(b.stack[last-1], built...)
}

func (b *builder) build(n Node, results []expression.Expression) ([]expression.Expression, error) {
	switch n := n.(type) {
	case *Leaf:
		return b.leaf(n), nil
	case *Binary:
		if len(results) != 2 {
			return nil, b.count(n, 2, results)
		}
		return one(expression.NewBinary(binaryOps[n.Kind()], results[0], results[1])), nil
	case *Unary:
		if len(results) != 1 {
			return nil, b.count(n, 1, results)
		}
		if n.Kind() == KindNegative {
			return one(expression.Negate(results[0])), nil
		}
		return results, nil
	case *ConditionRight:
		return nil, invalidArgument("%s %q must be combined with a left operand", n.Kind(), n.Text())
	case *Cell:
		return one(expression.NewReference(n.Reference())), nil
	case *CellRange:
		return one(expression.NewReference(n.Reference())), nil
	case *Number:
		return b.number(n)
	case *Date:
		date, err := b.date(n)
		if err != nil {
			return nil, err
		}
		return one(expression.NewValue(date)), nil
	case *Time:
		return one(expression.NewValue(n.Value())), nil
	case *DateTime:
		return b.dateTime(n)
	case *Text:
		return one(expression.NewValue(n.Value())), nil
	case *FunctionParameters:
		return results, nil
	case *NamedFunction:
		return one(expression.NewCall(expression.NewNamedFunction(n.Name()), results...)), nil
	case *Lambda:
		declared := len(n.Declared().Arguments())
		if len(results) < declared {
			return nil, b.count(n, declared, results)
		}
		create := expression.NewCall(expression.NewNamedFunction(n.Name()), results[:declared]...)
		return one(expression.NewCall(create, results[declared:]...)), nil
	}
	return nil, NewApplicationError(Internal, fmt.Sprintf("unexpected node %T", n))
}

func (b *builder) leaf(n *Leaf) []expression.Expression {
	switch n.Kind() {
	case KindError:
		code, _ := n.value.(ErrorCode)
		return one(expression.NewValue(NewSpreadsheetError(code, "")))
	case KindLabelName, KindTemplateValueName:
		if ref, ok := n.value.(reference.Reference); ok {
			return one(expression.NewReference(ref))
		}
	case KindBoolean:
		return one(expression.NewValue(n.value))
	}
	return nil
}

func (b *builder) count(n Node, want int, results []expression.Expression) error {
	return NewApplicationError(Internal, fmt.Sprintf("%s %q: expected %d expressions but got %d", n.Kind(), n.Text(), want, len(results)))
}

// number converts the exact value to the configured number kind
func (b *builder) number(n *Number) ([]expression.Expression, error) {
	value := n.Value()
	switch b.ctx.NumberKind {
	case NumberKindFloat64:
		f, err := value.Float64()
		if err != nil {
			return nil, &SpreadsheetError{ErrorCode: ErrorCodeNum, Message: fmt.Sprintf("Invalid number %q: %v", n.Text(), err)}
		}
		return one(expression.NewValue(f)), nil
	default:
		if b.ctx.Decimal != nil {
			if _, err := b.ctx.Decimal.Round(value, value); err != nil {
				return nil, &SpreadsheetError{ErrorCode: ErrorCodeNum, Message: fmt.Sprintf("Invalid number %q: %v", n.Text(), err)}
			}
		}
		return one(expression.NewValue(value)), nil
	}
}

// date fills in the missing day, month and year and expands short years
func (b *builder) date(n *Date) (civil.Date, error) {
	parts := n.Parts()

	year := parts.Year
	switch {
	case parts.YearDigits == 0:
		year = b.ctx.defaultYear()
	case parts.YearDigits <= 2:
		year = b.ctx.expandYear(year)
	}
	month := parts.Month
	if month == 0 {
		month = b.ctx.defaultMonth()
	}
	day := parts.Day
	if day == 0 {
		day = 1
	}

	date := civil.Date{Year: year, Month: month, Day: day}
	if !date.IsValid() {
		return date, NewSpreadsheetError(ErrorCodeValue, fmt.Sprintf("Invalid date %q: %s", n.Text(), date))
	}
	return date, nil
}

func (b *builder) dateTime(n *DateTime) ([]expression.Expression, error) {
	var value civil.DateTime
	if n.Date() != nil {
		date, err := b.date(n.Date())
		if err != nil {
			return nil, err
		}
		value.Date = date
	} else {
		value.Date = civil.Date{Year: b.ctx.defaultYear(), Month: b.ctx.defaultMonth(), Day: 1}
	}
	if n.Time() != nil {
		value.Time = n.Time().Value()
	}
	return one(expression.NewValue(value)), nil
}

func one(e expression.Expression) []expression.Expression {
	return []expression.Expression{e}
}
