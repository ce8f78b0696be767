package formula

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/golang-sql/civil"

	"github.com/vogtb/go-spreadsheet/packages/reference"
)

type parent struct {
	kind     Kind
	text     string
	children []Node
}

func newParent(kind Kind, children []Node) (parent, error) {
	if len(children) == 0 {
		return parent{}, invalidArgument("%s: no children", kind)
	}
	for i, child := range children {
		if child == nil {
			return parent{}, invalidArgument("%s: child %d is nil", kind, i)
		}
	}
	copied := make([]Node, len(children))
	copy(copied, children)
	return parent{kind: kind, text: textOf(copied), children: copied}, nil
}

func (p *parent) Kind() Kind       { return p.kind }
func (p *parent) Text() string     { return p.text }
func (p *parent) Children() []Node { return p.children }
func (*parent) isNode()            {}

func (p *parent) String() string { return p.kind.String() + " " + p.text }

// Binary is an arithmetic or comparison operator with its two operands
type Binary struct {
	parent
	left, right Node
}

// NewBinary creates one of the operator kinds. children must hold exactly two
// operands joined by the symbol of kind, whitespace is kept for the text.
func NewBinary(kind Kind, children []Node) (*Binary, error) {
	if !kind.IsBinary() {
		return nil, invalidArgument("%s is not a binary operator", kind)
	}
	p, err := newParent(kind, children)
	if err != nil {
		return nil, err
	}
	ops := operands(children)
	if len(ops) != 2 {
		return nil, invalidArgument("%s: expected 2 operands but got %d", kind, len(ops))
	}
	if err := checkOperator(kind, binaryOperatorSymbols[kind], children, 1); err != nil {
		return nil, err
	}
	return &Binary{parent: p, left: ops[0], right: ops[1]}, nil
}

func (b *Binary) Left() Node  { return b.left }
func (b *Binary) Right() Node { return b.right }

// Unary is a negative, group or expression wrapper around one operand
type Unary struct {
	parent
	operand Node
}

func NewUnary(kind Kind, children []Node) (*Unary, error) {
	if !kind.IsUnary() {
		return nil, invalidArgument("%s is not a unary kind", kind)
	}
	p, err := newParent(kind, children)
	if err != nil {
		return nil, err
	}
	ops := operands(children)
	if len(ops) != 1 {
		return nil, invalidArgument("%s: expected 1 operand but got %d", kind, len(ops))
	}
	return &Unary{parent: p, operand: ops[0]}, nil
}

func (u *Unary) Operand() Node { return u.operand }

// ConditionRight is a comparison operator and its right operand, waiting for
// a left operand
type ConditionRight struct {
	parent
	right Node
}

func NewConditionRight(kind Kind, children []Node) (*ConditionRight, error) {
	if !kind.IsConditionRight() {
		return nil, invalidArgument("%s is not a condition right kind", kind)
	}
	p, err := newParent(kind, children)
	if err != nil {
		return nil, err
	}
	ops := operands(children)
	if len(ops) != 1 {
		return nil, invalidArgument("%s: expected 1 operand but got %d", kind, len(ops))
	}
	if err := checkOperator(kind, binaryOperatorSymbols[conditionRightBinary[kind]], children, 0); err != nil {
		return nil, err
	}
	return &ConditionRight{parent: p, right: ops[0]}, nil
}

// checkOperator requires symbol to be the only noise besides whitespace and to
// sit at index at among the non-whitespace children
func checkOperator(kind, symbol Kind, children []Node, at int) error {
	i, symbols := 0, 0
	for _, child := range children {
		if child.Kind() == KindWhitespace {
			continue
		}
		if child.Kind().IsNoise() {
			if child.Kind() != symbol || i != at {
				return invalidArgument("%s: unexpected %s %q", kind, child.Kind(), child.Text())
			}
			symbols++
		}
		i++
	}
	if symbols != 1 {
		return invalidArgument("%s: missing %s", kind, symbol)
	}
	return nil
}

func (c *ConditionRight) Right() Node { return c.right }

// CombineLeft creates the comparison of left against the right operand
func (c *ConditionRight) CombineLeft(left Node) (*Binary, error) {
	children := make([]Node, 0, len(c.children)+1)
	children = append(children, left)
	children = append(children, c.children...)
	return NewBinary(conditionRightBinary[c.kind], children)
}

// Cell is a column followed by a row
type Cell struct {
	parent
	ref reference.Cell
}

func NewCell(children []Node) (*Cell, error) {
	p, err := newParent(KindCell, children)
	if err != nil {
		return nil, err
	}
	ops := operands(children)
	if len(ops) != 2 || ops[0].Kind() != KindColumn || ops[1].Kind() != KindRow {
		return nil, invalidArgument("%s: expected column and row but got %s", KindCell, kindsOf(ops))
	}
	return &Cell{
		parent: p,
		ref: reference.Cell{
			Column: ops[0].(*Leaf).value.(reference.Column),
			Row:    ops[1].(*Leaf).value.(reference.Row),
		},
	}, nil
}

func (c *Cell) Reference() reference.Cell { return c.ref }

// CellRange is two cells joined by the between symbol
type CellRange struct {
	parent
	ref reference.CellRange
}

func NewCellRange(children []Node) (*CellRange, error) {
	p, err := newParent(KindCellRange, children)
	if err != nil {
		return nil, err
	}
	ops := operands(children)
	if len(ops) != 2 {
		return nil, invalidArgument("%s: expected 2 cells but got %d", KindCellRange, len(ops))
	}
	begin, ok1 := ops[0].(*Cell)
	end, ok2 := ops[1].(*Cell)
	if !ok1 || !ok2 {
		return nil, invalidArgument("%s: expected 2 cells but got %s", KindCellRange, kindsOf(ops))
	}
	if !containsKind(children, KindBetween) {
		return nil, invalidArgument("%s: missing %s", KindCellRange, KindBetween)
	}
	return &CellRange{parent: p, ref: reference.CellRange{Begin: begin.ref, End: end.ref}}, nil
}

func (r *CellRange) Reference() reference.CellRange { return r.ref }

// Number holds the sign, digits, decimal separator, exponent and percent
// leaves of a number. the value is exact, rounding happens when it is
// converted into an expression.
type Number struct {
	parent
	value *apd.Decimal
}

func NewNumber(children []Node) (*Number, error) {
	p, err := newParent(KindNumber, children)
	if err != nil {
		return nil, err
	}
	value, err := numberValue(children)
	if err != nil {
		return nil, invalidArgument("%s: %v", KindNumber, err)
	}
	return &Number{parent: p, value: value}, nil
}

// Value returns a copy of the exact value
func (n *Number) Value() *apd.Decimal {
	return new(apd.Decimal).Set(n.value)
}

// the largest exponent digit run accepted, apd limits exponents well below
// what 9 digits can express
const maxExponentDigits = 9

// numberValue assembles the digits of a number into one decimal: every
// fraction digit and every percent move the exponent down. a number without
// digits is zero.
func numberValue(children []Node) (*apd.Decimal, error) {
	var (
		coefficient strings.Builder
		fraction    int
		exponent    int
		exponentNeg bool
		percents    int
		negative    bool
		inFraction  bool
		inExponent  bool
		digitsSeen  bool
		exponentSet bool
	)

	for _, child := range children {
		switch child.Kind() {
		case KindPlus, KindMinus:
			minus := child.Kind() == KindMinus
			switch {
			case inExponent && !exponentSet:
				exponentNeg = minus
			case !digitsSeen && !inFraction && !inExponent:
				negative = minus
			default:
				return nil, fmt.Errorf("misplaced sign %q", child.Text())
			}
		case KindDigits:
			digits := child.Text()
			switch {
			case inExponent:
				if exponentSet || len(digits) > maxExponentDigits {
					return nil, fmt.Errorf("invalid exponent %q", digits)
				}
				v, err := strconv.Atoi(digits)
				if err != nil {
					return nil, err
				}
				exponent = v
				exponentSet = true
			case inFraction:
				coefficient.WriteString(digits)
				fraction += len(digits)
			default:
				coefficient.WriteString(digits)
			}
			digitsSeen = true
		case KindDecimalSeparator:
			if inFraction || inExponent {
				return nil, fmt.Errorf("misplaced decimal separator %q", child.Text())
			}
			inFraction = true
		case KindExponent:
			if inExponent {
				return nil, fmt.Errorf("misplaced exponent %q", child.Text())
			}
			inExponent = true
		case KindPercent:
			percents++
		default:
			return nil, fmt.Errorf("unexpected %s", child.Kind())
		}
	}
	if inExponent && !exponentSet {
		return nil, fmt.Errorf("missing exponent digits")
	}

	digits := coefficient.String()
	if digits == "" {
		digits = "0"
	}
	if exponentNeg {
		exponent = -exponent
	}
	value, _, err := apd.NewFromString(digits + "E" + strconv.Itoa(exponent-fraction-2*percents))
	if err != nil {
		return nil, err
	}
	value.Negative = negative && !value.IsZero()
	return value, nil
}

// Date holds day, month, year and day name components. resolving the date
// needs the default year and month so it happens in ToExpression.
type Date struct {
	parent
	parts DateParts
}

// DateParts are the components of a date as written
type DateParts struct {
	Day        int // 0 when missing
	Month      time.Month
	Year       int // as written, 0 when missing
	YearDigits int // number of digits written for the year
	Weekday    int // -1 when missing
}

func NewDate(children []Node) (*Date, error) {
	p, err := newParent(KindDate, children)
	if err != nil {
		return nil, err
	}
	parts, err := dateParts(children)
	if err != nil {
		return nil, invalidArgument("%s: %v", KindDate, err)
	}
	return &Date{parent: p, parts: parts}, nil
}

func (d *Date) Parts() DateParts { return d.parts }

func dateParts(children []Node) (DateParts, error) {
	parts := DateParts{Weekday: -1}
	for _, child := range children {
		kind := child.Kind()
		if kind == KindDateSeparator || kind == KindComma || kind == KindWhitespace {
			continue
		}
		leaf, ok := child.(*Leaf)
		if !ok {
			return parts, fmt.Errorf("unexpected %s", kind)
		}
		value := leaf.Int()
		switch kind {
		case KindDayNumber:
			if parts.Day != 0 {
				return parts, fmt.Errorf("duplicate %s", kind)
			}
			if value < 1 || value > 31 {
				return parts, fmt.Errorf("invalid day %d", value)
			}
			parts.Day = value
		case KindMonthNumber, KindMonthName, KindMonthNameAbbreviation, KindMonthNameInitial:
			if parts.Month != 0 {
				return parts, fmt.Errorf("duplicate %s", kind)
			}
			if value < 1 || value > 12 {
				return parts, fmt.Errorf("invalid month %d", value)
			}
			parts.Month = time.Month(value)
		case KindYear:
			if parts.YearDigits != 0 {
				return parts, fmt.Errorf("duplicate %s", kind)
			}
			if value < 0 || value > 9999 {
				return parts, fmt.Errorf("invalid year %d", value)
			}
			parts.Year = value
			parts.YearDigits = len(leaf.text)
		case KindDayName, KindDayNameAbbreviation:
			if parts.Weekday != -1 {
				return parts, fmt.Errorf("duplicate %s", kind)
			}
			parts.Weekday = value
		default:
			return parts, fmt.Errorf("unexpected %s", kind)
		}
	}
	if parts.Month != 0 && parts.Day > maxDays[parts.Month] {
		return parts, fmt.Errorf("invalid day %d for %s", parts.Day, parts.Month)
	}
	return parts, nil
}

// maxDays allows February 29th, leap years are checked once the year is known
var maxDays = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Time holds hour, minute, seconds, millisecond and AM/PM components
type Time struct {
	parent
	value civil.Time
}

func NewTime(children []Node) (*Time, error) {
	p, err := newParent(KindTime, children)
	if err != nil {
		return nil, err
	}
	value, err := timeOf(children)
	if err != nil {
		return nil, invalidArgument("%s: %v", KindTime, err)
	}
	return &Time{parent: p, value: value}, nil
}

// Value is the time of day with AM/PM applied
func (t *Time) Value() civil.Time { return t.value }

func timeOf(children []Node) (civil.Time, error) {
	var (
		t         civil.Time
		seen      = map[Kind]bool{}
		ampm      = -1
		hourSeen  bool
		component int
	)
	for _, child := range children {
		kind := child.Kind()
		if kind == KindTimeSeparator || kind == KindDecimalSeparator || kind == KindWhitespace {
			continue
		}
		leaf, ok := child.(*Leaf)
		if !ok || !componentKinds[kind] {
			return t, fmt.Errorf("unexpected %s", kind)
		}
		if seen[kind] {
			return t, fmt.Errorf("duplicate %s", kind)
		}
		seen[kind] = true
		component = leaf.Int()

		switch kind {
		case KindHour:
			if component < 0 || component > 23 {
				return t, fmt.Errorf("invalid hour %d", component)
			}
			t.Hour = component
			hourSeen = true
		case KindMinute:
			if component < 0 || component > 59 {
				return t, fmt.Errorf("invalid minute %d", component)
			}
			t.Minute = component
		case KindSeconds:
			if component < 0 || component > 59 {
				return t, fmt.Errorf("invalid seconds %d", component)
			}
			t.Second = component
		case KindMillisecond:
			if component < 0 || component >= int(time.Second) {
				return t, fmt.Errorf("invalid fraction %d", component)
			}
			t.Nanosecond = component
		case KindAmPm:
			if component != 0 && component != 12 {
				return t, fmt.Errorf("invalid am/pm %d", component)
			}
			ampm = component
		default:
			return t, fmt.Errorf("unexpected %s", kind)
		}
	}
	if !hourSeen {
		return t, fmt.Errorf("missing hour")
	}
	if ampm >= 0 {
		if t.Hour > 12 {
			return t, fmt.Errorf("invalid hour %d with am/pm", t.Hour)
		}
		// 12 AM is midnight, 12 PM is noon
		if t.Hour == 12 {
			t.Hour = 0
		}
		t.Hour += ampm
	}
	return t, nil
}

// DateTime is a date followed by a time
type DateTime struct {
	parent
	date *Date
	time *Time
}

func NewDateTime(children []Node) (*DateTime, error) {
	p, err := newParent(KindDateTime, children)
	if err != nil {
		return nil, err
	}
	dt := &DateTime{parent: p}
	for _, op := range operands(children) {
		switch op := op.(type) {
		case *Date:
			if dt.date != nil {
				return nil, invalidArgument("%s: duplicate %s", KindDateTime, KindDate)
			}
			dt.date = op
		case *Time:
			if dt.time != nil {
				return nil, invalidArgument("%s: duplicate %s", KindDateTime, KindTime)
			}
			dt.time = op
		default:
			return nil, invalidArgument("%s: unexpected %s", KindDateTime, op.Kind())
		}
	}
	if dt.date == nil && dt.time == nil {
		return nil, invalidArgument("%s: missing %s and %s", KindDateTime, KindDate, KindTime)
	}
	return dt, nil
}

// Date returns the date half, nil when missing
func (dt *DateTime) Date() *Date { return dt.date }

// Time returns the time half, nil when missing
func (dt *DateTime) Time() *Time { return dt.time }

// Text is quoted, apostrophe prefixed or bare text
type Text struct {
	parent
	value string
}

func NewText(children []Node) (*Text, error) {
	p, err := newParent(KindText, children)
	if err != nil {
		return nil, err
	}
	var literal *Leaf
	for _, child := range children {
		switch child.Kind() {
		case KindDoubleQuote, KindApostrophe:
		case KindTextLiteral:
			if literal != nil {
				return nil, invalidArgument("%s: duplicate %s", KindText, KindTextLiteral)
			}
			literal = child.(*Leaf)
		default:
			return nil, invalidArgument("%s: unexpected %s", KindText, child.Kind())
		}
	}
	t := &Text{parent: p}
	if literal != nil {
		t.value, _ = literal.value.(string)
	}
	return t, nil
}

// Value is the text with quotes removed and escapes applied
func (t *Text) Value() string { return t.value }

// FunctionParameters are the parenthesised, separated arguments of a call
type FunctionParameters struct {
	parent
	arguments []Node
}

func NewFunctionParameters(children []Node) (*FunctionParameters, error) {
	p, err := newParent(KindFunctionParameters, children)
	if err != nil {
		return nil, err
	}
	first, last := children[0].Kind(), children[len(children)-1].Kind()
	if first != KindParenthesisOpen || last != KindParenthesisClose {
		return nil, invalidArgument("%s: expected parentheses but got %s", KindFunctionParameters, kindsOf(children))
	}
	return &FunctionParameters{parent: p, arguments: operands(children)}, nil
}

// Arguments excludes parentheses, separators and whitespace
func (f *FunctionParameters) Arguments() []Node { return f.arguments }

// NamedFunction is a function name followed by its parameters
type NamedFunction struct {
	parent
	name       string
	parameters *FunctionParameters
}

func NewNamedFunction(children []Node) (*NamedFunction, error) {
	p, err := newParent(KindNamedFunction, children)
	if err != nil {
		return nil, err
	}
	ops := operands(children)
	if len(ops) != 2 || ops[0].Kind() != KindFunctionName || ops[1].Kind() != KindFunctionParameters {
		return nil, invalidArgument("%s: expected function name and parameters but got %s", KindNamedFunction, kindsOf(ops))
	}
	return &NamedFunction{
		parent:     p,
		name:       ops[0].(*Leaf).value.(string),
		parameters: ops[1].(*FunctionParameters),
	}, nil
}

func (f *NamedFunction) Name() string                     { return f.name }
func (f *NamedFunction) Parameters() *FunctionParameters { return f.parameters }

// Lambda declares parameter names and is immediately invoked with values,
// LAMBDA(x, x*2)(3)
type Lambda struct {
	parent
	name     string
	declared *FunctionParameters
	supplied *FunctionParameters
}

func NewLambda(children []Node) (*Lambda, error) {
	p, err := newParent(KindLambda, children)
	if err != nil {
		return nil, err
	}
	ops := operands(children)
	if len(ops) != 3 || ops[0].Kind() != KindFunctionName ||
		ops[1].Kind() != KindFunctionParameters || ops[2].Kind() != KindFunctionParameters {
		return nil, invalidArgument("%s: expected function name and 2 parameters but got %s", KindLambda, kindsOf(ops))
	}
	return &Lambda{
		parent:   p,
		name:     ops[0].(*Leaf).value.(string),
		declared: ops[1].(*FunctionParameters),
		supplied: ops[2].(*FunctionParameters),
	}, nil
}

func (l *Lambda) Name() string                   { return l.name }
func (l *Lambda) Declared() *FunctionParameters { return l.declared }
func (l *Lambda) Supplied() *FunctionParameters { return l.supplied }

func kindsOf(nodes []Node) string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Kind().String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func containsKind(nodes []Node, kind Kind) bool {
	for _, n := range nodes {
		if n.Kind() == kind {
			return true
		}
	}
	return false
}
