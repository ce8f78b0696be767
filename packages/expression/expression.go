// Package expression is the evaluable tree built from a parsed formula.
package expression

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/vogtb/go-spreadsheet/packages/reference"
)

// Op is the operator of a Binary expression
type Op int

const (
	OpAdd Op = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpPower
	OpEquals
	OpNotEquals
	OpGreaterThan
	OpGreaterThanEquals
	OpLessThan
	OpLessThanEquals
)

var opSymbols = [...]string{
	OpAdd:               "+",
	OpSubtract:          "-",
	OpMultiply:          "*",
	OpDivide:            "/",
	OpPower:             "^",
	OpEquals:            "=",
	OpNotEquals:         "<>",
	OpGreaterThan:       ">",
	OpGreaterThanEquals: ">=",
	OpLessThan:          "<",
	OpLessThanEquals:    "<=",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return opSymbols[op]
}

// Expression is one node of an expression tree. the set of implementations is
// closed: Value, Reference, Binary, Negative, NamedFunction and Call.
type Expression interface {
	String() string
	isExpression()
}

// Value is a literal: *apd.Decimal or float64 numbers, string, bool,
// civil.Date, civil.Time, civil.DateTime or an error value.
type Value struct {
	Value any
}

func NewValue(value any) *Value {
	return &Value{Value: value}
}

func (v *Value) String() string {
	switch value := v.Value.(type) {
	case *apd.Decimal:
		return value.Text('f')
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case string:
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	case bool:
		if value {
			return "TRUE"
		}
		return "FALSE"
	case error:
		return value.Error()
	case fmt.Stringer:
		return value.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

func (*Value) isExpression() {}

// Reference points at a cell, range, label or template value
type Reference struct {
	Reference reference.Reference
}

func NewReference(r reference.Reference) *Reference {
	return &Reference{Reference: r}
}

func (r *Reference) String() string {
	return r.Reference.String()
}

func (*Reference) isExpression() {}

// Binary applies Op to Left and Right
type Binary struct {
	Op    Op
	Left  Expression
	Right Expression
}

func NewBinary(op Op, left, right Expression) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func Add(left, right Expression) *Binary      { return NewBinary(OpAdd, left, right) }
func Subtract(left, right Expression) *Binary { return NewBinary(OpSubtract, left, right) }
func Multiply(left, right Expression) *Binary { return NewBinary(OpMultiply, left, right) }
func Divide(left, right Expression) *Binary   { return NewBinary(OpDivide, left, right) }
func Power(left, right Expression) *Binary    { return NewBinary(OpPower, left, right) }
func Equals(left, right Expression) *Binary   { return NewBinary(OpEquals, left, right) }
func NotEquals(left, right Expression) *Binary {
	return NewBinary(OpNotEquals, left, right)
}
func GreaterThan(left, right Expression) *Binary {
	return NewBinary(OpGreaterThan, left, right)
}
func GreaterThanEquals(left, right Expression) *Binary {
	return NewBinary(OpGreaterThanEquals, left, right)
}
func LessThan(left, right Expression) *Binary { return NewBinary(OpLessThan, left, right) }
func LessThanEquals(left, right Expression) *Binary {
	return NewBinary(OpLessThanEquals, left, right)
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s%s%s)", b.Left, b.Op, b.Right)
}

func (*Binary) isExpression() {}

// Negative negates its operand
type Negative struct {
	Operand Expression
}

func Negate(operand Expression) *Negative {
	return &Negative{Operand: operand}
}

func (n *Negative) String() string {
	return "-" + n.Operand.String()
}

func (*Negative) isExpression() {}

// NamedFunction is a callee resolved by name
type NamedFunction struct {
	Name string
}

func NewNamedFunction(name string) *NamedFunction {
	return &NamedFunction{Name: name}
}

func (f *NamedFunction) String() string {
	return f.Name
}

func (*NamedFunction) isExpression() {}

// Call invokes Callee with Args. the callee is a NamedFunction, or another
// Call when a lambda is created and then invoked.
type Call struct {
	Callee Expression
	Args   []Expression
}

func NewCall(callee Expression, args ...Expression) *Call {
	return &Call{Callee: callee, Args: args}
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ","))
}

func (*Call) isExpression() {}

// Equal reports whether two trees have the same shape and values. decimal
// values compare numerically, so 0.50 equals 0.5.
func Equal(a, b Expression) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *Value:
		b, ok := b.(*Value)
		return ok && valuesEqual(a.Value, b.Value)
	case *Reference:
		b, ok := b.(*Reference)
		return ok && a.Reference == b.Reference
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *Negative:
		b, ok := b.(*Negative)
		return ok && Equal(a.Operand, b.Operand)
	case *NamedFunction:
		b, ok := b.(*NamedFunction)
		return ok && a.Name == b.Name
	case *Call:
		b, ok := b.(*Call)
		if !ok || len(a.Args) != len(b.Args) || !Equal(a.Callee, b.Callee) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func valuesEqual(a, b any) bool {
	if a, ok := a.(*apd.Decimal); ok {
		b, ok := b.(*apd.Decimal)
		return ok && a.Cmp(b) == 0
	}
	return reflect.DeepEqual(a, b)
}
