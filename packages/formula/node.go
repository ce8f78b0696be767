package formula

import (
	"strings"

	"github.com/vogtb/go-spreadsheet/packages/reference"
)

// Node is one element of a parsed formula. nodes are immutable once built and
// the text of a parent is always the concatenation of its children's text.
type Node interface {
	Kind() Kind
	Text() string
	isNode()
}

// Parent is implemented by every node with children
type Parent interface {
	Node
	Children() []Node
}

// Children returns the children of n, nil for leaves. the slice must not be
// modified.
func Children(n Node) []Node {
	if p, ok := n.(Parent); ok {
		return p.Children()
	}
	return nil
}

// Leaf is a node without children carrying a scalar value
type Leaf struct {
	kind  Kind
	text  string
	value any
}

func (l *Leaf) Kind() Kind   { return l.kind }
func (l *Leaf) Text() string { return l.text }

// Value is the scalar: string for digits, names, literals and symbols, int for
// date and time components, a reference value for column, row, label and
// template value names, ErrorCode for errors and bool for booleans.
func (l *Leaf) Value() any { return l.value }

func (*Leaf) isNode() {}

// Int returns the value of a numeric component leaf, 0 for other leaves
func (l *Leaf) Int() int {
	v, _ := l.value.(int)
	return v
}

func (l *Leaf) String() string { return l.kind.String() + " " + l.text }

// NewDigits creates a run of decimal digits
func NewDigits(text string) *Leaf {
	return &Leaf{kind: KindDigits, text: text, value: text}
}

var componentKinds = map[Kind]bool{
	KindDayNumber:             true,
	KindMonthNumber:           true,
	KindMonthName:             true,
	KindMonthNameAbbreviation: true,
	KindMonthNameInitial:      true,
	KindDayName:               true,
	KindDayNameAbbreviation:   true,
	KindYear:                  true,
	KindHour:                  true,
	KindMinute:                true,
	KindSeconds:               true,
	KindMillisecond:           true,
	KindAmPm:                  true,
}

// NewComponent creates a date or time component. month kinds hold 1..12, day
// name kinds hold the time.Weekday. the kind is always a constant at call
// sites, so a kind that is not a component kind is a programming error and
// panics. values are checked by the parent constructors, which return errors.
func NewComponent(kind Kind, value int, text string) *Leaf {
	if !componentKinds[kind] {
		panic("formula: " + kind.String() + " is not a date or time component")
	}
	return &Leaf{kind: kind, text: text, value: value}
}

// NewSymbol creates a punctuation, operator or whitespace leaf. like
// NewComponent it panics on a kind that is not a symbol kind, callers decoding
// untrusted kinds check Kind.IsNoise first.
func NewSymbol(kind Kind, text string) *Leaf {
	if !kind.IsNoise() {
		panic("formula: " + kind.String() + " is not a symbol")
	}
	return &Leaf{kind: kind, text: text, value: text}
}

func NewWhitespace(text string) *Leaf {
	return NewSymbol(KindWhitespace, text)
}

func NewColumn(column reference.Column, text string) *Leaf {
	return &Leaf{kind: KindColumn, text: text, value: column}
}

func NewRow(row reference.Row, text string) *Leaf {
	return &Leaf{kind: KindRow, text: text, value: row}
}

func NewLabelName(label reference.Label, text string) *Leaf {
	return &Leaf{kind: KindLabelName, text: text, value: label}
}

func NewTemplateValueName(name reference.TemplateValueName, text string) *Leaf {
	return &Leaf{kind: KindTemplateValueName, text: text, value: name}
}

func NewFunctionName(name string, text string) *Leaf {
	return &Leaf{kind: KindFunctionName, text: text, value: name}
}

// NewTextLiteral creates literal text, value is the text with escapes removed
func NewTextLiteral(value string, text string) *Leaf {
	return &Leaf{kind: KindTextLiteral, text: text, value: value}
}

func NewError(code ErrorCode, text string) *Leaf {
	return &Leaf{kind: KindError, text: text, value: code}
}

func NewBoolean(value bool, text string) *Leaf {
	return &Leaf{kind: KindBoolean, text: text, value: value}
}

// Equal reports whether a and b have the same kind, text and value or children
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.Text() != b.Text() {
		return false
	}
	if leaf, ok := a.(*Leaf); ok {
		other, ok := b.(*Leaf)
		return ok && leaf.value == other.value
	}

	ac, bc := Children(a), Children(b)
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equal(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// Visitor is called by Walk. when Enter returns false the children of the
// node are skipped and Leave is not called for it.
type Visitor interface {
	Enter(n Node) bool
	Leave(n Node)
}

// Walk traverses the tree rooted at n depth first
func Walk(v Visitor, n Node) {
	if !v.Enter(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(v, child)
	}
	v.Leave(n)
}

type inspector func(Node) bool

func (f inspector) Enter(n Node) bool { return f(n) }
func (f inspector) Leave(Node)        {}

// Inspect calls fn for every node depth first, skipping the children of nodes
// for which fn returns false
func Inspect(n Node, fn func(Node) bool) {
	Walk(inspector(fn), n)
}

// References collects the cells, ranges, labels and template value names of a
// tree in source order
func References(n Node) []reference.Reference {
	var refs []reference.Reference
	Inspect(n, func(n Node) bool {
		switch n := n.(type) {
		case *Cell:
			refs = append(refs, n.Reference())
			return false
		case *CellRange:
			refs = append(refs, n.Reference())
			return false
		case *Leaf:
			if ref, ok := n.value.(reference.Label); ok {
				refs = append(refs, ref)
			}
			if ref, ok := n.value.(reference.TemplateValueName); ok {
				refs = append(refs, ref)
			}
		}
		return true
	})
	return refs
}

// textOf concatenates the text of nodes
func textOf(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.Text())
	}
	return b.String()
}

// operands drops symbols and whitespace
func operands(nodes []Node) []Node {
	var result []Node
	for _, n := range nodes {
		if !n.Kind().IsNoise() {
			result = append(result, n)
		}
	}
	return result
}
