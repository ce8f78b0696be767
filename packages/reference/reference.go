// Package reference holds the strongly typed reference values produced by the
// formula parser: columns, rows, cells, cell ranges, labels and template value
// names.
package reference

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind marks a column or row as relative (A1) or absolute ($A$1)
type Kind uint8

const (
	Relative Kind = iota
	Absolute
)

const (
	MaxColumn = 16384   // XFD
	MaxRow    = 1048576 // largest row number in a worksheet

	absoluteMarker = '$'
	radixColumn    = 26
)

// Reference is implemented by every value a reference expression can point at.
type Reference interface {
	String() string
	isReference()
}

// BoundsError reports a column or row outside of the worksheet bounds. the
// message names the invalid text and both valid bounds.
type BoundsError struct {
	What  string
	Text  string
	Lower string
	Upper string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("Invalid %s %q not between %q and %q", e.What, e.Text, e.Lower, e.Upper)
}

// NewColumnBoundsError creates the error returned for an invalid column text
func NewColumnBoundsError(text string) *BoundsError {
	return &BoundsError{What: "column", Text: text, Lower: ColumnLetters(1), Upper: ColumnLetters(MaxColumn)}
}

// NewRowBoundsError creates the error returned for an invalid row text
func NewRowBoundsError(text string) *BoundsError {
	return &BoundsError{What: "row", Text: text, Lower: "1", Upper: strconv.Itoa(MaxRow)}
}

// Column is a 1-based column number, A=1 ... XFD=16384
type Column struct {
	Kind  Kind
	Value int
}

// NewColumn validates value against the worksheet bounds
func NewColumn(value int, kind Kind) (Column, error) {
	if value < 1 || value > MaxColumn {
		return Column{}, NewColumnBoundsError(strconv.Itoa(value))
	}
	return Column{Kind: kind, Value: value}, nil
}

// ColumnLetterValue maps A..Z (either case) to 1..26, anything else to 0
func ColumnLetterValue(ch rune) int {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A') + 1
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 1
	}
	return 0
}

// ColumnLetters converts a 1-based column number into its letters (1 -> A,
// 27 -> AA). bijective base 26, there is no zero digit.
func ColumnLetters(value int) string {
	var letters []byte
	for value > 0 {
		value--
		letters = append(letters, byte('A'+value%radixColumn))
		value /= radixColumn
	}
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters)
}

// ParseColumn parses column text such as "B" or "$AB"
func ParseColumn(text string) (Column, error) {
	kind, letters := splitAbsolute(text)
	if letters == "" {
		return Column{}, NewColumnBoundsError(text)
	}

	value := 0
	for _, ch := range letters {
		digit := ColumnLetterValue(ch)
		if digit == 0 {
			return Column{}, fmt.Errorf("invalid column %q", text)
		}
		// stop accumulating once past the bound so long texts cannot overflow
		if value <= MaxColumn {
			value = value*radixColumn + digit
		}
	}
	if value > MaxColumn {
		return Column{}, NewColumnBoundsError(text)
	}
	return Column{Kind: kind, Value: value}, nil
}

func (c Column) String() string {
	letters := ColumnLetters(c.Value)
	if c.Kind == Absolute {
		return string(absoluteMarker) + letters
	}
	return letters
}

func (Column) isReference() {}

// Row is a 1-based row number
type Row struct {
	Kind  Kind
	Value int
}

// NewRow validates value against the worksheet bounds
func NewRow(value int, kind Kind) (Row, error) {
	if value < 1 || value > MaxRow {
		return Row{}, NewRowBoundsError(strconv.Itoa(value))
	}
	return Row{Kind: kind, Value: value}, nil
}

// ParseRow parses row text such as "12" or "$12"
func ParseRow(text string) (Row, error) {
	kind, digits := splitAbsolute(text)
	if digits == "" {
		return Row{}, NewRowBoundsError(text)
	}

	value := 0
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return Row{}, fmt.Errorf("invalid row %q", text)
		}
		if value <= MaxRow {
			value = value*10 + int(ch-'0')
		}
	}
	if value < 1 || value > MaxRow {
		return Row{}, NewRowBoundsError(text)
	}
	return Row{Kind: kind, Value: value}, nil
}

func (r Row) String() string {
	digits := strconv.Itoa(r.Value)
	if r.Kind == Absolute {
		return string(absoluteMarker) + digits
	}
	return digits
}

func (Row) isReference() {}

// Cell is a single cell address
type Cell struct {
	Column Column
	Row    Row
}

// ParseCell parses cell text such as "A1" or "$B$2"
func ParseCell(text string) (Cell, error) {
	split := len(text)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch >= '0' && ch <= '9' {
			split = i
			if i > 0 && text[i-1] == absoluteMarker {
				split = i - 1
			}
			break
		}
	}
	if split == 0 || split == len(text) {
		return Cell{}, fmt.Errorf("invalid cell reference %q", text)
	}

	column, err := ParseColumn(text[:split])
	if err != nil {
		return Cell{}, err
	}
	row, err := ParseRow(text[split:])
	if err != nil {
		return Cell{}, err
	}
	return Cell{Column: column, Row: row}, nil
}

func (c Cell) String() string {
	return c.Column.String() + c.Row.String()
}

func (Cell) isReference() {}

// CellRange is a rectangular range between two cells, as written. use Bounds
// for the normalized corners.
type CellRange struct {
	Begin Cell
	End   Cell
}

// ParseCellRange parses range text such as "A1:B2"
func ParseCellRange(text string) (CellRange, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return CellRange{}, fmt.Errorf("invalid range format %q", text)
	}
	begin, err := ParseCell(parts[0])
	if err != nil {
		return CellRange{}, err
	}
	end, err := ParseCell(parts[1])
	if err != nil {
		return CellRange{}, err
	}
	return CellRange{Begin: begin, End: end}, nil
}

// Bounds returns the top left and bottom right corners of the range
func (r CellRange) Bounds() (Cell, Cell) {
	topLeft := Cell{Column: r.Begin.Column, Row: r.Begin.Row}
	bottomRight := Cell{Column: r.End.Column, Row: r.End.Row}
	if r.End.Column.Value < r.Begin.Column.Value {
		topLeft.Column, bottomRight.Column = r.End.Column, r.Begin.Column
	}
	if r.End.Row.Value < r.Begin.Row.Value {
		topLeft.Row, bottomRight.Row = r.End.Row, r.Begin.Row
	}
	return topLeft, bottomRight
}

// Contains reports whether cell lies inside the range
func (r CellRange) Contains(cell Cell) bool {
	topLeft, bottomRight := r.Bounds()
	return cell.Column.Value >= topLeft.Column.Value && cell.Column.Value <= bottomRight.Column.Value &&
		cell.Row.Value >= topLeft.Row.Value && cell.Row.Value <= bottomRight.Row.Value
}

func (r CellRange) String() string {
	return r.Begin.String() + ":" + r.End.String()
}

func (CellRange) isReference() {}

// Label is a named range or lambda parameter name
type Label string

func (l Label) String() string { return string(l) }

func (Label) isReference() {}

// TemplateValueName names a value supplied to a template
type TemplateValueName string

func (t TemplateValueName) String() string { return string(t) }

func (TemplateValueName) isReference() {}

func splitAbsolute(text string) (Kind, string) {
	if strings.HasPrefix(text, string(absoluteMarker)) {
		return Absolute, text[1:]
	}
	return Relative, text
}
