package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogtb/go-spreadsheet/packages/reference"
)

func cellAt(t *testing.T, text string) reference.Cell {
	t.Helper()
	cell, err := reference.ParseCell(text)
	require.NoError(t, err)
	return cell
}

func TestTableSharesFormulas(t *testing.T) {
	p := NewGrammar(nil).ValueOrExpression()
	table := NewTable()

	a1 := table.Intern(ParseFormula("=rate * 2", p), cellAt(t, "A1"))
	a2 := table.Intern(ParseFormula("=rate*2", p), cellAt(t, "A2"))
	b1 := table.Intern(ParseFormula("=rate*3", p), cellAt(t, "B1"))

	assert.Equal(t, a1, a2, "formulas differing in whitespace share an id")
	assert.NotEqual(t, a1, b1)
	assert.Equal(t, 2, table.Len())

	f, ok := table.Get(a1)
	require.True(t, ok)
	assert.Equal(t, "=rate * 2", f.Text())

	id, ok := table.Lookup(ParseFormula("= rate*2", p))
	require.True(t, ok)
	assert.Equal(t, a1, id)

	assert.Equal(t, []reference.Cell{cellAt(t, "A1"), cellAt(t, "A2")}, table.Cells(a1))
	assert.Equal(t, []FormulaID{a1, b1}, table.FormulasUsingLabel(reference.Label("rate")))
	assert.Empty(t, table.FormulasUsingLabel(reference.Label("other")))
}

func TestTableRelease(t *testing.T) {
	p := NewGrammar(nil).ValueOrExpression()
	table := NewTable()
	a1, a2 := cellAt(t, "A1"), cellAt(t, "A2")

	id := table.Intern(ParseFormula("=tax+1", p), a1)
	table.Intern(ParseFormula("=tax+1", p), a2)

	assert.False(t, table.Release(a1), "formula is still used by A2")
	_, ok := table.At(a1)
	assert.False(t, ok)
	assert.Equal(t, []reference.Cell{a2}, table.Cells(id))

	assert.True(t, table.Release(a2))
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.FormulasUsingLabel(reference.Label("tax")))
	_, ok = table.Get(id)
	assert.False(t, ok)

	assert.False(t, table.Release(a2))
}

func TestTableReplace(t *testing.T) {
	p := NewGrammar(nil).ValueOrExpression()
	table := NewTable()
	a1 := cellAt(t, "A1")

	first := table.Intern(ParseFormula("=1", p), a1)
	assert.Equal(t, first, table.Intern(ParseFormula("=1", p), a1))

	second := table.Intern(ParseFormula("=2", p), a1)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, table.Len())

	id, ok := table.At(a1)
	require.True(t, ok)
	assert.Equal(t, second, id)
}

func TestTableUnparsed(t *testing.T) {
	table := NewTable()
	id := table.Intern(NewFormula("=A1"), cellAt(t, "C3"))
	other := table.Intern(NewFormula("= A1"), cellAt(t, "C4"))
	assert.NotEqual(t, id, other, "unparsed formulas are keyed by their raw text")
}
