package formula

import (
	"sort"
	"strings"

	"github.com/vogtb/go-spreadsheet/packages/reference"
)

// FormulaID identifies an interned formula, 0 is never used
type FormulaID uint32

// tableKey is the token text without whitespace, two formulas differing only
// in spacing share one entry
type tableKey string

// Table stores formulas centrally so cells holding the same formula share one
// parsed token, and tracks the labels each formula uses. a Table is not safe
// for concurrent use.
type Table struct {
	keyIndex  map[tableKey]FormulaID
	formulas  map[FormulaID]Formula
	refCounts map[FormulaID]int

	// cell tracking

	cellsUsingFormula map[FormulaID]map[reference.Cell]struct{}
	formulaAtCell     map[reference.Cell]FormulaID

	// label tracking

	labelsUsed         map[FormulaID]map[reference.Label]struct{}
	formulasUsingLabel map[reference.Label]map[FormulaID]struct{}

	nextID FormulaID
}

func NewTable() *Table {
	return &Table{
		keyIndex:           make(map[tableKey]FormulaID),
		formulas:           make(map[FormulaID]Formula),
		refCounts:          make(map[FormulaID]int),
		cellsUsingFormula:  make(map[FormulaID]map[reference.Cell]struct{}),
		formulaAtCell:      make(map[reference.Cell]FormulaID),
		labelsUsed:         make(map[FormulaID]map[reference.Label]struct{}),
		formulasUsingLabel: make(map[reference.Label]map[FormulaID]struct{}),
		nextID:             1,
	}
}

func keyOf(f Formula) tableKey {
	if f.token == nil {
		return tableKey(f.text)
	}
	var b strings.Builder
	Inspect(f.token, func(n Node) bool {
		if leaf, ok := n.(*Leaf); ok && leaf.kind != KindWhitespace {
			b.WriteString(leaf.text)
		}
		return true
	})
	return tableKey(b.String())
}

// Intern stores f for cell, or adds cell to the users of an equal formula
// already stored. a formula previously at cell is released.
func (t *Table) Intern(f Formula, cell reference.Cell) FormulaID {
	key := keyOf(f)
	if id, exists := t.keyIndex[key]; exists {
		if t.formulaAtCell[cell] == id {
			return id
		}
		t.Release(cell)
		t.refCounts[id]++
		t.trackCell(id, cell)
		return id
	}

	t.Release(cell)
	id := t.nextID
	t.nextID++
	t.keyIndex[key] = id
	t.formulas[id] = f
	t.refCounts[id] = 1
	t.trackCell(id, cell)
	t.trackLabels(id, f)
	return id
}

func (t *Table) trackCell(id FormulaID, cell reference.Cell) {
	if t.cellsUsingFormula[id] == nil {
		t.cellsUsingFormula[id] = make(map[reference.Cell]struct{})
	}
	t.cellsUsingFormula[id][cell] = struct{}{}
	t.formulaAtCell[cell] = id
}

func (t *Table) trackLabels(id FormulaID, f Formula) {
	if f.token == nil {
		return
	}
	for _, ref := range References(f.token) {
		label, ok := ref.(reference.Label)
		if !ok {
			continue
		}
		if t.labelsUsed[id] == nil {
			t.labelsUsed[id] = make(map[reference.Label]struct{})
		}
		t.labelsUsed[id][label] = struct{}{}
		if t.formulasUsingLabel[label] == nil {
			t.formulasUsingLabel[label] = make(map[FormulaID]struct{})
		}
		t.formulasUsingLabel[label][id] = struct{}{}
	}
}

// Get returns the formula stored under id
func (t *Table) Get(id FormulaID) (Formula, bool) {
	f, exists := t.formulas[id]
	return f, exists
}

// Lookup returns the id of a stored formula equal to f
func (t *Table) Lookup(f Formula) (FormulaID, bool) {
	id, exists := t.keyIndex[keyOf(f)]
	return id, exists
}

// At returns the id of the formula held by cell
func (t *Table) At(cell reference.Cell) (FormulaID, bool) {
	id, exists := t.formulaAtCell[cell]
	return id, exists
}

// Cells returns the cells holding formula id
func (t *Table) Cells(id FormulaID) []reference.Cell {
	cells := make([]reference.Cell, 0, len(t.cellsUsingFormula[id]))
	for cell := range t.cellsUsingFormula[id] {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row.Value != cells[j].Row.Value {
			return cells[i].Row.Value < cells[j].Row.Value
		}
		return cells[i].Column.Value < cells[j].Column.Value
	})
	return cells
}

// FormulasUsingLabel returns the ids of the formulas referring to label
func (t *Table) FormulasUsingLabel(label reference.Label) []FormulaID {
	ids := make([]FormulaID, 0, len(t.formulasUsingLabel[label]))
	for id := range t.formulasUsingLabel[label] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Release removes the formula held by cell. returns true if the formula was
// removed due to zero references.
func (t *Table) Release(cell reference.Cell) bool {
	id, exists := t.formulaAtCell[cell]
	if !exists {
		return false
	}
	delete(t.formulaAtCell, cell)
	if cells, ok := t.cellsUsingFormula[id]; ok {
		delete(cells, cell)
		if len(cells) == 0 {
			delete(t.cellsUsingFormula, id)
		}
	}

	t.refCounts[id]--
	if t.refCounts[id] > 0 {
		return false
	}
	t.remove(id)
	return true
}

// remove deletes a formula and all its tracking data
func (t *Table) remove(id FormulaID) {
	if f, exists := t.formulas[id]; exists {
		delete(t.keyIndex, keyOf(f))
	}
	delete(t.formulas, id)
	delete(t.refCounts, id)
	delete(t.cellsUsingFormula, id)

	for label := range t.labelsUsed[id] {
		if ids, ok := t.formulasUsingLabel[label]; ok {
			delete(ids, id)
			if len(ids) == 0 {
				delete(t.formulasUsingLabel, label)
			}
		}
	}
	delete(t.labelsUsed, id)
}

// Len is the number of distinct formulas stored
func (t *Table) Len() int {
	return len(t.formulas)
}
