package contestui

import (
	"fmt"
	"slices"
)

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	// CellText is plain text.
	CellText CellKind = iota
	// CellNode is an externally owned node inserted as-is.
	CellNode
	// CellComponent is a component attached into the cell.
	CellComponent
)

// Cell is one value in a table row or header.
type Cell struct {
	kind CellKind
	text string
	node *Node
	comp Component
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: CellText, text: s} }

// NodeCell returns a cell holding an externally owned node.
func NodeCell(n *Node) Cell { return Cell{kind: CellNode, node: n} }

// ComponentCell returns a cell holding a component.
func ComponentCell(c Component) Cell { return Cell{kind: CellComponent, comp: c} }

// CellOf converts v into a Cell: components and nodes keep their identity,
// everything else is formatted as text.
func CellOf(v any) Cell {
	switch x := v.(type) {
	case Cell:
		return x
	case Component:
		return ComponentCell(x)
	case *Node:
		return NodeCell(x)
	case string:
		return Text(x)
	case fmt.Stringer:
		return Text(x.String())
	case nil:
		return Text("")
	default:
		return Text(fmt.Sprint(x))
	}
}

// Cells converts each value with CellOf.
func Cells(values ...any) []Cell {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = CellOf(v)
	}
	return cells
}

// Kind returns the variant tag.
func (c Cell) Kind() CellKind { return c.kind }

// Node returns the node of a CellNode, or nil.
func (c Cell) Node() *Node { return c.node }

// Component returns the component of a CellComponent, or nil.
func (c Cell) Component() Component { return c.comp }

// String returns the visible text of the cell.
func (c Cell) String() string {
	switch c.kind {
	case CellNode:
		return c.node.TextContent()
	case CellComponent:
		return c.comp.Root().TextContent()
	default:
		return c.text
	}
}

func (c Cell) renderInto(parent *Node) {
	switch c.kind {
	case CellNode:
		parent.AppendChild(c.node)
	case CellComponent:
		c.comp.AttachTo(parent)
	default:
		parent.SetText(c.text)
	}
}

// Row is an ordered, fixed set of cells rendered as a table row.
type Row struct {
	*Base
	cells []Cell
}

// NewRow builds a row from values converted with CellOf.
func NewRow(a *Arena, values ...any) *Row {
	cells := Cells(values...)
	root := NewNode("tr")
	for _, c := range cells {
		c.renderInto(root.AppendChild(NewNode("td")))
	}

	r := &Row{cells: cells}
	r.Base = arenaOr(a).Mount(r, root)
	return r
}

// At returns the i-th cell. Out-of-range indices yield the zero Cell.
func (r *Row) At(i int) Cell {
	if i < 0 || i >= len(r.cells) {
		return Cell{}
	}
	return r.cells[i]
}

// Len returns the number of cells.
func (r *Row) Len() int { return len(r.cells) }

// Cells returns a copy of the row's cells.
func (r *Row) Cells() []Cell { return slices.Clone(r.cells) }

// prepend adds a leading cell; only the owning table calls it.
func (r *Row) prepend(c Cell) {
	r.cells = slices.Insert(r.cells, 0, c)
	td := r.root.PrependChild(NewNode("td"))
	c.renderInto(td)
}

// Table is a data table with a header row and an ordered list of rows.
type Table struct {
	widget
	columns []Cell
	rows    []*Row
	body    *Node
}

// NewTable builds a table with the given header cells and initial rows.
func NewTable(a *Arena, columns []Cell, rows ...*Row) *Table {
	t := &Table{}
	t.init(a, t, columns, rows)
	return t
}

func (t *Table) init(a *Arena, owner Component, columns []Cell, rows []*Row) {
	root := NewNode("table").SetClass("mdl-data-table mdl-data-table--selectable mdl-shadow--2dp")
	head := root.AppendChild(NewNode("thead")).AppendChild(NewNode("tr"))
	for _, c := range columns {
		c.renderInto(head.AppendChild(NewNode("th")))
	}
	t.body = root.AppendChild(NewNode("tbody"))

	t.columns = slices.Clone(columns)
	t.rows = make([]*Row, 0, len(rows))
	for _, r := range rows {
		t.rows = append(t.rows, r)
		r.AttachTo(t.body)
	}
	t.widget = mountWidget(a, owner, root)
}

// AddRow appends r to the table and renders it at the end of the body.
func (t *Table) AddRow(r *Row) {
	t.rows = append(t.rows, r)
	r.AttachTo(t.body)
}

// RemoveRow detaches the row at index and drops it from the table; later
// rows shift down by one.
func (t *Table) RemoveRow(index int) error {
	if index < 0 || index >= len(t.rows) {
		return &IndexError{Index: index, Len: len(t.rows)}
	}
	t.rows[index].Detach()
	t.rows = slices.Delete(t.rows, index, index+1)
	return nil
}

// Row returns the row at index, or nil when out of range.
func (t *Table) Row(index int) *Row {
	if index < 0 || index >= len(t.rows) {
		return nil
	}
	return t.rows[index]
}

// Rows returns the rows in render order.
func (t *Table) Rows() []*Row { return slices.Clone(t.rows) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the header cells.
func (t *Table) Columns() []Cell { return slices.Clone(t.columns) }

// Body returns the tbody node.
func (t *Table) Body() *Node { return t.body }
