package contestui

import "slices"

// MasterRow is the Row reported by a SelectionChange from the master
// checkbox.
const MasterRow = -1

// SelectionChange is emitted whenever a checkbox in a CheckTable changes.
type SelectionChange struct {
	Row     int
	Checked bool
}

// CheckTable is a Table whose first column holds a selection checkbox per
// row, plus a master checkbox in the header that selects or clears every
// row.
//
// Every checkbox reports its changes to the table as SelectionChange
// messages, which the table forwards to OnSelect subscribers. Selection is
// always read from the checkboxes themselves, so a checkbox set without a
// click still counts. Add and remove rows through CheckTable's
// own AddRow and RemoveRow, not through the embedded Table, so the checkbox
// list stays in step with the rows.
type CheckTable struct {
	*Table
	checks []*Checkbox // master first, then one per row
	subs   []func(SelectionChange)
}

// NewCheckTable builds a check table. A checkbox cell is prepended to the
// header and to each of rows.
func NewCheckTable(a *Arena, columns []Cell, rows ...*Row) *CheckTable {
	a = arenaOr(a)
	ct := &CheckTable{}

	master := NewCheckbox(a)
	ct.checks = append(ct.checks, master)
	for _, r := range rows {
		check := NewCheckbox(a)
		r.prepend(ComponentCell(check))
		ct.checks = append(ct.checks, check)
	}

	ct.Table = &Table{}
	ct.Table.init(a, ct, append([]Cell{ComponentCell(master)}, columns...), rows)

	for _, check := range ct.checks {
		ct.watch(check)
	}
	return ct
}

func (ct *CheckTable) watch(check *Checkbox) {
	check.OnChange(func(checked bool) {
		ct.handle(check, checked)
	})
}

func (ct *CheckTable) handle(check *Checkbox, checked bool) {
	i := slices.Index(ct.checks, check)
	switch {
	case i < 0:
		// Row already removed.
		return
	case i == 0:
		ct.publish(SelectionChange{Row: MasterRow, Checked: checked})
		ct.syncRows(checked)
	default:
		ct.publish(SelectionChange{Row: i - 1, Checked: checked})
	}
}

// syncRows clicks every row checkbox whose state differs from the master so
// that per-row listeners observe the change.
func (ct *CheckTable) syncRows(checked bool) {
	for _, check := range slices.Clone(ct.checks[1:]) {
		if check.Checked() != checked {
			check.Click()
		}
	}
}

func (ct *CheckTable) publish(msg SelectionChange) {
	for _, fn := range ct.subs {
		fn(msg)
	}
}

// OnSelect subscribes to selection changes.
func (ct *CheckTable) OnSelect(fn func(SelectionChange)) {
	ct.subs = append(ct.subs, fn)
}

// AddRow builds a row from values, prepends a fresh checkbox and appends it
// to the table.
func (ct *CheckTable) AddRow(values ...any) *Row {
	a := ct.Arena()
	check := NewCheckbox(a)
	row := NewRow(a, append([]any{check}, values...)...)

	ct.checks = append(ct.checks, check)
	ct.watch(check)
	ct.Table.AddRow(row)
	return row
}

// RemoveRow removes the row at index and destroys its checkbox.
func (ct *CheckTable) RemoveRow(index int) error {
	if err := ct.Table.RemoveRow(index); err != nil {
		return err
	}
	check := ct.checks[index+1]
	ct.checks = slices.Delete(ct.checks, index+1, index+2)
	_ = check.Destroy()
	return nil
}

// CheckedRows returns the selected rows in table order.
func (ct *CheckTable) CheckedRows() []*Row {
	var rows []*Row
	for i, check := range ct.checks[1:] {
		if check.Checked() {
			rows = append(rows, ct.rows[i])
		}
	}
	return rows
}

// IsChecked reports whether the row at index is selected. Out-of-range
// indices report false.
func (ct *CheckTable) IsChecked(index int) bool {
	if index < 0 || index >= len(ct.rows) {
		return false
	}
	return ct.checks[index+1].Checked()
}

// SetChecked selects or clears the row at index by clicking its checkbox
// when the state differs.
func (ct *CheckTable) SetChecked(index int, checked bool) error {
	if index < 0 || index >= len(ct.rows) {
		return &IndexError{Index: index, Len: len(ct.rows)}
	}
	if ct.checks[index+1].Checked() != checked {
		ct.checks[index+1].Click()
	}
	return nil
}

// Master returns the header checkbox.
func (ct *CheckTable) Master() *Checkbox { return ct.checks[0] }

// CheckboxCount returns the number of tracked checkboxes: the master plus
// one per row.
func (ct *CheckTable) CheckboxCount() int { return len(ct.checks) }
