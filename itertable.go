package contestui

import "context"

// LoadState is the state of an IteratorTable's load-more button.
type LoadState int

const (
	// LoadAbsent means the button is not shown: before the first page,
	// after the last page, or when the first page was already the last.
	LoadAbsent LoadState = iota
	// LoadEnabled means the button is shown and clickable.
	LoadEnabled
	// LoadDisabled means a page request is in flight, or the last one failed.
	LoadDisabled
)

func (s LoadState) String() string {
	switch s {
	case LoadEnabled:
		return "enabled"
	case LoadDisabled:
		return "disabled"
	default:
		return "absent"
	}
}

// IteratorTable binds a PageIterator to a table and a "Load more" button.
//
// Each item of every fetched page is handed to the item callback, which is
// expected to add a row to the table it closes over:
//
//	table := contestui.NewTable(a, contestui.Cells("ID", "Program"))
//	it, _ := contestui.NewPageIterator[Entry](entriesRoute)
//	view := contestui.NewIteratorTable(a, table, it, func(e Entry) {
//	    table.AddRow(contestui.NewRow(a, e.ID, e.ProgramID))
//	})
//	view.Init(ctx)
//
// A failed page is logged and leaves the button disabled. Loading stays
// frozen until the page is reloaded; re-enabling the button does not
// resume it.
type IteratorTable[T any] struct {
	*Base
	table    Component
	iter     *PageIterator[T]
	onItem   func(T)
	loadMore *Button
	buttons  *Node
	controls []Target
	state    LoadState
	ctx      context.Context
}

// NewIteratorTable wraps table. controls (for example a back button) are
// placed after the load-more button once the first page has loaded.
func NewIteratorTable[T any](a *Arena, table Component, iter *PageIterator[T], onItem func(T), controls ...Target) *IteratorTable[T] {
	a = arenaOr(a)
	root := NewNode("div")
	table.AttachTo(root)
	buttons := root.AppendChild(NewNode("div").SetClass("button-div"))

	t := &IteratorTable[T]{
		table:    table,
		iter:     iter,
		onItem:   onItem,
		buttons:  buttons,
		controls: controls,
		loadMore: NewButton(a, "Load more"),
	}
	t.loadMore.OnClick(func(Event) {
		_ = t.LoadMore(t.context())
	})
	t.Base = a.Mount(t, root)
	return t
}

// Init loads the first page. The load-more button is shown only when more
// pages may follow. ctx also bounds the fetches started by button clicks.
func (t *IteratorTable[T]) Init(ctx context.Context) error {
	t.ctx = ctx
	page, err := t.next(ctx)
	if err != nil {
		t.logFailure(err)
		return err
	}
	if !page.Done {
		t.loadMore.Enable()
		t.loadMore.AttachTo(t.buttons)
		t.state = LoadEnabled
	}
	for _, c := range t.controls {
		if comp, ok := c.(Component); ok {
			comp.AttachTo(t.buttons)
		} else {
			t.buttons.AppendChild(c.Root())
		}
	}
	return nil
}

// LoadMore does what a click on the load-more button does: disable the
// button, fetch the next page, insert it, then remove the button if that
// was the last page or re-enable it otherwise. It returns ErrIteratorBusy
// while a request is in flight and does nothing when the button is absent.
func (t *IteratorTable[T]) LoadMore(ctx context.Context) error {
	switch t.state {
	case LoadAbsent:
		return nil
	case LoadDisabled:
		return ErrIteratorBusy
	}

	t.loadMore.Disable()
	t.state = LoadDisabled

	page, err := t.next(ctx)
	if err != nil {
		t.logFailure(err)
		return err
	}
	if page.Done {
		t.loadMore.Detach()
		t.state = LoadAbsent
		return nil
	}
	t.loadMore.Enable()
	t.state = LoadEnabled
	return nil
}

// InsertItems feeds every item of page to the item callback without
// consuming a page from the iterator.
func (t *IteratorTable[T]) InsertItems(page Page[T]) Page[T] {
	for _, item := range page.Value {
		t.onItem(item)
	}
	return page
}

func (t *IteratorTable[T]) next(ctx context.Context) (Page[T], error) {
	page, err := t.iter.Next(ctx)
	if err != nil {
		return page, err
	}
	return t.InsertItems(page), nil
}

func (t *IteratorTable[T]) logFailure(err error) {
	t.Arena().Logger().Error("load page failed",
		"error", err,
		"page", t.iter.Page()-1,
		"component", t.ID(),
	)
}

func (t *IteratorTable[T]) context() context.Context {
	if t.ctx != nil {
		return t.ctx
	}
	return context.Background()
}

// State returns the load-more button state.
func (t *IteratorTable[T]) State() LoadState { return t.state }

// LoadMoreButton returns the load-more button.
func (t *IteratorTable[T]) LoadMoreButton() *Button { return t.loadMore }

// Table returns the wrapped table component.
func (t *IteratorTable[T]) Table() Component { return t.table }

// Iterator returns the bound iterator.
func (t *IteratorTable[T]) Iterator() *PageIterator[T] { return t.iter }

// Buttons returns the node holding the load-more button and controls.
func (t *IteratorTable[T]) Buttons() *Node { return t.buttons }
