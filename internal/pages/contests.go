package pages

import (
	"context"
	"fmt"

	"github.com/kascribe/contestui"
	"github.com/kascribe/contestui/internal/store"
)

// ContestsPage lists contests with a link to each one's entries.
type ContestsPage struct {
	*contestui.Base
	table *contestui.Table
	view  *contestui.IteratorTable[store.Contest]
}

// NewContestsPage builds the page. Call Load to fill it.
func NewContestsPage(a *contestui.Arena, api *contestui.HTTPFetcher, limit int) (*ContestsPage, error) {
	if a == nil {
		a = contestui.DefaultArena()
	}
	it, err := contestui.NewPageIterator[store.Contest](
		contestui.QueryRoute("/api/contests"),
		contestui.WithLimit(limit),
		contestui.WithFetcher(api),
	)
	if err != nil {
		return nil, err
	}

	p := &ContestsPage{}
	p.table = contestui.NewTable(a, contestui.Cells("ID", "Name", "Description", "Entries"))
	p.view = contestui.NewIteratorTable(a, p.table, it, p.addContest)

	area := contestui.NewNode("div").SetClass("contests-area")
	p.view.AttachTo(area)
	p.Base = a.Mount(p, area)
	return p, nil
}

func (p *ContestsPage) addContest(c store.Contest) {
	entries := contestui.NewNode("a").SetAttr("href", fmt.Sprintf("/contests/%d/entries", c.ID))
	entries.SetText("View entries")
	p.table.AddRow(contestui.NewRow(p.Arena(), c.ID, c.Name, c.Description, entries))
}

// Load fetches up to pages pages.
func (p *ContestsPage) Load(ctx context.Context, pages int) error {
	return loadPages(ctx, p.view, pages)
}

// Table returns the contests table.
func (p *ContestsPage) Table() *contestui.Table { return p.table }

func loadPages[T any](ctx context.Context, view *contestui.IteratorTable[T], pages int) error {
	if err := view.Init(ctx); err != nil {
		return err
	}
	loaded := 1
	for ; loaded < pages && view.State() == contestui.LoadEnabled; loaded++ {
		if err := view.LoadMore(ctx); err != nil {
			return err
		}
	}
	markNextPage(view.LoadMoreButton(), view.State(), loaded)
	return nil
}
