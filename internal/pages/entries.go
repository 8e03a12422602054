package pages

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/kascribe/contestui"
	"github.com/kascribe/contestui/internal/store"
)

// EntriesPage lists a contest's entries with a thumbnail, the program
// link, a bracket selector and a remove control.
//
// Removal is optimistic: the row disappears before the delete request is
// sent. A failed request shows an error toast but does not bring the row
// back.
type EntriesPage struct {
	*contestui.Base
	api       *contestui.HTTPFetcher
	contestID int64
	limit     int

	area    *contestui.Node
	toasts  *contestui.Node
	contest store.Contest
	table   *contestui.Table
	view    *contestui.IteratorTable[store.Entry]
	rows    map[int64]*contestui.Row
	seen    map[int64]bool
	ctx     context.Context
}

// NewEntriesPage builds the page for a contest. Call Load to fill it.
func NewEntriesPage(a *contestui.Arena, api *contestui.HTTPFetcher, contestID int64, limit int) *EntriesPage {
	if a == nil {
		a = contestui.DefaultArena()
	}
	p := &EntriesPage{
		api:       api,
		contestID: contestID,
		limit:     limit,
		rows:      make(map[int64]*contestui.Row),
		seen:      make(map[int64]bool),
		ctx:       context.Background(),
	}
	root := contestui.NewNode("div")
	p.area = root.AppendChild(contestui.NewNode("div").SetClass("entries-area"))
	p.toasts = root.AppendChild(contestui.ToastContainer())
	p.Base = a.Mount(p, root)
	return p
}

// Load fetches the contest, then up to pages pages of entries. When the
// contest cannot be loaded the page shows an error message instead of the
// table.
func (p *EntriesPage) Load(ctx context.Context, pages int) error {
	p.ctx = ctx
	if err := p.api.GetJSON(ctx, fmt.Sprintf("/api/contests/%d", p.contestID), &p.contest); err != nil {
		var se *contestui.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			errorContent(p.area, "That contest doesn't exist")
		} else {
			errorContent(p.area, "Error")
		}
		return err
	}

	it, err := contestui.NewPageIterator[store.Entry](
		contestui.QueryRoute(fmt.Sprintf("/api/contests/%d/entries", p.contestID)),
		contestui.WithLimit(p.limit),
		contestui.WithFetcher(p.api),
	)
	if err != nil {
		return err
	}

	a := p.Arena()
	p.area.AppendChild(contestui.NewNode("h2")).SetText(p.contest.Name)
	p.table = contestui.NewTable(a, contestui.Cells("Thumbnail", "Entry ID", "Program ID", "Bracket", "Remove"))
	p.view = contestui.NewIteratorTable(a, p.table, it, p.addEntry)
	p.view.AttachTo(p.area)

	return loadPages(ctx, p.view, pages)
}

func (p *EntriesPage) addEntry(e store.Entry) {
	if p.seen[e.ID] {
		return
	}
	p.seen[e.ID] = true

	thumb := contestui.NewNode("img").
		SetAttr("src", fmt.Sprintf(thumbURL, e.ProgramID)).
		SetAttr("alt", "Entry thumbnail").
		SetAttr("width", "100").
		SetAttr("height", "100")
	program := link(fmt.Sprintf(programURL, e.ProgramID), strconv.FormatInt(e.ProgramID, 10))
	remove := icon("delete")

	row := contestui.NewRow(p.Arena(), thumb, e.ID, program, p.bracketSelect(e), remove)
	remove.On(contestui.EventClick, func(contestui.Event) {
		p.RemoveEntry(p.ctx, e.ID)
	})

	p.rows[e.ID] = row
	p.table.AddRow(row)
}

func (p *EntriesPage) bracketSelect(e store.Entry) *contestui.Node {
	sel := contestui.NewNode("select")
	options := append([]store.Bracket{{Name: "NONE"}}, p.contest.Brackets...)
	for _, b := range options {
		opt := sel.AppendChild(contestui.NewNode("option"))
		if b.ID != 0 {
			opt.SetAttr("value", strconv.FormatInt(b.ID, 10))
		} else {
			opt.SetAttr("value", "")
		}
		opt.SetText(b.Name)
		current := (e.Bracket != nil && e.Bracket.ID == b.ID) || (e.Bracket == nil && b.ID == 0)
		opt.SetBool("selected", current)
	}

	sel.On(contestui.EventInput, func(contestui.Event) {
		value, _ := sel.Attr("value")
		for _, opt := range sel.Children() {
			v, _ := opt.Attr("value")
			opt.SetBool("selected", v == value)
		}
		p.setBracket(e.ID, value)
	})
	return sel
}

type bracketRequest struct {
	Bracket *int64 `json:"bracket"`
}

func (p *EntriesPage) setBracket(entryID int64, value string) {
	var req bracketRequest
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		req.Bracket = &id
	}
	url := fmt.Sprintf("/api/contests/%d/entries/%d/bracket", p.contestID, entryID)
	if _, err := p.api.Send(p.ctx, http.MethodPut, url, req); err != nil {
		p.fail("set bracket failed", err, entryID, "Could not change the bracket")
	}
}

// RemoveEntry removes the entry's row and then asks the API to delete it.
func (p *EntriesPage) RemoveEntry(ctx context.Context, entryID int64) {
	row, ok := p.rows[entryID]
	if !ok {
		return
	}
	delete(p.rows, entryID)
	if i := slices.Index(p.table.Rows(), row); i >= 0 {
		_ = p.table.RemoveRow(i)
	}
	_ = row.Destroy()

	url := fmt.Sprintf("/api/contests/%d/entries/%d", p.contestID, entryID)
	if _, err := p.api.Send(ctx, http.MethodDelete, url, nil); err != nil {
		p.fail("remove entry failed", err, entryID, fmt.Sprintf("Could not remove entry %d", entryID))
	}
}

func (p *EntriesPage) fail(msg string, err error, entryID int64, toast string) {
	p.Arena().Logger().Error(msg, "error", err, "contest", p.contestID, "entry", entryID)
	contestui.PushFlash(p.toasts, contestui.FlashError, toast)
}

// Contest returns the loaded contest.
func (p *EntriesPage) Contest() store.Contest { return p.contest }

// Table returns the entries table, or nil before a successful Load.
func (p *EntriesPage) Table() *contestui.Table { return p.table }

// View returns the paging view, or nil before a successful Load.
func (p *EntriesPage) View() *contestui.IteratorTable[store.Entry] { return p.view }

// Row returns the row showing an entry.
func (p *EntriesPage) Row(entryID int64) (*contestui.Row, bool) {
	r, ok := p.rows[entryID]
	return r, ok
}
