package pages

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/kascribe/contestui"
	"github.com/kascribe/contestui/internal/store"
)

// UsersPage lists admin UI users in a check table. Admins additionally get
// a promote control per non-admin row and a "Remove selected" button that
// removes every checked user after confirmation.
type UsersPage struct {
	*contestui.Base
	api    *contestui.HTTPFetcher
	viewer contestui.User

	toasts  *contestui.Node
	table   *contestui.CheckTable
	view    *contestui.IteratorTable[store.User]
	remove  *contestui.Button
	confirm *contestui.Dialog
	users   map[*contestui.Row]store.User
	seen    map[int64]bool
	ctx     context.Context
}

// NewUsersPage builds the page as seen by viewer. Call Load to fill it.
func NewUsersPage(a *contestui.Arena, api *contestui.HTTPFetcher, viewer contestui.User, limit int) (*UsersPage, error) {
	if a == nil {
		a = contestui.DefaultArena()
	}
	it, err := contestui.NewPageIterator[store.User](
		contestui.QueryRoute("/api/users"),
		contestui.WithLimit(limit),
		contestui.WithFetcher(api),
	)
	if err != nil {
		return nil, err
	}

	p := &UsersPage{
		api:    api,
		viewer: viewer,
		users:  make(map[*contestui.Row]store.User),
		seen:   make(map[int64]bool),
		ctx:    context.Background(),
	}

	root := contestui.NewNode("div")
	area := root.AppendChild(contestui.NewNode("div").SetClass("users-area"))
	p.table = contestui.NewCheckTable(a, contestui.Cells("User", "Level", "Promote to admin"))

	var controls []contestui.Target
	if viewer.AtLeast(contestui.LevelAdmin) {
		p.remove = contestui.NewButton(a, "Remove selected")
		p.remove.Disable()
		p.remove.OnClick(func(contestui.Event) { p.confirm.ShowModal() })
		p.table.OnSelect(func(contestui.SelectionChange) {
			if len(p.table.CheckedRows()) > 0 {
				p.remove.Enable()
			} else {
				p.remove.Disable()
			}
		})
		controls = append(controls, p.remove)

		p.confirm = contestui.NewDialog(a, "Are you sure?", "Remove the selected users?", []contestui.DialogButton{
			{Label: "Cancel", OnClick: func(contestui.Event) { p.confirm.Close() }},
			{Label: "Remove users", Color: "#ff5555", OnClick: func(contestui.Event) {
				p.RemoveSelected(p.ctx)
				p.confirm.Close()
			}},
		})
		p.confirm.AttachTo(root)
	}

	p.view = contestui.NewIteratorTable(a, p.table, it, p.addUser, controls...)
	p.view.AttachTo(area)
	p.toasts = root.AppendChild(contestui.ToastContainer())
	p.Base = a.Mount(p, root)
	return p, nil
}

// Load fetches up to pages pages of users.
func (p *UsersPage) Load(ctx context.Context, pages int) error {
	p.ctx = ctx
	return loadPages(ctx, p.view, pages)
}

func (p *UsersPage) addUser(u store.User) {
	if p.seen[u.ID] {
		return
	}
	p.seen[u.ID] = true

	name := contestui.NewNode("span")
	name.AppendChild(link(fmt.Sprintf(profileURL, u.KAID), u.Name))
	if u.Level >= contestui.LevelAdmin {
		name.AppendChild(adminTag())
	}

	level := contestui.NewNode("span").SetText(u.Level.String())
	promote := contestui.NewNode("span")
	row := p.table.AddRow(name, level, promote)
	p.users[row] = u

	if !p.viewer.AtLeast(contestui.LevelAdmin) || u.Level >= contestui.LevelAdmin {
		promote.SetText("N/a")
		return
	}

	var dialog *contestui.Dialog
	dialog = contestui.NewDialog(p.Arena(), "Are you sure?",
		fmt.Sprintf("Are you sure you want to promote %q? Promoted users can't be demoted through the UI", u.Name),
		[]contestui.DialogButton{
			{Label: "Cancel", OnClick: func(contestui.Event) { dialog.Close() }},
			{Label: "Promote", Color: "#4CB74C", OnClick: func(contestui.Event) {
				p.Promote(p.ctx, row)
				dialog.Close()
			}},
		})
	dialog.AttachTo(p)

	arrow := promote.AppendChild(icon("keyboard_arrow_up"))
	arrow.On(contestui.EventClick, func(contestui.Event) { dialog.ShowModal() })
}

func adminTag() *contestui.Node {
	n := contestui.NewNode("span")
	n.SetText(" [Admin]")
	return n
}

// Promote raises the row's user to ADMIN. The row is updated before the
// request completes.
func (p *UsersPage) Promote(ctx context.Context, row *contestui.Row) {
	u, ok := p.users[row]
	if !ok || u.Level >= contestui.LevelAdmin {
		return
	}
	u.Level = contestui.LevelAdmin
	p.users[row] = u

	// Cells: checkbox, user, level, promote.
	row.At(1).Node().AppendChild(adminTag())
	row.At(2).Node().SetText(u.Level.String())
	row.At(3).Node().SetText("N/a")

	url := fmt.Sprintf("/api/users/%d/promote", u.ID)
	if _, err := p.api.Send(ctx, http.MethodPost, url, nil); err != nil {
		p.fail("promote user failed", err, u, fmt.Sprintf("Could not promote %s", u.Name))
	}
}

// RemoveSelected removes every checked user. Rows go first, then one
// delete request per user.
func (p *UsersPage) RemoveSelected(ctx context.Context) {
	for _, row := range p.table.CheckedRows() {
		u := p.users[row]
		delete(p.users, row)
		if i := slices.Index(p.table.Rows(), row); i >= 0 {
			_ = p.table.RemoveRow(i)
		}
		_ = row.Destroy()

		url := fmt.Sprintf("/api/users/%d", u.ID)
		if _, err := p.api.Send(ctx, http.MethodDelete, url, nil); err != nil {
			p.fail("remove user failed", err, u, fmt.Sprintf("Could not remove %s", u.Name))
		}
	}
	if p.remove != nil {
		p.remove.Disable()
	}
}

func (p *UsersPage) fail(msg string, err error, u store.User, toast string) {
	p.Arena().Logger().Error(msg, "error", err, "user", u.ID)
	contestui.PushFlash(p.toasts, contestui.FlashError, toast)
}

// Table returns the users check table.
func (p *UsersPage) Table() *contestui.CheckTable { return p.table }

// View returns the paging view.
func (p *UsersPage) View() *contestui.IteratorTable[store.User] { return p.view }

// RemoveButton returns the "Remove selected" button, or nil for non-admins.
func (p *UsersPage) RemoveButton() *contestui.Button { return p.remove }

// ConfirmDialog returns the removal confirmation dialog, or nil for
// non-admins.
func (p *UsersPage) ConfirmDialog() *contestui.Dialog { return p.confirm }
