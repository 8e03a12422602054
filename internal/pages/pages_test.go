package pages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/kascribe/contestui"
	"github.com/kascribe/contestui/internal/store"
	"github.com/kascribe/contestui/lib/csrf"
)

// fakeAPI serves the JSON endpoints the pages use and records mutations.
type fakeAPI struct {
	mu       sync.Mutex
	contest  store.Contest
	entries  []store.Entry
	users    []store.User
	failMut  bool
	requests []string
	bodies   []string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/contests/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != strconv.FormatInt(f.contest.ID, 10) {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, f.contest)
	})
	mux.HandleFunc("GET /api/contests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, pageOf(r, []store.Contest{f.contest}))
	})
	mux.HandleFunc("GET /api/contests/{id}/entries", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, pageOf(r, f.entries))
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, pageOf(r, f.users))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.bodies = append(f.bodies, string(body))
		fail := f.failMut
		f.mu.Unlock()
		if fail {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (f *fakeAPI) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeAPI) body(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[i]
}

func pageOf[T any](r *http.Request, items []T) []T {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	start := min(page*limit, len(items))
	end := min(start+limit, len(items))
	return items[start:end]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newFake(t *testing.T, entries int) (*fakeAPI, *contestui.HTTPFetcher) {
	t.Helper()
	f := &fakeAPI{
		contest: store.Contest{ID: 4, Name: "Winter Contest", Brackets: []store.Bracket{{ID: 1, Name: "Beginner"}, {ID: 2, Name: "Advanced"}}},
		users: []store.User{
			{ID: 1, KAID: "kaid_a", Name: "Ada", Level: contestui.LevelAdmin},
			{ID: 2, KAID: "kaid_g", Name: "Grace", Level: contestui.LevelMember},
			{ID: 3, KAID: "kaid_l", Name: "Linus", Level: contestui.LevelMember},
		},
	}
	for i := range entries {
		e := store.Entry{ID: int64(i + 1), ProgramID: int64(1000 + i)}
		if i == 0 {
			e.Bracket = &store.Bracket{ID: 2, Name: "Advanced"}
		}
		f.entries = append(f.entries, e)
	}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return f, &contestui.HTTPFetcher{BaseURL: srv.URL, Token: csrf.StaticToken("tok")}
}

func quietArena() *contestui.Arena {
	return contestui.NewArena(contestui.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
}

func TestEntriesPageLoad(t *testing.T) {
	_, api := newFake(t, 14)
	p := NewEntriesPage(quietArena(), api, 4, 10)

	if err := p.Load(t.Context(), 1); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Table().Len() != 10 {
		t.Errorf("table has %d rows, want 10", p.Table().Len())
	}
	if p.View().State() != contestui.LoadEnabled {
		t.Errorf("State() = %v, want enabled", p.View().State())
	}

	result, _ := contestui.RenderHTML(p.Root())
	if !result.HTMLContainsAll(
		"Winter Contest",
		"<th>Thumbnail</th>",
		"https://www.khanacademy.org/computer-programming/i/1000/latest.png",
		`href="https://www.khanacademy.org/computer-programming/i/1000"`,
		`data-href="?pages=2"`,
		"Load more",
	) {
		t.Errorf("unexpected markup: %s", result.HTML)
	}

	sel := p.Table().Row(0).At(3).Node()
	var selected []string
	for _, opt := range sel.Children() {
		if opt.HasAttr("selected") {
			selected = append(selected, opt.TextContent())
		}
	}
	if len(selected) != 1 || selected[0] != "Advanced" {
		t.Errorf("selected options = %v, want [Advanced]", selected)
	}
}

func TestEntriesPageLoadAll(t *testing.T) {
	_, api := newFake(t, 14)
	p := NewEntriesPage(quietArena(), api, 4, 10)

	if err := p.Load(t.Context(), 5); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Table().Len() != 14 {
		t.Errorf("table has %d rows, want 14", p.Table().Len())
	}
	if p.View().State() != contestui.LoadAbsent {
		t.Errorf("State() = %v, want absent", p.View().State())
	}
}

func TestEntriesPageMissingContest(t *testing.T) {
	_, api := newFake(t, 3)
	p := NewEntriesPage(quietArena(), api, 99, 10)

	if err := p.Load(t.Context(), 1); !contestui.IsFetchError(err) {
		t.Errorf("Load() = %v, want fetch error", err)
	}
	result, _ := contestui.RenderHTML(p.Root())
	if !result.HTMLContainsAll("OOPS!", "That contest doesn&#39;t exist") {
		t.Errorf("unexpected markup: %s", result.HTML)
	}
	if p.Table() != nil {
		t.Error("no table expected for a missing contest")
	}
}

func TestEntriesPageRemove(t *testing.T) {
	f, api := newFake(t, 3)
	p := NewEntriesPage(quietArena(), api, 4, 10)
	if err := p.Load(t.Context(), 1); err != nil {
		t.Fatal(err)
	}

	row, _ := p.Row(2)
	row.At(4).Node().Click()

	if p.Table().Len() != 2 {
		t.Errorf("table has %d rows, want 2", p.Table().Len())
	}
	if _, ok := p.Row(2); ok {
		t.Error("row still tracked after removal")
	}
	if got := f.mutations(); len(got) != 1 || got[0] != "DELETE /api/contests/4/entries/2" {
		t.Errorf("mutations = %v", got)
	}
}

func TestEntriesPageRemoveFailure(t *testing.T) {
	f, api := newFake(t, 3)
	f.mu.Lock()
	f.failMut = true
	f.mu.Unlock()
	p := NewEntriesPage(quietArena(), api, 4, 10)
	if err := p.Load(t.Context(), 1); err != nil {
		t.Fatal(err)
	}

	p.RemoveEntry(t.Context(), 1)

	if p.Table().Len() != 2 {
		t.Error("row should be removed even when the request fails")
	}
	result, _ := contestui.RenderHTML(p.Root())
	if !result.HasFlash(contestui.FlashError, "Could not remove entry 1") {
		t.Errorf("flashes = %+v", result.Flashes)
	}
}

func TestEntriesPageSetBracket(t *testing.T) {
	f, api := newFake(t, 2)
	p := NewEntriesPage(quietArena(), api, 4, 10)
	if err := p.Load(t.Context(), 1); err != nil {
		t.Fatal(err)
	}

	sel := p.Table().Row(1).At(3).Node()
	sel.SetAttr("value", "1")
	sel.Dispatch(contestui.EventInput)

	got := f.mutations()
	if len(got) != 1 || got[0] != "PUT /api/contests/4/entries/2/bracket" {
		t.Fatalf("mutations = %v", got)
	}
	if f.body(0) != `{"bracket":1}` {
		t.Errorf("body = %q", f.body(0))
	}

	sel.SetAttr("value", "")
	sel.Dispatch(contestui.EventInput)
	if f.body(1) != `{"bracket":null}` {
		t.Errorf("body = %q, want null bracket", f.body(1))
	}
}

func TestContestsPage(t *testing.T) {
	_, api := newFake(t, 0)
	p, err := NewContestsPage(quietArena(), api, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Load(t.Context(), 1); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Table().Len() != 1 {
		t.Fatalf("table has %d rows, want 1", p.Table().Len())
	}
	result, _ := contestui.RenderHTML(p.Root())
	if !result.HTMLContainsAll("Winter Contest", `href="/contests/4/entries"`) {
		t.Errorf("unexpected markup: %s", result.HTML)
	}
	if result.HTMLContains("Load more") {
		t.Error("single page should not show load more")
	}
}

func TestUsersPageMember(t *testing.T) {
	_, api := newFake(t, 0)
	viewer := contestui.User{ID: 2, Level: contestui.LevelMember}
	p, err := NewUsersPage(quietArena(), api, viewer, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Load(t.Context(), 1); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if p.RemoveButton() != nil || p.ConfirmDialog() != nil {
		t.Error("members must not get removal controls")
	}
	result, _ := contestui.RenderHTML(p.Root())
	if result.HTMLContainsAny("keyboard_arrow_up", "Remove selected") {
		t.Errorf("member sees admin controls: %s", result.HTML)
	}
	if result.Count("N/a") != 3 {
		t.Errorf("N/a count = %d, want 3", result.Count("N/a"))
	}
}

func TestUsersPageAdminRemoveSelected(t *testing.T) {
	f, api := newFake(t, 0)
	viewer := contestui.User{ID: 1, Level: contestui.LevelAdmin}
	p, err := NewUsersPage(quietArena(), api, viewer, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Load(t.Context(), 1); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	table := p.Table()
	if table.Len() != 3 || table.CheckboxCount() != 4 {
		t.Fatalf("Len() = %d, CheckboxCount() = %d", table.Len(), table.CheckboxCount())
	}
	if p.RemoveButton().Enabled() {
		t.Error("remove button should start disabled")
	}

	if err := table.SetChecked(1, true); err != nil {
		t.Fatal(err)
	}
	if err := table.SetChecked(2, true); err != nil {
		t.Fatal(err)
	}
	if !p.RemoveButton().Enabled() {
		t.Fatal("remove button should enable once rows are checked")
	}

	p.RemoveButton().Click()
	if !p.ConfirmDialog().IsOpen() {
		t.Fatal("confirmation dialog did not open")
	}
	p.ConfirmDialog().Button(1).Click()

	if table.Len() != 1 || table.CheckboxCount() != 2 {
		t.Errorf("Len() = %d, CheckboxCount() = %d after removal", table.Len(), table.CheckboxCount())
	}
	want := []string{"DELETE /api/users/2", "DELETE /api/users/3"}
	got := f.mutations()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("mutations = %v, want %v", got, want)
	}
	if p.ConfirmDialog().IsOpen() || p.RemoveButton().Enabled() {
		t.Error("dialog should close and button disable after removal")
	}
}

func TestUsersPagePromote(t *testing.T) {
	f, api := newFake(t, 0)
	p, err := NewUsersPage(quietArena(), api, contestui.User{ID: 1, Level: contestui.LevelAdmin}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Load(t.Context(), 1); err != nil {
		t.Fatal(err)
	}

	row := p.Table().Row(1)
	arrow := row.At(3).Node().FindTag("i")
	if arrow == nil {
		t.Fatal("no promote control for a member")
	}
	arrow.Click()
	dialog := p.Root().Find(func(n *contestui.Node) bool {
		return n.Tag() == "dialog" && n.HasAttr("open")
	})
	if dialog == nil {
		t.Fatal("promote dialog did not open")
	}
	confirm := dialog.Find(func(n *contestui.Node) bool {
		return n.Tag() == "button" && n.TextContent() == "Promote"
	})
	if confirm == nil {
		t.Fatal("promote dialog has no Promote button")
	}
	confirm.Click()

	if got := f.mutations(); len(got) != 1 || got[0] != "POST /api/users/2/promote" {
		t.Errorf("mutations = %v", got)
	}
	if row.At(2).String() != "ADMIN" || row.At(3).String() != "N/a" {
		t.Errorf("row not updated: level %q promote %q", row.At(2).String(), row.At(3).String())
	}
	if row.At(1).Node().TextContent() != "Grace [Admin]" {
		t.Errorf("user cell = %q", row.At(1).Node().TextContent())
	}
}

func TestLayout(t *testing.T) {
	body := contestui.NewNode("p").SetText("hello")

	tests := []struct {
		name      string
		viewer    contestui.User
		wantUsers bool
	}{
		{"member", contestui.User{Level: contestui.LevelMember}, false},
		{"admin", contestui.User{Level: contestui.LevelAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Layout("Entries", tt.viewer, body)
			result, _ := contestui.RenderHTML(page)
			if !result.HTMLContainsAll("<title>Entries | Contest admin</title>", "<p>hello</p>", `href="/contests"`) {
				t.Errorf("unexpected markup: %s", result.HTML)
			}
			if got := result.HTMLContains(`href="/users"`); got != tt.wantUsers {
				t.Errorf("users link shown = %v, want %v", got, tt.wantUsers)
			}
		})
	}
}
