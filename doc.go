// Package contestui provides the component layer of the contest admin UI:
// a small tree of renderable nodes, reusable widgets, and tables that load
// their rows page by page from the JSON API.
//
// # Nodes and Components
//
// A *Node is an element in an in-memory tree. It renders to HTML and
// implements templ.Component, so a page built from nodes can be written
// straight into a response:
//
//	page := contestui.NewNode("main")
//	table.AttachTo(page)
//	contestui.Render(w, r, page)
//
// Nodes carry listeners for "click", "change" and "input" events. Events
// are dispatched synchronously on the target node and do not bubble.
//
// A Component owns exactly one root node. Components embed *Base, obtained
// from Arena.Mount, which assigns a unique handle of the form
// "component-<75 alphanumerics>" and stamps it on the root as its id.
//
// # Arena
//
// The Arena replaces a global "element to component" lookup table. It
// maps handles to live components and is safe for concurrent use:
//
//	arena := contestui.NewArena(contestui.WithLogger(logger))
//	btn := contestui.NewButton(arena, "Save")
//	c, ok := arena.Lookup(btn.Handle())
//
// Passing a nil arena to a constructor uses DefaultArena.
//
// # Tables
//
// Table renders a header row and a body of Rows. CheckTable adds a leading
// checkbox column with a master checkbox in the header; toggling the
// master brings every row into line, and OnSelect subscribers see each
// change. IteratorTable binds a PageIterator to a table and manages the
// "Load more" button.
//
// # Paging
//
// PageIterator walks a paginated endpoint. A RouteFunc maps the page index
// and limit to a request, each body is decoded as a JSON array, and a page
// shorter than the limit marks the end:
//
//	it, _ := contestui.NewPageIterator[Entry](contestui.QueryRoute("/api/contests/4/entries"),
//	    contestui.WithLimit(10),
//	    contestui.WithFetcher(&contestui.HTTPFetcher{BaseURL: api, Token: tokens}),
//	)
//	page, err := it.Next(ctx)
//
// HTTPFetcher sends the X-Requested-With and x-ftok headers the server's
// CSRF middleware (package lib/csrf) expects.
//
// # Testing
//
// RenderHTML renders any component for assertions:
//
//	result, _ := contestui.RenderHTML(view.Root())
//	if !result.HTMLContains("Load more") { ... }
package contestui
