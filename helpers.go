package contestui

import (
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component (a *Node, a component's Root, or any
// templ output) to the HTTP response.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    contestui.Render(w, r, page.Root())
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsFetch reports whether the request came from the admin UI's API client,
// which marks its calls with X-Requested-With: fetch.
func IsFetch(r *http.Request) bool {
	return r.Header.Get(RequestedWithHeader) == "fetch"
}
