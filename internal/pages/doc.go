// Package pages assembles the admin UI screens from contestui components.
//
// Each page talks to the JSON API through a *contestui.HTTPFetcher, the
// same way the browser does: tables fill themselves page by page, and
// controls such as "remove" issue API calls with the CSRF header. The
// server builds a page, loads its first pages and renders the tree.
package pages
