/*
Package server wires the admin API and the server-rendered admin pages onto
one Echo instance.

# API

All API routes live under /api and need a signed-in session:

	GET    /api/contests                          - List contests (MEMBER)
	GET    /api/contests/:id                      - Contest with brackets (MEMBER)
	GET    /api/contests/:id/entries              - List entries (MEMBER)
	DELETE /api/contests/:id/entries/:entry       - Remove entry (ADMIN)
	PUT    /api/contests/:id/entries/:entry/bracket - Move entry (ADMIN)
	GET    /api/users                             - List users (ADMIN)
	POST   /api/users/:id/promote                 - Promote to ADMIN (ADMIN)
	DELETE /api/users/:id                         - Remove user (ADMIN)

List endpoints take page and limit query parameters and return a JSON
array. Mutations need the x-ftok header.

# Pages

	GET /contests
	GET /contests/:id/entries
	GET /users            (ADMIN)

Pages accept ?pages=N to render the first N pages at once. They load their
data through the API, forwarding the caller's cookies.

# Sign-in

	GET /login?kaid=...   - Start a session for an existing user
	GET /logout           - End it
*/
package server
