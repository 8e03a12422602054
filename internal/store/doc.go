// Package store persists contests, entries, brackets and admin users in a
// SQL database.
//
// Two drivers are supported: the embedded modernc.org/sqlite ("sqlite") for
// development and tests, and github.com/lib/pq ("postgres") for deployment.
// Queries use $N placeholders, which both drivers accept.
//
// List operations are paginated the way the admin UI's tables consume
// them: page is zero-based and a page shorter than limit is the last one.
//
// # Errors
//
//   - [ErrNotFound] - the contest, entry or user does not exist
//   - [ErrInvalidPage] - page is negative or limit is not positive
package store
