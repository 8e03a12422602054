package store

import "github.com/kascribe/contestui"

// Contest is a programming contest and its brackets.
type Contest struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProgramID   int64     `json:"programId"`
	Brackets    []Bracket `json:"brackets"`
}

// Bracket is a named group entries can be placed in.
type Bracket struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Entry is a program submitted to a contest. Bracket is nil when the entry
// is not in a bracket.
type Entry struct {
	ID        int64    `json:"id"`
	ContestID int64    `json:"-"`
	ProgramID int64    `json:"programId"`
	Bracket   *Bracket `json:"bracket"`
}

// User is an admin UI account.
type User struct {
	ID    int64               `json:"id"`
	KAID  string              `json:"kaid"`
	Name  string              `json:"name"`
	Level contestui.UserLevel `json:"level"`
}

// Principal returns the identity pages are rendered for.
func (u User) Principal() contestui.User {
	return contestui.User{KAID: u.KAID, ID: u.ID, Level: u.Level}
}
