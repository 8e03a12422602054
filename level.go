package contestui

import (
	"fmt"
	"strings"
)

// UserLevel is the ordered permission level of an admin user.
type UserLevel int

const (
	LevelRemoved UserLevel = iota
	LevelMember
	LevelAdmin
)

var levelNames = []string{"REMOVED", "MEMBER", "ADMIN"}

// UserLevels lists every level in order.
func UserLevels() []UserLevel {
	return []UserLevel{LevelRemoved, LevelMember, LevelAdmin}
}

// Ordinal returns the level's position in the ordering.
func (l UserLevel) Ordinal() int { return int(l) }

func (l UserLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("UserLevel(%d)", int(l))
	}
	return levelNames[l]
}

// ParseUserLevel parses a level name, case-insensitively.
func ParseUserLevel(s string) (UserLevel, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return UserLevel(i), nil
		}
	}
	return LevelRemoved, fmt.Errorf("contestui: unknown user level %q", s)
}

// User is the signed-in user a page is rendered for.
type User struct {
	KAID  string    `json:"kaid" msgpack:"k"`
	ID    int64     `json:"id" msgpack:"i"`
	Level UserLevel `json:"level" msgpack:"l"`
}

// AtLeast reports whether the user's level is at or above l.
func (u User) AtLeast(l UserLevel) bool {
	return u.Level.Ordinal() >= l.Ordinal()
}
