package store

import (
	"context"
	"fmt"

	"github.com/kascribe/contestui"
)

// Inserts allocate the next id in the same statement so that both drivers
// behave alike without relying on SERIAL or AUTOINCREMENT.

// CreateContest inserts a contest and returns its id.
func (s *Store) CreateContest(ctx context.Context, name, description string, programID int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO contest (id, name, description, program_id)
		SELECT COALESCE(MAX(id), 0) + 1, CAST($1 AS TEXT), CAST($2 AS TEXT), CAST($3 AS BIGINT) FROM contest WHERE true
		RETURNING id`,
		name, description, programID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create contest: %w", err)
	}
	return id, nil
}

// AddBracket adds a bracket to a contest and returns its id.
func (s *Store) AddBracket(ctx context.Context, contestID int64, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO bracket (id, contest_id, name)
		SELECT COALESCE(MAX(id), 0) + 1, CAST($1 AS BIGINT), CAST($2 AS TEXT) FROM bracket WHERE true
		RETURNING id`,
		contestID, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add bracket: %w", err)
	}
	return id, nil
}

// AddEntry adds a program to a contest and returns the entry id.
func (s *Store) AddEntry(ctx context.Context, contestID, programID int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO entry (id, contest_id, program_id)
		SELECT COALESCE(MAX(id), 0) + 1, CAST($1 AS BIGINT), CAST($2 AS BIGINT) FROM entry WHERE true
		RETURNING id`,
		contestID, programID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}
	return id, nil
}

// CreateUser inserts a user and returns it.
func (s *Store) CreateUser(ctx context.Context, kaid, name string, level contestui.UserLevel) (User, error) {
	u := User{KAID: kaid, Name: name, Level: level}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO app_user (id, kaid, name, level)
		SELECT COALESCE(MAX(id), 0) + 1, CAST($1 AS TEXT), CAST($2 AS TEXT), CAST($3 AS INTEGER) FROM app_user WHERE true
		RETURNING id`,
		kaid, name, int(level)).Scan(&u.ID)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Seed fills an empty database with a demo contest, entries and users. It
// does nothing when any contest already exists.
func (s *Store) Seed(ctx context.Context, entries int) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contest`).Scan(&n); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		return nil
	}

	contestID, err := s.CreateContest(ctx, "Winter Contest", "Make a winter scene", 5406513695948800)
	if err != nil {
		return err
	}
	var brackets []int64
	for _, name := range []string{"Beginner", "Intermediate", "Advanced"} {
		id, err := s.AddBracket(ctx, contestID, name)
		if err != nil {
			return err
		}
		brackets = append(brackets, id)
	}
	for i := range entries {
		id, err := s.AddEntry(ctx, contestID, 6000000000000000+int64(i))
		if err != nil {
			return err
		}
		if i%2 == 0 {
			b := brackets[i%len(brackets)]
			if err := s.SetBracket(ctx, contestID, id, &b); err != nil {
				return err
			}
		}
	}

	users := []struct {
		kaid, name string
		level      contestui.UserLevel
	}{
		{"kaid_100000000000000000000001", "Ada", contestui.LevelAdmin},
		{"kaid_100000000000000000000002", "Grace", contestui.LevelMember},
		{"kaid_100000000000000000000003", "Linus", contestui.LevelMember},
	}
	for _, u := range users {
		if _, err := s.CreateUser(ctx, u.kaid, u.name, u.level); err != nil {
			return err
		}
	}
	return nil
}
