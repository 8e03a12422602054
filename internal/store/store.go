package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/kascribe/contestui"
)

// Store wraps a database handle with the queries the admin API needs.
type Store struct {
	db *sql.DB
}

// Open connects to the database, verifies the connection and creates the
// schema. driver is "sqlite" or "postgres".
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if driver == "sqlite" {
		// One connection keeps ":memory:" databases shared and serialises writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// New wraps an already opened handle. The schema must exist.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func offset(page, limit int) (int, error) {
	if page < 0 || limit <= 0 || page > math.MaxInt/limit {
		return 0, fmt.Errorf("%w: page=%d limit=%d", ErrInvalidPage, page, limit)
	}
	return page * limit, nil
}

// ListContests returns one page of contests ordered by id. Brackets are not
// loaded; use GetContest for those.
func (s *Store) ListContests(ctx context.Context, page, limit int) ([]Contest, error) {
	off, err := offset(page, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, program_id FROM contest ORDER BY id LIMIT $1 OFFSET $2`,
		limit, off)
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}
	defer rows.Close()

	contests := []Contest{}
	for rows.Next() {
		var c Contest
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ProgramID); err != nil {
			return nil, fmt.Errorf("list contests: %w", err)
		}
		c.Brackets = []Bracket{}
		contests = append(contests, c)
	}
	return contests, rows.Err()
}

// GetContest returns a contest with its brackets.
func (s *Store) GetContest(ctx context.Context, id int64) (Contest, error) {
	var c Contest
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, program_id FROM contest WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.ProgramID)
	if errors.Is(err, sql.ErrNoRows) {
		return Contest{}, fmt.Errorf("contest %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Contest{}, fmt.Errorf("get contest: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM bracket WHERE contest_id = $1 ORDER BY id`, id)
	if err != nil {
		return Contest{}, fmt.Errorf("get brackets: %w", err)
	}
	defer rows.Close()

	c.Brackets = []Bracket{}
	for rows.Next() {
		var b Bracket
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return Contest{}, fmt.Errorf("get brackets: %w", err)
		}
		c.Brackets = append(c.Brackets, b)
	}
	return c, rows.Err()
}

// ListEntries returns one page of a contest's entries ordered by id.
func (s *Store) ListEntries(ctx context.Context, contestID int64, page, limit int) ([]Entry, error) {
	off, err := offset(page, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.contest_id, e.program_id, b.id, b.name
		FROM entry e
		LEFT JOIN bracket b ON b.id = e.bracket_id
		WHERE e.contest_id = $1
		ORDER BY e.id
		LIMIT $2 OFFSET $3`,
		contestID, limit, off)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e           Entry
			bracketID   sql.NullInt64
			bracketName sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ContestID, &e.ProgramID, &bracketID, &bracketName); err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		if bracketID.Valid {
			e.Bracket = &Bracket{ID: bracketID.Int64, Name: bracketName.String}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteEntry removes an entry from a contest.
func (s *Store) DeleteEntry(ctx context.Context, contestID, entryID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM entry WHERE contest_id = $1 AND id = $2`, contestID, entryID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return expectOne(res, "entry", entryID)
}

// SetBracket moves an entry into a bracket of the same contest, or out of
// any bracket when bracketID is nil.
func (s *Store) SetBracket(ctx context.Context, contestID, entryID int64, bracketID *int64) error {
	if bracketID != nil {
		var n int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bracket WHERE id = $1 AND contest_id = $2`, *bracketID, contestID).Scan(&n)
		if err != nil {
			return fmt.Errorf("set bracket: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("bracket %d: %w", *bracketID, ErrNotFound)
		}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE entry SET bracket_id = $1 WHERE contest_id = $2 AND id = $3`, bracketID, contestID, entryID)
	if err != nil {
		return fmt.Errorf("set bracket: %w", err)
	}
	return expectOne(res, "entry", entryID)
}

// ListUsers returns one page of users that have not been removed, ordered
// by id.
func (s *Store) ListUsers(ctx context.Context, page, limit int) ([]User, error) {
	off, err := offset(page, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kaid, name, level FROM app_user WHERE level > $1 ORDER BY id LIMIT $2 OFFSET $3`,
		int(contestui.LevelRemoved), limit, off)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUserByKAID looks a user up by Khan Academy id.
func (s *Store) GetUserByKAID(ctx context.Context, kaid string) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, kaid, name, level FROM app_user WHERE kaid = $1`, kaid))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %q: %w", kaid, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SetUserLevel changes a user's level. Removing a user is setting its
// level to REMOVED.
func (s *Store) SetUserLevel(ctx context.Context, id int64, level contestui.UserLevel) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE app_user SET level = $1 WHERE id = $2`, int(level), id)
	if err != nil {
		return fmt.Errorf("set user level: %w", err)
	}
	return expectOne(res, "user", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (User, error) {
	var (
		u     User
		level int
	)
	if err := row.Scan(&u.ID, &u.KAID, &u.Name, &level); err != nil {
		return User{}, err
	}
	u.Level = contestui.UserLevel(level)
	return u, nil
}

func expectOne(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
