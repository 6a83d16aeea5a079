package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// SQLite persists cats in a SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// The CHECK constraints backstop the HTTP-layer validation.
const schema = `CREATE TABLE IF NOT EXISTS cats (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT NOT NULL CHECK (name <> ''),
	age    INTEGER NOT NULL CHECK (age > 0 AND age < 100),
	weight REAL NOT NULL CHECK (weight > 0 AND weight < 100),
	breed  TEXT NOT NULL
)`

// OpenSQLite opens (creating if needed) the cat database at path and
// ensures the schema exists. An empty path opens an in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent writes and keeps :memory: databases
	// coherent across the pool.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "exec %q", pragma)
		}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create cats table")
	}
	return &SQLite{db: db}, nil
}

// Close closes the SQLite handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Insert stores a new cat and returns it with its assigned id.
func (s *SQLite) Insert(ctx context.Context, cat Cat) (Cat, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cats (name, age, weight, breed) VALUES (?, ?, ?, ?)`,
		cat.Name, cat.Age, cat.Weight, cat.Breed)
	if err != nil {
		return Cat{}, errors.Wrap(err, "insert cat")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Cat{}, errors.Wrap(err, "read inserted id")
	}
	cat.ID = id
	return cat, nil
}

// FindByID returns the cat with the given id, or ErrNotFound.
func (s *SQLite) FindByID(ctx context.Context, id int64) (Cat, error) {
	var cat Cat
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, age, weight, breed FROM cats WHERE id = ?`, id).
		Scan(&cat.ID, &cat.Name, &cat.Age, &cat.Weight, &cat.Breed)
	if errors.Is(err, sql.ErrNoRows) {
		return Cat{}, ErrNotFound
	}
	if err != nil {
		return Cat{}, errors.Wrap(err, "find cat by id")
	}
	return cat, nil
}

// FindByName returns all cats with the exact given name.
func (s *SQLite) FindByName(ctx context.Context, name string) ([]Cat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, age, weight, breed FROM cats WHERE name = ? ORDER BY id`, name)
	if err != nil {
		return nil, errors.Wrap(err, "find cats by name")
	}
	return scanCats(rows)
}

// FindAll returns every cat, ordered by id.
func (s *SQLite) FindAll(ctx context.Context) ([]Cat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, age, weight, breed FROM cats ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "find all cats")
	}
	return scanCats(rows)
}

// UpdatePartial applies the non-nil fields of upd to the cat with the given
// id and returns the updated record, or ErrNotFound.
func (s *SQLite) UpdatePartial(ctx context.Context, id int64, upd CatUpdate) (Cat, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *upd.Age)
	}
	if upd.Weight != nil {
		sets = append(sets, "weight = ?")
		args = append(args, *upd.Weight)
	}
	if upd.Breed != nil {
		sets = append(sets, "breed = ?")
		args = append(args, *upd.Breed)
	}
	if len(sets) == 0 {
		return s.FindByID(ctx, id)
	}
	args = append(args, id)

	var cat Cat
	err := s.db.QueryRowContext(ctx,
		`UPDATE cats SET `+strings.Join(sets, ", ")+
			` WHERE id = ? RETURNING id, name, age, weight, breed`, args...).
		Scan(&cat.ID, &cat.Name, &cat.Age, &cat.Weight, &cat.Breed)
	if errors.Is(err, sql.ErrNoRows) {
		return Cat{}, ErrNotFound
	}
	if err != nil {
		return Cat{}, errors.Wrap(err, "update cat")
	}
	return cat, nil
}

// DeleteByID removes the cat with the given id.
func (s *SQLite) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cats WHERE id = ?`, id)
	if err != nil {
		return 0, errors.Wrap(err, "delete cat")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "read affected rows")
	}
	return n, nil
}

func scanCats(rows *sql.Rows) ([]Cat, error) {
	defer rows.Close()
	cats := []Cat{}
	for rows.Next() {
		var cat Cat
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Age, &cat.Weight, &cat.Breed); err != nil {
			return nil, errors.Wrap(err, "scan cat row")
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate cat rows")
	}
	return cats, nil
}
