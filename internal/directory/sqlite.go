package directory

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/taglet/internal/log"
)

// Schema creates the candidate directory tables.
const Schema = `
CREATE TABLE IF NOT EXISTS candidates (
	trigger TEXT NOT NULL,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (trigger, id)
);
CREATE INDEX IF NOT EXISTS candidates_by_name ON candidates(trigger, name);
`

// Store reads candidates from a SQLite directory database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open connects to an existing directory database read-only.
func Open(path string) (*Store, error) {
	log.Debug(log.CatDB, "Opening directory database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to open directory database", err, "path", path)
		return nil, err
	}
	// Verify connection works
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatDB, "Failed to ping directory database", err, "path", path)
		return nil, err
	}
	log.Info(log.CatDB, "Connected to directory database", "path", path)
	return &Store{db: db, dbPath: path}, nil
}

// Create opens the directory database read-write, creating the file and
// schema when missing. Used by the seeding command.
func Create(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to create directory database", err, "path", path)
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatDB, "Failed to apply directory schema", err, "path", path)
		return nil, err
	}
	log.Info(log.CatDB, "Created directory database", "path", path)
	return &Store{db: db, dbPath: path}, nil
}

// NewStore wraps an already open database handle. The caller keeps
// ownership of the handle's lifetime in tests.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path, empty for wrapped handles.
func (s *Store) Path() string {
	return s.dbPath
}

// Search returns candidates for the trigger whose name or detail contains
// query, case-insensitively. Prefix matches rank first, then alphabetical.
func (s *Store) Search(ctx context.Context, trigger rune, query string) ([]Candidate, error) {
	q := strings.ToLower(query)
	like := "%" + escapeLike(q) + "%"
	prefixLike := escapeLike(q) + "%"
	//nolint:gosec // G202: placeholders only, values passed as args
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, detail
		FROM candidates
		WHERE trigger = ?
		  AND (? = '' OR lower(name) LIKE ? ESCAPE '\' OR lower(detail) LIKE ? ESCAPE '\')
		ORDER BY
			CASE WHEN lower(name) LIKE ? ESCAPE '\' THEN 0 ELSE 1 END,
			lower(name)`,
		string(trigger), q, like, like, prefixLike)
	if err != nil {
		log.ErrorErr(log.CatDB, "Candidate search failed", err, "trigger", string(trigger), "query", query)
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Detail); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debug(log.CatDB, "Candidate search", "trigger", string(trigger), "query", query, "count", len(out))
	return out, nil
}

// Lookup resolves one candidate by identifier.
func (s *Store) Lookup(ctx context.Context, trigger rune, id string) (Candidate, error) {
	var c Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, detail
		FROM candidates
		WHERE trigger = ? AND id = ?`,
		string(trigger), id).Scan(&c.ID, &c.Name, &c.Detail)
	if errors.Is(err, sql.ErrNoRows) {
		return Candidate{}, &NotFoundError{Trigger: trigger, ID: id}
	}
	if err != nil {
		log.ErrorErr(log.CatDB, "Candidate lookup failed", err, "trigger", string(trigger), "id", id)
		return Candidate{}, err
	}
	return c, nil
}

// Upsert inserts or replaces a candidate. Requires a read-write store.
func (s *Store) Upsert(ctx context.Context, trigger rune, c Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (trigger, id, name, detail)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (trigger, id) DO UPDATE SET name = excluded.name, detail = excluded.detail`,
		string(trigger), c.ID, c.Name, c.Detail)
	if err != nil {
		log.ErrorErr(log.CatDB, "Candidate upsert failed", err, "trigger", string(trigger), "id", c.ID)
	}
	return err
}

// escapeLike escapes LIKE wildcards in user-entered queries.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
