package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/kinerja-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS employees (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL,
	nip                  TEXT NOT NULL DEFAULT '-',
	gol                  TEXT NOT NULL,
	pangkat              TEXT NOT NULL DEFAULT '-',
	position             TEXT NOT NULL DEFAULT '-',
	sub_position         TEXT NOT NULL DEFAULT '-',
	organizational_level TEXT NOT NULL,
	created_at           DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	results    TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS session_levels (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	name       TEXT NOT NULL,
	level      TEXT NOT NULL,
	PRIMARY KEY (session_id, name)
);

CREATE INDEX IF NOT EXISTS idx_employees_level ON employees(organizational_level);
CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(name);
CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const employeeColumns = `id, name, nip, gol, pangkat, position, sub_position, organizational_level, created_at, updated_at`

func (s *SQLiteStore) SaveEmployees(ctx context.Context, records []model.EmployeeRecord) ([]model.StoredEmployee, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin save employees")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO employees (`+employeeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: prepare insert employee")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	saved := make([]model.StoredEmployee, 0, len(records))
	for _, r := range records {
		e := model.StoredEmployee{ID: uuid.New().String(), EmployeeRecord: r, CreatedAt: now, UpdatedAt: now}
		if _, err := stmt.ExecContext(ctx,
			e.ID, r.Name, r.NIP, r.Gol, r.Pangkat, r.Position, r.SubPosition, string(r.OrganizationalLevel), now, now,
		); err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert employee %s", r.Name)
		}
		saved = append(saved, e)
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit save employees")
	}
	return saved, nil
}

func (s *SQLiteStore) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]model.StoredEmployee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	var args []any

	if filter.Level != "" {
		query += ` AND organizational_level = ?`
		args = append(args, string(filter.Level))
	}
	if filter.Name != "" {
		query += ` AND lower(name) LIKE '%' || lower(?) || '%'`
		args = append(args, filter.Name)
	}
	query += ` ORDER BY created_at, rowid LIMIT ?`
	args = append(args, limitOrDefault(filter.Limit))

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list employees")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.StoredEmployee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list employees iterate")
}

func (s *SQLiteStore) GetEmployee(ctx context.Context, id string) (*model.StoredEmployee, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, ErrNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "employee %s", id)
	}
	return e, err
}

func (s *SQLiteStore) DeleteEmployee(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete employee %s", id)
	}
	return checkRowsAffected(res, "employee", id)
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin delete session")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_levels WHERE session_id = ?`, id); err != nil {
		return eris.Wrapf(err, "sqlite: delete session levels %s", id)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete session %s", id)
	}
	if err := checkRowsAffected(res, "session", id); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit delete session")
}

func (s *SQLiteStore) LevelMapping(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, organizational_level FROM employees ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: level mapping")
	}
	defer rows.Close() //nolint:errcheck

	out := make(map[string]string)
	for rows.Next() {
		var name, level string
		if err := rows.Scan(&name, &level); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan level mapping")
		}
		out[name] = level
	}
	return out, eris.Wrap(rows.Err(), "sqlite: level mapping iterate")
}

func (s *SQLiteStore) CreateSession(ctx context.Context, name string) (*model.Session, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, name, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert session")
	}
	return &model.Session{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, results, created_at, updated_at FROM sessions WHERE id = ?`, id,
	)
	sess, err := scanSession(row)
	if errors.Is(err, ErrNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "session %s", id)
	}
	if err != nil {
		return nil, err
	}

	levels, err := s.SessionLevels(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(levels) > 0 {
		sess.Levels = levels
	}
	return sess, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, results, created_at, updated_at FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limitOrDefault(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sessions")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list sessions iterate")
}

func (s *SQLiteStore) SetSessionLevel(ctx context.Context, sessionID, name, level string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if err != nil {
		return eris.Wrapf(err, "sqlite: check session %s", sessionID)
	}
	if exists == 0 {
		return eris.Wrapf(ErrNotFound, "session %s", sessionID)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_levels (session_id, name, level) VALUES (?, ?, ?)
		 ON CONFLICT (session_id, name) DO UPDATE SET level = excluded.level`,
		sessionID, name, level,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set session level %s", sessionID)
	}
	return nil
}

func (s *SQLiteStore) SessionLevels(ctx context.Context, sessionID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, level FROM session_levels WHERE session_id = ?`, sessionID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: session levels %s", sessionID)
	}
	defer rows.Close() //nolint:errcheck

	out := make(map[string]string)
	for rows.Next() {
		var name, level string
		if err := rows.Scan(&name, &level); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan session level")
		}
		out[name] = level
	}
	return out, eris.Wrap(rows.Err(), "sqlite: session levels iterate")
}

func (s *SQLiteStore) SaveSessionResults(ctx context.Context, sessionID string, results []model.Employee) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal session results")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET results = ?, updated_at = ? WHERE id = ?`,
		string(resultsJSON), time.Now().UTC(), sessionID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save session results %s", sessionID)
	}
	return checkRowsAffected(res, "session", sessionID)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEmployee(row scannable) (*model.StoredEmployee, error) {
	var e model.StoredEmployee
	var level string
	err := row.Scan(&e.ID, &e.Name, &e.NIP, &e.Gol, &e.Pangkat, &e.Position, &e.SubPosition, &level, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan employee")
	}
	e.OrganizationalLevel = model.OrganizationalCategory(level)
	return &e, nil
}

func scanSession(row scannable) (*model.Session, error) {
	var sess model.Session
	var resultsJSON sql.NullString
	err := row.Scan(&sess.ID, &sess.Name, &resultsJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan session")
	}
	if resultsJSON.Valid && resultsJSON.String != "" {
		if err := json.Unmarshal([]byte(resultsJSON.String), &sess.Results); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal session results")
		}
	}
	return &sess, nil
}
