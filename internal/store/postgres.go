package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/kinerja-cli/internal/db"
	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/resilience"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	// The database may still be starting when the CLI or server boots.
	policy := resilience.DefaultPolicy()
	policy.OnRetry = resilience.LogRetry(zap.L(), "postgres ping")
	if err := resilience.Do(ctx, policy, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS employees (
	id                   TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name                 TEXT NOT NULL,
	nip                  TEXT NOT NULL DEFAULT '-',
	gol                  TEXT NOT NULL,
	pangkat              TEXT NOT NULL DEFAULT '-',
	position             TEXT NOT NULL DEFAULT '-',
	sub_position         TEXT NOT NULL DEFAULT '-',
	organizational_level TEXT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL,
	results    JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS session_levels (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	level      TEXT NOT NULL,
	PRIMARY KEY (session_id, name)
);

CREATE INDEX IF NOT EXISTS idx_employees_level ON employees(organizational_level);
CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(name);
CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at DESC);
`

var employeeCopyColumns = []string{
	"id", "name", "nip", "gol", "pangkat", "position", "sub_position",
	"organizational_level", "created_at", "updated_at",
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveEmployees(ctx context.Context, records []model.EmployeeRecord) ([]model.StoredEmployee, error) {
	if len(records) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	saved := make([]model.StoredEmployee, 0, len(records))
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		e := model.StoredEmployee{ID: uuid.New().String(), EmployeeRecord: r, CreatedAt: now, UpdatedAt: now}
		saved = append(saved, e)
		rows = append(rows, []any{
			e.ID, r.Name, r.NIP, r.Gol, r.Pangkat, r.Position, r.SubPosition,
			string(r.OrganizationalLevel), now, now,
		})
	}

	if _, err := db.CopyFrom(ctx, s.pool, "employees", employeeCopyColumns, rows); err != nil {
		return nil, eris.Wrap(err, "postgres: save employees")
	}
	return saved, nil
}

func (s *PostgresStore) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]model.StoredEmployee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Level != "" {
		query += fmt.Sprintf(` AND organizational_level = $%d`, argIdx)
		args = append(args, string(filter.Level))
		argIdx++
	}
	if filter.Name != "" {
		query += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, argIdx)
		args = append(args, filter.Name)
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d`, argIdx)
	args = append(args, limitOrDefault(filter.Limit))
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list employees")
	}
	defer rows.Close()

	var out []model.StoredEmployee
	for rows.Next() {
		e, err := scanPgEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list employees iterate")
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id string) (*model.StoredEmployee, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	e, err := scanPgEmployee(row)
	if errors.Is(err, ErrNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "employee %s", id)
	}
	return e, err
}

func (s *PostgresStore) DeleteEmployee(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete employee %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "employee %s", id)
	}
	return nil
}

// DeleteSession relies on ON DELETE CASCADE for session_levels.
func (s *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete session %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "session %s", id)
	}
	return nil
}

func (s *PostgresStore) LevelMapping(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, organizational_level FROM employees ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: level mapping")
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, level string
		if err := rows.Scan(&name, &level); err != nil {
			return nil, eris.Wrap(err, "postgres: scan level mapping")
		}
		out[name] = level
	}
	return out, eris.Wrap(rows.Err(), "postgres: level mapping iterate")
}

func (s *PostgresStore) CreateSession(ctx context.Context, name string) (*model.Session, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		id, name, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert session")
	}
	return &model.Session{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, results, created_at, updated_at FROM sessions WHERE id = $1`, id,
	)
	sess, err := scanPgSession(row)
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

func (s *PostgresStore) ListSessions(ctx context.Context, limit int) ([]model.Session, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, results, created_at, updated_at FROM sessions ORDER BY created_at DESC LIMIT $1`,
		limitOrDefault(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list sessions")
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		sess, err := scanPgSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list sessions iterate")
}

func (s *PostgresStore) SetSessionLevel(ctx context.Context, sessionID, name, level string) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO session_levels (session_id, name, level)
		 SELECT id, $2, $3 FROM sessions WHERE id = $1
		 ON CONFLICT (session_id, name) DO UPDATE SET level = EXCLUDED.level`,
		sessionID, name, level,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set session level %s", sessionID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "session %s", sessionID)
	}
	return nil
}

func (s *PostgresStore) SessionLevels(ctx context.Context, sessionID string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, level FROM session_levels WHERE session_id = $1`, sessionID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: session levels %s", sessionID)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, level string
		if err := rows.Scan(&name, &level); err != nil {
			return nil, eris.Wrap(err, "postgres: scan session level")
		}
		out[name] = level
	}
	return out, eris.Wrap(rows.Err(), "postgres: session levels iterate")
}

func (s *PostgresStore) SaveSessionResults(ctx context.Context, sessionID string, results []model.Employee) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal session results")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions SET results = $1, updated_at = $2 WHERE id = $3`,
		resultsJSON, time.Now().UTC(), sessionID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save session results %s", sessionID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "session %s", sessionID)
	}
	return nil
}

func scanPgEmployee(row pgx.Row) (*model.StoredEmployee, error) {
	var e model.StoredEmployee
	var level string
	err := row.Scan(&e.ID, &e.Name, &e.NIP, &e.Gol, &e.Pangkat, &e.Position, &e.SubPosition, &level, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan employee")
	}
	e.OrganizationalLevel = model.OrganizationalCategory(level)
	return &e, nil
}

func scanPgSession(row pgx.Row) (*model.Session, error) {
	var sess model.Session
	var resultsJSON *[]byte
	err := row.Scan(&sess.ID, &sess.Name, &resultsJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan session")
	}
	if resultsJSON != nil && len(*resultsJSON) > 0 {
		if err := json.Unmarshal(*resultsJSON, &sess.Results); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal session results")
		}
	}
	return &sess, nil
}
