package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/kinerja-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS employees`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveEmployees_Copy(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"employees"}, employeeCopyColumns).WillReturnResult(3)

	saved, err := s.SaveEmployees(context.Background(), sampleRecords())
	require.NoError(t, err)
	require.Len(t, saved, 3)
	for _, e := range saved {
		assert.NotEmpty(t, e.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveEmployees_CopyError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"employees"}, employeeCopyColumns).
		WillReturnError(errors.New("permission denied"))

	_, err := s.SaveEmployees(context.Background(), sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save employees")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListEmployees_Filter(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "name", "nip", "gol", "pangkat", "position", "sub_position", "organizational_level", "created_at", "updated_at"}).
		AddRow("e1", "Budi", "-", "III/c", "Penata", "Kepala Seksi", "-", "Eselon IV", now, now)
	mock.ExpectQuery(`FROM employees WHERE true AND organizational_level = \$1 AND name ILIKE .* LIMIT \$3 OFFSET \$4`).
		WithArgs("Eselon IV", "bud", 10, 20).
		WillReturnRows(rows)

	got, err := s.ListEmployees(context.Background(), EmployeeFilter{Level: model.CategoryEselonIV, Name: "bud", Limit: 10, Offset: 20})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Budi", got[0].Name)
	assert.Equal(t, model.CategoryEselonIV, got[0].OrganizationalLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetEmployee_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM employees WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetEmployee(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteEmployee_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM employees WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteEmployee(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LevelMapping(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT name, organizational_level FROM employees`).
		WillReturnRows(pgxmock.NewRows([]string{"name", "organizational_level"}).
			AddRow("Budi", "Eselon II").
			AddRow("Budi", "Eselon III").
			AddRow("Siti", "Staff"))

	m, err := s.LevelMapping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Budi": "Eselon III", "Siti": "Staff"}, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateSession(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(pgxmock.AnyArg(), "Triwulan I", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	sess, err := s.CreateSession(context.Background(), "Triwulan I")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "Triwulan I", sess.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetSessionLevel(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`(?s)INSERT INTO session_levels.*ON CONFLICT`).
		WithArgs("s1", "Budi", "Eselon III").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO session_levels`).
		WithArgs("missing", "Budi", "Staff").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, s.SetSessionLevel(context.Background(), "s1", "Budi", "Eselon III"))
	err := s.SetSessionLevel(context.Background(), "missing", "Budi", "Staff")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SessionLevels(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT name, level FROM session_levels WHERE session_id = \$1`).
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "level"}).AddRow("Budi", "Eselon IV"))

	levels, err := s.SessionLevels(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Budi": "Eselon IV"}, levels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveSessionResults(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE sessions SET results = \$1`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "s1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE sessions SET results = \$1`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	results := []model.Employee{{Name: "Budi", OrganizationalLevel: model.CategoryStaff}}
	require.NoError(t, s.SaveSessionResults(context.Background(), "s1", results))
	err := s.SaveSessionResults(context.Background(), "missing", results)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteSession(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs("s1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.DeleteSession(context.Background(), "s1"))
	err := s.DeleteSession(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetSession_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM sessions WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetSession(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close(t *testing.T) {
	closed := false
	s := &PostgresStore{closeFn: func() { closed = true }}
	require.NoError(t, s.Close())
	assert.True(t, closed)
}
