package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/kinerja-cli/internal/model"
)

// ErrNotFound is wrapped by lookups and deletes that match no row.
var ErrNotFound = eris.New("store: not found")

// EmployeeFilter specifies criteria for listing employees.
type EmployeeFilter struct {
	Level  model.OrganizationalCategory `json:"level,omitempty"`
	Name   string                       `json:"name,omitempty"` // case-insensitive substring
	Limit  int                          `json:"limit,omitempty"`
	Offset int                          `json:"offset,omitempty"`
}

// Store defines the persistence interface for rosters and performance
// import sessions.
type Store interface {
	// Employees
	SaveEmployees(ctx context.Context, records []model.EmployeeRecord) ([]model.StoredEmployee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]model.StoredEmployee, error)
	GetEmployee(ctx context.Context, id string) (*model.StoredEmployee, error)
	DeleteEmployee(ctx context.Context, id string) error
	// LevelMapping returns employee name to stored organizational level.
	// Later imports of the same name win.
	LevelMapping(ctx context.Context) (map[string]string, error)

	// Sessions
	CreateSession(ctx context.Context, name string) (*model.Session, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	ListSessions(ctx context.Context, limit int) ([]model.Session, error)
	SetSessionLevel(ctx context.Context, sessionID, name, level string) error
	SessionLevels(ctx context.Context, sessionID string) (map[string]string, error)
	SaveSessionResults(ctx context.Context, sessionID string, results []model.Employee) error
	// DeleteSession removes a session with its level overrides.
	DeleteSession(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultLimit = 500

func limitOrDefault(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return n
}
