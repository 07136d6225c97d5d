package model

import "time"

// Golongan is a parsed civil-service rank code such as IV/c.
type Golongan struct {
	Level       string `json:"level"`        // I, II, III or IV
	Grade       string `json:"grade"`        // a..e
	Formatted   string `json:"formatted"`    // "<level>/<grade>"
	DisplayName string `json:"display_name"` // pangkat title, e.g. "Pembina Utama Muda"
}

// Employee status labels derived from the golongan format.
const (
	StatusASN    = "ASN"
	StatusNonASN = "Non-ASN"
)

// EmployeeRecord is one roster line after import.
type EmployeeRecord struct {
	Name                string                 `json:"name" csv:"nama"`
	NIP                 string                 `json:"nip" csv:"nip"`
	Gol                 string                 `json:"gol" csv:"gol"`
	Pangkat             string                 `json:"pangkat" csv:"pangkat"`
	Position            string                 `json:"position" csv:"jabatan"`
	SubPosition         string                 `json:"sub_position" csv:"sub_jabatan"`
	OrganizationalLevel OrganizationalCategory `json:"organizational_level" csv:"level_organisasi"`
}

// StoredEmployee is an EmployeeRecord as persisted by the store.
type StoredEmployee struct {
	ID string `json:"id"`
	EmployeeRecord
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompetencyScore is the mean of every observation for one competency.
type CompetencyScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Employee is one person in a performance import.
type Employee struct {
	Name                string                 `json:"name"`
	OrganizationalLevel OrganizationalCategory `json:"organizational_level"`
	Performance         []CompetencyScore      `json:"performance"`
}

// Severity grades a DataInconsistencyWarning.
type Severity string

const (
	SeverityLow    Severity = "low" // reserved; not produced by current thresholds
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DataInconsistencyWarning records a sharp disagreement between the
// position title and the golongan of one employee.
type DataInconsistencyWarning struct {
	Golongan               string                 `json:"golongan"`
	PositionLevel          OrganizationalCategory `json:"position_level"`
	GolonganSuggestedLevel OrganizationalCategory `json:"golongan_suggested_level"`
	Severity               Severity               `json:"severity"`
}

// Session is one performance import, with its in-session level overrides.
type Session struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Levels    map[string]string `json:"levels,omitempty"`
	Results   []Employee        `json:"results,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
