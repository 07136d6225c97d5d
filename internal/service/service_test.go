package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/report"
	"github.com/sells-group/kinerja-cli/internal/store"
)

const rosterA = "Siti\t-\tIII/c\tPenata\tKepala Seksi Rehabilitasi\tBidang Rehsos\n"

const rosterB = "No\tNama\tNIP\tGol\tPangkat\tJabatan\tSub Jabatan\n" +
	"1\tBudi\t-\tIV/a\tPembina\tAnalis Kebijakan\tSekretariat\n"

const scores = "Integritas [Siti]\tIntegritas [Budi]\tIntegritas [Andi]\tIntegritas [Rina]\n" +
	"80\t90\t70\t60\n" +
	"90\t90\t80\t70\n"

func newTestService(t *testing.T, opts Options) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, opts), st
}

func TestPreviewRoster(t *testing.T) {
	svc := New(nil, Options{})

	p, err := svc.PreviewRoster(rosterA + "Andi\t-\tV/z\n")
	require.NoError(t, err)
	require.Len(t, p.Records, 2)
	assert.Equal(t, model.CategoryEselonIV, p.Records[0].OrganizationalLevel)
	assert.False(t, p.Validation.Valid)
	assert.Equal(t, []string{"Baris 2: Format golongan tidak valid (V/z)"}, p.Validation.Errors)

	_, err = svc.PreviewRoster("")
	assert.Error(t, err)
}

func TestParseRosters_KeepsInputOrder(t *testing.T) {
	svc := New(nil, Options{Concurrency: 4})

	texts := []string{rosterB, rosterA, rosterB}
	records, err := svc.ParseRosters(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Budi", "Siti", "Budi"}, []string{records[0].Name, records[1].Name, records[2].Name})
}

func TestParseRosters_Error(t *testing.T) {
	svc := New(nil, Options{})

	_, err := svc.ParseRosters(context.Background(), []string{rosterA, ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse roster 2")
}

func TestImportRoster(t *testing.T) {
	svc, st := newTestService(t, Options{})
	ctx := context.Background()

	saved, err := svc.ImportRoster(ctx, rosterA, rosterB)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	levels, err := st.LevelMapping(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Siti": "Eselon IV", "Budi": "Staff"}, levels)

	_, err = svc.ImportRoster(ctx, "No\tNama\tNIP\tGol\n")
	assert.Error(t, err, "header-only roster has no employees")
}

func TestImportRoster_NoStore(t *testing.T) {
	_, err := New(nil, Options{}).ImportRoster(context.Background(), rosterA)
	assert.Error(t, err)
}

func TestInconsistencies(t *testing.T) {
	svc := New(nil, Options{})
	records, err := svc.ParseRosters(context.Background(), []string{rosterA, rosterB})
	require.NoError(t, err)

	got := svc.Inconsistencies(records)
	require.Len(t, got, 1)
	assert.Equal(t, "Budi", got[0].Name)
	assert.Equal(t, model.SeverityMedium, got[0].Warning.Severity)
	assert.Equal(t, model.CategoryEselonIII, got[0].Warning.GolonganSuggestedLevel)
}

func TestImportPerformance_LevelSources(t *testing.T) {
	svc, _ := newTestService(t, Options{StaticLevels: map[string]string{"Andi": "Eselon III", "Siti": "Staff"}})
	ctx := context.Background()

	_, err := svc.ImportRoster(ctx, rosterA, rosterB)
	require.NoError(t, err)

	sess, err := svc.ImportPerformance(ctx, "", "Triwulan I", scores)
	require.NoError(t, err)
	assert.Equal(t, "Triwulan I", sess.Name)
	require.Len(t, sess.Results, 4)

	byName := map[string]model.Employee{}
	for _, e := range sess.Results {
		byName[e.Name] = e
	}
	assert.Equal(t, model.CategoryEselonIV, byName["Siti"].OrganizationalLevel, "stored roster beats static file")
	assert.Equal(t, model.CategoryStaff, byName["Budi"].OrganizationalLevel)
	assert.Equal(t, model.CategoryEselonIII, byName["Andi"].OrganizationalLevel)
	assert.Equal(t, model.CategoryStaff, byName["Rina"].OrganizationalLevel)
	assert.Equal(t, 85.0, byName["Siti"].Performance[0].Score)

	// An in-session override applies on the next import into the session.
	require.NoError(t, svc.SetLevel(ctx, sess.ID, "Budi", "eselon 2"))
	sess, err = svc.ImportPerformance(ctx, sess.ID, "", scores)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Budi": "Eselon II"}, sess.Levels)
	for _, e := range sess.Results {
		if e.Name == "Budi" {
			assert.Equal(t, model.CategoryEselonII, e.OrganizationalLevel)
		}
	}
}

func TestImportPerformance_Errors(t *testing.T) {
	svc, st := newTestService(t, Options{})
	ctx := context.Background()

	_, err := svc.ImportPerformance(ctx, "", " ", scores)
	assert.Error(t, err, "new session needs a name")

	_, err = svc.ImportPerformance(ctx, "missing", "", scores)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, err = svc.ImportPerformance(ctx, "", "Kosong", "")
	assert.Error(t, err)

	sessions, err := st.ListSessions(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, sessions, "failed parses leave no session behind")
}

// failingResults is a store whose result writes always fail.
type failingResults struct {
	store.Store
}

func (failingResults) SaveSessionResults(context.Context, string, []model.Employee) error {
	return errors.New("disk full")
}

func TestImportPerformance_SaveFailureDiscardsNewSession(t *testing.T) {
	_, st := newTestService(t, Options{})
	svc := New(failingResults{st}, Options{})
	ctx := context.Background()

	_, err := svc.ImportPerformance(ctx, "", "Triwulan I", scores)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	sessions, err := st.ListSessions(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestImportPerformance_SaveFailureKeepsExistingSession(t *testing.T) {
	_, st := newTestService(t, Options{})
	ctx := context.Background()
	sess, err := st.CreateSession(ctx, "Triwulan I")
	require.NoError(t, err)

	_, err = New(failingResults{st}, Options{}).ImportPerformance(ctx, sess.ID, "", scores)
	require.Error(t, err)

	got, err := st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Triwulan I", got.Name)
}

func TestSetLevel_Errors(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	assert.Error(t, svc.SetLevel(ctx, "s1", "", "Staff"))
	assert.Error(t, svc.SetLevel(ctx, "s1", "Budi", "Direktur"))
	assert.True(t, errors.Is(svc.SetLevel(ctx, "missing", "Budi", "Staff"), store.ErrNotFound))
}

func TestReport(t *testing.T) {
	weights := report.Weights{Staff: map[string]float64{"Integritas": 60, "Disiplin": 40}}
	svc, _ := newTestService(t, Options{Weights: weights})
	ctx := context.Background()

	sess, err := svc.ImportPerformance(ctx, "", "Triwulan II", "Integritas [Budi]\tDisiplin [Budi]\n90\t70\n")
	require.NoError(t, err)

	got, err := svc.Report(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Budi", got[0].Name)
	assert.Equal(t, 80.0, got[0].Average)
	assert.Equal(t, 82.0, got[0].WeightedTotal)
	assert.Equal(t, "Baik", got[0].Rating)

	_, err = svc.Report(ctx, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestResolve(t *testing.T) {
	res := New(nil, Options{}).Resolve("Staff ASN", "Sekretariat", "IV/e")
	assert.Equal(t, model.CategoryEselonII, res.Category)
	require.NotNil(t, res.Warning)
	assert.Equal(t, model.SeverityHigh, res.Warning.Severity)
}
