package orglevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/kinerja-cli/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Plt. Kepala Dinas Sosial", "pelaksana tugas kepala dinas sosial"},
		{"KASUBBAG Umum", "kepala sub bagian umum"},
		{"Kabid  Rehabilitasi", "kepala bidang rehabilitasi"},
		{"Kep. UPT Panti", "kepala unit pelaksana teknis panti"},
		{"Séksi Pelayanan", "seksi pelayanan"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "input: %q", tt.input)
	}
}

func TestClassifyPosition(t *testing.T) {
	tests := []struct {
		position, sub string
		want          model.OrganizationalCategory
	}{
		{"Kepala Bagian", "Umum", model.CategoryEselonIV},
		{"Kepala Bagian", "Hukum", model.CategoryEselonIII},
		{"Kepala Sub Bagian", "STAFF Perencanaan", model.CategoryStaff},
		{"Kepala Sub Bagian", "Perencanaan", model.CategoryEselonIV},
		{"Plt. Kepala Dinas Sosial", "Provinsi Kalimantan Selatan", model.CategoryEselonII},
		{"Sekretaris Dinas", "", model.CategoryEselonIII},
		{"Kabid Perlindungan Sosial", "", model.CategoryEselonIII},
		{"Kasi Rehabilitasi", "", model.CategoryEselonIV},
		{"Inspektur", "", model.CategoryEselonII},
		{"Inspektur Pembantu Wilayah I", "", model.CategoryEselonIII},
		{"Camat", "Banjarbaru Utara", model.CategoryEselonIII},
		{"Sekretaris Camat", "", model.CategoryEselonIV},
		{"Analis Kebijakan", "", model.CategoryStaff},
		{"Pengadministrasi Umum", "", model.CategoryStaff},
		{"Pengemudi", "", model.CategoryStaff},
		{"Unknown", "Bidang Sosial", model.CategoryOther},
		{"Jabatan tidak diketahui", "STAFF", model.CategoryOther},
		{"Koordinator", "Bidang Sosial", model.CategoryStaff},
		{"Koordinator", "Wilayah Selatan", model.CategoryOther},
		{"", "", model.CategoryOther},
	}
	for _, tt := range tests {
		got := ClassifyPosition(tt.position, tt.sub)
		assert.Equal(t, tt.want, got, "position: %q sub: %q", tt.position, tt.sub)
	}
}

func TestPatternTables(t *testing.T) {
	for _, f := range Families {
		assert.NotEmpty(t, f.Patterns, "family %s", f.Category)
		assert.Equal(t, f.Patterns, PatternsFor(f.Category))
		for _, p := range f.Patterns {
			assert.NotEmpty(t, p.Name)
			require.NotNil(t, p.Include, p.Name)
		}
	}
	assert.Nil(t, PatternsFor(model.CategoryOther))
}

func TestEselonIIIPatterns_KepalaBagianExclusion(t *testing.T) {
	var kabag Pattern
	for _, p := range EselonIIIPatterns {
		if p.Name == "kepala bagian" {
			kabag = p
		}
	}
	require.NotNil(t, kabag.Include)
	assert.True(t, kabag.Match("kepala bagian hukum"))
	assert.False(t, kabag.Match("kepala bagian umum"))
	assert.False(t, kabag.Match("kepala bagian keuangan"))
	assert.False(t, kabag.Match("kepala bagian kepegawaian"))
}

func TestGolonganCategory(t *testing.T) {
	tests := []struct {
		input string
		want  model.OrganizationalCategory
		ok    bool
	}{
		{"IV/c", model.CategoryEselonII, true},
		{"IV/d", model.CategoryEselonII, true},
		{"4e", model.CategoryEselonII, true},
		{"IV/a", model.CategoryEselonIII, true},
		{"IV-b", model.CategoryEselonIII, true},
		{"III/d", model.CategoryEselonIII, true},
		{"III/c", model.CategoryEselonIV, true},
		{"3b", model.CategoryEselonIV, true},
		{"III/a", model.CategoryStaff, true},
		{"II/d", model.CategoryStaff, true},
		{"honorer", model.CategoryStaff, true},
		{"", "", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		got, ok := GolonganCategory(tt.input)
		assert.Equal(t, tt.ok, ok, "input: %q", tt.input)
		assert.Equal(t, tt.want, got, "input: %q", tt.input)
	}
}

func TestCheckConsistency(t *testing.T) {
	assert.Nil(t, CheckConsistency("IV/c", model.CategoryEselonII, model.CategoryEselonII))
	assert.Nil(t, CheckConsistency("IV/a", model.CategoryEselonIV, model.CategoryEselonIII))
	assert.Nil(t, CheckConsistency("III/a", model.CategoryEselonII, model.CategoryStaff))
	assert.Nil(t, CheckConsistency("IV/e", model.CategoryOther, model.CategoryEselonII))
	assert.Nil(t, CheckConsistency("", model.CategoryStaff, ""))

	w := CheckConsistency("IV/a", model.CategoryStaff, model.CategoryEselonIII)
	require.NotNil(t, w)
	assert.Equal(t, model.SeverityMedium, w.Severity)

	w = CheckConsistency("IV/e", model.CategoryStaff, model.CategoryEselonII)
	require.NotNil(t, w)
	assert.Equal(t, model.SeverityHigh, w.Severity)
	assert.Equal(t, "IV/e", w.Golongan)
	assert.Equal(t, model.CategoryStaff, w.PositionLevel)
	assert.Equal(t, model.CategoryEselonII, w.GolonganSuggestedLevel)
}

func newObservedResolver() (*Resolver, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewResolver(zap.New(core)), logs
}

func TestResolve_RosterSampleIsConsistent(t *testing.T) {
	r, logs := newObservedResolver()

	res := r.Resolve("Plt. Kepala Dinas Sosial", "Provinsi Kalimantan Selatan", "IV/c")

	assert.Equal(t, model.CategoryEselonII, res.Category)
	assert.Equal(t, model.CategoryEselonII, res.PositionInference)
	assert.Equal(t, model.CategoryEselonII, res.GolonganInference)
	assert.Nil(t, res.Warning)
	assert.Equal(t, 0, logs.Len())
}

func TestResolve_HighSeverityInconsistency(t *testing.T) {
	r, logs := newObservedResolver()

	res := r.Resolve("Staff ASN Sekretariat", "", "IV/e")

	assert.Equal(t, model.CategoryEselonII, res.Category)
	assert.Equal(t, model.CategoryStaff, res.PositionInference)
	require.NotNil(t, res.Warning)
	assert.Equal(t, model.SeverityHigh, res.Warning.Severity)

	entries := logs.FilterMessage("orglevel: golongan disagrees with position").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "high", entries[0].ContextMap()["severity"])
}

func TestResolve_MediumSeverityKeepsPosition(t *testing.T) {
	r, logs := newObservedResolver()

	res := r.Resolve("Analis Kebijakan", "", "IV/a")

	assert.Equal(t, model.CategoryStaff, res.Category)
	require.NotNil(t, res.Warning)
	assert.Equal(t, model.SeverityMedium, res.Warning.Severity)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestResolve_Precedence(t *testing.T) {
	r := NewResolver(nil)
	tests := []struct {
		position, sub, gol string
		want               model.OrganizationalCategory
		rule               string
	}{
		{"Unknown", "", "IV/e", model.CategoryOther, "unknown position"},
		{"Kepala Dinas", "STAFF Umum", "IV/c", model.CategoryStaff, "staff sub-position"},
		{"Kepala Seksi", "", "II/a", model.CategoryEselonIV, "leadership position"},
		{"Koordinator", "", "IV/a", model.CategoryEselonIII, "golongan over generic position"},
		{"Analis", "", "III/b", model.CategoryStaff, "position"},
		{"Analis", "", "", model.CategoryStaff, "position"},
		{"Analis", "", "bukan golongan", model.CategoryStaff, "position"},
		{"Koordinator", "", "", model.CategoryOther, ""},
	}
	for _, tt := range tests {
		res := r.Resolve(tt.position, tt.sub, tt.gol)
		assert.Equal(t, tt.want, res.Category, "%q/%q/%q", tt.position, tt.sub, tt.gol)
		assert.Equal(t, tt.rule, res.Rule, "%q/%q/%q", tt.position, tt.sub, tt.gol)
	}
}

func TestResolve_UnknownNeverWarns(t *testing.T) {
	r, logs := newObservedResolver()
	res := r.Resolve("tidak diketahui", "", "IV/e")
	assert.Equal(t, model.CategoryOther, res.Category)
	assert.Nil(t, res.Warning)
	assert.Equal(t, 0, logs.Len())
}

func TestEvaluate_NoRules(t *testing.T) {
	c, name := Evaluate[int](nil, 1)
	assert.Equal(t, model.CategoryOther, c)
	assert.Empty(t, name)
}
