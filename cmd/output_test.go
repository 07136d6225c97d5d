package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/report"
)

func sampleStored() []model.StoredEmployee {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	return []model.StoredEmployee{
		{
			ID: "abc12345-6789-0000-0000-000000000000",
			EmployeeRecord: model.EmployeeRecord{
				Name: "Budi", NIP: "-", Gol: "III/c", Pangkat: "Penata",
				Position: "Kepala Seksi Rehabilitasi", SubPosition: "Bidang Rehsos",
				OrganizationalLevel: model.CategoryEselonIV,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func TestFormatEmployeesList(t *testing.T) {
	var buf bytes.Buffer
	formatEmployeesList(&buf, sampleStored())

	output := buf.String()
	assert.Contains(t, output, "NAMA")
	assert.Contains(t, output, "LEVEL")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "Kepala Seksi Rehabilitasi")
	assert.Contains(t, output, "Eselon IV")
}

func TestWriteEmployees_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEmployees(&buf, sampleStored(), formatCSV))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "nama")
	assert.Contains(t, string(lines[1]), "Budi")
	assert.Contains(t, string(lines[1]), "ASN")
}

func TestWriteEmployees_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEmployees(&buf, sampleStored(), formatJSON))
	assert.Contains(t, buf.String(), `"organizational_level": "Eselon IV"`)
}

func TestWriteSummaries_Table(t *testing.T) {
	var buf bytes.Buffer
	summaries := []report.Summary{{
		Name: "Siti", OrganizationalLevel: model.CategoryStaff, PositionType: model.PositionTypeStaff,
		Average: 80, WeightedTotal: 82.5, Rating: "Baik",
	}}
	require.NoError(t, writeSummaries(&buf, summaries, formatTable))

	output := buf.String()
	assert.Contains(t, output, "PREDIKAT")
	assert.Contains(t, output, "82.50")
	assert.Contains(t, output, "Baik")
}

func TestWriteResults_Table(t *testing.T) {
	var buf bytes.Buffer
	employees := []model.Employee{{
		Name: "Siti", OrganizationalLevel: model.CategoryStaff,
		Performance: []model.CompetencyScore{{Name: "Integritas", Score: 87.5}},
	}}
	require.NoError(t, writeResults(&buf, employees, formatTable))
	assert.Contains(t, buf.String(), "Integritas")
	assert.Contains(t, buf.String(), "87.50")
}

func TestFormatSessionsList(t *testing.T) {
	var buf bytes.Buffer
	formatSessionsList(&buf, []model.Session{{
		ID:        "def12345-6789-0000-0000-000000000000",
		Name:      "Triwulan I",
		Results:   []model.Employee{{Name: "Budi"}},
		CreatedAt: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}})

	output := buf.String()
	assert.Contains(t, output, "def12345")
	assert.Contains(t, output, "Triwulan I")
	assert.Contains(t, output, "2025-06-15 10:30")
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("csv", formatTable, formatCSV))
	assert.Error(t, checkFormat("xml", formatTable, formatCSV))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Kepala ...", truncate("Kepala Dinas Sosial", 10))
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "abc", truncateID("abc"))
}

func TestReadInput_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.txt")
	require.NoError(t, os.WriteFile(path, []byte("Budi\t-\tIII/c\n"), 0o600))

	text, err := readInput(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Budi\t-\tIII/c\n", text)

	_, err = readInput(filepath.Join(t.TempDir(), "missing.txt"), "")
	assert.Error(t, err)
}

func TestReadInput_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Pegawai")
	require.NoError(t, err)
	row := sheet.AddRow()
	for _, v := range []string{"Budi", "-", "III/c"} {
		row.AddCell().SetString(v)
	}
	require.NoError(t, f.Save(path))

	text, err := readInput(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Budi\t-\tIII/c\n", text)

	_, err = readInput(path, "Missing")
	assert.Error(t, err)
}

func TestReadInputs_KeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
		paths = append(paths, p)
	}

	texts, err := readInputs(t.Context(), paths, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, texts)
}
