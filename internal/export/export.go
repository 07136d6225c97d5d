// Package export writes rosters and performance results as CSV.
package export

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/kinerja-cli/internal/golongan"
	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/report"
)

type employeeRow struct {
	Nama            string `csv:"nama"`
	NIP             string `csv:"nip"`
	Gol             string `csv:"gol"`
	Pangkat         string `csv:"pangkat"`
	Jabatan         string `csv:"jabatan"`
	SubJabatan      string `csv:"sub_jabatan"`
	LevelOrganisasi string `csv:"level_organisasi"`
	Status          string `csv:"status"`
}

type performanceRow struct {
	Nama            string `csv:"nama"`
	LevelOrganisasi string `csv:"level_organisasi"`
	Kompetensi      string `csv:"kompetensi"`
	Nilai           string `csv:"nilai"`
}

type summaryRow struct {
	Nama            string `csv:"nama"`
	LevelOrganisasi string `csv:"level_organisasi"`
	JenisJabatan    string `csv:"jenis_jabatan"`
	RataRata        string `csv:"rata_rata"`
	NilaiAkhir      string `csv:"nilai_akhir"`
	Predikat        string `csv:"predikat"`
}

// EmployeesCSV writes one row per roster record with its ASN status.
func EmployeesCSV(w io.Writer, records []model.EmployeeRecord) error {
	rows := make([]employeeRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, employeeRow{
			Nama:            r.Name,
			NIP:             r.NIP,
			Gol:             r.Gol,
			Pangkat:         r.Pangkat,
			Jabatan:         r.Position,
			SubJabatan:      r.SubPosition,
			LevelOrganisasi: string(r.OrganizationalLevel),
			Status:          golongan.EmployeeStatus(r.Gol),
		})
	}
	return marshal(w, &rows, "employees")
}

// PerformanceCSV writes one row per employee and competency.
func PerformanceCSV(w io.Writer, employees []model.Employee) error {
	var rows []performanceRow
	for _, e := range employees {
		for _, c := range e.Performance {
			rows = append(rows, performanceRow{
				Nama:            e.Name,
				LevelOrganisasi: string(e.OrganizationalLevel),
				Kompetensi:      c.Name,
				Nilai:           fixed(c.Score),
			})
		}
	}
	if rows == nil {
		rows = []performanceRow{}
	}
	return marshal(w, &rows, "performance")
}

// SummaryCSV writes one row per report summary.
func SummaryCSV(w io.Writer, summaries []report.Summary) error {
	rows := make([]summaryRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, summaryRow{
			Nama:            s.Name,
			LevelOrganisasi: string(s.OrganizationalLevel),
			JenisJabatan:    string(s.PositionType),
			RataRata:        fixed(s.Average),
			NilaiAkhir:      fixed(s.WeightedTotal),
			Predikat:        s.Rating,
		})
	}
	return marshal(w, &rows, "summary")
}

func marshal(w io.Writer, rows any, what string) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return eris.Wrapf(err, "export: write %s csv", what)
	}
	return nil
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
