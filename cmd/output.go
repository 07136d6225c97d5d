package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/kinerja-cli/internal/export"
	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/report"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return eris.Errorf("unsupported format %q (want one of %v)", format, allowed)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeEmployees renders stored employees in format.
func writeEmployees(w io.Writer, employees []model.StoredEmployee, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, employees)
	case formatCSV:
		records := make([]model.EmployeeRecord, 0, len(employees))
		for _, e := range employees {
			records = append(records, e.EmployeeRecord)
		}
		return export.EmployeesCSV(w, records)
	default:
		formatEmployeesList(w, employees)
		return nil
	}
}

// formatEmployeesList writes a tabular list of employees to w.
func formatEmployeesList(out io.Writer, employees []model.StoredEmployee) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAMA\tGOL\tJABATAN\tLEVEL")
	_, _ = fmt.Fprintln(w, "--\t----\t---\t-------\t-----")
	for _, e := range employees {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(e.ID),
			truncate(e.Name, 30),
			e.Gol,
			truncate(e.Position, 40),
			e.OrganizationalLevel,
		)
	}
	_ = w.Flush()
}

// writeResults renders parsed performance results in format.
func writeResults(w io.Writer, employees []model.Employee, format string) error {
	switch format {
	case formatCSV:
		return export.PerformanceCSV(w, employees)
	case formatJSON:
		return writeJSON(w, employees)
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "NAMA\tLEVEL\tKOMPETENSI\tNILAI")
		for _, e := range employees {
			for _, c := range e.Performance {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", e.Name, e.OrganizationalLevel, c.Name, c.Score)
			}
		}
		return tw.Flush()
	}
}

// writeSummaries renders report lines in format.
func writeSummaries(w io.Writer, summaries []report.Summary, format string) error {
	switch format {
	case formatCSV:
		return export.SummaryCSV(w, summaries)
	case formatJSON:
		return writeJSON(w, summaries)
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "NAMA\tLEVEL\tJENIS\tRATA-RATA\tNILAI AKHIR\tPREDIKAT")
		for _, s := range summaries {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
				s.Name, s.OrganizationalLevel, s.PositionType, s.Average, s.WeightedTotal, s.Rating)
		}
		return tw.Flush()
	}
}

// formatSessionsList writes a tabular list of sessions to w.
func formatSessionsList(out io.Writer, sessions []model.Session) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMPLOYEES\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t---------\t-------")
	for _, s := range sessions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			truncateID(s.ID),
			truncate(s.Name, 40),
			len(s.Results),
			s.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
