package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/roster"
	"github.com/sells-group/kinerja-cli/internal/service"
	"github.com/sells-group/kinerja-cli/internal/store"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Import and inspect employee rosters",
}

// -- roster import --

type rosterDryRun struct {
	Records         []model.EmployeeRecord    `json:"records"`
	Validation      []roster.ValidationResult `json:"validation"`
	Inconsistencies []service.Inconsistency   `json:"inconsistencies"`
}

var rosterImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Parse roster files and store the employees",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		files, _ := cmd.Flags().GetStringSlice("file")
		sheet, _ := cmd.Flags().GetString("sheet")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
			return err
		}

		texts, err := readInputs(ctx, files, sheet, cfg.Import.MaxConcurrency)
		if err != nil {
			return err
		}

		if dryRun {
			svc, err := initService(nil)
			if err != nil {
				return err
			}
			records, err := svc.ParseRosters(ctx, texts)
			if err != nil {
				return eris.Wrap(err, "roster import")
			}
			out := rosterDryRun{Records: records, Inconsistencies: svc.Inconsistencies(records)}
			for _, text := range texts {
				out.Validation = append(out.Validation, roster.Validate(text))
			}
			return writeJSON(os.Stdout, out)
		}

		return withService(ctx, func(svc *service.Service, _ store.Store) error {
			saved, err := svc.ImportRoster(ctx, texts...)
			if err != nil {
				return eris.Wrap(err, "roster import")
			}
			zap.L().Info("roster import complete",
				zap.Int("files", len(files)),
				zap.Int("employees", len(saved)),
			)
			return writeEmployees(os.Stdout, saved, format)
		})
	},
}

// -- roster validate --

var rosterValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a roster file without importing it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		sheet, _ := cmd.Flags().GetString("sheet")

		text, err := readInput(file, sheet)
		if err != nil {
			return err
		}

		res := roster.Validate(text)
		for _, msg := range res.Errors {
			fmt.Fprintln(os.Stderr, msg)
		}
		if !res.Valid {
			return eris.Errorf("roster validate: %d problem(s) found", len(res.Errors))
		}
		fmt.Fprintln(os.Stderr, "Roster valid.")
		return nil
	},
}

// -- roster list --

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored employees",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		level, _ := cmd.Flags().GetString("level")
		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
			return err
		}

		filter := store.EmployeeFilter{Name: name, Limit: limit}
		if level != "" {
			c, ok := model.ParseCategory(level)
			if !ok {
				return eris.Errorf("roster list: unknown level %q", level)
			}
			filter.Level = c
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		employees, err := st.ListEmployees(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "roster list")
		}
		if len(employees) == 0 && format == formatTable {
			fmt.Fprintln(os.Stderr, "No employees found.")
			return nil
		}
		return writeEmployees(os.Stdout, employees, format)
	},
}

// -- roster delete --

var rosterDeleteCmd = &cobra.Command{
	Use:   "delete <employee-id>",
	Short: "Delete a stored employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteEmployee(ctx, args[0]); err != nil {
			return eris.Wrap(err, "roster delete")
		}
		zap.L().Info("employee deleted", zap.String("id", args[0]))
		return nil
	},
}

func init() {
	rosterImportCmd.Flags().StringSlice("file", nil, "roster file (.txt, .csv, .tsv or .xlsx; - for stdin), repeatable")
	rosterImportCmd.Flags().String("sheet", "", "worksheet name for .xlsx files (default first sheet)")
	rosterImportCmd.Flags().Bool("dry-run", false, "parse and validate without storing")
	rosterImportCmd.Flags().String("format", formatTable, "output format (table, json, csv)")
	_ = rosterImportCmd.MarkFlagRequired("file")

	rosterValidateCmd.Flags().String("file", "", "roster file (- for stdin)")
	rosterValidateCmd.Flags().String("sheet", "", "worksheet name for .xlsx files")
	_ = rosterValidateCmd.MarkFlagRequired("file")

	rosterListCmd.Flags().String("level", "", "filter by organizational level (Eselon II, Eselon III, Eselon IV, Staff, Other)")
	rosterListCmd.Flags().String("name", "", "filter by name substring")
	rosterListCmd.Flags().Int("limit", 100, "max number of employees to display")
	rosterListCmd.Flags().String("format", formatTable, "output format (table, json, csv)")

	rosterCmd.AddCommand(rosterImportCmd)
	rosterCmd.AddCommand(rosterValidateCmd)
	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterDeleteCmd)
	rootCmd.AddCommand(rosterCmd)
}
