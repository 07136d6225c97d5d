package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/kinerja-cli/internal/service"
	"github.com/sells-group/kinerja-cli/internal/store"
)

var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Import competency score sheets into sessions",
}

// -- perf import --

var perfImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Parse a score sheet into a new or existing session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		file, _ := cmd.Flags().GetString("file")
		sheet, _ := cmd.Flags().GetString("sheet")
		name, _ := cmd.Flags().GetString("session")
		sessionID, _ := cmd.Flags().GetString("session-id")
		output, _ := cmd.Flags().GetString("output")
		if err := checkFormat(output, formatTable, formatJSON, formatCSV); err != nil {
			return err
		}
		if name == "" && sessionID == "" {
			return eris.New("perf import: --session or --session-id is required")
		}

		text, err := readInput(file, sheet)
		if err != nil {
			return err
		}

		return withService(ctx, func(svc *service.Service, _ store.Store) error {
			sess, err := svc.ImportPerformance(ctx, sessionID, name, text)
			if err != nil {
				return eris.Wrap(err, "perf import")
			}
			zap.L().Info("perf import complete",
				zap.String("session", sess.ID),
				zap.Int("employees", len(sess.Results)),
			)
			fmt.Fprintf(os.Stderr, "Session %s (%s)\n", sess.ID, sess.Name)
			return writeResults(os.Stdout, sess.Results, output)
		})
	},
}

// -- perf report --

var perfReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a session with weighted totals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sessionID, _ := cmd.Flags().GetString("session")
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
			return err
		}

		return withService(ctx, func(svc *service.Service, _ store.Store) error {
			summaries, err := svc.Report(ctx, sessionID)
			if err != nil {
				return eris.Wrap(err, "perf report")
			}
			return writeSummaries(os.Stdout, summaries, format)
		})
	},
}

// -- perf set-level --

var perfSetLevelCmd = &cobra.Command{
	Use:   "set-level",
	Short: "Override the organizational level of one employee in a session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sessionID, _ := cmd.Flags().GetString("session")
		name, _ := cmd.Flags().GetString("name")
		level, _ := cmd.Flags().GetString("level")

		return withService(ctx, func(svc *service.Service, _ store.Store) error {
			if err := svc.SetLevel(ctx, sessionID, name, level); err != nil {
				return eris.Wrap(err, "perf set-level")
			}
			zap.L().Info("session level set",
				zap.String("session", sessionID),
				zap.String("name", name),
				zap.String("level", level),
			)
			return nil
		})
	},
}

// -- perf sessions --

var perfSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List import sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sessions, err := st.ListSessions(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "perf sessions")
		}
		if len(sessions) == 0 {
			fmt.Fprintln(os.Stderr, "No sessions found.")
			return nil
		}
		formatSessionsList(os.Stdout, sessions)
		return nil
	},
}

// -- perf show --

var perfShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session with its levels and results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sess, err := st.GetSession(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "perf show")
		}
		return writeJSON(os.Stdout, sess)
	},
}

func init() {
	perfImportCmd.Flags().String("file", "", "score sheet (.txt, .csv, .tsv or .xlsx; - for stdin)")
	perfImportCmd.Flags().String("sheet", "", "worksheet name for .xlsx files")
	perfImportCmd.Flags().String("session", "", "name of a new session")
	perfImportCmd.Flags().String("session-id", "", "id of an existing session to re-import into")
	perfImportCmd.Flags().String("output", formatTable, "output format (table, json, csv)")
	_ = perfImportCmd.MarkFlagRequired("file")

	perfReportCmd.Flags().String("session", "", "session id")
	perfReportCmd.Flags().String("format", formatTable, "output format (table, json, csv)")
	_ = perfReportCmd.MarkFlagRequired("session")

	perfSetLevelCmd.Flags().String("session", "", "session id")
	perfSetLevelCmd.Flags().String("name", "", "employee name as it appears in the score sheet")
	perfSetLevelCmd.Flags().String("level", "", "organizational level (Eselon II, Eselon III, Eselon IV, Staff, Other)")
	_ = perfSetLevelCmd.MarkFlagRequired("session")
	_ = perfSetLevelCmd.MarkFlagRequired("name")
	_ = perfSetLevelCmd.MarkFlagRequired("level")

	perfSessionsCmd.Flags().Int("limit", 20, "max number of sessions to display")

	perfCmd.AddCommand(perfImportCmd)
	perfCmd.AddCommand(perfReportCmd)
	perfCmd.AddCommand(perfSetLevelCmd)
	perfCmd.AddCommand(perfSessionsCmd)
	perfCmd.AddCommand(perfShowCmd)
	rootCmd.AddCommand(perfCmd)
}
