package main

import (
	"os"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Resolve the organizational level of one employee",
	Long:  "Classifies a position title, checks it against the golongan and prints the resolution with any inconsistency warning.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		position, _ := cmd.Flags().GetString("position")
		sub, _ := cmd.Flags().GetString("sub")
		gol, _ := cmd.Flags().GetString("gol")

		svc, err := initService(nil)
		if err != nil {
			return err
		}
		return writeJSON(os.Stdout, svc.Resolve(position, sub, gol))
	},
}

func init() {
	classifyCmd.Flags().String("position", "", "position title (jabatan)")
	classifyCmd.Flags().String("sub", "", "sub-position or unit (sub jabatan)")
	classifyCmd.Flags().String("gol", "", "golongan, e.g. III/c")
	_ = classifyCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(classifyCmd)
}
