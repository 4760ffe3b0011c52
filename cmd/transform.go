package cmd

import (
	"fmt"
	"os"

	"github.com/openswoop/pensum/pkg/app"
	"github.com/openswoop/pensum/pkg/report"
	"github.com/spf13/cobra"
)

// transformCmd represents the transform command
var transformCmd = &cobra.Command{
	Use:   "transform <input> [output]",
	Short: "Rewrite a Spanish-keyed schedule file with canonical keys",
	Long: `Reads one schedule file exported by the portal (codigo, grupos, horario,
...) and writes it back with the canonical keys (sku, groups, schedule,
...). The default output is <input>_transformed.json.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		out := app.TransformPath(in)
		if len(args) == 2 {
			out = args[1]
		}

		courses, issues, err := pipeline().Transform(in, out)
		if err != nil {
			return err
		}
		groups := 0
		for _, c := range courses {
			groups += len(c.Groups)
		}
		fmt.Printf("Transformed %d courses with %d groups into %s\n", len(courses), groups, out)
		report.PrintIssues(os.Stdout, issues)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
}
