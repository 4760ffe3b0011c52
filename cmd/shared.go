package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/openswoop/pensum/pkg/report"
	"github.com/spf13/cobra"
)

// sharedCmd represents the shared command
var sharedCmd = &cobra.Command{
	Use:   "shared [output]",
	Short: "List the courses that more than one program's pensum includes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline()
		out := p.SharedPath()
		if len(args) == 1 {
			out = args[0]
		}

		res, err := p.Shared(out)
		if err != nil {
			return err
		}
		fmt.Printf("Processed %d pensum rows: %d unique courses, %d shared\n",
			res.Processed, res.Unique, len(res.Records))
		for _, c := range res.Conflicts {
			fmt.Printf("  %s is listed as %s\n", c.SKU, strings.Join(c.Names, " / "))
		}
		report.PrintIssues(os.Stdout, res.Issues)
		fmt.Println("Wrote", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sharedCmd)
}
