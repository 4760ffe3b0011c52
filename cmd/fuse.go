package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fuseCmd represents the fuse command
var fuseCmd = &cobra.Command{
	Use:   "fuse <catalog> <schedule>",
	Short: "Fold the groups of a schedule file into an existing catalog",
	Long: `Adds the groups listed in a schedule file to the matching courses of a
catalog file and writes the catalog back in place. A fusion report naming
every updated and unchanged course is written next to the catalog.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, reportPath, err := pipeline().Fuse(args[0], args[1])
		if err != nil {
			return err
		}
		added := 0
		for _, c := range rep.Updated {
			added += c.GroupsAdded
		}
		fmt.Printf("%d of %d courses updated with %d groups, %d unchanged\n",
			rep.Summary.Updated, rep.Summary.Total, added, rep.Summary.Unchanged)
		fmt.Println("Report written to", reportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fuseCmd)
}
