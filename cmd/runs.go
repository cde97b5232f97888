package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/floodscope/internal/raster"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored accuracy runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore()
		if err != nil {
			return eris.Wrap(err, "runs")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(cmd.Context()); err != nil {
			return eris.Wrap(err, "runs")
		}
		runs, err := st.ListRuns(cmd.Context(), limit)
		if err != nil {
			return eris.Wrap(err, "runs")
		}
		if len(runs) == 0 {
			fmt.Println("No accuracy runs stored")
			return nil
		}

		for _, run := range runs {
			fmt.Printf("%s  %s  %s  total=%d covered=%d accuracy=%.4f\n",
				run.CreatedAt.Format("2006-01-02 15:04:05"),
				run.ID[:8],
				run.Raster,
				run.Result.TotalClaims,
				run.Result.CoveredClaims,
				run.Result.Accuracy,
			)
			for cat, n := range run.Result.Categories {
				if n > 0 {
					fmt.Printf("    %-26s %d\n", raster.Category(cat).Label(), n)
				}
			}
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(runsCmd)
}
