package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent practice rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.sync()

		st, err := e.openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.ResultRepo().RecentSessions(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No practice rounds recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %-20s  %-18s  %7s  %8s\n", "Finished", "Learner", "Mode", "Correct", "Accuracy")
		fmt.Println(strings.Repeat("─", 77))

		var total, correct int
		for _, r := range recs {
			learner := r.Learner
			if len(learner) > 20 {
				learner = learner[:17] + "..."
			}
			mark := ""
			if r.Synthetic {
				mark = " *"
			}
			fmt.Printf("%-16s  %-20s  %-18s  %3d/%-3d  %7.0f%%%s\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04"), learner, r.Mode,
				r.Correct, r.Total, r.Accuracy*100, mark)
			total += r.Total
			correct += r.Correct
		}

		fmt.Printf("\n%d rounds, %d/%d correct", len(recs), correct, total)
		if total > 0 {
			fmt.Printf(" (%.0f%%)", float64(correct)/float64(total)*100)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 20, "Number of rounds to show (0 for all)")
}
