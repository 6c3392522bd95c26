package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all recorded practice rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to delete practice history without --yes")
		}

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

		n, err := st.ResultRepo().Reset(cmd.Context())
		if err != nil {
			return err
		}
		e.logger.Info("practice history reset", zap.Int64("sessions", n))
		fmt.Printf("Deleted %d practice round(s).\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
