package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newFeedbackCmd(getApp func() (*App, error)) *cobra.Command {
	var edited bool

	cmd := &cobra.Command{
		Use:   "feedback <record-id> <rating> [comment]",
		Short: "Rate a generated commit message",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number between 0 and 5: %w", err)
			}
			comment := ""
			if len(args) == 3 {
				comment = strings.TrimSpace(args[2])
			}

			if err := app.Services.History.UpdateFeedback(args[0], rating, comment, edited); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "feedback recorded")
			return nil
		},
	}

	cmd.Flags().BoolVar(&edited, "edited", false, "mark the message as edited before use")
	return cmd
}
