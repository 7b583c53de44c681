package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"commitforge/internal/store"
)

func newHistoryCmd(getApp func() (*App, error)) *cobra.Command {
	var (
		limit       int
		fingerprint string
		showID      string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated commit messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			if showID != "" {
				record, err := app.Services.History.Get(showID)
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("record %s not found", showID)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "id:        %s\n", record.ID)
				fmt.Fprintf(out, "model:     %s\n", record.ModelKey)
				fmt.Fprintf(out, "created:   %s\n", record.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "latency:   %dms\n", record.LatencyMillis)
				fmt.Fprintf(out, "cost:      $%.6f\n", record.CostEstimate)
				if steps := store.DecodeSteps(record.AppliedStepsJSON); len(steps) > 0 {
					fmt.Fprintf(out, "steps:     %s\n", strings.Join(steps, ", "))
				}
				if record.FeedbackRating > 0 {
					fmt.Fprintf(out, "rating:    %d/5\n", record.FeedbackRating)
				}
				fmt.Fprintf(out, "\n%s\n", record.EnhancedMessage)
				return nil
			}

			if fingerprint != "" {
				record, err := app.Services.History.LatestForFingerprint(fingerprint)
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("no record for fingerprint %s", fingerprint)
				}
				fmt.Fprintln(cmd.OutOrStdout(), record.EnhancedMessage)
				return nil
			}

			records, err := app.Services.History.List(limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tMODEL\tRATING\tSUBJECT")
			for _, record := range records {
				subject := record.EnhancedMessage
				if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
					subject = subject[:idx]
				}
				rating := "-"
				if record.FeedbackRating > 0 {
					rating = fmt.Sprintf("%d/5", record.FeedbackRating)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					record.ID[:8],
					record.CreatedAt.Format("2006-01-02 15:04"),
					record.ModelKey,
					rating,
					subject,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of records to list")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "print the latest message for a diff fingerprint")
	cmd.Flags().StringVar(&showID, "id", "", "print one record in full")
	return cmd
}
