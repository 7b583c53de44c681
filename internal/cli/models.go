package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(getApp func() (*App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List and toggle available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tENABLED")
			for _, group := range app.Registry.ListGroups() {
				fmt.Fprintf(w, "%s\t\t\n", group.ProviderName)
				for _, mdl := range group.Models {
					enabled := "yes"
					if !mdl.Enabled {
						enabled = "no"
					}
					fmt.Fprintf(w, "  %s\t%s\t%s\n", mdl.Key, mdl.DisplayName, enabled)
				}
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(newModelsToggleCmd(getApp, "enable", true))
	cmd.AddCommand(newModelsToggleCmd(getApp, "disable", false))
	return cmd
}

func newModelsToggleCmd(getApp func() (*App, error), verb string, enabled bool) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   verb + " [model-key]",
		Short: capitalize(verb) + " a model or a whole provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			switch {
			case provider != "":
				updated, err := app.Registry.SetProviderEnabled(provider, enabled)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%sd %d models for provider %s\n", verb, len(updated), provider)
			case len(args) == 1:
				cfg, err := app.Registry.SetModelEnabled(args[0], enabled)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%sd %s\n", verb, cfg.Key)
			default:
				return fmt.Errorf("pass a model key or --provider")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "apply to every model of this provider")
	return cmd
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
