package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd(getApp func() (*App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change generation preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}
			settings, err := app.Services.Settings.Get()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "default model:   %s\n", orDash(settings.DefaultModelKey))
			fmt.Fprintf(out, "format:          %s\n", settings.PreferredFormat)
			fmt.Fprintf(out, "persona:         %s\n", orDash(settings.Persona))
			fmt.Fprintf(out, "enhance format:  %t\n", settings.EnhanceFormat)
			fmt.Fprintf(out, "enhance grammar: %t\n", settings.EnhanceGrammar)
			fmt.Fprintf(out, "enhance emoji:   %t\n", settings.EnhanceEmoji)
			fmt.Fprintf(out, "sentiment:       %t\n", settings.EnhanceSentiment)
			fmt.Fprintf(out, "tone:            %t\n", settings.EnhanceTone)
			return nil
		},
	}

	cmd.AddCommand(newSettingsSetCmd(getApp))
	return cmd
}

func newSettingsSetCmd(getApp func() (*App, error)) *cobra.Command {
	var (
		model     string
		format    string
		persona   string
		enhFormat boolFlag
		grammar   boolFlag
		emoji     boolFlag
		sentiment boolFlag
		tone      boolFlag
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update generation preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}
			current, err := app.Services.Settings.Get()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("model") {
				current.DefaultModelKey = model
			}
			if cmd.Flags().Changed("format") {
				current.PreferredFormat = format
			}
			if cmd.Flags().Changed("persona") {
				current.Persona = persona
			}
			enhFormat.apply(&current.EnhanceFormat)
			grammar.apply(&current.EnhanceGrammar)
			emoji.apply(&current.EnhanceEmoji)
			sentiment.apply(&current.EnhanceSentiment)
			tone.apply(&current.EnhanceTone)

			if _, err := app.Services.Settings.Update(current); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "settings updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "default model key")
	cmd.Flags().StringVar(&format, "format", "", "preferred commit format: conventional or plain")
	cmd.Flags().StringVar(&persona, "persona", "", "system persona appended to prompts")
	enhFormat.register(cmd, "enhance-format", "format validation stage")
	grammar.register(cmd, "enhance-grammar", "grammar correction stage")
	emoji.register(cmd, "enhance-emoji", "emoji suggestion stage")
	sentiment.register(cmd, "enhance-sentiment", "sentiment analysis stage")
	tone.register(cmd, "enhance-tone", "tone classification stage")
	return cmd
}

// boolFlag tracks whether the user set the flag so unset ones leave the
// stored value alone.
type boolFlag struct {
	value   bool
	changed *cobra.Command
	name    string
}

func (f *boolFlag) register(cmd *cobra.Command, name, what string) {
	f.changed = cmd
	f.name = name
	cmd.Flags().BoolVar(&f.value, name, false, "toggle the "+what)
}

func (f *boolFlag) apply(target *bool) {
	if f.changed != nil && f.changed.Flags().Changed(f.name) {
		*target = f.value
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
