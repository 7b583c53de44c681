package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newKeysCmd(getApp func() (*App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys in the OS keyring",
	}

	set := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key, read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Paste the %s API key and press enter: ", args[0])
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read key: %w", err)
			}
			key := strings.TrimSpace(line)
			if key == "" {
				return fmt.Errorf("no key provided")
			}

			if err := app.Services.Keyring.StoreApiKey(args[0], []byte(key)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored key for %s\n", args[0])
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}
			if err := app.Services.Keyring.DeleteApiKey(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted key for %s\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List providers with stored keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}
			entries, err := app.Services.Keyring.ListApiKeys()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no keys stored")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry["provider"])
			}
			return nil
		},
	}

	cmd.AddCommand(set, del, list)
	return cmd
}
