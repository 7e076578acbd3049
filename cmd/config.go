package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var configResetAll bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the saved connection settings",
	Long: `Show or change the connection settings saved in the local store.

Saved settings override the RAG_* environment variables; --endpoint and
--timeout override both for a single run.

Keys: ` + strings.Join(internal.SettingKeys, ", "),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		s := a.settings
		endpointValue := s.Endpoint
		if s.Offline() {
			endpointValue = "(none, " + internal.T(a.lang).Offline + ")"
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "endpoint\t%s\n", endpointValue)
		_, _ = fmt.Fprintf(w, "api-key\t%s\n", s.MaskedAPIKey())
		_, _ = fmt.Fprintf(w, "streaming\t%s\n", strconv.FormatBool(s.Streaming))
		_, _ = fmt.Fprintf(w, "timeout\t%s\n", s.Timeout())
		_, _ = fmt.Fprintf(w, "history-limit\t%d\n", s.Limit())
		_, _ = fmt.Fprintf(w, "lang\t%s\n", a.lang)
		_, _ = fmt.Fprintf(w, "theme\t%s\n", a.theme)
		_, _ = fmt.Fprintf(w, "storage\t%s\n", a.paths.DatabasePath)
		return w.Flush()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		updated, err := a.saved.Set(args[0], args[1])
		if err != nil {
			return err
		}
		internal.SaveSettings(a.store, updated)
		if args[0] == "streaming" && updated.Streaming {
			internal.PrintWarning("Streaming is saved but replies are still delivered in one piece")
		}
		internal.PrintSuccess(fmt.Sprintf("Saved %s", args[0]))
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget saved settings and fall back to the environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if configResetAll {
			if err := a.store.Reset(); err != nil {
				return err
			}
			internal.PrintSuccess("All threads, documents and settings removed")
			return nil
		}
		a.store.Delete(internal.KeySettings)
		internal.PrintSuccess("Settings reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configResetCmd)
	configResetCmd.Flags().BoolVar(&configResetAll, "all", false, "Also remove every thread and document")
}
