package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	alertsNotify bool
	alertsJSON   bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show overdue and due-soon tasks",
	Long: `Check open tasks against today's date and list any that are overdue or
due soon, plus a warning when too many tasks are open. Thresholds come from
the alerts section of .todoconfig.

With --notify the alerts are also posted to the configured Slack webhook.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return errors.New("alert engine not initialized")
		}

		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			return fmt.Errorf("evaluating alerts: %w", err)
		}

		w := cmd.OutOrStdout()
		if alertsJSON {
			data, err := json.MarshalIndent(alerts, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting alerts as JSON: %w", err)
			}
			fmt.Fprintln(w, string(data))
		} else if len(alerts) == 0 {
			fmt.Fprintln(w, "No active alerts.")
		} else {
			fmt.Fprintf(w, "%d active alert(s):\n\n", len(alerts))
			for _, alert := range alerts {
				fmt.Fprintf(w, "  [%s] %s\n", strings.ToUpper(string(alert.Severity)), alert.Message)
			}
		}

		if !alertsNotify || len(alerts) == 0 {
			return nil
		}
		if Notifier == nil {
			return errors.New("no notifier configured (set notifications.slack.webhook_url)")
		}
		if err := Notifier.Notify(cmd.Context(), alerts); err != nil {
			return fmt.Errorf("sending alerts: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Alerts sent.")
		return nil
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Post alerts to the configured Slack webhook")
	alertsCmd.Flags().BoolVar(&alertsJSON, "json", false, "Output alerts as JSON")
	rootCmd.AddCommand(alertsCmd)
}
