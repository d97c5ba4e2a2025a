package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/todo/internal/observability"
)

var (
	metricsJSON  bool
	metricsSince string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show task activity from the event log",
	Long: `Summarise recorded task activity: tasks added, completed, reopened,
deleted and seeded, and how often the list was sorted.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoSeed: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return errors.New("metrics calculator not initialized (events.enabled may be false)")
		}

		since, err := observability.ParseSince(metricsSince, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(since)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		w := cmd.OutOrStdout()
		if metricsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(w, string(data))
			return nil
		}

		fmt.Fprintf(w, "Metrics (since %s)\n\n", since.Format("2006-01-02"))
		rows := []struct {
			label string
			value int
		}{
			{"Events recorded:", metrics.EventCount},
			{"Tasks added:", metrics.TasksAdded},
			{"Tasks completed:", metrics.TasksCompleted},
			{"Tasks reopened:", metrics.TasksReopened},
			{"Tasks deleted:", metrics.TasksDeleted},
			{"Example tasks seeded:", metrics.TasksSeeded},
			{"Sorts saved:", metrics.Sorts},
		}
		for _, r := range rows {
			fmt.Fprintf(w, "  %-24s %d\n", r.label, r.value)
		}

		if metrics.OldestEvent != nil {
			fmt.Fprintf(w, "\n  %-24s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Fprintf(w, "  %-24s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
