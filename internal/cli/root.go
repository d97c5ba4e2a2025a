package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// annotationNoSeed marks commands that must not trigger the startup seed.
const annotationNoSeed = "todo/no-seed"

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "A persistent to-do list",
	Long: `todo keeps a list of tasks with due dates on local disk (or in redis).

Add, complete, delete, filter and sort tasks from the command line, the
interactive board (todo tui), the HTTP API (todo serve) or an MCP client
(todo mcp serve). When the list is empty it is filled with a few example
tasks from a public demo API.`,
	SilenceUsage:      true,
	PersistentPreRunE: seedIfEmpty,
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationNoSeed: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "todo %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// seedIfEmpty runs the seed importer once before a task command. A failed
// import is logged and the command proceeds with an empty list.
func seedIfEmpty(cmd *cobra.Command, _ []string) error {
	if !SeedOnStart || Seeder == nil || Store == nil || skipsSeed(cmd) {
		return nil
	}
	if _, err := Seeder.Run(cmd.Context()); err != nil {
		Logger.Warn().Err(err).Msg("could not load example tasks")
	}
	return nil
}

// skipsSeed reports whether cmd, or one of its parents, opts out of the
// startup seed. Cobra's generated help and completion commands always do:
// they run on every shell TAB and must not reach the network.
func skipsSeed(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoSeed] == "true" {
			return true
		}
		switch c.Name() {
		case cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "completion", "help":
			return true
		}
	}
	return false
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands use for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
