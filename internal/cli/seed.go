package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty list with example tasks",
	Long: `Fetch a few example tasks from the configured demo API and store them.

Nothing happens when the list already holds tasks. The import is all or
nothing: a network error or malformed response leaves the list empty.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoSeed: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return errStoreNotInitialized
		}
		if Seeder == nil {
			return errors.New("seeding is disabled (seed.enabled: false)")
		}

		result, err := Seeder.Run(cmd.Context())
		if err != nil {
			return err
		}

		switch {
		case result.Skipped:
			fmt.Fprintf(cmd.OutOrStdout(), "List already has %d task(s); nothing imported\n", Store.Len())
		case result.Imported == 0:
			fmt.Fprintln(cmd.OutOrStdout(), "The demo API returned no tasks")
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d example task(s)\n", result.Imported)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
