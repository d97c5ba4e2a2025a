package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/todo/pkg/models"
)

// completeTaskRefs lists stored tasks as "<number>\t<text>" pairs, optionally
// limited by keep.
func completeTaskRefs(keep func(models.Task) bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if Store == nil || len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var refs []string
		for i, task := range Store.GetAll() {
			if keep != nil && !keep(task) {
				continue
			}
			ref := strconv.Itoa(i + 1)
			if toComplete == "" || strings.HasPrefix(ref, toComplete) {
				refs = append(refs, ref+"\t"+task.Text)
			}
		}
		return refs, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeFilters(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, f := range models.Filters() {
		names = append(names, string(f))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
