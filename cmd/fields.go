package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/listforge/listforge/schema"
)

// fieldsCmd lists every filterable and sortable field
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the fields rules and sort keys may reference",
	RunE:  runFields,
}

func runFields(cmd *cobra.Command, args []string) error {
	category := ""
	for _, field := range schema.Default.Fields() {
		if field.Category != category {
			category = field.Category
			fmt.Printf("\n%s\n%s\n", category, strings.Repeat("-", len(category)))
		}

		var notes []string
		if field.SortOnly {
			notes = append(notes, "sort-only")
		} else if field.Sortable {
			notes = append(notes, "sortable")
		}
		if field.Expensive() {
			notes = append(notes, "expensive")
		}
		if field.UserSpecific {
			notes = append(notes, "per-user")
		}

		suffix := ""
		if len(notes) > 0 {
			suffix = " [" + strings.Join(notes, ", ") + "]"
		}
		fmt.Printf("  %-26s %-12s%s\n", field.Name, field.Type, suffix)

		if len(field.Operators) > 0 {
			ops := make([]string, len(field.Operators))
			for i, op := range field.Operators {
				ops[i] = string(op)
			}
			fmt.Printf("  %-26s operators: %s\n", "", strings.Join(ops, ", "))
		}
	}
	fmt.Println()
	return nil
}
