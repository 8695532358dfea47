package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/listforge/listforge/engine"
	"github.com/listforge/listforge/rules"
)

// validateCmd checks a definition without evaluating it
var validateCmd = &cobra.Command{
	Use:   "validate <definition.json>",
	Short: "Validate a smart-list definition",
	Long: `Validate a smart-list definition: decode it, check every rule against
the field registry, and pre-parse all target values. Reports the first
offending group and rule on failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	def, err := engine.LoadDefinition(args[0])
	if err != nil {
		return err
	}

	compiled, err := rules.Compile(def.RuleGroups)
	if err != nil {
		var verr *rules.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("definition is invalid: %w", verr)
		}
		return err
	}

	expensive := 0
	total := 0
	for _, set := range compiled.Sets {
		total += len(set.All)
		expensive += len(set.Expensive)
	}

	fmt.Printf("✓ Definition is valid: %d groups, %d rules (%d expensive)\n",
		len(compiled.Sets), total, expensive)
	if name := compiled.ExternalListName(); name != "" {
		fmt.Printf("  references external list: %s\n", name)
	}
	return nil
}
