package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/listforge/listforge/arrhost"
	"github.com/listforge/listforge/catalog"
	"github.com/listforge/listforge/engine"
	"github.com/listforge/listforge/rules"
)

var (
	definitionFile string
	preset         string
	snapshotFile   string
	runUser        string
	runLimit       int
	sortFlags      []string
	jsonOutput     bool
)

// runCmd evaluates a definition and prints the resulting list
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a smart-list definition and print the matches",
	Long: `Evaluate a smart-list definition against the configured candidate
source. Candidates come from --snapshot when given, otherwise from the
Radarr library configured in the config file.`,
	RunE: runEvaluate,
}

func init() {
	runCmd.Flags().StringVarP(&definitionFile, "definition", "f", "", "definition file (JSON)")
	runCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset definition from config")
	runCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "evaluate against a catalog snapshot file instead of a live host")
	runCmd.Flags().StringVarP(&runUser, "user", "u", "", "reference user for user-specific rules")
	runCmd.Flags().IntVarP(&runLimit, "limit", "n", 0, "cap the total result size")
	runCmd.Flags().StringArrayVarP(&sortFlags, "sort", "s", nil, "sort key, Field or Field:desc (repeatable, overrides the definition)")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	def, err := loadDefinition()
	if err != nil {
		return err
	}

	compiler := rules.NewCompiler(
		rules.WithRegexTimeout(time.Duration(cfg.Engine.RegexTimeoutMS)*time.Millisecond),
		rules.WithProgramCache(cfg.Engine.ProgramCacheSize),
	)
	compiled, err := compiler.Compile(def.RuleGroups)
	if err != nil {
		return fmt.Errorf("invalid definition: %w", err)
	}

	source, lookups, err := buildSource()
	if err != nil {
		return err
	}

	runCtx := catalog.Context{
		UserID:        def.UserID,
		MediaTypes:    def.MediaTypes,
		IncludeExtras: def.IncludeExtras,
	}
	if runCtx.UserID == "" {
		runCtx.UserID = cfg.Defaults.UserID
	}
	if runUser != "" {
		runCtx.UserID = runUser
	}
	if len(runCtx.MediaTypes) == 0 {
		runCtx.MediaTypes = cfg.Defaults.MediaTypes
	}

	sortKeys := def.Sort
	if len(sortFlags) > 0 {
		sortKeys, err = parseSortFlags(sortFlags)
		if err != nil {
			return err
		}
	}

	globalMax := def.MaxItems
	if runLimit > 0 {
		globalMax = runLimit
	}

	eng := engine.New(
		engine.WithWorkers(cfg.Engine.Workers),
		engine.WithLogger(logger),
	)
	ctx := context.Background()
	defer eng.Close(ctx)

	result, err := eng.Evaluate(ctx, engine.Params{
		Rules:              compiled,
		Source:             source,
		Lookups:            lookups,
		Context:            runCtx,
		Sort:               sortKeys,
		GlobalMax:          globalMax,
		PlaytimeCapMinutes: def.PlaytimeCapMinutes,
		Progress: func(processed, total int) {
			logger.Debug().Int("processed", processed).Int("total", total).Msg("progress")
		},
	})
	if err != nil {
		return err
	}

	return printResult(def, result)
}

// loadDefinition resolves the definition from flags and config presets.
func loadDefinition() (*engine.Definition, error) {
	path := definitionFile
	if path == "" && preset != "" {
		presetPath, ok := cfg.Lists[preset]
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
		path = presetPath
	}
	if path == "" {
		return nil, fmt.Errorf("no definition specified, use --definition or --preset")
	}
	return engine.LoadDefinition(path)
}

// buildSource picks the candidate source and wires the lookups it can serve.
func buildSource() (catalog.Source, catalog.Lookups, error) {
	var lookups catalog.Lookups

	if cfg.Sonarr.Enabled {
		series, err := arrhost.NewSonarrSeries(cfg.Sonarr.URL, cfg.Sonarr.APIKey, logger)
		if err != nil {
			return nil, lookups, err
		}
		lookups.Series = series
	}

	if snapshotFile != "" {
		source, err := catalog.LoadSnapshot(snapshotFile, cfg.Engine.BatchSize)
		if err != nil {
			return nil, lookups, err
		}
		return source, lookups, nil
	}

	if !cfg.Radarr.Enabled {
		return nil, lookups, fmt.Errorf("no candidate source: pass --snapshot or enable radarr in config")
	}

	source, err := arrhost.NewRadarrSource(cfg.Radarr.URL, cfg.Radarr.APIKey, cfg.Engine.BatchSize, logger)
	if err != nil {
		return nil, lookups, err
	}
	lookups.Streams = source
	return source, lookups, nil
}

func parseSortFlags(flags []string) ([]engine.SortKey, error) {
	keys := make([]engine.SortKey, 0, len(flags))
	for _, flag := range flags {
		field, dir, hasDir := strings.Cut(flag, ":")
		key := engine.SortKey{Field: field}
		if hasDir {
			switch strings.ToLower(dir) {
			case "desc", "descending":
				key.Descending = true
			case "asc", "ascending":
			default:
				return nil, fmt.Errorf("invalid sort direction '%s' (use asc or desc)", dir)
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func printResult(def *engine.Definition, result *engine.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	name := def.Name
	if name == "" {
		name = "smart list"
	}
	if len(result.Items) == 0 {
		fmt.Printf("No items matched %s (%d examined).\n", name, result.Examined)
		return nil
	}

	fmt.Printf("\n%s: %d items (%d examined", name, len(result.Items), result.Examined)
	if result.Skipped > 0 {
		fmt.Printf(", %d skipped", result.Skipped)
	}
	fmt.Println(")")
	fmt.Println(strings.Repeat("-", 60))
	for i, item := range result.Items {
		fmt.Printf("%4d. %s\n", i+1, item.Name)
	}
	return nil
}
