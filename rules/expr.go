package rules

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/listforge/listforge/catalog"
)

// Custom-expression rules embed a boolean expr-lang program as their target
// value. The program is compiled and type-checked at rule-build time; at
// evaluation time it runs against an environment exposing the candidate
// item's cheap attributes plus a handful of helpers.

// compileProgram compiles an expr source into a boolean program, validating
// it against the static helper environment.
func compileProgram(source string) (*vm.Program, error) {
	return expr.Compile(source,
		expr.Env(staticHelpers()),
		expr.AllowUndefinedVariables(), // item properties are added at runtime
		expr.AsBool(),
	)
}

// staticHelpers returns the helper functions available during compilation.
func staticHelpers() map[string]any {
	env := make(map[string]any, 16)
	addHelpers(env, time.Time{})
	return env
}

// addHelpers adds the helper functions to an environment. now anchors the
// date helpers so runs are deterministic under a fixed clock; the zero value
// falls back to the wall clock (compile-time type checking only).
func addHelpers(env map[string]any, now time.Time) {
	clock := func() time.Time {
		if now.IsZero() {
			return time.Now()
		}
		return now
	}
	env["now"] = clock
	env["daysSince"] = func(t time.Time) int {
		return int(clock().Sub(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return clock().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return clock().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return clock().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// itemEnvironment builds the runtime environment for one candidate item.
func itemEnvironment(item catalog.Item, userID string, now time.Time) map[string]any {
	env := make(map[string]any, 48)
	addHelpers(env, now)

	env["Item"] = item
	env["Name"] = item.Name
	env["SortName"] = item.SortName
	env["Overview"] = item.Overview
	env["MediaType"] = item.MediaType
	env["ItemType"] = item.ItemType
	env["ProductionYear"] = item.ProductionYear
	env["PremiereDate"] = item.PremiereDate
	env["DateAdded"] = item.DateAdded
	env["CommunityRating"] = item.CommunityRating
	env["CriticRating"] = item.CriticRating
	env["RuntimeMinutes"] = item.RuntimeMinutes
	env["OfficialRating"] = item.OfficialRating
	env["Genres"] = item.Genres
	env["Tags"] = item.Tags
	env["Studios"] = item.Studios
	env["FolderPath"] = item.FolderPath
	env["Container"] = item.Container

	data := item.DataFor(userID)
	env["IsPlayed"] = data.Played
	env["PlayCount"] = data.PlayCount
	env["IsFavorite"] = data.IsFavorite
	env["LastPlayed"] = data.LastPlayed

	env["hasGenre"] = makeHasFunc(item.Genres)
	env["hasTag"] = makeHasFunc(item.Tags)
	env["hasStudio"] = makeHasFunc(item.Studios)

	return env
}

func makeHasFunc(values []string) func(string) bool {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return func(want string) bool {
		want = strings.ToLower(want)
		for _, v := range lowered {
			if v == want {
				return true
			}
		}
		return false
	}
}

// runProgram evaluates a compiled custom expression against an item.
func runProgram(program *vm.Program, item catalog.Item, userID string, now time.Time) (bool, error) {
	out, err := expr.Run(program, itemEnvironment(item, userID, now))
	if err != nil {
		return false, err
	}
	// AsBool() at compile time guarantees the assertion holds.
	return out.(bool), nil
}
