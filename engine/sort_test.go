package engine

import (
	"context"
	"testing"

	"github.com/listforge/listforge/catalog"
	"github.com/listforge/listforge/rules"
)

func evaluateSorted(t *testing.T, items []catalog.Item, params Params) *Result {
	t.Helper()
	if params.Rules == nil {
		params.Rules = mustCompile(t, rules.RuleGroups{{}})
	}
	if params.Source == nil {
		params.Source = catalog.NewSliceSource(items, 0)
	}

	e := newTestEngine(t)
	result, err := e.Evaluate(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func assertOrder(t *testing.T, result *Result, want ...string) {
	t.Helper()
	got := resultIDs(result)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDefaultOrderIsCatalogOrder(t *testing.T) {
	items := []catalog.Item{
		{ID: "c", Name: "Gamma"},
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Beta"},
	}
	result := evaluateSorted(t, items, Params{})
	assertOrder(t, result, "c", "a", "b")
}

func TestSingleKeySort(t *testing.T) {
	items := []catalog.Item{
		{ID: "b", Name: "Beta", CommunityRating: 7.1},
		{ID: "a", Name: "alpha", CommunityRating: 9.0},
		{ID: "c", Name: "Gamma", CommunityRating: 8.2},
	}

	result := evaluateSorted(t, items, Params{Sort: []SortKey{{Field: "CommunityRating", Descending: true}}})
	assertOrder(t, result, "a", "c", "b")

	// Text keys compare case-insensitively.
	result = evaluateSorted(t, items, Params{Sort: []SortKey{{Field: "Name"}}})
	assertOrder(t, result, "a", "b", "c")
}

func TestMultiKeySortWithTies(t *testing.T) {
	items := []catalog.Item{
		{ID: "m1", Name: "Zulu", ProductionYear: 2020, CommunityRating: 8},
		{ID: "m2", Name: "Alpha", ProductionYear: 2020, CommunityRating: 8},
		{ID: "m3", Name: "Mike", ProductionYear: 2021, CommunityRating: 8},
	}

	result := evaluateSorted(t, items, Params{Sort: []SortKey{
		{Field: "ProductionYear", Descending: true},
		{Field: "Name"},
	}})
	assertOrder(t, result, "m3", "m2", "m1")
}

func TestMissingValuesSortLastBothDirections(t *testing.T) {
	items := []catalog.Item{
		{ID: "rated", Name: "Rated", CommunityRating: 6.0},
		{ID: "unrated", Name: "Unrated"},
		{ID: "top", Name: "Top", CommunityRating: 9.0},
	}

	asc := evaluateSorted(t, items, Params{Sort: []SortKey{{Field: "CommunityRating"}}})
	assertOrder(t, asc, "rated", "top", "unrated")

	desc := evaluateSorted(t, items, Params{Sort: []SortKey{{Field: "CommunityRating", Descending: true}}})
	assertOrder(t, desc, "top", "rated", "unrated")
}

func TestStableSortPreservesCatalogOrderOnTies(t *testing.T) {
	items := []catalog.Item{
		{ID: "first", Name: "Same", ProductionYear: 2020},
		{ID: "second", Name: "Same", ProductionYear: 2020},
		{ID: "third", Name: "Same", ProductionYear: 2020},
	}
	result := evaluateSorted(t, items, Params{Sort: []SortKey{{Field: "ProductionYear"}}})
	assertOrder(t, result, "first", "second", "third")
}

func TestRandomSortIsDeterministicPerRun(t *testing.T) {
	items := make([]catalog.Item, 20)
	for i := range items {
		items[i] = catalog.Item{ID: string(rune('a' + i)), Name: string(rune('a' + i))}
	}

	params := func(runID string) Params {
		return Params{
			Source:  catalog.NewSliceSource(items, 0),
			Context: catalog.Context{RunID: runID},
			Sort:    []SortKey{{Field: "Random"}},
		}
	}

	first := evaluateSorted(t, items, params("run-1"))
	repeat := evaluateSorted(t, items, params("run-1"))
	other := evaluateSorted(t, items, params("run-2"))

	assertOrder(t, repeat, resultIDs(first)...)

	same := true
	otherIDs := resultIDs(other)
	for i, id := range resultIDs(first) {
		if otherIDs[i] != id {
			same = false
			break
		}
	}
	if same {
		t.Error("expected a different run ID to reshuffle")
	}
}

func TestRuleBlockOrderSort(t *testing.T) {
	items := []catalog.Item{
		{ID: "d1", Name: "Drama One", Genres: []string{"Drama"}},
		{ID: "a1", Name: "Action One", Genres: []string{"Action"}},
		{ID: "d2", Name: "Drama Two", Genres: []string{"Drama"}},
		{ID: "a2", Name: "Action Two", Genres: []string{"Action"}},
	}

	compiled := mustCompile(t, rules.RuleGroups{
		{Expressions: []rules.Expression{{Field: "Genres", Operator: "contains", Value: "Action"}}},
		{Expressions: []rules.Expression{{Field: "Genres", Operator: "contains", Value: "Drama"}}},
	})

	result := evaluateSorted(t, items, Params{
		Rules: compiled,
		Sort:  []SortKey{{Field: "RuleBlockOrder"}, {Field: "Name"}},
	})
	assertOrder(t, result, "a1", "a2", "d1", "d2")
}

func TestExternalListOrderSort(t *testing.T) {
	items := []catalog.Item{
		{ID: "third", Name: "Third", ProviderIDs: map[string]string{"imdb": "tt3"}},
		{ID: "first", Name: "First", ProviderIDs: map[string]string{"imdb": "tt1"}},
		{ID: "second", Name: "Second", ProviderIDs: map[string]string{"imdb": "tt2"}},
	}
	lookups := &fakeLookups{
		lists: map[string]catalog.ExternalList{
			"Ranked": {Name: "Ranked", Entries: []catalog.ExternalEntry{
				{ProviderIDs: map[string]string{"imdb": "tt1"}},
				{ProviderIDs: map[string]string{"imdb": "tt2"}},
				{ProviderIDs: map[string]string{"imdb": "tt3"}},
			}},
		},
	}

	compiled := mustCompile(t, rules.RuleGroups{
		{Expressions: []rules.Expression{{Field: "ExternalList", Operator: "equal", Value: "Ranked"}}},
	})

	result := evaluateSorted(t, items, Params{
		Rules:   compiled,
		Lookups: lookups.lookups(),
		Sort:    []SortKey{{Field: "ExternalListOrder"}},
	})
	assertOrder(t, result, "first", "second", "third")
}

func TestCollectionChildAggregation(t *testing.T) {
	items := []catalog.Item{
		{ID: "box", Name: "Trilogy Box", IsCollection: true, ChildIDs: []string{"p1", "p2"}},
		{ID: "p1", Name: "Part One", ProductionYear: 2001},
		{ID: "p2", Name: "Part Two", ProductionYear: 2003},
		{ID: "solo", Name: "Standalone", ProductionYear: 2002},
	}

	// Ascending: the box sorts by its earliest child (2001), before the
	// standalone 2002 title.
	asc := evaluateSorted(t, items, Params{Sort: []SortKey{{Field: "ProductionYear"}, {Field: "Name"}}})
	if got := resultIDs(asc); got[0] != "box" && got[0] != "p1" {
		t.Errorf("ascending: expected box or p1 first, got %v", got)
	}

	// Descending: the box sorts by its latest child (2003).
	desc := evaluateSorted(t, items, Params{Sort: []SortKey{{Field: "ProductionYear", Descending: true}, {Field: "Name"}}})
	if got := resultIDs(desc); got[0] != "box" && got[0] != "p2" {
		t.Errorf("descending: expected box or p2 first, got %v", got)
	}
}

func TestPerGroupLimits(t *testing.T) {
	items := []catalog.Item{
		{ID: "a1", Name: "Action One", Genres: []string{"Action"}},
		{ID: "a2", Name: "Action Two", Genres: []string{"Action"}},
		{ID: "a3", Name: "Action Three", Genres: []string{"Action"}},
		{ID: "d1", Name: "Drama One", Genres: []string{"Drama"}},
		{ID: "d2", Name: "Drama Two", Genres: []string{"Drama"}},
	}

	compiled := mustCompile(t, rules.RuleGroups{
		{
			Expressions: []rules.Expression{{Field: "Genres", Operator: "contains", Value: "Action"}},
			MaxItems:    2,
		},
		{
			Expressions: []rules.Expression{{Field: "Genres", Operator: "contains", Value: "Drama"}},
		},
	})

	result := evaluateSorted(t, items, Params{Rules: compiled})
	assertOrder(t, result, "a1", "a2", "d1", "d2")
}

func TestGlobalLimitAfterSort(t *testing.T) {
	items := []catalog.Item{
		{ID: "low", Name: "Low", CommunityRating: 5},
		{ID: "high", Name: "High", CommunityRating: 9},
		{ID: "mid", Name: "Mid", CommunityRating: 7},
	}

	result := evaluateSorted(t, items, Params{
		Sort:      []SortKey{{Field: "CommunityRating", Descending: true}},
		GlobalMax: 2,
	})
	assertOrder(t, result, "high", "mid")
}

func TestPlaytimeCap(t *testing.T) {
	items := []catalog.Item{
		{ID: "m1", Name: "One", RuntimeMinutes: 90},
		{ID: "m2", Name: "Two", RuntimeMinutes: 100},
		{ID: "m3", Name: "Three", RuntimeMinutes: 60},
		{ID: "m4", Name: "Four", RuntimeMinutes: 10},
	}

	// Cap 200: m1 (90) + m2 (190) fit; m3 overflows and ends the list, so
	// the short m4 is not admitted either.
	result := evaluateSorted(t, items, Params{PlaytimeCapMinutes: 200})
	assertOrder(t, result, "m1", "m2")
}

func TestSimilaritySort(t *testing.T) {
	ref := catalog.Item{ID: "ref", Name: "Reference", Genres: []string{"Action", "Sci-Fi"}, Tags: []string{"cyberpunk"}}
	items := []catalog.Item{
		{ID: "far", Name: "Far", Genres: []string{"Romance"}},
		{ID: "near", Name: "Near", Genres: []string{"Action", "Sci-Fi"}, Tags: []string{"cyberpunk"}},
		{ID: "mid", Name: "Mid", Genres: []string{"Action"}},
	}

	result := evaluateSorted(t, items, Params{
		Context: catalog.Context{SimilarityReference: &ref},
		Sort:    []SortKey{{Field: "Similarity", Descending: true}},
	})
	assertOrder(t, result, "near", "mid", "far")
}

func TestSortKeyLookupFailureSkipsItem(t *testing.T) {
	items := []catalog.Item{
		{ID: "m1", Name: "Sharp", Genres: []string{"Action"}},
		{ID: "m2", Name: "Broken", Genres: []string{"Action"}},
		{ID: "m3", Name: "Soft", Genres: []string{"Action"}},
	}
	lookups := &fakeLookups{
		streams: map[string]catalog.StreamFacts{
			"m1": {Height: 2160},
			"m3": {Height: 720},
		},
		failFor: "m2",
	}

	compiled := mustCompile(t, rules.RuleGroups{
		{Expressions: []rules.Expression{{Field: "Genres", Operator: "contains", Value: "Action"}}},
	})

	result := evaluateSorted(t, items, Params{
		Rules:   compiled,
		Lookups: lookups.lookups(),
		Sort:    []SortKey{{Field: "Resolution", Descending: true}},
	})

	assertOrder(t, result, "m1", "m3")
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped item, got %d", result.Skipped)
	}
}
