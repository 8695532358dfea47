package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/listforge/listforge/catalog"
	"github.com/listforge/listforge/rules"
)

// generateBenchItems creates candidate data with a mix of field values
func generateBenchItems(count int) []catalog.Item {
	genres := [][]string{
		{"Action"},
		{"Action", "Sci-Fi"},
		{"Drama"},
		{"Comedy", "Romance"},
	}
	items := make([]catalog.Item, count)
	for i := 0; i < count; i++ {
		items[i] = catalog.Item{
			ID:              fmt.Sprintf("m%d", i),
			Name:            fmt.Sprintf("Movie %d", i),
			MediaType:       "Video",
			ItemType:        "Movie",
			ProductionYear:  2000 + i%26,
			CommunityRating: 4 + float64(i%60)/10,
			RuntimeMinutes:  80 + float64(i%80),
			DateAdded:       time.Now().AddDate(0, -(i % 24), 0),
			Genres:          genres[i%len(genres)],
			UserData: map[string]catalog.UserData{
				"user1": {Played: i%2 == 0, PlayCount: i % 5},
			},
		}
	}
	return items
}

func mustCompileBench(b *testing.B, groups rules.RuleGroups) *rules.CompiledRules {
	b.Helper()
	compiled, err := rules.Compile(groups)
	if err != nil {
		b.Fatal(err)
	}
	return compiled
}

// Benchmark full evaluation over cheap rules at different worker counts
func BenchmarkEvaluate(b *testing.B) {
	items := generateBenchItems(10000)
	compiled := mustCompileBench(b, rules.RuleGroups{
		{Expressions: []rules.Expression{
			{Field: "Genres", Operator: "contains", Value: "Action"},
			{Field: "ProductionYear", Operator: "greater_than", Value: "2010"},
		}},
	})
	ctx := context.Background()

	for _, workers := range []int{1, 4, 8, 0} {
		name := fmt.Sprintf("workers-%d", workers)
		if workers == 0 {
			name = "workers-default"
		}
		b.Run(name, func(b *testing.B) {
			e := New(WithWorkers(workers))
			defer e.Close(ctx)

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := e.Evaluate(ctx, Params{
					Rules:   compiled,
					Source:  catalog.NewSliceSource(items, 500),
					Context: catalog.Context{UserID: "user1"},
				})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Benchmark evaluation with a multi-key sort over the survivors
func BenchmarkEvaluateSorted(b *testing.B) {
	items := generateBenchItems(10000)
	compiled := mustCompileBench(b, rules.RuleGroups{
		{Expressions: []rules.Expression{
			{Field: "CommunityRating", Operator: "greater_than_or_equal", Value: "5"},
		}},
	})
	ctx := context.Background()

	e := New(WithWorkers(4))
	defer e.Close(ctx)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := e.Evaluate(ctx, Params{
			Rules:   compiled,
			Source:  catalog.NewSliceSource(items, 500),
			Context: catalog.Context{UserID: "user1"},
			Sort: []SortKey{
				{Field: "CommunityRating", Descending: true},
				{Field: "Name"},
			},
			GlobalMax: 100,
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark single-item two-phase evaluation without pipeline overhead
func BenchmarkEvaluateItem(b *testing.B) {
	compiled := mustCompileBench(b, rules.RuleGroups{
		{Expressions: []rules.Expression{
			{Field: "Genres", Operator: "contains", Value: "Sci-Fi"},
			{Field: "IsPlayed", Operator: "equal", Value: "true"},
		}},
		{Expressions: []rules.Expression{
			{Field: "CommunityRating", Operator: "greater_than", Value: "8"},
		}},
	})

	item := generateBenchItems(1)[0]
	runCtx := catalog.Context{UserID: "user1", Now: time.Now()}
	x := newExtractor(NewCache(catalog.Lookups{}), runCtx)
	ctx := context.Background()

	e := New(WithWorkers(1))
	defer e.Close(ctx)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := e.evaluateItem(ctx, x, compiled, item, 0); err != nil {
			b.Fatal(err)
		}
	}
}
