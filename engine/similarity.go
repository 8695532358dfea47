package engine

import (
	"context"
	"strings"

	"github.com/listforge/listforge/catalog"
)

var defaultSimilaritySurfaces = []string{"genres", "tags", "studios"}

// similaritySurface returns the candidate values shared with the reference
// item across the selected surfaces. Similarity rules apply list operators
// to this overlap.
func (x *extractor) similaritySurface(ctx context.Context, item catalog.Item, surfaces []string) (any, error) {
	if x.runCtx.SimilarityReference == nil {
		return nil, nil
	}

	var shared []string
	_, err := x.forEachSurface(ctx, item, surfaces, func(refVals, itemVals []string) {
		have := make(map[string]bool, len(refVals))
		for _, v := range refVals {
			have[strings.ToLower(v)] = true
		}
		for _, v := range itemVals {
			if have[strings.ToLower(v)] {
				shared = append(shared, v)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return shared, nil
}

// similarityScore computes how alike an item is to the run's reference item
// over the selected surfaces, as a percentage. Each surface contributes its
// overlap ratio (shared values over the reference's values, case folded);
// the score is the mean across surfaces. An empty reference surface
// contributes zero rather than being skipped, so scores stay comparable
// across candidates.
func (x *extractor) similarityScore(ctx context.Context, item catalog.Item, surfaces []string) (any, error) {
	if x.runCtx.SimilarityReference == nil {
		return nil, nil
	}

	var total float64
	count, err := x.forEachSurface(ctx, item, surfaces, func(refVals, itemVals []string) {
		total += overlapRatio(refVals, itemVals)
	})
	if err != nil {
		return nil, err
	}
	return total / float64(count) * 100, nil
}

// forEachSurface resolves the surface selection (explicit, then the run's,
// then the defaults) and invokes fn with the reference and candidate values
// of each. Returns the number of surfaces visited.
func (x *extractor) forEachSurface(ctx context.Context, item catalog.Item, surfaces []string, fn func(refVals, itemVals []string)) (int, error) {
	ref := x.runCtx.SimilarityReference

	if len(surfaces) == 0 {
		surfaces = x.runCtx.SimilarityFields
	}
	if len(surfaces) == 0 {
		surfaces = defaultSimilaritySurfaces
	}

	for _, surface := range surfaces {
		var refVals, itemVals []string
		switch strings.ToLower(surface) {
		case "genres":
			refVals, itemVals = ref.Genres, item.Genres
		case "tags":
			refVals, itemVals = ref.Tags, item.Tags
		case "studios":
			refVals, itemVals = ref.Studios, item.Studios
		case "people":
			refPeople, err := x.cache.PeopleFor(ctx, ref.ID)
			if err != nil {
				return 0, err
			}
			itemPeople, err := x.cache.PeopleFor(ctx, item.ID)
			if err != nil {
				return 0, err
			}
			refVals = personNames(refPeople)
			itemVals = personNames(itemPeople)
		}
		fn(refVals, itemVals)
	}
	return len(surfaces), nil
}

// surfacesIncludePeople reports whether a surface selection needs the
// people lookup.
func surfacesIncludePeople(surfaces []string) bool {
	for _, s := range surfaces {
		if strings.EqualFold(s, "people") {
			return true
		}
	}
	return false
}

// overlapRatio is the share of reference values present on the candidate,
// case-insensitive. Zero when the reference has none.
func overlapRatio(ref, candidate []string) float64 {
	if len(ref) == 0 {
		return 0
	}
	have := make(map[string]bool, len(candidate))
	for _, v := range candidate {
		have[strings.ToLower(v)] = true
	}
	shared := 0
	for _, v := range ref {
		if have[strings.ToLower(v)] {
			shared++
		}
	}
	return float64(shared) / float64(len(ref))
}

func personNames(people []catalog.Person) []string {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.Name
	}
	return names
}
