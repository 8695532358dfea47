package engine

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/listforge/listforge/schema"
)

// MaxSortKeys bounds how many sort keys one request may carry.
const MaxSortKeys = 3

// SortKey orders results by one field.
type SortKey struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// sortValue is one item's value under one sort key. Missing values sort
// after present ones regardless of direction.
type sortValue struct {
	text    string
	num     float64
	isText  bool
	missing bool
}

// compare orders a before b (negative), equal (zero), or after (positive)
// under the key's direction.
func (a sortValue) compare(b sortValue, descending bool) int {
	switch {
	case a.missing && b.missing:
		return 0
	case a.missing:
		return 1
	case b.missing:
		return -1
	}

	var c int
	if a.isText {
		c = strings.Compare(strings.ToLower(a.text), strings.ToLower(b.text))
	} else {
		switch {
		case a.num < b.num:
			c = -1
		case a.num > b.num:
			c = 1
		}
	}
	if descending {
		c = -c
	}
	return c
}

func textValue(s string) sortValue {
	return sortValue{text: s, isText: true, missing: s == ""}
}

func numValue(n float64) sortValue {
	return sortValue{num: n}
}

var missingValue = sortValue{missing: true}

// sorter resolves sort-key values for surviving candidates and orders them.
type sorter struct {
	extract  *extractor
	registry *schema.Registry
	listName string
	runID    string

	// byID indexes the run's surviving candidates so collection entries can
	// aggregate their children's values.
	byID map[string]*candidate
}

// order sorts survivors under the given keys and returns the ordered set
// plus the number of items dropped. The sort is stable, so ties and an
// empty key list keep catalog order. A candidate whose sort-key resolution
// fails is dropped and logged, never aborting the run; the returned error
// is non-nil only on cancellation.
func (s *sorter) order(ctx context.Context, survivors []*candidate, keys []SortKey, logger zerolog.Logger) ([]*candidate, int, error) {
	if len(keys) == 0 {
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].order < survivors[j].order
		})
		return survivors, 0, nil
	}

	kept := make([]*candidate, 0, len(survivors))
	values := make(map[*candidate][]sortValue, len(survivors))
	dropped := 0
	for _, cand := range survivors {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		vals := make([]sortValue, len(keys))
		resolved := true
		for k, key := range keys {
			v, err := s.keyValue(ctx, cand, key)
			if err != nil {
				logger.Warn().Err(err).
					Str("item_id", cand.item.ID).
					Str("item", cand.item.Name).
					Str("sort_field", key.Field).
					Msg("sort key resolution failed, skipping item")
				resolved = false
				break
			}
			vals[k] = v
		}
		if !resolved {
			dropped++
			continue
		}
		values[cand] = vals
		kept = append(kept, cand)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		vi, vj := values[kept[i]], values[kept[j]]
		for k, key := range keys {
			if c := vi[k].compare(vj[k], key.Descending); c != 0 {
				return c < 0
			}
		}
		return false
	})

	return kept, dropped, nil
}

// keyValue resolves one candidate's value under one key. Collections
// aggregate their children's values when the field supports it: the best
// child value for the key's direction stands in for the collection.
func (s *sorter) keyValue(ctx context.Context, cand *candidate, key SortKey) (sortValue, error) {
	field, _ := s.registry.Lookup(key.Field)

	if field.ChildAggregable && cand.item.IsCollection && len(cand.item.ChildIDs) > 0 {
		return s.aggregateChildren(ctx, cand, key)
	}

	return s.ownValue(ctx, cand, key.Field)
}

func (s *sorter) aggregateChildren(ctx context.Context, cand *candidate, key SortKey) (sortValue, error) {
	best := missingValue
	for _, childID := range cand.item.ChildIDs {
		child, ok := s.byID[childID]
		if !ok {
			continue
		}
		v, err := s.ownValue(ctx, child, key.Field)
		if err != nil {
			return missingValue, err
		}
		if v.missing {
			continue
		}
		if best.missing || v.compare(best, key.Descending) < 0 {
			best = v
		}
	}
	if best.missing {
		// No children in the run: fall back to the collection's own value.
		return s.ownValue(ctx, cand, key.Field)
	}
	return best, nil
}

func (s *sorter) ownValue(ctx context.Context, cand *candidate, fieldName string) (sortValue, error) {
	item := cand.item

	switch fieldName {
	case schema.FieldName:
		return textValue(item.Name), nil
	case schema.FieldSortName:
		if item.SortName == "" {
			return textValue(item.Name), nil
		}
		return textValue(item.SortName), nil
	case schema.FieldOfficialRating:
		return textValue(item.OfficialRating), nil
	case schema.FieldSeriesName:
		if item.SeriesID == "" {
			return missingValue, nil
		}
		facts, err := s.extract.cache.SeriesFor(ctx, item.SeriesID)
		if err != nil {
			return missingValue, err
		}
		return textValue(facts.Name), nil

	case schema.FieldProductionYear:
		if item.ProductionYear == 0 {
			return missingValue, nil
		}
		return numValue(float64(item.ProductionYear)), nil
	case schema.FieldCommunityRating:
		if item.CommunityRating == 0 {
			return missingValue, nil
		}
		return numValue(item.CommunityRating), nil
	case schema.FieldCriticRating:
		if item.CriticRating == 0 {
			return missingValue, nil
		}
		return numValue(item.CriticRating), nil
	case schema.FieldRuntimeMinutes:
		if item.RuntimeMinutes == 0 {
			return missingValue, nil
		}
		return numValue(item.RuntimeMinutes), nil
	case schema.FieldPlayCount:
		return numValue(float64(item.DataFor(s.extract.runCtx.UserID).PlayCount)), nil

	case schema.FieldPremiereDate:
		return dateValue(item.PremiereDate), nil
	case schema.FieldDateAdded:
		return dateValue(item.DateAdded), nil
	case schema.FieldDateLastSaved:
		return dateValue(item.DateLastSaved), nil
	case schema.FieldLastPlayedDate:
		return dateValue(item.DataFor(s.extract.runCtx.UserID).LastPlayed), nil

	case schema.FieldResolution:
		facts, err := s.extract.cache.StreamsFor(ctx, item.ID)
		if err != nil {
			return missingValue, err
		}
		if facts.Height == 0 {
			return missingValue, nil
		}
		return numValue(float64(facts.Height)), nil
	case schema.FieldFramerate:
		facts, err := s.extract.cache.StreamsFor(ctx, item.ID)
		if err != nil {
			return missingValue, err
		}
		if facts.Framerate == 0 {
			return missingValue, nil
		}
		return numValue(facts.Framerate), nil

	case schema.FieldSimilarity:
		score, err := s.extract.similarityScore(ctx, item, nil)
		if err != nil {
			return missingValue, err
		}
		n, ok := score.(float64)
		if !ok {
			return missingValue, nil
		}
		return numValue(n), nil

	case schema.FieldExternalListOrder:
		pos, err := s.extract.cache.PositionIn(ctx, s.listName, item)
		if err != nil {
			return missingValue, err
		}
		if pos < 0 {
			return missingValue, nil
		}
		return numValue(float64(pos)), nil

	case schema.FieldRandom:
		return numValue(shuffleWeight(s.runID, item.ID)), nil
	case schema.FieldRuleBlockOrder:
		return numValue(float64(cand.matched)), nil
	}

	return missingValue, nil
}

func dateValue(t time.Time) sortValue {
	if t.IsZero() {
		return missingValue
	}
	return numValue(float64(t.UnixNano()))
}

// shuffleWeight derives a stable pseudorandom weight for an item within a
// run. The same run ID always yields the same shuffle; a new run reshuffles.
func shuffleWeight(runID, itemID string) float64 {
	h := fnv.New64a()
	h.Write([]byte(runID))
	h.Write([]byte{0})
	h.Write([]byte(itemID))
	return float64(h.Sum64()>>11) / float64(1<<53)
}

// applyGroupLimits drops, in final order, every item past its matched
// group's per-group cap. Zero means unlimited.
func applyGroupLimits(survivors []*candidate, limits []int) []*candidate {
	taken := make([]int, len(limits))
	out := survivors[:0]
	for _, cand := range survivors {
		if cand.matched >= 0 && cand.matched < len(limits) {
			if max := limits[cand.matched]; max > 0 {
				if taken[cand.matched] >= max {
					continue
				}
				taken[cand.matched]++
			}
		}
		out = append(out, cand)
	}
	return out
}

// applyGlobalLimit keeps the first n items. Zero means unlimited.
func applyGlobalLimit(survivors []*candidate, n int) []*candidate {
	if n > 0 && len(survivors) > n {
		return survivors[:n]
	}
	return survivors
}

// applyPlaytimeCap keeps a prefix whose total runtime fits the cap in
// minutes. The first item that would overflow ends the list; nothing after
// it is admitted even if it would fit.
func applyPlaytimeCap(survivors []*candidate, capMinutes float64) []*candidate {
	if capMinutes <= 0 {
		return survivors
	}
	var total float64
	for i, cand := range survivors {
		total += cand.item.RuntimeMinutes
		if total > capMinutes {
			return survivors[:i]
		}
	}
	return survivors
}
