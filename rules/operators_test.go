package rules

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/listforge/listforge/catalog"
)

// compileOne builds a single compiled expression for operator tests.
func compileOne(t *testing.T, field, operator, value string) *CompiledExpression {
	t.Helper()
	compiled, err := Compile(RuleGroups{
		{Expressions: []Expression{{Field: field, Operator: operator, Value: value}}},
	})
	if err != nil {
		t.Fatalf("failed to compile %s %s %q: %v", field, operator, value, err)
	}
	return compiled.Sets[0].All[0]
}

func TestTextOperators(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		operator string
		target   string
		value    string
		expected bool
	}{
		{"equal case-insensitive", "equal", "the matrix", "The Matrix", true},
		{"equal mismatch", "equal", "The Matrix", "Matrix Reloaded", false},
		{"not equal", "not_equal", "The Matrix", "Matrix Reloaded", true},
		{"contains", "contains", "matrix", "The Matrix Reloaded", true},
		{"contains mismatch", "contains", "hobbit", "The Matrix", false},
		{"not contains", "not_contains", "hobbit", "The Matrix", true},
		{"in set", "in", "The Matrix;The Hobbit", "the hobbit", true},
		{"in set mismatch", "in", "The Matrix;The Hobbit", "Blade Runner", false},
		{"not in set", "not_in", "The Matrix;The Hobbit", "Blade Runner", true},
		{"regex", "match_regex", "(?i)^the", "the Hobbit", true},
		{"regex mismatch", "match_regex", "(?i)^the", "Matrix Reloaded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := compileOne(t, "Name", tt.operator, tt.target)
			got, err := ce.Match(tt.value, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRegexScenario(t *testing.T) {
	// "(?i)^the" against a small library keeps both "The Matrix" and
	// "the Hobbit" and drops "Matrix Reloaded".
	ce := compileOne(t, "Name", "match_regex", "(?i)^the")
	now := time.Now()

	var matched []string
	for _, name := range []string{"The Matrix", "Matrix Reloaded", "the Hobbit"} {
		ok, err := ce.Match(name, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			matched = append(matched, name)
		}
	}

	if len(matched) != 2 || matched[0] != "The Matrix" || matched[1] != "the Hobbit" {
		t.Errorf("unexpected matches: %v", matched)
	}
}

func TestListOperators(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		operator string
		target   string
		value    []string
		expected bool
	}{
		{"contains any element", "contains", "Action", []string{"Action", "Drama"}, true},
		{"contains no element", "contains", "Comedy", []string{"Action", "Drama"}, false},
		{"contains substring of element", "contains", "Sci", []string{"Sci-Fi"}, true},
		{"not contains", "not_contains", "Comedy", []string{"Action", "Drama"}, true},
		{"not contains present", "not_contains", "Action", []string{"Action"}, false},
		{"in overlaps", "in", "Action;Comedy", []string{"Drama", "Comedy"}, true},
		{"in disjoint", "in", "Action;Comedy", []string{"Drama", "Horror"}, false},
		{"not in disjoint", "not_in", "Action;Comedy", []string{"Drama", "Horror"}, true},
		{"regex any element", "match_regex", "^Sci", []string{"Drama", "Sci-Fi"}, true},
		{"empty list never matches", "contains", "Action", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := compileOne(t, "Genres", tt.operator, tt.target)
			got, err := ce.Match(tt.value, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNumericOperators(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		field    string
		operator string
		target   string
		value    any
		expected bool
	}{
		{"equal", "ProductionYear", "equal", "1999", float64(1999), true},
		{"not equal", "ProductionYear", "not_equal", "1999", float64(2000), true},
		{"greater", "CommunityRating", "greater_than", "7.5", 8.1, true},
		{"greater fails on equal", "CommunityRating", "greater_than", "7.5", 7.5, false},
		{"greater or equal", "CommunityRating", "greater_than_or_equal", "7.5", 7.5, true},
		{"less", "RuntimeMinutes", "less_than", "90", 88.0, true},
		{"less or equal boundary", "RuntimeMinutes", "less_than_or_equal", "90", 90.0, true},
		{"resolution categorical target", "Resolution", "greater_than_or_equal", "1080p", float64(2160), true},
		{"resolution below target", "Resolution", "greater_than_or_equal", "4K", float64(1080), false},
		{"framerate", "Framerate", "greater_than", "30", 59.94, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := compileOne(t, tt.field, tt.operator, tt.target)
			got, err := ce.Match(tt.value, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDateOperators(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC) // a Sunday

	tests := []struct {
		name     string
		operator string
		target   string
		value    time.Time
		expected bool
	}{
		{"equal same day", "equal", "2024-05-01", time.Date(2024, 5, 1, 20, 30, 0, 0, time.UTC), true},
		{"equal other day", "equal", "2024-05-01", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), false},
		{"after", "after", "2024-01-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"before", "before", "2024-01-01", time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), true},
		{"newer than 30d", "newer_than", "30d", now.AddDate(0, 0, -10), true},
		{"newer than boundary miss", "newer_than", "30d", now.AddDate(0, 0, -45), false},
		{"older than 1y", "older_than", "1y", now.AddDate(-2, 0, 0), true},
		{"weekday match", "on_weekday", "Sunday", now, true},
		{"weekday set", "on_weekday", "Saturday;Sunday", now, true},
		{"weekday mismatch", "on_weekday", "Monday", now, false},
		{"zero time never matches", "after", "2024-01-01", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := compileOne(t, "DateAdded", tt.operator, tt.target)
			got, err := ce.Match(tt.value, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBooleanOperators(t *testing.T) {
	now := time.Now()

	ce := compileOne(t, "IsPlayed", "equal", "false")
	if got, _ := ce.Match(false, now); !got {
		t.Error("expected unplayed item to match")
	}
	if got, _ := ce.Match(true, now); got {
		t.Error("expected played item not to match")
	}

	ce = compileOne(t, "HasSubtitles", "not_equal", "true")
	if got, _ := ce.Match(false, now); !got {
		t.Error("expected missing subtitles to match not_equal true")
	}
}

func TestExternalListMembership(t *testing.T) {
	now := time.Now()

	present := compileOne(t, "ExternalList", "equal", "Top 250")
	if got, _ := present.Match(true, now); !got {
		t.Error("expected member to match")
	}
	if got, _ := present.Match(false, now); got {
		t.Error("expected non-member not to match")
	}

	absent := compileOne(t, "ExternalList", "not_equal", "Top 250")
	if got, _ := absent.Match(false, now); !got {
		t.Error("expected non-member to match not_equal")
	}
}

func TestCustomExpressionMatch(t *testing.T) {
	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	item := catalog.Item{
		ID:             "m1",
		Name:           "Test Movie",
		ProductionYear: 2023,
		Genres:         []string{"Action", "Sci-Fi"},
		UserData: map[string]catalog.UserData{
			"alice": {Played: true, PlayCount: 2},
		},
	}

	tests := []struct {
		name     string
		source   string
		operator string
		expected bool
	}{
		{"genre and year", `hasGenre("action") and ProductionYear > 2020`, "equal", true},
		{"played by reference user", `IsPlayed and PlayCount >= 2`, "equal", true},
		{"negated", `hasGenre("horror")`, "not_equal", true},
		{"false expression", `ProductionYear > 2030`, "equal", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := compileOne(t, "CustomExpression", tt.operator, tt.source)
			got, err := ce.Match(ExprInput{Item: item, UserID: "alice"}, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRegexTimeoutIsError(t *testing.T) {
	re := regexp.MustCompile(`a+`)
	// A zero-length timeout cannot be distinguished from "disabled", so use
	// one nanosecond to force the deadline to fire before the match returns.
	_, err := matchRegexBounded(re, veryLongInput(), time.Nanosecond)
	if err != nil && !errors.Is(err, ErrRegexTimeout) {
		t.Fatalf("expected ErrRegexTimeout, got %v", err)
	}
	// Timing-dependent: the match may still win the race on a fast machine,
	// in which case err is nil and that is acceptable.
}

func TestRelativeDurationParsing(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"3mo", 90 * 24 * time.Hour, false},
		{"1y", 365 * 24 * time.Hour, false},
		{"36h", 36 * time.Hour, false},
		{"", 0, true},
		{"-3d", 0, true},
		{"someday", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRelativeDuration(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func veryLongInput() string {
	b := make([]byte, 1<<20)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
