package schema

import (
	"testing"
)

func TestLookupCaseInsensitive(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact", "Genres", FieldGenres},
		{"lower", "genres", FieldGenres},
		{"upper", "GENRES", FieldGenres},
		{"mixed", "dateADDED", FieldDateAdded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Default.Lookup(tt.query)
			if !ok {
				t.Fatalf("expected field %q to resolve", tt.query)
			}
			if f.Name != tt.want {
				t.Errorf("expected %q but got %q", tt.want, f.Name)
			}
		})
	}

	if _, ok := Default.Lookup("NoSuchField"); ok {
		t.Error("expected unknown field to miss")
	}
}

func TestExpensiveDetection(t *testing.T) {
	tests := []struct {
		field     string
		expensive bool
	}{
		{FieldName, false},
		{FieldGenres, false},
		{FieldIsPlayed, false},
		{FieldPlayCount, false},
		{FieldActors, true},
		{FieldCollections, true},
		{FieldPlaylists, true},
		{FieldAudioLanguages, true},
		{FieldSeriesName, true},
		{FieldNextUnwatched, true},
		{FieldExternalList, true},
		{FieldLibraryName, true},
		{FieldSimilarity, false}, // people sub-field opts in per rule
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := Default.IsExpensive(tt.field); got != tt.expensive {
				t.Errorf("IsExpensive(%s) = %v, want %v", tt.field, got, tt.expensive)
			}
		})
	}
}

func TestEveryUsableFieldHasOperators(t *testing.T) {
	for _, f := range Default.Fields() {
		if f.SortOnly {
			continue
		}
		if len(f.Operators) == 0 {
			t.Errorf("field %q has no operators", f.Name)
		}
	}
}

func TestPersonFieldsCarryRoles(t *testing.T) {
	for _, f := range Default.Fields() {
		if f.PersonField && f.Role == "" {
			t.Errorf("person field %q has no role", f.Name)
		}
		if !f.PersonField && f.Role != "" {
			t.Errorf("non-person field %q has role %q", f.Name, f.Role)
		}
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]FieldMetadata{
		{Name: "Title", Type: TypeText, Operators: textOperators},
		{Name: "title", Type: TypeText, Operators: textOperators},
	})
	if err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}
}

func TestNewRegistryRejectsEmptyOperatorSet(t *testing.T) {
	_, err := NewRegistry([]FieldMetadata{
		{Name: "Broken", Type: TypeText},
	})
	if err == nil {
		t.Fatal("expected empty operator set to be rejected")
	}
}

func TestGroupBitsetSemantics(t *testing.T) {
	g := GroupBasic | GroupPeople
	if !g.Has(GroupPeople) {
		t.Error("expected bitset to contain GroupPeople")
	}
	if g.Has(GroupStreams) {
		t.Error("did not expect GroupStreams")
	}
	if !g.Expensive() {
		t.Error("people group should be expensive")
	}
	if (GroupBasic | GroupUserData).Expensive() {
		t.Error("cheap groups should not be expensive")
	}
}
