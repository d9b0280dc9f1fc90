package genre

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIndexCoversVocabulary(t *testing.T) {
	for i, name := range Names {
		got, ok := Index(name)
		if !ok {
			t.Errorf("Index(%q) missing", name)
			continue
		}
		if got != i {
			t.Errorf("Index(%q) = %d, want %d", name, got, i)
		}
	}
	if _, ok := Index("Basket Weaving"); ok {
		t.Error("Index accepted a name outside the vocabulary")
	}
}

func TestFromMap(t *testing.T) {
	v, err := FromMap(map[string]float64{"Fantasy": 3, "Horror": 1})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if len(v) != Count {
		t.Fatalf("len = %d, want %d", len(v), Count)
	}

	fantasy, _ := Index("Fantasy")
	horror, _ := Index("Horror")
	if v[fantasy] != 3 || v[horror] != 1 {
		t.Errorf("values not placed: fantasy=%v horror=%v", v[fantasy], v[horror])
	}
	if v.Total() != 4 {
		t.Errorf("Total = %v, want 4", v.Total())
	}
}

func TestFromMapRejectsUnknownGenre(t *testing.T) {
	if _, err := FromMap(map[string]float64{"Steampunk Cooking": 1}); err == nil {
		t.Error("expected error for unknown genre name")
	}
}

func TestVectorArithmetic(t *testing.T) {
	a, err := FromMap(map[string]float64{"Fiction": 2, "Poetry": 4})
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromMap(map[string]float64{"Fiction": 1, "Travel": 1})
	if err != nil {
		t.Fatal(err)
	}

	a.Add(b)
	want, err := FromMap(map[string]float64{"Fiction": 3, "Poetry": 4, "Travel": 1})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("Add mismatch (-want +got):\n%s", diff)
	}

	scaled := a.Scale(8)
	if got := scaled.Total(); got != 1 {
		t.Errorf("Scale total = %v, want 1", got)
	}

	clamped := scaled.Clamp(0.25)
	for i, x := range clamped {
		if x > 0.25 {
			t.Errorf("Clamp left %v at index %d", x, i)
		}
	}
}
