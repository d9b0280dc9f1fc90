package recommend

import (
	"errors"
	"testing"

	"github.com/codeGROOVE-dev/bookworm/genre"
	"github.com/codeGROOVE-dev/bookworm/review"
)

func mustVector(t *testing.T, values map[string]float64) genre.Vector {
	t.Helper()
	v, err := genre.FromMap(values)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	return v
}

func TestProfile(t *testing.T) {
	labels := map[string]genre.Vector{
		"Dune":     mustVector(t, map[string]float64{"Science Fiction": 1, "Fiction": 1}),
		"Hyperion": mustVector(t, map[string]float64{"Science Fiction": 1}),
	}
	reviews := []review.Record{
		{UserID: "u1", Title: "Dune", Rating: 5},
		{UserID: "u1", Title: "Hyperion", Rating: 4},
		{UserID: "u1", Title: "Unlabeled Memoir", Rating: 3}, // no label, dropped
	}

	prof, err := Profile(reviews, labels, 0)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}

	if prof.Reviews != 2 {
		t.Errorf("Reviews = %d, want 2", prof.Reviews)
	}

	sf, _ := genre.Index("Science Fiction")
	fic, _ := genre.Index("Fiction")
	if prof.Counts[sf] != 2 || prof.Counts[fic] != 1 {
		t.Errorf("counts: sf=%v fic=%v, want 2 and 1", prof.Counts[sf], prof.Counts[fic])
	}
	if !almostEqual(prof.Pct[sf], 1) || !almostEqual(prof.Pct[fic], 0.5) {
		t.Errorf("pct: sf=%v fic=%v, want 1 and 0.5", prof.Pct[sf], prof.Pct[fic])
	}
}

func TestProfileDeduplicatesTriples(t *testing.T) {
	labels := map[string]genre.Vector{
		"Dune": mustVector(t, map[string]float64{"Science Fiction": 1}),
	}
	reviews := []review.Record{
		{UserID: "u1", Title: "Dune", Rating: 5},
		{UserID: "u1", Title: "Dune", Rating: 5}, // duplicate page row
		{UserID: "u1", Title: "Dune", Rating: 4}, // different rating, distinct
	}

	prof, err := Profile(reviews, labels, 0)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if prof.Reviews != 2 {
		t.Errorf("Reviews = %d, want 2 after dedupe", prof.Reviews)
	}
}

func TestProfileNoLabeledReviews(t *testing.T) {
	reviews := []review.Record{{UserID: "u1", Title: "Obscure Zine", Rating: 3}}

	prof, err := Profile(reviews, map[string]genre.Vector{}, 0)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if prof.Reviews != 0 {
		t.Errorf("Reviews = %d, want 0", prof.Reviews)
	}
	if got := prof.Pct.Total(); got != 0 {
		t.Errorf("Pct total = %v, want 0", got)
	}
}

func TestProfileClampPct(t *testing.T) {
	labels := map[string]genre.Vector{
		"Dune": mustVector(t, map[string]float64{"Science Fiction": 1}),
	}
	reviews := []review.Record{{UserID: "u1", Title: "Dune", Rating: 5}}

	prof, err := Profile(reviews, labels, 0.3)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	sf, _ := genre.Index("Science Fiction")
	if !almostEqual(prof.Pct[sf], 0.3) {
		t.Errorf("clamped pct = %v, want 0.3", prof.Pct[sf])
	}
}

func TestProfileRejectsBadLabelLength(t *testing.T) {
	labels := map[string]genre.Vector{"Dune": {1, 0}}
	reviews := []review.Record{{UserID: "u1", Title: "Dune", Rating: 5}}

	_, err := Profile(reviews, labels, 0)
	if !errors.Is(err, ErrVectorLength) {
		t.Errorf("err = %v, want ErrVectorLength", err)
	}
}
