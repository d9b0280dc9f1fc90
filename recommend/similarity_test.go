package recommend

import (
	"errors"
	"testing"

	"github.com/codeGROOVE-dev/bookworm/dataset"
	"github.com/codeGROOVE-dev/bookworm/genre"
)

func testCohort(t *testing.T) []dataset.CohortMember {
	t.Helper()
	return []dataset.CohortMember{
		{UserID: "twin", Pct: mustVector(t, map[string]float64{"Fantasy": 0.8, "Fiction": 0.6}), ReadCount: 10},
		{UserID: "close", Pct: mustVector(t, map[string]float64{"Fantasy": 0.6, "Fiction": 0.8}), ReadCount: 100},
		{UserID: "stranger", Pct: mustVector(t, map[string]float64{"Travel": 1}), ReadCount: 500},
		{UserID: "bigtwin", Pct: mustVector(t, map[string]float64{"Fantasy": 0.8, "Fiction": 0.6}), ReadCount: 50},
	}
}

func TestRankBySimilarity(t *testing.T) {
	target := mustVector(t, map[string]float64{"Fantasy": 0.8, "Fiction": 0.6})

	// alpha=1 keeps scores human-checkable: score = readCount * similarity.
	ranked, err := RankBySimilarity(target, testCohort(t), 1, 0.8)
	if err != nil {
		t.Fatalf("RankBySimilarity: %v", err)
	}

	wantOrder := []string{"close", "bigtwin", "twin"}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("ranked %d members, want %d", len(ranked), len(wantOrder))
	}
	for i, want := range wantOrder {
		if ranked[i].UserID != want {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].UserID, want)
		}
	}

	// The orthogonal member was filtered before scoring, not just ranked last.
	for _, n := range ranked {
		if n.UserID == "stranger" {
			t.Error("member below the similarity floor leaked into the ranking")
		}
		if n.Similarity < 0.8 {
			t.Errorf("member %s similarity %v below floor", n.UserID, n.Similarity)
		}
	}
}

func TestRankBySimilarityBadTarget(t *testing.T) {
	_, err := RankBySimilarity(genre.Vector{1, 2}, testCohort(t), 250, 0.8)
	if !errors.Is(err, ErrVectorLength) {
		t.Errorf("err = %v, want ErrVectorLength", err)
	}
}

func TestSelectExperts(t *testing.T) {
	ranked := []Neighbor{
		{UserID: "a", Similarity: 0.99, Score: 96},
		{UserID: "b", Similarity: 0.95, Score: 50},
		{UserID: "c", Similarity: 0.90, Score: 10},
	}

	experts := SelectExperts(ranked, 2, 0.8)
	if len(experts) != 2 {
		t.Fatalf("selected %d experts, want 2", len(experts))
	}

	var total float64
	for _, e := range experts {
		total += e.Weight
	}
	if !almostEqual(total, 1) {
		t.Errorf("weights sum to %v, want 1", total)
	}
	if !almostEqual(experts[0].Weight, 96.0/146) {
		t.Errorf("top expert weight = %v, want %v", experts[0].Weight, 96.0/146)
	}
}

func TestSelectExpertsStricterFloor(t *testing.T) {
	ranked := []Neighbor{
		{UserID: "a", Similarity: 0.99, Score: 96},
		{UserID: "b", Similarity: 0.85, Score: 50},
	}

	experts := SelectExperts(ranked, 2, 0.9)
	if len(experts) != 1 || experts[0].UserID != "a" {
		t.Fatalf("experts = %+v, want only a", experts)
	}
	if !almostEqual(experts[0].Weight, 1) {
		t.Errorf("sole expert weight = %v, want 1", experts[0].Weight)
	}
}

func TestSelectExpertsZeroScores(t *testing.T) {
	ranked := []Neighbor{
		{UserID: "a", Similarity: 0.9, Score: 0},
		{UserID: "b", Similarity: 0.9, Score: 0},
	}

	experts := SelectExperts(ranked, 2, 0.8)
	for _, e := range experts {
		if !almostEqual(e.Weight, 0.5) {
			t.Errorf("expert %s weight = %v, want equal share 0.5", e.UserID, e.Weight)
		}
	}
}

func TestSelectExpertsEmpty(t *testing.T) {
	if experts := SelectExperts(nil, 100, 0.8); len(experts) != 0 {
		t.Errorf("experts from empty ranking = %+v, want none", experts)
	}
}
