package recommend

import (
	"fmt"
	"sort"

	"github.com/codeGROOVE-dev/bookworm/dataset"
	"github.com/codeGROOVE-dev/bookworm/genre"
)

// Neighbor is one cohort member ranked against the target profile.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Neighbor struct {
	UserID     string
	Name       string  // filled from the user directory for display
	Similarity float64 // cosine similarity, always >= the configured floor
	ReadCount  int     // total labeled reviews by this member
	Score      float64 // ReadCount * Similarity^alpha
	Weight     float64 // normalized score share among selected experts
}

// RankBySimilarity scores every cohort member against the target genre
// percentage vector and returns the qualifying members ordered by descending
// score.
//
// Members below minSimilarity are excluded before scoring, so they never
// contribute to downstream weight normalization. Ties keep original cohort
// order.
func RankBySimilarity(target genre.Vector, cohort []dataset.CohortMember, alpha, minSimilarity float64) ([]Neighbor, error) {
	if len(target) != genre.Count {
		return nil, fmt.Errorf("target: %w", ErrVectorLength)
	}

	ranked := make([]Neighbor, 0, len(cohort))
	for _, member := range cohort {
		sim, err := cosine(target, member.Pct)
		if err != nil {
			return nil, fmt.Errorf("cohort member %s: %w", member.UserID, err)
		}
		if sim < minSimilarity {
			continue
		}
		ranked = append(ranked, Neighbor{
			UserID:     member.UserID,
			Similarity: sim,
			ReadCount:  member.ReadCount,
			Score:      score(float64(member.ReadCount), sim, alpha),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked, nil
}

// SelectExperts takes the top-N ranked neighbors, re-filters by a possibly
// stricter similarity floor, and normalizes each survivor's score into a
// weight summing to 1 across the selection.
func SelectExperts(ranked []Neighbor, topN int, floor float64) []Neighbor {
	if topN > len(ranked) {
		topN = len(ranked)
	}

	experts := make([]Neighbor, 0, topN)
	var totalScore float64
	for _, n := range ranked[:topN] {
		if n.Similarity < floor {
			continue
		}
		experts = append(experts, n)
		totalScore += n.Score
	}

	for i := range experts {
		if totalScore > 0 {
			experts[i].Weight = experts[i].Score / totalScore
		} else {
			experts[i].Weight = 1 / float64(len(experts))
		}
	}
	return experts
}
