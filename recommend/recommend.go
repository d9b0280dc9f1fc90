// Package recommend turns a genre-affinity profile into a ranked book list.
//
// The pipeline is deterministic and closed-form: genre vectorization, cosine
// neighbor ranking, expert rating aggregation, quantile novelty scoring, and
// a final merge/rank/dedupe. Every request is stateless given its inputs.
package recommend

import (
	"fmt"
	"sort"

	"github.com/codeGROOVE-dev/bookworm/dataset"
	"github.com/codeGROOVE-dev/bookworm/genre"
	"github.com/codeGROOVE-dev/bookworm/review"
)

// Params tune one recommendation request.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Params struct {
	// NoveltyFactor trades popular/safe against rare/surprising picks.
	// 0.1 keeps recommendations classic; 1.0 favors little-known books.
	NoveltyFactor float64

	// RatingEmphasis amplifies the influence of books many experts rated.
	RatingEmphasis float64

	// Alpha discounts cohort volume against affinity when ranking neighbors.
	Alpha float64

	// MinSimilarity is the cosine floor below which a cohort member is
	// never considered a neighbor.
	MinSimilarity float64

	// ExpertFloor re-filters the selected experts, possibly stricter than
	// MinSimilarity.
	ExpertFloor float64

	TopExperts int
	MaxResults int

	// ClampPct caps any single genre's influence when profiling; 0 disables.
	ClampPct float64

	// HideRead drops titles already present in UserReviews.
	HideRead    bool
	UserReviews []review.Record
}

func (p *Params) setDefaults() {
	if p.NoveltyFactor == 0 {
		p.NoveltyFactor = 0.1
	}
	if p.RatingEmphasis == 0 {
		p.RatingEmphasis = 2
	}
	if p.Alpha == 0 {
		p.Alpha = 250
	}
	if p.MinSimilarity == 0 {
		p.MinSimilarity = 0.8
	}
	if p.ExpertFloor == 0 {
		p.ExpertFloor = p.MinSimilarity
	}
	if p.TopExperts == 0 {
		p.TopExperts = 100
	}
	if p.MaxResults == 0 {
		p.MaxResults = 50
	}
}

// Recommendation is one ranked book with its catalog metadata merged in.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Recommendation struct {
	Title     string
	Author    string
	Published string

	Score   float64 // final adjusted score in [0,100]
	Rating  float64 // expert mean rating, 1 decimal
	Count   int     // experts who rated the book
	Novelty float64 // inverse popularity in [0,1]

	OverallRating float64 // sitewide historical rating, 1 decimal
	Ratings       string  // sitewide rating count, compact "N.Nk" form
}

// Recommend produces the ranked book list and the neighbor display list for
// one target genre-percentage vector.
//
// Reference-table mismatches (missing tables, wrong vector lengths) are
// programming or configuration errors and propagate; an empty result from a
// sparse cohort is not an error.
func Recommend(target genre.Vector, tables *dataset.Tables, params Params) ([]Recommendation, []Neighbor, error) {
	params.setDefaults()

	if err := tables.Validate(); err != nil {
		return nil, nil, err
	}
	if len(target) != genre.Count {
		return nil, nil, fmt.Errorf("target: %w", ErrVectorLength)
	}

	ranked, err := RankBySimilarity(target, tables.Cohort, params.Alpha, params.MinSimilarity)
	if err != nil {
		return nil, nil, err
	}

	experts := SelectExperts(ranked, params.TopExperts, params.ExpertFloor)
	if len(experts) == 0 {
		return nil, nil, nil
	}
	neighbors := displayNeighbors(experts, tables.Users)

	books := AggregateRatings(experts, tables.Ratings, params.RatingEmphasis)
	recs := mergeAndRank(books, tables.Books, params)

	return recs, neighbors, nil
}

// displayNeighbors enriches the expert list with directory names and rounds
// similarity for presentation.
func displayNeighbors(experts []Neighbor, users map[string]dataset.UserMeta) []Neighbor {
	out := make([]Neighbor, len(experts))
	for i, n := range experts {
		n.Similarity = round3(n.Similarity)
		if meta, ok := users[n.UserID]; ok {
			n.Name = meta.Name
		}
		out[i] = n
	}
	return out
}

// mergeAndRank joins catalog metadata onto the scored books, applies novelty,
// deduplicates edition variants, and truncates to the final list.
func mergeAndRank(books []BookScore, catalog map[string]dataset.BookMeta, params Params) []Recommendation {
	type scored struct {
		book BookScore
		meta dataset.BookMeta
	}

	// Inner join: unmatched titles get no synthetic metadata, they drop out.
	merged := make([]scored, 0, len(books))
	for _, b := range books {
		meta, ok := catalog[b.Title]
		if !ok {
			continue
		}
		merged = append(merged, scored{book: b, meta: meta})
	}
	if len(merged) == 0 {
		return nil
	}

	popularity := make([]float64, len(merged))
	for i, m := range merged {
		popularity[i] = float64(m.meta.NumRatings)
	}
	labels := noveltyLabels(popularity)

	novelty := make([]float64, len(merged))
	adjusted := make([]float64, len(merged))
	for i := range merged {
		novelty[i] = label2novelty(labels[i])
		adjusted[i] = score(merged[i].book.Score, novelty[i], params.NoveltyFactor)
	}
	adjusted = minMaxScale(adjusted, 100)

	read := make(map[string]bool, len(params.UserReviews))
	if params.HideRead {
		for _, rec := range params.UserReviews {
			read[rec.Title] = true
		}
	}

	seen := make(map[string]bool, len(merged))
	recs := make([]Recommendation, 0, len(merged))
	for i, m := range merged {
		if params.HideRead && read[m.book.Title] {
			continue
		}

		// Collapse edition duplicates sharing author, date, and rating.
		dedupeKey := fmt.Sprintf("%s|%s|%.3f", m.meta.Author, m.meta.Published, m.meta.Rating)
		if seen[dedupeKey] {
			continue
		}
		seen[dedupeKey] = true

		recs = append(recs, Recommendation{
			Title:         m.book.Title,
			Author:        m.meta.Author,
			Published:     m.meta.Published,
			Score:         round1(adjusted[i]),
			Rating:        round1(m.book.Rating),
			Count:         m.book.Count,
			Novelty:       novelty[i],
			OverallRating: round1(m.meta.Rating),
			Ratings:       formatThousands(m.meta.NumRatings),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > params.MaxResults {
		recs = recs[:params.MaxResults]
	}
	return recs
}

// label2novelty inverts a popularity quantile label into novelty: rarely
// rated books score near 1, heavily rated books near 0.
func label2novelty(label float64) float64 {
	n := 1 - label
	if n < 0 {
		n = -n
	}
	return n
}
