package recommend

import "sort"

// BookScore is one book's aggregate standing among the selected experts.
//
//nolint:govet // fieldalignment: intentional layout for readability
type BookScore struct {
	Title  string
	Rating float64 // mean rating among experts who rated it (unrated cells ignored)
	Count  int     // how many experts rated it
	Score  float64 // count * rating^emphasis, min-max scaled to [0,100]
}

// AggregateRatings restricts the user-item rating matrix to the selected
// experts and computes per-book mean rating and rater count. A zero cell
// means "unrated" and is masked out; books no expert rated are dropped.
// Scores are min-max scaled to [0,100] and rounded to 1 decimal.
func AggregateRatings(experts []Neighbor, ratings map[string]map[string]float64, ratingEmphasis float64) []BookScore {
	type agg struct {
		sum   float64
		count int
	}
	byTitle := make(map[string]*agg)

	for _, expert := range experts {
		for title, rating := range ratings[expert.UserID] {
			if rating == 0 {
				continue
			}
			a := byTitle[title]
			if a == nil {
				a = &agg{}
				byTitle[title] = a
			}
			a.sum += rating
			a.count++
		}
	}

	books := make([]BookScore, 0, len(byTitle))
	for title, a := range byTitle {
		mean := a.sum / float64(a.count)
		books = append(books, BookScore{
			Title:  title,
			Rating: mean,
			Count:  a.count,
			Score:  score(float64(a.count), mean, ratingEmphasis),
		})
	}

	// Deterministic order before scaling: map iteration order is random.
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })

	raw := make([]float64, len(books))
	for i, b := range books {
		raw[i] = b.Score
	}
	scaled := minMaxScale(raw, 100)
	for i := range books {
		books[i].Score = round1(scaled[i])
	}

	sort.SliceStable(books, func(i, j int) bool { return books[i].Score > books[j].Score })
	return books
}
