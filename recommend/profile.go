package recommend

import (
	"fmt"

	"github.com/codeGROOVE-dev/bookworm/genre"
	"github.com/codeGROOVE-dev/bookworm/review"
)

// GenreProfile is one user's genre-affinity profile: per-genre read counts
// and read-percentages over the fixed vocabulary. Rebuilt per request, never
// persisted.
type GenreProfile struct {
	Counts  genre.Vector
	Pct     genre.Vector
	Reviews int // labeled reviews contributing to the profile
}

// Profile joins a user's reviews against the genre-label table and produces
// their genre profile.
//
// Reviews for titles absent from the label table are dropped, not errors.
// Duplicate (title, user, rating) triples are counted once, guarding against
// double-counted pages. A user with no labeled reviews gets empty vectors
// rather than a division by zero. clampPct > 0 caps any single genre's
// percentage after the division.
func Profile(reviews []review.Record, labels map[string]genre.Vector, clampPct float64) (GenreProfile, error) {
	counts := genre.NewVector()
	seen := make(map[string]bool, len(reviews))
	total := 0

	for _, rec := range reviews {
		labelVec, ok := labels[rec.Title]
		if !ok {
			continue
		}
		if len(labelVec) != genre.Count {
			return GenreProfile{}, fmt.Errorf("label for %q: %w", rec.Title, ErrVectorLength)
		}

		key := fmt.Sprintf("%s|%s|%d", rec.Title, rec.UserID, rec.Rating)
		if seen[key] {
			continue
		}
		seen[key] = true

		counts.Add(labelVec)
		total++
	}

	if total == 0 {
		return GenreProfile{Counts: counts, Pct: genre.NewVector()}, nil
	}

	pct := counts.Scale(float64(total))
	if clampPct > 0 {
		pct = pct.Clamp(clampPct)
	}

	return GenreProfile{Counts: counts, Pct: pct, Reviews: total}, nil
}
