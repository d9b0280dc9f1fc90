// Package genre defines the closed genre vocabulary and the vectors built over it.
//
// Every vector-producing component in the module indexes its vectors over Names,
// so vector arithmetic is always positionally well-defined.
package genre

import "fmt"

// Names is the ordered, closed genre vocabulary. Positions in every Vector
// correspond to positions in this slice.
var Names = []string{
	"Art",
	"Biography",
	"Business",
	"Chick Lit",
	"Children's",
	"Christian",
	"Classics",
	"Comics",
	"Contemporary",
	"Cookbooks",
	"Crime",
	"Ebooks",
	"Fantasy",
	"Fiction",
	"Gay and Lesbian",
	"Graphic Novels",
	"Historical Fiction",
	"History",
	"Horror",
	"Humor and Comedy",
	"Manga",
	"Memoir",
	"Music",
	"Mystery",
	"Nonfiction",
	"Paranormal",
	"Philosophy",
	"Poetry",
	"Psychology",
	"Religion",
	"Romance",
	"Science",
	"Science Fiction",
	"Self Help",
	"Suspense",
	"Spirituality",
	"Sports",
	"Thriller",
	"Travel",
	"Young Adult",
}

// Count is the size of the vocabulary.
var Count = len(Names)

var index = func() map[string]int {
	m := make(map[string]int, len(Names))
	for i, n := range Names {
		m[n] = i
	}
	return m
}()

// Index returns the position of a genre name in the vocabulary.
func Index(name string) (int, bool) {
	i, ok := index[name]
	return i, ok
}

// Vector holds one value per genre, ordered by Names.
type Vector []float64

// NewVector returns a zero vector sized to the vocabulary.
func NewVector() Vector {
	return make(Vector, Count)
}

// FromMap builds a Vector from a genre-name keyed map. Names absent from the
// map are zero. An unknown genre name is a reference-table mismatch and
// returns an error rather than being dropped.
func FromMap(values map[string]float64) (Vector, error) {
	v := NewVector()
	for name, val := range values {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("unknown genre %q", name)
		}
		v[i] = val
	}
	return v, nil
}

// Add accumulates other into v. Both vectors must be vocabulary-sized.
func (v Vector) Add(other Vector) {
	for i := range v {
		v[i] += other[i]
	}
}

// Total returns the sum of all entries.
func (v Vector) Total() float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum
}

// Scale divides every entry by the divisor, returning a new vector.
func (v Vector) Scale(divisor float64) Vector {
	out := NewVector()
	for i, x := range v {
		out[i] = x / divisor
	}
	return out
}

// Clamp caps every entry at upper, returning a new vector.
func (v Vector) Clamp(upper float64) Vector {
	out := NewVector()
	for i, x := range v {
		if x > upper {
			x = upper
		}
		out[i] = x
	}
	return out
}
