package recommend

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/codeGROOVE-dev/bookworm/genre"
)

// ErrVectorLength reports a genre vector whose length does not match the
// vocabulary. It indicates a reference-table mismatch, not source flakiness,
// and is surfaced to the caller.
var ErrVectorLength = errors.New("genre vector length mismatch")

// cosine returns the cosine similarity of two vocabulary-sized vectors.
// A zero vector has no direction; its similarity to anything is 0.
func cosine(a, b genre.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVectorLength
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// score blends a volume count with an affinity fraction: count * pct^alpha.
// Higher alpha suppresses high-volume, low-affinity entries. Monotonically
// non-decreasing in both inputs for alpha >= 0.
func score(count, pct, alpha float64) float64 {
	return count * math.Pow(pct, alpha)
}

// minMaxScale rescales values into [0, maxValue]. A zero-variance series maps
// every element to the midpoint of the range rather than dividing by zero.
func minMaxScale(values []float64, maxValue float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	if minVal == maxVal {
		for i := range out {
			out[i] = maxValue / 2
		}
		return out
	}

	for i, v := range values {
		out[i] = (v - minVal) / (maxVal - minVal) * maxValue
	}
	return out
}

// quantile returns the q-quantile of sorted values via linear interpolation.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// noveltyBinWidth is the quantile grid step over the 0.1-0.9 decile range.
const noveltyBinWidth = 0.001

// noveltyLabels maps each raw popularity count to the quantile value of the
// fine-grained bin it falls into, rounded to 2 decimals. Labels grow with
// popularity; the caller inverts them into novelty.
func noveltyLabels(counts []float64) []float64 {
	if len(counts) == 0 {
		return nil
	}

	const start, stop = 0.1, 1.0
	bins := int((stop - start) / noveltyBinWidth)

	sorted := append([]float64(nil), counts...)
	sort.Float64s(sorted)

	edges := make([]float64, bins)
	quantiles := make([]float64, bins)
	for i := range bins {
		quantiles[i] = start + noveltyBinWidth*float64(i)
		edges[i] = quantile(sorted, quantiles[i])
	}

	labels := make([]float64, len(counts))
	for i, c := range counts {
		idx := sort.SearchFloat64s(edges, c)
		if idx > bins-1 {
			idx = bins - 1
		}
		labels[i] = round2(quantiles[idx])
	}
	return labels
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }

// formatThousands renders a rating count in compact "N.Nk" form:
// 12345 -> "12.3k", 24992 -> "25k", 300 -> "0.3k".
func formatThousands(n int) string {
	s := strconv.FormatFloat(float64(n)/1000, 'f', 1, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + "k"
}
