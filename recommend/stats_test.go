package recommend

import (
	"math"
	"testing"

	"github.com/codeGROOVE-dev/bookworm/genre"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCosine(t *testing.T) {
	a := genre.Vector{1, 0, 2, 0}
	b := genre.Vector{0, 3, 0, 4}
	zero := genre.Vector{0, 0, 0, 0}

	tests := []struct {
		name string
		x, y genre.Vector
		want float64
	}{
		{"identical", a, a, 1},
		{"orthogonal", a, b, 0},
		{"zero left", zero, a, 0},
		{"zero right", a, zero, 0},
		{"both zero", zero, zero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cosine(tt.x, tt.y)
			if err != nil {
				t.Fatalf("cosine: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineLengthMismatch(t *testing.T) {
	if _, err := cosine(genre.Vector{1, 2}, genre.Vector{1, 2, 3}); err == nil {
		t.Error("expected error for mismatched vector lengths")
	}
}

func TestScoreMonotonic(t *testing.T) {
	const alpha = 250

	// More reading at equal affinity scores higher.
	if score(200, 0.95, alpha) <= score(100, 0.95, alpha) {
		t.Error("score should grow with count")
	}
	// Higher affinity at equal volume scores higher.
	if score(100, 0.96, alpha) <= score(100, 0.95, alpha) {
		t.Error("score should grow with affinity")
	}
	// A large alpha collapses low-affinity volume.
	if got := score(1e6, 0.5, alpha); got > 1e-6 {
		t.Errorf("low affinity should be suppressed, got %v", got)
	}
}

func TestMinMaxScale(t *testing.T) {
	got := minMaxScale([]float64{2, 4, 6}, 100)
	want := []float64{0, 50, 100}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("scaled[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMinMaxScaleZeroVariance(t *testing.T) {
	got := minMaxScale([]float64{7, 7, 7}, 100)
	for i, v := range got {
		if !almostEqual(v, 50) {
			t.Errorf("scaled[%d] = %v, want midpoint 50", i, v)
		}
	}
}

func TestMinMaxScaleEmpty(t *testing.T) {
	if got := minMaxScale(nil, 100); len(got) != 0 {
		t.Errorf("scaled empty input to %v", got)
	}
}

func TestNoveltyLabelsMonotonic(t *testing.T) {
	counts := []float64{50, 500, 5000, 50000, 500000}
	labels := noveltyLabels(counts)

	for i := range labels {
		if labels[i] < 0.1 || labels[i] > 1.0 {
			t.Errorf("label[%d] = %v, outside [0.1, 1.0]", i, labels[i])
		}
		if i > 0 && labels[i] < labels[i-1] {
			t.Errorf("labels not monotonic at %d: %v < %v", i, labels[i], labels[i-1])
		}
	}

	// The rarest book inverts to the highest novelty.
	rarest := label2novelty(labels[0])
	commonest := label2novelty(labels[len(labels)-1])
	if rarest <= commonest {
		t.Errorf("novelty(rarest)=%v should exceed novelty(commonest)=%v", rarest, commonest)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 2},
		{0.5, 3},
		{1, 5},
	}
	for _, tt := range tests {
		if got := quantile(sorted, tt.q); !almostEqual(got, tt.want) {
			t.Errorf("quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
	if got := quantile([]float64{9}, 0.7); got != 9 {
		t.Errorf("single-element quantile = %v, want 9", got)
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{12345, "12.3k"},
		{24992, "25k"},
		{300, "0.3k"},
		{1000, "1k"},
		{0, "0k"},
	}
	for _, tt := range tests {
		if got := formatThousands(tt.n); got != tt.want {
			t.Errorf("formatThousands(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
