package testutil

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/kdtree/distance"
)

// Match is a brute-force search result.
type Match struct {
	Index    int
	Point    []float32
	Distance float32
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// UniformPoints generates random points with coordinates in [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformPoints(num, dimensions int) [][]float32 {
	return r.RangePoints(num, dimensions, 0, 1)
}

// RangePoints generates random points with coordinates in [minVal, maxVal).
func (r *RNG) RangePoints(num, dimensions int, minVal, maxVal float32) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	points := grid(num, dimensions)
	for _, p := range points {
		for j := range p {
			p[j] = minVal + r.rand.Float32()*span
		}
	}
	return points
}

// GaussianPoints generates points with coordinates from a standard normal distribution.
func (r *RNG) GaussianPoints(num, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := grid(num, dimensions)
	for _, p := range points {
		for j := range p {
			p[j] = float32(r.rand.NormFloat64())
		}
	}
	return points
}

// ClusteredPoints generates points scattered around random centers in
// [-1, 1). spread is the standard deviation of the Gaussian noise.
func (r *RNG) ClusteredPoints(num, dimensions, clusters int, spread float32) [][]float32 {
	centers := r.RangePoints(clusters, dimensions, -1, 1)

	r.mu.Lock()
	defer r.mu.Unlock()

	points := grid(num, dimensions)
	for i, p := range points {
		c := centers[i%clusters]
		for j := range p {
			p[j] = c[j] + float32(r.rand.NormFloat64())*spread
		}
	}
	return points
}

// Shuffle returns a shuffled copy of the outer slice. The points themselves
// are shared.
func (r *RNG) Shuffle(points [][]float32) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := slices.Clone(points)
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Diagonal returns num points on the main diagonal starting at start with a
// step of one: (start, start, ...), (start+1, start+1, ...), ...
func Diagonal(num, dimensions int, start float32) [][]float32 {
	points := grid(num, dimensions)
	for i, p := range points {
		for j := range p {
			p[j] = start + float32(i)
		}
	}
	return points
}

// ExactKNN returns the k points closest to query by Euclidean distance,
// computed by brute force. Ties keep dataset order.
func ExactKNN(query []float32, dataset [][]float32, k int) []Match {
	all := scan(query, dataset, math.MaxFloat32)
	return all[:min(k, len(all))]
}

// ExactRadius returns every point within radius of query, ordered by
// ascending distance.
func ExactRadius(query []float32, dataset [][]float32, radius float32) []Match {
	return scan(query, dataset, radius)
}

// ComputeRecall computes recall@k by comparing result distances against
// ground truth. A result counts as a hit when its distance is within the
// k-th true distance.
func ComputeRecall(groundTruth []Match, approximate []float32) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))
	bound := groundTruth[k-1].Distance

	hits := 0
	for _, d := range approximate[:k] {
		if d <= bound {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

func scan(query []float32, dataset [][]float32, radius float32) []Match {
	out := make([]Match, 0)
	for i, p := range dataset {
		if d := distance.Euclidean(query, p); d <= radius {
			out = append(out, Match{Index: i, Point: p, Distance: d})
		}
	}
	slices.SortStableFunc(out, func(a, b Match) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return out
}

func grid(num, dimensions int) [][]float32 {
	data := make([]float32, num*dimensions)
	points := make([][]float32, num)
	for i := range num {
		points[i] = data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
	}
	return points
}
