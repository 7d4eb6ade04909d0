package detect

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func bruteRadius(points [][]float64, i int, eps float64) []int {
	var out []int
	for j := range points {
		if j != i && dist(points[j], points[i]) <= eps {
			out = append(out, j)
		}
	}
	sort.Ints(out)
	return out
}

func TestRadiusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, dims := range []int{1, 3, 10} {
		points := make([][]float64, 60)
		for i := range points {
			p := make([]float64, dims)
			for d := range p {
				p[d] = rng.NormFloat64()
			}
			points[i] = p
		}

		tree := newKDTree(points)
		for _, eps := range []float64{0.1, 0.5, 1.5} {
			for i := range points {
				got := tree.radius(i, eps)
				want := bruteRadius(points, i, eps)
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("dims=%d eps=%g point %d: tree %v, brute force %v",
						dims, eps, i, got, want)
				}
			}
		}
	}
}

func TestRadiusExcludesSelfNotDuplicates(t *testing.T) {
	// Two points at the same coordinates: each sees the other, not itself.
	points := [][]float64{{1, 1}, {1, 1}, {5, 5}}
	tree := newKDTree(points)

	if got := tree.radius(0, 0.01); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("radius(0) = %v, want [1]", got)
	}
	if got := tree.radius(1, 0.01); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("radius(1) = %v, want [0]", got)
	}
	if got := tree.radius(2, 0.01); got != nil {
		t.Errorf("radius(2) = %v, want none", got)
	}
}

func TestRadiusEmptyTree(t *testing.T) {
	tree := newKDTree(nil)
	if got := tree.radius(0, 1); got != nil {
		t.Errorf("radius on empty tree = %v, want nil", got)
	}
}

func TestNormalizeZeroVariance(t *testing.T) {
	points := [][]float64{{5, 1}, {5, 2}, {5, 3}}
	normalize(points)
	for i, p := range points {
		if p[0] != 0 {
			t.Errorf("point %d: zero-variance dim = %g, want 0", i, p[0])
		}
	}
	// The varying dimension keeps its ordering and is centered.
	if !(points[0][1] < points[1][1] && points[1][1] < points[2][1]) {
		t.Errorf("normalized ordering broken: %v", points)
	}
	if points[1][1] != 0 {
		t.Errorf("mean value should normalize to 0, got %g", points[1][1])
	}
}
