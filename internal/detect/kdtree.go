package detect

import (
	"math"
	"sort"
)

// kdTree is a static k-d tree over fixed-dimension points, used for the
// radius queries that drive density-connectivity. Points are referenced by
// their original index so cluster labels map straight back to windows.
type kdTree struct {
	points [][]float64
	dims   int
	root   *kdNode
}

type kdNode struct {
	index       int // index into points
	axis        int
	left, right *kdNode
}

// newKDTree builds a balanced tree by splitting on the median along cycling
// axes. All points must share the same dimensionality.
func newKDTree(points [][]float64) *kdTree {
	t := &kdTree{points: points}
	if len(points) == 0 {
		return t
	}
	t.dims = len(points[0])
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(idx, 0)
	return t
}

func (t *kdTree) build(idx []int, depth int) *kdNode {
	if len(idx) == 0 {
		return nil
	}
	axis := depth % t.dims
	sort.Slice(idx, func(i, j int) bool {
		a, b := t.points[idx[i]], t.points[idx[j]]
		if a[axis] != b[axis] {
			return a[axis] < b[axis]
		}
		return idx[i] < idx[j] // stable under duplicate coordinates
	})
	mid := len(idx) / 2
	node := &kdNode{index: idx[mid], axis: axis}
	node.left = t.build(idx[:mid], depth+1)
	node.right = t.build(idx[mid+1:], depth+1)
	return node
}

// radius returns the indices of all points within eps (euclidean) of point
// i, excluding i itself, sorted ascending so traversal order is reproducible.
func (t *kdTree) radius(i int, eps float64) []int {
	if t.root == nil {
		return nil
	}
	var out []int
	t.search(t.root, t.points[i], i, eps, &out)
	sort.Ints(out)
	return out
}

func (t *kdTree) search(n *kdNode, q []float64, self int, eps float64, out *[]int) {
	if n == nil {
		return
	}
	p := t.points[n.index]
	if n.index != self && dist(p, q) <= eps {
		*out = append(*out, n.index)
	}
	delta := q[n.axis] - p[n.axis]
	near, far := n.left, n.right
	if delta > 0 {
		near, far = n.right, n.left
	}
	t.search(near, q, self, eps, out)
	if math.Abs(delta) <= eps {
		t.search(far, q, self, eps, out)
	}
}

func dist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
